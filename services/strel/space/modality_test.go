// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package space

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	T = true
	F = false
)

// constant builds a spatio-temporal signal holding values on [0, end].
func constant[V any](t *testing.T, end float64, values ...V) *signal.SpatialTemporalSignal[V] {
	t.Helper()
	s := signal.NewSpatialTemporal[V](len(values))
	require.NoError(t, s.Append(0, values))
	require.NoError(t, s.EndAt(end))
	return s
}

func TestSomewhereEverywhere_PathGraph(t *testing.T) {
	g := pathGraph(t, 5)
	ds := floatDistance(0, 1).Build(g)
	dom := domain.Boolean()
	s := []bool{F, F, T, F, F}

	assert.Equal(t, []bool{F, T, T, T, F}, Somewhere(ds, dom, s))
	assert.Equal(t, []bool{F, F, F, F, F}, Everywhere(ds, dom, s))

	all := []bool{T, T, T, T, F}
	assert.Equal(t, []bool{T, T, T, F, F}, Everywhere(ds, dom, all))
}

func TestSomewhereEverywhere_Duality(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	dom := domain.Robustness()
	for round := 0; round < 10; round++ {
		g := randomGraph(t, rng, 8, 0.3)
		ds := floatDistance(float64(rng.Intn(3)), float64(3+rng.Intn(10))).Build(g)
		s := make([]float64, g.Size())
		neg := make([]float64, g.Size())
		for i := range s {
			s[i] = math.Round(rng.NormFloat64()*100) / 10
			neg[i] = -s[i]
		}
		every := Everywhere(ds, dom, s)
		some := Somewhere(ds, dom, neg)
		for i := range every {
			assert.Equal(t, every[i], -some[i], "location %d", i)
		}
	}
}

func TestReach_PathGraph(t *testing.T) {
	g := pathGraph(t, 5)
	dom := domain.Boolean()
	s1 := []bool{T, T, T, T, F}
	s2 := []bool{F, F, F, F, T}

	out := Reach(floatDistance(0, 4).Build(g), dom, s1, s2)
	assert.Equal(t, []bool{T, T, T, T, T}, out)

	// location 4 lies at distance 4 from location 0
	out = Reach(floatDistance(0, 2).Build(g), dom, s1, s2)
	assert.Equal(t, []bool{F, F, T, T, T}, out)

	// walks may revisit locations: 2 -> 1 -> 2 -> 3 -> 4 has length 4
	out = Reach(floatDistance(3, 4).Build(g), dom, s1, s2)
	assert.Equal(t, []bool{T, T, T, T, F}, out)
}

func TestReach_EveryPriorLocationMustSatisfyFirstOperand(t *testing.T) {
	g := pathGraph(t, 5)
	s1 := []bool{T, T, F, F, F}
	s2 := []bool{F, F, F, F, T}

	out := Reach(floatDistance(0, 4).Build(g), domain.Boolean(), s1, s2)
	assert.Equal(t, []bool{F, F, F, F, T}, out)
}

func TestReach_ZeroBoundIsSecondOperand(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := randomGraph(t, rng, 10, 0.25)
	ds := floatDistance(0, 0).Build(g)
	dom := domain.Robustness()

	s1 := make([]float64, g.Size())
	s2 := make([]float64, g.Size())
	for i := range s1 {
		s1[i] = float64(rng.Intn(21) - 10)
		s2[i] = float64(rng.Intn(21) - 10)
	}
	out := Reach(ds, dom, s1, s2)
	assert.Equal(t, s2, out)
	for i := range out {
		assert.Equal(t, math.Min(s1[i], s2[i]), dom.Conjunction(s1[i], out[i]))
	}
}

func TestReach_RobustnessTakesBestPath(t *testing.T) {
	// 0 -> 1 -> 3 and 0 -> 2 -> 3
	g, err := NewGraph(4,
		Edge[float64]{From: 0, To: 1, Label: 1},
		Edge[float64]{From: 1, To: 3, Label: 1},
		Edge[float64]{From: 0, To: 2, Label: 1},
		Edge[float64]{From: 2, To: 3, Label: 1},
	)
	require.NoError(t, err)
	s1 := []float64{5, -1, 3, 0}
	s2 := []float64{-9, -9, -9, 4}

	out := Reach(floatDistance(2, 2).Build(g), domain.Robustness(), s1, s2)
	// via 2: min(5, 3, 4) = 3; via 1: min(5, -1, 4) = -1
	assert.Equal(t, 3.0, out[0])
	assert.Equal(t, math.Inf(-1), out[3])
}

func TestReach_UnboundedOnCycles(t *testing.T) {
	g := pathGraph(t, 5)
	dom := domain.Boolean()
	s1 := []bool{T, T, T, T, F}
	s2 := []bool{F, F, F, F, T}

	out := Reach(floatDistance(0, math.Inf(1)).Build(g), dom, s1, s2)
	assert.Equal(t, []bool{T, T, T, T, T}, out)

	// walks to 4 must bounce to reach length 6; 4 itself fails s1
	out = Reach(floatDistance(6, math.Inf(1)).Build(g), dom, s1, s2)
	assert.Equal(t, []bool{T, T, T, T, F}, out)
}

func TestReach_UnboundedMatchesWideBound(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dom := domain.Boolean()
	for round := 0; round < 10; round++ {
		g := randomGraph(t, rng, 6, 0.35)
		s1 := make([]bool, g.Size())
		s2 := make([]bool, g.Size())
		for i := range s1 {
			s1[i] = rng.Intn(3) > 0
			s2[i] = rng.Intn(4) == 0
		}
		lower := float64(rng.Intn(12))

		unbounded := Reach(floatDistance(lower, math.Inf(1)).Build(g), dom, s1, s2)
		wide := Reach(floatDistance(lower, lower+100).Build(g), dom, s1, s2)
		assert.Equal(t, wide, unbounded, "round %d lower %g", round, lower)
	}
}

func TestEscape_PathGraph(t *testing.T) {
	g := pathGraph(t, 5)
	dom := domain.Boolean()
	s := []bool{T, T, T, F, T}

	out := Escape(floatDistance(2, math.Inf(1)).Build(g), dom, s)
	assert.Equal(t, []bool{T, F, T, F, F}, out)

	out = Escape(floatDistance(3, math.Inf(1)).Build(g), dom, s)
	assert.Equal(t, []bool{F, F, F, F, F}, out)

	out = Escape(floatDistance(0, 0).Build(g), dom, s)
	assert.Equal(t, s, out)
}

func TestEscape_MonotoneInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	dom := domain.Robustness()
	for round := 0; round < 10; round++ {
		g := randomGraph(t, rng, 9, 0.25)
		s := make([]float64, g.Size())
		for i := range s {
			s[i] = float64(rng.Intn(11) - 5)
		}
		var prev []float64
		for upper := 0.0; upper <= 30; upper += 3 {
			out := Escape(floatDistance(0, upper).Build(g), dom, s)
			if prev != nil {
				for i := range out {
					assert.GreaterOrEqual(t, out[i], prev[i], "round %d upper %g location %d", round, upper, i)
				}
			}
			prev = out
		}
	}
}

func TestDynamic_TopologyChangeInsideSegment(t *testing.T) {
	full := pathGraph(t, 3)
	cut, err := NewGraph(3,
		Edge[float64]{From: 0, To: 1, Label: 1},
		Edge[float64]{From: 1, To: 0, Label: 1},
	)
	require.NoError(t, err)

	tl := NewTimeline[float64]()
	require.NoError(t, tl.Add(0, full))
	require.NoError(t, tl.Add(2.5, cut))

	sp := Bind(floatDistance(0, 2), domain.Boolean())
	out, err := sp.Somewhere(context.Background(), tl, constant(t, 5, F, F, T))
	require.NoError(t, err)

	loc0 := out.Signal(0)
	assert.Equal(t, []float64{0, 2.5}, loc0.Times())
	assert.Equal(t, 5.0, loc0.End())
	v, ok := loc0.ValueAt(1)
	require.True(t, ok)
	assert.True(t, v)
	v, ok = loc0.ValueAt(4)
	require.True(t, ok)
	assert.False(t, v)

	v, ok = out.Signal(2).ValueAt(4)
	require.True(t, ok)
	assert.True(t, v)
}

func TestDynamic_TopologyChangeOnSignalBreakpoint(t *testing.T) {
	g := pathGraph(t, 2)
	tl := NewTimeline[float64]()
	require.NoError(t, tl.Add(0, g))
	require.NoError(t, tl.Add(1, g))

	in := signal.NewSpatialTemporal[bool](2)
	require.NoError(t, in.Append(0, []bool{T, F}))
	require.NoError(t, in.Append(1, []bool{F, F}))
	require.NoError(t, in.EndAt(2))

	out, err := Bind(floatDistance(0, 1), domain.Boolean()).Somewhere(context.Background(), tl, in)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, out.Signal(1).Times())
}

func TestDynamic_EmptyLocationService(t *testing.T) {
	out, err := Bind(floatDistance(0, 1), domain.Boolean()).
		Everywhere(context.Background(), NewTimeline[float64](), constant(t, 1, T, T))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Size())
	assert.True(t, out.IsEmpty())
}

func TestDynamic_LocationMismatch(t *testing.T) {
	ls := NewStatic[float64](pathGraph(t, 3))
	_, err := Bind(floatDistance(0, 1), domain.Boolean()).
		Escape(context.Background(), ls, constant(t, 1, T, T))
	assert.ErrorIs(t, err, ErrLocationMismatch)
}

func TestBind_Reach(t *testing.T) {
	ls := NewStatic[float64](pathGraph(t, 5))
	sp := Bind(floatDistance(0, 4), domain.Boolean())

	out, err := sp.Reach(context.Background(), ls,
		constant(t, 3, T, T, T, T, F),
		constant(t, 3, F, F, F, F, T))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		v, ok := out.Signal(i).ValueAt(2)
		require.True(t, ok)
		assert.True(t, v, "location %d", i)
	}
}

func TestSpaceIterator(t *testing.T) {
	g := pathGraph(t, 2)
	tl := NewTimeline[float64]()
	require.NoError(t, tl.Add(1, g))
	require.NoError(t, tl.Add(3, g))

	it := NewSpaceIterator[float64](tl, floatDistance(0, 1))
	it.Init(0)
	assert.Equal(t, 3.0, it.NextTime())
	assert.NotNil(t, it.Distances())
	assert.False(t, it.Advance(2))
	assert.True(t, it.Advance(3))
	assert.True(t, math.IsInf(it.NextTime(), 1))
	assert.Equal(t, 1, it.Switches())
}
