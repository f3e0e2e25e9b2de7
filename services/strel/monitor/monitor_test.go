// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package monitor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/space"
	"github.com/AleutianAI/strel/services/strel/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

type (
	boolNode   = Node[float64, bool, float64]
	robustNode = Node[float64, float64, float64]
)

func above(c float64) *boolNode {
	return Atomic[float64, bool, float64](fmt.Sprintf("x>%g", c), func(x float64) bool { return x > c })
}

func margin(c float64) *robustNode {
	return Atomic[float64, float64, float64](fmt.Sprintf("x-%g", c), func(x float64) float64 { return x - c })
}

func interval(t *testing.T, a, b float64) *signal.Interval {
	t.Helper()
	iv, err := signal.NewInterval(a, b)
	require.NoError(t, err)
	return iv
}

// trace builds an input where rows[k] holds every location's value from
// time k on.
func trace(t *testing.T, end float64, rows ...[]float64) *signal.SpatialTemporalSignal[float64] {
	t.Helper()
	s := signal.NewSpatialTemporal[float64](len(rows[0]))
	for k, row := range rows {
		require.NoError(t, s.Append(float64(k), row))
	}
	require.NoError(t, s.EndAt(end))
	return s
}

func path(t *testing.T, n int) space.LocationService[float64] {
	t.Helper()
	b := space.NewGraphBuilder[float64](n)
	for i := 0; i+1 < n; i++ {
		require.NoError(t, b.AddUndirectedEdge(i, i+1, 1))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return space.NewStatic[float64](g)
}

func hops[T any](dom domain.Domain[T], lower, upper float64) space.Spatial[float64, T] {
	return space.Bind(space.DistanceFunction[float64, float64]{
		Domain: domain.FloatDistance(),
		Weight: func(w float64) float64 { return w },
		Lower:  lower,
		Upper:  upper,
	}, dom)
}

func valueAt[T any](t *testing.T, s *signal.SpatialTemporalSignal[T], loc int, at float64) T {
	t.Helper()
	v, ok := s.Signal(loc).ValueAt(at)
	require.True(t, ok, "location %d has no value at %g", loc, at)
	return v
}

func TestNew_RejectsMalformedTrees(t *testing.T) {
	tests := []struct {
		name string
		root *boolNode
		want error
	}{
		{"nil root", nil, ErrNilNode},
		{"nil operand", And(above(0), nil), ErrNilNode},
		{"missing atom function", Not(Atomic[float64, bool, float64]("p", nil)), ErrMissingAtom},
		{"missing distance", Somewhere("near", nil, above(0)), ErrMissingSpatial},
		{"invalid interval", Eventually(&signal.Interval{Start: 3, End: 1}, above(0)), signal.ErrInvalidInterval},
		{"unknown kind", &boolNode{kind: Kind(99)}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(domain.Boolean(), tt.root)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNode_String(t *testing.T) {
	p := Atomic[float64, bool, float64]("p", func(float64) bool { return true })
	q := Atomic[float64, bool, float64]("q", func(float64) bool { return false })
	f := And(p, Eventually(interval(t, 0, 2), Reach(p, "near", hops(domain.Boolean(), 0, 1), q)))

	assert.Equal(t, "and(p, eventually[0, 2](reach{near}(p, q)))", f.String())
	assert.Equal(t, KindAnd, f.Kind())
	assert.Len(t, f.Children(), 2)
	assert.Equal(t, "reach", KindReach.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestEvaluate_AlternatingSignal(t *testing.T) {
	rows := make([][]float64, 10)
	for k := range rows {
		rows[k] = []float64{float64((k + 1) % 2)}
	}
	input := trace(t, 10, rows...)
	iv := interval(t, 0, 2)

	ev, err := New(domain.Boolean(), Eventually(iv, above(0.5)))
	require.NoError(t, err)
	out, err := ev.Evaluate(context.Background(), space.NewTimeline[float64](), input)
	require.NoError(t, err)
	assert.Equal(t, []signal.Sample[bool]{{Time: 0, Value: true}}, out.Signal(0).Samples())
	assert.Equal(t, 8.0, out.Signal(0).End())

	gl, err := New(domain.Boolean(), Globally(iv, above(0.5)))
	require.NoError(t, err)
	out, err = gl.Evaluate(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, []signal.Sample[bool]{{Time: 0, Value: false}}, out.Signal(0).Samples())
}

func TestEvaluate_Connectives(t *testing.T) {
	input := trace(t, 4, []float64{0}, []float64{2}, []float64{5}, []float64{1})

	m, err := New(domain.Boolean(), Implies(above(1), above(3)))
	require.NoError(t, err)
	out, err := m.Evaluate(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, []signal.Sample[bool]{
		{Time: 0, Value: true},
		{Time: 1, Value: false},
		{Time: 2, Value: true},
	}, out.Signal(0).Samples())

	r, err := New(domain.Robustness(), Or(margin(3), Not(margin(1))))
	require.NoError(t, err)
	rob, err := r.Evaluate(context.Background(), nil, input)
	require.NoError(t, err)
	// max(x-3, 1-x)
	assert.Equal(t, []float64{1, -1, 2, 0}, []float64{
		valueAt(t, rob, 0, 0.5), valueAt(t, rob, 0, 1.5), valueAt(t, rob, 0, 2.5), valueAt(t, rob, 0, 3.5),
	})
}

func TestEvaluate_ReachScenario(t *testing.T) {
	// s1 holds below 10, s2 holds above 20.
	s1 := Atomic[float64, bool, float64]("s1", func(x float64) bool { return x < 10 })
	s2 := Atomic[float64, bool, float64]("s2", func(x float64) bool { return x > 20 })
	input := trace(t, 5, []float64{0, 0, 0, 0, 30})
	ls := path(t, 5)

	far, err := New(domain.Boolean(), Reach(s1, "d4", hops(domain.Boolean(), 0, 4), s2))
	require.NoError(t, err)
	out, err := far.Evaluate(context.Background(), ls, input)
	require.NoError(t, err)
	assert.True(t, valueAt(t, out, 0, 1))

	near, err := New(domain.Boolean(), Reach(s1, "d2", hops(domain.Boolean(), 0, 2), s2))
	require.NoError(t, err)
	out, err = near.Evaluate(context.Background(), ls, input)
	require.NoError(t, err)
	assert.False(t, valueAt(t, out, 0, 1))
	assert.True(t, valueAt(t, out, 2, 1))
}

func TestEvaluate_EverywhereIsDualOfSomewhere(t *testing.T) {
	input := trace(t, 3,
		[]float64{1, 4, -2, 7, 0},
		[]float64{3, -1, 5, 2, 2},
		[]float64{0, 0, 6, -3, 1},
	)
	ls := path(t, 5)
	d := hops(domain.Robustness(), 0, 2)

	every, err := New(domain.Robustness(), Everywhere("d", d, margin(1)))
	require.NoError(t, err)
	dual, err := New(domain.Robustness(), Not(Somewhere("d", d, Not(margin(1)))))
	require.NoError(t, err)

	a, err := every.Evaluate(context.Background(), ls, input)
	require.NoError(t, err)
	b, err := dual.Evaluate(context.Background(), ls, input)
	require.NoError(t, err)
	for loc := 0; loc < 5; loc++ {
		for _, at := range []float64{0.5, 1.5, 2.5} {
			assert.Equal(t, valueAt(t, a, loc, at), valueAt(t, b, loc, at), "location %d at %g", loc, at)
		}
	}
}

func TestEvaluate_SpatioTemporalNesting(t *testing.T) {
	// a hot spot moves 0 -> 2 -> 4 along the path
	input := trace(t, 3,
		[]float64{9, 0, 0, 0, 0},
		[]float64{0, 0, 9, 0, 0},
		[]float64{0, 0, 0, 0, 9},
	)
	f := Eventually(interval(t, 0, 1), Somewhere("d1", hops(domain.Boolean(), 0, 1), above(5)))
	m, err := New(domain.Boolean(), f)
	require.NoError(t, err)

	out, err := m.Evaluate(context.Background(), path(t, 5), input)
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.Signal(0).End())
	assert.True(t, valueAt(t, out, 0, 0))
	assert.False(t, valueAt(t, out, 0, 1.5))
	assert.True(t, valueAt(t, out, 3, 1.5))
	assert.False(t, valueAt(t, out, 4, 0.5))
}

func TestEvaluate_LocationMismatch(t *testing.T) {
	m, err := New(domain.Boolean(), Somewhere("d", hops(domain.Boolean(), 0, 1), above(0)))
	require.NoError(t, err)
	_, err = m.Evaluate(context.Background(), path(t, 3), trace(t, 1, []float64{1, 2}))
	assert.ErrorIs(t, err, ErrLocationMismatch)
}

func TestEvaluate_EmptyTopologyYieldsEmptySpatialOutput(t *testing.T) {
	m, err := New(domain.Boolean(), Somewhere("d", hops(domain.Boolean(), 0, 1), above(0)))
	require.NoError(t, err)
	out, err := m.Evaluate(context.Background(), space.NewTimeline[float64](), trace(t, 1, []float64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Size())
	assert.True(t, out.IsEmpty())
}

func TestEvaluate_IsRepeatable(t *testing.T) {
	m, err := New(domain.Robustness(), Historically(interval(t, 0, 1), margin(0)))
	require.NoError(t, err)
	input := trace(t, 4, []float64{3}, []float64{1}, []float64{2}, []float64{5})

	first, err := m.Evaluate(context.Background(), nil, input)
	require.NoError(t, err)
	second, err := m.Evaluate(context.Background(), nil, input)
	require.NoError(t, err)
	assert.Equal(t, first.Signal(0).Samples(), second.Signal(0).Samples())
	assert.Equal(t, []signal.Sample[float64]{{Time: 1, Value: 1}, {Time: 3, Value: 2}, {Time: 4, Value: 5}}, first.Signal(0).Samples())
}

func TestEvaluate_MetricsAndLogging(t *testing.T) {
	metrics, err := telemetry.NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := New(domain.Boolean(), Once(nil, above(1)), WithMetrics(metrics), WithLogger(logger))
	require.NoError(t, err)
	_, err = m.Evaluate(context.Background(), nil, trace(t, 2, []float64{0}, []float64{2}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "formula evaluated")
	assert.Contains(t, buf.String(), "semantics=boolean")
}

func TestEvaluateBatch(t *testing.T) {
	m, err := New(domain.Robustness(), Eventually(nil, margin(0)))
	require.NoError(t, err)

	traces := []Trace[float64]{
		{Name: "a", Signal: trace(t, 2, []float64{1, -1}, []float64{4, 0})},
		{Name: "b", Signal: trace(t, 2, []float64{-5, 3}, []float64{-6, 2})},
		{Name: "c", Signal: trace(t, 2, []float64{0, 0})},
	}
	results, err := m.EvaluateBatch(context.Background(), path(t, 2), traces, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, 4.0, valueAt(t, results[0].Output, 0, 0))
	assert.Equal(t, -5.0, valueAt(t, results[1].Output, 0, 0))
	assert.Equal(t, 3.0, valueAt(t, results[1].Output, 1, 0))

	traces = append(traces, Trace[float64]{Name: "bad", Signal: trace(t, 1, []float64{1, 2, 3})})
	_, err = m.EvaluateBatch(context.Background(), path(t, 2), traces, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationMismatch)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestEvaluateBatch_CanceledContext(t *testing.T) {
	m, err := New(domain.Boolean(), above(0))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.EvaluateBatch(ctx, nil, []Trace[float64]{{Name: "a", Signal: trace(t, 1, []float64{1})}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
