// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolSignal(t *testing.T, end float64, samples ...Sample[bool]) *Signal[bool] {
	t.Helper()
	s, err := FromSamples(end, samples...)
	require.NoError(t, err)
	return s
}

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		wantErr    bool
	}{
		{"point", 0, 0, false},
		{"bounded", 1, 3, false},
		{"unbounded", 2, math.Inf(1), false},
		{"negative start", -1, 3, true},
		{"reversed", 3, 1, true},
		{"nan", math.NaN(), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterval(tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInterval)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.False(t, Interval{Start: 0, End: math.Inf(1)}.IsBounded())
	assert.Equal(t, "[1, 2]", Interval{Start: 1, End: 2}.String())
}

func TestSignal_AppendRejectsNonMonotoneTimes(t *testing.T) {
	s := New[int]()
	require.NoError(t, s.Append(0, 1))
	require.NoError(t, s.Append(2, 2))
	assert.ErrorIs(t, s.Append(2, 3), ErrNonMonotoneTime)
	assert.ErrorIs(t, s.Append(1, 3), ErrNonMonotoneTime)
	assert.ErrorIs(t, s.EndAt(1), ErrNonMonotoneTime)
	require.NoError(t, s.EndAt(5))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 5.0, s.End())
	assert.ErrorIs(t, New[int]().EndAt(1), ErrEmptySignal)
}

func TestSignal_AppendRejectsNaNTimes(t *testing.T) {
	s := New[int]()
	assert.ErrorIs(t, s.Append(math.NaN(), 1), ErrNonMonotoneTime)
	require.NoError(t, s.Append(0, 1))
	assert.ErrorIs(t, s.Append(math.NaN(), 2), ErrNonMonotoneTime)
	assert.ErrorIs(t, s.EndAt(math.NaN()), ErrNonMonotoneTime)
	assert.Equal(t, 1, s.Len())

	_, err := FromSamples(math.NaN(), Sample[int]{Time: 0, Value: 1})
	assert.ErrorIs(t, err, ErrNonMonotoneTime)
}

func TestSignal_ValueAt(t *testing.T) {
	s := boolSignal(t, 4, Sample[bool]{0, true}, Sample[bool]{1, false}, Sample[bool]{3, true})

	tests := []struct {
		at     float64
		want   bool
		wantOK bool
	}{
		{-0.5, false, false},
		{0, true, true},
		{0.99, true, true},
		{1, false, true},
		{2.5, false, true},
		{3, true, true},
		{4, true, true},
		{4.1, false, false},
	}
	for _, tt := range tests {
		v, ok := s.ValueAt(tt.at)
		assert.Equal(t, tt.wantOK, ok, "t=%g", tt.at)
		if ok {
			assert.Equal(t, tt.want, v, "t=%g", tt.at)
		}
	}
}

func TestSignal_CompactShiftRestrict(t *testing.T) {
	s := boolSignal(t, 6,
		Sample[bool]{0, true}, Sample[bool]{1, true}, Sample[bool]{2, false}, Sample[bool]{4, false}, Sample[bool]{5, true})

	c := s.Compact(func(a, b bool) bool { return a == b })
	assert.Equal(t, []float64{0, 2, 5}, c.Times())
	assert.Equal(t, 6.0, c.End())

	sh := c.Shift(-2)
	assert.Equal(t, []float64{-2, 0, 3}, sh.Times())
	assert.Equal(t, 4.0, sh.End())

	r := c.Restrict(1, 5.5)
	assert.Equal(t, []Sample[bool]{{1, true}, {2, false}, {5, true}}, r.Samples())
	assert.Equal(t, 5.5, r.End())

	assert.True(t, c.Restrict(7, 9).IsEmpty())
	assert.True(t, c.Restrict(3, 2).IsEmpty())
}

func TestCursor_Traversal(t *testing.T) {
	s := boolSignal(t, 3, Sample[bool]{0, true}, Sample[bool]{1, false})
	c := s.Cursor()
	require.False(t, c.Done())
	assert.Equal(t, 0.0, c.Time())
	assert.Equal(t, 1.0, c.NextTime())
	c.Next()
	assert.False(t, c.HasNext())
	assert.Equal(t, 3.0, c.NextTime())
	c.Next()
	assert.True(t, c.Done())
	assert.True(t, math.IsInf(c.NextTime(), 1))

	c.Seek(0.5)
	assert.Equal(t, 0.0, c.Time())
	c.Previous()
	assert.True(t, c.Done())
	c.Last()
	assert.Equal(t, 1.0, c.Time())
}

func TestApplyBinary_MergesBreakpointsOnIntersection(t *testing.T) {
	a, err := FromSamples(10, Sample[int]{0, 1}, Sample[int]{4, 2}, Sample[int]{8, 3})
	require.NoError(t, err)
	b, err := FromSamples(9, Sample[int]{2, 10}, Sample[int]{4, 20}, Sample[int]{6, 30})
	require.NoError(t, err)

	sum := ApplyBinary(a, b, func(x, y int) int { return x + y })
	assert.Equal(t, []Sample[int]{{2, 11}, {4, 22}, {6, 32}, {8, 33}}, sum.Samples())
	assert.Equal(t, 2.0, sum.Start())
	assert.Equal(t, 9.0, sum.End())
}

func TestApplyBinary_DisjointDomainsAreEmpty(t *testing.T) {
	a, err := FromSamples(1, Sample[int]{0, 1})
	require.NoError(t, err)
	b, err := FromSamples(5, Sample[int]{2, 1})
	require.NoError(t, err)
	assert.True(t, ApplyBinary(a, b, func(x, y int) int { return x }).IsEmpty())
	assert.True(t, ApplyBinary(New[int](), b, func(x, y int) int { return x }).IsEmpty())
}

func TestApply_KeepsBreakpoints(t *testing.T) {
	s := boolSignal(t, 2, Sample[bool]{0, true}, Sample[bool]{1, false})
	neg := Apply(s, func(v bool) bool { return !v })
	assert.Equal(t, []Sample[bool]{{0, false}, {1, true}}, neg.Samples())
	assert.Equal(t, 2.0, neg.End())
}

func TestZip(t *testing.T) {
	a := boolSignal(t, 2, Sample[bool]{0, true})
	b, err := FromSamples(2, Sample[int]{0, 1}, Sample[int]{1, 2})
	require.NoError(t, err)
	z := Zip(a, b)
	require.Equal(t, 2, z.Len())
	assert.Equal(t, Pair[bool, int]{First: true, Second: 2}, z.At(1).Value)
}

func TestBuilder_MergesEqualValues(t *testing.T) {
	b := NewBuilder(func(a, c bool) bool { return a == c })
	b.Add(0, true)
	b.Add(1, true)
	b.Add(2, false)
	b.Add(2, true) // replaces the value at 2, which then merges
	b.Add(3, false)
	s := b.Build(5)

	assert.Equal(t, []Sample[bool]{{Time: 0, Value: true}, {Time: 3, Value: false}}, s.Samples())
	assert.Equal(t, 5.0, s.End())
	assert.True(t, NewBuilder[int](nil).Build(1).IsEmpty())
}

func TestFold(t *testing.T) {
	s, err := FromSamples(4, Sample[int]{0, 1}, Sample[int]{1, 2}, Sample[int]{3, 3})
	require.NoError(t, err)
	sum := func(v, acc int) int { return v + acc }

	forward := Fold(s, 0, sum)
	assert.Equal(t, []Sample[int]{{0, 1}, {1, 3}, {3, 6}}, forward.Samples())
	assert.Equal(t, 4.0, forward.End())

	backward := FoldBack(s, 10, sum)
	assert.Equal(t, []Sample[int]{{0, 16}, {1, 15}, {3, 13}}, backward.Samples())
}
