// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package temporal

import (
	"log/slog"
	"math"

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/signal"
)

// window tells, for every input segment k, the half-open range of output
// times [enter(k), exit(k)) during which the segment overlaps the sliding
// window. The last segment never leaves. Output is produced on [from, to].
type window struct {
	from, to float64
	enter    func(k int) float64
	exit     func(k int) float64
}

// futureWindow places [t+a, t+b] over s. Segment k = [τ_k, τ_{k+1}) overlaps
// it while τ_k - b <= t < τ_{k+1} - a.
func futureWindow[T any](s *signal.Signal[T], iv signal.Interval) window {
	return window{
		from:  s.Start(),
		to:    s.End() - iv.End,
		enter: func(k int) float64 { return s.At(k).Time - iv.End },
		exit:  func(k int) float64 { return s.At(k+1).Time - iv.Start },
	}
}

// pastWindow places [t-b, t-a] over s. Segment k overlaps it while
// τ_k + a <= t < τ_{k+1} + b.
func pastWindow[T any](s *signal.Signal[T], iv signal.Interval) window {
	return window{
		from:  s.Start() + iv.End,
		to:    s.End(),
		enter: func(k int) float64 { return s.At(k).Time + iv.Start },
		exit:  func(k int) float64 { return s.At(k+1).Time + iv.End },
	}
}

// slide reduces s with op over a sliding window.
//
// Description:
//
//	Sweeps the enter and exit events of every segment in time order. The
//	deque holds segment indices in increasing order whose values are
//	strictly preferred by op from back to front: a new segment first
//	evicts every segment it dominates from the back, and a leaving segment
//	is removed from the front if it is still there. The front is the
//	reduction of the window. One output breakpoint is produced per event
//	time; equal consecutive values are merged.
//
// Complexity: O(n) for n breakpoints. Every segment is pushed and popped
// at most once and the window width never enters the loop.
func slide[T any](name string, dom domain.Domain[T], op func(a, b T) T, s *signal.Signal[T], w window) *signal.Signal[T] {
	if w.from > w.to {
		slog.Debug("temporal window has an empty domain",
			slog.String("operator", name),
			slog.Float64("from", w.from),
			slog.Float64("to", w.to))
		return signal.New[T]()
	}

	n := s.Len()
	b := signal.NewBuilder(dom.Equal)
	same := domain.StrictEqual(dom)
	deque := make([]int, 0, n)
	head := 0
	entered, left := 0, 0
	events, longest := 0, 0

	for t := w.from; ; {
		for entered < n && w.enter(entered) <= t {
			v := s.At(entered).Value
			for len(deque) > head && same(op(s.At(deque[len(deque)-1]).Value, v), v) {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, entered)
			entered++
		}
		for left < n-1 && w.exit(left) <= t {
			if head < len(deque) && deque[head] == left {
				head++
			}
			left++
		}
		longest = max(longest, len(deque)-head)
		events++
		b.Add(t, s.At(deque[head]).Value)

		next := math.Inf(1)
		if entered < n {
			next = w.enter(entered)
		}
		if left < n-1 {
			next = math.Min(next, w.exit(left))
		}
		if next > w.to {
			break
		}
		t = next
	}

	windowEvents.WithLabelValues(name).Observe(float64(events))
	windowDequeLength.WithLabelValues(name).Observe(float64(longest))
	return b.Build(w.to)
}
