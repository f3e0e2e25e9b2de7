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

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/signal"
)

// Spatial evaluates the spatial modalities of one distance function over
// whole signals. It hides the distance domain so that formula trees only
// depend on the edge label type E and the truth type T.
type Spatial[E, T any] interface {
	Somewhere(ctx context.Context, ls LocationService[E], s *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error)
	Everywhere(ctx context.Context, ls LocationService[E], s *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error)
	Escape(ctx context.Context, ls LocationService[E], s *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error)
	Reach(ctx context.Context, ls LocationService[E], s1, s2 *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error)
}

// Bind pairs a distance function with a truth domain.
func Bind[E, A, T any](fn DistanceFunction[E, A], dom domain.Domain[T]) Spatial[E, T] {
	return &bound[E, A, T]{fn: fn, dom: dom}
}

type bound[E, A, T any] struct {
	fn  DistanceFunction[E, A]
	dom domain.Domain[T]
}

func (b *bound[E, A, T]) Somewhere(ctx context.Context, ls LocationService[E], s *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error) {
	return Dynamic(ctx, "somewhere", ls, b.fn, s, func(ds *DistanceStructure[E, A], v []T) []T {
		return Somewhere(ds, b.dom, v)
	})
}

func (b *bound[E, A, T]) Everywhere(ctx context.Context, ls LocationService[E], s *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error) {
	return Dynamic(ctx, "everywhere", ls, b.fn, s, func(ds *DistanceStructure[E, A], v []T) []T {
		return Everywhere(ds, b.dom, v)
	})
}

func (b *bound[E, A, T]) Escape(ctx context.Context, ls LocationService[E], s *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error) {
	return Dynamic(ctx, "escape", ls, b.fn, s, func(ds *DistanceStructure[E, A], v []T) []T {
		return Escape(ds, b.dom, v)
	})
}

func (b *bound[E, A, T]) Reach(ctx context.Context, ls LocationService[E], s1, s2 *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error) {
	zipped, err := signal.Map2(s1, s2, signal.Zip[T, T])
	if err != nil {
		return nil, err
	}
	return Dynamic(ctx, "reach", ls, b.fn, zipped, func(ds *DistanceStructure[E, A], v []signal.Pair[T, T]) []T {
		first := make([]T, len(v))
		second := make([]T, len(v))
		for i, p := range v {
			first[i], second[i] = p.First, p.Second
		}
		return Reach(ds, b.dom, first, second)
	})
}
