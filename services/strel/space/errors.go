// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package space provides the spatial half of the engine.
//
// The package contains:
//
//   - SpatialModel: an immutable weighted directed graph over locations
//     0..Size()-1, built with GraphBuilder.
//   - LocationService: the evolution of the spatial model over time as an
//     ordered sequence of (time, model) breakpoints.
//   - DistanceStructure: all-pairs shortest distances of one model under a
//     DistanceFunction, computed eagerly by DistanceFunction.Build.
//   - Somewhere, Everywhere, Reach, Escape: the spatial modalities, each
//     mapping per-location values to per-location values.
//   - SpaceIterator and Dynamic: evaluation of a spatial modality along a
//     signal while the topology changes underneath it.
//
// # Lifecycle
//
// A DistanceStructure is built for one (topology breakpoint, operator
// evaluation) pair and discarded afterwards. It is never cached across
// evaluations.
//
// # Thread Safety
//
// Models and distance structures are read-only after construction and may
// be shared between goroutines. GraphBuilder and Timeline are not safe for
// concurrent mutation.
//
// # Preconditions
//
// Distance sums must be monotone and the weights must not admit improving
// cycles (for real weights: no negative cycles). Violations are not
// detected and make the relaxation loops diverge.
package space

import "errors"

// Sentinel errors for spatial operations.
var (
	// ErrNodeOutOfRange is returned when an edge references a location
	// outside 0..Size()-1.
	ErrNodeOutOfRange = errors.New("location index out of range")

	// ErrEmptyModel is returned when a model with no locations is built.
	ErrEmptyModel = errors.New("spatial model has no locations")

	// ErrModelFrozen is returned when an edge is added after Build.
	ErrModelFrozen = errors.New("spatial model is frozen and cannot be modified")

	// ErrLocationMismatch is returned when models, or a model and a signal,
	// disagree on the number of locations.
	ErrLocationMismatch = errors.New("location count mismatch")

	// ErrNonMonotoneTime is returned when topology breakpoints are added out
	// of order.
	ErrNonMonotoneTime = errors.New("topology breakpoint times must be strictly increasing")
)
