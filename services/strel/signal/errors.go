// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package signal provides piecewise-constant signals over continuous time.
//
// A Signal is an ordered, duplicate-free sequence of breakpoints
// (Time, Value). Each value holds from its breakpoint until the next one,
// and the last value holds until the declared end of the signal.
//
// A SpatialTemporalSignal is a fixed-size array of signals, one per
// location of a spatial model.
//
// # Thread Safety
//
// Signals are not safe for concurrent mutation. Once fully built they may
// be read from multiple goroutines; every operator in the engine returns a
// new signal rather than mutating its inputs.
package signal

import "errors"

// Sentinel errors for signal construction.
var (
	// ErrNonMonotoneTime is returned when a breakpoint is appended at a time
	// not strictly after the previous breakpoint, or when the declared end
	// precedes the last breakpoint.
	ErrNonMonotoneTime = errors.New("breakpoint times must be strictly increasing")

	// ErrInvalidInterval is returned for intervals with negative start or
	// start greater than end.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrLocationMismatch is returned when two spatio-temporal signals (or a
	// signal and a value vector) disagree on the number of locations.
	ErrLocationMismatch = errors.New("location count mismatch")

	// ErrEmptySignal is returned when an operation needs at least one
	// breakpoint.
	ErrEmptySignal = errors.New("signal has no breakpoints")
)
