// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package monitor composes the signal, temporal and space packages into
// evaluable STREL formula trees.
//
// A formula is a tree of *Node values built with the constructors in this
// package. New checks the tree once and returns a Monitor that can be
// evaluated any number of times on different traces.
package monitor

import "errors"

var (
	// ErrNilNode is returned when a formula has a missing operand.
	ErrNilNode = errors.New("monitor: nil node")

	// ErrMissingAtom is returned for an atomic node without a function.
	ErrMissingAtom = errors.New("monitor: atomic node without function")

	// ErrMissingSpatial is returned for a spatial node without a distance.
	ErrMissingSpatial = errors.New("monitor: spatial node without distance")

	// ErrUnknownKind is returned when a node kind has no evaluator.
	ErrUnknownKind = errors.New("monitor: unknown node kind")

	// ErrLocationMismatch is returned when the trace and the topology have
	// different location counts.
	ErrLocationMismatch = errors.New("monitor: location count mismatch")

	// ErrUnknownAtom is returned when a table has no atom of that name.
	ErrUnknownAtom = errors.New("monitor: unknown atom")

	// ErrUnknownDistance is returned when a table has no distance of that
	// name.
	ErrUnknownDistance = errors.New("monitor: unknown distance")

	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("monitor: name already registered")
)
