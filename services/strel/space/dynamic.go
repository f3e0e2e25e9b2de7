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
	"fmt"
	"log/slog"

	"github.com/AleutianAI/strel/services/strel/signal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operator computes per-location output values from per-location input
// values under one distance structure.
type Operator[E, A, V, T any] func(ds *DistanceStructure[E, A], values []V) []T

// Dynamic evaluates op along input while the topology of ls evolves.
//
// Description:
//
//	Merge-walks the breakpoints of input with the breakpoints of ls. At
//	each input breakpoint t the operator runs on the values holding at t
//	with the distance structure valid at t. Whenever a topology breakpoint
//	falls strictly inside the current input segment an extra output
//	breakpoint is emitted there: same input values, new distance
//	structure. The output breakpoints are therefore the union of both
//	timelines restricted to the input domain.
//
// Inputs:
//
//   - ctx: Context used for tracing only.
//   - name: Operator name for spans and metrics.
//   - ls: Location service. An empty service yields an empty output.
//   - fn: Distance function used to build each DistanceStructure.
//   - input: Per-location input signal.
//   - op: The spatial modality.
//
// Outputs:
//
//   - *signal.SpatialTemporalSignal[T]: Output, same location count as input.
//   - error: ErrLocationMismatch when the topology and input sizes differ.
//
// Thread Safety: Safe for concurrent use with distinct inputs; every call
// builds its own distance structures.
func Dynamic[E, A, V, T any](
	ctx context.Context,
	name string,
	ls LocationService[E],
	fn DistanceFunction[E, A],
	input *signal.SpatialTemporalSignal[V],
	op Operator[E, A, V, T],
) (*signal.SpatialTemporalSignal[T], error) {
	_, span := tracer.Start(ctx, "space.Dynamic",
		trace.WithAttributes(
			attribute.String("space.operator", name),
			attribute.Int("space.locations", input.Size()),
		),
	)
	defer span.End()

	out := signal.NewSpatialTemporal[T](input.Size())
	if IsEmpty(ls) {
		slog.Warn("spatial operator evaluated without topology",
			slog.String("operator", name))
		span.AddEvent("empty_location_service")
		return out, nil
	}
	if n := Locations(ls); n != input.Size() {
		return nil, fmt.Errorf("%w: topology has %d locations, signal has %d",
			ErrLocationMismatch, n, input.Size())
	}
	if input.IsEmpty() {
		return out, nil
	}

	times := input.Times()
	end := input.End()
	it := NewSpaceIterator(ls, fn)
	it.Init(times[0])

	for k, t := range times {
		it.Advance(t)
		values, _ := input.ValuesAt(t)
		if err := out.Append(t, op(it.Distances(), values)); err != nil {
			return nil, err
		}

		segmentEnd := end
		if k+1 < len(times) {
			segmentEnd = times[k+1]
		}
		for next := it.NextTime(); next > t && next < segmentEnd; next = it.NextTime() {
			it.Advance(next)
			if err := out.Append(next, op(it.Distances(), values)); err != nil {
				return nil, err
			}
		}
	}
	if err := out.EndAt(end); err != nil {
		return nil, err
	}

	topologySwitches.WithLabelValues(name).Add(float64(it.Switches()))
	span.SetAttributes(
		attribute.Int("space.signal_breakpoints", len(times)),
		attribute.Int("space.topology_switches", it.Switches()),
	)
	slog.Debug("spatial operator evaluated",
		slog.String("operator", name),
		slog.Int("breakpoints", len(times)),
		slog.Int("topology_switches", it.Switches()))
	return out, nil
}
