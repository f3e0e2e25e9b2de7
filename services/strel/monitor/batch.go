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
	"context"
	"fmt"

	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/space"
	"golang.org/x/sync/errgroup"
)

// Trace is one named input of a batch evaluation.
type Trace[S any] struct {
	Name   string
	Signal *signal.SpatialTemporalSignal[S]
}

// Result is the output for one Trace.
type Result[T any] struct {
	Name   string
	Output *signal.SpatialTemporalSignal[T]
}

// EvaluateBatch evaluates every trace against the same topology.
//
// Description:
//
//	Runs at most concurrency evaluations at a time (unlimited when
//	concurrency <= 0). The first failure cancels the group: traces that
//	have not started yet are skipped and the error is returned.
//
// Outputs:
//
//   - []Result[T]: In the order of traces.
//   - error: The first evaluation error, wrapped with the trace name, or
//     the context error.
func (m *Monitor[S, T, E]) EvaluateBatch(ctx context.Context, ls space.LocationService[E], traces []Trace[S], concurrency int) ([]Result[T], error) {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	results := make([]Result[T], len(traces))
	for i, tr := range traces {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := m.Evaluate(gctx, ls, tr.Signal)
			if err != nil {
				return fmt.Errorf("trace %q: %w", tr.Name, err)
			}
			results[i] = Result[T]{Name: tr.Name, Output: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
