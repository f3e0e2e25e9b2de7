// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scenario

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/monitor"
	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/telemetry"
)

// RunOptions tunes Run. The zero value is usable.
type RunOptions struct {
	// Concurrency bounds parallel trace evaluations; <= 0 is unlimited.
	Concurrency int
	// Tolerance is the robustness fixpoint tolerance.
	Tolerance float64
	Metrics   *telemetry.Metrics
	Logger    *slog.Logger
}

// Report is the outcome of running a document.
type Report struct {
	Name      string        `json:"name,omitempty"`
	Semantics string        `json:"semantics"`
	Formula   string        `json:"formula"`
	Results   []TraceResult `json:"results"`
}

// TraceResult holds the output of one trace.
type TraceResult struct {
	Trace     string           `json:"trace"`
	Locations []LocationResult `json:"locations"`
}

// LocationResult is the output signal at one location. An empty signal has
// no points and no end.
type LocationResult struct {
	Location int      `json:"location"`
	End      *float64 `json:"end,omitempty"`
	Points   []Point  `json:"points,omitempty"`
}

// Point is one breakpoint of an output signal. Value is a bool or a
// Robustness.
type Point struct {
	Time  float64 `json:"time"`
	Value any     `json:"value"`
}

// Robustness encodes infinities as the strings "inf" and "-inf".
type Robustness float64

// MarshalJSON implements json.Marshaler.
func (r Robustness) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(f)
}

func (r Robustness) String() string {
	return strconv.FormatFloat(float64(r), 'g', -1, 64)
}

// Run compiles doc under its semantics and evaluates every trace.
func Run(ctx context.Context, doc *Document, opts RunOptions) (*Report, error) {
	var mopts []monitor.Option
	if opts.Metrics != nil {
		mopts = append(mopts, monitor.WithMetrics(opts.Metrics))
	}
	if opts.Logger != nil {
		mopts = append(mopts, monitor.WithLogger(opts.Logger))
	}

	if doc.SemanticsName() == SemanticsRobustness {
		dom := domain.Robustness(domain.WithTolerance(opts.Tolerance))
		return run(ctx, doc, dom, RobustnessAtom, opts.Concurrency, mopts,
			func(v float64) any { return Robustness(v) })
	}
	return run(ctx, doc, domain.Boolean(), BooleanAtom, opts.Concurrency, mopts,
		func(v bool) any { return v })
}

func run[T any](
	ctx context.Context,
	doc *Document,
	dom domain.Domain[T],
	atom AtomFunc[T],
	concurrency int,
	mopts []monitor.Option,
	encode func(T) any,
) (*Report, error) {
	c, err := Compile(doc, dom, atom, mopts...)
	if err != nil {
		return nil, err
	}
	results, err := c.Monitor.EvaluateBatch(ctx, c.Topology, c.Traces, concurrency)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:      doc.Name,
		Semantics: doc.SemanticsName(),
		Formula:   c.Monitor.Root().String(),
		Results:   make([]TraceResult, 0, len(results)),
	}
	for _, r := range results {
		report.Results = append(report.Results, TraceResult{
			Trace:     r.Name,
			Locations: locations(r.Output, encode),
		})
	}
	return report, nil
}

func locations[T any](out *signal.SpatialTemporalSignal[T], encode func(T) any) []LocationResult {
	locs := make([]LocationResult, out.Size())
	for i := range locs {
		s := out.Signal(i)
		locs[i].Location = i
		if s.IsEmpty() {
			continue
		}
		end := s.End()
		locs[i].End = &end
		for _, sample := range s.Samples() {
			locs[i].Points = append(locs[i].Points, Point{Time: sample.Time, Value: encode(sample.Value)})
		}
	}
	return locs
}
