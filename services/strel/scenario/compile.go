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
	"fmt"
	"math"
	"sort"

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/monitor"
	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/space"
)

// Node is a formula node over scenario inputs and weighted edges.
type Node[T any] = monitor.Node[Values, T, float64]

// AtomFunc turns a comparison into an atomic proposition.
type AtomFunc[T any] func(c Comparison) func(Values) T

// Comparison is the predicate of an atom.
type Comparison struct {
	Var   string
	Cmp   string
	Value float64
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %g", c.Var, c.Cmp, c.Value)
}

// BooleanAtom evaluates a comparison as a truth value.
func BooleanAtom(c Comparison) func(Values) bool {
	return func(v Values) bool {
		x := v[c.Var]
		switch c.Cmp {
		case ">":
			return x > c.Value
		case ">=":
			return x >= c.Value
		case "<":
			return x < c.Value
		case "<=":
			return x <= c.Value
		default:
			return x == c.Value
		}
	}
}

// RobustnessAtom evaluates a comparison as a signed margin: positive when
// the comparison holds, negative when it fails. Equality yields -|x - v|.
func RobustnessAtom(c Comparison) func(Values) float64 {
	return func(v Values) float64 {
		x := v[c.Var]
		switch c.Cmp {
		case ">", ">=":
			return x - c.Value
		case "<", "<=":
			return c.Value - x
		default:
			return -math.Abs(x - c.Value)
		}
	}
}

// Compiled is a document turned into monitor inputs.
type Compiled[T any] struct {
	Monitor  *monitor.Monitor[Values, T, float64]
	Topology space.LocationService[float64]
	Traces   []monitor.Trace[Values]
}

// Compile builds the topology, traces and monitor of doc over dom.
//
// Description:
//
//	Every snapshot becomes one breakpoint of a timeline. Every distance is
//	bound to dom, and every formula node is translated bottom-up. Each
//	sample must carry one value set per location and every variable the
//	formula reads.
func Compile[T any](doc *Document, dom domain.Domain[T], atom AtomFunc[T], opts ...monitor.Option) (*Compiled[T], error) {
	topology, err := buildTopology(doc)
	if err != nil {
		return nil, err
	}
	table, err := bindDistances(doc, dom)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]struct{})
	root, err := buildFormula(doc.Formula, table, atom, vars)
	if err != nil {
		return nil, err
	}
	traces, err := buildTraces(doc, vars)
	if err != nil {
		return nil, err
	}
	m, err := monitor.New(dom, root, opts...)
	if err != nil {
		return nil, err
	}
	return &Compiled[T]{Monitor: m, Topology: topology, Traces: traces}, nil
}

func buildTopology(doc *Document) (space.LocationService[float64], error) {
	tl := space.NewTimeline[float64]()
	for i, snap := range doc.Topology {
		if !finite(snap.Time) {
			return nil, fmt.Errorf("topology[%d]: %w: time %g", i, ErrNonFinite, snap.Time)
		}
		b := space.NewGraphBuilder[float64](doc.Locations)
		for _, e := range snap.Edges {
			w := 1.0
			if e.Weight != nil {
				w = *e.Weight
			}
			if !finite(w) {
				return nil, fmt.Errorf("topology[%d] edge %d->%d: %w: weight %g", i, e.From, e.To, ErrNonFinite, w)
			}
			var err error
			if e.Undirected {
				err = b.AddUndirectedEdge(e.From, e.To, w)
			} else {
				err = b.AddEdge(e.From, e.To, w)
			}
			if err != nil {
				return nil, fmt.Errorf("topology[%d]: %w", i, err)
			}
		}
		g, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("topology[%d]: %w", i, err)
		}
		if err := tl.Add(snap.Time, g); err != nil {
			return nil, fmt.Errorf("topology[%d]: %w", i, err)
		}
	}
	return tl, nil
}

// Table resolves atom and distance names of a scenario formula.
type Table[T any] = monitor.Table[Values, T, float64]

func bindDistances[T any](doc *Document, dom domain.Domain[T]) (*Table[T], error) {
	out := monitor.NewTable[Values, T, float64]()
	for _, d := range doc.Distances {
		upper := math.Inf(1)
		if d.Upper != nil {
			upper = *d.Upper
		}
		if !finite(d.Lower) || math.IsNaN(upper) {
			return nil, fmt.Errorf("distance %q: %w: bounds [%g, %g]", d.Name, ErrNonFinite, d.Lower, upper)
		}
		if upper < d.Lower {
			return nil, fmt.Errorf("%w: distance %q upper %g below lower %g", ErrInvalidDocument, d.Name, upper, d.Lower)
		}

		var sp space.Spatial[float64, T]
		if d.Metric == "hops" {
			// float64(math.MaxInt) is 2^63, one past the largest int.
			if math.Ceil(d.Lower) >= float64(math.MaxInt) {
				return nil, fmt.Errorf("%w: distance %q lower %g exceeds the hop range", ErrInvalidDocument, d.Name, d.Lower)
			}
			hi := math.MaxInt
			if upper < float64(math.MaxInt) {
				hi = int(math.Floor(upper))
			}
			sp = space.Bind(space.DistanceFunction[float64, int]{
				Domain: domain.HopDistance(),
				Weight: func(float64) int { return 1 },
				Lower:  int(math.Ceil(d.Lower)),
				Upper:  hi,
			}, dom)
		} else {
			sp = space.Bind(space.DistanceFunction[float64, float64]{
				Domain: domain.FloatDistance(),
				Weight: func(w float64) float64 { return w },
				Lower:  d.Lower,
				Upper:  upper,
			}, dom)
		}
		if err := out.AddDistance(d.Name, sp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	return out, nil
}

func buildTraces(doc *Document, vars map[string]struct{}) ([]monitor.Trace[Values], error) {
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)

	traces := make([]monitor.Trace[Values], 0, len(doc.Traces))
	for _, tr := range doc.Traces {
		s := signal.NewSpatialTemporal[Values](doc.Locations)
		for k, sample := range tr.Samples {
			if !finite(sample.Time) {
				return nil, fmt.Errorf("trace %q sample %d: %w: time %g", tr.Name, k, ErrNonFinite, sample.Time)
			}
			if len(sample.Values) != doc.Locations {
				return nil, fmt.Errorf("trace %q sample %d: %w: got %d, want %d",
					tr.Name, k, ErrLocationCount, len(sample.Values), doc.Locations)
			}
			for loc, values := range sample.Values {
				for name, x := range values {
					if !finite(x) {
						return nil, fmt.Errorf("trace %q sample %d location %d: %w: %s = %g",
							tr.Name, k, loc, ErrNonFinite, name, x)
					}
				}
				for _, name := range names {
					if _, ok := values[name]; !ok {
						return nil, fmt.Errorf("trace %q sample %d location %d: %w %q",
							tr.Name, k, loc, ErrMissingVariable, name)
					}
				}
			}
			if err := s.Append(sample.Time, sample.Values); err != nil {
				return nil, fmt.Errorf("trace %q sample %d: %w", tr.Name, k, err)
			}
		}
		end := tr.Samples[len(tr.Samples)-1].Time
		if tr.End != nil {
			end = *tr.End
		}
		if !finite(end) {
			return nil, fmt.Errorf("trace %q: %w: end %g", tr.Name, ErrNonFinite, end)
		}
		if err := s.EndAt(end); err != nil {
			return nil, fmt.Errorf("trace %q: %w", tr.Name, err)
		}
		traces = append(traces, monitor.Trace[Values]{Name: tr.Name, Signal: s})
	}
	return traces, nil
}

func buildFormula[T any](f *Formula, table *Table[T], atom AtomFunc[T], vars map[string]struct{}) (*Node[T], error) {
	args := make([]*Node[T], 0, len(f.Args))
	for _, a := range f.Args {
		n, err := buildFormula(a, table, atom, vars)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}

	switch f.Op {
	case "atom":
		if err := arity(f, 0); err != nil {
			return nil, err
		}
		if f.Var == "" || f.Cmp == "" {
			return nil, fmt.Errorf("%w: atom needs var and cmp", ErrInvalidDocument)
		}
		if !finite(f.Value) {
			return nil, fmt.Errorf("atom %s %s: %w: %g", f.Var, f.Cmp, ErrNonFinite, f.Value)
		}
		vars[f.Var] = struct{}{}
		c := Comparison{Var: f.Var, Cmp: f.Cmp, Value: f.Value}
		if name := c.String(); !table.HasAtom(name) {
			if err := table.AddAtom(name, atom(c)); err != nil {
				return nil, err
			}
		}
		return table.Atom(c.String())
	case "not":
		if err := arity(f, 1); err != nil {
			return nil, err
		}
		return monitor.Not(args[0]), nil
	case "and", "or":
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: %s takes at least 2, got %d", ErrArity, f.Op, len(args))
		}
		join := monitor.And[Values, T, float64]
		if f.Op == "or" {
			join = monitor.Or[Values, T, float64]
		}
		n := args[0]
		for _, r := range args[1:] {
			n = join(n, r)
		}
		return n, nil
	case "implies":
		if err := arity(f, 2); err != nil {
			return nil, err
		}
		return monitor.Implies(args[0], args[1]), nil
	case "eventually", "globally", "once", "historically":
		if err := arity(f, 1); err != nil {
			return nil, err
		}
		iv, err := f.interval()
		if err != nil {
			return nil, err
		}
		switch f.Op {
		case "eventually":
			return monitor.Eventually(iv, args[0]), nil
		case "globally":
			return monitor.Globally(iv, args[0]), nil
		case "once":
			return monitor.Once(iv, args[0]), nil
		default:
			return monitor.Historically(iv, args[0]), nil
		}
	case "until", "since":
		if err := arity(f, 2); err != nil {
			return nil, err
		}
		iv, err := f.interval()
		if err != nil {
			return nil, err
		}
		if f.Op == "until" {
			return monitor.Until(args[0], iv, args[1]), nil
		}
		return monitor.Since(args[0], iv, args[1]), nil
	case "somewhere", "everywhere", "escape":
		if err := arity(f, 1); err != nil {
			return nil, err
		}
		kind := monitor.KindEscape
		switch f.Op {
		case "somewhere":
			kind = monitor.KindSomewhere
		case "everywhere":
			kind = monitor.KindEverywhere
		}
		n, err := table.Spatial(kind, f.Distance, args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Op, err)
		}
		return n, nil
	case "reach":
		if err := arity(f, 2); err != nil {
			return nil, err
		}
		n, err := table.Reach(args[0], f.Distance, args[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Op, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unknown op %q", ErrInvalidDocument, f.Op)
	}
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func arity(f *Formula, want int) error {
	if len(f.Args) != want {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrArity, f.Op, want, len(f.Args))
	}
	return nil
}

// interval converts the window of a temporal node; nil stays unbounded.
func (f *Formula) interval() (*signal.Interval, error) {
	if f.Window == nil {
		return nil, nil
	}
	end := math.Inf(1)
	if f.Window.End != nil {
		end = *f.Window.End
	}
	return signal.NewInterval(f.Window.Start, end)
}
