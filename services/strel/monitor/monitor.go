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
	"log/slog"
	"time"

	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/space"
	"github.com/AleutianAI/strel/services/strel/telemetry"
	"github.com/AleutianAI/strel/services/strel/temporal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("strel.monitor")

// Option configures a Monitor.
type Option func(*options)

type options struct {
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// WithMetrics records evaluation counters and durations on metrics.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithLogger sets the logger used for evaluation summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Monitor evaluates one validated formula under one truth domain.
//
// Thread Safety: A Monitor holds no mutable state. Evaluate may run
// concurrently on distinct or shared inputs; every call builds its own
// distance structures.
type Monitor[S, T, E any] struct {
	dom       domain.Domain[T]
	root      *Node[S, T, E]
	nodes     int
	semantics string
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// New validates root and returns its monitor.
//
// Outputs:
//
//   - *Monitor: Ready to evaluate.
//   - error: ErrNilNode, ErrMissingAtom, ErrMissingSpatial, ErrUnknownKind
//     or signal.ErrInvalidInterval, wrapped with the path to the offending
//     node.
func New[S, T, E any](dom domain.Domain[T], root *Node[S, T, E], opts ...Option) (*Monitor[S, T, E], error) {
	nodes, err := root.validate()
	if err != nil {
		return nil, err
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	semantics := "custom"
	if s, ok := any(dom).(fmt.Stringer); ok {
		semantics = s.String()
	}
	return &Monitor[S, T, E]{
		dom:       dom,
		root:      root,
		nodes:     nodes,
		semantics: semantics,
		metrics:   o.metrics,
		logger:    o.logger,
	}, nil
}

// Root returns the formula.
func (m *Monitor[S, T, E]) Root() *Node[S, T, E] { return m.root }

// Domain returns the truth domain.
func (m *Monitor[S, T, E]) Domain() domain.Domain[T] { return m.dom }

// Evaluate computes the satisfaction (or robustness) signal of the formula
// at every location.
//
// Description:
//
//	Recurses bottom-up over the tree. Atomic nodes map input values,
//	Boolean connectives combine child signals over merged breakpoints,
//	temporal nodes run per location, and spatial nodes align the child
//	signal with the topology timeline of ls.
//
// Inputs:
//
//   - ctx: Carries the trace span. Evaluation is not interruptible.
//   - ls: Topology. An empty service makes spatial nodes return empty
//     signals.
//   - input: One signal per location.
//
// Outputs:
//
//   - *signal.SpatialTemporalSignal[T]: Same location count as input.
//   - error: ErrLocationMismatch when input and ls disagree on the
//     location count, checked before any work.
func (m *Monitor[S, T, E]) Evaluate(ctx context.Context, ls space.LocationService[E], input *signal.SpatialTemporalSignal[S]) (*signal.SpatialTemporalSignal[T], error) {
	ctx, span := tracer.Start(ctx, "monitor.Evaluate",
		oteltrace.WithAttributes(
			attribute.String("strel.formula", m.root.String()),
			attribute.String("strel.semantics", m.semantics),
			attribute.Int("strel.locations", input.Size()),
			attribute.Int("strel.nodes", m.nodes),
		),
	)
	defer span.End()
	start := time.Now()

	out, err := m.evaluate(ctx, ls, input)
	m.record(ctx, start, out, err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetSpanOK(span)

	m.logger.Debug("formula evaluated",
		slog.String("formula", m.root.String()),
		slog.String("semantics", m.semantics),
		slog.Int("locations", out.Size()),
		slog.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (m *Monitor[S, T, E]) evaluate(ctx context.Context, ls space.LocationService[E], input *signal.SpatialTemporalSignal[S]) (*signal.SpatialTemporalSignal[T], error) {
	if !space.IsEmpty(ls) {
		if n := space.Locations(ls); n != input.Size() {
			return nil, fmt.Errorf("%w: topology has %d locations, trace has %d",
				ErrLocationMismatch, n, input.Size())
		}
	}
	return m.eval(ctx, m.root, ls, input)
}

// =============================================================================
// Node evaluation
// =============================================================================

func (m *Monitor[S, T, E]) eval(ctx context.Context, n *Node[S, T, E], ls space.LocationService[E], in *signal.SpatialTemporalSignal[S]) (*signal.SpatialTemporalSignal[T], error) {
	ctx, span := tracer.Start(ctx, "monitor."+n.kind.String())
	defer span.End()
	if m.metrics != nil {
		m.metrics.NodesEvaluated.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", n.kind.String())))
	}

	switch n.kind {
	case KindAtomic:
		return m.compact(signal.MapValues(in, n.atom)), nil

	case KindNot:
		c, err := m.eval(ctx, n.children[0], ls, in)
		if err != nil {
			return nil, err
		}
		return signal.MapValues(c, m.dom.Negation), nil

	case KindAnd:
		return m.pointwise(ctx, n, ls, in, m.dom.Conjunction)

	case KindOr:
		return m.pointwise(ctx, n, ls, in, m.dom.Disjunction)

	case KindImplies:
		return m.pointwise(ctx, n, ls, in, func(a, b T) T { return domain.Implies(m.dom, a, b) })

	case KindEventually:
		return m.window(ctx, n, ls, in, temporal.Eventually[T])

	case KindGlobally:
		return m.window(ctx, n, ls, in, temporal.Globally[T])

	case KindOnce:
		return m.window(ctx, n, ls, in, temporal.Once[T])

	case KindHistorically:
		return m.window(ctx, n, ls, in, temporal.Historically[T])

	case KindUntil:
		return m.binaryTemporal(ctx, n, ls, in, temporal.Until[T])

	case KindSince:
		return m.binaryTemporal(ctx, n, ls, in, temporal.Since[T])

	case KindSomewhere:
		return m.spatial(ctx, n, ls, in, n.spatial.Somewhere)

	case KindEverywhere:
		return m.spatial(ctx, n, ls, in, n.spatial.Everywhere)

	case KindEscape:
		return m.spatial(ctx, n, ls, in, n.spatial.Escape)

	case KindReach:
		l, r, err := m.operands(ctx, n, ls, in)
		if err != nil {
			return nil, err
		}
		out, err := n.spatial.Reach(ctx, ls, l, r)
		if err != nil {
			return nil, fmt.Errorf("%s{%s}: %w", n.kind, n.label, err)
		}
		return m.compact(out), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(n.kind))
	}
}

func (m *Monitor[S, T, E]) operands(ctx context.Context, n *Node[S, T, E], ls space.LocationService[E], in *signal.SpatialTemporalSignal[S]) (l, r *signal.SpatialTemporalSignal[T], err error) {
	if l, err = m.eval(ctx, n.children[0], ls, in); err != nil {
		return nil, nil, err
	}
	if r, err = m.eval(ctx, n.children[1], ls, in); err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (m *Monitor[S, T, E]) pointwise(ctx context.Context, n *Node[S, T, E], ls space.LocationService[E], in *signal.SpatialTemporalSignal[S], op func(a, b T) T) (*signal.SpatialTemporalSignal[T], error) {
	l, r, err := m.operands(ctx, n, ls, in)
	if err != nil {
		return nil, err
	}
	out, err := signal.Map2(l, r, func(a, b *signal.Signal[T]) *signal.Signal[T] {
		return signal.ApplyBinary(a, b, op).Compact(m.dom.Equal)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.kind, err)
	}
	return out, nil
}

func (m *Monitor[S, T, E]) window(
	ctx context.Context,
	n *Node[S, T, E],
	ls space.LocationService[E],
	in *signal.SpatialTemporalSignal[S],
	op func(domain.Domain[T], *signal.Interval, *signal.Signal[T]) *signal.Signal[T],
) (*signal.SpatialTemporalSignal[T], error) {
	c, err := m.eval(ctx, n.children[0], ls, in)
	if err != nil {
		return nil, err
	}
	return signal.Map(c, func(s *signal.Signal[T]) *signal.Signal[T] {
		return op(m.dom, n.interval, s)
	}), nil
}

func (m *Monitor[S, T, E]) binaryTemporal(
	ctx context.Context,
	n *Node[S, T, E],
	ls space.LocationService[E],
	in *signal.SpatialTemporalSignal[S],
	op func(domain.Domain[T], *signal.Interval, *signal.Signal[T], *signal.Signal[T]) *signal.Signal[T],
) (*signal.SpatialTemporalSignal[T], error) {
	l, r, err := m.operands(ctx, n, ls, in)
	if err != nil {
		return nil, err
	}
	out, err := signal.Map2(l, r, func(a, b *signal.Signal[T]) *signal.Signal[T] {
		return op(m.dom, n.interval, a, b)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.kind, err)
	}
	return out, nil
}

type spatialOp[E, T any] func(context.Context, space.LocationService[E], *signal.SpatialTemporalSignal[T]) (*signal.SpatialTemporalSignal[T], error)

func (m *Monitor[S, T, E]) spatial(ctx context.Context, n *Node[S, T, E], ls space.LocationService[E], in *signal.SpatialTemporalSignal[S], op spatialOp[E, T]) (*signal.SpatialTemporalSignal[T], error) {
	c, err := m.eval(ctx, n.children[0], ls, in)
	if err != nil {
		return nil, err
	}
	out, err := op(ctx, ls, c)
	if err != nil {
		return nil, fmt.Errorf("%s{%s}: %w", n.kind, n.label, err)
	}
	return m.compact(out), nil
}

func (m *Monitor[S, T, E]) compact(s *signal.SpatialTemporalSignal[T]) *signal.SpatialTemporalSignal[T] {
	return signal.Map(s, func(sig *signal.Signal[T]) *signal.Signal[T] {
		return sig.Compact(m.dom.Equal)
	})
}

func (m *Monitor[S, T, E]) record(ctx context.Context, start time.Time, out *signal.SpatialTemporalSignal[T], err error) {
	if m.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "monitor")))
	}
	attrs := metric.WithAttributes(
		attribute.String("semantics", m.semantics),
		attribute.String("status", status),
	)
	m.metrics.EvaluationsTotal.Add(ctx, 1, attrs)
	m.metrics.EvaluationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	if out != nil {
		for i := 0; i < out.Size(); i++ {
			m.metrics.OutputBreakpoints.Record(ctx, int64(out.Signal(i).Len()))
		}
	}
}
