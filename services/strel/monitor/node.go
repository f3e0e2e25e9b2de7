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
	"fmt"
	"strings"

	"github.com/AleutianAI/strel/services/strel/signal"
	"github.com/AleutianAI/strel/services/strel/space"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	KindAtomic Kind = iota
	KindNot
	KindAnd
	KindOr
	KindImplies
	KindEventually
	KindGlobally
	KindOnce
	KindHistorically
	KindUntil
	KindSince
	KindSomewhere
	KindEverywhere
	KindEscape
	KindReach
)

var kindNames = [...]string{
	KindAtomic:       "atomic",
	KindNot:          "not",
	KindAnd:          "and",
	KindOr:           "or",
	KindImplies:      "implies",
	KindEventually:   "eventually",
	KindGlobally:     "globally",
	KindOnce:         "once",
	KindHistorically: "historically",
	KindUntil:        "until",
	KindSince:        "since",
	KindSomewhere:    "somewhere",
	KindEverywhere:   "everywhere",
	KindEscape:       "escape",
	KindReach:        "reach",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Node is one operator of a formula over input values S, truth values T
// and edge labels E. Nodes are immutable once constructed.
type Node[S, T, E any] struct {
	kind     Kind
	label    string
	atom     func(S) T
	interval *signal.Interval
	spatial  space.Spatial[E, T]
	children []*Node[S, T, E]
}

// Kind returns the variant of n.
func (n *Node[S, T, E]) Kind() Kind { return n.kind }

// Children returns the operands of n.
func (n *Node[S, T, E]) Children() []*Node[S, T, E] { return n.children }

// Interval returns the time bound of a temporal node, nil when unbounded.
func (n *Node[S, T, E]) Interval() *signal.Interval { return n.interval }

// Atomic is a leaf mapping every input value through f.
func Atomic[S, T, E any](name string, f func(S) T) *Node[S, T, E] {
	return &Node[S, T, E]{kind: KindAtomic, label: name, atom: f}
}

// Not negates its operand.
func Not[S, T, E any](n *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: KindNot, children: []*Node[S, T, E]{n}}
}

// And is the pointwise conjunction.
func And[S, T, E any](l, r *Node[S, T, E]) *Node[S, T, E] {
	return binary(KindAnd, l, r)
}

// Or is the pointwise disjunction.
func Or[S, T, E any](l, r *Node[S, T, E]) *Node[S, T, E] {
	return binary(KindOr, l, r)
}

// Implies is ¬l ∨ r.
func Implies[S, T, E any](l, r *Node[S, T, E]) *Node[S, T, E] {
	return binary(KindImplies, l, r)
}

// Eventually is F[iv]; a nil iv is unbounded.
func Eventually[S, T, E any](iv *signal.Interval, n *Node[S, T, E]) *Node[S, T, E] {
	return temporalNode(KindEventually, iv, n)
}

// Globally is G[iv].
func Globally[S, T, E any](iv *signal.Interval, n *Node[S, T, E]) *Node[S, T, E] {
	return temporalNode(KindGlobally, iv, n)
}

// Once is O[iv].
func Once[S, T, E any](iv *signal.Interval, n *Node[S, T, E]) *Node[S, T, E] {
	return temporalNode(KindOnce, iv, n)
}

// Historically is H[iv].
func Historically[S, T, E any](iv *signal.Interval, n *Node[S, T, E]) *Node[S, T, E] {
	return temporalNode(KindHistorically, iv, n)
}

// Until is l U[iv] r.
func Until[S, T, E any](l *Node[S, T, E], iv *signal.Interval, r *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: KindUntil, interval: iv, children: []*Node[S, T, E]{l, r}}
}

// Since is l S[iv] r.
func Since[S, T, E any](l *Node[S, T, E], iv *signal.Interval, r *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: KindSince, interval: iv, children: []*Node[S, T, E]{l, r}}
}

// Somewhere holds where n holds at some location within the distance
// bounds of sp.
func Somewhere[S, T, E any](name string, sp space.Spatial[E, T], n *Node[S, T, E]) *Node[S, T, E] {
	return spatialNode(KindSomewhere, name, sp, n)
}

// Everywhere holds where n holds at every location within the bounds.
func Everywhere[S, T, E any](name string, sp space.Spatial[E, T], n *Node[S, T, E]) *Node[S, T, E] {
	return spatialNode(KindEverywhere, name, sp, n)
}

// Escape holds where some location within the bounds is reachable along a
// path on which n holds.
func Escape[S, T, E any](name string, sp space.Spatial[E, T], n *Node[S, T, E]) *Node[S, T, E] {
	return spatialNode(KindEscape, name, sp, n)
}

// Reach is l R r: r holds at a location within the bounds reachable along
// a path on which l holds.
func Reach[S, T, E any](l *Node[S, T, E], name string, sp space.Spatial[E, T], r *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: KindReach, label: name, spatial: sp, children: []*Node[S, T, E]{l, r}}
}

func binary[S, T, E any](k Kind, l, r *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: k, children: []*Node[S, T, E]{l, r}}
}

func temporalNode[S, T, E any](k Kind, iv *signal.Interval, n *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: k, interval: iv, children: []*Node[S, T, E]{n}}
}

func spatialNode[S, T, E any](k Kind, name string, sp space.Spatial[E, T], n *Node[S, T, E]) *Node[S, T, E] {
	return &Node[S, T, E]{kind: k, label: name, spatial: sp, children: []*Node[S, T, E]{n}}
}

// validate checks the whole tree and counts its nodes.
func (n *Node[S, T, E]) validate() (int, error) {
	if n == nil {
		return 0, ErrNilNode
	}
	if n.kind < KindAtomic || n.kind > KindReach {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, int(n.kind))
	}
	if n.kind == KindAtomic && n.atom == nil {
		return 0, fmt.Errorf("%w: %q", ErrMissingAtom, n.label)
	}
	if n.kind >= KindSomewhere && n.spatial == nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMissingSpatial, n.kind, n.label)
	}
	if n.interval != nil {
		if err := n.interval.Validate(); err != nil {
			return 0, fmt.Errorf("%s: %w", n.kind, err)
		}
	}
	count := 1
	for i, c := range n.children {
		k, err := c.validate()
		if err != nil {
			return 0, fmt.Errorf("%s operand %d: %w", n.kind, i, err)
		}
		count += k
	}
	return count, nil
}

// String renders n in a prefix notation, e.g. "until[0, 5](a, b)".
func (n *Node[S, T, E]) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.kind == KindAtomic {
		return n.label
	}
	var b strings.Builder
	b.WriteString(n.kind.String())
	if n.interval != nil {
		b.WriteString(n.interval.String())
	}
	if n.label != "" {
		fmt.Fprintf(&b, "{%s}", n.label)
	}
	b.WriteByte('(')
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}
