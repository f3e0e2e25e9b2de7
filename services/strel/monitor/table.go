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
	"sort"

	"github.com/AleutianAI/strel/services/strel/space"
)

// Table resolves the names a formula refers to: atomic propositions to
// value transforms and distances to bound spatial operators.
//
// Description:
//
//	A front end that reads formulas as text or documents registers every
//	atom and distance once, then builds nodes by name. Spatial operators
//	registered here build a fresh DistanceStructure per topology
//	breakpoint, so one table can back concurrent evaluations.
//
// Thread Safety: Not safe for concurrent registration. Lookups are safe
// once registration is done.
type Table[S, T, E any] struct {
	atoms     map[string]func(S) T
	distances map[string]space.Spatial[E, T]
}

// NewTable returns an empty table.
func NewTable[S, T, E any]() *Table[S, T, E] {
	return &Table[S, T, E]{
		atoms:     make(map[string]func(S) T),
		distances: make(map[string]space.Spatial[E, T]),
	}
}

// AddAtom registers the value transform of an atomic proposition.
func (t *Table[S, T, E]) AddAtom(name string, f func(S) T) error {
	if f == nil {
		return fmt.Errorf("%w: %q", ErrMissingAtom, name)
	}
	if _, dup := t.atoms[name]; dup {
		return fmt.Errorf("%w: atom %q", ErrDuplicateName, name)
	}
	t.atoms[name] = f
	return nil
}

// AddDistance registers a spatial operator set under a distance name.
func (t *Table[S, T, E]) AddDistance(name string, sp space.Spatial[E, T]) error {
	if sp == nil {
		return fmt.Errorf("%w: %q", ErrMissingSpatial, name)
	}
	if _, dup := t.distances[name]; dup {
		return fmt.Errorf("%w: distance %q", ErrDuplicateName, name)
	}
	t.distances[name] = sp
	return nil
}

// HasAtom reports whether an atom is registered.
func (t *Table[S, T, E]) HasAtom(name string) bool {
	_, ok := t.atoms[name]
	return ok
}

// Atom returns an atomic node for a registered proposition.
func (t *Table[S, T, E]) Atom(name string) (*Node[S, T, E], error) {
	f, ok := t.atoms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAtom, name)
	}
	return Atomic[S, T, E](name, f), nil
}

// Distance returns the spatial operators registered under name.
func (t *Table[S, T, E]) Distance(name string) (space.Spatial[E, T], error) {
	sp, ok := t.distances[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistance, name)
	}
	return sp, nil
}

// Spatial builds a one-operand spatial node (somewhere, everywhere or
// escape) over the distance registered under name.
func (t *Table[S, T, E]) Spatial(kind Kind, name string, n *Node[S, T, E]) (*Node[S, T, E], error) {
	sp, err := t.Distance(name)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindSomewhere, KindEverywhere, KindEscape:
		return spatialNode(kind, name, sp, n), nil
	default:
		return nil, fmt.Errorf("%w: %s is not a one-operand spatial operator", ErrUnknownKind, kind)
	}
}

// Reach builds l reach{name} r.
func (t *Table[S, T, E]) Reach(l *Node[S, T, E], name string, r *Node[S, T, E]) (*Node[S, T, E], error) {
	sp, err := t.Distance(name)
	if err != nil {
		return nil, err
	}
	return Reach(l, name, sp, r), nil
}

// Names returns the registered atom and distance names, sorted.
func (t *Table[S, T, E]) Names() (atoms, distances []string) {
	for name := range t.atoms {
		atoms = append(atoms, name)
	}
	for name := range t.distances {
		distances = append(distances, name)
	}
	sort.Strings(atoms)
	sort.Strings(distances)
	return atoms, distances
}
