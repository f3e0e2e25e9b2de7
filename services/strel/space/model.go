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
	"fmt"
	"sort"
)

// Edge is a labelled directed edge From -> To.
type Edge[E any] struct {
	From  int
	To    int
	Label E
}

// SpatialModel is a directed graph over locations 0..Size()-1.
type SpatialModel[E any] interface {
	// Size returns the number of locations.
	Size() int

	// Get returns the label of the edge from -> to, if present.
	Get(from, to int) (E, bool)

	// Previous returns the edges entering location to.
	Previous(to int) []Edge[E]

	// Next returns the edges leaving location from.
	Next(from int) []Edge[E]
}

type edgeKey struct{ from, to int }

// Graph is the adjacency-list SpatialModel produced by GraphBuilder.
type Graph[E any] struct {
	size   int
	labels map[edgeKey]E
	in     [][]Edge[E]
	out    [][]Edge[E]
}

// Size returns the number of locations.
func (g *Graph[E]) Size() int { return g.size }

// Get returns the label of the edge from -> to.
func (g *Graph[E]) Get(from, to int) (E, bool) {
	l, ok := g.labels[edgeKey{from, to}]
	return l, ok
}

// Previous returns the incoming edges of to. The slice must not be modified.
func (g *Graph[E]) Previous(to int) []Edge[E] { return g.in[to] }

// Next returns the outgoing edges of from. The slice must not be modified.
func (g *Graph[E]) Next(from int) []Edge[E] { return g.out[from] }

// EdgeCount returns the number of directed edges.
func (g *Graph[E]) EdgeCount() int { return len(g.labels) }

// GraphBuilder accumulates edges for a Graph.
//
// Adding an edge twice replaces its label. After Build the builder is
// frozen and AddEdge returns ErrModelFrozen.
type GraphBuilder[E any] struct {
	size   int
	labels map[edgeKey]E
	frozen bool
}

// NewGraphBuilder starts a model with size locations.
func NewGraphBuilder[E any](size int) *GraphBuilder[E] {
	return &GraphBuilder[E]{size: size, labels: make(map[edgeKey]E)}
}

// AddEdge adds the directed edge from -> to.
func (b *GraphBuilder[E]) AddEdge(from, to int, label E) error {
	if b.frozen {
		return ErrModelFrozen
	}
	if from < 0 || from >= b.size || to < 0 || to >= b.size {
		return fmt.Errorf("%w: edge %d->%d in a model of %d locations", ErrNodeOutOfRange, from, to, b.size)
	}
	b.labels[edgeKey{from, to}] = label
	return nil
}

// AddUndirectedEdge adds both a -> c and c -> a with the same label.
func (b *GraphBuilder[E]) AddUndirectedEdge(a, c int, label E) error {
	if err := b.AddEdge(a, c, label); err != nil {
		return err
	}
	return b.AddEdge(c, a, label)
}

// Build freezes the builder and returns the immutable model.
//
// Adjacency lists are sorted by the opposite endpoint so that iteration
// order, and therefore every fixpoint schedule, is deterministic.
func (b *GraphBuilder[E]) Build() (*Graph[E], error) {
	if b.size <= 0 {
		return nil, ErrEmptyModel
	}
	b.frozen = true

	g := &Graph[E]{
		size:   b.size,
		labels: make(map[edgeKey]E, len(b.labels)),
		in:     make([][]Edge[E], b.size),
		out:    make([][]Edge[E], b.size),
	}
	for k, l := range b.labels {
		g.labels[k] = l
		e := Edge[E]{From: k.from, To: k.to, Label: l}
		g.out[k.from] = append(g.out[k.from], e)
		g.in[k.to] = append(g.in[k.to], e)
	}
	for i := 0; i < b.size; i++ {
		sort.Slice(g.out[i], func(x, y int) bool { return g.out[i][x].To < g.out[i][y].To })
		sort.Slice(g.in[i], func(x, y int) bool { return g.in[i][x].From < g.in[i][y].From })
	}
	return g, nil
}

// NewGraph builds a model from an edge list.
func NewGraph[E any](size int, edges ...Edge[E]) (*Graph[E], error) {
	b := NewGraphBuilder[E](size)
	for _, e := range edges {
		if err := b.AddEdge(e.From, e.To, e.Label); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
