// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scenario reads self-contained evaluation documents: a topology
// timeline, one or more traces, named distances and a formula tree. The
// same document shape is accepted as YAML by the command line and as JSON
// by the HTTP API.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AleutianAI/strel/pkg/validation"
	"github.com/AleutianAI/strel/services/strel/monitor"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDocument wraps structural validation failures.
	ErrInvalidDocument = errors.New("scenario: invalid document")

	// ErrUnknownDistance is returned when a formula names an undeclared
	// distance.
	ErrUnknownDistance = monitor.ErrUnknownDistance

	// ErrMissingVariable is returned when a sample lacks a variable used by
	// the formula.
	ErrMissingVariable = errors.New("scenario: missing variable")

	// ErrArity is returned when an operator has the wrong number of
	// operands.
	ErrArity = errors.New("scenario: wrong number of operands")

	// ErrLocationCount is returned when a sample does not have one value
	// set per location.
	ErrLocationCount = errors.New("scenario: wrong number of locations")

	// ErrNonFinite is returned for NaN or infinite sample values, times,
	// edge weights, thresholds and bounds.
	ErrNonFinite = errors.New("scenario: value must be finite")
)

// Semantics names.
const (
	SemanticsBoolean    = "boolean"
	SemanticsRobustness = "robustness"
)

// Values holds the variables observed at one location.
type Values map[string]float64

// Document is one evaluation request.
type Document struct {
	Name      string      `yaml:"name" json:"name,omitempty"`
	Semantics string      `yaml:"semantics" json:"semantics,omitempty" validate:"omitempty,oneof=boolean robustness"`
	Locations int         `yaml:"locations" json:"locations" validate:"min=1"`
	Topology  []Snapshot  `yaml:"topology" json:"topology,omitempty" validate:"dive"`
	Distances []Distance  `yaml:"distances" json:"distances,omitempty" validate:"dive"`
	Traces    []TraceSpec `yaml:"traces" json:"traces" validate:"min=1,dive"`
	Formula   *Formula    `yaml:"formula" json:"formula" validate:"required"`
}

// Snapshot is the topology valid from Time until the next snapshot.
type Snapshot struct {
	Time  float64    `yaml:"time" json:"time"`
	Edges []EdgeSpec `yaml:"edges" json:"edges" validate:"dive"`
}

// EdgeSpec is one edge of a snapshot. Weight defaults to 1.
type EdgeSpec struct {
	From       int      `yaml:"from" json:"from" validate:"min=0"`
	To         int      `yaml:"to" json:"to" validate:"min=0"`
	Weight     *float64 `yaml:"weight" json:"weight,omitempty" validate:"omitempty,gte=0"`
	Undirected bool     `yaml:"undirected" json:"undirected,omitempty"`
}

// Distance declares a named distance bound. A nil Upper is unbounded.
// Metric "weight" sums edge weights, "hops" counts edges.
type Distance struct {
	Name   string   `yaml:"name" json:"name" validate:"required,ident"`
	Lower  float64  `yaml:"lower" json:"lower" validate:"gte=0"`
	Upper  *float64 `yaml:"upper" json:"upper,omitempty"`
	Metric string   `yaml:"metric" json:"metric,omitempty" validate:"omitempty,oneof=weight hops"`
}

// TraceSpec is one input trace. End defaults to the last sample time.
type TraceSpec struct {
	Name    string       `yaml:"name" json:"name" validate:"required,ident"`
	End     *float64     `yaml:"end" json:"end,omitempty"`
	Samples []SampleSpec `yaml:"samples" json:"samples" validate:"min=1,dive"`
}

// SampleSpec gives the variables of every location from Time on.
type SampleSpec struct {
	Time   float64  `yaml:"time" json:"time"`
	Values []Values `yaml:"values" json:"values" validate:"min=1"`
}

// Window is a time bound. A nil End is unbounded.
type Window struct {
	Start float64  `yaml:"start" json:"start" validate:"gte=0"`
	End   *float64 `yaml:"end" json:"end,omitempty"`
}

// Formula is one node of the formula tree.
//
// Atoms use Var, Cmp and Value. Temporal operators use Window (nil means
// unbounded), spatial operators use Distance. Args holds the operands in
// order; and/or accept two or more.
type Formula struct {
	Op       string     `yaml:"op" json:"op" validate:"required,oneof=atom not and or implies eventually globally once historically until since somewhere everywhere escape reach"`
	Var      string     `yaml:"var" json:"var,omitempty" validate:"omitempty,ident"`
	Cmp      string     `yaml:"cmp" json:"cmp,omitempty" validate:"omitempty,oneof=> >= < <= =="`
	Value    float64    `yaml:"value" json:"value,omitempty"`
	Window   *Window    `yaml:"window" json:"window,omitempty"`
	Distance string     `yaml:"distance" json:"distance,omitempty" validate:"omitempty,ident"`
	Args     []*Formula `yaml:"args" json:"args,omitempty" validate:"dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := validation.RegisterIdentifier(v); err != nil {
		panic(err)
	}
	return v
}

// Parse decodes a YAML or JSON document and validates its structure.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate checks the struct constraints of the document.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// SemanticsName returns the effective semantics, boolean by default.
func (d *Document) SemanticsName() string {
	if d.Semantics == "" {
		return SemanticsBoolean
	}
	return d.Semantics
}
