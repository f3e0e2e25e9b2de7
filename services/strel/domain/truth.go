// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package domain

import "math"

// =============================================================================
// Boolean
// =============================================================================

// BooleanDomain is classical two-valued satisfaction.
type BooleanDomain struct{}

// Boolean returns the boolean domain.
func Boolean() BooleanDomain { return BooleanDomain{} }

func (BooleanDomain) Bottom() bool               { return false }
func (BooleanDomain) Top() bool                  { return true }
func (BooleanDomain) Conjunction(a, b bool) bool { return a && b }
func (BooleanDomain) Disjunction(a, b bool) bool { return a || b }
func (BooleanDomain) Negation(a bool) bool       { return !a }
func (BooleanDomain) Equal(a, b bool) bool       { return a == b }
func (BooleanDomain) String() string             { return "boolean" }

// =============================================================================
// Robustness
// =============================================================================

// RobustnessDomain is the quantitative semantics over the extended reals:
// conjunction is min, disjunction is max and negation flips the sign.
//
// Bottom is -Inf and Top is +Inf.
type RobustnessDomain struct {
	tolerance float64
}

// RobustnessOption configures a RobustnessDomain.
type RobustnessOption func(*RobustnessDomain)

// WithTolerance makes Equal treat values closer than eps as equal.
//
// Fixpoint loops in package space stop on Equal, so a positive tolerance
// bounds the number of re-queues when weights are produced by floating
// point arithmetic upstream. Negative values are ignored. Output signals
// are compacted with the same Equal, so consecutive values within eps
// merge into the earlier one.
func WithTolerance(eps float64) RobustnessOption {
	return func(d *RobustnessDomain) {
		if eps > 0 && !math.IsNaN(eps) {
			d.tolerance = eps
		}
	}
}

// Robustness returns the robustness domain. With no options Equal is exact.
func Robustness(opts ...RobustnessOption) RobustnessDomain {
	d := RobustnessDomain{}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Tolerance returns the equality tolerance (0 for exact comparison).
func (d RobustnessDomain) Tolerance() float64 { return d.tolerance }

func (RobustnessDomain) Bottom() float64 { return math.Inf(-1) }
func (RobustnessDomain) Top() float64    { return math.Inf(1) }

func (RobustnessDomain) Conjunction(a, b float64) float64 { return math.Min(a, b) }
func (RobustnessDomain) Disjunction(a, b float64) float64 { return math.Max(a, b) }
func (RobustnessDomain) Negation(a float64) float64       { return -a }

func (d RobustnessDomain) Equal(a, b float64) bool {
	if a == b {
		return true
	}
	if d.tolerance == 0 || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= d.tolerance
}

// StrictEqual ignores the tolerance.
func (RobustnessDomain) StrictEqual(a, b float64) bool { return a == b }

func (RobustnessDomain) String() string { return "robustness" }

// Compile-time interface checks.
var (
	_ Domain[bool]    = BooleanDomain{}
	_ Domain[float64] = RobustnessDomain{}
)
