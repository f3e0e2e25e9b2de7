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

// FloatDistanceDomain accumulates non-negative real weights with +.
type FloatDistanceDomain struct{}

// FloatDistance returns the real-valued distance domain.
func FloatDistance() FloatDistanceDomain { return FloatDistanceDomain{} }

func (FloatDistanceDomain) Zero() float64                 { return 0 }
func (FloatDistanceDomain) Infinity() float64             { return math.Inf(1) }
func (FloatDistanceDomain) Sum(a, b float64) float64      { return a + b }
func (FloatDistanceDomain) Less(a, b float64) bool        { return a < b }
func (FloatDistanceDomain) LessOrEqual(a, b float64) bool { return a <= b }
func (FloatDistanceDomain) Equal(a, b float64) bool       { return a == b }

// HopDistanceDomain counts edges. Sum saturates at Infinity.
type HopDistanceDomain struct{}

// HopDistance returns the integer hop-count domain.
func HopDistance() HopDistanceDomain { return HopDistanceDomain{} }

func (HopDistanceDomain) Zero() int     { return 0 }
func (HopDistanceDomain) Infinity() int { return math.MaxInt }

func (HopDistanceDomain) Sum(a, b int) int {
	if a == math.MaxInt || b == math.MaxInt || a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (HopDistanceDomain) Less(a, b int) bool        { return a < b }
func (HopDistanceDomain) LessOrEqual(a, b int) bool { return a <= b }
func (HopDistanceDomain) Equal(a, b int) bool       { return a == b }

var (
	_ DistanceDomain[float64] = FloatDistanceDomain{}
	_ DistanceDomain[int]     = HopDistanceDomain{}
)
