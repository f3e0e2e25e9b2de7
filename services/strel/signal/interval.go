// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package signal

import (
	"fmt"
	"math"
)

// Interval is a closed time interval [Start, End]. End may be +Inf.
//
// A nil *Interval stands for the unbounded interval [0, +Inf) wherever an
// operator accepts one.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// NewInterval validates 0 <= start <= end.
func NewInterval(start, end float64) (*Interval, error) {
	i := &Interval{Start: start, End: end}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return i, nil
}

// Validate checks the interval invariants.
func (i Interval) Validate() error {
	if math.IsNaN(i.Start) || math.IsNaN(i.End) {
		return fmt.Errorf("%w: NaN bound", ErrInvalidInterval)
	}
	if i.Start < 0 {
		return fmt.Errorf("%w: start %g is negative", ErrInvalidInterval, i.Start)
	}
	if i.Start > i.End {
		return fmt.Errorf("%w: start %g after end %g", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

// IsBounded reports whether End is finite.
func (i Interval) IsBounded() bool { return !math.IsInf(i.End, 1) }

// Contains reports whether t lies in [Start, End].
func (i Interval) Contains(t float64) bool { return i.Start <= t && t <= i.End }

// Width returns End - Start.
func (i Interval) Width() float64 { return i.End - i.Start }

func (i Interval) String() string {
	if !i.IsBounded() {
		return fmt.Sprintf("[%g, inf)", i.Start)
	}
	return fmt.Sprintf("[%g, %g]", i.Start, i.End)
}
