// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/strel/pkg/ux"
	"github.com/AleutianAI/strel/services/strel/scenario"
)

// renderReport prints one block per trace with one line per location:
//
//	#0  0 → true  1.5 → false  [end 4]
func renderReport(p *ux.Printer, r *scenario.Report) {
	title := r.Semantics
	if r.Name != "" {
		title = r.Name + " (" + r.Semantics + ")"
	}
	p.Title(title)
	p.Muted(r.Formula)

	for _, tr := range r.Results {
		var b strings.Builder
		for i, loc := range tr.Locations {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "#%d ", loc.Location)
			if loc.End == nil {
				b.WriteString(p.Render(ux.Styles.Muted, " (empty)"))
				continue
			}
			for _, pt := range loc.Points {
				fmt.Fprintf(&b, " %s %s %s", formatFloat(pt.Time), ux.IconArrow, renderValue(p, pt.Value))
			}
			b.WriteString(p.Render(ux.Styles.Muted, "  [end "+formatFloat(*loc.End)+"]"))
		}
		p.Box("trace "+tr.Trace, b.String())
	}
}

func renderValue(p *ux.Printer, v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return p.Render(ux.Styles.Success, "true")
		}
		return p.Render(ux.Styles.Error, "false")
	case scenario.Robustness:
		if v >= 0 {
			return p.Render(ux.Styles.Success, v.String())
		}
		return p.Render(ux.Styles.Error, v.String())
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
