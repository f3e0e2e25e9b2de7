// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides styled terminal output for the strel CLI.
package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette, brightest to darkest.
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Muted:   lipgloss.NewStyle().Foreground(ColorSlate),
	Bold:    lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
)

// Level selects how much styling a Printer applies.
type Level int

const (
	// LevelPlain writes unstyled text, for pipes and files.
	LevelPlain Level = iota
	// LevelRich adds colors, icons and boxes.
	LevelRich
)

// DetectLevel returns LevelRich when w is a terminal and NO_COLOR is unset.
func DetectLevel(w io.Writer) Level {
	if os.Getenv("NO_COLOR") != "" {
		return LevelPlain
	}
	f, ok := w.(*os.File)
	if !ok {
		return LevelPlain
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return LevelRich
	}
	return LevelPlain
}

// Printer writes styled lines to w.
//
// Thread Safety: Not safe for concurrent use.
type Printer struct {
	w     io.Writer
	level Level
}

// NewPrinter returns a printer for w at the detected level.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, level: DetectLevel(w)}
}

// NewPrinterLevel returns a printer with a fixed level.
func NewPrinterLevel(w io.Writer, level Level) *Printer {
	return &Printer{w: w, level: level}
}

// Level returns the styling level.
func (p *Printer) Level() Level { return p.level }

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Render applies s to text at LevelRich and returns text unchanged
// otherwise.
func (p *Printer) Render(s lipgloss.Style, text string) string {
	if p.level == LevelPlain {
		return text
	}
	return s.Render(text)
}

// Println writes a line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Title writes a title line.
func (p *Printer) Title(text string) {
	p.Println(p.Render(Styles.Title, text))
}

// Muted writes secondary text.
func (p *Printer) Muted(text string) {
	p.Println(p.Render(Styles.Muted, text))
}

// Success writes a success line.
func (p *Printer) Success(text string) {
	p.status(IconSuccess, Styles.Success, "OK", text)
}

// Warning writes a warning line.
func (p *Printer) Warning(text string) {
	p.status(IconWarning, Styles.Warning, "WARN", text)
}

// Error writes an error line.
func (p *Printer) Error(text string) {
	p.status(IconError, Styles.Error, "ERROR", text)
}

func (p *Printer) status(icon Icon, style lipgloss.Style, prefix, text string) {
	if p.level == LevelPlain {
		fmt.Fprintf(p.w, "%s: %s\n", prefix, text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", style.Render(string(icon)), style.Render(text))
}

// Box writes content in a rounded box under title. Plain output writes the
// title and content unframed.
func (p *Printer) Box(title, content string) {
	if p.level == LevelPlain {
		fmt.Fprintf(p.w, "%s\n%s\n", title, content)
		return
	}
	p.Println(Styles.Box.Render(Styles.Title.Render(title) + "\n" + content))
}
