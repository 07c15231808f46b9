// Package display provides terminal color support for scan output.
//
// The palette mirrors the classic codespell scheme: filenames and line
// numbers in yellow, the misspelled word in red, the suggested fix in
// green. Color may be forced on or off regardless of TTY detection.
package display

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Palette renders the three color roles used by scan reports.
// A disabled palette returns its input unchanged.
type Palette struct {
	file    *color.Color
	wrong   *color.Color
	fixword *color.Color
	enabled bool
}

// NewPalette creates a Palette. When enabled is false all methods are
// pass-through, which is also the mode used for piped output.
func NewPalette(enabled bool) *Palette {
	p := &Palette{
		file:    color.New(color.FgYellow),
		wrong:   color.New(color.FgRed),
		fixword: color.New(color.FgGreen),
		enabled: enabled,
	}
	if enabled {
		// Force ANSI output even when stdout is not a terminal, so
		// --enable-colors behaves the same under pipes and tests.
		p.file.EnableColor()
		p.wrong.EnableColor()
		p.fixword.EnableColor()
	}
	return p
}

// Enabled reports whether the palette emits ANSI sequences.
func (p *Palette) Enabled() bool {
	return p.enabled
}

// File colors a filename or line number.
func (p *Palette) File(s string) string {
	if !p.enabled {
		return s
	}
	return p.file.Sprint(s)
}

// Wrong colors a misspelled word.
func (p *Palette) Wrong(s string) string {
	if !p.enabled {
		return s
	}
	return p.wrong.Sprint(s)
}

// Fix colors a suggested correction.
func (p *Palette) Fix(s string) string {
	if !p.enabled {
		return s
	}
	return p.fixword.Sprint(s)
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
// Used to pick the default color mode before flags override it.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
