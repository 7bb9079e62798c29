// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// palette holds the styles used for diagnostic output.  Every style in a
// palette is either enabled or disabled as a whole.
type palette struct {
	bold     *color.Color
	error    *color.Color
	warning  *color.Color
	note     *color.Color
	gutter   *color.Color
	location *color.Color
}

func newPalette(enabled bool) palette {
	style := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		bold:     style(color.Bold),
		error:    style(color.Bold, color.FgRed),
		warning:  style(color.Bold, color.FgYellow),
		note:     style(color.Bold, color.FgCyan),
		gutter:   style(color.Bold, color.FgBlue),
		location: style(color.FgBlue),
	}
}

func (p palette) severity(s Severity) *color.Color {
	switch s {
	case SeverityError:
		return p.error
	case SeverityWarning:
		return p.warning
	default:
		return p.note
	}
}

// choosePalette selects the palette for mode and the destination writer.
func choosePalette(mode ColorMode, w io.Writer) palette {
	switch mode {
	case ColorAlways:
		return newPalette(true)
	case ColorNever:
		return newPalette(false)
	default: // ColorAuto
		if os.Getenv("NO_COLOR") != "" {
			return newPalette(false)
		}
		f, ok := w.(*os.File)
		if !ok || !isTerminal(f) {
			return newPalette(false)
		}
		return newPalette(true)
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
