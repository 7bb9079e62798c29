// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/jsvet/diagnostic"
	lintpkg "github.com/luthersystems/jsvet/lint"
)

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

// newRenderer returns a renderer reading source text from disk, except for
// the files whose contents are supplied in sources (e.g. stdin).
func newRenderer(sources map[string][]byte) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: colorMode(),
		SourceReader: func(name string) ([]byte, error) {
			if src, ok := sources[name]; ok {
				return src, nil
			}
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		},
	}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lintpkg.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: ld.Code.Severity(),
		Code:     ld.Code,
		Message:  ld.Message,
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		})
	}
	if ld.Analyzer != "" {
		d.Notes = append(d.Notes, "reported by the "+ld.Analyzer+" check")
	}
	switch ld.Severity {
	case lintpkg.SeverityWarning:
		d.Notes = append(d.Notes, "to suppress: add \"/*jshint -"+string(ld.Code)+" */\" or \"// jshint ignore:line\"")
	case lintpkg.SeverityError:
		if ld.Pos.Line > 0 {
			d.Notes = append(d.Notes, "to suppress: add \"// jshint ignore:line\" as a comment on this line")
		}
	}
	return d
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting to w.
func renderLintDiagnostics(w io.Writer, diags []lintpkg.Diagnostic, sources map[string][]byte) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	return newRenderer(sources).RenderAll(w, ds)
}
