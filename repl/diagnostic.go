// Copyright © 2024 The ELPS authors

package repl

import (
	"io"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
)

// renderDiagnostics renders lint diagnostics using the diagnostic renderer
// for Rust-style annotated output.  Source snippets are read from the
// session buffer since REPL input never exists on disk.
func renderDiagnostics(w io.Writer, diags []lint.Diagnostic, source []byte) {
	r := &diagnostic.Renderer{
		Color: diagnostic.ColorAuto,
		SourceReader: func(string) ([]byte, error) {
			return source, nil
		},
	}
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, d := range diags {
		ds = append(ds, lintToDiag(d))
	}
	_ = r.RenderAll(w, ds)
}

// lintToDiag converts a lint diagnostic to a renderable Diagnostic.
func lintToDiag(ld lint.Diagnostic) diagnostic.Diagnostic {
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
	if ld.Code.Severity() == diagnostic.SeverityWarning {
		d.Notes = append(d.Notes, "use :set -"+string(ld.Code)+" to silence it")
	}
	return d
}
