// Copyright © 2024 The ELPS authors

// Package diagnostic defines the diagnostic codes reported by the JavaScript
// lexer and scope manager, the Event payload and Sink they report through,
// and a Rust-style renderer for annotated CLI output.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column, in characters
	EndCol int    // column just past the highlighted text (0 = auto-detect)
	Label  string // text shown under the underline
}

// Diagnostic is a renderable report with optional source annotations and
// trailing notes.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
}

// FromEvent converts an engine event into a renderable diagnostic for file.
func FromEvent(file string, e Event) Diagnostic {
	return Diagnostic{
		Severity: e.Severity(),
		Code:     e.Code,
		Message:  e.Message(),
		Spans:    []Span{{File: file, Line: e.Line, Col: e.Character}},
	}
}
