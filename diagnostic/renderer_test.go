// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "const x = 1;\nx = 2;",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Code:     ConstOverride,
		Message:  ConstOverride.Format("x"),
		Spans: []Span{
			{File: "test.js", Line: 2, Col: 1, EndCol: 2, Label: "assignment to constant"},
		},
	})
	assert.Contains(t, got, "error[E013]: Attempting to override 'x' which is a constant.")
	assert.Contains(t, got, "--> test.js:2:1")
	assert.Contains(t, got, "x = 2;")
	assert.Contains(t, got, "^ assignment to constant")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var a = 1;\nfoo(a);",
	})
	got := render(t, r, FromEvent("test.js", Event{
		Code: Undefined, Line: 2, Character: 1, Data: []string{"foo"},
	}))
	assert.Contains(t, got, "warning[W117]: 'foo' is not defined.")
	assert.Contains(t, got, "--> test.js:2:1")
	assert.Contains(t, got, "foo(a);")
	assert.Contains(t, got, "^^^\n")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans:    []Span{{File: "<stdin>", Line: 5, Col: 3}},
	})
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "function f(a, a) {}",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  AlreadyDefined.Format("a"),
		Spans:    []Span{{File: "test.js", Line: 1, Col: 15, EndCol: 16}},
		Notes:    []string{"duplicate parameter", "use strict mode to make this an error"},
	})
	assert.Contains(t, got, "= note: duplicate parameter")
	assert.Contains(t, got, "= note: use strict mode to make this an error")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "if (undefinedThing) {}",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  Undefined.Format("undefinedThing"),
		Spans:    []Span{{File: "test.js", Line: 1, Col: 5}},
	})
	assert.Contains(t, got, "    "+strings.Repeat("^", len("undefinedThing"))+"\n")
}

func TestRenderTabsAndWideCharacters(t *testing.T) {
	r := testRenderer(map[string]string{
		"tab.js":  "\tfoo;",
		"wide.js": "var 名前 = 1;",
	})
	r.TabWidth = 2

	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "tab",
		Spans:    []Span{{File: "tab.js", Line: 1, Col: 3, EndCol: 6}},
	})
	assert.Contains(t, got, "  foo;")
	assert.Contains(t, got, "|    ^^^\n")

	got = render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "wide",
		Spans:    []Span{{File: "wide.js", Line: 1, Col: 5, EndCol: 7}},
	})
	assert.Contains(t, got, "|      ^^^^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.js": "var x = 1;\nvar x = 2;\nfoo();",
	})
	diags := []Diagnostic{
		{
			Severity: SeverityWarning,
			Message:  AlreadyDefined.Format("x"),
			Spans:    []Span{{File: "test.js", Line: 2, Col: 5, EndCol: 6}},
		},
		{
			Severity: SeverityWarning,
			Message:  Undefined.Format("foo"),
			Spans:    []Span{{File: "test.js", Line: 3, Col: 1, EndCol: 4}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))
	got := buf.String()
	assert.GreaterOrEqual(t, len(strings.Split(got, "\n\n")), 2)
	assert.Contains(t, got, "'x' is already defined.")
	assert.Contains(t, got, "'foo' is not defined.")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "cannot read file",
	})
	assert.Contains(t, got, "error: cannot read file")
	assert.NotContains(t, got, "-->")
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(map[string]string{"test.js": "foo;"})
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Spans:    []Span{{File: "test.js", Line: 1, Col: 1}},
	})
	assert.Contains(t, got, "\x1b[")

	r.Color = ColorNever
	got = render(t, r, Diagnostic{Severity: SeverityError, Message: "boom"})
	assert.NotContains(t, got, "\x1b[")
}
