// Copyright © 2024 The ELPS authors

package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/scope"
	"github.com/luthersystems/jsvet/state"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	return lintWith(t, &Linter{}, source).Diagnostics
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	return lintWith(t, &Linter{Analyzers: []*Analyzer{analyzer}}, source).Diagnostics
}

func lintWith(t *testing.T, l *Linter, source string) *Result {
	t.Helper()
	res, err := l.LintFile(context.Background(), []byte(source), "test.js")
	require.NoError(t, err)
	return res
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// assertDiagOnLine checks that a diagnostic exists on the given line with the given code.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, code diagnostic.Code) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && d.Code == code {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Code))
	}
	t.Errorf("expected %s on line %d, got: %v", code, line, msgs)
}

func diagCodes(diags []Diagnostic) []diagnostic.Code {
	codes := make([]diagnostic.Code, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	return codes
}

// --- Position.String() ---

func TestPosition_String_FileOnly(t *testing.T) {
	p := Position{File: "test.js"}
	assert.Equal(t, "test.js", p.String())
}

func TestPosition_String_FileLine(t *testing.T) {
	p := Position{File: "test.js", Line: 10}
	assert.Equal(t, "test.js:10", p.String())
}

func TestPosition_String_FileLineCol(t *testing.T) {
	p := Position{File: "test.js", Line: 10, Col: 5}
	assert.Equal(t, "test.js:10:5", p.String())
}

// --- Diagnostic ---

func TestDiagnostic_String(t *testing.T) {
	diags := lintSource(t, "var a = 1;\nfoo(a);\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "test.js:2:1: 'foo' is not defined. (W117)", diags[0].String())
	assert.Equal(t, "undef", diags[0].Analyzer)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, []string{"foo"}, diags[0].Data)
	assert.Equal(t, diagnostic.Event{Code: diagnostic.Undefined, Line: 2, Character: 1, Data: []string{"foo"}}, diags[0].Event())
}

func TestSeverity_JSON(t *testing.T) {
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		b, err := json.Marshal(sev)
		require.NoError(t, err)
		var got Severity
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, sev, got)
	}
	b, err := json.Marshal(severityUnset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
}

func TestSeverityOfCode(t *testing.T) {
	assert.Equal(t, SeverityError, severityOf(diagnostic.AlreadyDeclared))
	assert.Equal(t, SeverityWarning, severityOf(diagnostic.Unused))
	assert.Equal(t, SeverityInfo, severityOf(diagnostic.ES5Default))
}

// --- LintFile ---

func TestLintFile_Clean(t *testing.T) {
	res := lintWith(t, &Linter{}, "function add(a, b) {\n  return a + b;\n}\nadd(1, 2);\n")
	assertNoDiags(t, res.Diagnostics)
	assert.False(t, res.Abandoned)
	assert.NoError(t, res.Err())
	assert.Equal(t, "test.js", res.File)
}

func TestLintFile_Data(t *testing.T) {
	res := lintWith(t, &Linter{}, "var a = 1;\nfoo(a);\nvar b;\n")
	assert.Equal(t, []diagnostic.Code{diagnostic.Undefined, diagnostic.Unused}, diagCodes(res.Diagnostics))
	assertDiagOnLine(t, res.Diagnostics, 2, diagnostic.Undefined)
	assertDiagOnLine(t, res.Diagnostics, 3, diagnostic.Unused)
	assert.Equal(t, []scope.ImpliedGlobal{{Name: "foo", Lines: []int{2}}}, res.Data.Implieds)
	assert.False(t, res.Data.JSON)

	res = lintWith(t, &Linter{}, "/*global foo, bar:true */\n/*members x */\nfoo();\nbar = 1;\n")
	assertNoDiags(t, res.Diagnostics)
	assert.Equal(t, []string{"foo", "bar"}, res.Data.Globals)
	assert.Equal(t, []string{"x"}, res.Data.Members)

	res = lintWith(t, &Linter{}, "{\"a\": [1, 2]}\n")
	assertNoDiags(t, res.Diagnostics)
	assert.True(t, res.Data.JSON)
}

func TestLintFile_ImpliedByAssignment(t *testing.T) {
	res := lintWith(t, &Linter{}, "leaked = 1;\ncounter++;\ntotal += 2;\nleaked;\n")
	assert.Equal(t, []diagnostic.Code{diagnostic.Undefined, diagnostic.Undefined, diagnostic.Undefined, diagnostic.Undefined}, diagCodes(res.Diagnostics))
	assertHasDiag(t, res.Diagnostics, "'leaked' is not defined")
	assert.Equal(t, []scope.ImpliedGlobal{
		{Name: "leaked", Lines: []int{1, 4}},
		{Name: "counter", Lines: []int{2}},
		{Name: "total", Lines: []int{3}},
	}, res.Data.Implieds)
}

func TestLintFile_Sorted(t *testing.T) {
	diags := lintSource(t, "var b;\nfoo();\n")
	require.Len(t, diags, 2)
	assert.Equal(t, diagnostic.Unused, diags[0].Code)
	assert.Equal(t, 1, diags[0].Pos.Line)
	assert.Equal(t, diagnostic.Undefined, diags[1].Code)
	assert.Equal(t, 2, diags[1].Pos.Line)
}

func TestLintFile_IgnoreLine(t *testing.T) {
	diags := lintSource(t, "foo(); // jshint ignore:line\nbar();\n")
	require.Len(t, diags, 1)
	assertHasDiag(t, diags, "'bar' is not defined")
}

func TestLintFile_MaxErr(t *testing.T) {
	opts := state.DefaultOptions()
	opts.MaxErr = 2
	res := lintWith(t, &Linter{Options: &opts}, "a;\nb;\nc;\nd;\n")
	assert.Equal(t, []diagnostic.Code{diagnostic.Undefined, diagnostic.Undefined, diagnostic.TooManyErrors}, diagCodes(res.Diagnostics))
	assertDiagOnLine(t, res.Diagnostics, 3, diagnostic.TooManyErrors)
	assert.Equal(t, "", res.Diagnostics[2].Analyzer)
	assert.Equal(t, SeverityError, res.Diagnostics[2].Severity)

	// W117 is reported when the global scope closes, after the lexer's W043
	// on the following line, but it still comes first.
	opts.MaxErr = 1
	res = lintWith(t, &Linter{Options: &opts}, "foo;\nvar s = \"a\\\nb\";\ns;\n")
	assert.Equal(t, []diagnostic.Code{diagnostic.Undefined, diagnostic.TooManyErrors}, diagCodes(res.Diagnostics))
	assertDiagOnLine(t, res.Diagnostics, 1, diagnostic.Undefined)
	assertDiagOnLine(t, res.Diagnostics, 2, diagnostic.TooManyErrors)
}

func TestLintFile_Abandoned(t *testing.T) {
	res := lintWith(t, &Linter{}, "var r = /abc\nvar s;\n")
	assert.True(t, res.Abandoned)
	assert.Contains(t, diagCodes(res.Diagnostics), diagnostic.UnclosedRegExp)
	assert.Contains(t, diagCodes(res.Diagnostics), diagnostic.Unrecoverable)
	assert.Empty(t, res.Data.Implieds)
	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAbandoned))
	assert.Contains(t, err.Error(), "test.js")
}

func TestLintFile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Linter{}).LintFile(ctx, []byte("a;"), "test.js")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLintFile_Options(t *testing.T) {
	opts := state.DefaultOptions()
	opts.Undef = false
	assertNoDiags(t, lintWith(t, &Linter{Options: &opts}, "foo();\n").Diagnostics)

	opts = state.DefaultOptions()
	opts.MaxLen = 10
	diags := lintWith(t, &Linter{Options: &opts}, "var abc = 1; abc;\n").Diagnostics
	assert.Equal(t, []diagnostic.Code{diagnostic.LineTooLong}, diagCodes(diags))
}

func TestLintFile_PredefinedAndExported(t *testing.T) {
	l := &Linter{
		Predefined: map[string]bool{"jQuery": false},
		Exported:   []string{"helper"},
	}
	assertNoDiags(t, lintWith(t, l, "jQuery();\nfunction helper() {}\n").Diagnostics)
}

func TestLintFile_Ignored(t *testing.T) {
	l := &Linter{Ignored: []diagnostic.Code{diagnostic.Undefined}}
	diags := lintWith(t, l, "var a = 1;\nfoo(a);\nvar b;\n").Diagnostics
	assert.Equal(t, []diagnostic.Code{diagnostic.Unused}, diagCodes(diags))
}

func TestLintFile_FreshStatePerFile(t *testing.T) {
	l := &Linter{}
	assertNoDiags(t, lintWith(t, l, "/*jshint undef:false */\nfoo();\n").Diagnostics)
	diags := lintWith(t, l, "foo();\n").Diagnostics
	assert.Equal(t, []diagnostic.Code{diagnostic.Undefined}, diagCodes(diags))
}

// --- Analyzers ---

func TestLintCheck_SelectsAnalyzer(t *testing.T) {
	src := "var a = 1;\nfoo(a);\nvar b;\n"
	diags := lintCheck(t, AnalyzerUnused, src)
	assert.Equal(t, []diagnostic.Code{diagnostic.Unused}, diagCodes(diags))
	assert.Equal(t, "unused", diags[0].Analyzer)

	diags = lintCheck(t, AnalyzerUndef, src)
	assert.Equal(t, []diagnostic.Code{diagnostic.Undefined}, diagCodes(diags))

	assertNoDiags(t, lintCheck(t, AnalyzerScope, src))
}

func TestLintCheck_Scope(t *testing.T) {
	opts := state.DefaultOptions()
	opts.ESVersion = 6
	l := &Linter{Options: &opts, Analyzers: []*Analyzer{AnalyzerScope}}
	diags := lintWith(t, l, "let a = 1;\nlet a = 2;\na;\n").Diagnostics
	assert.Equal(t, []diagnostic.Code{diagnostic.AlreadyDeclared}, diagCodes(diags))
	assert.Equal(t, SeverityError, diags[0].Severity)
	assertHasDiag(t, diags, "'a' has already been declared")
}

func TestLintCheck_Options(t *testing.T) {
	diags := lintCheck(t, AnalyzerOptions, "/*jshint bogus:true */\n")
	assert.Equal(t, []diagnostic.Code{diagnostic.BadOption}, diagCodes(diags))
	assertHasDiag(t, diags, "Bad option: 'bogus'")
}

func TestAnalyzersCoverCatalog(t *testing.T) {
	for _, code := range diagnostic.AllCodes() {
		switch code {
		case diagnostic.Unrecoverable, diagnostic.TooManyErrors:
			assert.Nil(t, AnalyzerFor(code), code)
		default:
			assert.NotNil(t, AnalyzerFor(code), code)
		}
	}
}

func TestAnalyzerByName(t *testing.T) {
	a, err := AnalyzerByName("layout")
	require.NoError(t, err)
	assert.Same(t, AnalyzerLayout, a)
	_, err = AnalyzerByName("nope")
	assert.EqualError(t, err, "unknown check: nope")
}

func TestAnalyzerNames(t *testing.T) {
	assert.Equal(t, []string{"layout", "lexical", "options", "scope", "undef", "unused"}, AnalyzerNames())
}

func TestAnalyzerDoc(t *testing.T) {
	doc := AnalyzerDoc(60)
	assert.Contains(t, doc, "  unused (W098)\n")
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "    ") {
			assert.LessOrEqual(t, len(line), 60, line)
		}
	}
}

// --- Formatting ---

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, lintSource(t, "foo();\n"))
	assert.Equal(t, "test.js:1:1: 'foo' is not defined. (W117)\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, lintSource(t, "foo();\n")))
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "W117", decoded[0]["code"])
	assert.Equal(t, "warning", decoded[0]["severity"])
	assert.Equal(t, "undef", decoded[0]["analyzer"])
	pos := decoded[0]["pos"].(map[string]interface{})
	assert.Equal(t, "test.js", pos["file"])
	assert.Equal(t, float64(1), pos["line"])
}

func TestFormatResultsJSON(t *testing.T) {
	res := lintWith(t, &Linter{}, "foo();\n")
	var buf bytes.Buffer
	require.NoError(t, FormatResultsJSON(&buf, []*Result{res}))
	assert.Contains(t, buf.String(), `"implieds"`)
	assert.Contains(t, buf.String(), `"name": "foo"`)
	assert.Len(t, Diagnostics([]*Result{res, res}), 2)
}

// --- Tracing ---

func TestLintFile_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()), "TracerProvider shutdown")
	})

	l := &Linter{Tracer: tp.Tracer(TracerName)}
	lintWith(t, l, "foo();\n")

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	var names []string
	for _, s := range spans {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"lint.File", "lint.Walk", "lint.Report"}, names)
	root := spans[len(spans)-1]
	assert.Equal(t, "lint.File", root.Name)
	for _, s := range spans[:len(spans)-1] {
		assert.Equal(t, root.SpanContext.SpanID(), s.Parent.SpanID(), s.Name)
	}
}

// --- Cache ---

func TestCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenCache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())

	l := &Linter{Cache: c}
	src := "var a = 1;\nfoo(a);\nvar b;\n"
	first := lintWith(t, l, src)

	entries, err := os.ReadDir(filepath.Join(dir, "results"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	second, err := l.LintFile(context.Background(), []byte(src), "other.js")
	require.NoError(t, err)
	assert.Equal(t, "other.js", second.File)
	assert.Equal(t, diagCodes(first.Diagnostics), diagCodes(second.Diagnostics))
	for i := range second.Diagnostics {
		assert.Equal(t, "other.js", second.Diagnostics[i].Pos.File)
		assert.Equal(t, first.Diagnostics[i].Message, second.Diagnostics[i].Message)
		assert.Equal(t, first.Diagnostics[i].Severity, second.Diagnostics[i].Severity)
	}
	assert.Equal(t, first.Data.Implieds, second.Data.Implieds)

	require.NoError(t, c.Clear())
	_, ok := c.Get(c.Key([]byte(src), l.fingerprint()))
	assert.False(t, ok)
}

func TestCache_KeyDependsOnConfig(t *testing.T) {
	c, err := OpenCache(t.TempDir())
	require.NoError(t, err)
	src := []byte("foo();\n")
	plain := &Linter{}
	ignoring := &Linter{Ignored: []diagnostic.Code{diagnostic.Undefined}}
	assert.Equal(t, c.Key(src, plain.fingerprint()), c.Key(src, plain.fingerprint()))
	assert.NotEqual(t, c.Key(src, plain.fingerprint()), c.Key(src, ignoring.fingerprint()))
	assert.NotEqual(t, c.Key(src, plain.fingerprint()), c.Key([]byte("bar();\n"), plain.fingerprint()))
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenCache(dir)
	require.NoError(t, err)
	key := c.Key([]byte("x"), nil)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "results"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "results", key+".mp"), []byte("\xc1"), 0o600))
	_, ok := c.Get(key)
	assert.False(t, ok)

	var nilCache *Cache
	_, ok = nilCache.Get(key)
	assert.False(t, ok)
	assert.NoError(t, nilCache.Put(key, &Result{}))
}
