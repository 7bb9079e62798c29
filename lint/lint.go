// Copyright © 2024 The ELPS authors

// Package lint runs the JavaScript lexer and scope manager over whole files.
//
// The linter is modeled after go vet: diagnostics are grouped into analyzers
// that can be selected by name, and the framework handles running the
// engines with a fresh per-file state, filtering and bounding the results,
// and formatting output.
package lint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/scope"
	"github.com/luthersystems/jsvet/state"
	"github.com/luthersystems/jsvet/walker"
)

// TracerName is the instrumentation name of the spans started by LintFile.
const TracerName = "github.com/luthersystems/jsvet/lint"

// ErrAbandoned is reported for files whose scanning could not continue.
var ErrAbandoned = errors.New("scanning abandoned")

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

func severityOf(code diagnostic.Code) Severity {
	switch code.Severity() {
	case diagnostic.SeverityError:
		return SeverityError
	case diagnostic.SeverityNote:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Code is the stable identifier of the problem, e.g. "W117".
	Code diagnostic.Code `json:"code"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Data holds the values interpolated into the message.
	Data []string `json:"data,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line:col: message (code)
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Code)
}

// Event converts d back to the engine payload it was built from.
func (d Diagnostic) Event() diagnostic.Event {
	return diagnostic.Event{Code: d.Code, Line: d.Pos.Line, Character: d.Pos.Col, Data: d.Data}
}

// Data is the per-file report that accompanies the diagnostics.
type Data struct {
	// Implieds are the undeclared globals the file uses, with the lines
	// they are used on.
	Implieds []scope.ImpliedGlobal `json:"implieds,omitempty"`
	// Globals are the declared or predefined globals the file uses.
	Globals []string `json:"globals,omitempty"`
	// Unused are the declarations the file never reads.
	Unused []scope.Unused `json:"unused,omitempty"`
	// Members are the property names allowed by member directives.
	Members []string `json:"member,omitempty"`
	// JSON is set when the file is a JSON document.
	JSON bool `json:"json,omitempty"`
}

// Result is the outcome of linting one file.
type Result struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Data        Data         `json:"data"`
	// Abandoned is set when the lexer could not continue past a construct.
	// Data is empty and Diagnostics stop at the point of failure.
	Abandoned bool `json:"abandoned,omitempty"`
}

// Err returns an error wrapping ErrAbandoned when r is abandoned.
func (r *Result) Err() error {
	if r.Abandoned {
		return fmt.Errorf("%s: %w", r.File, ErrAbandoned)
	}
	return nil
}

// Linter runs the engines over source files.  A Linter is safe for
// concurrent use once configured; every file gets its own state.
type Linter struct {
	// Analyzers selects the diagnostic groups to report.  Nil reports all.
	Analyzers []*Analyzer

	// Options are the initial options of every file.  The zero value means
	// state.DefaultOptions.
	Options *state.Options

	// Predefined maps extra global names to whether they may be assigned.
	// A name prefixed with '-' removes a standard global.
	Predefined map[string]bool

	// Exported names are never reported as unused.
	Exported []string

	// Ignored codes are never reported.
	Ignored []diagnostic.Code

	// Cache, when set, short circuits files whose content and
	// configuration were linted before.
	Cache *Cache

	// Tracer overrides the tracer from the global otel provider.
	Tracer trace.Tracer
}

func (l *Linter) tracer() trace.Tracer {
	if l.Tracer != nil {
		return l.Tracer
	}
	return otel.GetTracerProvider().Tracer(TracerName)
}

func (l *Linter) options() state.Options {
	if l.Options != nil {
		return *l.Options
	}
	return state.DefaultOptions()
}

// LintFile analyzes a single source file.  The only errors returned come
// from ctx; an abandoned file is reported through Result.Abandoned.
func (l *Linter) LintFile(ctx context.Context, source []byte, filename string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	ctx, span := l.tracer().Start(ctx, "lint.File", trace.WithAttributes(
		semconv.CodeFilepath(filename),
		attribute.Int("jsvet.source.bytes", len(source)),
	))
	defer span.End()

	var key string
	if l.Cache != nil {
		key = l.Cache.Key(source, l.fingerprint())
		if res, ok := l.Cache.Get(key); ok {
			span.SetAttributes(attribute.Bool("jsvet.cache.hit", true))
			res.File = filename
			for i := range res.Diagnostics {
				res.Diagnostics[i].Pos.File = filename
			}
			return res, nil
		}
	}

	res := l.run(ctx, source, filename)
	span.SetAttributes(
		attribute.Int("jsvet.diagnostics", len(res.Diagnostics)),
		attribute.Int("jsvet.implieds", len(res.Data.Implieds)),
	)
	if res.Abandoned {
		span.SetStatus(codes.Error, ErrAbandoned.Error())
	}
	if l.Cache != nil {
		if err := l.Cache.Put(key, res); err != nil {
			span.RecordError(err)
		}
	}
	return res, nil
}

func (l *Linter) run(ctx context.Context, source []byte, filename string) *Result {
	st := state.New(l.options())
	for _, code := range l.Ignored {
		st.Ignored[string(code)] = true
	}
	events := &diagnostic.Collector{}
	w := walker.New(filename, string(source), st, events, walker.Config{
		Predefined: l.Predefined,
		Exported:   l.Exported,
	})

	_, span := l.tracer().Start(ctx, "lint.Walk")
	w.Walk()
	span.SetAttributes(
		attribute.Int("jsvet.tokens", w.Tokens()),
		attribute.Int("jsvet.events", len(events.Events)),
	)
	span.End()

	_, span = l.tracer().Start(ctx, "lint.Report")
	defer span.End()
	res := &Result{File: filename, Abandoned: w.Fatal()}
	res.Diagnostics = l.collect(filename, events.Events, w, st.Option.MaxErr)
	if res.Abandoned {
		lex := w.Lexer()
		res.Diagnostics = append(res.Diagnostics, l.diagnostic(filename, diagnostic.Event{
			Code:      diagnostic.Unrecoverable,
			Line:      lex.Line(),
			Character: lex.Char(),
		}))
	} else {
		m := w.Scope()
		res.Data = Data{
			Implieds: m.ImpliedGlobals(),
			Globals:  m.UsedOrDefinedGlobals(),
			Unused:   m.Unuseds(),
			Members:  w.Members(),
			JSON:     st.JSONMode,
		}
	}
	sortDiagnostics(res.Diagnostics)
	return res
}

// collect converts events to diagnostics, dropping events on lines marked
// with ignore:line and those of unselected analyzers.  The rest are sorted
// by position; after maxErr of them a single TooManyErrors diagnostic at the
// first dropped position ends the list.
func (l *Linter) collect(filename string, events []diagnostic.Event, w *walker.Walker, maxErr int) []Diagnostic {
	var diags []Diagnostic
	for _, ev := range events {
		if w.IgnoredLine(ev.Line) || !l.selected(ev.Code) {
			continue
		}
		diags = append(diags, l.diagnostic(filename, ev))
	}
	sortDiagnostics(diags)
	if maxErr > 0 && len(diags) > maxErr {
		cut := diags[maxErr].Pos
		diags = append(diags[:maxErr], l.diagnostic(filename, diagnostic.Event{
			Code:      diagnostic.TooManyErrors,
			Line:      cut.Line,
			Character: cut.Col,
		}))
	}
	return diags
}

func (l *Linter) selected(code diagnostic.Code) bool {
	if l.Analyzers == nil {
		return true
	}
	a := AnalyzerFor(code)
	if a == nil {
		return true
	}
	for _, sel := range l.Analyzers {
		if sel == a {
			return true
		}
	}
	return false
}

func (l *Linter) diagnostic(filename string, ev diagnostic.Event) Diagnostic {
	d := Diagnostic{
		Pos:      Position{File: filename, Line: ev.Line, Col: ev.Character},
		Code:     ev.Code,
		Message:  ev.Message(),
		Severity: severityOf(ev.Code),
		Data:     ev.Data,
	}
	if a := AnalyzerFor(ev.Code); a != nil {
		d.Analyzer = a.Name
	}
	return d
}

// sortDiagnostics orders diagnostics by file, then line, then column,
// keeping emission order otherwise.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Pos, diags[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// fingerprint identifies the configuration that influences results.
func (l *Linter) fingerprint() []byte {
	opts := l.options()
	cfg := struct {
		Options    state.Options
		Exception  string
		Predefined map[string]bool
		Exported   []string
		Ignored    []diagnostic.Code
		Analyzers  []string
	}{
		Options:    opts,
		Predefined: l.Predefined,
		Exported:   l.Exported,
		Ignored:    l.Ignored,
	}
	cfg.Options.MaxLenException = nil
	if opts.MaxLenException != nil {
		cfg.Exception = opts.MaxLenException.String()
	}
	for _, a := range l.Analyzers {
		cfg.Analyzers = append(cfg.Analyzers, a.Name)
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		panic(fmt.Sprintf("lint: unencodable configuration: %v", err))
	}
	return b
}

// Diagnostics flattens the diagnostics of results, in order.
func Diagnostics(results []*Result) []Diagnostic {
	var all []Diagnostic
	for _, r := range results {
		all = append(all, r.Diagnostics...)
	}
	return all
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// FormatResultsJSON writes full results, including the per-file data
// report, as JSON.
func FormatResultsJSON(w io.Writer, results []*Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
