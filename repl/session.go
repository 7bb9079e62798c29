// Copyright © 2024 The ELPS authors

package repl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
	"github.com/luthersystems/jsvet/parser/lexer"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
	"github.com/luthersystems/jsvet/walker"
)

// sessionFile names the session buffer in diagnostics.
const sessionFile = "<repl>"

// commands lists the session commands with their help text.
var commands = []struct{ name, help string }{
	{":tokens", "print the tokens of the last input, or of the given text"},
	{":globals", "list implied and used globals"},
	{":unused", "list unused bindings"},
	{":set", "set an option, e.g. :set esversion 6, or silence a code with :set -W117"},
	{":options", "print the current options"},
	{":source", "print the session source"},
	{":reset", "discard the session source"},
	{":help", "show this help"},
}

// Session accumulates JavaScript lines and re-analyzes the whole buffer as
// each line is added, reporting only diagnostics not seen before.
type Session struct {
	opts    state.Options
	ignored []diagnostic.Code
	lines   []string
	last    *lint.Result
	seen    map[string]bool
}

// NewSession returns an empty session.  Unused bindings are not reported by
// default since later input usually refers to them.
func NewSession() *Session {
	opts := state.DefaultOptions()
	opts.Unused = state.UnusedOff
	return &Session{opts: opts, seen: make(map[string]bool)}
}

// Source returns the session buffer.
func (s *Session) Source() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// Eval handles one line of input, writing its output to w.
func (s *Session) Eval(w io.Writer, line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	if cmd, arg, ok := parseCommand(line); ok {
		s.command(w, cmd, arg)
		return
	}

	s.lines = append(s.lines, line)
	res := s.analyze()
	if res.Abandoned {
		s.lines = s.lines[:len(s.lines)-1]
		fmt.Fprintf(w, "scanning abandoned; input discarded\n") //nolint:errcheck // best-effort REPL output
		s.analyze()
		return
	}
	var fresh []lint.Diagnostic
	for _, d := range res.Diagnostics {
		key := diagKey(d)
		if !s.seen[key] {
			s.seen[key] = true
			fresh = append(fresh, d)
		}
	}
	renderDiagnostics(w, fresh, []byte(s.Source()))
}

func parseCommand(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return "", "", false
	}
	cmd, arg, _ := strings.Cut(trimmed, " ")
	return cmd, strings.TrimSpace(arg), true
}

func diagKey(d lint.Diagnostic) string {
	return fmt.Sprintf("%d:%d:%s:%s", d.Pos.Line, d.Pos.Col, d.Code, d.Message)
}

// analyze lints the session buffer and remembers the result.
func (s *Session) analyze() *lint.Result {
	opts := s.opts
	l := &lint.Linter{Options: &opts, Ignored: s.ignored}
	res, err := l.LintFile(context.Background(), []byte(s.Source()), sessionFile)
	if err != nil {
		// Only a done context fails LintFile.
		panic(err)
	}
	s.last = res
	return res
}

func (s *Session) command(w io.Writer, cmd, arg string) {
	switch cmd {
	case ":tokens":
		src := arg
		if src == "" && len(s.lines) > 0 {
			src = s.lines[len(s.lines)-1]
		}
		writeTokens(w, src, s.opts)
	case ":globals":
		if s.last == nil {
			return
		}
		for _, ig := range s.last.Data.Implieds {
			lines := make([]string, len(ig.Lines))
			for i, l := range ig.Lines {
				lines[i] = strconv.Itoa(l)
			}
			fmt.Fprintf(w, "implied %s (line %s)\n", ig.Name, strings.Join(lines, ", ")) //nolint:errcheck // best-effort REPL output
		}
		for _, name := range s.last.Data.Globals {
			fmt.Fprintf(w, "used    %s\n", name) //nolint:errcheck // best-effort REPL output
		}
	case ":unused":
		if s.last == nil {
			return
		}
		for _, u := range s.last.Data.Unused {
			fmt.Fprintf(w, "%s %d:%d\n", u.Name, u.Line, u.Character) //nolint:errcheck // best-effort REPL output
		}
	case ":set":
		s.set(w, arg)
	case ":options":
		writeOptions(w, s.opts, s.ignored)
	case ":source":
		io.WriteString(w, s.Source()) //nolint:errcheck,gosec // best-effort REPL output
	case ":reset":
		s.lines = nil
		s.last = nil
		s.seen = make(map[string]bool)
	case ":help":
		for _, c := range commands {
			fmt.Fprintf(w, "%-9s %s\n", c.name, c.help) //nolint:errcheck // best-effort REPL output
		}
	default:
		fmt.Fprintf(w, "unknown command %s; try :help\n", cmd) //nolint:errcheck // best-effort REPL output
	}
}

// set applies ":set key value".  A "-Wxxx" key silences a warning.
// Changing options re-analyzes the buffer from scratch.
func (s *Session) set(w io.Writer, arg string) {
	key, value, _ := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)
	if code, ok := strings.CutPrefix(key, "-"); ok {
		c := diagnostic.Code(strings.ToUpper(code))
		if !c.Known() || c.Severity() != diagnostic.SeverityWarning {
			fmt.Fprintf(w, "not a warning code: %s\n", code) //nolint:errcheck // best-effort REPL output
			return
		}
		s.ignored = append(s.ignored, c)
	} else {
		if value == "" {
			value = "true"
		}
		if err := s.opts.Set(key, value); err != nil {
			fmt.Fprintln(w, err) //nolint:errcheck // best-effort REPL output
			return
		}
	}
	s.seen = make(map[string]bool)
	if len(s.lines) > 0 {
		for _, d := range s.analyze().Diagnostics {
			s.seen[diagKey(d)] = true
		}
	}
}

func writeOptions(w io.Writer, opts state.Options, ignored []diagnostic.Code) {
	fmt.Fprintf(w, "esversion %d\nundef     %t\nunused    %q\nshadow    %q\nlatedef   %q\nstrict    %q\nnode      %t\nmodule    %t\nmaxlen    %d\n", //nolint:errcheck // best-effort REPL output
		opts.ESVersion, opts.Undef, opts.Unused, opts.Shadow, opts.Latedef,
		opts.Strict, opts.Node, opts.Module, opts.MaxLen)
	if len(ignored) > 0 {
		codes := make([]string, len(ignored))
		for i, c := range ignored {
			codes[i] = string(c)
		}
		sort.Strings(codes)
		fmt.Fprintf(w, "ignored   %s\n", strings.Join(codes, " ")) //nolint:errcheck // best-effort REPL output
	}
}

// writeTokens prints the tokens of src, one per line.
func writeTokens(w io.Writer, src string, opts state.Options) {
	lex := lexer.New(sessionFile, src, state.New(opts), diagnostic.Discard)
	lex.Start()
	for {
		tok := lex.Next()
		switch tok.Type {
		case token.ENDLINE:
			continue
		case token.EOF:
			return
		case token.FATAL:
			fmt.Fprintln(w, tok.Type) //nolint:errcheck // best-effort REPL output
			return
		}
		fmt.Fprintf(w, "%-14s %q\n", tok.Type, tok.Value) //nolint:errcheck // best-effort REPL output
	}
}

// names returns the identifiers known to the session: the standard globals
// and every global the buffer uses or implies.
func (s *Session) names() []string {
	set := make(map[string]bool)
	for name := range walker.StandardGlobals(s.opts) {
		set[name] = true
	}
	if s.last != nil {
		for _, name := range s.last.Data.Globals {
			set[name] = true
		}
		for _, ig := range s.last.Data.Implieds {
			set[ig.Name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
