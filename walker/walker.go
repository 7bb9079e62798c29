// Copyright © 2024 The ELPS authors

// Package walker connects the lexer to the scope manager.
//
// A Walker pulls tokens from a lexer, runs each token's deferred checks once
// the token is consumed, applies directive comments to the file's state, and
// recognizes the declarations and references the scope manager needs from
// token patterns alone.  It builds no syntax tree and reports no syntax
// errors; malformed input only makes its bookkeeping less precise.
package walker

import (
	"sort"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/directive"
	"github.com/luthersystems/jsvet/parser/lexer"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/scope"
	"github.com/luthersystems/jsvet/state"
)

// Config holds the externally supplied inputs of a walk.
type Config struct {
	// Predefined maps global names to whether they may be assigned.  A name
	// prefixed with '-' removes a standard global instead.
	Predefined map[string]bool
	// Exported names are never reported as unused.
	Exported []string
	// Observers receive the lexer's per token kind notifications.
	Observers []lexer.Observer
}

// Walker drives a scope.Manager over one file.
type Walker struct {
	st    *state.State
	sink  diagnostic.Sink
	lex   *lexer.Lexer
	scope *scope.Manager

	globals   scope.Globals
	blacklist map[string]bool
	members   map[string]bool
	ignored   map[int]bool

	buf      []pending
	held     []func()
	lastLine int
	cur      *token.Token
	prev     *token.Token
	prev2    *token.Token
	newline  bool

	frames       []*frame
	classPending bool
	exporting    bool

	tokens int
	fatal  bool
	done   bool
}

// pending is a lookahead token whose deferred checks have not run.  before
// holds the line breaks and directive comments that precede it in the
// source and were pulled while earlier tokens were still buffered.
type pending struct {
	tok     *token.Token
	checks  *lexer.Checks
	newline bool
	before  []func()
}

// New returns a walker for src.  Diagnostics from the lexer, the scope
// manager and directive comments are reported to sink, except those
// suppressed by st.Ignored or by an ignore:start region.
func New(file, src string, st *state.State, sink diagnostic.Sink, cfg Config) *Walker {
	if sink == nil {
		sink = diagnostic.Discard
	}
	w := &Walker{
		st:        st,
		sink:      sink,
		blacklist: make(map[string]bool),
		members:   make(map[string]bool),
		ignored:   make(map[int]bool),
		globals: scope.Globals{
			Predefined: make(map[string]bool),
			Exported:   make(map[string]bool),
			Declared:   make(map[string]*token.Token),
		},
	}
	filtered := diagnostic.SinkFunc(w.report)
	w.lex = lexer.New(file, src, st, filtered)
	for _, obs := range cfg.Observers {
		w.lex.Subscribe(obs)
	}
	for name, writable := range cfg.Predefined {
		if len(name) > 1 && name[0] == '-' {
			w.blacklist[name[1:]] = true
			continue
		}
		w.globals.Predefined[name] = writable
	}
	w.predefineStandard()
	for _, name := range cfg.Exported {
		w.globals.Exported[name] = true
	}
	w.scope = scope.New(st, filtered, w.globals)
	w.frames = []*frame{{kind: globalFrame, prologue: true}}
	w.lex.Start()
	return w
}

// Walk consumes the whole token stream.  Unless the lexer abandons the file,
// the global scope is unstacked at the end and the scope manager's results
// are final.  Calling Walk again has no effect.
func (w *Walker) Walk() {
	if w.done {
		return
	}
	w.done = true
	w.detectJSON()
	for {
		tok := w.next()
		switch tok.Type {
		case token.FATAL:
			w.fatal = true
			return
		case token.EOF:
			w.finish()
			return
		}
		w.tokens++
		w.handle(tok)
		if !tok.Is("export") && !tok.Is("default") {
			w.exporting = false
		}
	}
}

// Scope returns the scope manager driven by w.
func (w *Walker) Scope() *scope.Manager { return w.scope }

// Lexer returns the lexer w reads from.
func (w *Walker) Lexer() *lexer.Lexer { return w.lex }

// Fatal reports whether the lexer abandoned the file.
func (w *Walker) Fatal() bool { return w.fatal }

// Tokens returns the number of significant tokens consumed.
func (w *Walker) Tokens() int { return w.tokens }

// Members returns the property names allowed by member directives, sorted.
func (w *Walker) Members() []string {
	names := make([]string, 0, len(w.members))
	for name := range w.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IgnoredLine reports whether an ignore:line directive appeared on line.
func (w *Walker) IgnoredLine(line int) bool {
	return w.ignored[line]
}

func (w *Walker) report(ev diagnostic.Event) {
	if w.lex != nil && w.lex.IgnoringLinterErrors() {
		return
	}
	if ev.Severity() == diagnostic.SeverityWarning && w.st.IsIgnored(string(ev.Code)) {
		return
	}
	w.sink.Report(ev)
}

// fill pulls significant tokens until the lookahead buffer holds n of them
// or the stream has ended.  Line breaks and comments are applied at once
// when nothing is buffered; otherwise they wait for the token after them to
// be consumed, so earlier tokens' checks never see their effects.
func (w *Walker) fill(n int) {
	for len(w.buf) < n {
		if k := len(w.buf); k > 0 && isEnd(w.buf[k-1].tok) {
			return
		}
		checks := w.lex.NewChecks()
		tok := w.lex.Token(checks)
		switch tok.Type {
		case token.ENDLINE:
			w.inOrder(checks.Run)
			continue
		case token.COMMENT:
			w.inOrder(func() {
				checks.Run()
				w.comment(tok)
			})
			continue
		}
		line := tok.Source.Line
		if tok.Str != nil {
			line = tok.Str.StartLine
		}
		w.buf = append(w.buf, pending{
			tok:     tok,
			checks:  checks,
			newline: w.lastLine > 0 && line > w.lastLine,
			before:  w.held,
		})
		w.held = nil
		w.lastLine = tok.Source.Line
	}
}

// inOrder runs fn now if no lookahead token is waiting for its checks, or
// holds it until the next significant token is consumed.
func (w *Walker) inOrder(fn func()) {
	if len(w.buf) == 0 {
		fn()
		return
	}
	w.held = append(w.held, fn)
}

// next consumes the next significant token and runs its deferred checks.
func (w *Walker) next() *token.Token {
	w.fill(1)
	p := w.buf[0]
	if !isEnd(p.tok) || len(w.buf) > 1 {
		w.buf = w.buf[1:]
	} else {
		w.buf[0].before = nil
	}
	for _, fn := range p.before {
		fn()
	}
	p.checks.Run()
	w.prev2, w.prev = w.prev, w.cur
	w.cur = p.tok
	w.newline = p.newline
	return p.tok
}

// peek returns the i-th significant token after the current one without
// consuming it.  Past the end of the stream it returns the final token.
func (w *Walker) peek(i int) *token.Token {
	w.fill(i + 1)
	if i < len(w.buf) {
		return w.buf[i].tok
	}
	return w.buf[len(w.buf)-1].tok
}

// detectJSON sets JSONMode when the whole file is one JSON object or array.
func (w *Walker) detectJSON() {
	if first := w.peek(0); !first.Is("{") && !first.Is("[") {
		return
	}
	depth := 0
	for i := 0; ; i++ {
		tok := w.peek(i)
		switch tok.Type {
		case token.STRING, token.NUMBER, token.BOOLEAN, token.NULL:
			continue
		case token.PUNCTUATOR:
		default:
			return
		}
		switch tok.Value {
		case "{", "[":
			depth++
		case "}", "]":
			depth--
			if depth == 0 {
				w.st.JSONMode = w.peek(i+1).Type == token.EOF
				return
			}
		case ",", ":", "-":
		default:
			return
		}
	}
}

func isEnd(tok *token.Token) bool {
	return tok.Type == token.EOF || tok.Type == token.FATAL
}

// comment applies a directive comment.
func (w *Walker) comment(tok *token.Token) {
	d := directive.FromToken(tok)
	if d == nil {
		return
	}
	t := &target{w: w, tok: tok}
	for _, p := range directive.Apply(d, w.st, t) {
		w.report(diagnostic.Event{
			Code:      p.Code,
			Line:      tok.Source.Line,
			Character: tok.Source.From,
			Data:      p.Data,
		})
	}
	if d.Kind == token.CommentJSHint || d.Kind == token.CommentJSLint {
		w.predefineStandard()
	}
}

// predefineStandard adds the globals implied by the current options.
func (w *Walker) predefineStandard() {
	for name, writable := range StandardGlobals(w.st.Option) {
		if w.blacklist[name] {
			continue
		}
		if _, ok := w.globals.Predefined[name]; !ok {
			w.globals.Predefined[name] = writable
		}
	}
}

// target applies directive side effects to a walker.
type target struct {
	w   *Walker
	tok *token.Token
}

func (t *target) Predefine(name string, writable bool) {
	delete(t.w.blacklist, name)
	t.w.globals.Predefined[name] = writable
}

func (t *target) Blacklist(name string) {
	t.w.blacklist[name] = true
	delete(t.w.globals.Predefined, name)
}

func (t *target) Declare(name string) {
	t.w.globals.Declared[name] = t.tok
}

func (t *target) Export(name string) {
	t.w.scope.AddExported(name)
}

func (t *target) Member(name string) {
	t.w.members[name] = true
}

func (t *target) IgnoreLine() {
	t.w.ignored[t.tok.Source.Line] = true
}
