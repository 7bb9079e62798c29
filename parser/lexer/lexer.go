// Copyright © 2018 The ELPS authors

// Package lexer converts JavaScript source text into a stream of tokens on
// demand, reporting purely lexical diagnostics as it goes.
//
// The lexer works a physical line at a time.  Tokens are pulled with Token
// (or Next), and every call returns exactly one token.  Diagnostics whose
// truth depends on state that is not final when a token is scanned are
// queued on a Checks value and evaluated when the caller runs it, right
// after the token is delivered.
package lexer

import (
	"strings"
	"unicode"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// eol is returned by peek past the end of the current line.
const eol rune = -1

// ContextType distinguishes ordinary braces from template substitutions.
type ContextType int

const (
	BlockContext ContextType = iota + 1
	TemplateContext
)

func (typ ContextType) String() string {
	switch typ {
	case BlockContext:
		return "block"
	case TemplateContext:
		return "template"
	}
	return "unknown"
}

// Context is an entry on the lexer's brace context stack.
type Context struct {
	ID   int
	Type ContextType
}

type position struct {
	line int
	char int
}

// Lexer is a stateful JavaScript scanner.  A Lexer reads a single file and
// cannot be restarted.
type Lexer struct {
	file      string
	lines     []string
	st        *state.State
	sink      diagnostic.Sink
	observers []Observer

	tab       string
	line      int // number of lines consumed so far
	char      int
	from      int
	input     []rune
	prereg    bool
	inComment bool
	ignoring  bool
	exhausted bool
	fatal     bool
	eof       *token.Token
	prev      *token.Token

	context        []*Context
	contextID      int
	templateStarts []position
}

// New returns a lexer for src, which is split into lines on CRLF, CR and
// LF.  Diagnostics are reported to sink.  The lexer reads options from st
// and may set st.Option.Node when the source starts with a node shebang.
func New(file string, src string, st *state.State, sink diagnostic.Sink) *Lexer {
	return NewLines(file, token.SplitLines(src), st, sink)
}

// NewLines is like New but takes source already split into lines.  The
// slice is copied.
func NewLines(file string, lines []string, st *state.State, sink diagnostic.Sink) *Lexer {
	lines = append([]string(nil), lines...)
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#!") {
		if strings.Contains(lines[0], "node") {
			st.Option.Node = true
		}
		lines[0] = ""
	}
	if sink == nil {
		sink = diagnostic.Discard
	}
	return &Lexer{
		file:   file,
		lines:  lines,
		st:     st,
		sink:   sink,
		tab:    st.Tab(),
		prereg: true,
		char:   1,
		from:   1,
	}
}

// Subscribe registers obs to receive per token kind notifications.
func (lex *Lexer) Subscribe(obs Observer) {
	lex.observers = append(lex.observers, obs)
}

// Start positions the lexer at the first line.  Start must be called before
// the first call to Token.
func (lex *Lexer) Start() {
	lex.nextLine()
}

// Lines returns the source lines being scanned.  Tabs are not expanded.
func (lex *Lexer) Lines() []string {
	return lex.lines
}

// Line returns the current 1-based line number.
func (lex *Lexer) Line() int { return lex.line }

// Char returns the current 1-based column.
func (lex *Lexer) Char() int { return lex.char }

// Prereg reports whether a '/' at the cursor would be scanned as the start
// of a regular expression.
func (lex *Lexer) Prereg() bool { return lex.prereg }

// Fatal reports whether scanning was abandoned because of an unterminated
// regular expression.
func (lex *Lexer) Fatal() bool { return lex.fatal }

// IgnoringLinterErrors reports whether the lexer is inside an
// ignore:start/ignore:end region.
func (lex *Lexer) IgnoringLinterErrors() bool { return lex.ignoring }

// TemplateDepth returns the number of currently open template literals.
func (lex *Lexer) TemplateDepth() int { return len(lex.templateStarts) }

// PushContext pushes a new context of the given type and returns it.
func (lex *Lexer) PushContext(typ ContextType) *Context {
	lex.contextID++
	ctx := &Context{ID: lex.contextID, Type: typ}
	lex.context = append(lex.context, ctx)
	return ctx
}

// PopContext removes and returns the innermost context, or nil when the
// stack is empty.
func (lex *Lexer) PopContext() *Context {
	if len(lex.context) == 0 {
		return nil
	}
	ctx := lex.context[len(lex.context)-1]
	lex.context = lex.context[:len(lex.context)-1]
	return ctx
}

// InContext reports whether the innermost context has type typ.
func (lex *Lexer) InContext(typ ContextType) bool {
	return len(lex.context) > 0 && lex.context[len(lex.context)-1].Type == typ
}

// IsContext reports whether ctx is the innermost context.
func (lex *Lexer) IsContext(ctx *Context) bool {
	return len(lex.context) > 0 && lex.context[len(lex.context)-1] == ctx
}

// CurrentContext returns the innermost context, or nil.
func (lex *Lexer) CurrentContext() *Context {
	if len(lex.context) == 0 {
		return nil
	}
	return lex.context[len(lex.context)-1]
}

// Next returns the next token and immediately runs its deferred checks.
func (lex *Lexer) Next() *token.Token {
	checks := lex.NewChecks()
	tok := lex.Token(checks)
	checks.Run()
	return tok
}

// Token scans and returns the next token.  Deferred diagnostics and
// notifications produced while scanning it are queued on checks, which the
// caller must Run once it has consumed the token.  A caller holding tokens
// for lookahead may run each batch later, in token order.  After the end of input
// Token keeps returning the same EOF token.  An unterminated regular
// expression yields a single FATAL token, after which the stream ends.
func (lex *Lexer) Token(checks *Checks) *token.Token {
	if checks == nil {
		checks = lex.NewChecks()
		defer checks.Run()
	}
	for {
		if len(lex.input) == 0 {
			if lex.nextLine() {
				return lex.create(token.ENDLINE, "", nil)
			}
			if lex.exhausted {
				return lex.eof
			}
			lex.exhausted = true
			lex.eof = lex.create(token.EOF, "", nil)
			return lex.eof
		}

		s := lex.next(checks)
		if lex.fatal {
			return lex.abandon()
		}
		if s == nil {
			if len(lex.input) > 0 {
				lex.report(diagnostic.UnexpectedChar, lex.line, lex.char, string(lex.peek(0)))
				lex.skip(1)
			}
			continue
		}

		switch s.typ {
		case token.STRING:
			ev := lex.notification(StringEvent, s)
			ev.Quote = s.str.Quote
			checks.notify(ev, nil)
			return lex.create(token.STRING, s.value, s)
		case token.TEMPLATE_HEAD:
			lex.notify(lex.notification(TemplateHeadEvent, s))
			return lex.create(s.typ, s.value, s)
		case token.TEMPLATE_MIDDLE:
			lex.notify(lex.notification(TemplateMiddleEvent, s))
			return lex.create(s.typ, s.value, s)
		case token.TEMPLATE_TAIL:
			lex.notify(lex.notification(TemplateTailEvent, s))
			return lex.create(s.typ, s.value, s)
		case token.NO_SUBST_TEMPLATE:
			lex.notify(lex.notification(NoSubstTemplateEvent, s))
			return lex.create(s.typ, s.value, s)
		case token.IDENTIFIER:
			ev := lex.notification(IdentifierEvent, s)
			ev.RawName = s.text
			ev.IsProperty = lex.afterDot()
			checks.notify(ev, nil)
			return lex.create(s.typ, s.value, s)
		case token.KEYWORD, token.NULL, token.BOOLEAN:
			return lex.create(s.typ, s.value, s)
		case token.NUMBER:
			lex.numberChecks(s, checks)
			return lex.create(token.NUMBER, s.value, s)
		case token.REGEXP:
			return lex.create(token.REGEXP, s.value, s)
		case token.COMMENT:
			if s.comment.Special {
				return lex.commentTok(s)
			}
		default:
			return lex.create(token.PUNCTUATOR, s.value, s)
		}
	}
}

func (lex *Lexer) numberChecks(s *scanned, checks *Checks) {
	num := s.number
	if num.Malformed {
		lex.report(diagnostic.BadNumber, lex.line, lex.char, s.value)
	}
	st := lex.st
	checks.warn(diagnostic.Event{
		Code: diagnostic.Avoid, Line: lex.line, Character: lex.char, Data: []string{"0x-"},
	}, func() bool { return num.Base == 16 && st.JSONMode })
	checks.warn(diagnostic.Event{
		Code: diagnostic.StrictOctal, Line: lex.line, Character: lex.char,
	}, func() bool { return st.IsStrict() && num.Base == 8 && num.Legacy })

	ev := lex.notification(NumberEvent, s)
	ev.Base = num.Base
	ev.Malformed = num.Malformed
	lex.notify(ev)
}

// next skips whitespace and runs the scanners in priority order.
func (lex *Lexer) next(checks *Checks) *scanned {
	lex.from = lex.char
	for isWhitespace(lex.peek(0)) {
		lex.from++
		lex.skip(1)
	}

	if s := lex.scanComments(); s != nil {
		return s
	}
	if s := lex.scanStringLiteral(checks); s != nil {
		return s
	}
	if s := lex.scanTemplateLiteral(checks); s != nil {
		return s
	}

	var s *scanned
	for _, scan := range []func(*Lexer) *scanned{
		(*Lexer).scanRegExp,
		(*Lexer).scanPunctuator,
		(*Lexer).scanKeyword,
		(*Lexer).scanIdentifier,
		(*Lexer).scanNumericLiteral,
	} {
		s = scan(lex)
		if s != nil || lex.fatal {
			break
		}
	}
	if s == nil {
		return nil
	}
	n := s.length
	if n == 0 {
		n = len([]rune(s.value))
	}
	lex.skip(n)
	return s
}

// nextLine advances to the next physical line, performing the per-line
// checks.  It returns false at the end of input.
func (lex *Lexer) nextLine() bool {
	if lex.line >= len(lex.lines) {
		return false
	}
	raw := lex.lines[lex.line]
	lex.line++
	lex.char = 1
	lex.from = 1

	trimmed := strings.TrimFunc(raw, isWhitespace)
	startsComment := strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "//")
	if lex.ignoring {
		if !startsComment && !(lex.inComment && strings.HasSuffix(trimmed, "*/")) {
			raw = ""
		}
	}

	if lex.st.Option.Nonbsp {
		if i := runeIndex(raw, '\u00a0'); i >= 0 {
			lex.report(diagnostic.NonBreakingSpace, lex.line, i+1)
		}
	}

	raw = strings.ReplaceAll(raw, "\t", lex.tab)
	lex.input = []rune(raw)

	if i := unsafeCharIndex(raw); i >= 0 {
		lex.report(diagnostic.UnsafeChar, lex.line, i+1)
	}

	maxlen := lex.st.Option.MaxLen
	if !lex.ignoring && maxlen > 0 && maxlen < len(lex.input) {
		exception := lex.st.Option.MaxLenException
		if exception == nil {
			exception = state.DefaultMaxLenException
		}
		inComment := lex.inComment || startsComment
		if !inComment || !exception.MatchString(trimmed) {
			lex.report(diagnostic.LineTooLong, lex.line, len(lex.input))
		}
	}
	return true
}

// create builds a token at the current position and updates prereg.
func (lex *Lexer) create(typ token.Type, value string, s *scanned) *token.Token {
	if typ != token.ENDLINE && typ != token.EOF {
		lex.prereg = false
	}
	tok := &token.Token{
		Type:  typ,
		Text:  value,
		Value: value,
		Source: &token.Location{
			File: lex.file,
			Line: lex.line,
			Col:  lex.char,
			From: lex.from,
		},
	}
	switch typ {
	case token.PUNCTUATOR:
		tok.Meta = token.Lookup(value)
		lex.prereg = tok.Meta == nil || !tok.Meta.EndsExpression
	case token.IDENTIFIER, token.KEYWORD, token.BOOLEAN, token.NULL:
		switch value {
		case "return", "case", "typeof":
			lex.prereg = true
		}
		isProperty := lex.afterDot()
		if meta := token.Lookup(value); meta != nil {
			tok.Meta = meta
			strict := lex.st.Option.Strict != state.StrictOff || lex.st.IsStrict()
			tok.Reserved = meta.IsReserved(lex.st.InES5(false), strict, isProperty && typ == token.IDENTIFIER)
		}
		tok.IsProperty = isProperty && typ == token.IDENTIFIER
		if s != nil && s.text != "" {
			tok.Text = s.text
		}
	}
	if s != nil {
		tok.Number = s.number
		tok.Str = s.str
		tok.RegExp = s.regexp
		tok.Template = s.template
	}
	if typ != token.ENDLINE {
		lex.prev = tok
	}
	return tok
}

func (lex *Lexer) commentTok(s *scanned) *token.Token {
	return &token.Token{
		Type:    token.COMMENT,
		Text:    s.value,
		Value:   s.value,
		Comment: s.comment,
		Source: &token.Location{
			File: lex.file,
			Line: lex.line,
			Col:  lex.char,
			From: lex.from,
		},
	}
}

// abandon ends the stream after a fatal condition.
func (lex *Lexer) abandon() *token.Token {
	tok := &token.Token{
		Type: token.FATAL,
		Source: &token.Location{
			File: lex.file,
			Line: lex.line,
			Col:  lex.char,
			From: lex.from,
		},
	}
	lex.input = nil
	lex.line = len(lex.lines)
	return tok
}

// afterDot reports whether the previously returned token is a '.'.
func (lex *Lexer) afterDot() bool {
	return lex.prev != nil && lex.prev.Type == token.PUNCTUATOR && lex.prev.Value == "."
}

func (lex *Lexer) peek(i int) rune {
	if i < 0 || i >= len(lex.input) {
		return eol
	}
	return lex.input[i]
}

func (lex *Lexer) skip(n int) {
	if n > len(lex.input) {
		n = len(lex.input)
	}
	lex.char += n
	lex.input = lex.input[n:]
}

// hasPrefixAt reports whether the input at offset i starts with s.
func (lex *Lexer) hasPrefixAt(i int, s string) bool {
	for _, c := range s {
		if lex.peek(i) != c {
			return false
		}
		i++
	}
	return true
}

func (lex *Lexer) report(code diagnostic.Code, line, char int, data ...string) {
	lex.sink.Report(diagnostic.Event{Code: code, Line: line, Character: char, Data: data})
}

func isWhitespace(c rune) bool {
	return c != eol && (unicode.IsSpace(c) || c == '\ufeff')
}

func runeIndex(s string, r rune) int {
	i := 0
	for _, c := range s {
		if c == r {
			return i
		}
		i++
	}
	return -1
}
