// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
)

type escape struct {
	value        string
	jump         int
	allowNewLine bool
}

// scanEscapeSequence consumes the backslash at the cursor and decodes the
// escape that follows.  The caller skips jump runes afterwards.  Common
// escapes such as \n stay escaped in the returned value.
func (lex *Lexer) scanEscapeSequence(checks *Checks) escape {
	lex.skip(1)
	st := lex.st
	line, char := lex.line, lex.char
	c := lex.peek(0)
	esc := escape{value: string(c), jump: 1}

	switch c {
	case '\'':
		checks.warn(diagnostic.Event{
			Code: diagnostic.Avoid, Line: line, Character: char, Data: []string{`\'`},
		}, func() bool { return st.JSONMode })
	case 'b', 'f', 'n', 'r', 't', '\\', '"':
		esc.value = `\` + string(c)
	case '0':
		esc.value = `\0`
		next := lex.peek(1)
		checks.warn(diagnostic.Event{
			Code: diagnostic.StrictOctal, Line: line, Character: char,
		}, func() bool { return next >= '0' && next <= '7' && st.IsStrict() })
	case 'u':
		hex := lex.slice(1, 5)
		code, ok := parseHexPrefix(hex)
		if !ok {
			lex.report(diagnostic.UnexpectedEscape, line, char, "u"+hex)
		}
		esc.value = string(rune(code))
		esc.jump = 5
	case 'v':
		checks.warn(diagnostic.Event{
			Code: diagnostic.Avoid, Line: line, Character: char, Data: []string{`\v`},
		}, func() bool { return st.JSONMode })
		esc.value = "\v"
	case 'x':
		code, _ := parseHexPrefix(lex.slice(1, 3))
		checks.warn(diagnostic.Event{
			Code: diagnostic.Avoid, Line: line, Character: char, Data: []string{`\x-`},
		}, func() bool { return st.JSONMode })
		esc.value = string(rune(code))
		esc.jump = 3
	case eol:
		esc.value = ""
		esc.allowNewLine = true
	}
	return esc
}

// scanStringLiteral scans a single or double quoted string, which may span
// lines through escaped newlines.
func (lex *Lexer) scanStringLiteral(checks *Checks) *scanned {
	quote := lex.peek(0)
	if quote != '"' && quote != '\'' {
		return nil
	}
	st := lex.st
	checks.warn(diagnostic.Event{
		Code: diagnostic.SingleQuote, Line: lex.line, Character: lex.char,
	}, func() bool { return st.JSONMode && quote != '"' })

	var value strings.Builder
	startLine, startChar := lex.line, lex.char
	allowNewLine := false
	info := &token.StringInfo{Quote: quote, StartLine: startLine, StartCol: startChar}
	lex.skip(1)

	for lex.peek(0) != quote {
		if lex.peek(0) == eol {
			if !allowNewLine {
				lex.report(diagnostic.UnclosedStringLine, lex.line, lex.char)
			} else {
				allowNewLine = false
				checks.warn(diagnostic.Event{
					Code: diagnostic.BadEOLEscape, Line: lex.line, Character: lex.char,
				}, func() bool { return !st.Option.Multistr })
				checks.warn(diagnostic.Event{
					Code: diagnostic.AvoidEOLEscape, Line: lex.line, Character: lex.char,
				}, func() bool { return st.JSONMode && st.Option.Multistr })
			}
			if !lex.nextLine() {
				lex.report(diagnostic.UnclosedString, startLine, startChar)
				info.Unclosed = true
				return &scanned{typ: token.STRING, value: value.String(), str: info}
			}
			continue
		}

		allowNewLine = false
		c := lex.peek(0)
		if c < ' ' {
			lex.report(diagnostic.ControlChar, lex.line, lex.char, "<non-printable>")
		}
		if c == '\\' {
			esc := lex.scanEscapeSequence(checks)
			value.WriteString(esc.value)
			allowNewLine = esc.allowNewLine
			lex.skip(esc.jump)
			continue
		}
		value.WriteRune(c)
		lex.skip(1)
	}
	lex.skip(1)
	return &scanned{typ: token.STRING, value: value.String(), str: info}
}

// scanTemplateLiteral scans a template head at a backquote, or the middle
// or tail of a template when a '}' closes a substitution.
func (lex *Lexer) scanTemplateLiteral(checks *Checks) *scanned {
	var typ token.Type
	startLine, startChar := lex.line, lex.char

	switch {
	case lex.peek(0) == '`':
		if !lex.st.InES6(true) {
			lex.report(diagnostic.ESVersionFeature, lex.line, lex.char, "template literal syntax", "6")
		}
		typ = token.TEMPLATE_HEAD
		lex.templateStarts = append(lex.templateStarts, position{line: lex.line, char: lex.char})
		lex.skip(1)
		lex.PushContext(TemplateContext)
	case lex.InContext(TemplateContext) && lex.peek(0) == '}':
		typ = token.TEMPLATE_MIDDLE
	default:
		return nil
	}
	depth := len(lex.templateStarts)

	result := func(typ token.Type, value string, ctx *Context, unclosed bool) *scanned {
		info := &token.TemplateInfo{
			Depth:     depth,
			Unclosed:  unclosed,
			StartLine: startLine,
			StartCol:  startChar,
		}
		if ctx != nil {
			info.Context = ctx.ID
		}
		return &scanned{typ: typ, value: value, template: info}
	}

	var value strings.Builder
	for lex.peek(0) != '`' {
		for lex.peek(0) == eol {
			value.WriteByte('\n')
			if !lex.nextLine() {
				start, ok := lex.popTemplateStart()
				if !ok {
					start = position{line: startLine, char: startChar}
				}
				lex.report(diagnostic.UnclosedTemplate, start.line, start.char)
				return result(typ, value.String(), lex.PopContext(), true)
			}
		}
		c := lex.peek(0)
		switch {
		case c == '$' && lex.peek(1) == '{':
			value.WriteString("${")
			lex.skip(2)
			return result(typ, value.String(), lex.CurrentContext(), false)
		case c == '\\':
			esc := lex.scanEscapeSequence(checks)
			value.WriteString(esc.value)
			lex.skip(esc.jump)
		case c != '`':
			value.WriteRune(c)
			lex.skip(1)
		}
	}

	if typ == token.TEMPLATE_HEAD {
		typ = token.NO_SUBST_TEMPLATE
	} else {
		typ = token.TEMPLATE_TAIL
	}
	lex.skip(1)
	lex.popTemplateStart()
	return result(typ, value.String(), lex.PopContext(), false)
}

func (lex *Lexer) popTemplateStart() (position, bool) {
	n := len(lex.templateStarts)
	if n == 0 {
		return position{}, false
	}
	start := lex.templateStarts[n-1]
	lex.templateStarts = lex.templateStarts[:n-1]
	return start, true
}

// slice returns the input runes in [i, j) as a string, clipped to the line.
func (lex *Lexer) slice(i, j int) string {
	if j > len(lex.input) {
		j = len(lex.input)
	}
	if i >= j {
		return ""
	}
	return string(lex.input[i:j])
}

// parseHexPrefix parses the leading hexadecimal digits of s.  It reports
// false when s does not start with a hex digit.
func parseHexPrefix(s string) (int, bool) {
	code, n := 0, 0
	for _, c := range s {
		d := hexValue(c)
		if d < 0 {
			break
		}
		code = code*16 + d
		n++
	}
	return code, n > 0
}

func hexValue(c rune) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
