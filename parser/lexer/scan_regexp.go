// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
)

// scanRegExp scans a regular expression literal when prereg allows one.
// An unterminated literal is fatal.
func (lex *Lexer) scanRegExp() *scanned {
	if !lex.prereg || lex.peek(0) != '/' {
		return nil
	}

	length := len(lex.input)
	index := 1
	var body, value strings.Builder
	value.WriteRune('/')
	malformed := false
	inClass := false
	terminated := false

	var c rune
	unexpected := func() {
		if c < ' ' {
			malformed = true
			lex.report(diagnostic.RegExpControlChar, lex.line, lex.char)
		}
		if c == '<' {
			malformed = true
			lex.report(diagnostic.RegExpEscapedChar, lex.line, lex.char, string(c))
		}
	}
	write := func(c rune) {
		if c != eol {
			body.WriteRune(c)
			value.WriteRune(c)
		}
	}

	for index < length {
		c = lex.peek(index)
		write(c)

		if inClass {
			if c == ']' && (lex.peek(index-1) != '\\' || lex.peek(index-2) == '\\') {
				inClass = false
			}
			if c == '\\' {
				index++
				c = lex.peek(index)
				write(c)
				unexpected()
			}
			index++
			continue
		}

		if c == '\\' {
			index++
			c = lex.peek(index)
			write(c)
			unexpected()
			if c == '/' || c == '[' {
				index++
				continue
			}
		}
		if c == '[' {
			inClass = true
			index++
			continue
		}
		if c == '/' {
			terminated = true
			index++
			break
		}
		index++
	}

	if !terminated {
		lex.report(diagnostic.UnclosedRegExp, lex.line, lex.from)
		lex.fatal = true
		return nil
	}

	pattern := strings.TrimSuffix(body.String(), "/")
	var flags strings.Builder
	for index < length && lex.isRegExpFlag(lex.peek(index)) {
		flags.WriteRune(lex.peek(index))
		value.WriteRune(lex.peek(index))
		index++
	}

	if err := validateRegExp(pattern, flags.String()); err != nil {
		malformed = true
		lex.report(diagnostic.InvalidRegExp, lex.line, lex.char, err.Error())
	}

	return &scanned{
		typ:    token.REGEXP,
		value:  value.String(),
		length: index,
		regexp: &token.RegExpInfo{
			Body:      pattern,
			Flags:     flags.String(),
			Malformed: malformed,
		},
	}
}

// isRegExpFlag reports whether c is a flag accepted in the current mode.
func (lex *Lexer) isRegExpFlag(c rune) bool {
	switch c {
	case 'g', 'i', 'm':
		return true
	case 'u', 'y':
		return lex.st.InES6(true)
	}
	return false
}

// validateRegExp compiles pattern with ECMAScript semantics.
func validateRegExp(pattern, flags string) error {
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	if strings.ContainsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	_, err := regexp2.Compile(pattern, opts)
	return err
}
