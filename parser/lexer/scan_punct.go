// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"

	"github.com/luthersystems/jsvet/parser/token"
)

// scanned is the intermediate result of a scanner.  Single line scanners
// leave the cursor in place and report the number of runes consumed in
// length (or the length of value when zero); multi-line scanners advance the
// cursor themselves.
type scanned struct {
	typ      token.Type
	value    string
	text     string
	length   int
	number   *token.NumberInfo
	str      *token.StringInfo
	regexp   *token.RegExpInfo
	template *token.TemplateInfo
	comment  *token.CommentInfo
}

func punctuator(value string) *scanned {
	return &scanned{typ: token.PUNCTUATOR, value: value}
}

// scanPunctuator matches the longest punctuator at the cursor.
func (lex *Lexer) scanPunctuator() *scanned {
	ch1 := lex.peek(0)
	switch ch1 {
	case '.':
		if isDecimalDigit(lex.peek(1)) {
			return nil
		}
		if lex.peek(1) == '.' && lex.peek(2) == '.' {
			return punctuator("...")
		}
		return punctuator(".")
	case '(', ')', ';', ',', '[', ']', ':', '~', '?', '#':
		return punctuator(string(ch1))
	case '{':
		lex.PushContext(BlockContext)
		return punctuator("{")
	case '}':
		if lex.InContext(BlockContext) {
			lex.PopContext()
		}
		return punctuator("}")
	case eol:
		return nil
	}

	ch2, ch3, ch4 := lex.peek(1), lex.peek(2), lex.peek(3)
	switch {
	case ch1 == '>' && ch2 == '>' && ch3 == '>' && ch4 == '=':
		return punctuator(">>>=")
	case ch1 == '=' && ch2 == '=' && ch3 == '=':
		return punctuator("===")
	case ch1 == '!' && ch2 == '=' && ch3 == '=':
		return punctuator("!==")
	case ch1 == '>' && ch2 == '>' && ch3 == '>':
		return punctuator(">>>")
	case ch1 == '<' && ch2 == '<' && ch3 == '=':
		return punctuator("<<=")
	case ch1 == '>' && ch2 == '>' && ch3 == '=':
		return punctuator(">>=")
	case ch1 == '=' && ch2 == '>':
		return punctuator("=>")
	case ch1 == ch2 && strings.ContainsRune("+-<>&|", ch1):
		return punctuator(string([]rune{ch1, ch2}))
	case strings.ContainsRune("<>=!+-*%&|^/", ch1):
		if ch2 == '=' {
			return punctuator(string(ch1) + "=")
		}
		return punctuator(string(ch1))
	}
	return nil
}
