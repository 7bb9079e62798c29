// Copyright © 2024 The ELPS authors

package lexer

import (
	"strconv"
	"strings"

	"github.com/luthersystems/jsvet/parser/token"
)

var keywords = make(map[string]bool, len(token.Keywords))

func init() {
	for _, kw := range token.Keywords {
		keywords[kw] = true
	}
}

func isASCIIWordStart(c rune) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// scanKeyword matches a plain ASCII word that is a keyword.
func (lex *Lexer) scanKeyword() *scanned {
	if !isASCIIWordStart(lex.peek(0)) {
		return nil
	}
	n := 1
	for c := lex.peek(n); isASCIIWordStart(c) || isDecimalDigit(c); c = lex.peek(n) {
		n++
	}
	word := string(lex.input[:n])
	if !keywords[word] {
		return nil
	}
	return &scanned{typ: token.KEYWORD, value: word}
}

// scanIdentifier matches an identifier, which may contain \uXXXX escapes
// for legal identifier characters.  true, false and null are recognized
// here as literals.
func (lex *Lexer) scanIdentifier() *scanned {
	index := 0

	readEscape := func() (string, bool) {
		if lex.peek(index+1) != 'u' {
			return "", false
		}
		var code int
		for i := 2; i < 6; i++ {
			d := hexValue(lex.peek(index + i))
			if d < 0 {
				return "", false
			}
			code = code*16 + d
		}
		if !token.IsIdentifierPart(rune(code)) {
			return "", false
		}
		s := lex.slice(index, index+6)
		index += 6
		return s, true
	}
	read := func(accept func(rune) bool) (string, bool) {
		c := lex.peek(index)
		if c == '\\' {
			return readEscape()
		}
		if !accept(c) {
			return "", false
		}
		index++
		return string(c), true
	}

	first, ok := read(token.IsIdentifierStart)
	if !ok {
		return nil
	}
	var id strings.Builder
	id.WriteString(first)
	for {
		part, ok := read(token.IsIdentifierPart)
		if !ok {
			break
		}
		id.WriteString(part)
	}

	text := id.String()
	typ := token.IDENTIFIER
	switch text {
	case "true", "false":
		typ = token.BOOLEAN
	case "null":
		typ = token.NULL
	}
	return &scanned{
		typ:    typ,
		value:  removeEscapeSequences(text),
		text:   text,
		length: index,
	}
}

func removeEscapeSequences(id string) string {
	if !strings.Contains(id, `\u`) {
		return id
	}
	return unicodeEscape.ReplaceAllStringFunc(id, func(m string) string {
		code, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}
