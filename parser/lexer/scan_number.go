// Copyright © 2024 The ELPS authors

package lexer

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
)

func isDecimalDigit(c rune) bool { return '0' <= c && c <= '9' }
func isOctalDigit(c rune) bool   { return '0' <= c && c <= '7' }
func isBinaryDigit(c rune) bool  { return c == '0' || c == '1' }
func isHexDigit(c rune) bool     { return hexValue(c) >= 0 }

// isNumberTerminator reports whether c may not directly follow a numeric
// literal.
func isNumberTerminator(c rune) bool {
	return c == '$' || c == '_' || c == '\\' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func number(value string, base int, legacy, malformed bool) *scanned {
	return &scanned{
		typ:    token.NUMBER,
		value:  value,
		number: &token.NumberInfo{Base: base, Legacy: legacy, Malformed: malformed},
	}
}

// scanNumericLiteral scans decimal, hex, octal and binary literals.  A
// literal immediately followed by an identifier character is rejected so
// that another scanner may report it.
func (lex *Lexer) scanNumericLiteral() *scanned {
	var value strings.Builder
	index := 0
	length := len(lex.input)
	c := lex.peek(index)
	isAllowed := isDecimalDigit
	base := 10
	legacy := false
	bad := false

	if c != '.' && !isDecimalDigit(c) {
		return nil
	}

	if c != '.' {
		value.WriteRune(c)
		first := c
		index++
		c = lex.peek(index)

		if first == '0' {
			switch c {
			case 'x', 'X':
				isAllowed = isHexDigit
				base = 16
				index++
				value.WriteRune(c)
			case 'o', 'O':
				isAllowed = isOctalDigit
				base = 8
				if !lex.st.InES6(true) {
					lex.report(diagnostic.ESVersionFeature, lex.line, lex.char, "Octal integer literal", "6")
				}
				index++
				value.WriteRune(c)
			case 'b', 'B':
				isAllowed = isBinaryDigit
				base = 2
				if !lex.st.InES6(true) {
					lex.report(diagnostic.ESVersionFeature, lex.line, lex.char, "Binary integer literal", "6")
				}
				index++
				value.WriteRune(c)
			default:
				switch {
				case isOctalDigit(c):
					isAllowed = isOctalDigit
					base = 8
					legacy = true
					index++
					value.WriteRune(c)
				case isDecimalDigit(c):
					index++
					value.WriteRune(c)
				}
			}
		}

		for index < length {
			c = lex.peek(index)
			if legacy && isDecimalDigit(c) {
				bad = bad || !isOctalDigit(c)
			} else if !isAllowed(c) {
				break
			}
			value.WriteRune(c)
			index++
		}

		if base != 10 {
			if !legacy && value.Len() <= 2 {
				// A bare prefix such as 0x.
				return number(value.String(), base, false, true)
			}
			if index < length && isNumberTerminator(lex.peek(index)) {
				return nil
			}
			return number(value.String(), base, legacy, bad)
		}
	}

	if c == '.' {
		value.WriteRune(c)
		index++
		for index < length {
			c = lex.peek(index)
			if !isDecimalDigit(c) {
				break
			}
			value.WriteRune(c)
			index++
		}
	}

	if c == 'e' || c == 'E' {
		value.WriteRune(c)
		index++
		c = lex.peek(index)
		if c == '+' || c == '-' {
			value.WriteRune(c)
			index++
		}
		c = lex.peek(index)
		if !isDecimalDigit(c) {
			return nil
		}
		for index < length && isDecimalDigit(lex.peek(index)) {
			value.WriteRune(lex.peek(index))
			index++
		}
	}

	if index < length && isNumberTerminator(lex.peek(index)) {
		return nil
	}
	return number(value.String(), 10, false, !isFinite(value.String()))
}

func isFinite(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
