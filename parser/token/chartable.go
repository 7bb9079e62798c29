// Copyright © 2024 The ELPS authors

package token

import "unicode"

// ASCII identifier tables, indexed by code point.
var (
	asciiIdentifierStart [128]bool
	asciiIdentifierPart  [128]bool
)

func init() {
	for c := 0; c < 128; c++ {
		start := c == '$' || c == '_' ||
			('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
		asciiIdentifierStart[c] = start
		asciiIdentifierPart[c] = start || ('0' <= c && c <= '9')
	}
}

// nonASCIIIdentifierStart holds the Unicode categories allowed to begin an
// identifier (ID_Start).
var nonASCIIIdentifierStart = []*unicode.RangeTable{
	unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl,
	unicode.Other_ID_Start,
}

// nonASCIIIdentifierPartOnly holds the categories allowed inside, but not at
// the start of, an identifier.
var nonASCIIIdentifierPartOnly = []*unicode.RangeTable{
	unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
	unicode.Other_ID_Continue,
}

// IsIdentifierStart reports whether c may begin an identifier.
func IsIdentifierStart(c rune) bool {
	if c < 0 {
		return false
	}
	if c < 128 {
		return asciiIdentifierStart[c]
	}
	return unicode.In(c, nonASCIIIdentifierStart...)
}

// IsIdentifierPart reports whether c may appear after the first character of
// an identifier.
func IsIdentifierPart(c rune) bool {
	if c < 0 {
		return false
	}
	if c < 128 {
		return asciiIdentifierPart[c]
	}
	// ZWNJ and ZWJ
	if c == 0x200C || c == 0x200D {
		return true
	}
	return unicode.In(c, nonASCIIIdentifierStart...) ||
		unicode.In(c, nonASCIIIdentifierPartOnly...)
}
