// Copyright © 2024 The ELPS authors

package lexer

import (
	"regexp"
	"unicode/utf8"
)

var (
	// unsafeChars matches characters that some browsers silently drop.
	unsafeChars = regexp.MustCompile(`[\x{0000}-\x{001f}\x{007f}-\x{009f}\x{00ad}\x{0600}-\x{0604}\x{070f}\x{17b4}\x{17b5}\x{200c}-\x{200f}\x{2028}-\x{202f}\x{2060}-\x{206f}\x{feff}\x{fff0}-\x{ffff}]`)

	fallsThrough = regexp.MustCompile(`^\s*falls?\sthrough\s*$`)

	unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
)

// unsafeCharIndex returns the rune index of the first unsafe character in
// s, or -1.
func unsafeCharIndex(s string) int {
	loc := unsafeChars.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return utf8.RuneCountInString(s[:loc[0]])
}
