// Copyright © 2018 The ELPS authors

package token

import (
	"io"
	"strings"
)

// SplitLines breaks source text into physical lines.  CRLF, CR and LF are
// all accepted as line terminators and removed from the result.
func SplitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

// ReadLines reads all of r and splits it with SplitLines.
func ReadLines(r io.Reader) ([]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(b)), nil
}
