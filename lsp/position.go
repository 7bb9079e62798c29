// Copyright © 2024 The ELPS authors

package lsp

import (
	"math"
	"strings"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/jsvet/parser/token"
)

// safeUint converts an int to protocol.UInteger, clamping negative values
// to zero and oversized values to the largest representable one.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	u, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		return math.MaxUint32
	}
	return u
}

// lspPosition converts a 1-based line and column to a 0-based LSP position.
func lspPosition(line, col int) protocol.Position {
	return protocol.Position{
		Line:      safeUint(line - 1),
		Character: safeUint(col - 1),
	}
}

// tokenRange returns the LSP range covered by a single line token.
func tokenRange(loc *token.Location) protocol.Range {
	start := lspPosition(loc.Line, loc.From)
	end := lspPosition(loc.Line, loc.Col)
	if end.Character < start.Character {
		end = start
	}
	return protocol.Range{Start: start, End: end}
}

// lineRange returns the range of the 0-based line in content, or a zero
// width range at its start when the line is past the end.
func lineRange(content string, line protocol.UInteger) protocol.Range {
	start := protocol.Position{Line: line}
	lines := token.SplitLines(content)
	if int(line) >= len(lines) {
		return protocol.Range{Start: start, End: start}
	}
	end := protocol.Position{Line: line, Character: safeUint(len([]rune(lines[line])))}
	return protocol.Range{Start: start, End: end}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
