// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/walker"
)

// textDocumentHover handles the textDocument/hover request.  Identifiers
// naming standard or implied globals are described.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	opts := s.options()
	doc.mu.Lock()
	tok := tokenAt(doc.scan(opts), params.Position)
	res, err := doc.lint(context.Background(), s.linter)
	doc.mu.Unlock()
	if tok == nil || tok.Type != token.IDENTIFIER || tok.IsProperty {
		return nil, nil
	}

	var sb strings.Builder
	if writable, ok := walker.StandardGlobals(opts)[tok.Value]; ok {
		fmt.Fprintf(&sb, "**global** `%s`", tok.Value)
		if !writable {
			sb.WriteString(" (read-only)")
		}
	}
	if err == nil && res != nil {
		for _, ig := range res.Data.Implieds {
			if ig.Name != tok.Value {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			fmt.Fprintf(&sb, "**implied global** `%s`\n\nUsed on %s", ig.Name, formatLines(ig.Lines))
		}
	}
	if sb.Len() == 0 {
		return nil, nil
	}
	rng := tokenRange(tok.Source)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: sb.String(),
		},
		Range: &rng,
	}, nil
}

// tokenAt returns the single line token covering pos, if any.
func tokenAt(toks []*token.Token, pos protocol.Position) *token.Token {
	for _, tok := range toks {
		loc := tok.Source
		if loc == nil || loc.Col <= loc.From {
			continue
		}
		r := tokenRange(loc)
		if r.Start.Line == pos.Line && r.Start.Character <= pos.Character && pos.Character < r.End.Character {
			return tok
		}
	}
	return nil
}

func formatLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprint(l)
	}
	if len(parts) == 1 {
		return "line " + parts[0]
	}
	return "lines " + strings.Join(parts, ", ")
}
