// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/jsvet/parser/token"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	doc.mu.Lock()
	toks := doc.scan(s.options())
	content := doc.Content
	doc.mu.Unlock()

	ranges := bracketFoldingRanges(toks)
	ranges = append(ranges, blockCommentFoldingRanges(toks)...)
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

// bracketFoldingRanges emits a region for every brace or bracket pair whose
// closing token is on a later line than its opening token.
func bracketFoldingRanges(toks []*token.Token) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	var open []int // 1-based lines of unmatched openers
	for _, tok := range toks {
		if tok.Type != token.PUNCTUATOR || tok.Source == nil {
			continue
		}
		switch tok.Value {
		case "{", "[":
			open = append(open, tok.Source.Line)
		case "}", "]":
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if tok.Source.Line > start {
				kind := string(protocol.FoldingRangeKindRegion)
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: safeUint(start - 1),
					EndLine:   safeUint(tok.Source.Line - 1),
					Kind:      &kind,
				})
			}
		}
	}
	return ranges
}

// blockCommentFoldingRanges emits a comment fold for each directive comment
// spanning lines.  Plain comments never reach the token stream.
func blockCommentFoldingRanges(toks []*token.Token) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	for _, tok := range toks {
		if tok.Type != token.COMMENT || tok.Source == nil {
			continue
		}
		n := strings.Count(tok.Value, "\n")
		if n == 0 {
			continue
		}
		kind := string(protocol.FoldingRangeKindComment)
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: safeUint(tok.Source.Line - 1 - n),
			EndLine:   safeUint(tok.Source.Line - 1),
			Kind:      &kind,
		})
	}
	return ranges
}

// commentFoldingRanges detects consecutive lines starting with "//" and
// produces a folding range for each block of 2+ lines.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := token.SplitLines(content)
	var ranges []protocol.FoldingRange

	blockStart := -1
	flush := func(end int) {
		if blockStart >= 0 && end > blockStart {
			kind := string(protocol.FoldingRangeKindComment)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(blockStart),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
		blockStart = -1
	}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		flush(i - 1)
	}
	flush(len(lines) - 1)
	return ranges
}
