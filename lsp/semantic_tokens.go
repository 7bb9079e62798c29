// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
	"github.com/luthersystems/jsvet/walker"
)

// Semantic token type indices; they must match the order in semanticTokenLegend().
const (
	semTokenKeyword = iota
	semTokenVariable
	semTokenProperty
	semTokenString
	semTokenNumber
	semTokenRegexp
	semTokenComment
	semTokenOperator
)

// Semantic token modifier bit flags; they must match the order in semanticTokenLegend().
const (
	semModDefaultLibrary = 1 << iota
)

// semanticTokenLegend returns the legend that the client uses to decode tokens.
func semanticTokenLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes: []string{
			"keyword",  // 0
			"variable", // 1
			"property", // 2
			"string",   // 3
			"number",   // 4
			"regexp",   // 5
			"comment",  // 6
			"operator", // 7
		},
		TokenModifiers: []string{
			"defaultLibrary", // bit 0
		},
	}
}

// rawToken is an intermediate representation before delta encoding.
type rawToken struct {
	line      int // 0-based
	startChar int // 0-based
	length    int
	tokenType int
	modifiers int
}

func (s *Server) options() state.Options {
	if s.linter != nil && s.linter.Options != nil {
		return *s.linter.Options
	}
	return state.DefaultOptions()
}

// textDocumentSemanticTokensFull handles the textDocument/semanticTokens/full request.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	opts := s.options()
	doc.mu.Lock()
	toks := doc.scan(opts)
	doc.mu.Unlock()

	tokens := collectSemanticTokens(toks, walker.StandardGlobals(opts))
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].line != tokens[j].line {
			return tokens[i].line < tokens[j].line
		}
		return tokens[i].startChar < tokens[j].startChar
	})
	return &protocol.SemanticTokens{Data: deltaEncode(tokens)}, nil
}

// collectSemanticTokens classifies single line tokens.  Tokens spanning
// lines are skipped since LSP clients may not support multiline tokens.
func collectSemanticTokens(toks []*token.Token, builtins map[string]bool) []rawToken {
	var out []rawToken
	for _, tok := range toks {
		loc := tok.Source
		if loc == nil || loc.Col <= loc.From {
			continue
		}
		typ := -1
		mods := 0
		switch tok.Type {
		case token.KEYWORD, token.BOOLEAN, token.NULL:
			typ = semTokenKeyword
		case token.IDENTIFIER:
			if tok.IsProperty {
				typ = semTokenProperty
				break
			}
			typ = semTokenVariable
			if _, ok := builtins[tok.Value]; ok {
				mods |= semModDefaultLibrary
			}
		case token.STRING:
			if tok.Str != nil && tok.Str.StartLine != loc.Line {
				continue
			}
			typ = semTokenString
		case token.TEMPLATE_HEAD, token.TEMPLATE_MIDDLE, token.TEMPLATE_TAIL, token.NO_SUBST_TEMPLATE:
			if tok.Template != nil && tok.Template.StartLine != loc.Line {
				continue
			}
			typ = semTokenString
		case token.NUMBER:
			typ = semTokenNumber
		case token.REGEXP:
			typ = semTokenRegexp
		case token.COMMENT:
			if strings.Contains(tok.Value, "\n") {
				continue
			}
			typ = semTokenComment
		case token.PUNCTUATOR:
			if isOperator(tok.Value) {
				typ = semTokenOperator
			}
		}
		if typ < 0 {
			continue
		}
		out = append(out, rawToken{
			line:      loc.Line - 1,
			startChar: loc.From - 1,
			length:    loc.Col - loc.From,
			tokenType: typ,
			modifiers: mods,
		})
	}
	return out
}

func isOperator(p string) bool {
	switch p {
	case "{", "}", "(", ")", "[", "]", ";", ",", ".", "...":
		return false
	}
	return true
}

// deltaEncode converts sorted raw tokens into the LSP delta-encoded format.
// Each token is 5 integers: [deltaLine, deltaStartChar, length, tokenType, tokenModifiers].
func deltaEncode(tokens []rawToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	prevLine := 0
	prevChar := 0
	for _, tok := range tokens {
		deltaLine := tok.line - prevLine
		deltaChar := tok.startChar
		if deltaLine == 0 {
			deltaChar = tok.startChar - prevChar
		}
		data = append(data,
			safeUint(deltaLine),
			safeUint(deltaChar),
			safeUint(tok.length),
			safeUint(tok.tokenType),
			safeUint(tok.modifiers),
		)
		prevLine = tok.line
		prevChar = tok.startChar
	}
	return data
}
