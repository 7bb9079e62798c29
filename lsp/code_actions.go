// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/parser/token"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// It returns quick-fix actions for diagnostics in the requested range.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}

	doc.mu.Lock()
	content := doc.Content
	doc.mu.Unlock()

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		code := diagnostic.Code(fmt.Sprintf("%v", diag.Code.Value))
		if code == diagnostic.Undefined {
			if name := quotedName(diag.Message); name != "" {
				actions = append(actions, declareGlobalAction(params.TextDocument.URI, diag, name))
			}
		}
		actions = append(actions, ignoreLineAction(params.TextDocument.URI, diag, content))
		if code.Severity() == diagnostic.SeverityWarning {
			actions = append(actions, ignoreCodeAction(params.TextDocument.URI, diag, code))
		}
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// declareGlobalAction inserts a /*global name */ comment at the top of the
// file.
func declareGlobalAction(uri string, diag protocol.Diagnostic, name string) protocol.CodeAction {
	return insertAction(uri, diag, fmt.Sprintf("Declare '%s' with /*global */", name),
		protocol.Position{}, fmt.Sprintf("/*global %s */\n", name))
}

// ignoreCodeAction inserts a /*jshint -Wxxx */ comment at the top of the
// file.
func ignoreCodeAction(uri string, diag protocol.Diagnostic, code diagnostic.Code) protocol.CodeAction {
	return insertAction(uri, diag, fmt.Sprintf("Ignore %s in this file", code),
		protocol.Position{}, fmt.Sprintf("/*jshint -%s */\n", code))
}

// ignoreLineAction appends a jshint ignore:line comment to the diagnostic's
// line.
func ignoreLineAction(uri string, diag protocol.Diagnostic, content string) protocol.CodeAction {
	end := lineRange(content, diag.Range.Start.Line).End
	return insertAction(uri, diag, "Ignore problems on this line", end, " // jshint ignore:line")
}

func insertAction(uri string, diag protocol.Diagnostic, title string, at protocol.Position, text string) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range:   protocol.Range{Start: at, End: at},
						NewText: text,
					},
				},
			},
		},
	}
}

// quotedName extracts the first single-quoted identifier from a message
// such as "'foo' is not defined."
func quotedName(msg string) string {
	_, after, ok := strings.Cut(msg, "'")
	if !ok {
		return ""
	}
	name, _, ok := strings.Cut(after, "'")
	if !ok || name == "" {
		return ""
	}
	for _, r := range name {
		if !token.IsIdentifierPart(r) {
			return ""
		}
	}
	return name
}
