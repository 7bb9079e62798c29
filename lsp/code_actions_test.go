// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func codeActions(t *testing.T, s *Server, uri string, only []protocol.CodeActionKind, diags ...protocol.Diagnostic) []protocol.CodeAction {
	t.Helper()
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Context: protocol.CodeActionContext{
			Diagnostics: diags,
			Only:        only,
		},
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	return actions
}

func findAction(actions []protocol.CodeAction, title string) *protocol.CodeAction {
	for i := range actions {
		if actions[i].Title == title {
			return &actions[i]
		}
	}
	return nil
}

func publishedDiagnostic(t *testing.T, s *Server, uri, src string) protocol.Diagnostic {
	t.Helper()
	ctx, captured := capturingContext()
	didOpen(t, s, ctx, uri, src)
	pubs := captured.all()
	require.Len(t, pubs, 1)
	require.NotEmpty(t, pubs[0].Diagnostics)
	return pubs[0].Diagnostics[0]
}

func TestCodeActionUndefined(t *testing.T) {
	s := testServer()
	uri := "file:///test/undef.js"
	diag := publishedDiagnostic(t, s, uri, "var a = 1;\nfoo(a);\n")
	require.Equal(t, "W117", diag.Code.Value)

	actions := codeActions(t, s, uri, nil, diag)
	require.Len(t, actions, 3)

	declare := findAction(actions, "Declare 'foo' with /*global */")
	require.NotNil(t, declare)
	require.NotNil(t, declare.Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *declare.Kind)
	edits := declare.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, "/*global foo */\n", edits[0].NewText)
	assert.Equal(t, protocol.Position{}, edits[0].Range.Start)

	ignore := findAction(actions, "Ignore problems on this line")
	require.NotNil(t, ignore)
	edits = ignore.Edit.Changes[uri]
	require.Len(t, edits, 1)
	assert.Equal(t, " // jshint ignore:line", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 1, Character: 7}, edits[0].Range.Start)

	code := findAction(actions, "Ignore W117 in this file")
	require.NotNil(t, code)
	assert.Equal(t, "/*jshint -W117 */\n", code.Edit.Changes[uri][0].NewText)
}

func TestCodeActionError(t *testing.T) {
	s := testServer()
	uri := "file:///test/err.js"
	openDoc(s, uri, "var s = 'abc;\n")
	sev := protocol.DiagnosticSeverityError
	diag := protocol.Diagnostic{
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Code:     &protocol.IntegerOrString{Value: "E029"},
		Message:  "Unclosed string.",
	}
	actions := codeActions(t, s, uri, nil, diag)
	require.Len(t, actions, 1, "errors cannot be disabled by code")
	assert.Equal(t, "Ignore problems on this line", actions[0].Title)
}

func TestCodeActionForeignSource(t *testing.T) {
	s := testServer()
	uri := "file:///test/foreign.js"
	openDoc(s, uri, "x;\n")
	diag := protocol.Diagnostic{
		Source:  strPtr("eslint"),
		Code:    &protocol.IntegerOrString{Value: "no-undef"},
		Message: "'x' is not defined.",
	}
	assert.Nil(t, codeActions(t, s, uri, nil, diag))
}

func TestCodeActionOnlyFilter(t *testing.T) {
	s := testServer()
	uri := "file:///test/only.js"
	diag := publishedDiagnostic(t, s, uri, "foo;\n")
	assert.Nil(t, codeActions(t, s, uri, []protocol.CodeActionKind{protocol.CodeActionKindRefactor}, diag))
	assert.NotEmpty(t, codeActions(t, s, uri, []protocol.CodeActionKind{protocol.CodeActionKindQuickFix}, diag))
}

func TestQuotedName(t *testing.T) {
	assert.Equal(t, "foo", quotedName("'foo' is not defined."))
	assert.Equal(t, "$el", quotedName("'$el' is not defined."))
	assert.Equal(t, "", quotedName("Missing name."))
	assert.Equal(t, "", quotedName("'a b' is odd."))
	assert.Equal(t, "", quotedName("'' is empty."))
}
