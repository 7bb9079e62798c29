// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

func TestPrintTokens(t *testing.T) {
	var buf bytes.Buffer
	err := printTokens(&buf, "t.js", token.SplitLines("var x = 'a';\n"), state.DefaultOptions(), diagnostic.Discard, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"1:1-4", "(keyword)", `"var"`}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"(string)", `"a"`}, strings.Fields(lines[3])[1:])
	assert.Contains(t, lines[5], "(end)")
}

func TestPrintTokens_Endlines(t *testing.T) {
	var with, without bytes.Buffer
	src := token.SplitLines("a\nb\n")
	require.NoError(t, printTokens(&with, "t.js", src, state.DefaultOptions(), diagnostic.Discard, true))
	require.NoError(t, printTokens(&without, "t.js", src, state.DefaultOptions(), diagnostic.Discard, false))
	assert.Contains(t, with.String(), "(endline)")
	assert.NotContains(t, without.String(), "(endline)")
}

func TestPrintTokens_Fatal(t *testing.T) {
	var buf bytes.Buffer
	var events []diagnostic.Event
	sink := diagnostic.SinkFunc(func(e diagnostic.Event) { events = append(events, e) })
	err := printTokens(&buf, "t.js", token.SplitLines("a = /abc\n"), state.DefaultOptions(), sink, false)
	assert.ErrorIs(t, err, lint.ErrAbandoned)
	assert.Contains(t, err.Error(), "t.js:1:")
	assert.Contains(t, buf.String(), "(fatal)")
	assert.NotEmpty(t, events)
}

func TestTokensCommand_Stdin(t *testing.T) {
	cmd := TokensCommand(WithConfig(&Config{Options: state.DefaultOptions()}))
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("x;\n"))
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"x"`)
}

func TestReadSource(t *testing.T) {
	cmd := TokensCommand()
	cmd.SetIn(strings.NewReader("a;\r\nb;"))
	name, lines, err := readSource(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, stdinName, name)
	assert.Equal(t, []string{"a;", "b;"}, lines)

	file := filepath.Join(t.TempDir(), "x.js")
	require.NoError(t, os.WriteFile(file, []byte("c;\n"), 0o600))
	name, lines, err = readSource(cmd, []string{file})
	require.NoError(t, err)
	assert.Equal(t, file, name)
	assert.Equal(t, []string{"c;", ""}, lines)

	_, _, err = readSource(cmd, []string{filepath.Join(t.TempDir(), "missing.js")})
	assert.Error(t, err)
}
