// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/jsvet/lint"
	"github.com/luthersystems/jsvet/state"
)

func TestLintCommand_DefaultFlags(t *testing.T) {
	cmd := LintCommand()
	assert.Equal(t, "lint [flags] [files...]", cmd.Use)

	for _, name := range []string{"json", "data", "checks", "list", "exclude", "jobs", "cache", "cache-dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.Contains(t, cmd.Long, "undef (W117)")
}

// lintHarness returns a command wired to in-memory streams.
func lintHarness(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func fixedConfig() *cmdConfig {
	return newCmdConfig([]Option{WithConfig(&Config{Options: state.DefaultOptions()})})
}

func TestRunLint_Stdin(t *testing.T) {
	old := colorFlag
	colorFlag = "never"
	t.Cleanup(func() { colorFlag = old })

	cmd, stdout, stderr := lintHarness("foo;\n")
	err := runLint(context.Background(), cmd, fixedConfig(), &lintFlags{}, nil)
	assert.ErrorIs(t, err, errProblems)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "warning[W117]: 'foo' is not defined.")
	assert.Contains(t, stderr.String(), stdinName)

	cmd, _, stderr = lintHarness("Math.abs(-1);\n")
	err = runLint(context.Background(), cmd, fixedConfig(), &lintFlags{}, nil)
	assert.NoError(t, err)
	assert.Empty(t, stderr.String())
}

func TestRunLint_JSON(t *testing.T) {
	cmd, stdout, _ := lintHarness("foo;\n")
	err := runLint(context.Background(), cmd, fixedConfig(), &lintFlags{json: true}, nil)
	assert.ErrorIs(t, err, errProblems)
	assert.Contains(t, stdout.String(), `"code": "W117"`)
	assert.Contains(t, stdout.String(), `"analyzer": "undef"`)

	cmd, stdout, _ = lintHarness("foo;\n")
	err = runLint(context.Background(), cmd, fixedConfig(), &lintFlags{json: true, data: true}, nil)
	assert.ErrorIs(t, err, errProblems)
	assert.Contains(t, stdout.String(), `"implieds"`)
	assert.Contains(t, stdout.String(), `"name": "foo"`)
}

func TestRunLint_Checks(t *testing.T) {
	cmd, stdout, _ := lintHarness("foo;\n")
	err := runLint(context.Background(), cmd, fixedConfig(), &lintFlags{json: true, checks: "unused"}, nil)
	assert.NoError(t, err)
	assert.Empty(t, stdout.String())

	cmd, _, _ = lintHarness("foo;\n")
	err = runLint(context.Background(), cmd, fixedConfig(), &lintFlags{checks: "undef,bogus"}, nil)
	assert.EqualError(t, err, "unknown check: bogus")
}

func TestRunLint_Abandoned(t *testing.T) {
	cmd, _, stderr := lintHarness("a = /abc\n")
	err := runLint(context.Background(), cmd, fixedConfig(), &lintFlags{json: true}, nil)
	assert.ErrorIs(t, err, errProblems)
	assert.Contains(t, stderr.String(), "<stdin>: scanning abandoned")
}

func TestRunLint_Files(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.js")
	good := filepath.Join(dir, "good.js")
	require.NoError(t, os.WriteFile(bad, []byte("foo;\n"), 0o600))
	require.NoError(t, os.WriteFile(good, []byte("Math.abs(-1);\n"), 0o600))

	cmd, stdout, _ := lintHarness("")
	err := runLint(context.Background(), cmd, fixedConfig(), &lintFlags{json: true}, []string{dir + "/..."})
	assert.ErrorIs(t, err, errProblems)
	assert.Contains(t, stdout.String(), bad)
	assert.NotContains(t, stdout.String(), good)

	cmd, _, _ = lintHarness("")
	err = runLint(context.Background(), cmd, fixedConfig(), &lintFlags{excludes: []string{"bad.js"}}, []string{dir + "/..."})
	assert.NoError(t, err)
}

func TestRunLint_Cache(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(file, []byte("foo;\n"), 0o600))
	f := &lintFlags{json: true, cache: true, cacheDir: filepath.Join(dir, "cache")}

	for i := 0; i < 2; i++ {
		cmd, stdout, _ := lintHarness("")
		err := runLint(context.Background(), cmd, fixedConfig(), f, []string{file})
		assert.ErrorIs(t, err, errProblems)
		assert.Contains(t, stdout.String(), `"code": "W117"`)
	}
	entries, err := os.ReadDir(f.cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestLintFiles_Order(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{"a;\n", "Math.abs(1);\n", "b;\nc;\n", "d;\n"} {
		p := filepath.Join(dir, string(rune('a'+i))+".js")
		require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
		paths = append(paths, p)
	}
	l := &lint.Linter{}
	results, err := lintFiles(context.Background(), l, paths, 2)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, res := range results {
		assert.Equal(t, paths[i], res.File)
	}
	assert.Len(t, results[0].Diagnostics, 1)
	assert.Empty(t, results[1].Diagnostics)
	assert.Len(t, results[2].Diagnostics, 2)

	_, err = lintFiles(context.Background(), l, []string{filepath.Join(dir, "missing.js")}, 0)
	assert.Error(t, err)

	results, err = lintFiles(context.Background(), l, nil, 4)
	assert.NoError(t, err)
	assert.Nil(t, results)
}
