// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
	"github.com/luthersystems/jsvet/parser/lexer"
	"github.com/luthersystems/jsvet/parser/token"
	"github.com/luthersystems/jsvet/state"
)

// TokensCommand creates the "tokens" cobra command, which prints the token
// stream of a file.
func TokensCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var (
		endlines bool
		diags    bool
	)
	cmd := &cobra.Command{
		Use:   "tokens [flags] [file]",
		Short: "Print the token stream of a JavaScript file",
		Long: `Print the token stream of a JavaScript file, one token per line:

  LINE:FROM-COL  TYPE  VALUE

With no file, reads from stdin.  Plain comments are skipped by the
tokenizer; directive comments such as /*global */ are printed.

Examples:
  jsvet tokens app.js
  jsvet tokens --diagnostics --esversion=6 app.js
  echo 'a = /x/g;' | jsvet tokens`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cfg.resolveConfig()
			if err != nil {
				return err
			}
			name, lines, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			var sink diagnostic.Sink = diagnostic.Discard
			if diags {
				sink = diagnostic.SinkFunc(func(e diagnostic.Event) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", name, e)
				})
			}
			return printTokens(cmd.OutOrStdout(), name, lines, conf.Options, sink, endlines)
		},
	}
	cmd.Flags().BoolVar(&endlines, "endlines", false, "Also print line break tokens.")
	cmd.Flags().BoolVar(&diags, "diagnostics", false, "Print lexer diagnostics to stderr.")
	return cmd
}

// readSource reads the lines of the single file named by args, or of
// stdin.
func readSource(cmd *cobra.Command, args []string) (string, []string, error) {
	if len(args) == 0 {
		lines, err := token.ReadLines(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("reading stdin: %w", err)
		}
		return stdinName, lines, nil
	}
	f, err := os.Open(args[0]) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return "", nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file
	lines, err := token.ReadLines(f)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return args[0], lines, nil
}

// printTokens lexes lines and writes one line per token until the end of
// input or an abandoned scan.
func printTokens(w io.Writer, name string, lines []string, opts state.Options, sink diagnostic.Sink, endlines bool) error {
	lex := lexer.NewLines(name, lines, state.New(opts), sink)
	lex.Start()
	for {
		tok := lex.Next()
		if tok.Type == token.ENDLINE && !endlines {
			continue
		}
		loc := tok.Source
		pos := fmt.Sprintf("%d:%d-%d", loc.Line, loc.From, loc.Col)
		value := tok.Value
		if tok.Type != token.ENDLINE && tok.Type != token.EOF {
			value = strconv.Quote(value)
		}
		if _, err := fmt.Fprintf(w, "%-12s %-20s %s\n", pos, tok.Type, value); err != nil {
			return err
		}
		switch tok.Type {
		case token.EOF:
			return nil
		case token.FATAL:
			return fmt.Errorf("%s:%d: %w", name, loc.Line, lint.ErrAbandoned)
		}
	}
}

func init() {
	rootCmd.AddCommand(TokensCommand())
}
