// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/jsvet/lint"
)

const stdinName = "<stdin>"

// errProblems signals that diagnostics were reported.
var errProblems = errors.New("problems found")

// lintFlags holds the flag values of one lint command.
type lintFlags struct {
	json     bool
	data     bool
	checks   string
	list     bool
	excludes []string
	jobs     int
	cache    bool
	cacheDir string
}

// LintCommand creates the "lint" cobra command.  Embedders can pass
// WithConfig to lint with a fixed configuration.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var f lintFlags

	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Check JavaScript files for lexical and scope problems",
		Long: `Check JavaScript files for lexical and scope problems.

The linter tokenizes each file and tracks its declarations and references
through nested scopes.  It does not parse expressions, so it reports no
syntax errors beyond those the tokenizer sees.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr.  Files are analyzed concurrently; each gets its own
option state, so inline /*jshint */ comments never leak between files.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files, bad configuration)

To suppress all problems on a line:
  foo(); // jshint ignore:line

To suppress a warning in a file:
  /*jshint -W117 */

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc(76) + `Examples:
  jsvet lint app.js                                  # Lint a single file
  jsvet lint src/*.js                                # Lint multiple files
  jsvet lint ./...                                   # Lint a tree (skips node_modules)
  jsvet lint --json app.js                           # Output diagnostics as JSON
  jsvet lint --data --json app.js                    # Include implied globals and unused names
  jsvet lint --checks=undef,unused app.js            # Run only specific checks
  jsvet lint --exclude='*.min.js' ./...              # Exclude files by pattern
  jsvet lint --esversion=6 --node server.js          # Override configured options
  cat app.js | jsvet lint                            # Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.list {
				for _, name := range lint.AnalyzerNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			err := runLint(cmd.Context(), cmd, cfg, &f, args)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, errProblems):
				os.Exit(1)
			default:
				fmt.Fprintln(cmd.ErrOrStderr(), "jsvet lint:", err)
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.json, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().BoolVar(&f.data, "data", false,
		"With --json, output full per-file results including implied globals and unused names.")
	cmd.Flags().StringVar(&f.checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&f.list, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&f.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.GOMAXPROCS(0),
		"Number of files to analyze concurrently.")
	cmd.Flags().BoolVar(&f.cache, "cache", false,
		"Reuse results of unchanged files from the result cache.")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "",
		"Result cache directory (default: the user cache directory).")
	return cmd
}

// runLint lints args (or stdin) and writes the report.  It returns
// errProblems when anything was reported.
func runLint(ctx context.Context, cmd *cobra.Command, cfg *cmdConfig, f *lintFlags, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conf, err := cfg.resolveConfig()
	if err != nil {
		return err
	}
	var checks []string
	if f.checks != "" {
		checks = strings.Split(f.checks, ",")
	}
	l, err := conf.Linter(checks)
	if err != nil {
		return err
	}
	if f.cache {
		l.Cache, err = lint.OpenCache(f.cacheDir)
		if err != nil {
			return err
		}
	}

	sources := make(map[string][]byte)
	var results []*lint.Result
	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		sources[stdinName] = src
		res, err := l.LintFile(ctx, src, stdinName)
		if err != nil {
			return err
		}
		results = []*lint.Result{res}
	} else {
		paths, err := expandArgs(args, f.excludes)
		if err != nil {
			return err
		}
		results, err = lintFiles(ctx, l, paths, f.jobs)
		if err != nil {
			return err
		}
	}

	diags := lint.Diagnostics(results)
	if f.json {
		if f.data {
			err = lint.FormatResultsJSON(cmd.OutOrStdout(), results)
		} else if len(diags) > 0 {
			err = lint.FormatJSON(cmd.OutOrStdout(), diags)
		}
		if err != nil {
			return err
		}
	} else if len(diags) > 0 {
		if err := renderLintDiagnostics(cmd.ErrOrStderr(), diags, sources); err != nil {
			return err
		}
	}
	for _, res := range results {
		if res.Abandoned {
			fmt.Fprintln(cmd.ErrOrStderr(), "jsvet lint:", res.Err())
		}
	}
	if len(diags) > 0 {
		return errProblems
	}
	return nil
}

// lintFiles lints paths with at most jobs files in flight.  Results keep the
// order of paths.
func lintFiles(ctx context.Context, l *lint.Linter, paths []string, jobs int) ([]*lint.Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*lint.Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res, err := l.LintFile(gctx, src, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
