// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luthersystems/jsvet/lsp"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass
// WithConfig to serve diagnostics for a fixed configuration.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio    bool
		port     int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the jsvet Language Server Protocol server",
		Long: `Start an LSP server for JavaScript files.

The language server publishes jsvet diagnostics as files are opened, edited
and saved, and provides quick fixes for them, hover information for
globals, semantic tokens and folding ranges.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Logs go to stderr; use --log-level=debug to trace document activity.

Examples:
  jsvet lsp                           Start with stdio transport
  jsvet lsp --stdio                   Same as above (explicit)
  jsvet lsp --port 7998               Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "jsvet lsp --stdio" for .js files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			log := logrus.New()
			log.SetOutput(os.Stderr)
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				fmt.Fprintf(os.Stderr, "jsvet lsp: %v\n", err)
				os.Exit(2)
			}
			log.SetLevel(level)

			conf, err := cfg.resolveConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "jsvet lsp: %v\n", err)
				os.Exit(2)
			}
			l, err := conf.Linter(nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "jsvet lsp: %v\n", err)
				os.Exit(2)
			}

			srv := lsp.New(lsp.WithLinter(l), lsp.WithLogger(log))

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				if err := srv.RunTCP(addr); err != nil {
					log.WithError(err).Error("lsp server error")
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					log.WithError(err).Error("lsp server error")
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warning",
		`Log level: "debug", "info", "warning" or "error"`)

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
