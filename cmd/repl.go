// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/luthersystems/jsvet/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Inspect tokens and scopes interactively",
	Long: `Start an interactive session for exploring how jsvet sees JavaScript.

Each line entered is appended to the session source, which is analyzed as a
whole after every line; problems are printed the first time they appear.
Line editing, completion of globals and in-session command history are
supported via readline. Use Ctrl-D to exit.

Example session:
  jsvet> var total = 0;
  jsvet> totl += 1;
  warning[W117]: 'totl' is not defined.
  ...
  jsvet> :globals
  implied totl (line 2)
  jsvet> :tokens /ab+c/gi.test(s)
  (regexp)       "/ab+c/gi"
  ...
  jsvet> :help`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(filepath.Base(os.Args[0]) + "> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
