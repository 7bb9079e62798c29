// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/jsvet/diagnostic"
	"github.com/luthersystems/jsvet/lint"
)

// CodesCommand creates the "codes" cobra command, which lists the
// diagnostic catalog.
func CodesCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "codes [flags] [code...]",
		Short: "List diagnostic codes and their messages",
		Long: `List the diagnostic codes jsvet reports, with their severity, the check
that reports them and their message template.  Placeholders {a}, {b}, ...
are filled in from the diagnostic's data.

Examples:
  jsvet codes
  jsvet codes W117 W098`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := diagnostic.AllCodes()
			if len(args) > 0 {
				codes = codes[:0:0]
				for _, arg := range args {
					code := diagnostic.Code(strings.ToUpper(arg))
					if !code.Known() {
						return fmt.Errorf("unknown code: %s", arg)
					}
					codes = append(codes, code)
				}
			}
			return writeCodes(cmd.OutOrStdout(), codes, width)
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "Wrap descriptions to this many columns.")
	return cmd
}

func writeCodes(w io.Writer, codes []diagnostic.Code, width int) error {
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for _, code := range codes {
		check := "-"
		if a := lint.AnalyzerFor(code); a != nil {
			check = a.Name
		}
		fmt.Fprintf(&b, "%s  %-7s  %s\n", code, code.Severity(), check)
		b.WriteString(indent.String(wordwrap.String(code.Template(), width-6), 6))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func init() {
	rootCmd.AddCommand(CodesCommand())
}
