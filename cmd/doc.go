// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luthersystems/jsvet/docs"
)

var docList bool

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc [flags] [option]",
	Short: "Show the reference for configuration options",
	Long: `Show the reference for jsvet configuration options and inline
directives.  With no argument, prints the whole reference.

Examples:
  jsvet doc                Print the options reference
  jsvet doc unused         Show the unused option
  jsvet doc -l             List the documented topics`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDoc(cmd.OutOrStdout(), args, docList)
	},
}

func writeDoc(w io.Writer, args []string, list bool) error {
	if list {
		_, err := io.WriteString(w, strings.Join(docs.Topics(), "\n")+"\n")
		return err
	}
	if len(args) == 0 {
		_, err := io.WriteString(w, docs.OptionsGuide)
		return err
	}
	s, ok := docs.Section(args[0])
	if !ok {
		return fmt.Errorf("no documentation for %s; try jsvet doc -l", args[0])
	}
	_, err := io.WriteString(w, s)
	return err
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.Flags().BoolVarP(&docList, "list", "l", false, "List documented topics.")
}
