// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsvet",
	Short: "jsvet: JavaScript lexer and scope checker",
	Long: `jsvet tokenizes JavaScript the way JSHint does and tracks every
declaration and reference through nested scopes. It reports lexical
problems (unclosed strings, bad escapes, malformed numbers and regular
expressions) and scope problems (undefined and unused variables,
redeclarations, shadowing, use before definition).

Getting started:
  jsvet lint file.js            Check a file
  jsvet lint ./...              Check every .js file below the current directory
  jsvet tokens file.js          Print the token stream
  jsvet codes                   List diagnostic codes
  jsvet doc unused              Describe a configuration option
  jsvet repl                    Inspect tokens and scopes interactively
  jsvet lsp                     Start the language server

Configuration:
  Options are read from .jshintrc (JSON) or .jsvet.{yaml,json,toml} in the
  working directory or $HOME, from JSVET_<OPTION> environment variables and
  from command line flags, in increasing order of precedence.  Inline
  /*jshint */, /*global */ and /*exported */ comments apply on top.

More information:
  Source code:     https://github.com/luthersystems/jsvet`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .jshintrc or .jsvet.yaml in . or $HOME)")
	flags.StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)

	flags.Int("esversion", 5, "ECMAScript version to accept (3, 5, 6 and later)")
	flags.Bool("undef", true, "Warn about undefined variables")
	flags.String("unused", "last-param", `Unused variable checking: "false", "true", "vars", "last-param" or "strict"`)
	flags.String("shadow", "inner", `Shadowing checks: "inner", "outer" or "true" (allow)`)
	flags.String("latedef", "false", `Use before definition: "false", "true" or "nofunc"`)
	flags.Bool("node", false, "Predefine Node.js globals")
	flags.Bool("module", false, "Treat files as ES modules")
	flags.Int("maxlen", 0, "Maximum line length (0 disables the check)")
	flags.Int("maxerr", 50, "Stop reporting after this many problems")
	for _, name := range []string{"esversion", "undef", "unused", "shadow", "latedef", "node", "module", "maxlen", "maxerr"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configure(viper.GetViper(), cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
}

// configure points v at the config file to read and enables JSVET_
// environment variables.  An explicit file wins; otherwise a .jshintrc in
// the working directory or $HOME is preferred over .jsvet.*.
func configure(v *viper.Viper, file string) {
	v.SetEnvPrefix("JSVET")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if filepath.Base(file) == ".jshintrc" {
			v.SetConfigType("json")
		}
		return
	}

	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	for _, dir := range dirs {
		rc := filepath.Join(dir, ".jshintrc")
		if _, err := os.Stat(rc); err == nil {
			v.SetConfigFile(rc)
			v.SetConfigType("json")
			return
		}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigName(".jsvet")
}
