package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gofrs/uuid"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nsubset/pyfront/parser"
)

var (
	cfgFile string
	red     = color.New(color.FgRed).SprintfFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
)

func init() {
	cobra.OnInitialize(initConfig)
	viper.SetEnvPrefix("pyfront")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.pyfront.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Int("max-depth", 0, "Bound recursion depth while parsing (0 keeps the parser's default limit)")
	rootCmd.PersistentFlags().Bool("trace-id", false, "Stamp a trace id on the lex and parse subcommands' output lines (caret lines excluded)")

	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("max-depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	viper.BindPFlag("trace-id", rootCmd.PersistentFlags().Lookup("trace-id"))

	viper.AutomaticEnv()

	rootCmd.AddCommand(lexCmd, parseCmd, astCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".pyfront")
	}
	viper.ReadInConfig()
	// Flags are parsed by now, so --no-color takes effect here.
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

var rootCmd = &cobra.Command{
	Use:   "pyfront",
	Short: "Lexer and parser front end for a Python-2-subset scripting language",
	Args:  cobra.ArbitraryArgs,
}

func execute() {
	if viper.GetBool("no-color") || !isTerminalOut() {
		color.NoColor = true
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminalOut() bool {
	stdout := os.Stdout.Fd()
	return isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
}

// traceID returns a fresh trace id for prefixing diagnostic output when
// --trace-id is set, or the empty string otherwise.
func traceID() string {
	if !viper.GetBool("trace-id") {
		return ""
	}
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

// parserOptions builds the Option set Parse should be called with,
// honoring --max-depth / PYFRONT_MAX_DEPTH. A non-positive value leaves
// the parser's built-in default in place.
func parserOptions() []parser.Option {
	if depth := viper.GetInt("max-depth"); depth > 0 {
		return []parser.Option{parser.WithMaxDepth(depth)}
	}
	return nil
}

func prefixed(id, line string) string {
	if id == "" {
		return line
	}
	return fmt.Sprintf("[%s] %s", id, line)
}

func fatal(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
