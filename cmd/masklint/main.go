package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"masklint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "masklint",
	Short: "Linter for maskfile task documents",
	Long:  `masklint statically checks maskfiles: markdown documents where headings name tasks and fenced code blocks hold their scripts`,
}

// main registers subcommands and persistent flags, then executes the
// root command. Any returned error exits with status 1; commands that
// already printed their diagnostics return a silent error.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "config file path (default: nearest .masklint.toml/.masklint.yml)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
