package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"masklint/internal/diagfmt"
	"masklint/internal/driver"
)

var treeCmd = &cobra.Command{
	Use:   "tree [maskfile.md]",
	Short: "Print the task tree of a maskfile",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTree(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	target := targetPath(args)
	settings, err := resolveSettings(cmd, target)
	if err != nil {
		return err
	}

	result, err := driver.Lint(cmd.Context(), target, driver.Options{
		Stage:    driver.LintStageTree,
		Settings: &settings,
	})
	if err != nil {
		return err
	}
	if result.Tree == nil {
		useC, err := useColor(cmd)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:    useC,
			Context:  2,
			PathMode: diagfmt.PathModeAuto,
		})
		return silentExitError(cmd)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(os.Stdout, result.Tree)
	case "json":
		return diagfmt.FormatTreeJSON(os.Stdout, result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
