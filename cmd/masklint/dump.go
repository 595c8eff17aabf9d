package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"masklint/internal/diagfmt"
	"masklint/internal/driver"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [maskfile.md]",
	Short: "Write each task's script body to a standalone file",
	Long:  `Dump extracts every fenced code block into a script file named after its task, with a shebang matching the interpreter tag, so the scripts can be inspected or linted by external tools directly`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "masklint-scripts", "directory to write scripts into")
}

func runDump(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
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

	written, err := driver.DumpScripts(result.Tree, outDir)
	if err != nil {
		return err
	}

	if !quiet {
		for _, path := range written {
			fmt.Fprintln(os.Stdout, path)
		}
	}
	return nil
}
