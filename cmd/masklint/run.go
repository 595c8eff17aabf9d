package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"masklint/internal/diag"
	"masklint/internal/diagfmt"
	"masklint/internal/driver"
	"masklint/internal/observ"
	"masklint/internal/source"
	"masklint/internal/taskfile"
	"masklint/internal/version"
)

var runCmd = &cobra.Command{
	Use:   "run [maskfile.md|directory]",
	Short: "Lint a maskfile or every maskfile in a directory",
	Long:  `Run parses the maskfile into a task tree, evaluates the rule set, and hands script bodies to external linters (shellcheck, ruff, rubocop, nu-check) when they are available`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	runCmd.Flags().Bool("no-warnings", false, "hide warning findings")
	runCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	runCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	runCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	runCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	runCmd.Flags().Bool("no-extlint", false, "skip external script linters")
	runCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	runCmd.Flags().Bool("disk-cache", false, "cache diagnostics on disk keyed by content and config (experimental)")
	runCmd.Flags().String("ui", "auto", "progress UI for directory runs (auto|on|off)")
}

type runOptions struct {
	format           string
	noWarnings       bool
	warningsAsErrors bool
	jobs             int
	withNotes        bool
	suggest          bool
	noExtlint        bool
	fullPath         bool
	color            bool
	quiet            bool
	timings          bool
	ui               uiMode
}

func readRunOptions(cmd *cobra.Command) (runOptions, error) {
	var opts runOptions
	var err error

	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if opts.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.noWarnings && opts.warningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if opts.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if opts.noExtlint, err = cmd.Flags().GetBool("no-extlint"); err != nil {
		return opts, fmt.Errorf("failed to get no-extlint flag: %w", err)
	}
	if opts.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.color, err = useColor(cmd); err != nil {
		return opts, err
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiFlag); err != nil {
		return opts, err
	}

	switch opts.format {
	case "pretty", "json", "sarif", "short":
	default:
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}
	return opts, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	opts, err := readRunOptions(cmd)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	target := targetPath(args)
	settings, err := resolveSettings(cmd, target)
	if err != nil {
		return err
	}

	driverOpts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Jobs:           opts.jobs,
		Settings:       &settings,
		EnableTimings:  opts.timings,
	}

	enableCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	// Cache hits skip the pipeline and carry no tree, so the external
	// linters cannot run against them.
	if enableCache && opts.noExtlint {
		cache, err := driver.OpenDiskCache("masklint")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		driverOpts.Cache = cache
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var failed bool
	if st.IsDir() {
		failed, err = runDir(cmd.Context(), cmd, target, driverOpts, opts)
	} else {
		failed, err = runFile(cmd.Context(), target, driverOpts, opts)
	}
	if err != nil {
		return err
	}
	if failed {
		return silentExitError(cmd)
	}
	return nil
}

func runFile(ctx context.Context, path string, driverOpts driver.Options, opts runOptions) (bool, error) {
	result, err := driver.Lint(ctx, path, driverOpts)
	if err != nil {
		return false, err
	}

	if err := renderDiagnostics(os.Stdout, result.Bag, result.FileSet, opts); err != nil {
		return false, err
	}
	if opts.timings && result.Timing != nil {
		printTimings(result.Timing)
	}

	failed := result.Bag.HasErrors() || (opts.warningsAsErrors && result.Bag.HasWarnings())

	if !opts.noExtlint && result.Tree != nil {
		extFailed, err := runScriptLinters(ctx, os.Stdout, result.Tree, opts)
		if err != nil {
			return false, err
		}
		failed = failed || extFailed
	}
	return failed, nil
}

func runDir(ctx context.Context, cmd *cobra.Command, dir string, driverOpts driver.Options, opts runOptions) (bool, error) {
	var fs *source.FileSet
	var results []driver.DirResult
	var err error

	// The TUI only makes sense for interactive pretty output.
	if opts.format == "pretty" && shouldUseTUI(opts.ui) {
		fs, results, err = runLintDirWithUI(ctx, "linting "+dir, dir, driverOpts)
	} else {
		fs, results, err = driver.LintDir(ctx, dir, driverOpts)
	}
	if err != nil {
		return false, err
	}

	failed := false
	for _, r := range results {
		if r.Bag.HasErrors() || (opts.warningsAsErrors && r.Bag.HasWarnings()) {
			failed = true
			break
		}
	}

	switch opts.format {
	case "pretty":
		for idx, r := range results {
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", displayDirPath(fs, &r, opts))
			if err := renderDiagnostics(os.Stdout, r.Bag, fs, opts); err != nil {
				return false, err
			}
		}
	case "short":
		all := make([]diag.Diagnostic, 0)
		for _, r := range results {
			all = append(all, r.Bag.Items()...)
		}
		output := diag.FormatShortDiagnostics(all, fs, opts.withNotes)
		if output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[displayDirPath(fs, &r, opts)] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts(opts))
		}
		if err := writeJSON(os.Stdout, output); err != nil {
			return false, err
		}
	case "sarif":
		merged := diag.NewBag(1)
		for _, r := range results {
			merged.Merge(r.Bag)
		}
		merged.Sort()
		if err := diagfmt.Sarif(os.Stdout, merged, fs, sarifMeta()); err != nil {
			return false, err
		}
	}

	// Script linters run per file, same as single-file mode.
	if !opts.noExtlint {
		for _, r := range results {
			if r.Tree == nil || r.Tree.Tree == nil {
				continue
			}
			extFailed, err := runScriptLinters(ctx, os.Stdout, r.Tree.Tree, opts)
			if err != nil {
				return false, err
			}
			failed = failed || extFailed
		}
	}
	return failed, nil
}

// runScriptLinters hands each script body to its external linter and
// prints the per-task reports in the task runner's own style.
func runScriptLinters(ctx context.Context, w io.Writer, tree *taskfile.Tree, opts runOptions) (bool, error) {
	reports, err := driver.CheckScripts(ctx, tree)
	if err != nil {
		return false, err
	}

	taskColor := color.New(color.FgCyan, color.Bold, color.Underline)
	errColor := color.New(color.FgRed, color.Bold)
	if !opts.color {
		taskColor.DisableColor()
		errColor.DisableColor()
	}

	failed := false
	for i := range reports {
		r := &reports[i]
		if r.Err == nil && r.Output == "" {
			continue
		}
		if opts.noWarnings && r.Err == nil && !r.Failed() {
			continue
		}
		failed = failed || r.Failed()

		fmt.Fprintf(w, "\n%s\n", taskColor.Sprint(r.Task))
		if r.Err != nil {
			fmt.Fprintln(w, errColor.Sprint(r.Err.Error()))
			continue
		}
		fmt.Fprintln(w, r.Output)
	}
	return failed, nil
}

func renderDiagnostics(out *os.File, bag *diag.Bag, fs *source.FileSet, opts runOptions) error {
	display := displayBag(bag, opts.noWarnings)

	switch opts.format {
	case "pretty":
		diagfmt.Pretty(out, display, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   2,
			PathMode:  pathMode(opts),
			ShowNotes: opts.withNotes,
			ShowFixes: opts.suggest,
		})
	case "short":
		if err := diagfmt.Short(out, display, fs, opts.withNotes); err != nil {
			return err
		}
		if display.Len() > 0 {
			fmt.Fprintln(out)
		}
	case "json":
		return diagfmt.JSON(out, display, fs, jsonOpts(opts))
	case "sarif":
		return diagfmt.Sarif(out, display, fs, sarifMeta())
	}
	return nil
}

// displayBag filters warnings out of the rendered output. The original
// bag keeps them, so the exit-code logic still sees everything.
func displayBag(bag *diag.Bag, noWarnings bool) *diag.Bag {
	if !noWarnings {
		return bag
	}
	filtered := diag.NewBag(max(bag.Len(), 1))
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			continue
		}
		filtered.Add(d)
	}
	return filtered
}

func pathMode(opts runOptions) diagfmt.PathMode {
	if opts.fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeAuto
}

func jsonOpts(opts runOptions) diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		PathMode:     pathMode(opts),
		IncludeNotes: opts.withNotes,
		IncludeFixes: opts.suggest,
	}
}

func sarifMeta() diagfmt.SarifRunMeta {
	return diagfmt.SarifRunMeta{
		ToolName:    "masklint",
		ToolVersion: version.Version,
	}
}

func displayDirPath(fs *source.FileSet, r *driver.DirResult, opts runOptions) string {
	mode := "auto"
	if opts.fullPath {
		mode = "absolute"
	}
	return fs.Get(r.FileID).FormatPath(mode, fs.BaseDir())
}

func printTimings(report *observ.Report) {
	fmt.Fprint(os.Stderr, report.Summary())
}
