package driver

import (
	"context"
	"errors"
	"fmt"

	"masklint/internal/block"
	"masklint/internal/diag"
	"masklint/internal/meta"
	"masklint/internal/observ"
	"masklint/internal/rules"
	"masklint/internal/scanner"
	"masklint/internal/source"
	"masklint/internal/taskfile"
)

// LintStage selects how far the pipeline runs.
type LintStage uint8

const (
	// LintStageAll runs the full pipeline including the rule engine.
	LintStageAll LintStage = iota
	// LintStageScan stops after block scanning.
	LintStageScan
	// LintStageTree stops after tree construction; no rules run.
	LintStageTree
)

// Options configure one lint run. The zero value runs the full
// pipeline with default settings and no cache.
type Options struct {
	Stage LintStage

	// MaxDiagnostics caps the bag; zero means rules.DefaultMaxDiagnostics.
	MaxDiagnostics int

	// Jobs caps parallel rule evaluation per file and parallel files
	// in directory runs. Zero means GOMAXPROCS.
	Jobs int

	// Settings is the effective rule configuration. Nil means defaults.
	Settings *rules.Settings

	// Rules overrides the evaluated rule set. Nil means rules.Builtin().
	Rules []rules.Rule

	EnableTimings bool

	// Cache, when set, short-circuits the pipeline for unchanged
	// content. Cache hits carry diagnostics only, never a tree.
	Cache *DiskCache

	// Progress receives per-file events during directory runs.
	Progress ProgressSink
}

func (o *Options) settings() rules.Settings {
	if o.Settings != nil {
		return *o.Settings
	}
	return rules.DefaultSettings()
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return rules.DefaultMaxDiagnostics
}

func (o *Options) ruleSet() []rules.Rule {
	if o.Rules != nil {
		return o.Rules
	}
	return rules.Builtin()
}

// Result is the outcome of linting one file. A structural failure
// leaves Tree nil and the Bag holding a single fatal diagnostic;
// semantic findings always come with a complete tree.
type Result struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Blocks  []block.Block
	Tree    *taskfile.Tree
	Bag     *diag.Bag
	Timing  *observ.Report
	// CacheHit marks results served from the disk cache. Blocks and
	// Tree are nil on a hit.
	CacheHit bool
}

// Lint loads one maskfile and runs the pipeline over it. I/O problems
// come back as Go errors; everything the pipeline itself finds,
// including structural failures, lands in the result's Bag.
func Lint(ctx context.Context, path string, opts Options) (*Result, error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return LintFile(ctx, fileSet, fileID, opts)
}

// LintFile runs the pipeline over a file already present in fileSet.
// Virtual files work the same as loaded ones, which keeps tests and
// stdin input on the main path.
func LintFile(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, opts Options) (*Result, error) {
	file := fileSet.Get(fileID)
	result := &Result{FileSet: fileSet, FileID: fileID}

	settings := opts.settings()

	if opts.Cache != nil {
		if bag, ok := opts.Cache.Lookup(file, &settings); ok {
			result.Bag = bag
			result.CacheHit = true
			return result, nil
		}
	}

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}

	// Scan.
	phase := timerBegin(timer, "scan")
	blocks, err := scanner.Scan(file)
	if err != nil {
		var scanErr *scanner.ScanError
		if !errors.As(err, &scanErr) {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result.Bag = fatalBag(opts.maxDiagnostics(), diag.ScanUnterminatedCodeFence, scanErr.Span,
			"code fence is opened but never closed")
		finishTimings(timer, phase, result)
		return result, nil
	}
	timerEnd(timer, phase, fmt.Sprintf("%d blocks", len(blocks)))
	result.Blocks = blocks
	if opts.Stage == LintStageScan {
		finishTimings(timer, -1, result)
		return result, nil
	}

	// Extraction and construction findings share one carrier bag.
	carrier := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.BagReporter{Bag: carrier}

	phase = timerBegin(timer, "extract")
	entries := meta.Extract(file, blocks, reporter)
	timerEnd(timer, phase, "")

	phase = timerBegin(timer, "build")
	tree, err := taskfile.Build(file, blocks, entries, reporter)
	if err != nil {
		var buildErr *taskfile.BuildError
		if !errors.As(err, &buildErr) {
			return nil, fmt.Errorf("tree construction failed: %w", err)
		}
		result.Bag = fatalBag(opts.maxDiagnostics(), diag.TreeOrphanCodeFence, buildErr.Span,
			"code fence appears before any task heading")
		finishTimings(timer, phase, result)
		return result, nil
	}
	timerEnd(timer, phase, fmt.Sprintf("%d tasks", tree.Count()))
	result.Tree = tree

	if opts.Stage == LintStageTree {
		carrier.Sort()
		result.Bag = carrier
		finishTimings(timer, -1, result)
		return result, nil
	}

	phase = timerBegin(timer, "rules")
	engine := rules.NewEngine(opts.ruleSet(), settings, rules.Options{
		Jobs:           opts.Jobs,
		MaxDiagnostics: opts.maxDiagnostics(),
	})
	bag, err := engine.Run(ctx, tree, carrier.Items())
	if err != nil {
		return nil, fmt.Errorf("rule evaluation failed: %w", err)
	}
	timerEnd(timer, phase, fmt.Sprintf("%d findings", bag.Len()))
	result.Bag = bag

	finishTimings(timer, -1, result)

	if opts.Cache != nil {
		// Cache failures never fail the lint; the next run just
		// recomputes.
		_ = opts.Cache.Store(file, &settings, bag)
	}
	return result, nil
}

func fatalBag(maxDiags int, code diag.Code, span source.Span, msg string) *diag.Bag {
	bag := diag.NewBag(maxDiags)
	bag.Add(diag.NewError(code, span, msg))
	return bag
}

func timerBegin(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func timerEnd(t *observ.Timer, idx int, note string) {
	if t == nil || idx < 0 {
		return
	}
	t.End(idx, note)
}

func finishTimings(t *observ.Timer, openPhase int, result *Result) {
	if t == nil {
		return
	}
	timerEnd(t, openPhase, "aborted")
	report := t.Report()
	result.Timing = &report
}
