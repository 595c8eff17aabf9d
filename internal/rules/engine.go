package rules

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"masklint/internal/diag"
	"masklint/internal/taskfile"
)

// DefaultMaxDiagnostics caps the merged bag when the caller does not
// say otherwise.
const DefaultMaxDiagnostics = 100

// Options tune one engine run.
type Options struct {
	// Jobs caps concurrent rule evaluation. Zero or negative means
	// GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the merged bag. Zero means
	// DefaultMaxDiagnostics.
	MaxDiagnostics int
}

// Engine evaluates a fixed rule set under one configuration. It is
// safe for concurrent use across files: rules are stateless and the
// settings are read-only after construction.
type Engine struct {
	rules    []Rule
	settings Settings
	jobs     int
	maxDiags int
}

func NewEngine(rules []Rule, settings Settings, opts Options) *Engine {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	return &Engine{rules: rules, settings: settings, jobs: jobs, maxDiags: maxDiags}
}

// Settings returns the engine's effective configuration.
func (e *Engine) Settings() *Settings {
	return &e.settings
}

// Run evaluates every enabled rule against the tree and merges the
// results with the findings carried from extraction and construction.
// The configuration applies to both kinds the same way: disabled codes
// vanish, severity overrides rewrite. The merged bag is sorted and
// deduplicated, so the job count never changes the output.
func (e *Engine) Run(ctx context.Context, tree *taskfile.Tree, carried []diag.Diagnostic) (*diag.Bag, error) {
	rctx := &Context{
		Tree:         tree,
		File:         tree.File(),
		Interpreters: e.settings.InterpreterSet(),
	}

	// Per-rule slots; no shared state, no mutex.
	results := make([][]diag.Diagnostic, len(e.rules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.jobs, len(e.rules)))
	for i, r := range e.rules {
		if !e.settings.Enabled(r.Code()) {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.Check(rctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag(e.maxDiags)
	for _, d := range carried {
		e.admit(bag, d)
	}
	for _, res := range results {
		for _, d := range res {
			e.admit(bag, d)
		}
	}
	bag.Sort()
	bag.Dedup()
	return bag, nil
}

// admit applies the configuration to one finding before it enters the
// bag.
func (e *Engine) admit(bag *diag.Bag, d diag.Diagnostic) {
	if !e.settings.Enabled(d.Code) {
		return
	}
	if sev, ok := e.settings.Severity[d.Code]; ok {
		d.Severity = sev
	}
	bag.Add(d)
}
