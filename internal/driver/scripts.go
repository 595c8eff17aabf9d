package driver

import (
	"context"
	"fmt"
	"os"

	"masklint/internal/extlint"
	"masklint/internal/taskfile"
)

// DumpScripts materializes every script body of the tree under outDir,
// one file per task, named "<full name>.<ext>" with spaces replaced by
// underscores. It returns the written paths in document order.
func DumpScripts(tree *taskfile.Tree, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	var failure error
	tree.Walk(func(id taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody {
			return true
		}
		handler := extlint.ForInterpreter(task.Interpreter)
		path, err := extlint.WriteScript(outDir, tree.FullName(id), handler, task)
		if err != nil {
			failure = err
			return false
		}
		written = append(written, path)
		return true
	})
	if failure != nil {
		return written, failure
	}
	return written, nil
}

// ScriptReport is the outcome of handing one task's body to its
// external linter.
type ScriptReport struct {
	Task   string // full task name
	Linter string
	Output string
	Kind   extlint.Kind
	Err    error
}

// Failed reports whether the script produced genuine findings, as
// opposed to a warning or a clean pass. Errors (missing binaries)
// count as failures so the caller never mistakes "could not check"
// for "clean".
func (r *ScriptReport) Failed() bool {
	if r.Err != nil {
		return true
	}
	return r.Output != "" && r.Kind == extlint.KindFindings
}

// CheckScripts writes every script body to a temporary directory and
// runs the matching external linter over each. The tree order decides
// the report order; a missing linter binary is recorded on the report
// rather than aborting the remaining tasks.
func CheckScripts(ctx context.Context, tree *taskfile.Tree) ([]ScriptReport, error) {
	tmpDir, err := os.MkdirTemp("", "masklint-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var reports []ScriptReport
	tree.Walk(func(id taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody {
			return true
		}
		if err := ctx.Err(); err != nil {
			return false
		}

		fullName := tree.FullName(id)
		handler := extlint.ForInterpreter(task.Interpreter)
		report := ScriptReport{Task: fullName, Linter: handler.Name()}

		path, err := extlint.WriteScript(tmpDir, fullName, handler, task)
		if err != nil {
			report.Err = err
			reports = append(reports, report)
			return true
		}

		out, err := handler.Run(ctx, path)
		if err != nil {
			report.Err = err
		} else {
			report.Output = out.Output
			report.Kind = out.Kind
		}
		reports = append(reports, report)
		return true
	})

	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, nil
}
