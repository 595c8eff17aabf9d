// Package extlint routes extracted script bodies to external linters:
// shellcheck for shell, ruff for python, rubocop for ruby, nu-check
// for nushell. Interpreters without a linter fall through to a
// catchall warning.
package extlint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"masklint/internal/taskfile"
)

// Kind tells findings apart from warnings: findings fail the run,
// warnings are informational and respect --no-warnings.
type Kind uint8

const (
	KindFindings Kind = iota
	KindWarning
)

// Report is the outcome of one external linter invocation. An empty
// Output means the script is clean.
type Report struct {
	Output string
	Kind   Kind
}

// Handler adapts one external linter.
type Handler interface {
	// Name is the human-readable linter name used in messages.
	Name() string
	// Ext is the file extension for materialized scripts, with the
	// leading dot. Empty for handlers that do not care.
	Ext() string
	// Content renders the script file body, e.g. with a shebang
	// injected so the linter knows the dialect.
	Content(task *taskfile.Task) string
	// Run invokes the linter on the materialized script.
	Run(ctx context.Context, path string) (Report, error)
}

// ForInterpreter returns the handler for a fence tag.
func ForInterpreter(tag string) Handler {
	switch tag {
	case "sh", "bash":
		return Shellcheck{}
	case "py", "python":
		return Ruff{}
	case "rb", "ruby":
		return Rubocop{}
	case "nu":
		return Nushell{}
	default:
		return Catchall{}
	}
}

// WriteScript materializes the task's body under dir as
// "<full_name>.<ext>" with spaces replaced by underscores. The file
// must not exist yet; colliding task names surface as an error instead
// of one script silently clobbering another.
func WriteScript(dir, fullName string, h Handler, task *taskfile.Task) (string, error) {
	name := strings.ReplaceAll(fullName, " ", "_") + h.Ext()
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to write script for %q: %w", fullName, err)
	}
	defer f.Close()

	if _, err := f.WriteString(h.Content(task)); err != nil {
		return "", fmt.Errorf("failed to write script for %q: %w", fullName, err)
	}
	return path, nil
}

// runCapture runs the binary and returns its stdout. A non-zero exit
// is not an error: linters exit non-zero exactly when they have
// findings to report. A binary missing from $PATH is.
func runCapture(ctx context.Context, display, bin string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("executable for %s not found in $PATH", display)
		}
		return "", err
	}
	return string(out), nil
}

// Shellcheck lints sh and bash bodies.
type Shellcheck struct{}

func (Shellcheck) Name() string { return "shellcheck" }
func (Shellcheck) Ext() string  { return ".sh" }

// Content prepends an env shebang so shellcheck picks the right
// dialect for bash bodies.
func (Shellcheck) Content(task *taskfile.Task) string {
	return "#!/usr/bin/env " + task.Interpreter + "\n" + task.Body
}

func (h Shellcheck) Run(ctx context.Context, path string) (Report, error) {
	out, err := runCapture(ctx, h.Name(), "shellcheck", path)
	if err != nil {
		return Report{}, err
	}
	findings := strings.ReplaceAll(strings.TrimSpace(out), path+" ", "")
	return Report{Output: findings, Kind: KindFindings}, nil
}

// Ruff lints py and python bodies.
type Ruff struct{}

func (Ruff) Name() string { return "ruff" }
func (Ruff) Ext() string  { return ".py" }

func (Ruff) Content(task *taskfile.Task) string { return task.Body }

func (h Ruff) Run(ctx context.Context, path string) (Report, error) {
	out, err := runCapture(ctx, h.Name(), "ruff",
		"check", "--output-format=full", "--no-cache", "--quiet", path)
	if err != nil {
		return Report{}, err
	}

	var kept []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		// The summary "Found N errors." trailer and everything after
		// it is noise here.
		if strings.HasPrefix(line, "Found ") {
			break
		}
		kept = append(kept, strings.ReplaceAll(line, path+":", "line "))
	}
	return Report{Output: strings.TrimSpace(strings.Join(kept, "\n")), Kind: KindFindings}, nil
}

// Rubocop lints rb and ruby bodies.
type Rubocop struct{}

func (Rubocop) Name() string { return "rubocop" }
func (Rubocop) Ext() string  { return ".rb" }

func (Rubocop) Content(task *taskfile.Task) string { return task.Body }

func (h Rubocop) Run(ctx context.Context, path string) (Report, error) {
	out, err := runCapture(ctx, h.Name(), "rubocop",
		"--format=clang", "--display-style-guide", path)
	if err != nil {
		return Report{}, err
	}

	var kept []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "1 file inspected") {
			continue
		}
		kept = append(kept, line)
	}
	findings := strings.ReplaceAll(strings.TrimSpace(strings.Join(kept, "\n")), path+":", "line ")
	return Report{Output: findings, Kind: KindFindings}, nil
}

// Nushell checks nu bodies through nu-check.
type Nushell struct{}

func (Nushell) Name() string { return "nushell" }
func (Nushell) Ext() string  { return ".nu" }

func (Nushell) Content(task *taskfile.Task) string { return task.Body }

func (h Nushell) Run(ctx context.Context, path string) (Report, error) {
	script := fmt.Sprintf("if not (nu-check %s) { print 'file could not be parsed by nu-check' }", path)
	out, err := runCapture(ctx, h.Name(), "nu", "-c", script)
	if err != nil {
		return Report{}, err
	}
	return Report{Output: strings.TrimSpace(out), Kind: KindFindings}, nil
}

// Catchall handles interpreters nothing on this machine can lint.
type Catchall struct{}

func (Catchall) Name() string { return "catchall" }
func (Catchall) Ext() string  { return "" }

func (Catchall) Content(task *taskfile.Task) string { return task.Body }

func (Catchall) Run(context.Context, string) (Report, error) {
	return Report{Output: "no linter found for target", Kind: KindWarning}, nil
}
