package rules

import (
	"masklint/internal/diag"
	"masklint/internal/source"
	"masklint/internal/taskfile"
)

// Rule is one read-only check over a built task tree. Rules never
// mutate the tree and hold no state between files, so the engine may
// evaluate them in any order or in parallel.
type Rule interface {
	// Code returns the rule's diagnostic code; its ID() is the
	// kebab-case rule name used in output and config.
	Code() diag.Code

	// DefaultSeverity is the severity findings carry unless the
	// configuration overrides it.
	DefaultSeverity() diag.Severity

	// Describe returns a one-line summary for rule listings.
	Describe() string

	// Check inspects the context and returns findings. An empty slice
	// means the file is clean for this rule.
	Check(ctx *Context) []diag.Diagnostic
}

// Context gives rules read-only access to one file's parse results and
// the effective settings.
type Context struct {
	Tree *taskfile.Tree
	File *source.File

	// Interpreters is the allow-list for unknown-interpreter, exact
	// tag match.
	Interpreters map[string]bool
}

// AllowedInterpreter reports whether tag passes the allow-list.
func (c *Context) AllowedInterpreter(tag string) bool {
	return c.Interpreters[tag]
}
