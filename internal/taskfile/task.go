package taskfile

import (
	"regexp"

	"masklint/internal/meta"
	"masklint/internal/source"
)

// PlaceholderPattern is the convention for referencing a parameter
// inside a script body: ${name}, with the same name grammar as
// declarations. Bodies are scanned textually against it; there is no
// interpreter-aware parsing.
var PlaceholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_-]*)\}`)

// Task is one node of the task tree. The synthetic root occupies the
// first arena slot with Depth 0 and an empty name; every other node
// corresponds to a heading.
type Task struct {
	Name        string
	Depth       uint8
	Description string
	Params      []meta.Param

	// Interpreter is the fence tag of the task's script body, verbatim.
	Interpreter string
	// Body is the raw script content. HasBody distinguishes an empty
	// fence from no fence at all.
	Body    string
	HasBody bool

	// HeadingSpan covers the heading line. Span covers the heading
	// through the task's own metadata and body; descendant content is
	// excluded. FenceSpan covers the whole fence including its fence
	// lines; it and BodySpan/TagSpan are zero unless HasBody.
	HeadingSpan source.Span
	Span        source.Span
	FenceSpan   source.Span
	BodySpan    source.Span
	TagSpan     source.Span

	Parent   TaskID
	Children []TaskID
}

// IsRoot reports whether the task is the synthetic root.
func (t *Task) IsRoot() bool { return t.Depth == 0 }

// IsLeaf reports whether the task has no subtasks.
func (t *Task) IsLeaf() bool { return len(t.Children) == 0 }
