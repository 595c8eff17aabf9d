package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"masklint/internal/meta"
	"masklint/internal/source"
	"masklint/internal/taskfile"
)

// TaskJSON mirrors one task node for JSON tree dumps.
type TaskJSON struct {
	Name        string      `json:"name"`
	FullName    string      `json:"full_name"`
	Depth       uint8       `json:"depth"`
	Description string      `json:"description,omitempty"`
	Interpreter string      `json:"interpreter,omitempty"`
	HasBody     bool        `json:"has_body"`
	Line        uint32      `json:"line"`
	Params      []ParamJSON `json:"params,omitempty"`
	Subtasks    []TaskJSON  `json:"subtasks,omitempty"`
}

type ParamJSON struct {
	Name        string `json:"name"`
	Default     string `json:"default,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// TreeOutput is the root of the JSON tree dump.
type TreeOutput struct {
	File  string     `json:"file"`
	Count int        `json:"count"`
	Tasks []TaskJSON `json:"tasks"`
}

// FormatTreePretty writes an indented outline of the task tree with
// interpreters, descriptions, and parameter declarations.
func FormatTreePretty(w io.Writer, tree *taskfile.Tree) error {
	file := tree.File()
	fmt.Fprintf(w, "%s: %d tasks\n", file.FormatPath("auto", ""), tree.Count())

	tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		indent := strings.Repeat("  ", int(task.Depth)-1)
		pos := file.LineCol(task.HeadingSpan.Start)

		fmt.Fprintf(w, "%s%s", indent, task.Name)
		if task.HasBody {
			tag := task.Interpreter
			if tag == "" {
				tag = "?"
			}
			fmt.Fprintf(w, " (%s)", tag)
		}
		fmt.Fprintf(w, "  at %d:%d\n", pos.Line, pos.Col)

		if task.Description != "" {
			fmt.Fprintf(w, "%s  desc: %s\n", indent, firstLine(task.Description))
		}
		for _, p := range task.Params {
			fmt.Fprintf(w, "%s  param: %s\n", indent, formatParam(p))
		}
		return true
	})
	return nil
}

// BuildTreeOutput assembles the JSON tree structure without
// serializing it.
func BuildTreeOutput(tree *taskfile.Tree) TreeOutput {
	file := tree.File()
	root := tree.Get(tree.Root())
	tasks := make([]TaskJSON, 0, len(root.Children))
	for _, child := range root.Children {
		tasks = append(tasks, buildTaskJSON(tree, file, child))
	}
	return TreeOutput{
		File:  file.FormatPath("auto", ""),
		Count: tree.Count(),
		Tasks: tasks,
	}
}

// FormatTreeJSON writes the task tree as one indented JSON document.
func FormatTreeJSON(w io.Writer, tree *taskfile.Tree) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(tree))
}

func buildTaskJSON(tree *taskfile.Tree, file *source.File, id taskfile.TaskID) TaskJSON {
	task := tree.Get(id)
	out := TaskJSON{
		Name:        task.Name,
		FullName:    tree.FullName(id),
		Depth:       task.Depth,
		Description: task.Description,
		Interpreter: task.Interpreter,
		HasBody:     task.HasBody,
		Line:        file.LineCol(task.HeadingSpan.Start).Line,
	}
	for _, p := range task.Params {
		out.Params = append(out.Params, ParamJSON{
			Name:        p.Name,
			Default:     p.Default,
			Required:    p.Required,
			Description: p.Description,
		})
	}
	for _, child := range task.Children {
		out.Subtasks = append(out.Subtasks, buildTaskJSON(tree, file, child))
	}
	return out
}

func formatParam(p meta.Param) string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Default != "" {
		b.WriteString("=")
		b.WriteString(p.Default)
	}
	if p.Required {
		b.WriteString(" (required)")
	}
	if p.Description != "" {
		b.WriteString("  ")
		b.WriteString(p.Description)
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
