package rules

import (
	"fmt"

	"masklint/internal/diag"
	"masklint/internal/taskfile"
)

// emptyTask flags tasks that do nothing: no script body and no
// subtasks to delegate to.
type emptyTask struct{}

func (emptyTask) Code() diag.Code                { return diag.EmptyTask }
func (emptyTask) DefaultSeverity() diag.Severity { return diag.SevWarning }

func (emptyTask) Describe() string {
	return "task has neither a script body nor subtasks"
}

func (r emptyTask) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	ctx.Tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		if task.HasBody || len(task.Children) > 0 {
			return true
		}
		out = append(out, diag.New(r.DefaultSeverity(), r.Code(), task.HeadingSpan,
			fmt.Sprintf("task %q has no body and no subtasks", task.Name)).
			WithFix("remove the task or add a script body"))
		return true
	})
	return out
}

// missingDescription flags runnable tasks that give the user nothing
// to read in help output.
type missingDescription struct{}

func (missingDescription) Code() diag.Code                { return diag.MissingDescription }
func (missingDescription) DefaultSeverity() diag.Severity { return diag.SevInfo }

func (missingDescription) Describe() string {
	return "task has a script body but no description"
}

func (r missingDescription) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	ctx.Tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody || task.Description != "" {
			return true
		}
		out = append(out, diag.New(r.DefaultSeverity(), r.Code(), task.HeadingSpan,
			fmt.Sprintf("task %q has no description", task.Name)).
			WithFix("add a description paragraph under the heading"))
		return true
	})
	return out
}
