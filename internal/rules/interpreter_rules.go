package rules

import (
	"bytes"
	"fmt"

	"masklint/internal/diag"
	"masklint/internal/source"
	"masklint/internal/taskfile"
)

// unknownInterpreter flags fence tags outside the configured
// allow-list. The tag is compared verbatim, so `Bash` and `bash` are
// different interpreters.
type unknownInterpreter struct{}

func (unknownInterpreter) Code() diag.Code                { return diag.UnknownInterpreter }
func (unknownInterpreter) DefaultSeverity() diag.Severity { return diag.SevWarning }

func (unknownInterpreter) Describe() string {
	return "code fence tag is not a configured interpreter"
}

func (r unknownInterpreter) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	ctx.Tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody || task.Interpreter == "" {
			return true
		}
		if ctx.AllowedInterpreter(task.Interpreter) {
			return true
		}
		out = append(out, diag.New(r.DefaultSeverity(), r.Code(), task.TagSpan,
			fmt.Sprintf("unknown interpreter %q", task.Interpreter)))
		return true
	})
	return out
}

// missingInterpreter flags bodies whose fence carries no tag at all;
// such blocks cannot be routed to any interpreter.
type missingInterpreter struct{}

func (missingInterpreter) Code() diag.Code                { return diag.MissingInterpreter }
func (missingInterpreter) DefaultSeverity() diag.Severity { return diag.SevWarning }

func (missingInterpreter) Describe() string {
	return "code fence has no interpreter tag"
}

func (r missingInterpreter) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	ctx.Tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody || task.Interpreter != "" {
			return true
		}
		out = append(out, diag.New(r.DefaultSeverity(), r.Code(), openingFenceLine(ctx.File, task.FenceSpan),
			fmt.Sprintf("code fence for task %q has no interpreter tag", task.Name)).
			WithFix("add a language tag to the opening fence"))
		return true
	})
	return out
}

// openingFenceLine narrows a fence span to its opening line so the
// finding does not underline the whole block.
func openingFenceLine(file *source.File, sp source.Span) source.Span {
	text := sp.Text(file.Content)
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		sp.End = sp.Start + uint32(i)
	}
	return sp
}
