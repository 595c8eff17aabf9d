package rules

import (
	"fmt"
	"strings"

	"masklint/internal/diag"
	"masklint/internal/source"
	"masklint/internal/taskfile"
)

// isEnvName reports whether a placeholder name looks like an
// environment variable: at least one letter, none of them lowercase.
// ${HOME} in a body should not demand a parameter declaration.
func isEnvName(name string) bool {
	return name == strings.ToUpper(name) && name != strings.ToLower(name)
}

// undeclaredParamRef flags ${name} references with no matching
// declaration on the task. The scan is textual; references built up by
// the script at runtime are out of reach and stay unreported.
type undeclaredParamRef struct{}

func (undeclaredParamRef) Code() diag.Code                { return diag.UndeclaredParameterReference }
func (undeclaredParamRef) DefaultSeverity() diag.Severity { return diag.SevError }

func (undeclaredParamRef) Describe() string {
	return "body references a parameter that is not declared"
}

func (r undeclaredParamRef) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	ctx.Tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody {
			return true
		}
		declared := make(map[string]bool, len(task.Params))
		for _, p := range task.Params {
			declared[p.Name] = true
		}
		for _, m := range taskfile.PlaceholderPattern.FindAllStringSubmatchIndex(task.Body, -1) {
			name := task.Body[m[2]:m[3]]
			if declared[name] || isEnvName(name) {
				continue
			}
			sp := source.Span{
				File:  task.BodySpan.File,
				Start: task.BodySpan.Start + uint32(m[0]),
				End:   task.BodySpan.Start + uint32(m[1]),
			}
			out = append(out, diag.New(r.DefaultSeverity(), r.Code(), sp,
				fmt.Sprintf("reference to undeclared parameter %q", name)).
				WithFix(fmt.Sprintf("declare %q as a parameter of task %q", name, task.Name)))
		}
		return true
	})
	return out
}

// unusedParam flags declared parameters the body never references.
// Tasks without bodies are skipped: parameters on grouping headings
// have nowhere to be referenced, and empty-task already covers leaves.
type unusedParam struct{}

func (unusedParam) Code() diag.Code                { return diag.UnusedParameter }
func (unusedParam) DefaultSeverity() diag.Severity { return diag.SevWarning }

func (unusedParam) Describe() string {
	return "declared parameter is never referenced in the body"
}

func (r unusedParam) Check(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	ctx.Tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		if !task.HasBody || len(task.Params) == 0 {
			return true
		}
		used := make(map[string]bool, len(task.Params))
		for _, m := range taskfile.PlaceholderPattern.FindAllStringSubmatchIndex(task.Body, -1) {
			used[task.Body[m[2]:m[3]]] = true
		}
		for _, p := range task.Params {
			if used[p.Name] {
				continue
			}
			out = append(out, diag.New(r.DefaultSeverity(), r.Code(), p.NameSpan,
				fmt.Sprintf("parameter %q is declared but never referenced", p.Name)).
				WithFix("remove the unused parameter declaration"))
		}
		return true
	})
	return out
}
