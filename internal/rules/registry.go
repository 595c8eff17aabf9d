package rules

import "masklint/internal/diag"

// Builtin returns every built-in rule in listing order. The order only
// affects `masklint rules` output; findings are sorted by position.
func Builtin() []Rule {
	return []Rule{
		emptyTask{},
		missingDescription{},
		unknownInterpreter{},
		missingInterpreter{},
		undeclaredParamRef{},
		unusedParam{},
	}
}

// ConstructionFinding describes a finding raised during metadata
// extraction or tree construction rather than by a Rule. The codes are
// configurable exactly like rule codes; this catalog exists so
// listings and docs can show them.
type ConstructionFinding struct {
	Code            diag.Code
	DefaultSeverity diag.Severity
	Summary         string
}

// Construction returns the extraction and construction finding codes
// in listing order.
func Construction() []ConstructionFinding {
	return []ConstructionFinding{
		{diag.DuplicateTaskName, diag.SevError, "two sibling tasks share a name"},
		{diag.NamelessTask, diag.SevWarning, "heading has no task name"},
		{diag.MultipleBodies, diag.SevWarning, "task declares more than one script body"},
		{diag.DuplicateParameter, diag.SevWarning, "parameter is declared twice for the same task"},
		{diag.BadParameterName, diag.SevWarning, "parameter declaration bullet is malformed"},
	}
}
