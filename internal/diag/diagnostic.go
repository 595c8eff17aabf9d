package diag

import (
	"masklint/internal/source"
)

// Note attaches secondary context to a diagnostic, e.g. the first
// occurrence behind a duplicate finding.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a concrete text replacement.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix describes one way to address a finding. Title doubles as the
// suggested_fix string in serialized output; Edits power previews.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is a single finding with its location and metadata.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// SuggestedFix returns the first fix title, or "" when the diagnostic
// carries no fix.
func (d Diagnostic) SuggestedFix() string {
	if len(d.Fixes) == 0 {
		return ""
	}
	return d.Fixes[0].Title
}
