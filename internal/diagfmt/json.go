package diagfmt

import (
	"encoding/json"
	"io"

	"masklint/internal/diag"
	"masklint/internal/source"
)

// DiagnosticJSON is the serialized finding record. The flat position
// fields are the stable contract; notes and fixes are opt-in extras.
type DiagnosticJSON struct {
	Severity     string     `json:"severity"`
	RuleCode     string     `json:"rule_code"`
	Message      string     `json:"message"`
	File         string     `json:"file"`
	Line         uint32     `json:"line"`
	Column       uint32     `json:"column"`
	EndLine      uint32     `json:"end_line"`
	EndColumn    uint32     `json:"end_column"`
	SuggestedFix string     `json:"suggested_fix,omitempty"`
	Notes        []NoteJSON `json:"notes,omitempty"`
	Fixes        []FixJSON  `json:"fixes,omitempty"`
}

type NoteJSON struct {
	Message string `json:"message"`
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

type FixEditJSON struct {
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"end_line"`
	EndColumn uint32 `json:"end_column"`
	NewText   string `json:"new_text"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput assembles the output structure without
// serializing it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		file := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)

		rec := DiagnosticJSON{
			Severity:     d.Severity.Label(),
			RuleCode:     d.Code.ID(),
			Message:      d.Message,
			File:         displayPath(file, fs, opts.PathMode),
			Line:         start.Line,
			Column:       start.Col,
			EndLine:      end.Line,
			EndColumn:    end.Col,
			SuggestedFix: d.SuggestedFix(),
		}

		if opts.IncludeNotes && len(d.Notes) > 0 {
			rec.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				pos, _ := fs.Resolve(note.Span)
				rec.Notes[j] = NoteJSON{Message: note.Msg, Line: pos.Line, Column: pos.Col}
			}
		}

		if opts.IncludeFixes && len(d.Fixes) > 0 {
			rec.Fixes = make([]FixJSON, 0, len(d.Fixes))
			for _, fix := range d.Fixes {
				fixJSON := FixJSON{Title: fix.Title}
				for _, edit := range fix.Edits {
					editStart, editEnd := fs.Resolve(edit.Span)
					fixJSON.Edits = append(fixJSON.Edits, FixEditJSON{
						Line:      editStart.Line,
						Column:    editStart.Col,
						EndLine:   editEnd.Line,
						EndColumn: editEnd.Col,
						NewText:   edit.NewText,
					})
				}
				rec.Fixes = append(rec.Fixes, fixJSON)
			}
		}

		diagnostics = append(diagnostics, rec)
	}

	return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
}

// JSON serializes the bag as one indented document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
