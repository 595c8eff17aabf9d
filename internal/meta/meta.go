package meta

import (
	"fmt"
	"regexp"
	"strings"

	"masklint/internal/block"
	"masklint/internal/diag"
	"masklint/internal/source"
)

// Param is one declared parameter of a task.
type Param struct {
	Name        string
	Description string
	Default     string
	Required    bool
	Span        source.Span // the whole declaration line
	NameSpan    source.Span
}

// Entry pairs a heading block with the metadata extracted from the
// immediately following prose block. Headings without adjacent prose
// still get an Entry with empty fields, so the builder can index by
// heading position alone.
type Entry struct {
	Heading     int // index of the heading in the block slice
	Description string
	Params      []Param
}

// NamePattern is the parameter name grammar: a letter or underscore
// followed by letters, digits, underscores, or hyphens.
var NamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// declPattern matches a full declaration line: a '-' or '*' marker, the
// name token, an optional =default (up to the first colon), and an
// optional description after a colon. The marker decides Required.
var declPattern = regexp.MustCompile(`^([-*])[ \t]+([^\s=:]+)(?:=([^:]*))?(?::[ \t]*(.*))?$`)

// bulletPattern recognizes lines that look like declarations, so that
// malformed ones can degrade to a finding instead of silently becoming
// description text.
var bulletPattern = regexp.MustCompile(`^[-*][ \t]+\S`)

// Extract walks the block list and derives per-heading metadata:
// parameter declarations and the description paragraph. Malformed
// declarations are reported through r and skipped; extraction never
// fails.
func Extract(file *source.File, blocks []block.Block, r diag.Reporter) []Entry {
	entries := make([]Entry, 0, len(blocks)/2)

	for i := range blocks {
		if !blocks[i].IsHeading() {
			continue
		}
		entry := Entry{Heading: i}
		if i+1 < len(blocks) && blocks[i+1].IsText() {
			entry.Description, entry.Params = parseTextBlock(file, &blocks[i+1], r)
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseTextBlock(file *source.File, b *block.Block, r diag.Reporter) (string, []Param) {
	var params []Param
	var descLines []string

	off := b.Span.Start
	for _, line := range strings.Split(b.Text, "\n") {
		lineSpan := source.Span{
			File:  file.ID,
			Start: off,
			End:   off + uint32(len(line)),
		}
		off += uint32(len(line)) + 1

		if !bulletPattern.MatchString(line) {
			descLines = append(descLines, line)
			continue
		}
		// Malformed declarations are reported inside parseDecl and
		// dropped; they never leak into the description.
		if p, ok := parseDecl(line, lineSpan, r); ok {
			params = append(params, p)
		}
	}

	return strings.TrimSpace(strings.Join(descLines, "\n")), params
}

// parseDecl parses one declaration-shaped line. Grammar violations are
// reported as bad-parameter-name and yield (Param{}, false).
func parseDecl(line string, lineSpan source.Span, r diag.Reporter) (Param, bool) {
	m := declPattern.FindStringSubmatchIndex(line)
	if m == nil {
		diag.ReportWarning(r, diag.BadParameterName, lineSpan,
			"malformed parameter declaration").
			WithNote(lineSpan, "expected '- name[=default][: description]'").
			Emit()
		return Param{}, false
	}

	name := line[m[4]:m[5]]
	nameSpan := source.Span{
		File:  lineSpan.File,
		Start: lineSpan.Start + uint32(m[4]),
		End:   lineSpan.Start + uint32(m[5]),
	}
	if !NamePattern.MatchString(name) {
		diag.ReportWarning(r, diag.BadParameterName, nameSpan,
			fmt.Sprintf("invalid parameter name %q", name)).
			WithNote(nameSpan, "names match [A-Za-z_][A-Za-z0-9_-]*").
			Emit()
		return Param{}, false
	}

	p := Param{
		Name:     name,
		Required: line[m[2]:m[3]] == "*",
		Span:     lineSpan,
		NameSpan: nameSpan,
	}
	if m[6] >= 0 {
		p.Default = strings.TrimSpace(line[m[6]:m[7]])
	}
	if m[8] >= 0 {
		p.Description = strings.TrimSpace(line[m[8]:m[9]])
	}
	return p, true
}
