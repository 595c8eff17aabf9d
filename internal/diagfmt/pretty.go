package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"masklint/internal/diag"
	"masklint/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue)
)

// Pretty renders diagnostics for humans. It walks bag.Items() in order
// (the bag is expected to be sorted already) and prints, per
// diagnostic:
//
//	<path>:<line>:<col>: <SEVERITY> <code>: <message>
//
// followed by the source line with a ^~~~ underline over the span,
// then notes and fix suggestions when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		displayPath(file, fs, opts.PathMode), start.Line, start.Col, sev, code, d.Message)

	writeContext(w, file, d.Primary, d.Severity, opts)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			noteFile := fs.Get(note.Span.File)
			notePos, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s:%d:%d: note: %s\n",
				displayPath(noteFile, fs, opts.PathMode), notePos.Line, notePos.Col, note.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  help: %s\n", fix.Title)
		}
	}
}

// writeContext prints the target line with its neighbors and the
// underline row. Multi-line spans underline their first line only.
func writeContext(w io.Writer, file *source.File, sp source.Span, sev diag.Severity, opts PrettyOpts) {
	target := file.LineCol(sp.Start)
	first := int(target.Line) - int(opts.Context)
	if first < 1 {
		first = 1
	}
	last := int(target.Line) + int(opts.Context)

	gutterWidth := len(fmt.Sprintf("%d", last))
	for line := first; line <= last; line++ {
		text := file.GetLine(uint32(line))
		if text == "" && uint32(line) != target.Line && !lineExists(file, uint32(line)) {
			continue
		}
		gutter := fmt.Sprintf("%*d", gutterWidth, line)
		if opts.Color {
			gutter = gutterColor.Sprint(gutter)
		}
		fmt.Fprintf(w, "  %s | %s\n", gutter, clipLine(text, opts.Width))

		if uint32(line) == target.Line {
			writeUnderline(w, file, sp, target, sev, gutterWidth, opts)
		}
	}
}

func writeUnderline(w io.Writer, file *source.File, sp source.Span, target source.LineCol, sev diag.Severity, gutterWidth int, opts PrettyOpts) {
	lineStart := lineStartOffset(file, target.Line)
	lineText := file.GetLine(target.Line)
	lineEnd := lineStart + uint32(len(lineText))

	end := sp.End
	if end > lineEnd {
		end = lineEnd
	}
	if end < sp.Start {
		end = sp.Start
	}

	pad := runewidth.StringWidth(string(file.Content[lineStart:sp.Start]))
	width := runewidth.StringWidth(string(file.Content[sp.Start:end]))
	if width < 1 {
		width = 1
	}
	if opts.Width > 0 && pad+width > int(opts.Width) {
		width = int(opts.Width) - pad
		if width < 1 {
			width = 1
		}
	}

	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = severityColor(sev).Sprint(underline)
	}
	fmt.Fprintf(w, "  %s | %s%s\n",
		strings.Repeat(" ", gutterWidth), strings.Repeat(" ", pad), underline)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func displayPath(file *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case PathModeRelative:
		return file.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return file.FormatPath("basename", "")
	default:
		return file.FormatPath("auto", "")
	}
}

func lineStartOffset(file *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	return file.LineIdx[line-2] + 1
}

func lineExists(file *source.File, line uint32) bool {
	return line >= 1 && int(line) <= len(file.LineIdx)+1
}

func clipLine(text string, width uint8) string {
	if width == 0 {
		return text
	}
	return runewidth.Truncate(text, int(width), "...")
}
