package scanner

import (
	"strings"

	"masklint/internal/block"
	"masklint/internal/source"
)

// Scan splits a normalized maskfile into structural blocks: headings,
// fenced code regions, and runs of prose. Blank lines separate blocks
// and are never emitted. On EOF inside an open fence no blocks are
// returned and the error is a *ScanError.
//
// Scan holds no state between calls; scanning the same file twice
// yields identical output.
func Scan(file *source.File) ([]block.Block, error) {
	s := &scanner{file: file, cursor: NewCursor(file)}
	return s.run()
}

type scanner struct {
	file   *source.File
	cursor Cursor
	blocks []block.Block

	// pending prose run
	textOpen bool
	textSpan source.Span

	// open fence state
	fenceOpen    bool
	fenceCh      byte
	fenceRun     int
	fenceTag     string
	fenceTagSpan source.Span
	fenceStart   uint32
	bodyStart    uint32
}

func (s *scanner) run() ([]block.Block, error) {
	for !s.cursor.EOF() {
		line, span := s.cursor.NextLine()

		if s.fenceOpen {
			// Everything up to the closing fence is body, headings included.
			if s.isFenceClose(line) {
				s.closeFence(span)
			}
			continue
		}

		switch {
		case isBlank(line):
			s.flushText()

		case s.scanHeading(line, span):

		case s.scanFenceOpen(line, span):

		default:
			s.appendText(span)
		}
	}

	if s.fenceOpen {
		return nil, &ScanError{
			Code: UnterminatedCodeFence,
			Span: source.Span{File: s.file.ID, Start: s.fenceStart, End: s.cursor.Off},
		}
	}
	s.flushText()
	return s.blocks, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// scanHeading emits a heading block when the line is one. A run of more
// than six '#' or a '#' not followed by space, tab, or end of line is
// prose.
func (s *scanner) scanHeading(line string, span source.Span) bool {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth == 0 || depth > 6 {
		return false
	}
	if depth < len(line) && line[depth] != ' ' && line[depth] != '\t' {
		return false
	}

	s.flushText()
	s.blocks = append(s.blocks, block.Block{
		Kind:  block.Heading,
		Span:  span,
		Depth: uint8(depth),
		Text:  strings.TrimSpace(line[depth:]),
	})
	return true
}

// scanFenceOpen opens a fence when the line starts with a run of three
// or more identical fence characters. The first word of the rest of the
// line is the interpreter tag, taken verbatim.
func (s *scanner) scanFenceOpen(line string, span source.Span) bool {
	if len(line) == 0 {
		return false
	}
	ch := line[0]
	if ch != '`' && ch != '~' {
		return false
	}
	run := 0
	for run < len(line) && line[run] == ch {
		run++
	}
	if run < 3 {
		return false
	}

	s.flushText()
	s.fenceOpen = true
	s.fenceCh = ch
	s.fenceRun = run
	s.fenceStart = span.Start
	s.bodyStart = s.cursor.Off
	s.fenceTag = ""
	s.fenceTagSpan = source.Span{}

	rest := line[run:]
	tagOff := run + (len(rest) - len(strings.TrimLeft(rest, " \t")))
	fields := strings.Fields(rest)
	if len(fields) > 0 {
		s.fenceTag = fields[0]
		s.fenceTagSpan = source.Span{
			File:  s.file.ID,
			Start: span.Start + uint32(tagOff),
			End:   span.Start + uint32(tagOff+len(fields[0])),
		}
	}
	return true
}

// isFenceClose reports whether the line closes the open fence: at least
// as many of the same fence character and nothing else but trailing
// whitespace.
func (s *scanner) isFenceClose(line string) bool {
	t := strings.TrimRight(line, " \t")
	if len(t) < s.fenceRun {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] != s.fenceCh {
			return false
		}
	}
	return true
}

func (s *scanner) closeFence(closeSpan source.Span) {
	bodyEnd := closeSpan.Start
	if bodyEnd < s.bodyStart {
		bodyEnd = s.bodyStart
	}
	s.blocks = append(s.blocks, block.Block{
		Kind:     block.CodeFence,
		Span:     source.Span{File: s.file.ID, Start: s.fenceStart, End: closeSpan.End},
		Tag:      s.fenceTag,
		TagSpan:  s.fenceTagSpan,
		Body:     string(s.file.Content[s.bodyStart:bodyEnd]),
		BodySpan: source.Span{File: s.file.ID, Start: s.bodyStart, End: bodyEnd},
	})
	s.fenceOpen = false
}

func (s *scanner) appendText(span source.Span) {
	if !s.textOpen {
		s.textOpen = true
		s.textSpan = span
		return
	}
	s.textSpan = s.textSpan.Cover(span)
}

func (s *scanner) flushText() {
	if !s.textOpen {
		return
	}
	s.blocks = append(s.blocks, block.Block{
		Kind: block.Text,
		Span: s.textSpan,
		Text: string(s.textSpan.Text(s.file.Content)),
	})
	s.textOpen = false
}
