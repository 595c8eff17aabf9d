package scanner

import (
	"fmt"

	"fortio.org/safecast"

	"masklint/internal/source"
)

// Cursor walks file content one physical line at a time.
type Cursor struct {
	File *source.File
	Off  uint32
}

// NewCursor creates a cursor positioned at the start of the file.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f, Off: 0}
}

func (c *Cursor) limit() uint32 {
	n, err := safecast.Conv[uint32](len(c.File.Content))
	if err != nil {
		panic(fmt.Errorf("file content length overflow: %w", err))
	}
	return n
}

// EOF reports whether every line has been consumed.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// NextLine consumes the next line and returns its text without the
// terminating newline, plus the span of that text. The cursor advances
// past the newline, so spans of consecutive lines never overlap.
func (c *Cursor) NextLine() (string, source.Span) {
	limit := c.limit()
	start := c.Off
	end := start
	for end < limit && c.File.Content[end] != '\n' {
		end++
	}
	text := string(c.File.Content[start:end])
	if end < limit {
		c.Off = end + 1
	} else {
		c.Off = end
	}
	return text, source.Span{File: c.File.ID, Start: start, End: end}
}
