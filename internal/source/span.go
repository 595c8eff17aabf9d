package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside a single file.
// Line and column positions are derived on demand via FileSet.Resolve.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens s to include other. Spans from different files are
// incomparable; s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Text returns the bytes the span covers, clamped to the content bounds.
func (s Span) Text(content []byte) []byte {
	start, end := int(s.Start), int(s.End)
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	if start >= end {
		return nil
	}
	return content[start:end]
}
