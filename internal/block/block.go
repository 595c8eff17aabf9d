package block

import (
	"masklint/internal/source"
)

// Kind represents the category of a document block.
type Kind uint8

const (
	// Invalid indicates an erroneous block.
	Invalid Kind = iota
	// Heading represents a markdown heading line.
	Heading
	// CodeFence represents a fenced code region, including its fence lines.
	CodeFence
	// Text represents a run of contiguous non-blank prose lines.
	Text
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case CodeFence:
		return "code_fence"
	case Text:
		return "text"
	}
	return "invalid"
}

// Block is a single structural element of a maskfile document.
// Exactly one of the kind-specific field groups is meaningful:
// Depth and Text for headings, Tag and Body for code fences,
// Text alone for prose.
type Block struct {
	Kind Kind
	Span source.Span

	// Depth is the heading level, 1 through 6. Zero for other kinds.
	Depth uint8
	// Text is the trimmed heading title or the raw prose content.
	Text string
	// Tag is the fence info string's first word, verbatim. Empty means
	// the fence declared no interpreter.
	Tag string
	// TagSpan covers Tag in the source. Empty when Tag is empty.
	TagSpan source.Span
	// Body is the raw fence content between the fence lines, with the
	// trailing newline preserved as written.
	Body string
	// BodySpan covers Body in the source, so byte offsets inside Body
	// translate to file offsets by adding BodySpan.Start.
	BodySpan source.Span
}

// IsHeading reports whether the block is a heading.
func (b Block) IsHeading() bool { return b.Kind == Heading }

// IsFence reports whether the block is a code fence.
func (b Block) IsFence() bool { return b.Kind == CodeFence }

// IsText reports whether the block is prose.
func (b Block) IsText() bool { return b.Kind == Text }
