package taskfile

import (
	"fmt"

	"masklint/internal/source"
)

// ErrorCode classifies structural build failures.
type ErrorCode uint8

const (
	// OrphanCodeFence means a code fence appeared before any heading,
	// leaving it no task to attach to.
	OrphanCodeFence ErrorCode = iota + 1
)

func (c ErrorCode) String() string {
	switch c {
	case OrphanCodeFence:
		return "code fence before any task heading"
	}
	return "unknown build error"
}

// BuildError is a structural failure that prevents tree construction.
// No tree is produced alongside it.
type BuildError struct {
	Code ErrorCode
	Span source.Span
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build: %s", e.Code)
}
