package scanner

import (
	"fmt"

	"masklint/internal/source"
)

// ErrorCode classifies structural scan failures.
type ErrorCode uint8

const (
	// UnterminatedCodeFence means EOF was reached inside an open fence.
	UnterminatedCodeFence ErrorCode = iota + 1
)

func (c ErrorCode) String() string {
	switch c {
	case UnterminatedCodeFence:
		return "unterminated code fence"
	}
	return "unknown scan error"
}

// ScanError is a structural failure that prevents block extraction.
// The span locates the construct that could not be completed; no blocks
// are produced alongside it.
type ScanError struct {
	Code ErrorCode
	Span source.Span
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan: %s", e.Code)
}
