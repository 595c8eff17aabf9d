package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		other    Span
		expected Span
	}{
		{
			name:     "disjoint spans widen to both ends",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "contained span changes nothing",
			span:     Span{File: 1, Start: 10, End: 40},
			other:    Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "earlier start extends left",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 5, End: 12},
			expected: Span{File: 1, Start: 5, End: 20},
		},
		{
			name:     "different file is ignored",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "empty span absorbs range",
			span:     Span{File: 1, Start: 10, End: 10},
			other:    Span{File: 1, Start: 4, End: 8},
			expected: Span{File: 1, Start: 4, End: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.span.Cover(tt.other)
			if got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanEmptyAndLen(t *testing.T) {
	s := Span{File: 0, Start: 5, End: 5}
	if !s.Empty() {
		t.Error("expected zero-length span to be empty")
	}
	if s.Len() != 0 {
		t.Errorf("expected Len 0, got %d", s.Len())
	}

	s = Span{File: 0, Start: 5, End: 12}
	if s.Empty() {
		t.Error("expected non-empty span")
	}
	if s.Len() != 7 {
		t.Errorf("expected Len 7, got %d", s.Len())
	}
}

func TestSpanText(t *testing.T) {
	content := []byte("# build\nls -la\n")

	tests := []struct {
		name     string
		span     Span
		expected string
	}{
		{"heading word", Span{Start: 2, End: 7}, "build"},
		{"whole content", Span{Start: 0, End: 15}, "# build\nls -la\n"},
		{"end past EOF clamps", Span{Start: 8, End: 999}, "ls -la\n"},
		{"start past EOF yields nil", Span{Start: 999, End: 1000}, ""},
		{"empty span yields nil", Span{Start: 3, End: 3}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(tt.span.Text(content))
			if got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}
