package diagfmt

import (
	"io"

	"masklint/internal/diag"
	"masklint/internal/source"
)

// Short writes the one-line-per-finding format shared with the golden
// tests: "severity code path:line:col message".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	_, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes))
	return err
}
