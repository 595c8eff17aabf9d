package source

import (
	"path/filepath"
	"slices"
	"unicode/utf8"
)

// normalizeCRLF rewrites every \r\n pair to \n, leaving lone \r intact.
// The returned flag reports whether any replacement happened.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// LineCol resolves a byte offset to a 1-based line and a 1-based column
// counted in Unicode scalar values. Offsets past EOF clamp to the last
// position.
func (f *File) LineCol(off uint32) LineCol {
	if off > uint32(len(f.Content)) {
		off = uint32(len(f.Content))
	}

	// Binary search: largest i with LineIdx[i] < off gives the line.
	lo, hi := 0, len(f.LineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if f.LineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi // 0-based index of the newline preceding off

	var startOff uint32
	if line >= 0 {
		startOff = f.LineIdx[line] + 1
	}

	col := utf8.RuneCount(f.Content[startOff:off]) + 1
	return LineCol{Line: uint32(line + 2), Col: uint32(col)}
}

func normalizePath(p string) string {
	// One shape for paths in output and dedup keys across platforms.
	return filepath.ToSlash(filepath.Clean(p))
}
