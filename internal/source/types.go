package source

type (
	// FileID uniquely identifies a file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks content that carried a UTF-8 BOM before normalization.
	FileHadBOM
	// FileNormalizedCRLF marks content where CRLF pairs were rewritten to LF.
	FileNormalizedCRLF
)

// File holds the normalized content of a single maskfile plus the
// precomputed line index used for span resolution.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position. Line is 1-based; Col is 1-based
// and counts Unicode scalar values, not bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
