package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"masklint/internal/diag"
	"masklint/internal/rules"
	"masklint/internal/source"
)

// Bump when the cached payload format changes; stale entries then miss
// instead of decoding garbage.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores finished diagnostic lists keyed by content and
// configuration, so re-linting an untouched maskfile skips the
// pipeline entirely. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// cachedDiag is the serialized diagnostic. Spans are stored as bare
// offsets: the cache key pins the exact content, so offsets stay valid
// and only the FileID has to be rebound on a hit.
type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
	Fixes    []cachedFix
}

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedFix struct {
	Title string
	Edits []cachedEdit
}

type cachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
}

type diskPayload struct {
	Schema uint16
	Diags  []cachedDiag
}

// OpenDiskCache initializes a disk cache at the standard location,
// XDG_CACHE_HOME/<app> with a ~/.cache fallback.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey mixes the content hash with the effective configuration:
// the same file under a different rule setup is a different entry.
func cacheKey(file *source.File, settings *rules.Settings) [32]byte {
	h := sha256.New()
	h.Write(file.Hash[:])
	h.Write(settingsDigest(settings))
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// settingsDigest renders the settings in a canonical order so map
// iteration never changes the key.
func settingsDigest(s *rules.Settings) []byte {
	h := sha256.New()

	disabled := make([]string, 0, len(s.Disabled))
	for code, off := range s.Disabled {
		if off {
			disabled = append(disabled, code.ID())
		}
	}
	sort.Strings(disabled)
	for _, id := range disabled {
		fmt.Fprintf(h, "disable:%s\n", id)
	}

	overrides := make([]string, 0, len(s.Severity))
	for code, sev := range s.Severity {
		overrides = append(overrides, fmt.Sprintf("severity:%s=%s", code.ID(), sev))
	}
	sort.Strings(overrides)
	for _, line := range overrides {
		fmt.Fprintln(h, line)
	}

	interps := append([]string(nil), s.Interpreters...)
	sort.Strings(interps)
	for _, name := range interps {
		fmt.Fprintf(h, "interp:%s\n", name)
	}
	return h.Sum(nil)
}

func (c *DiskCache) pathFor(key [32]byte) string {
	// A "lint" subdirectory keeps the cache easy to inspect and clear.
	return filepath.Join(c.dir, "lint", hex.EncodeToString(key[:])+".mp")
}

// Lookup returns the cached bag for the file under the given settings.
// Any read or decode problem is a miss, never an error: the cache is
// an accelerator, not a source of truth.
func (c *DiskCache) Lookup(file *source.File, settings *rules.Settings) (*diag.Bag, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(cacheKey(file, settings)))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}

	bag := diag.NewBag(max(len(payload.Diags), 1))
	for _, cd := range payload.Diags {
		bag.Add(rebindDiag(cd, file.ID))
	}
	return bag, true
}

// Store writes the bag for the file under the given settings,
// replacing the entry atomically.
func (c *DiskCache) Store(file *source.File, settings *rules.Settings, bag *diag.Bag) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := diskPayload{Schema: diskCacheSchemaVersion}
	for _, d := range bag.Items() {
		payload.Diags = append(payload.Diags, flattenDiag(d))
	}

	p := c.pathFor(cacheKey(file, settings))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(c.dir, "lint")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func flattenDiag(d diag.Diagnostic) cachedDiag {
	cd := cachedDiag{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Start:    d.Primary.Start,
		End:      d.Primary.End,
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
	}
	for _, fix := range d.Fixes {
		cf := cachedFix{Title: fix.Title}
		for _, e := range fix.Edits {
			cf.Edits = append(cf.Edits, cachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
		}
		cd.Fixes = append(cd.Fixes, cf)
	}
	return cd
}

func rebindDiag(cd cachedDiag, id source.FileID) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.Severity(cd.Severity),
		Code:     diag.Code(cd.Code),
		Message:  cd.Message,
		Primary:  source.Span{File: id, Start: cd.Start, End: cd.End},
	}
	for _, n := range cd.Notes {
		d.Notes = append(d.Notes, diag.Note{
			Span: source.Span{File: id, Start: n.Start, End: n.End},
			Msg:  n.Msg,
		})
	}
	for _, cf := range cd.Fixes {
		fix := diag.Fix{Title: cf.Title}
		for _, e := range cf.Edits {
			fix.Edits = append(fix.Edits, diag.FixEdit{
				Span:    source.Span{File: id, Start: e.Start, End: e.End},
				NewText: e.NewText,
			})
		}
		d.Fixes = append(d.Fixes, fix)
	}
	return d
}
