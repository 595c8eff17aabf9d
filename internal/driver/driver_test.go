package driver_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masklint/internal/diag"
	"masklint/internal/diagfmt"
	"masklint/internal/driver"
	"masklint/internal/rules"
	"masklint/internal/source"
)

func lintVirtual(t *testing.T, src string, opts driver.Options) *driver.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("maskfile.md", []byte(src))
	res, err := driver.LintFile(context.Background(), fs, id, opts)
	require.NoError(t, err)
	return res
}

func codes(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestLintTestdata(t *testing.T) {
	res, err := driver.Lint(context.Background(), filepath.Join("testdata", "maskfile.md"), driver.Options{})
	require.NoError(t, err)
	require.NotNil(t, res.Tree)

	assert.Equal(t, 4, res.Tree.Count())
	assert.Equal(t, []string{"missing-description", "empty-task"}, codes(res.Bag))
	assert.False(t, res.Bag.HasErrors())
}

func TestLintMissingFile(t *testing.T) {
	_, err := driver.Lint(context.Background(), filepath.Join("testdata", "no-such-file.md"), driver.Options{})
	require.Error(t, err)
}

func TestLintUnterminatedFenceIsFatal(t *testing.T) {
	res := lintVirtual(t, "# build\n\n```sh\necho hi\n", driver.Options{})

	require.Nil(t, res.Tree, "no tree on structural failure")
	require.Equal(t, 1, res.Bag.Len())
	d := res.Bag.Items()[0]
	assert.Equal(t, diag.ScanUnterminatedCodeFence, d.Code)
	assert.Equal(t, diag.SevError, d.Severity)

	// The span points at the opening fence line.
	start, _ := res.FileSet.Resolve(d.Primary)
	assert.Equal(t, uint32(3), start.Line)
}

func TestLintOrphanFenceIsFatal(t *testing.T) {
	res := lintVirtual(t, "```sh\necho hi\n```\n\n# build\n", driver.Options{})

	require.Nil(t, res.Tree)
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, diag.TreeOrphanCodeFence, res.Bag.Items()[0].Code)
}

func TestLintStageScanStopsEarly(t *testing.T) {
	res := lintVirtual(t, "# build\n\n```sh\nls\n```\n", driver.Options{Stage: driver.LintStageScan})

	assert.Nil(t, res.Tree)
	assert.Nil(t, res.Bag)
	assert.Len(t, res.Blocks, 2)
}

func TestLintEndToEndExample(t *testing.T) {
	src := "# build\n- target=release: build target\n```bash\necho building ${target}\n```\n# build\necho duplicate\n"
	res := lintVirtual(t, src, driver.Options{})
	require.NotNil(t, res.Tree)

	got := codes(res.Bag)
	assert.Contains(t, got, "duplicate-task-name")
	assert.NotContains(t, got, "undeclared-parameter-reference")

	// The duplicate points at the second heading.
	for _, d := range res.Bag.Items() {
		if d.Code == diag.DuplicateTaskName {
			start, _ := res.FileSet.Resolve(d.Primary)
			assert.Equal(t, uint32(6), start.Line)
		}
	}
}

func TestLintDeterministicAcrossJobs(t *testing.T) {
	src := "# a\n\n```sh\necho ${x}\n```\n\n# b\n\n```zsh\nls\n```\n\n# c\n"

	baseline := lintVirtual(t, src, driver.Options{Jobs: 1})
	for _, jobs := range []int{2, 8} {
		res := lintVirtual(t, src, driver.Options{Jobs: jobs})
		assert.Equal(t, baseline.Bag.Items(), res.Bag.Items(), "jobs=%d", jobs)
	}
}

func TestLintTimings(t *testing.T) {
	res := lintVirtual(t, "# build\n\n```sh\nls\n```\n", driver.Options{EnableTimings: true})

	require.NotNil(t, res.Timing)
	names := make([]string, 0, len(res.Timing.Phases))
	for _, p := range res.Timing.Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"scan", "extract", "build", "rules"}, names)
}

func TestLintDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# alpha\n\nA task.\n\n```sh\nls\n```\n")
	writeFile(t, filepath.Join(dir, "b.md"), "# beta\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a maskfile\n")

	fs, results, err := driver.LintDir(context.Background(), dir, driver.Options{})
	require.NoError(t, err)
	require.NotNil(t, fs)
	require.Len(t, results, 2)

	// Sorted discovery order.
	assert.Equal(t, filepath.Join(dir, "a.md"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.md"), results[1].Path)

	assert.Equal(t, 0, results[0].Bag.Len())
	assert.Equal(t, []string{"empty-task"}, codes(results[1].Bag))
}

func TestLintDirCollectsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.md"), "# ok\n\n```sh\nls\n```\n")
	broken := filepath.Join(dir, "broken.md")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.md"), broken))

	_, results, err := driver.LintDir(context.Background(), dir, driver.Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		if r.Path == broken {
			require.Equal(t, 1, r.Bag.Len())
			assert.Equal(t, diag.IOLoadFileError, r.Bag.Items()[0].Code)
		}
	}
}

func TestLintDirLoadFailureRenders(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.md")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.md"), broken))

	fs, results, err := driver.LintDir(context.Background(), dir, driver.Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// The failure diagnostic must point at a real FileSet entry so
	// every renderer can resolve its span.
	r := results[0]
	file := fs.Get(r.FileID)
	assert.Contains(t, file.Path, "broken.md")

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, r.Bag, fs, diagfmt.PrettyOpts{Context: 2})
	assert.Contains(t, buf.String(), "io-load-file")
	assert.Contains(t, buf.String(), "broken.md")

	buf.Reset()
	require.NoError(t, diagfmt.JSON(&buf, r.Bag, fs, diagfmt.JSONOpts{}))
	assert.Contains(t, buf.String(), "io-load-file")
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenDiskCache("masklint-test")
	require.NoError(t, err)

	src := "# build\n\n```sh\nls\n```\n"
	opts := driver.Options{Cache: cache}

	first := lintVirtual(t, src, opts)
	require.False(t, first.CacheHit)

	second := lintVirtual(t, src, opts)
	require.True(t, second.CacheHit)
	assert.Nil(t, second.Tree, "cache hits carry diagnostics only")
	assert.Equal(t, first.Bag.Items(), second.Bag.Items())
}

func TestDiskCacheKeyedBySettings(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenDiskCache("masklint-test")
	require.NoError(t, err)

	src := "# build\n\n```sh\nls\n```\n"
	first := lintVirtual(t, src, driver.Options{Cache: cache})
	require.False(t, first.CacheHit)

	strict := rules.DefaultSettings()
	strict.Severity[diag.MissingDescription] = diag.SevError
	res := lintVirtual(t, src, driver.Options{Cache: cache, Settings: &strict})
	assert.False(t, res.CacheHit, "different settings must miss")
	assert.True(t, res.Bag.HasErrors())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
