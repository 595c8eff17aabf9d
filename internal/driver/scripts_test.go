package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masklint/internal/driver"
	"masklint/internal/extlint"
)

func TestDumpScripts(t *testing.T) {
	src := "# services\n\n## start\n\nBoot everything.\n\n```sh\necho up\n```\n\n# lint\n\n```py\nprint('ok')\n```\n"
	res := lintVirtual(t, src, driver.Options{})
	require.NotNil(t, res.Tree)

	outDir := t.TempDir()
	written, err := driver.DumpScripts(res.Tree, outDir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outDir, "services_start.sh"),
		filepath.Join(outDir, "lint.py"),
	}, written)

	content, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env sh\necho up\n", string(content))

	content, err = os.ReadFile(written[1])
	require.NoError(t, err)
	assert.Equal(t, "print('ok')\n", string(content))
}

func TestDumpScriptsRejectsCollisions(t *testing.T) {
	// Distinct heading texts can still collapse to one file name once
	// spaces become underscores.
	src := "# a b\n\n```sh\nls\n```\n\n# a_b\n\n```sh\nls\n```\n"
	res := lintVirtual(t, src, driver.Options{})
	require.NotNil(t, res.Tree)

	_, err := driver.DumpScripts(res.Tree, t.TempDir())
	require.Error(t, err)
}

func TestCheckScriptsCatchall(t *testing.T) {
	src := "# exotic\n\nNeeds a linter nobody ships.\n\n```zig\nconst x = 1;\n```\n"
	res := lintVirtual(t, src, driver.Options{})
	require.NotNil(t, res.Tree)

	reports, err := driver.CheckScripts(context.Background(), res.Tree)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "exotic", r.Task)
	assert.Equal(t, "catchall", r.Linter)
	assert.Equal(t, extlint.KindWarning, r.Kind)
	assert.Equal(t, "no linter found for target", r.Output)
	assert.False(t, r.Failed(), "warnings alone do not fail the run")
}

func TestListMaskfiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "b.md"), "# b\n")
	writeFile(t, filepath.Join(dir, "sub", "a.md"), "# a\n")
	writeFile(t, filepath.Join(dir, "README.txt"), "nope\n")

	files, err := driver.ListMaskfiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "sub", "a.md"),
	}, files)
}
