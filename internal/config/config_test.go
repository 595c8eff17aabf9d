package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masklint/internal/config"
	"masklint/internal/diag"
	"masklint/internal/rules"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".masklint.toml", `
interpreters = ["zsh", "sh"]

[rules.duplicate-task-name]
enabled = false

[rules.empty-task]
severity = "error"
`)

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"zsh", "sh"}, settings.Interpreters)
	assert.True(t, settings.Disabled[diag.DuplicateTaskName])
	assert.Equal(t, diag.SevError, settings.Severity[diag.EmptyTask])
	assert.False(t, settings.Disabled[diag.EmptyTask])
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".masklint.yml", `
interpreters: [zsh, sh]
rules:
  duplicate-task-name:
    enabled: false
  empty-task:
    severity: error
`)

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"zsh", "sh"}, settings.Interpreters)
	assert.True(t, settings.Disabled[diag.DuplicateTaskName])
	assert.Equal(t, diag.SevError, settings.Severity[diag.EmptyTask])
}

func TestLoadKeepsDefaultsWhenUnset(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".masklint.toml", `
[rules.missing-description]
severity = "warning"
`)

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, rules.DefaultInterpreters, settings.Interpreters)
	assert.Equal(t, diag.SevWarning, settings.Severity[diag.MissingDescription])
	assert.Empty(t, settings.Disabled)
}

func TestLoadUnknownRule(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".masklint.toml", `
[rules.no-such-rule]
enabled = false
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rule "no-such-rule"`)
}

func TestLoadBadSeverity(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".masklint.toml", `
[rules.empty-task]
severity = "loud"
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `empty-task`)
}

func TestLoadAcceptsWarnAlias(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".masklint.toml", `
[rules.duplicate-task-name]
severity = "warn"
`)

	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, diag.SevWarning, settings.Severity[diag.DuplicateTaskName])
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := writeFile(t, root, ".masklint.toml", "")

	got, ok, err := config.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFindPrefersTOMLInSameDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".masklint.yml", "")
	want := writeFile(t, dir, ".masklint.toml", "")

	got, ok, err := config.Find(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFindPrefersNearerDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, root, ".masklint.toml", "")
	want := writeFile(t, nested, ".masklint.yml", "")

	got, ok, err := config.Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestResolveLoadsNearestConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "proj")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, root, ".masklint.toml", `
[rules.empty-task]
enabled = false
`)

	settings, path, err := config.Resolve(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".masklint.toml"), path)
	assert.True(t, settings.Disabled[diag.EmptyTask])
}
