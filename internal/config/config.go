package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"masklint/internal/diag"
	"masklint/internal/rules"
)

// Names lists the recognized config file names, in lookup order.
var Names = []string{".masklint.toml", ".masklint.yml", ".masklint.yaml"}

// File is the on-disk configuration shape, shared by the TOML and YAML
// variants.
type File struct {
	// Interpreters replaces the default allow-list when present.
	Interpreters []string `toml:"interpreters" yaml:"interpreters"`
	// Rules is keyed by rule name, e.g. "duplicate-task-name".
	Rules map[string]RuleConfig `toml:"rules" yaml:"rules"`
}

// RuleConfig tunes one rule. A nil Enabled means "leave enabled"; an
// empty Severity keeps the rule's default.
type RuleConfig struct {
	Enabled  *bool  `toml:"enabled" yaml:"enabled"`
	Severity string `toml:"severity" yaml:"severity"`
}

// Default returns the settings used when no config file exists.
func Default() rules.Settings {
	return rules.DefaultSettings()
}

// Find walks up from startDir looking for a config file. The first
// name in Names wins within a directory; nearer directories win over
// farther ones.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range Names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and applies the config file at path on top of the
// defaults. Unknown rule names and bad severity strings are errors,
// never silently skipped.
func Load(path string) (rules.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Settings{}, fmt.Errorf("failed to read config: %w", err)
	}

	var file File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return rules.Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return rules.Settings{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return rules.Settings{}, fmt.Errorf("%s: unsupported config extension %q", path, filepath.Ext(path))
	}

	return Apply(path, &file)
}

// Apply converts a decoded File into engine settings.
func Apply(path string, file *File) (rules.Settings, error) {
	settings := rules.DefaultSettings()
	if len(file.Interpreters) > 0 {
		settings.Interpreters = append([]string(nil), file.Interpreters...)
	}

	for name, rc := range file.Rules {
		code, ok := diag.ParseCode(name)
		if !ok {
			return rules.Settings{}, fmt.Errorf("%s: unknown rule %q", path, name)
		}
		if rc.Enabled != nil && !*rc.Enabled {
			settings.Disabled[code] = true
		}
		if rc.Severity != "" {
			sev, err := diag.ParseSeverity(rc.Severity)
			if err != nil {
				return rules.Settings{}, fmt.Errorf("%s: rule %q: %w", path, name, err)
			}
			settings.Severity[code] = sev
		}
	}
	return settings, nil
}

// Resolve finds and loads the config for startDir. Without a config
// file it returns the defaults and an empty path.
func Resolve(startDir string) (rules.Settings, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return rules.Settings{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	settings, err := Load(path)
	if err != nil {
		return rules.Settings{}, path, err
	}
	return settings, path, nil
}
