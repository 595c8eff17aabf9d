package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"masklint/internal/config"
	"masklint/internal/rules"
)

// defaultMaskfile is the path linted when no argument is given,
// matching the companion task runner's convention.
const defaultMaskfile = "maskfile.md"

// targetPath returns the maskfile (or directory) a command operates on.
func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultMaskfile
}

// resolveSettings loads the effective rule configuration: the --config
// flag wins, otherwise the nearest config file walking up from the
// target's directory, otherwise defaults.
func resolveSettings(cmd *cobra.Command, target string) (rules.Settings, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return rules.Settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		return config.Load(configPath)
	}

	startDir := target
	if st, err := os.Stat(target); err != nil || !st.IsDir() {
		startDir = filepath.Dir(target)
	}
	settings, _, err := config.Resolve(startDir)
	return settings, err
}

// useColor decides terminal coloring from the persistent --color flag.
func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// writeJSON renders v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// silentExitError makes the command fail without cobra printing
// anything; the diagnostics are already on screen.
func silentExitError(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
