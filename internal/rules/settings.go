package rules

import "masklint/internal/diag"

// Settings is the effective rule configuration for one run, already
// merged from defaults and any config file.
type Settings struct {
	// Disabled rules produce no findings at all. This also silences
	// findings reported during extraction and tree construction.
	Disabled map[diag.Code]bool

	// Severity overrides the default severity per rule code.
	Severity map[diag.Code]diag.Severity

	// Interpreters is the allow-list of code fence tags that count as
	// known interpreters. Matching is exact.
	Interpreters []string
}

// DefaultInterpreters is the built-in allow-list.
var DefaultInterpreters = []string{"sh", "bash", "py", "python", "rb", "ruby", "nu"}

// DefaultSettings returns the configuration used when no config file
// is present.
func DefaultSettings() Settings {
	return Settings{
		Disabled:     map[diag.Code]bool{},
		Severity:     map[diag.Code]diag.Severity{},
		Interpreters: append([]string(nil), DefaultInterpreters...),
	}
}

// Enabled reports whether findings for code should be kept.
func (s *Settings) Enabled(code diag.Code) bool {
	return !s.Disabled[code]
}

// SeverityFor returns the configured severity for code, falling back
// to def when there is no override.
func (s *Settings) SeverityFor(code diag.Code, def diag.Severity) diag.Severity {
	if sev, ok := s.Severity[code]; ok {
		return sev
	}
	return def
}

// InterpreterSet builds the lookup set rules use for tag checks.
func (s *Settings) InterpreterSet() map[string]bool {
	set := make(map[string]bool, len(s.Interpreters))
	for _, name := range s.Interpreters {
		set[name] = true
	}
	return set
}
