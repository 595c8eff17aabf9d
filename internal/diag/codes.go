package diag

// Code is a compact identifier for a diagnostic category. Its ID() form
// is the stable kebab-case name used in output, config files, and docs.
type Code uint16

const (
	UnknownCode Code = 0

	// Structural failures. These abort the pipeline for the file and
	// surface as a single fatal diagnostic.
	ScanUnterminatedCodeFence Code = 1001
	TreeOrphanCodeFence       Code = 1002

	// Findings raised while building the task tree and extracting
	// metadata. They flow through the rule engine like rule findings.
	DuplicateTaskName  Code = 2001
	MultipleBodies     Code = 2002
	DuplicateParameter Code = 2003
	BadParameterName   Code = 2004
	NamelessTask       Code = 2005

	// Rule findings.
	EmptyTask                    Code = 3001
	MissingDescription           Code = 3002
	UnknownInterpreter           Code = 3003
	MissingInterpreter           Code = 3004
	UndeclaredParameterReference Code = 3005
	UnusedParameter              Code = 3006

	// I/O failures wrapped as diagnostics in directory runs.
	IOLoadFileError Code = 4001

	// Observability.
	ObsTimings Code = 6001
)

var codeIDs = map[Code]string{
	UnknownCode:                  "unknown",
	ScanUnterminatedCodeFence:    "unterminated-code-fence",
	TreeOrphanCodeFence:          "orphan-code-fence",
	DuplicateTaskName:            "duplicate-task-name",
	MultipleBodies:               "multiple-bodies",
	DuplicateParameter:           "duplicate-parameter",
	BadParameterName:             "bad-parameter-name",
	NamelessTask:                 "nameless-task",
	EmptyTask:                    "empty-task",
	MissingDescription:           "missing-description",
	UnknownInterpreter:           "unknown-interpreter",
	MissingInterpreter:           "missing-interpreter",
	UndeclaredParameterReference: "undeclared-parameter-reference",
	UnusedParameter:              "unused-parameter",
	IOLoadFileError:              "io-load-file",
	ObsTimings:                   "timings",
}

var codeTitles = map[Code]string{
	UnknownCode:                  "Unknown finding",
	ScanUnterminatedCodeFence:    "Code fence is never closed",
	TreeOrphanCodeFence:          "Code fence appears before any task heading",
	DuplicateTaskName:            "Two sibling tasks share a name",
	MultipleBodies:               "Task declares more than one script body",
	DuplicateParameter:           "Parameter is declared twice for the same task",
	BadParameterName:             "Parameter declaration is malformed",
	NamelessTask:                 "Heading has no task name",
	EmptyTask:                    "Task has neither a script body nor subtasks",
	MissingDescription:           "Task with a script body has no description",
	UnknownInterpreter:           "Fence interpreter tag is not in the allow-list",
	MissingInterpreter:           "Script body declares no interpreter",
	UndeclaredParameterReference: "Script references a parameter that is not declared",
	UnusedParameter:              "Declared parameter is never referenced",
	IOLoadFileError:              "File could not be read",
	ObsTimings:                   "Pipeline timings",
}

var codesByID = func() map[string]Code {
	m := make(map[string]Code, len(codeIDs))
	for code, id := range codeIDs {
		m[id] = code
	}
	return m
}()

// ID returns the stable kebab-case name of the code.
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return "unknown"
}

// Title returns a one-line description of the code.
func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}

// ParseCode resolves a kebab-case name from config or CLI input.
func ParseCode(id string) (Code, bool) {
	c, ok := codesByID[id]
	return c, ok
}

// Codes returns every known code except UnknownCode, in numeric order.
func Codes() []Code {
	out := make([]Code, 0, len(codeIDs)-1)
	for c := range codeIDs {
		if c == UnknownCode {
			continue
		}
		out = append(out, c)
	}
	// Numeric order keeps listings stable.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
