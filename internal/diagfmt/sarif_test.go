package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"masklint/internal/diag"
	"masklint/internal/source"
)

func TestSarifStructure(t *testing.T) {
	bag, fs := jsonFixture()

	var buf bytes.Buffer
	meta := SarifRunMeta{
		ToolName:       "masklint",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"masklint", "run", "maskfile.md"},
	}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif returned error: %v", err)
	}

	var log struct {
		Schema  string `json:"$schema"`
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				Arguments           []string `json:"arguments"`
				ExecutionSuccessful bool     `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   uint32 `json:"startLine"`
							StartColumn uint32 `json:"startColumn"`
							EndLine     uint32 `json:"endLine"`
							EndColumn   uint32 `json:"endColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if log.Version != "2.1.0" {
		t.Errorf("version = %q, want 2.1.0", log.Version)
	}
	if len(log.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(log.Runs))
	}

	run := log.Runs[0]
	if run.Tool.Driver.Name != "masklint" || run.Tool.Driver.Version != "0.1.0" {
		t.Errorf("driver = %s/%s", run.Tool.Driver.Name, run.Tool.Driver.Version)
	}
	if len(run.Invocations) != 1 || !run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocations = %+v", run.Invocations)
	}

	if len(run.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "empty-task" || first.Level != "warning" {
		t.Errorf("first result = %s/%s", first.RuleID, first.Level)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 1 || region.StartColumn != 1 || region.EndColumn != 8 {
		t.Errorf("region = %+v", region)
	}
	if run.Results[1].Level != "error" {
		t.Errorf("second level = %s, want error", run.Results[1].Level)
	}

	// Both referenced rules are declared, once each.
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("driver rules = %d, want 2", len(run.Tool.Driver.Rules))
	}
	if run.Tool.Driver.Rules[0].ID != "empty-task" || run.Tool.Driver.Rules[1].ID != "duplicate-task-name" {
		t.Errorf("rule order = %s, %s", run.Tool.Driver.Rules[0].ID, run.Tool.Driver.Rules[1].ID)
	}
}

func TestSarifInfoMapsToNote(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("maskfile.md", []byte("# build\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevInfo, diag.MissingDescription,
		source.Span{File: fileID, Start: 0, End: 7}, `task "build" has no description`))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "masklint"}); err != nil {
		t.Fatalf("Sarif returned error: %v", err)
	}

	var log struct {
		Runs []struct {
			Results []struct {
				Level string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if log.Runs[0].Results[0].Level != "note" {
		t.Errorf("level = %q, want note", log.Runs[0].Results[0].Level)
	}
}
