package meta_test

import (
	"testing"

	"masklint/internal/diag"
	"masklint/internal/meta"
	"masklint/internal/scanner"
	"masklint/internal/source"
)

func extract(t *testing.T, src string) ([]meta.Entry, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("maskfile.md", []byte(src))
	file := fs.Get(id)

	blocks, err := scanner.Scan(file)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	bag := diag.NewBag(64)
	entries := meta.Extract(file, blocks, diag.BagReporter{Bag: bag})
	return entries, bag, fs
}

func TestExtractDescription(t *testing.T) {
	entries, bag, _ := extract(t, "## build\n\nCompiles the project.\nRuns fast.\n")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Description != "Compiles the project.\nRuns fast." {
		t.Errorf("description = %q", entries[0].Description)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected findings: %v", bag.Items())
	}
}

func TestExtractParams(t *testing.T) {
	src := "## serve\n\nServes the site.\n- port=8080: the port to bind\n* host: the host name\n- verbose\n"
	entries, bag, _ := extract(t, src)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Description != "Serves the site." {
		t.Errorf("description = %q", e.Description)
	}
	if len(e.Params) != 3 {
		t.Fatalf("expected 3 params, got %+v", e.Params)
	}

	p := e.Params[0]
	if p.Name != "port" || p.Default != "8080" || p.Description != "the port to bind" || p.Required {
		t.Errorf("port param = %+v", p)
	}
	p = e.Params[1]
	if p.Name != "host" || !p.Required || p.Description != "the host name" {
		t.Errorf("host param = %+v", p)
	}
	p = e.Params[2]
	if p.Name != "verbose" || p.Required || p.Default != "" || p.Description != "" {
		t.Errorf("verbose param = %+v", p)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected findings: %v", bag.Items())
	}
}

func TestExtractParamSpans(t *testing.T) {
	src := "## serve\n\n- port: p\n"
	entries, _, fs := extract(t, src)
	if len(entries) != 1 || len(entries[0].Params) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
	p := entries[0].Params[0]

	start, _ := fs.Resolve(p.Span)
	if start.Line != 3 || start.Col != 1 {
		t.Errorf("decl span starts at %d:%d, want 3:1", start.Line, start.Col)
	}
	nameStart, nameEnd := fs.Resolve(p.NameSpan)
	if nameStart.Col != 3 || nameEnd.Col != 7 {
		t.Errorf("name span cols = %d..%d, want 3..7", nameStart.Col, nameEnd.Col)
	}
}

func TestExtractMalformedDeclarationDegrades(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bad name start", "- 1port: numeric start"},
		{"trailing garbage", "- does things"},
		{"bad rune in name", "- po rt: split"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, bag, _ := extract(t, "## serve\n\n"+tt.line+"\n")
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			if len(entries[0].Params) != 0 {
				t.Errorf("params = %+v, want none", entries[0].Params)
			}
			if bag.Len() != 1 {
				t.Fatalf("expected 1 finding, got %d", bag.Len())
			}
			d := bag.Items()[0]
			if d.Code != diag.BadParameterName {
				t.Errorf("code = %v", d.Code)
			}
			if d.Severity != diag.SevWarning {
				t.Errorf("severity = %v, want warning", d.Severity)
			}
		})
	}
}

func TestExtractOnlyAdjacentProse(t *testing.T) {
	// Prose separated from the heading by a fence is not metadata.
	src := "## build\n\n```sh\nls\n```\n\nTrailing prose.\n- fake: param\n"
	entries, bag, _ := extract(t, src)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Description != "" || len(entries[0].Params) != 0 {
		t.Errorf("entry picked up non-adjacent prose: %+v", entries[0])
	}
	if bag.Len() != 0 {
		t.Errorf("non-adjacent prose must not be parsed: %v", bag.Items())
	}
}

func TestExtractHeadingWithoutProse(t *testing.T) {
	entries, _, _ := extract(t, "# root\n\n## a\n\n## b\n\nOnly b has prose.\n")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Description != "" || entries[1].Description != "" {
		t.Errorf("entries without prose should be empty: %+v", entries[:2])
	}
	if entries[2].Description != "Only b has prose." {
		t.Errorf("third entry description = %q", entries[2].Description)
	}
}

func TestExtractMixedDeclsKeepValid(t *testing.T) {
	src := "## deploy\n\nShips it.\n- env: target environment\n- bad!name: nope\n- region=eu: the region\n"
	entries, bag, _ := extract(t, src)
	e := entries[0]
	if len(e.Params) != 2 {
		t.Fatalf("expected 2 valid params, got %+v", e.Params)
	}
	if e.Params[0].Name != "env" || e.Params[1].Name != "region" {
		t.Errorf("params = %+v", e.Params)
	}
	if bag.Len() != 1 {
		t.Errorf("expected 1 finding for the bad line, got %d", bag.Len())
	}
	if e.Description != "Ships it." {
		t.Errorf("description = %q", e.Description)
	}
}
