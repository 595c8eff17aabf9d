package taskfile_test

import (
	"errors"
	"testing"

	"masklint/internal/diag"
	"masklint/internal/meta"
	"masklint/internal/scanner"
	"masklint/internal/source"
	"masklint/internal/taskfile"
)

func build(t *testing.T, src string) (*taskfile.Tree, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("maskfile.md", []byte(src))
	file := fs.Get(id)

	blocks, err := scanner.Scan(file)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	entries := meta.Extract(file, blocks, reporter)
	tree, err := taskfile.Build(file, blocks, entries, reporter)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return tree, bag, fs
}

func taskNames(tree *taskfile.Tree) []string {
	var names []string
	tree.Walk(func(_ taskfile.TaskID, task *taskfile.Task) bool {
		names = append(names, task.Name)
		return true
	})
	return names
}

func TestBuildTopLevelCount(t *testing.T) {
	src := "# one\n\n# two\n\n# three\n\n```sh\nls\n```\n"
	tree, _, _ := build(t, src)

	root := tree.Get(tree.Root())
	if len(root.Children) != 3 {
		t.Fatalf("root children = %d, want 3", len(root.Children))
	}
	if tree.Count() != 3 {
		t.Errorf("count = %d, want 3", tree.Count())
	}
}

func TestBuildNesting(t *testing.T) {
	src := "# project\n\n## build\n\n### fast\n\n## test\n\n# other\n"
	tree, bag, _ := build(t, src)

	got := taskNames(tree)
	want := []string{"project", "build", "fast", "test", "other"}
	if len(got) != len(want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk = %v, want %v", got, want)
		}
	}

	// fast sits under build, test under project, other at top level.
	root := tree.Get(tree.Root())
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	project := tree.Get(root.Children[0])
	if len(project.Children) != 2 {
		t.Fatalf("project children = %d, want 2", len(project.Children))
	}
	buildTask := tree.Get(project.Children[0])
	if buildTask.Name != "build" || len(buildTask.Children) != 1 {
		t.Errorf("build task = %+v", buildTask)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected findings: %v", bag.Items())
	}
}

func TestBuildDepthMonotonicity(t *testing.T) {
	src := "# a\n\n### skip two\n\n## back up\n\n###### deep\n"
	tree, _, _ := build(t, src)

	tree.Walk(func(id taskfile.TaskID, task *taskfile.Task) bool {
		parent := tree.Get(task.Parent)
		if parent != nil && task.Depth <= parent.Depth {
			t.Errorf("task %q depth %d not greater than parent depth %d",
				task.Name, task.Depth, parent.Depth)
		}
		return true
	})
}

func TestBuildDepthGapsNest(t *testing.T) {
	// A jump from 1 straight to 4 still nests under the depth-1 task.
	src := "# top\n\n#### deep\n"
	tree, _, _ := build(t, src)

	root := tree.Get(tree.Root())
	top := tree.Get(root.Children[0])
	if len(top.Children) != 1 {
		t.Fatalf("top children = %d, want 1", len(top.Children))
	}
	if tree.Get(top.Children[0]).Name != "deep" {
		t.Errorf("nested task = %q", tree.Get(top.Children[0]).Name)
	}
}

func TestBuildBodyAndInterpreter(t *testing.T) {
	src := "## build\n\nCompiles.\n\n```sh\nmake all\n```\n"
	tree, _, _ := build(t, src)

	root := tree.Get(tree.Root())
	task := tree.Get(root.Children[0])
	if !task.HasBody {
		t.Fatal("expected body")
	}
	if task.Body != "make all\n" {
		t.Errorf("body = %q", task.Body)
	}
	if task.Interpreter != "sh" {
		t.Errorf("interpreter = %q", task.Interpreter)
	}
	if task.Description != "Compiles." {
		t.Errorf("description = %q", task.Description)
	}
}

func TestBuildEmptyFenceBodyCountsAsBody(t *testing.T) {
	tree, _, _ := build(t, "## noop\n\n```sh\n```\n")
	task := tree.Get(tree.Get(tree.Root()).Children[0])
	if !task.HasBody || task.Body != "" {
		t.Errorf("HasBody = %v, Body = %q; want true, empty", task.HasBody, task.Body)
	}
}

func TestBuildOrphanFence(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("maskfile.md", []byte("```sh\nls\n```\n\n# late\n"))
	file := fs.Get(id)

	blocks, err := scanner.Scan(file)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	tree, err := taskfile.Build(file, blocks, nil, diag.NopReporter{})

	if tree != nil {
		t.Error("expected no tree for orphan fence")
	}
	var buildErr *taskfile.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected *BuildError, got %v", err)
	}
	if buildErr.Code != taskfile.OrphanCodeFence {
		t.Errorf("code = %v", buildErr.Code)
	}
	if buildErr.Span.Start != 0 {
		t.Errorf("span start = %d, want 0", buildErr.Span.Start)
	}
}

func TestBuildDuplicateSiblings(t *testing.T) {
	src := "## build\n\n```sh\nls\n```\n\n## build\n\n```sh\npwd\n```\n"
	tree, bag, fs := build(t, src)

	// Both nodes stay in the tree.
	if tree.Count() != 2 {
		t.Fatalf("count = %d, want 2", tree.Count())
	}

	if bag.Len() != 1 {
		t.Fatalf("findings = %v, want exactly one", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.DuplicateTaskName || d.Severity != diag.SevError {
		t.Errorf("finding = %+v", d)
	}
	// Reported at the second heading.
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 7 {
		t.Errorf("reported at line %d, want 7", start.Line)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected a note pointing at the first occurrence")
	}
	noteStart, _ := fs.Resolve(d.Notes[0].Span)
	if noteStart.Line != 1 {
		t.Errorf("note at line %d, want 1", noteStart.Line)
	}
}

func TestBuildNamelessHeading(t *testing.T) {
	src := "#\n\n```sh\nls\n```\n\n# build\n"
	tree, bag, fs := build(t, src)

	// The node stays in the tree with its empty name.
	if tree.Count() != 2 {
		t.Fatalf("count = %d, want 2", tree.Count())
	}

	if bag.Len() != 1 {
		t.Fatalf("findings = %v, want exactly one", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.NamelessTask || d.Severity != diag.SevWarning {
		t.Errorf("finding = %+v", d)
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 1 {
		t.Errorf("reported at line %d, want 1", start.Line)
	}
}

func TestBuildNamelessHeadingTrailingSpace(t *testing.T) {
	src := "# \t\n"
	_, bag, _ := build(t, src)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.NamelessTask {
		t.Fatalf("findings = %v, want one nameless-task", bag.Items())
	}
}

func TestBuildSameNameDifferentParents(t *testing.T) {
	src := "# a\n\n## start\n\n# b\n\n## start\n"
	_, bag, _ := build(t, src)
	if bag.Len() != 0 {
		t.Errorf("same name under different parents is legal, got %v", bag.Items())
	}
}

func TestBuildMultipleBodies(t *testing.T) {
	src := "## build\n\n```sh\nfirst\n```\n\n```sh\nsecond\n```\n"
	tree, bag, _ := build(t, src)

	task := tree.Get(tree.Get(tree.Root()).Children[0])
	if task.Body != "first\n" {
		t.Errorf("body = %q, want the first fence kept", task.Body)
	}

	if bag.Len() != 1 {
		t.Fatalf("findings = %v, want exactly one", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.MultipleBodies || d.Severity != diag.SevWarning {
		t.Errorf("finding = %+v", d)
	}
}

func TestBuildDuplicateParams(t *testing.T) {
	src := "## serve\n\n- port: first\n- port: again\n\n```sh\nls\n```\n"
	tree, bag, _ := build(t, src)

	task := tree.Get(tree.Get(tree.Root()).Children[0])
	if len(task.Params) != 1 {
		t.Fatalf("params = %+v, want the first kept", task.Params)
	}
	if task.Params[0].Description != "first" {
		t.Errorf("kept param = %+v", task.Params[0])
	}

	if bag.Len() != 1 || bag.Items()[0].Code != diag.DuplicateParameter {
		t.Fatalf("findings = %v", bag.Items())
	}
}

func TestBuildSpanExcludesDescendants(t *testing.T) {
	src := "# parent\n\nParent prose.\n\n## child\n\n```sh\nls\n```\n"
	tree, _, _ := build(t, src)

	root := tree.Get(tree.Root())
	parent := tree.Get(root.Children[0])
	child := tree.Get(parent.Children[0])

	if parent.Span.End > child.HeadingSpan.Start {
		t.Errorf("parent span %v reaches into child at %v", parent.Span, child.HeadingSpan)
	}
	if child.Span.End <= child.HeadingSpan.End {
		t.Errorf("child span %v should cover its body", child.Span)
	}
}

func TestFullName(t *testing.T) {
	src := "# services\n\n## db\n\n### migrate\n\n## cache\n"
	tree, _, _ := build(t, src)

	var got []string
	tree.Walk(func(id taskfile.TaskID, _ *taskfile.Task) bool {
		got = append(got, tree.FullName(id))
		return true
	})

	want := []string{"services", "services db", "services db migrate", "services cache"}
	if len(got) != len(want) {
		t.Fatalf("full names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("full names = %v, want %v", got, want)
		}
	}
}

func TestBuildLeadingProseIgnored(t *testing.T) {
	src := "This file documents tasks.\n\n# first\n"
	tree, bag, _ := build(t, src)
	if tree.Count() != 1 {
		t.Errorf("count = %d, want 1", tree.Count())
	}
	if bag.Len() != 0 {
		t.Errorf("leading prose must not produce findings: %v", bag.Items())
	}
}

func TestBuildDeterministic(t *testing.T) {
	src := "# a\n\n## b\n\n```sh\nls\n```\n\n## c\n\n- p: param\n"
	treeA, bagA, _ := build(t, src)
	treeB, bagB, _ := build(t, src)

	namesA, namesB := taskNames(treeA), taskNames(treeB)
	for i := range namesA {
		if namesA[i] != namesB[i] {
			t.Fatalf("tree walks differ: %v vs %v", namesA, namesB)
		}
	}
	if bagA.Len() != bagB.Len() {
		t.Errorf("finding counts differ: %d vs %d", bagA.Len(), bagB.Len())
	}
}
