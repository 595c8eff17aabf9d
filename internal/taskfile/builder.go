package taskfile

import (
	"fmt"

	"masklint/internal/block"
	"masklint/internal/diag"
	"masklint/internal/meta"
	"masklint/internal/source"
)

// Build assembles the task tree from scanned blocks and extracted
// metadata. Heading depth drives nesting: a heading at depth d becomes
// a child of the nearest open task with a smaller depth, the synthetic
// root (depth 0) catching top-level headings.
//
// Non-structural problems -- duplicate sibling names, nameless
// headings, extra bodies, duplicate parameters -- degrade to findings
// on r and never abort.
// The only fatal case is a *BuildError for a fence with no task above
// it.
func Build(file *source.File, blocks []block.Block, entries []meta.Entry, r diag.Reporter) (*Tree, error) {
	b := &builder{
		file:     file,
		reporter: r,
		arena:    NewArena[Task](uint(len(blocks)/2 + 1)),
		siblings: make(map[TaskID]map[string]TaskID),
	}
	return b.run(blocks, entries)
}

type builder struct {
	file     *source.File
	reporter diag.Reporter
	arena    *Arena[Task]
	stack    []TaskID
	siblings map[TaskID]map[string]TaskID
}

func (b *builder) run(blocks []block.Block, entries []meta.Entry) (*Tree, error) {
	entryByHeading := make(map[int]*meta.Entry, len(entries))
	for i := range entries {
		entryByHeading[entries[i].Heading] = &entries[i]
	}

	root := TaskID(b.arena.Allocate(Task{Depth: 0}))
	b.stack = []TaskID{root}

	for i := range blocks {
		blk := &blocks[i]
		switch blk.Kind {
		case block.Heading:
			b.pushTask(blk, entryByHeading[i])

		case block.CodeFence:
			top := b.top()
			if top == root {
				return nil, &BuildError{Code: OrphanCodeFence, Span: blk.Span}
			}
			b.attachBody(top, blk)

		case block.Text:
			// Prose before the first heading belongs to the document,
			// not to a task.
			if top := b.top(); top != root {
				task := b.arena.Get(uint32(top))
				task.Span = task.Span.Cover(blk.Span)
			}
		}
	}

	return &Tree{arena: b.arena, root: root, file: b.file}, nil
}

func (b *builder) top() TaskID {
	return b.stack[len(b.stack)-1]
}

func (b *builder) pushTask(blk *block.Block, entry *meta.Entry) {
	for len(b.stack) > 1 {
		top := b.arena.Get(uint32(b.top()))
		if top.Depth < blk.Depth {
			break
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.top()

	task := Task{
		Name:        blk.Text,
		Depth:       blk.Depth,
		HeadingSpan: blk.Span,
		Span:        blk.Span,
		Parent:      parent,
	}
	if task.Name == "" {
		diag.ReportWarning(b.reporter, diag.NamelessTask, task.HeadingSpan,
			"heading has no task name").
			WithFix("add a name after the '#'").
			Emit()
	}
	if entry != nil {
		task.Description = entry.Description
		task.Params = entry.Params
		b.checkDuplicateParams(&task)
	}

	id := TaskID(b.arena.Allocate(task))
	parentTask := b.arena.Get(uint32(parent))
	parentTask.Children = append(parentTask.Children, id)
	b.stack = append(b.stack, id)

	b.checkSiblingName(parent, id)
}

// checkSiblingName reports a duplicate at the second occurrence and
// keeps both nodes in the tree.
func (b *builder) checkSiblingName(parent, id TaskID) {
	task := b.arena.Get(uint32(id))
	names := b.siblings[parent]
	if names == nil {
		names = make(map[string]TaskID)
		b.siblings[parent] = names
	}

	if firstID, dup := names[task.Name]; dup {
		first := b.arena.Get(uint32(firstID))
		diag.ReportError(b.reporter, diag.DuplicateTaskName, task.HeadingSpan,
			fmt.Sprintf("duplicate task name %q", task.Name)).
			WithNote(first.HeadingSpan, "first defined here").
			WithFix(fmt.Sprintf("rename one of the %q tasks", task.Name)).
			Emit()
		return
	}
	names[task.Name] = id
}

func (b *builder) attachBody(id TaskID, blk *block.Block) {
	task := b.arena.Get(uint32(id))
	if task.HasBody {
		diag.ReportWarning(b.reporter, diag.MultipleBodies, blk.Span,
			fmt.Sprintf("task %q already has a script body; this one is ignored", task.Name)).
			WithNote(task.BodySpan, "first body here").
			WithFix("merge the scripts into a single fence").
			Emit()
		task.Span = task.Span.Cover(blk.Span)
		return
	}

	task.HasBody = true
	task.Body = blk.Body
	task.Interpreter = blk.Tag
	task.FenceSpan = blk.Span
	task.BodySpan = blk.BodySpan
	task.TagSpan = blk.TagSpan
	task.Span = task.Span.Cover(blk.Span)
}

func (b *builder) checkDuplicateParams(task *Task) {
	seen := make(map[string]source.Span, len(task.Params))
	kept := task.Params[:0]
	for _, p := range task.Params {
		if firstSpan, dup := seen[p.Name]; dup {
			diag.ReportWarning(b.reporter, diag.DuplicateParameter, p.Span,
				fmt.Sprintf("parameter %q is declared twice", p.Name)).
				WithNote(firstSpan, "first declared here").
				Emit()
			continue
		}
		seen[p.Name] = p.Span
		kept = append(kept, p)
	}
	task.Params = kept
}
