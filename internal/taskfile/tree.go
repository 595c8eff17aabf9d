package taskfile

import (
	"strings"

	"masklint/internal/source"
)

// Tree is the task hierarchy of one maskfile. It is immutable after
// construction; rules and renderers share it read-only.
type Tree struct {
	arena *Arena[Task]
	root  TaskID
	file  *source.File
}

// File returns the source file the tree was built from.
func (t *Tree) File() *source.File {
	return t.file
}

// Root returns the synthetic root's ID. The root is never a task.
func (t *Tree) Root() TaskID {
	return t.root
}

// Get returns the task for id, or nil for NoTaskID.
func (t *Tree) Get(id TaskID) *Task {
	return t.arena.Get(uint32(id))
}

// Count returns the number of real tasks, excluding the root.
func (t *Tree) Count() int {
	return int(t.arena.Len()) - 1
}

// TaskIDs returns every real task ID in document order.
func (t *Tree) TaskIDs() []TaskID {
	out := make([]TaskID, 0, t.Count())
	for id := uint32(2); id <= t.arena.Len(); id++ {
		out = append(out, TaskID(id))
	}
	return out
}

// Walk visits tasks depth-first in document order, parents before
// children, skipping the root. Returning false stops the walk.
func (t *Tree) Walk(fn func(id TaskID, task *Task) bool) {
	var visit func(id TaskID) bool
	visit = func(id TaskID) bool {
		task := t.Get(id)
		if !task.IsRoot() {
			if !fn(id, task) {
				return false
			}
		}
		for _, child := range task.Children {
			if !visit(child) {
				return false
			}
		}
		return true
	}
	visit(t.root)
}

// FullName joins the task's ancestor names with spaces, e.g.
// "services start". The root contributes nothing.
func (t *Tree) FullName(id TaskID) string {
	var parts []string
	for id.IsValid() {
		task := t.Get(id)
		if task.IsRoot() {
			break
		}
		parts = append(parts, task.Name)
		id = task.Parent
	}
	// Collected leaf-first; reverse into document order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " ")
}
