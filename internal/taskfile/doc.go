// Package taskfile builds and exposes the task tree of a maskfile.
//
// Nodes live in a flat arena addressed by 1-based TaskIDs; NoTaskID is
// the null link. The synthetic root sits at depth 0 and is excluded
// from task counts, walks, and full names. Heading depth alone decides
// nesting, so "## deploy" under "# ops" is "ops deploy" regardless of
// how many levels the numbers skip.
//
// Construction is single-pass over the scanned blocks with a depth
// stack. The tree is immutable afterwards; every consumer shares it.
package taskfile
