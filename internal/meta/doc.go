// Package meta extracts task metadata from scanned blocks: the
// description paragraph and parameter declarations adjacent to each
// heading.
//
// The declaration grammar is a documented convention, not markdown
// semantics:
//
//	- name: description          optional parameter
//	- name=default: description  optional with default
//	* name: description          required parameter
//
// Only the prose block immediately following a heading is inspected.
// Extraction never fails: malformed declarations degrade to
// bad-parameter-name findings and the line is skipped.
package meta
