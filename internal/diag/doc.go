// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable structures for findings produced
//     by the scanner, metadata extraction, tree construction, and rules.
//   - Offer light-weight utilities (Reporter, Bag) so producers can emit
//     findings without coupling to storage or formatting layers.
//   - Model fix suggestions as structured edits the CLI can render.
//
// # Scope
//
// Package diag performs no formatting, IO, or CLI integration. Rendering
// lives in internal/diagfmt; orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact identifier whose ID() is the kebab-case rule name
//     (e.g. "duplicate-task-name") used in output and config files.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the issue.
//   - Notes – optional secondary spans, e.g. "first declared here".
//   - Fixes – optional suggestions; the first fix title is the
//     suggested_fix string in serialized output.
//
// Notes must add new context rather than repeat the message.
//
// # Emitting
//
// Phases emit through a diag.Reporter, usually via ReportWarning /
// ReportError chained with WithNote / WithFix and finished with Emit.
// BagReporter aggregates into a Bag, which supports sorting, capping,
// deduplication, and merging. Bag.Sort is the single ordering authority:
// position first, then rule name, so repeated and parallel runs render
// byte-identical output.
package diag
