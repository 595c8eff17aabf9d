// Package block defines the structural block model produced by the scanner.
// Invariants:
//   - Block.Span covers the block's full extent in the normalized source,
//     including fence lines for code fences.
//   - Blank lines separate blocks and are never emitted as blocks.
//   - Heading depth is 1..6; a run of more than six '#' is prose, not a heading.
//   - CodeFence.Tag is verbatim from the info string; interpreter validation
//     happens in the rule layer, never here.
package block
