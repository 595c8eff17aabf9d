// Package rules holds the lint rules and the engine that evaluates
// them over a built task tree.
//
// Rules are read-only and stateless: Check receives the tree, the
// source file, and the effective settings, and returns findings. The
// engine runs enabled rules concurrently, merges their findings with
// the ones carried from metadata extraction and tree construction,
// applies severity overrides, and hands the bag its final sorted and
// deduplicated form. Two runs over the same input produce identical
// bags regardless of the job count.
//
// Configuration reaches rules only through Settings: a rule disabled
// there is never invoked, and a severity override rewrites findings no
// matter which stage produced them.
package rules
