// SPDX-License-Identifier: MPL-2.0

// Package script defines the canonical in-memory model of a saved script:
// a rooted tree of Option nodes (interactive questions) whose leaves are
// Command nodes (shell directive sequences), addressed by dot-separated
// hierarchical keys.
//
// A Script owns three key-indexed maps (Options, Commands, Directories) and
// is mutated only through its upsert accessors. Copy produces a fully
// independent clone, which modify mode relies on to derive a display tree
// without touching the original. Validate checks the structural invariant
// that every non-sentinel choice resolves to exactly one node.
package script
