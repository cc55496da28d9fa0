// SPDX-License-Identifier: MPL-2.0

// Package schema parses declarative script files into the canonical script
// model.
//
// Two source dialects are accepted. The advanced dialect is a nested tree
// keyed by reserved tags (message, options, command, exit-command,
// directory, variables). The simple dialect is either a single bare string
// or a flat mapping of colon-delimited paths to directive strings, from
// which the option tree is inferred. Both converge on the same Script
// shape; nothing downstream learns which dialect produced it.
//
// Parsing walks yaml.Node trees rather than decoded maps because mapping
// declaration order is semantically significant in both dialects: it fixes
// the order of menu choices. JSON files decode through the same path.
//
// Re-parsing an already-persisted script differs per dialect: an advanced
// file replaces the stored tree wholesale, while a simple file augments it,
// unioning new choices into existing options without disturbing what an
// earlier parse contributed.
package schema
