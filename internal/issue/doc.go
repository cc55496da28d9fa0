// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on. It has two
// halves: ActionableError, a structured error carrying the failed operation,
// the resource involved and fix suggestions, and a catalog of known issues
// rendered as markdown for the terminal.
package issue
