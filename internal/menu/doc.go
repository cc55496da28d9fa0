// SPDX-License-Identifier: MPL-2.0

// Package menu walks a script as an interactive state machine.
//
// Session is a pure state holder: it emits prompt descriptors, consumes one
// answer at a time, and reports each transition as a Step. It performs no
// I/O and runs nothing itself, which is what keeps it unit-testable without
// a terminal. Driver wires a Session to the prompt and shell collaborators
// and owns the side effects.
//
// Modify mode walks a derived copy of the script in which command leaves
// are unreachable and every menu offers an add-command entry. Selecting it
// suspends the walk; the Collector then gathers the new command's fields
// one question at a time, and the caller applies the result to the original
// script, which the walk never touched.
package menu
