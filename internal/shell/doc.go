// SPDX-License-Identifier: MPL-2.0

// Package shell executes a command's directive sequence. Directives run
// strictly in order, each starting only after the previous one finished;
// the first non-zero exit stops the sequence. There are no retries, a
// failed directive is a single deterministic report.
//
// Two runners exist. Native hands each directive to the system shell.
// Virtual interprets directives in-process with mvdan.cc/sh, which keeps
// execution hermetic and is what the tests run against.
package shell
