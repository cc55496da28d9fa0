// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for grimoire.
//
// This package implements the Cobra command hierarchy for the grimoire CLI:
// the root command, script lifecycle subcommands (save, run, list, print,
// remove, update, modify), configuration management, and the SSH share
// server. Handlers receive an App composition root and reach the registry,
// prompter, and shell runner through it.
package cmd
