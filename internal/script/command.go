// SPDX-License-Identifier: MPL-2.0

package script

import (
	"maps"
	"slices"
)

type (
	// Command is a leaf node: one or more shell directives executed in
	// sequence, each starting only after the previous one finished.
	Command struct {
		// Directives are the shell lines to execute, in order. Never empty
		// for a command produced by the schema layer or the collector.
		Directives []string `yaml:"directives"`
		// Message is printed before execution. May be empty.
		Message string `yaml:"message,omitempty"`
		// Variables is a flat mapping exported into the directive
		// environment. May be nil.
		Variables map[string]string `yaml:"variables,omitempty"`
		// Exit marks an exit-command: after it runs the whole session
		// terminates instead of returning to the menu.
		Exit bool `yaml:"exit,omitempty"`
	}

	// Directory is a working-directory override associated with exactly one
	// command key. Commands without one inherit the ambient directory.
	Directory struct {
		Path string `yaml:"path"`
	}
)

// clone returns a deep copy of the command.
func (c Command) clone() Command {
	out := Command{
		Directives: slices.Clone(c.Directives),
		Message:    c.Message,
		Exit:       c.Exit,
	}
	if c.Variables != nil {
		out.Variables = maps.Clone(c.Variables)
	}
	return out
}
