// SPDX-License-Identifier: MPL-2.0

package script

import "slices"

// Sentinel choice labels. These never resolve to a tree node; the traversal
// engine gives them fixed behavior.
const (
	// ChoiceBack pops the navigation stack to the parent option. Root
	// options never carry it.
	ChoiceBack = "back"
	// ChoiceQuit terminates the session with no further action.
	ChoiceQuit = "quit"
	// ChoiceAddCommand appears only in modify-mode trees; selecting it
	// suspends the walk and hands control to the command collector.
	ChoiceAddCommand = "add-command"
)

type (
	// Option is a question node: a prompt message and an ordered list of
	// choice labels. A label is either the leaf name of a child node
	// (combined with the option's own key to form the child key) or one of
	// the sentinels. Order is display and selection order.
	Option struct {
		// Name is the leaf segment of the option's key.
		Name string `yaml:"name"`
		// Message is the prompt text shown to the user. May be empty.
		Message string `yaml:"message,omitempty"`
		// Choices holds the child labels in declaration order, followed by
		// the injected sentinels.
		Choices []string `yaml:"choices"`
	}
)

// IsSentinel reports whether a choice label is one of the reserved labels
// with engine-defined behavior.
func IsSentinel(label string) bool {
	return label == ChoiceBack || label == ChoiceQuit || label == ChoiceAddCommand
}

// displayAddCommand is how the add-command sentinel renders in a menu.
const displayAddCommand = "add a command"

// DisplayLabel maps a choice label to the text shown in a menu. Tree labels
// render as themselves; the add-command sentinel renders as a phrase.
func DisplayLabel(label string) string {
	if label == ChoiceAddCommand {
		return displayAddCommand
	}
	return label
}

// FromDisplayLabel maps a menu display label back to its choice label. It
// inverts DisplayLabel.
func FromDisplayLabel(display string) string {
	if display == displayAddCommand {
		return ChoiceAddCommand
	}
	return display
}

// HasChoice reports whether the option already lists the given label.
func (o Option) HasChoice(label string) bool {
	return slices.Contains(o.Choices, label)
}

// TreeChoices returns the labels that resolve to tree nodes, in order,
// excluding all sentinels.
func (o Option) TreeChoices() []string {
	out := make([]string, 0, len(o.Choices))
	for _, c := range o.Choices {
		if !IsSentinel(c) {
			out = append(out, c)
		}
	}
	return out
}

// clone returns a deep copy of the option.
func (o Option) clone() Option {
	return Option{
		Name:    o.Name,
		Message: o.Message,
		Choices: slices.Clone(o.Choices),
	}
}
