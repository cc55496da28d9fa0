// SPDX-License-Identifier: MPL-2.0

package prompt

import "errors"

// ErrAborted is returned when the user cancels a prompt (ctrl-c, esc)
// instead of answering it.
var ErrAborted = errors.New("prompt aborted by user")

// Kind discriminates the prompt widgets a Prompter must support.
type Kind string

const (
	// KindSelect asks the user to pick exactly one of Choices.
	KindSelect Kind = "select"
	// KindInput asks for a free-form line of text.
	KindInput Kind = "input"
	// KindConfirm asks a yes/no question; answers normalize to "yes"/"no".
	KindConfirm Kind = "confirm"
)

type (
	// Prompt describes one question. It is a value, not a widget: the same
	// descriptor renders on a real terminal or replays in a test.
	Prompt struct {
		// Kind selects the widget.
		Kind Kind
		// Name identifies the question to the caller (e.g. the option key
		// being displayed, or a collector field name).
		Name string
		// Message is the question text.
		Message string
		// Choices holds the display labels for KindSelect, in order.
		Choices []string
		// Default is the pre-selected choice or pre-filled input.
		Default string
	}

	// Prompter delivers one answer per prompt. Implementations block until
	// the user (or the script of canned answers) responds.
	Prompter interface {
		Ask(p Prompt) (string, error)
	}
)

// IsAffirmative reports whether a confirm answer means yes.
func IsAffirmative(answer string) bool {
	return answer == "yes"
}
