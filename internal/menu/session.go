// SPDX-License-Identifier: MPL-2.0

package menu

import (
	"errors"
	"fmt"

	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/script"
)

var (
	// ErrSessionDone is returned by Answer after the session terminated.
	ErrSessionDone = errors.New("session already terminated")

	// ErrUnknownChoice is the sentinel error wrapped by UnknownChoiceError.
	ErrUnknownChoice = errors.New("answer is not among the current choices")
)

// UnknownChoiceError is returned when an answer does not appear in the
// current option's choice list. The session cannot advance on it.
type UnknownChoiceError struct {
	OptionKey string
	Answer    string
}

// Error implements the error interface.
func (e *UnknownChoiceError) Error() string {
	return fmt.Sprintf("option %q has no choice %q", e.OptionKey, e.Answer)
}

// Unwrap returns ErrUnknownChoice so callers can use errors.Is.
func (e *UnknownChoiceError) Unwrap() error { return ErrUnknownChoice }

// StepKind discriminates the transitions a Session can report.
type StepKind int

const (
	// StepNavigate moved the session to another option.
	StepNavigate StepKind = iota
	// StepExecute resolved a command; running it is the caller's side
	// effect. The session stays at the same option unless the command is
	// an exit command.
	StepExecute
	// StepQuit terminated the session with no further action.
	StepQuit
	// StepAddCommand suspended a modify-mode walk at the current option.
	StepAddCommand
)

// String returns a human-readable representation of the step kind.
func (k StepKind) String() string {
	switch k {
	case StepNavigate:
		return "navigate"
	case StepExecute:
		return "execute"
	case StepQuit:
		return "quit"
	case StepAddCommand:
		return "add-command"
	default:
		return "unknown"
	}
}

type (
	// Step is one reported transition.
	Step struct {
		Kind StepKind
		// Key is the target option key for StepNavigate and StepAddCommand,
		// and the command key for StepExecute.
		Key string
		// Command is the resolved command for StepExecute.
		Command script.Command
		// Dir is the command's working-directory override, or "".
		Dir string
	}

	// Session is the traversal state machine: current option key, the
	// navigation stack back to the root, and a terminal flag. It is driven
	// by externally delivered answers, one in flight at a time.
	Session struct {
		s       *script.Script
		current string
		stack   []string
		modify  bool
		done    bool
	}
)

// NewSession starts a traversal at the script's root key. The script is
// validated first; traversing an inconsistent script is refused rather
// than guessed through.
func NewSession(s *script.Script) (*Session, error) {
	if s == nil {
		return nil, script.ErrNilScript
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Session{s: s, current: s.Root()}, nil
}

// Current returns the option key the session is displaying.
func (s *Session) Current() string { return s.current }

// Done reports whether the session terminated.
func (s *Session) Done() bool { return s.done }

// Immediate returns the one-shot execute step for a script whose root key
// is a command (the simple dialect's bare form). ok is false for scripts
// that open with a menu.
func (s *Session) Immediate() (Step, bool) {
	if s.done || s.s.HasOption(s.current) {
		return Step{}, false
	}
	cmd, ok := s.s.Command(s.current)
	if !ok {
		return Step{}, false
	}
	s.done = true
	return Step{Kind: StepExecute, Key: s.current, Command: cmd, Dir: s.dirFor(s.current)}, true
}

// Prompt returns the Display-state descriptor for the current option:
// its message and its choices' display labels. ok is false once the
// session terminated or when the script has no menu to display.
func (s *Session) Prompt() (prompt.Prompt, bool) {
	if s.done {
		return prompt.Prompt{}, false
	}
	opt, ok := s.s.Option(s.current)
	if !ok {
		return prompt.Prompt{}, false
	}
	msg := opt.Message
	if msg == "" {
		msg = "select an option"
	}
	choices := make([]string, len(opt.Choices))
	for i, c := range opt.Choices {
		choices[i] = script.DisplayLabel(c)
	}
	return prompt.Prompt{
		Kind:    prompt.KindSelect,
		Name:    s.current,
		Message: msg,
		Choices: choices,
	}, true
}

// Answer delivers exactly one choice to the Selection state and reports
// the resulting transition. A label that appears in the choice list but
// resolves to no node is a fatal consistency error, never ignored.
func (s *Session) Answer(choice string) (Step, error) {
	if s.done {
		return Step{}, ErrSessionDone
	}
	opt, ok := s.s.Option(s.current)
	if !ok {
		return Step{}, &UnknownChoiceError{OptionKey: s.current, Answer: choice}
	}
	label := script.FromDisplayLabel(choice)
	if !opt.HasChoice(label) {
		return Step{}, &UnknownChoiceError{OptionKey: s.current, Answer: choice}
	}

	switch label {
	case script.ChoiceQuit:
		s.done = true
		return Step{Kind: StepQuit}, nil

	case script.ChoiceBack:
		// Root options never carry back; a non-empty stack is guaranteed
		// by sentinel injection.
		if len(s.stack) == 0 {
			return Step{}, &script.DanglingChoiceError{OptionKey: s.current, Label: label}
		}
		s.current = s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		return Step{Kind: StepNavigate, Key: s.current}, nil

	case script.ChoiceAddCommand:
		if !s.modify {
			return Step{}, &script.DanglingChoiceError{OptionKey: s.current, Label: label}
		}
		s.done = true
		return Step{Kind: StepAddCommand, Key: s.current}, nil

	default:
		child, kind := s.s.ResolveChoice(s.current, label)
		switch kind {
		case script.NodeOption:
			s.stack = append(s.stack, s.current)
			s.current = child
			return Step{Kind: StepNavigate, Key: child}, nil
		case script.NodeCommand:
			cmd, _ := s.s.Command(child)
			if cmd.Exit {
				s.done = true
			}
			return Step{Kind: StepExecute, Key: child, Command: cmd, Dir: s.dirFor(child)}, nil
		default:
			return Step{}, &script.DanglingChoiceError{OptionKey: s.current, Label: label}
		}
	}
}

func (s *Session) dirFor(key string) string {
	if d, ok := s.s.Directory(key); ok {
		return d.Path
	}
	return ""
}
