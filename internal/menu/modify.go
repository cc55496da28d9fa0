// SPDX-License-Identifier: MPL-2.0

package menu

import (
	"errors"
	"fmt"

	"grimoire-cli/internal/script"
)

// ErrNoMenus is returned when a script has no options to modify (the
// simple dialect's bare form).
var ErrNoMenus = errors.New("script has no menus to modify")

// Modification names what a modify-mode walk asked for. The zero value
// means the walk ended without requesting anything.
type Modification string

const (
	// ModificationNone means the user quit without modifying.
	ModificationNone Modification = ""
	// ModificationAddCommand means a new command should be collected and
	// attached under the reported option key.
	ModificationAddCommand Modification = "add-command"
)

// modifyMessage frames every option of the derived copy as a placement
// question rather than the script's own wording.
const modifyMessage = "select where to add the new command"

// NewModifySession derives the modify-mode copy of orig and starts a
// traversal over it. orig is never mutated; the derived copy filters
// command leaves out of every choice list (commands are unreachable while
// modifying) and offers an add-command entry immediately before back/quit.
func NewModifySession(orig *script.Script) (*Session, error) {
	derived, err := ModifyOverlay(orig)
	if err != nil {
		return nil, err
	}
	sess, err := NewSession(derived)
	if err != nil {
		return nil, err
	}
	sess.modify = true
	return sess, nil
}

// ModifyOverlay returns the deep-copied script a modify walk traverses.
func ModifyOverlay(orig *script.Script) (*script.Script, error) {
	derived, err := script.Copy(orig)
	if err != nil {
		return nil, err
	}
	if len(derived.Options) == 0 {
		return nil, ErrNoMenus
	}

	for key, opt := range derived.Options {
		choices := make([]string, 0, len(opt.Choices)+1)
		for _, label := range opt.TreeChoices() {
			if _, kind := derived.ResolveChoice(key, label); kind == script.NodeOption {
				choices = append(choices, label)
			}
		}
		choices = append(choices, script.ChoiceAddCommand)
		if script.Depth(key) > 1 {
			choices = append(choices, script.ChoiceBack)
		}
		choices = append(choices, script.ChoiceQuit)

		opt.Choices = choices
		opt.Message = modifyMessage
		derived.UpdateOption(key, opt)
	}
	return derived, nil
}

// ApplyAddCommand attaches a collected command to s under optionKey,
// wiring the leaf into the option's choice list before the sentinels.
// Overwrite confirmation is the caller's concern; an existing command at
// the same key is replaced. Returns the new command's key.
func ApplyAddCommand(s *script.Script, optionKey, leaf string, cmd script.Command, dir *script.Directory) (string, error) {
	opt, ok := s.Option(optionKey)
	if !ok {
		return "", fmt.Errorf("script has no option %q to attach to", optionKey)
	}
	if leaf == "" {
		return "", fmt.Errorf("command name must not be empty")
	}
	key := script.Join(optionKey, leaf)
	if s.HasOption(key) {
		return "", fmt.Errorf("key %q already names a menu; a command cannot replace it", key)
	}

	if !opt.HasChoice(leaf) {
		choices := script.TrimSentinels(opt.Choices)
		choices = append(choices, leaf)
		if script.Depth(optionKey) > 1 {
			choices = append(choices, script.ChoiceBack)
		}
		choices = append(choices, script.ChoiceQuit)
		opt.Choices = choices
		s.UpdateOption(optionKey, opt)
	}

	s.UpdateCommand(key, cmd)
	if dir != nil {
		s.UpdateDirectory(key, *dir)
	}
	return key, nil
}
