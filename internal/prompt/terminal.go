// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for terminal prompts.
type Theme string

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// Config holds common configuration for terminal prompts.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible enables accessible mode for screen readers.
	Accessible bool
	// Output specifies where prompts render.
	Output io.Writer
}

// DefaultConfig returns the default prompt configuration. Accessible mode
// turns on when stdin is not a terminal or the ACCESSIBLE environment
// variable is set; output then goes to stderr so command substitution does
// not swallow the prompt.
func DefaultConfig() Config {
	accessible := !isInputTerminal() || os.Getenv("ACCESSIBLE") != ""
	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}
	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Output:     output,
	}
}

func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// huhTheme converts a Theme to a huh.Theme.
func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

// Terminal asks questions on the controlling terminal via huh forms.
type Terminal struct {
	cfg Config
}

// NewTerminal creates a terminal prompter with the given configuration.
func NewTerminal(cfg Config) *Terminal {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Terminal{cfg: cfg}
}

// Ask implements Prompter.
func (t *Terminal) Ask(p Prompt) (string, error) {
	switch p.Kind {
	case KindSelect:
		return t.askSelect(p)
	case KindInput:
		return t.askInput(p)
	case KindConfirm:
		return t.askConfirm(p)
	default:
		return "", fmt.Errorf("unsupported prompt kind %q", p.Kind)
	}
}

func (t *Terminal) askSelect(p Prompt) (string, error) {
	if len(p.Choices) == 0 {
		return "", fmt.Errorf("select prompt %q has no choices", p.Name)
	}
	result := p.Choices[0]
	if p.Default != "" && slices.Contains(p.Choices, p.Default) {
		result = p.Default
	}

	opts := make([]huh.Option[string], len(p.Choices))
	for i, c := range p.Choices {
		opts[i] = huh.NewOption(c, c)
	}
	sel := huh.NewSelect[string]().
		Title(p.Message).
		Options(opts...).
		Value(&result)

	if err := t.run(sel); err != nil {
		return "", err
	}
	return result, nil
}

func (t *Terminal) askInput(p Prompt) (string, error) {
	result := p.Default
	in := huh.NewInput().
		Title(p.Message).
		Value(&result)

	if err := t.run(in); err != nil {
		return "", err
	}
	return result, nil
}

func (t *Terminal) askConfirm(p Prompt) (string, error) {
	confirmed := IsAffirmative(p.Default)
	con := huh.NewConfirm().
		Title(p.Message).
		Affirmative("yes").
		Negative("no").
		Value(&confirmed)

	if err := t.run(con); err != nil {
		return "", err
	}
	if confirmed {
		return "yes", nil
	}
	return "no", nil
}

func (t *Terminal) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huhTheme(t.cfg.Theme)).
		WithAccessible(t.cfg.Accessible).
		WithOutput(t.cfg.Output)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
