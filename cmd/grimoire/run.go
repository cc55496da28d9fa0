// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"grimoire-cli/internal/config"
	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/menu"
	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/script"
	"grimoire-cli/internal/store"

	"github.com/spf13/cobra"
)

// newRunCommand creates the `grimoire run` command.
func newRunCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run [script]",
		Short: "Walk a saved script as an interactive menu",
		Long: `Walk a saved script as an interactive menu.

Each menu level presents the script's choices; picking a command runs its
directives in sequence, in the command's directory override when one is
set. After a normal command the same menu re-prompts; an exit command
ends the session. Without a script name, pick one from the saved list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runRun(cmd.Context(), app, name)
		},
	}
}

func runRun(ctx context.Context, app *App, name string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	reg, cleanup, err := app.openRegistry(cfg)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}
	defer cleanup()

	s, err := pickScript(ctx, app, cfg, reg, name, "which script do you want to run?")
	if err != nil || s == nil {
		return err
	}

	sess, err := menu.NewSession(s)
	if err != nil {
		return err
	}

	d, err := app.driver(cfg)
	if err != nil {
		return err
	}

	res, err := d.Run(ctx, sess)
	if err != nil {
		// Unresolvable choices mean a corrupted stored script; stop rather
		// than guess.
		return fmt.Errorf("script %q: %w", s.Name, err)
	}
	if res.Failed() {
		return &ExitError{Code: res.ExitCode, Err: res.Err}
	}
	return nil
}

// pickScript resolves a script by name, asking the user to choose one when
// name is empty. A nil script with a nil error means the user aborted the
// selection, which is a normal outcome.
func pickScript(ctx context.Context, app *App, cfg *config.Config, reg store.Registry, name, question string) (*script.Script, error) {
	if name == "" {
		scripts, err := reg.Scripts(ctx)
		if err != nil {
			app.renderIssue(issue.RegistryUnavailableId, cfg)
			return nil, err
		}
		if len(scripts) == 0 {
			fmt.Fprintln(app.stdout, "no scripts saved yet")
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("save one with: grimoire save <file>"))
			return nil, nil
		}

		names := make([]string, 0, len(scripts))
		for n := range scripts {
			names = append(names, n)
		}
		sort.Strings(names)

		answer, err := app.prompter(cfg).Ask(prompt.Prompt{
			Kind:    prompt.KindSelect,
			Name:    "script",
			Message: question,
			Choices: names,
		})
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return nil, nil
			}
			return nil, err
		}
		name = answer
	}

	normalized, err := script.NormalizeName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid script name %q: %w", name, err)
	}

	s, ok, err := reg.Script(ctx, normalized)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return nil, err
	}
	if !ok {
		app.renderIssue(issue.ScriptNotFoundId, cfg)
		return nil, fmt.Errorf("no script named %q", normalized)
	}
	return s, nil
}
