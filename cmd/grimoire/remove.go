// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/script"

	"github.com/spf13/cobra"
)

// newRemoveCommand creates the `grimoire remove` command.
func newRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <script>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a saved script",
		Long: `Delete a saved script after confirmation.

Declining the confirmation keeps the script and exits normally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), app, args[0])
		},
	}
}

func runRemove(ctx context.Context, app *App, name string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	normalized, err := script.NormalizeName(name)
	if err != nil {
		return fmt.Errorf("invalid script name %q: %w", name, err)
	}

	reg, cleanup, err := app.openRegistry(cfg)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}
	defer cleanup()

	s, ok, err := reg.Script(ctx, normalized)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}
	if !ok {
		app.renderIssue(issue.ScriptNotFoundId, cfg)
		return fmt.Errorf("no script named %q", normalized)
	}

	answer, err := app.prompter(cfg).Ask(prompt.Prompt{
		Kind:    prompt.KindConfirm,
		Name:    "remove",
		Message: fmt.Sprintf("delete %q (%s)?", s.Name, countSummary(s)),
		Default: "no",
	})
	if err != nil && !errors.Is(err, prompt.ErrAborted) {
		return err
	}
	// Declining (or aborting the prompt) is a normal outcome.
	if err != nil || !prompt.IsAffirmative(answer) {
		fmt.Fprintf(app.stdout, "kept %s\n", CmdStyle.Render(s.Name))
		return nil
	}

	if err := reg.Remove(ctx, normalized); err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}

	fmt.Fprintf(app.stdout, "%s Removed %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(s.Name))
	return nil
}
