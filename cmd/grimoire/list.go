// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"sort"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/script"

	"github.com/spf13/cobra"
)

// newListCommand creates the `grimoire list` command.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), app)
		},
	}
}

func runList(ctx context.Context, app *App) error {
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

	scripts, err := reg.Scripts(ctx)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Saved scripts"))
	if len(scripts) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("  (none yet; save one with: grimoire save <file>)"))
		return nil
	}

	names := make([]string, 0, len(scripts))
	width := 0
	for name := range scripts {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		s := scripts[name]
		padded := fmt.Sprintf("%-*s", width, name)
		fmt.Fprintf(app.stdout, "  %s  %s\n", CmdStyle.Render(padded), SubtitleStyle.Render(countSummary(s)))
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("run one with: grimoire run <name>"))
	return nil
}

// countSummary summarizes a script's size for list output.
func countSummary(s *script.Script) string {
	if s.IsBare() {
		return "bare command"
	}
	out := fmt.Sprintf("%d %s", len(s.Commands), pluralize("command", len(s.Commands)))
	if n := len(s.Options); n > 0 {
		out += fmt.Sprintf(", %d %s", n, pluralize("menu", n))
	}
	return out
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
