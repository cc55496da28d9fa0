// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/schema"
	"grimoire-cli/internal/script"

	"github.com/spf13/cobra"
)

// newSaveCommand creates the `grimoire save` command.
func newSaveCommand(app *App) *cobra.Command {
	var name string

	saveCmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Parse a script file and store it in the registry",
		Long: `Parse a script file and store it in the registry.

The file may use the simple dialect (flat colon paths or a single bare
command string) or the advanced dialect (nested options with messages,
directories, and exit commands). Both become the same stored script.

Saving a simple-dialect file under a name that already exists merges the
new entries into the stored script instead of replacing it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd.Context(), app, args[0], name)
		},
	}

	saveCmd.Flags().StringVarP(&name, "name", "n", "", "script name (default: file name without extension)")
	return saveCmd
}

func runSave(ctx context.Context, app *App, path, name string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	if name == "" {
		name = schema.NameFromPath(path)
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

	// A stored script of the same name feeds simple-dialect augmentation;
	// advanced re-parses replace the tree wholesale.
	prior, _, err := reg.Script(ctx, normalized)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}

	s, err := schema.ParseFile(normalized, path, prior)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			app.renderIssue(issue.ScriptFileNotFoundId, cfg)
		case errors.Is(err, schema.ErrShapeConflict):
			app.renderIssue(issue.ScriptShapeConflictId, cfg)
		default:
			app.renderIssue(issue.ScriptParseErrorId, cfg)
		}
		return err
	}

	if err := reg.Put(ctx, s); err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}

	fmt.Fprintf(app.stdout, "%s Saved %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(s.Describe()))
	return nil
}
