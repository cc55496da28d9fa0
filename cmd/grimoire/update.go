// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/schema"
	"grimoire-cli/internal/script"
	"grimoire-cli/internal/store"
	"grimoire-cli/internal/watch"

	"github.com/spf13/cobra"
)

// newUpdateCommand creates the `grimoire update` command.
func newUpdateCommand(app *App) *cobra.Command {
	var (
		watchMode bool
		debounce  time.Duration
	)

	updateCmd := &cobra.Command{
		Use:   "update <script> <file>",
		Short: "Re-parse a file and sync it into a saved script",
		Long: `Re-parse a script file and sync the result into the registry.

Simple-dialect files merge into the stored script; advanced files
replace its tree. With --watch the file is re-synced every time it
changes, until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), app, args[0], args[1], watchMode, debounce)
		},
	}

	updateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "keep watching the file and re-sync on change")
	updateCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a watched change syncs (default 500ms)")
	return updateCmd
}

func runUpdate(ctx context.Context, app *App, name, path string, watchMode bool, debounce time.Duration) error {
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

	if err := syncScriptFile(ctx, reg, app, normalized, path); err != nil {
		if !watchMode {
			switch {
			case errors.Is(err, fs.ErrNotExist):
				app.renderIssue(issue.ScriptFileNotFoundId, cfg)
			case errors.Is(err, schema.ErrShapeConflict):
				app.renderIssue(issue.ScriptShapeConflictId, cfg)
			case errors.Is(err, schema.ErrParse):
				app.renderIssue(issue.ScriptParseErrorId, cfg)
			}
			return err
		}
		// In watch mode a broken first parse is not fatal; the next save of
		// the file gets another attempt.
		fmt.Fprintf(app.stderr, "%s initial sync failed: %v\n", WarningStyle.Render("!"), err)
	}

	if !watchMode {
		return nil
	}

	w, err := watch.New(watch.Config{
		Path:     path,
		Debounce: debounce,
		OnChange: func(ctx context.Context) error {
			return syncScriptFile(ctx, reg, app, normalized, path)
		},
		Stderr: app.stderr,
	})
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fmt.Fprintf(app.stdout, "%s Watching %s (Ctrl+C to stop)\n", VerboseHighlightStyle.Render("→"), w.Path())
	if err := w.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, "stopped watching")
	return nil
}

// syncScriptFile re-parses path against the stored script and upserts the
// result. An absent stored script makes this a plain save.
func syncScriptFile(ctx context.Context, reg store.Registry, app *App, name, path string) error {
	prior, _, err := reg.Script(ctx, name)
	if err != nil {
		return err
	}
	s, err := schema.ParseFile(name, path, prior)
	if err != nil {
		return err
	}
	if err := reg.Put(ctx, s); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s Synced %s from %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(s.Describe()), path)
	return nil
}
