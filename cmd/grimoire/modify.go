// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/menu"
	"grimoire-cli/internal/script"

	"github.com/spf13/cobra"
)

// newModifyCommand creates the `grimoire modify` command.
func newModifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "modify [script]",
		Short: "Append a command to a saved script from its menu",
		Long: `Walk a saved script in modify mode and append a new command.

The menus navigate as usual, but command leaves are hidden and every
level offers an 'add a command' entry instead. Picking it asks for the
new command's name, directive, optional message, and optional working
directory, then attaches it under the current menu and saves the
script. The source file is not touched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runModify(cmd.Context(), app, name)
		},
	}
}

func runModify(ctx context.Context, app *App, name string) error {
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

	s, err := pickScript(ctx, app, cfg, reg, name, "which script do you want to modify?")
	if err != nil || s == nil {
		return err
	}

	// The walk happens on a derived copy; s stays pristine until the new
	// command is attached and saved.
	sess, err := menu.NewModifySession(s)
	if err != nil {
		if errors.Is(err, menu.ErrNoMenus) {
			return fmt.Errorf("script %q is a bare command with no menu to attach to", s.Name)
		}
		return err
	}

	d, err := app.driver(cfg)
	if err != nil {
		return err
	}

	mod, optionKey, err := d.RunModify(sess)
	if err != nil {
		return fmt.Errorf("script %q: %w", s.Name, err)
	}
	if mod != menu.ModificationAddCommand {
		fmt.Fprintln(app.stdout, "no changes made")
		return nil
	}

	leaf, cmdSpec, dir, err := d.Collect(menu.NewCollector())
	if err != nil {
		return err
	}

	key := script.Join(optionKey, leaf)
	if s.HasCommand(key) {
		ok, err := d.ConfirmOverwrite(key)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(app.stdout, "kept %s unchanged\n", CmdStyle.Render(key))
			return nil
		}
	}

	newKey, err := menu.ApplyAddCommand(s, optionKey, leaf, cmdSpec, dir)
	if err != nil {
		return err
	}
	if err := reg.Put(ctx, s); err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}

	fmt.Fprintf(app.stdout, "%s Added %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(newKey))
	return nil
}
