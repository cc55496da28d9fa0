// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"grimoire-cli/internal/config"
	"grimoire-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
)

func init() {
	cobra.OnInitialize(initRootConfig)
}

// newRootCommand assembles the command tree around an App. Tests build their
// own tree with injected dependencies; Execute builds the production one.
func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "grimoire",
		Short: "Guided menu sessions for your shell rituals",
		Long: TitleStyle.Render("grimoire") + SubtitleStyle.Render(" - guided menu sessions for your shell rituals") + `

grimoire reads a declarative YAML or JSON file describing a tree of
questions whose leaves are shell commands, stores it as a named script,
and replays it as an interactive menu session. Saved scripts can grow
new commands from inside the menu and can be shared over SSH.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Describe your script in a YAML file
  2. Save it with: grimoire save deploy.yml
  3. Walk it with: grimoire run deploy

` + SubtitleStyle.Render("Examples:") + `
  grimoire list             List saved scripts
  grimoire run deploy       Walk the 'deploy' menu
  grimoire print deploy     Show a script's tree
  grimoire modify deploy    Append a command from the menu
  grimoire serve            Share saved scripts over SSH`,
	}

	// Global flags
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")

	root.AddCommand(
		newSaveCommand(app),
		newRunCommand(app),
		newListCommand(app),
		newPrintCommand(app),
		newRemoveCommand(app),
		newUpdateCommand(app),
		newModifyCommand(app),
		newConfigCommand(app),
		newServeCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command tree.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file so flag defaults can follow it.
func initRootConfig() {
	cfg, _, err := config.Load(context.Background(), loadOptions())
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// loadOptions carries the --config flag into the config loader.
func loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: cfgFile}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
