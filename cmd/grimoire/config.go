// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"grimoire-cli/internal/config"
	"grimoire-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `grimoire config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage grimoire configuration",
		Long: `Manage grimoire configuration.

Configuration is stored in:
  - Linux: ~/.config/grimoire/config.toml
  - macOS: ~/Library/Application Support/grimoire/config.toml
  - Windows: %APPDATA%\grimoire\config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions())
			if err != nil {
				return err
			}

			content, err := config.GenerateTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, content)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		app.renderIssue(issue.ConfigLoadFailedId, nil)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	cfgPath, pathErr := config.ConfigFilePath()
	if pathErr == nil && fileExistsCheck(cfgPath) {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	scriptsFile, err := cfg.ResolveScriptsFile()
	if err != nil {
		scriptsFile = string(cfg.ScriptsFile)
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("scripts_file"), valueStyle.Render(scriptsFile))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_runtime"), valueStyle.Render(cfg.DefaultRuntime.String()))
	if cfg.RedisURL != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("redis_url"), valueStyle.Render(cfg.RedisURL.String()))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("redis_url"), SubtitleStyle.Render("(not set; file registry)"))
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(app.stdout, "  accessible: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Accessible)))

	return nil
}

func initConfig(app *App) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if fileExistsCheck(cfgPath) {
		fmt.Fprintf(app.stdout, "configuration already exists at %s\n", cfgPath)
		return nil
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)

	scriptsFile, err := config.DefaultConfig().ResolveScriptsFile()
	if err == nil {
		fmt.Fprintf(app.stdout, "Scripts file: %s\n", scriptsFile)
	}

	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		return err
	}

	switch key {
	case "scripts_file":
		path := config.ScriptsFilePath(value)
		if ok, errs := path.IsValid(); !ok {
			return errs[0]
		}
		cfg.ScriptsFile = path

	case "default_runtime":
		mode := config.RuntimeMode(value)
		if ok, errs := mode.IsValid(); !ok {
			return errs[0]
		}
		cfg.DefaultRuntime = mode

	case "redis_url":
		url := config.RedisURL(value)
		if ok, errs := url.IsValid(); !ok {
			return errs[0]
		}
		cfg.RedisURL = url

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if ok, errs := scheme.IsValid(); !ok {
			return errs[0]
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.accessible":
		cfg.UI.Accessible = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: scripts_file, default_runtime, redis_url, ui.color_scheme, ui.verbose, ui.accessible", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
