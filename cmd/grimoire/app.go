// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"grimoire-cli/internal/config"
	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/menu"
	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/shell"
	"grimoire-cli/internal/store"
)

type (
	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer — all Cobra command handlers receive an App reference and reach
	// the registry, prompter, and shell runner through it.
	App struct {
		Config ConfigProvider

		// Registry overrides the config-selected backend when non-nil.
		// Production leaves it nil; each handler opens the backend the
		// loaded configuration describes.
		Registry store.Registry

		// Prompter overrides the terminal prompter when non-nil.
		Prompter prompt.Prompter

		// Runner overrides the config-selected shell runner when non-nil.
		Runner shell.Runner

		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests can supply mock implementations
	// to isolate specific service behavior.
	Dependencies struct {
		Config   ConfigProvider
		Registry store.Registry
		Prompter prompt.Prompter
		Runner   shell.Runner
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:   deps.Config,
		Registry: deps.Registry,
		Prompter: deps.Prompter,
		Runner:   deps.Runner,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// loadConfig returns configuration for command handlers. An explicit --config
// path must load cleanly and fails the command when it does not. On the default
// path a load failure is downgraded to a warning and the handler stays
// operational with defaults, which is the common state on fresh installs.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, loadOptions())
	if err == nil {
		return cfg, nil
	}
	if cfgFile != "" {
		a.renderIssue(issue.ConfigLoadFailedId, nil)
		return nil, err
	}
	fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	return config.DefaultConfig(), nil
}

// openRegistry opens the script registry the configuration selects: Redis when
// redis_url is set, the YAML document in the config directory otherwise. The
// returned cleanup releases any backend connection and never closes an
// injected registry.
func (a *App) openRegistry(cfg *config.Config) (store.Registry, func(), error) {
	if a.Registry != nil {
		return a.Registry, func() {}, nil
	}

	path, err := cfg.ResolveScriptsFile()
	if err != nil {
		return nil, nil, err
	}
	reg, err := store.Open(store.Options{Path: path, RedisURL: string(cfg.RedisURL)})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if c, ok := reg.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return reg, cleanup, nil
}

// prompter returns the injected prompter, or a terminal prompter honoring the
// configured accessibility preference.
func (a *App) prompter(cfg *config.Config) prompt.Prompter {
	if a.Prompter != nil {
		return a.Prompter
	}
	pcfg := prompt.DefaultConfig()
	if cfg != nil && cfg.UI.Accessible {
		pcfg.Accessible = true
		pcfg.Output = os.Stderr
	}
	return prompt.NewTerminal(pcfg)
}

// runner returns the injected shell runner, or the one the configured default
// runtime selects. The selected runner must be usable on this host.
func (a *App) runner(cfg *config.Config) (shell.Runner, error) {
	if a.Runner != nil {
		return a.Runner, nil
	}
	r, err := shell.ForMode(shell.Mode(cfg.DefaultRuntime))
	if err != nil {
		return nil, err
	}
	if !r.Available() {
		a.renderIssue(issue.ShellNotFoundId, cfg)
		return nil, fmt.Errorf("%s runtime is not available: no usable shell found", r.Name())
	}
	return r, nil
}

// driver builds a menu driver on the app's collaborators and streams.
func (a *App) driver(cfg *config.Config) (*menu.Driver, error) {
	r, err := a.runner(cfg)
	if err != nil {
		return nil, err
	}
	d := menu.NewDriver(a.prompter(cfg), r)
	d.Stdin = os.Stdin
	d.Stdout = a.stdout
	d.Stderr = a.stderr
	return d, nil
}

// renderIssue prints the catalog card for id on stderr. Rendering failures are
// swallowed; the caller still returns the underlying error.
func (a *App) renderIssue(id issue.Id, cfg *config.Config) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	rendered, err := iss.Render(styleFor(cfg))
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// styleFor maps the configured color scheme onto a glamour style name.
func styleFor(cfg *config.Config) string {
	if cfg == nil {
		return "dark"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return "auto"
	}
}
