// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"grimoire-cli/internal/config"
	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/script"
	"grimoire-cli/internal/shell"
	"grimoire-cli/internal/store"
)

// staticConfig serves a fixed configuration, bypassing the file loader.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return s.cfg, s.err
}

// testApp builds an App on in-memory collaborators: a memory-backed file
// registry, the virtual shell runner and buffered output streams. The
// prompter argument scripts the interactive answers.
func testApp(t *testing.T, p prompt.Prompter) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{
		Config:   staticConfig{cfg: config.DefaultConfig()},
		Registry: store.NewFile(afero.NewMemMapFs(), "registry/scripts.yml"),
		Prompter: p,
		Runner:   shell.NewVirtual(),
		Stdout:   &out,
		Stderr:   &errOut,
	})
	if err != nil {
		t.Fatalf("NewApp() returned error: %v", err)
	}
	return app, &out, &errOut
}

// seedScript stores a script in the app's registry.
func seedScript(t *testing.T, app *App, s *script.Script) {
	t.Helper()
	if err := app.Registry.Put(context.Background(), s); err != nil {
		t.Fatalf("seeding registry: %v", err)
	}
}

// deployScript builds a small two-command script for handler tests.
func deployScript(t *testing.T) *script.Script {
	t.Helper()
	s := script.New("deploy")
	s.AddOption("deploy", script.Option{
		Name:    "deploy",
		Message: "where to?",
		Choices: []string{"staging", "abort", script.ChoiceQuit},
	})
	s.AddCommand("deploy.staging", script.Command{
		Directives: []string{"echo shipping to staging"},
		Message:    "staging it is",
	})
	s.AddCommand("deploy.abort", script.Command{
		Directives: []string{"exit 5"},
		Exit:       true,
	})
	return s
}

// writeScriptFile drops YAML content into a temp dir and returns its path.
func writeScriptFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
