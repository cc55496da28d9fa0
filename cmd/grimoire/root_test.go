// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"grimoire-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		// Save and restore package-level vars.
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when unversioned", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		err := errors.New("something broke")
		if got := formatErrorForDisplay(err, false); got != "something broke" {
			t.Errorf("formatErrorForDisplay() = %q, want %q", got, "something broke")
		}
	})

	t.Run("actionable error uses Format", func(t *testing.T) {
		t.Parallel()

		ae := issue.NewErrorContext().
			WithOperation("parse script file").
			WithResource("deploy.yml").
			WithSuggestion("check the YAML indentation").
			Wrap(errors.New("yaml: line 3: mapping values are not allowed")).
			Build()

		got := formatErrorForDisplay(ae, false)
		if !strings.Contains(got, "parse script file") {
			t.Errorf("formatted output should name the operation, got %q", got)
		}
		if !strings.Contains(got, "check the YAML indentation") {
			t.Errorf("formatted output should carry suggestions, got %q", got)
		}
	})

	t.Run("wrapped actionable error still found", func(t *testing.T) {
		t.Parallel()

		ae := issue.WrapWithOperation(errors.New("boom"), "open registry")
		wrapped := errors.Join(errors.New("outer"), ae)

		got := formatErrorForDisplay(wrapped, false)
		if !strings.Contains(got, "open registry") {
			t.Errorf("errors.As should surface the actionable error, got %q", got)
		}
	})
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() returned error: %v", err)
	}
	root := newRootCommand(app)

	want := []string{"save", "run", "list", "print", "remove", "update", "modify", "config", "serve"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}

	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("root command is missing the --verbose flag")
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command is missing the --config flag")
	}
}
