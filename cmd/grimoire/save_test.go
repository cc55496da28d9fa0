// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/schema"
)

const pipelineYAML = `
message: what next?
options:
  build:
    command: make build
  release:
    message: careful now
    options:
      prod:
        exit-command: make release
`

func TestRunSave_AdvancedFile(t *testing.T) {
	t.Parallel()

	app, out, _ := testApp(t, prompt.NewScripted())
	path := writeScriptFile(t, "pipeline.yml", pipelineYAML)

	if err := runSave(context.Background(), app, path, ""); err != nil {
		t.Fatalf("runSave() returned error: %v", err)
	}

	s, ok, err := app.Registry.Script(context.Background(), "pipeline")
	if err != nil || !ok {
		t.Fatalf("saved script missing: ok=%v, err=%v", ok, err)
	}
	if !s.HasCommand("pipeline.build") || !s.HasCommand("pipeline.release.prod") {
		t.Errorf("parsed keys = %v", s.Keys())
	}
	if !strings.Contains(out.String(), "Saved") {
		t.Errorf("confirmation not printed, output = %q", out.String())
	}
	if !strings.Contains(out.String(), "pipeline (2 options, 2 commands)") {
		t.Errorf("summary not printed, output = %q", out.String())
	}
}

func TestRunSave_NameFlag(t *testing.T) {
	t.Parallel()

	app, _, _ := testApp(t, prompt.NewScripted())
	path := writeScriptFile(t, "anything.yml", "status: git status\n")

	if err := runSave(context.Background(), app, path, "ops"); err != nil {
		t.Fatalf("runSave() returned error: %v", err)
	}

	if _, ok, _ := app.Registry.Script(context.Background(), "ops"); !ok {
		t.Error("script should be stored under the --name value")
	}
	if _, ok, _ := app.Registry.Script(context.Background(), "anything"); ok {
		t.Error("script should not be stored under the file name")
	}
}

func TestRunSave_InvalidName(t *testing.T) {
	t.Parallel()

	app, _, _ := testApp(t, prompt.NewScripted())
	path := writeScriptFile(t, "ops.yml", "status: git status\n")

	err := runSave(context.Background(), app, path, "bad.name")
	if err == nil {
		t.Fatal("a name containing the key separator must be rejected")
	}
	if !strings.Contains(err.Error(), "invalid script name") {
		t.Errorf("error = %v", err)
	}
}

func TestRunSave_MissingFile(t *testing.T) {
	t.Parallel()

	app, _, errOut := testApp(t, prompt.NewScripted())
	path := filepath.Join(t.TempDir(), "ghost.yml")

	err := runSave(context.Background(), app, path, "")
	if err == nil {
		t.Fatal("saving a missing file must fail")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "permissions") {
		t.Errorf("file-not-found card not rendered, stderr = %q", errOut.String())
	}
}

func TestRunSave_ParseFailure(t *testing.T) {
	t.Parallel()

	app, _, errOut := testApp(t, prompt.NewScripted())
	path := writeScriptFile(t, "notes.txt", "not a script\n")

	err := runSave(context.Background(), app, path, "")
	if err == nil {
		t.Fatal("an unsupported extension must fail")
	}
	if !errors.Is(err, schema.ErrParse) {
		t.Errorf("error should wrap schema.ErrParse, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "indentation") {
		t.Errorf("parse-error card not rendered, stderr = %q", errOut.String())
	}
}

func TestRunSave_SimpleAugmentsStored(t *testing.T) {
	t.Parallel()

	app, _, _ := testApp(t, prompt.NewScripted())
	ctx := context.Background()

	first := writeScriptFile(t, "first.yml", "status: git status\n")
	if err := runSave(ctx, app, first, "git"); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	second := writeScriptFile(t, "second.yml", "pull: git pull --rebase\n")
	if err := runSave(ctx, app, second, "git"); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	s, ok, err := app.Registry.Script(ctx, "git")
	if err != nil || !ok {
		t.Fatalf("stored script missing: ok=%v, err=%v", ok, err)
	}
	if !s.HasCommand("git.status") || !s.HasCommand("git.pull") {
		t.Errorf("simple saves must merge into the stored script, keys = %v", s.Keys())
	}
}

func TestRunSave_ShapeConflict(t *testing.T) {
	t.Parallel()

	app, _, errOut := testApp(t, prompt.NewScripted())
	ctx := context.Background()

	first := writeScriptFile(t, "first.yml", "status: git status\n")
	if err := runSave(ctx, app, first, "git"); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// The stored "status" is a command; the new file turns it into a menu.
	second := writeScriptFile(t, "second.yml", "status:short: git status -s\n")
	err := runSave(ctx, app, second, "git")
	if err == nil {
		t.Fatal("a shape change against the stored script must fail")
	}
	if !errors.Is(err, schema.ErrShapeConflict) {
		t.Errorf("error should wrap schema.ErrShapeConflict, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "collide") {
		t.Errorf("shape-conflict card not rendered, stderr = %q", errOut.String())
	}

	s, ok, _ := app.Registry.Script(ctx, "git")
	if !ok || !s.HasCommand("git.status") {
		t.Error("a rejected save must leave the stored script untouched")
	}
}
