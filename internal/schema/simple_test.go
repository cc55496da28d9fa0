// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"grimoire-cli/internal/script"
)

const gitQuickYAML = `
status: git status
push: git push
log:oneline: git log --oneline
log:graph: git log --graph --all
`

func TestParseSimple_FlatPaths(t *testing.T) {
	t.Parallel()

	s, err := ParseBytes("git-quick", "git-quick.yml", []byte(gitQuickYAML), nil)
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}

	root, ok := s.Option("git-quick")
	if !ok {
		t.Fatal("inferred root option missing")
	}
	wantRoot := []string{"status", "push", "log", script.ChoiceQuit}
	if !slices.Equal(root.Choices, wantRoot) {
		t.Errorf("root choices = %v, want %v (encounter order must survive)", root.Choices, wantRoot)
	}

	log, ok := s.Option("git-quick.log")
	if !ok {
		t.Fatal("inferred intermediate option missing")
	}
	wantLog := []string{"oneline", "graph", script.ChoiceBack, script.ChoiceQuit}
	if !slices.Equal(log.Choices, wantLog) {
		t.Errorf("log choices = %v, want %v", log.Choices, wantLog)
	}

	cmd, ok := s.Command("git-quick.log.graph")
	if !ok {
		t.Fatal("leaf command missing")
	}
	if !slices.Equal(cmd.Directives, []string{"git log --graph --all"}) {
		t.Errorf("leaf directives = %v", cmd.Directives)
	}
	if s.HasCommand("git-quick.log") {
		t.Error("intermediate prefix must not become a command")
	}
}

func TestParseSimple_BareCommand(t *testing.T) {
	t.Parallel()

	s, err := ParseBytes("greet", "greet.yml", []byte(`echo hello world`), nil)
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}
	if !s.IsBare() {
		t.Fatal("bare string must produce a single root-keyed command")
	}
	cmd, _ := s.Command("greet")
	if !slices.Equal(cmd.Directives, []string{"echo hello world"}) {
		t.Errorf("directives = %v", cmd.Directives)
	}
}

func TestParseSimple_SegmentsAreSlugged(t *testing.T) {
	t.Parallel()

	s, err := ParseBytes("ops", "ops.yml", []byte("db tools:run all: make db\n"), nil)
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}
	if !s.HasCommand("ops.db-tools.run-all") {
		t.Errorf("whitespace in segments must slug to hyphens, keys = %v", s.Keys())
	}
}

func TestParseSimple_Augmentation(t *testing.T) {
	t.Parallel()

	prior, err := ParseBytes("git-quick", "git-quick.yml", []byte(gitQuickYAML), nil)
	if err != nil {
		t.Fatalf("seed parse failed: %v", err)
	}

	extra := "stash: git stash\nlog:patch: git log -p\n"
	merged, err := ParseBytes("git-quick", "extra.yml", []byte(extra), prior)
	if err != nil {
		t.Fatalf("augmenting parse failed: %v", err)
	}

	root, _ := merged.Option("git-quick")
	wantRoot := []string{"status", "push", "log", "stash", script.ChoiceQuit}
	if !slices.Equal(root.Choices, wantRoot) {
		t.Errorf("root choices = %v, want %v (stored order, then new, sentinels once)", root.Choices, wantRoot)
	}

	log, _ := merged.Option("git-quick.log")
	wantLog := []string{"oneline", "graph", "patch", script.ChoiceBack, script.ChoiceQuit}
	if !slices.Equal(log.Choices, wantLog) {
		t.Errorf("log choices = %v, want %v", log.Choices, wantLog)
	}

	if !merged.HasCommand("git-quick.log.oneline") {
		t.Error("choices merged earlier must be preserved")
	}
	if !merged.HasCommand("git-quick.stash") {
		t.Error("new leaf missing after augmentation")
	}

	priorRoot, _ := prior.Option("git-quick")
	if slices.Contains(priorRoot.Choices, "stash") {
		t.Error("prior script must never be mutated by augmentation")
	}
}

func TestParseSimple_AugmentationIsIdempotent(t *testing.T) {
	t.Parallel()

	once, err := ParseBytes("git-quick", "git-quick.yml", []byte(gitQuickYAML), nil)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	twice, err := ParseBytes("git-quick", "git-quick.yml", []byte(gitQuickYAML), once)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("parsing the same file twice must equal parsing it once\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestParseSimple_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"leaf_then_prefix", "a: echo a\na:b: echo b\n", "descends through a command"},
		{"prefix_then_leaf", "a:b: echo b\na: echo a\n", "both a command and a prefix"},
		{"duplicate_path", "a: echo one\na: echo two\n", "declared twice"},
		{"empty_segment", "a::b: echo a\n", "empty segment"},
		{"non_string_value", "a: [echo, a]\n", "directive string"},
		{"empty_directive", "a: \"\"\n", "directive string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBytes("ops", "ops.yml", []byte(tt.src), nil)
			if err == nil {
				t.Fatal("ParseBytes() returned nil error, want parse failure")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseSimple_KindChangeRejected(t *testing.T) {
	t.Parallel()

	prior, err := ParseBytes("ops", "ops.yml", []byte("db:migrate: make migrate\n"), nil)
	if err != nil {
		t.Fatalf("seed parse failed: %v", err)
	}

	// "db" is a menu in the stored script; the new file makes it a command.
	_, err = ParseBytes("ops", "extra.yml", []byte("db: make db\n"), prior)
	if err == nil {
		t.Fatal("kind change must be rejected")
	}
	if !errors.Is(err, ErrShapeConflict) {
		t.Errorf("error should wrap ErrShapeConflict, got: %v", err)
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("shape conflicts are parse failures, got: %v", err)
	}
	if !strings.Contains(err.Error(), "menu to a command") {
		t.Errorf("error %q should describe the kind change", err)
	}

	// The opposite direction: a stored command becomes a menu.
	_, err = ParseBytes("ops", "extra.yml", []byte("db:migrate:fast: make it so\n"), prior)
	if err == nil {
		t.Fatal("kind change must be rejected")
	}
	if !errors.Is(err, ErrShapeConflict) {
		t.Errorf("error should wrap ErrShapeConflict, got: %v", err)
	}
	if !strings.Contains(err.Error(), "command to a menu") {
		t.Errorf("error %q should describe the kind change", err)
	}
}
