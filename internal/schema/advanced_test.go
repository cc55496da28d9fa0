// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"grimoire-cli/internal/script"
)

const falconYAML = `
message: what do you want to do?
options:
  missiles:
    message: launching missiles
    command: make fire-missiles
  lasers:
    command:
      1: charge-lasers
      2: fire-lasers
  hyperdrive:
    message: where to?
    options:
      dagobah:
        exit-command: fly dagobah
        directory: /srv/nav
        variables:
          SPEED: "0.5"
`

func TestParseAdvanced(t *testing.T) {
	t.Parallel()

	s, err := ParseBytes("falcon", "falcon.yml", []byte(falconYAML), nil)
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}

	root, ok := s.Option("falcon")
	if !ok {
		t.Fatal("root option missing")
	}
	if root.Message != "what do you want to do?" {
		t.Errorf("root message = %q", root.Message)
	}
	wantRoot := []string{"missiles", "lasers", "hyperdrive", script.ChoiceQuit}
	if !slices.Equal(root.Choices, wantRoot) {
		t.Errorf("root choices = %v, want %v (declaration order must survive)", root.Choices, wantRoot)
	}

	missiles, ok := s.Command("falcon.missiles")
	if !ok {
		t.Fatal("falcon.missiles command missing")
	}
	if missiles.Message != "launching missiles" {
		t.Errorf("missiles message = %q", missiles.Message)
	}
	if !slices.Equal(missiles.Directives, []string{"make fire-missiles"}) {
		t.Errorf("missiles directives = %v", missiles.Directives)
	}

	lasers, _ := s.Command("falcon.lasers")
	if !slices.Equal(lasers.Directives, []string{"charge-lasers", "fire-lasers"}) {
		t.Errorf("positional directives = %v, want ascending order", lasers.Directives)
	}

	hyper, ok := s.Option("falcon.hyperdrive")
	if !ok {
		t.Fatal("nested option missing")
	}
	wantHyper := []string{"dagobah", script.ChoiceBack, script.ChoiceQuit}
	if !slices.Equal(hyper.Choices, wantHyper) {
		t.Errorf("nested choices = %v, want %v (non-root gets back then quit)", hyper.Choices, wantHyper)
	}

	dagobah, ok := s.Command("falcon.hyperdrive.dagobah")
	if !ok {
		t.Fatal("deep command missing")
	}
	if !dagobah.Exit {
		t.Error("exit-command must set Exit")
	}
	if dagobah.Variables["SPEED"] != "0.5" {
		t.Errorf("variables = %v", dagobah.Variables)
	}
	dir, ok := s.Directory("falcon.hyperdrive.dagobah")
	if !ok || dir.Path != "/srv/nav" {
		t.Errorf("directory = %+v, ok=%v", dir, ok)
	}
}

func TestParseAdvanced_SequenceDirectives(t *testing.T) {
	t.Parallel()

	src := `
options:
  build:
    command:
      - go generate ./...
      - go build ./...
`
	s, err := ParseBytes("ci", "ci.yml", []byte(src), nil)
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}
	cmd, _ := s.Command("ci.build")
	want := []string{"go generate ./...", "go build ./..."}
	if !slices.Equal(cmd.Directives, want) {
		t.Errorf("directives = %v, want %v", cmd.Directives, want)
	}
}

func TestParseAdvanced_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name: "positional_gap",
			src: `
options:
  fire:
    command:
      1: charge
      3: fire
`,
			wantMsg: "contiguously",
		},
		{
			name: "positional_not_from_one",
			src: `
options:
  fire:
    command:
      2: charge
      3: fire
`,
			wantMsg: "contiguously",
		},
		{
			name: "positional_key_not_number",
			src: `
options:
  fire:
    command:
      first: charge
`,
			wantMsg: "not a number",
		},
		{
			name: "command_and_options",
			src: `
options:
  fire:
    command: boom
    options:
      again:
        command: boom
`,
			wantMsg: "one or the other",
		},
		{
			name: "command_and_exit_command",
			src: `
options:
  fire:
    command: boom
    exit-command: boom
`,
			wantMsg: "both",
		},
		{
			name: "unknown_tag",
			src: `
options:
  fire:
    comand: boom
`,
			wantMsg: "unknown tag",
		},
		{
			name: "nested_variables",
			src: `
options:
  fire:
    command: boom
    variables:
      nested:
        a: b
`,
			wantMsg: "scalar value",
		},
		{
			name: "variables_not_mapping",
			src: `
options:
  fire:
    command: boom
    variables: [a, b]
`,
			wantMsg: "flat mapping",
		},
		{
			name: "directory_without_command",
			src: `
directory: /tmp
options:
  fire:
    command: boom
`,
			wantMsg: "only valid alongside",
		},
		{
			name: "neither_command_nor_options",
			src: `
options:
  fire:
    message: just words
`,
			wantMsg: "neither",
		},
		{
			name: "empty_command",
			src: `
options:
  fire:
    command: ""
`,
			wantMsg: "empty",
		},
		{
			name: "child_name_with_separator",
			src: `
options:
  a.b:
    command: boom
`,
			wantMsg: "must not contain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBytes("falcon", "falcon.yml", []byte(tt.src), nil)
			if err == nil {
				t.Fatal("ParseBytes() returned nil error, want parse failure")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
			if !strings.Contains(err.Error(), "falcon.yml") {
				t.Errorf("error %q should name the file", err)
			}
		})
	}
}

func TestParseAdvanced_ReplacesPrior(t *testing.T) {
	t.Parallel()

	prior, err := ParseBytes("ops", "ops.yml", []byte("status: git status\npush: git push\n"), nil)
	if err != nil {
		t.Fatalf("seed parse failed: %v", err)
	}

	src := `
options:
  deploy:
    command: make deploy
`
	s, err := ParseBytes("ops", "ops.yml", []byte(src), prior)
	if err != nil {
		t.Fatalf("ParseBytes() returned error: %v", err)
	}
	if s.HasCommand("ops.status") || s.HasCommand("ops.push") {
		t.Error("advanced re-parse must replace the stored tree, not merge into it")
	}
	if !s.HasCommand("ops.deploy") {
		t.Error("replacement tree missing its own command")
	}
	if !prior.HasCommand("ops.status") {
		t.Error("prior script must never be mutated")
	}
}
