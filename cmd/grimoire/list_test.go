// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"
	"testing"

	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/script"
)

func TestRunList_Empty(t *testing.T) {
	t.Parallel()

	app, out, _ := testApp(t, prompt.NewScripted())

	if err := runList(context.Background(), app); err != nil {
		t.Fatalf("runList() returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Saved scripts") {
		t.Errorf("header not printed, output = %q", got)
	}
	if !strings.Contains(got, "none yet") {
		t.Errorf("empty hint not printed, output = %q", got)
	}
}

func TestRunList_Populated(t *testing.T) {
	t.Parallel()

	app, out, _ := testApp(t, prompt.NewScripted())
	seedScript(t, app, deployScript(t))

	bare := script.New("once")
	bare.AddCommand("once", script.Command{Directives: []string{"echo hi"}})
	seedScript(t, app, bare)

	if err := runList(context.Background(), app); err != nil {
		t.Fatalf("runList() returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "deploy") || !strings.Contains(got, "once") {
		t.Fatalf("script names missing, output = %q", got)
	}
	if !strings.Contains(got, "2 commands, 1 menu") {
		t.Errorf("deploy summary missing, output = %q", got)
	}
	if !strings.Contains(got, "bare command") {
		t.Errorf("bare summary missing, output = %q", got)
	}
	if strings.Index(got, "deploy") > strings.Index(got, "once") {
		t.Errorf("names must be sorted, output = %q", got)
	}
	if !strings.Contains(got, "run one with: grimoire run <name>") {
		t.Errorf("trailing hint missing, output = %q", got)
	}
}

func TestCountSummary(t *testing.T) {
	t.Parallel()

	bare := script.New("once")
	bare.AddCommand("once", script.Command{Directives: []string{"echo hi"}})

	single := script.New("x")
	single.AddCommand("x.run", script.Command{Directives: []string{"make run"}})

	big := script.New("big")
	big.AddOption("big", script.Option{Name: "big", Choices: []string{"a", "sub"}})
	big.AddOption("big.sub", script.Option{Name: "sub", Choices: []string{"b", "c"}})
	big.AddCommand("big.a", script.Command{Directives: []string{"echo a"}})
	big.AddCommand("big.sub.b", script.Command{Directives: []string{"echo b"}})
	big.AddCommand("big.sub.c", script.Command{Directives: []string{"echo c"}})

	tests := []struct {
		name string
		s    *script.Script
		want string
	}{
		{"bare", bare, "bare command"},
		{"single_command", single, "1 command"},
		{"two_commands_one_menu", deployScript(t), "2 commands, 1 menu"},
		{"plural_menus", big, "3 commands, 2 menus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := countSummary(tt.s); got != tt.want {
				t.Errorf("countSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
