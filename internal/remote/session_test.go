// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"strings"
	"testing"

	"grimoire-cli/internal/script"
)

// deployScript builds an interactive script with two commands.
func deployScript() *script.Script {
	s := script.New("deploy")
	s.AddOption("deploy", script.Option{
		Name:    "deploy",
		Message: "what now?",
		Choices: []string{"build", "test", script.ChoiceQuit},
	})
	s.AddCommand("deploy.build", script.Command{
		Directives: []string{"make build"},
		Message:    "building",
		Variables:  map[string]string{"CI": "1"},
	})
	s.AddCommand("deploy.test", script.Command{
		Directives: []string{"make test"},
	})
	s.UpdateDirectory("deploy.build", script.Directory{Path: "/srv/app"})
	return s
}

// backupScript builds a bare script: one command keyed at the root.
func backupScript() *script.Script {
	s := script.New("backup")
	s.AddCommand("backup", script.Command{
		Directives: []string{"tar czf backup.tgz data/"},
	})
	return s
}

func TestScriptNameOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want string
	}{
		{"deploy", "deploy"},
		{"deploy.build", "deploy"},
		{"a.b.c", "a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := scriptNameOf(tt.ref); got != tt.want {
			t.Errorf("scriptNameOf(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestResolveCommand_FullKey(t *testing.T) {
	t.Parallel()

	scr := deployScript()

	cmd, key, err := resolveCommand(scr, "deploy.build")
	if err != nil {
		t.Fatalf("resolveCommand: %v", err)
	}
	if key != "deploy.build" {
		t.Errorf("key = %q, want deploy.build", key)
	}
	if len(cmd.Directives) != 1 || cmd.Directives[0] != "make build" {
		t.Errorf("directives = %v, want [make build]", cmd.Directives)
	}
}

func TestResolveCommand_BareScriptByName(t *testing.T) {
	t.Parallel()

	scr := backupScript()

	cmd, key, err := resolveCommand(scr, "backup")
	if err != nil {
		t.Fatalf("resolveCommand: %v", err)
	}
	if key != "backup" {
		t.Errorf("key = %q, want backup", key)
	}
	if len(cmd.Directives) != 1 {
		t.Errorf("directives = %v, want the single backup directive", cmd.Directives)
	}
}

func TestResolveCommand_InteractiveScriptByNameFails(t *testing.T) {
	t.Parallel()

	scr := deployScript()

	_, _, err := resolveCommand(scr, "deploy")
	if err == nil {
		t.Fatal("plain name of an interactive script should not resolve")
	}
	if !strings.Contains(err.Error(), "interactive") {
		t.Errorf("error = %q, want mention of interactive", err)
	}
	// The error must name the available commands.
	if !strings.Contains(err.Error(), "deploy.build") || !strings.Contains(err.Error(), "deploy.test") {
		t.Errorf("error = %q, want the available command keys", err)
	}
}

func TestResolveCommand_UnknownKey(t *testing.T) {
	t.Parallel()

	scr := deployScript()

	_, _, err := resolveCommand(scr, "deploy.release")
	if err == nil {
		t.Fatal("unknown command key should not resolve")
	}
	if !strings.Contains(err.Error(), "has no command") {
		t.Errorf("error = %q, want mention of the missing command", err)
	}
	if !strings.Contains(err.Error(), "deploy.build") {
		t.Errorf("error = %q, want the available command keys", err)
	}
}

func TestSessionEnv(t *testing.T) {
	t.Parallel()

	env := sessionEnv(
		[]string{"TERM=xterm", "LANG=C.UTF-8", "CI=0", "MALFORMED"},
		map[string]string{"CI": "1", "EXTRA": "yes"},
	)

	want := map[string]string{
		"TERM":  "xterm",
		"LANG":  "C.UTF-8",
		"CI":    "1", // command variables win over the session environment
		"EXTRA": "yes",
	}

	if len(env) != len(want) {
		t.Fatalf("env has %d entries, want %d: %v", len(env), len(want), env)
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%q] = %q, want %q", k, env[k], v)
		}
	}
}

func TestRenderScriptList_Empty(t *testing.T) {
	t.Parallel()

	out := renderScriptList(nil, "127.0.0.1", 2222)

	if !strings.Contains(out, "Saved scripts") {
		t.Errorf("output %q should carry the title", out)
	}
	if !strings.Contains(out, "no scripts saved yet") {
		t.Errorf("output %q should say the registry is empty", out)
	}
}

func TestRenderScriptList_Populated(t *testing.T) {
	t.Parallel()

	scripts := map[string]*script.Script{
		"deploy": deployScript(),
		"backup": backupScript(),
	}

	out := renderScriptList(scripts, "0.0.0.0", 2222)

	for _, want := range []string{
		"deploy",
		"backup",
		"2 commands, 1 option",
		"1 command",
		"ssh -p 2222 grimoire@0.0.0.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}

	// Names list alphabetically.
	if strings.Index(out, "backup") > strings.Index(out, "deploy") {
		t.Errorf("backup should list before deploy:\n%s", out)
	}
}

func TestDescribeCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		scr  *script.Script
		want string
	}{
		{"bare", backupScript(), "1 command"},
		{"interactive", deployScript(), "2 commands, 1 option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := describeCounts(tt.scr); got != tt.want {
				t.Errorf("describeCounts() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupScriptErrors(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	_, err := srv.lookupScript(context.Background(), "ghost.run")
	if err == nil {
		t.Fatal("lookup of an unsaved script should fail")
	}
	if !strings.Contains(err.Error(), `"ghost"`) {
		t.Errorf("error = %q, want the script name", err)
	}
}

func TestLookupScriptFindsSaved(t *testing.T) {
	t.Parallel()

	reg := memRegistry()
	if err := reg.Put(context.Background(), deployScript()); err != nil {
		t.Fatalf("seed registry: %v", err)
	}

	srv := New(quietConfig(), reg)

	scr, err := srv.lookupScript(context.Background(), "deploy.build")
	if err != nil {
		t.Fatalf("lookupScript: %v", err)
	}
	if scr.Name != "deploy" {
		t.Errorf("script name = %q, want deploy", scr.Name)
	}

	// The loaded script resolves the referenced command.
	if _, _, err := resolveCommand(scr, "deploy.build"); err != nil {
		t.Errorf("resolveCommand on the loaded script: %v", err)
	}
}

func TestResolveCommand_SentinelLabelsNeverResolve(t *testing.T) {
	t.Parallel()

	scr := deployScript()

	// Sentinel labels never become command keys.
	if _, _, err := resolveCommand(scr, "deploy.quit"); err == nil {
		t.Error("sentinel label should not resolve to a command")
	}
}
