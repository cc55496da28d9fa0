// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"reflect"
	"testing"
)

// fixture builds a small two-level script used across the tests:
//
//	deploy
//	├── staging            (command)
//	└── database           (option)
//	    ├── migrate        (command)
//	    └── rollback       (command)
func fixture() *Script {
	s := New("deploy")
	s.AddOption("deploy", Option{
		Name:    "deploy",
		Message: "what do you want to deploy?",
		Choices: []string{"staging", "database", ChoiceQuit},
	})
	s.AddCommand("deploy.staging", Command{
		Directives: []string{"make deploy-staging"},
		Variables:  map[string]string{"REGION": "us-east-1"},
	})
	s.AddOption("deploy.database", Option{
		Name:    "database",
		Choices: []string{"migrate", "rollback", ChoiceBack, ChoiceQuit},
	})
	s.AddCommand("deploy.database.migrate", Command{Directives: []string{"make db-migrate"}})
	s.AddCommand("deploy.database.rollback", Command{Directives: []string{"make db-rollback"}, Exit: true})
	s.UpdateDirectory("deploy.database.migrate", Directory{Path: "/srv/db"})
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := New("deploy")
	if s.Name != "deploy" {
		t.Errorf("Name = %q, want %q", s.Name, "deploy")
	}
	if s.Options == nil || s.Commands == nil || s.Directories == nil {
		t.Error("New must allocate all maps")
	}
}

func TestScript_UpsertAccessors(t *testing.T) {
	t.Parallel()

	var s Script
	s.Name = "deploy"

	// Accessors must allocate on a zero-value script.
	s.AddOption("deploy", Option{Name: "deploy", Choices: []string{"staging"}})
	s.AddCommand("deploy.staging", Command{Directives: []string{"true"}})
	s.UpdateDirectory("deploy.staging", Directory{Path: "/tmp"})

	if _, ok := s.Option("deploy"); !ok {
		t.Fatal("Option(deploy) missing after AddOption")
	}
	if _, ok := s.Command("deploy.staging"); !ok {
		t.Fatal("Command(deploy.staging) missing after AddCommand")
	}
	if _, ok := s.Directory("deploy.staging"); !ok {
		t.Fatal("Directory(deploy.staging) missing after UpdateDirectory")
	}

	// Add and Update share replace semantics.
	s.UpdateCommand("deploy.staging", Command{Directives: []string{"false"}})
	cmd, _ := s.Command("deploy.staging")
	if cmd.Directives[0] != "false" {
		t.Errorf("UpdateCommand did not replace, Directives = %v", cmd.Directives)
	}
}

func TestCopy(t *testing.T) {
	t.Parallel()

	src := fixture()
	dst, err := Copy(src)
	if err != nil {
		t.Fatalf("Copy() returned error: %v", err)
	}
	if !reflect.DeepEqual(src, dst) {
		t.Fatal("Copy() must produce a content-equal script")
	}

	// Mutating the clone's nested state must not reach the source.
	opt, _ := dst.Option("deploy")
	opt.Choices[0] = "tampered"
	dst.UpdateOption("deploy", opt)

	cmd, _ := dst.Command("deploy.staging")
	cmd.Directives[0] = "tampered"
	cmd.Variables["REGION"] = "tampered"
	dst.UpdateCommand("deploy.staging", cmd)

	srcOpt, _ := src.Option("deploy")
	if srcOpt.Choices[0] != "staging" {
		t.Errorf("source option choices mutated through clone: %v", srcOpt.Choices)
	}
	srcCmd, _ := src.Command("deploy.staging")
	if srcCmd.Directives[0] != "make deploy-staging" {
		t.Errorf("source directives mutated through clone: %v", srcCmd.Directives)
	}
	if srcCmd.Variables["REGION"] != "us-east-1" {
		t.Errorf("source variables mutated through clone: %v", srcCmd.Variables)
	}
}

func TestCopy_NilSource(t *testing.T) {
	t.Parallel()

	if _, err := Copy(nil); !errors.Is(err, ErrNilScript) {
		t.Errorf("Copy(nil) error = %v, want ErrNilScript", err)
	}
}

func TestScript_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Script)
		wantErr  bool
		sentinel error
	}{
		{
			name:   "valid_tree",
			mutate: func(*Script) {},
		},
		{
			name: "dangling_choice",
			mutate: func(s *Script) {
				opt, _ := s.Option("deploy")
				opt.Choices = append(opt.Choices, "ghost")
				s.UpdateOption("deploy", opt)
			},
			wantErr:  true,
			sentinel: ErrDanglingChoice,
		},
		{
			name: "duplicate_choice",
			mutate: func(s *Script) {
				opt, _ := s.Option("deploy")
				opt.Choices = append(opt.Choices, "staging")
				s.UpdateOption("deploy", opt)
			},
			wantErr: true,
		},
		{
			name: "key_is_option_and_command",
			mutate: func(s *Script) {
				s.AddCommand("deploy.database", Command{Directives: []string{"true"}})
			},
			wantErr: true,
		},
		{
			name: "directory_without_command",
			mutate: func(s *Script) {
				s.UpdateDirectory("deploy.ghost", Directory{Path: "/tmp"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := fixture()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("Validate() error = %v, want wrapping %v", err, tt.sentinel)
			}
		})
	}
}

func TestScript_Validate_DanglingChoiceDetail(t *testing.T) {
	t.Parallel()

	s := fixture()
	opt, _ := s.Option("deploy.database")
	opt.Choices = append(opt.Choices, "vacuum")
	s.UpdateOption("deploy.database", opt)

	err := s.Validate()
	var dangling *DanglingChoiceError
	if !errors.As(err, &dangling) {
		t.Fatalf("Validate() error = %v, want *DanglingChoiceError", err)
	}
	if dangling.OptionKey != "deploy.database" || dangling.Label != "vacuum" {
		t.Errorf("DanglingChoiceError = %+v, want OptionKey=deploy.database Label=vacuum", dangling)
	}
}

func TestScript_ResolveChoice(t *testing.T) {
	t.Parallel()

	s := fixture()

	tests := []struct {
		name      string
		optionKey string
		label     string
		wantKey   string
		wantKind  NodeKind
	}{
		{"to_command", "deploy", "staging", "deploy.staging", NodeCommand},
		{"to_option", "deploy", "database", "deploy.database", NodeOption},
		{"sentinel", "deploy", ChoiceQuit, "", NodeNone},
		{"unknown", "deploy", "ghost", "", NodeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key, kind := s.ResolveChoice(tt.optionKey, tt.label)
			if key != tt.wantKey || kind != tt.wantKind {
				t.Errorf("ResolveChoice(%q, %q) = (%q, %v), want (%q, %v)",
					tt.optionKey, tt.label, key, kind, tt.wantKey, tt.wantKind)
			}
		})
	}
}

func TestScript_IsBare(t *testing.T) {
	t.Parallel()

	bare := New("greet")
	bare.AddCommand("greet", Command{Directives: []string{"echo hi"}})
	if !bare.IsBare() {
		t.Error("single root command should be bare")
	}
	if fixture().IsBare() {
		t.Error("tree script should not be bare")
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "deploy", "deploy", false},
		{"trimmed", "  deploy ", "deploy", false},
		{"empty", "", "", true},
		{"whitespace_only", "   ", "", true},
		{"embedded_separator", "a.b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
