// SPDX-License-Identifier: MPL-2.0

package prompt

import "testing"

func TestScripted(t *testing.T) {
	t.Parallel()

	s := NewScripted("first", "second")

	got, err := s.Ask(Prompt{Kind: KindSelect, Name: "q1", Choices: []string{"first", "second"}})
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	if got != "first" {
		t.Errorf("Ask() = %q, want %q", got, "first")
	}

	got, err = s.Ask(Prompt{Kind: KindInput, Name: "q2"})
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	if got != "second" {
		t.Errorf("Ask() = %q, want %q", got, "second")
	}

	if _, err := s.Ask(Prompt{Kind: KindInput, Name: "q3"}); err == nil {
		t.Error("Ask() past the end of the script should fail")
	}

	asked := s.Asked()
	if len(asked) != 3 {
		t.Fatalf("Asked() recorded %d prompts, want 3", len(asked))
	}
	if asked[0].Name != "q1" || asked[1].Name != "q2" || asked[2].Name != "q3" {
		t.Errorf("Asked() order = %v", asked)
	}
}

func TestIsAffirmative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"yes", "yes", true},
		{"no", "no", false},
		{"empty", "", false},
		{"capitalized", "Yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsAffirmative(tt.answer); got != tt.want {
				t.Errorf("IsAffirmative(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestHuhTheme_KnownThemes(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16, Theme("bogus")} {
		if huhTheme(theme) == nil {
			t.Errorf("huhTheme(%q) returned nil", theme)
		}
	}
}
