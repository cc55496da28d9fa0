// SPDX-License-Identifier: MPL-2.0

package prompt

import "fmt"

// Scripted is a Prompter that replays a fixed sequence of answers and
// records every prompt it was asked. Each Ask consumes one answer.
type Scripted struct {
	answers []string
	asked   []Prompt
}

// NewScripted creates a scripted prompter with the given answer sequence.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Ask implements Prompter.
func (s *Scripted) Ask(p Prompt) (string, error) {
	s.asked = append(s.asked, p)
	if len(s.answers) == 0 {
		return "", fmt.Errorf("no scripted answer left for prompt %q", p.Name)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// Asked returns the prompts recorded so far, in order.
func (s *Scripted) Asked() []Prompt {
	return s.asked
}

// Remaining returns how many answers are still queued.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}
