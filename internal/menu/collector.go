// SPDX-License-Identifier: MPL-2.0

package menu

import (
	"fmt"
	"strings"

	"grimoire-cli/internal/script"
)

// Collector field names, in question order.
const (
	FieldName      = "name"
	FieldDirective = "directive"
	FieldMessage   = "message"
	FieldDirectory = "directory"
)

type (
	// Question is one collector field to ask for.
	Question struct {
		// Name identifies the field.
		Name string
		// Message is the question text.
		Message string
		// Required fields re-ask on empty answers; optional fields treat
		// empty as a skip.
		Required bool
	}

	// Collector gathers a new command's fields one question at a time,
	// driven by external answer events. It knows nothing about key
	// conflicts; overwrite decisions belong to the caller.
	Collector struct {
		questions []Question
		answers   map[string]string
		idx       int
	}
)

// NewCollector creates a collector with the fixed question list: name and
// directive required, message and directory optional.
func NewCollector() *Collector {
	return &Collector{
		questions: []Question{
			{Name: FieldName, Message: "name the new command", Required: true},
			{Name: FieldDirective, Message: "what should it run?", Required: true},
			{Name: FieldMessage, Message: "message to print before it runs (enter to skip)"},
			{Name: FieldDirectory, Message: "working directory (enter to skip)"},
		},
		answers: make(map[string]string),
	}
}

// NextQuestion returns the next unanswered question, or ok=false once all
// fields are collected.
func (c *Collector) NextQuestion() (Question, bool) {
	if c.idx >= len(c.questions) {
		return Question{}, false
	}
	return c.questions[c.idx], true
}

// NextAnswer records value against the pending question. An empty answer
// to a required question is an error and leaves the question pending; an
// empty answer to an optional question skips it.
func (c *Collector) NextAnswer(value string) error {
	if c.idx >= len(c.questions) {
		return fmt.Errorf("no question pending")
	}
	q := c.questions[c.idx]
	value = strings.TrimSpace(value)
	if value == "" && q.Required {
		return fmt.Errorf("%s is required", q.Name)
	}
	c.answers[q.Name] = value
	c.idx++
	return nil
}

// Done reports whether every question has been answered or skipped.
func (c *Collector) Done() bool {
	return c.idx >= len(c.questions)
}

// Command builds the collected command. The leaf is the chosen name with
// whitespace collapsed to the slug separator; dir is nil when the
// directory question was skipped.
func (c *Collector) Command() (leaf string, cmd script.Command, dir *script.Directory, err error) {
	if !c.Done() {
		return "", script.Command{}, nil, fmt.Errorf("collector still has pending questions")
	}
	leaf = script.Slug(c.answers[FieldName])
	if leaf == "" {
		return "", script.Command{}, nil, fmt.Errorf("command name %q slugs to nothing", c.answers[FieldName])
	}
	cmd = script.Command{
		Directives: []string{c.answers[FieldDirective]},
		Message:    c.answers[FieldMessage],
	}
	if path := c.answers[FieldDirectory]; path != "" {
		dir = &script.Directory{Path: path}
	}
	return leaf, cmd, dir, nil
}
