// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNilScript is returned by Copy when asked to clone a nil script.
	ErrNilScript = errors.New("cannot copy a nil script")

	// ErrDanglingChoice is the sentinel error wrapped by DanglingChoiceError.
	ErrDanglingChoice = errors.New("choice resolves to no node")
)

type (
	// Script is the unit of parsing, execution, and persistence: a named
	// tree of options and commands addressed by hierarchical keys, with
	// sparse per-command directory overrides. Mutation goes through the
	// upsert accessors only; values are replaced whole, never edited in
	// place, so copies stay cheap to reason about.
	Script struct {
		// Name is the script identifier and its root key.
		Name string `yaml:"name"`
		// Options maps keys to question nodes.
		Options map[string]Option `yaml:"options,omitempty"`
		// Commands maps keys to leaf nodes.
		Commands map[string]Command `yaml:"commands,omitempty"`
		// Directories maps command keys to working-directory overrides.
		Directories map[string]Directory `yaml:"directories,omitempty"`
	}

	// DanglingChoiceError reports a choice label that resolves to neither
	// an option key nor a command key. It signals a corrupted or hand-edited
	// script; traversal must stop rather than guess.
	DanglingChoiceError struct {
		OptionKey string
		Label     string
	}
)

// Error implements the error interface.
func (e *DanglingChoiceError) Error() string {
	return fmt.Sprintf("option %q lists choice %q which resolves to no option or command", e.OptionKey, e.Label)
}

// Unwrap returns ErrDanglingChoice so callers can use errors.Is.
func (e *DanglingChoiceError) Unwrap() error { return ErrDanglingChoice }

// New creates an empty script rooted at name.
func New(name string) *Script {
	return &Script{
		Name:        name,
		Options:     make(map[string]Option),
		Commands:    make(map[string]Command),
		Directories: make(map[string]Directory),
	}
}

// AddOption upserts the option at key. Adding and updating share
// replace-by-key semantics.
func (s *Script) AddOption(key string, o Option) { s.UpdateOption(key, o) }

// UpdateOption upserts the option at key.
func (s *Script) UpdateOption(key string, o Option) {
	if s.Options == nil {
		s.Options = make(map[string]Option)
	}
	s.Options[key] = o
}

// AddCommand upserts the command at key.
func (s *Script) AddCommand(key string, c Command) { s.UpdateCommand(key, c) }

// UpdateCommand upserts the command at key.
func (s *Script) UpdateCommand(key string, c Command) {
	if s.Commands == nil {
		s.Commands = make(map[string]Command)
	}
	s.Commands[key] = c
}

// UpdateDirectory upserts the directory override for a command key.
func (s *Script) UpdateDirectory(key string, d Directory) {
	if s.Directories == nil {
		s.Directories = make(map[string]Directory)
	}
	s.Directories[key] = d
}

// Option returns the option at key, reporting absence via the bool.
func (s *Script) Option(key string) (Option, bool) {
	o, ok := s.Options[key]
	return o, ok
}

// Command returns the command at key, reporting absence via the bool.
func (s *Script) Command(key string) (Command, bool) {
	c, ok := s.Commands[key]
	return c, ok
}

// Directory returns the directory override for a command key, if any.
func (s *Script) Directory(key string) (Directory, bool) {
	d, ok := s.Directories[key]
	return d, ok
}

// HasOption reports whether an option exists at key.
func (s *Script) HasOption(key string) bool {
	_, ok := s.Options[key]
	return ok
}

// HasCommand reports whether a command exists at key.
func (s *Script) HasCommand(key string) bool {
	_, ok := s.Commands[key]
	return ok
}

// Root returns the script's root key.
func (s *Script) Root() string { return s.Name }

// Copy returns a fully independent deep clone: mutating any map or nested
// slice on the clone leaves the source untouched. Copying nil is an error,
// not a zero value.
func Copy(src *Script) (*Script, error) {
	if src == nil {
		return nil, ErrNilScript
	}
	dst := New(src.Name)
	for k, o := range src.Options {
		dst.Options[k] = o.clone()
	}
	for k, c := range src.Commands {
		dst.Commands[k] = c.clone()
	}
	for k, d := range src.Directories {
		dst.Directories[k] = d
	}
	return dst, nil
}

// Validate checks structural consistency: every non-sentinel choice label
// under an option must resolve to exactly one of an option or a command at
// the joined child key, and every directory override must belong to a known
// command. The first violation is returned.
func (s *Script) Validate() error {
	keys := make([]string, 0, len(s.Options))
	for k := range s.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		opt := s.Options[key]
		seen := make(map[string]struct{}, len(opt.Choices))
		for _, label := range opt.Choices {
			if _, dup := seen[label]; dup {
				return fmt.Errorf("option %q lists duplicate choice %q", key, label)
			}
			seen[label] = struct{}{}
			if IsSentinel(label) {
				continue
			}
			child := Join(key, label)
			_, isOpt := s.Options[child]
			_, isCmd := s.Commands[child]
			switch {
			case isOpt && isCmd:
				return fmt.Errorf("key %q is both an option and a command", child)
			case !isOpt && !isCmd:
				return &DanglingChoiceError{OptionKey: key, Label: label}
			}
		}
	}

	for key := range s.Directories {
		if _, ok := s.Commands[key]; !ok {
			return fmt.Errorf("directory override for %q has no matching command", key)
		}
	}
	return nil
}

// Keys returns all node keys (options and commands) in sorted order. Used
// by rendering and the remote exec surface.
func (s *Script) Keys() []string {
	keys := make([]string, 0, len(s.Options)+len(s.Commands))
	for k := range s.Options {
		keys = append(keys, k)
	}
	for k := range s.Commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CommandKeys returns the command keys in sorted order.
func (s *Script) CommandKeys() []string {
	keys := make([]string, 0, len(s.Commands))
	for k := range s.Commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe returns a one-line summary used by list output.
func (s *Script) Describe() string {
	return fmt.Sprintf("%s (%d options, %d commands)", s.Name, len(s.Options), len(s.Commands))
}

// IsBare reports whether the script is a single command keyed at the root
// with no options (the simple dialect's bare-string form).
func (s *Script) IsBare() bool {
	if len(s.Options) != 0 || len(s.Commands) != 1 {
		return false
	}
	_, ok := s.Commands[s.Name]
	return ok
}

// ResolveChoice resolves a choice label under an option key to the child
// key and its node kind. Sentinels resolve to no node.
func (s *Script) ResolveChoice(optionKey, label string) (childKey string, kind NodeKind) {
	if IsSentinel(label) {
		return "", NodeNone
	}
	child := Join(optionKey, label)
	if _, ok := s.Options[child]; ok {
		return child, NodeOption
	}
	if _, ok := s.Commands[child]; ok {
		return child, NodeCommand
	}
	return "", NodeNone
}

// NodeKind discriminates what a key resolves to.
type NodeKind int

const (
	// NodeNone means the key resolves to nothing (or the label was a sentinel).
	NodeNone NodeKind = iota
	// NodeOption means the key is a question node.
	NodeOption
	// NodeCommand means the key is a leaf command.
	NodeCommand
)

// String returns a human-readable representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeOption:
		return "option"
	case NodeCommand:
		return "command"
	default:
		return "none"
	}
}

// ChildLabels returns, for an option key, the labels of its tree choices
// that currently resolve, preserving choice order. Helper for rendering.
func (s *Script) ChildLabels(optionKey string) []string {
	opt, ok := s.Options[optionKey]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(opt.Choices))
	for _, label := range opt.TreeChoices() {
		if _, kind := s.ResolveChoice(optionKey, label); kind != NodeNone {
			out = append(out, label)
		}
	}
	return out
}

// TrimSentinels returns labels with all sentinel entries removed, preserving
// order. The schema layer uses it when union-merging augmented choices.
func TrimSentinels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !IsSentinel(l) {
			out = append(out, l)
		}
	}
	return out
}

// NormalizeName trims a script name. Names share the key grammar's segment
// rules: no embedded separator.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("script name must not be empty")
	}
	if strings.Contains(name, Separator) {
		return "", fmt.Errorf("script name %q must not contain %q", name, Separator)
	}
	return name, nil
}
