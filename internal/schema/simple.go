// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"grimoire-cli/internal/script"
)

// PathSeparator delimits segments in simple-dialect compact paths.
const PathSeparator = ":"

func parseSimple(name, path string, root *yaml.Node, prior *script.Script) (*script.Script, error) {
	fresh, err := buildSimple(name, path, root)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return finish(path, fresh)
	}
	merged, err := augment(path, prior, fresh)
	if err != nil {
		return nil, err
	}
	return finish(path, merged)
}

func buildSimple(name, path string, root *yaml.Node) (*script.Script, error) {
	s := script.New(name)

	// Bare-command form: the whole document is one directive, keyed at the
	// script's own key. Running such a script executes it immediately.
	if root.Kind == yaml.ScalarNode {
		if strings.TrimSpace(root.Value) == "" {
			return nil, parseErrorf(path, name, "command must not be empty")
		}
		s.AddCommand(name, script.Command{Directives: []string{root.Value}})
		return s, nil
	}

	if len(root.Content) == 0 {
		return nil, parseErrorf(path, "", "document declares no paths")
	}

	// childOrder records, per inferred option key, the child labels in
	// first-encounter order. That order is the menu's choice order.
	childOrder := make(map[string][]string)
	isLeaf := make(map[string]bool)

	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, parseErrorf(path, "", "path keys must be strings")
		}
		if v.Kind != yaml.ScalarNode || strings.TrimSpace(v.Value) == "" {
			return nil, parseErrorf(path, k.Value, "path must map to a directive string")
		}

		segs, err := splitPath(path, k.Value)
		if err != nil {
			return nil, err
		}

		key := name
		for _, seg := range segs {
			if isLeaf[key] {
				return nil, parseErrorf(path, key, "path %q descends through a command", k.Value)
			}
			if !slices.Contains(childOrder[key], seg) {
				childOrder[key] = append(childOrder[key], seg)
			}
			key = script.Join(key, seg)
		}
		if isLeaf[key] {
			return nil, parseErrorf(path, key, "path %q is declared twice", k.Value)
		}
		if _, hasChildren := childOrder[key]; hasChildren {
			return nil, parseErrorf(path, key, "path %q is both a command and a prefix of deeper paths", k.Value)
		}
		isLeaf[key] = true
		s.AddCommand(key, script.Command{Directives: []string{v.Value}})
	}

	for optKey, labels := range childOrder {
		choices := labels
		if script.Depth(optKey) > 1 {
			choices = append(choices, script.ChoiceBack)
		}
		choices = append(choices, script.ChoiceQuit)
		s.AddOption(optKey, script.Option{
			Name:    script.LeafName(optKey),
			Choices: choices,
		})
	}
	return s, nil
}

func splitPath(path, raw string) ([]string, error) {
	parts := strings.Split(raw, PathSeparator)
	segs := make([]string, 0, len(parts))
	for _, part := range parts {
		seg := script.Slug(part)
		if seg == "" {
			return nil, parseErrorf(path, "", "path %q contains an empty segment", raw)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// augment union-merges a freshly parsed simple script into a deep copy of
// the stored one. Stored choices keep their position; new choices append in
// the new file's encounter order; sentinels are stripped from the
// comparison and re-appended once. Parsing the same file twice equals
// parsing it once.
func augment(path string, prior, fresh *script.Script) (*script.Script, error) {
	merged, err := script.Copy(prior)
	if err != nil {
		return nil, err
	}

	for _, key := range fresh.CommandKeys() {
		if merged.HasOption(key) {
			return nil, &ParseError{Path: path, Key: key, Msg: "key changes from a menu to a command; remove the stored script to restructure", Cause: ErrShapeConflict}
		}
		cmd, _ := fresh.Command(key)
		merged.UpdateCommand(key, cmd)
	}

	optKeys := make([]string, 0, len(fresh.Options))
	for k := range fresh.Options {
		optKeys = append(optKeys, k)
	}
	slices.Sort(optKeys)
	for _, key := range optKeys {
		if merged.HasCommand(key) {
			return nil, &ParseError{Path: path, Key: key, Msg: "key changes from a command to a menu; remove the stored script to restructure", Cause: ErrShapeConflict}
		}
		incoming, _ := fresh.Option(key)
		existing, ok := merged.Option(key)
		if !ok {
			merged.AddOption(key, incoming)
			continue
		}
		labels := script.TrimSentinels(existing.Choices)
		for _, label := range script.TrimSentinels(incoming.Choices) {
			if !slices.Contains(labels, label) {
				labels = append(labels, label)
			}
		}
		if script.Depth(key) > 1 {
			labels = append(labels, script.ChoiceBack)
		}
		labels = append(labels, script.ChoiceQuit)
		existing.Choices = labels
		merged.UpdateOption(key, existing)
	}
	return merged, nil
}
