// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"grimoire-cli/internal/script"
)

// advancedParser walks a nested declaration depth-first. Children are
// resolved before their parent's choice list is assembled, since the list
// is built from child leaf names in declaration order.
type advancedParser struct {
	path string
	s    *script.Script
}

func parseAdvanced(name, path string, root *yaml.Node) (*script.Script, error) {
	p := &advancedParser{path: path, s: script.New(name)}
	if err := p.walk(name, root, true); err != nil {
		return nil, err
	}
	return finish(path, p.s)
}

func (p *advancedParser) errf(key, format string, args ...any) *ParseError {
	return parseErrorf(p.path, key, format, args...)
}

func (p *advancedParser) walk(key string, node *yaml.Node, isRoot bool) error {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return p.errf(key, "node must be a mapping of reserved tags")
	}

	var (
		message  string
		dir      string
		hasDir   bool
		cmdNode  *yaml.Node
		exit     bool
		varsNode *yaml.Node
		optsNode *yaml.Node
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		switch k.Value {
		case tagMessage:
			if v.Kind != yaml.ScalarNode {
				return p.errf(key, "%q must be a string", tagMessage)
			}
			message = v.Value
		case tagDirectory:
			if v.Kind != yaml.ScalarNode || strings.TrimSpace(v.Value) == "" {
				return p.errf(key, "%q must be a non-empty path", tagDirectory)
			}
			dir, hasDir = v.Value, true
		case tagCommand, tagExitCommand:
			if cmdNode != nil {
				return p.errf(key, "node declares both %q and %q", tagCommand, tagExitCommand)
			}
			cmdNode, exit = v, k.Value == tagExitCommand
		case tagVariables:
			varsNode = v
		case tagOptions:
			optsNode = v
		default:
			return p.errf(key, "unknown tag %q (child entries belong under %q)", k.Value, tagOptions)
		}
	}

	switch {
	case cmdNode != nil && optsNode != nil:
		return p.errf(key, "node declares both %q and %q; a key is one or the other", tagCommand, tagOptions)
	case cmdNode != nil:
		return p.command(key, message, cmdNode, varsNode, dir, hasDir, exit)
	case optsNode != nil:
		if varsNode != nil {
			return p.errf(key, "%q is only valid alongside %q", tagVariables, tagCommand)
		}
		if hasDir {
			return p.errf(key, "%q is only valid alongside %q", tagDirectory, tagCommand)
		}
		return p.option(key, message, optsNode, isRoot)
	default:
		return p.errf(key, "node declares neither %q nor %q", tagOptions, tagCommand)
	}
}

func (p *advancedParser) command(key, message string, cmdNode, varsNode *yaml.Node, dir string, hasDir, exit bool) error {
	directives, err := p.directives(key, cmdNode)
	if err != nil {
		return err
	}
	vars, err := p.variables(key, varsNode)
	if err != nil {
		return err
	}
	p.s.AddCommand(key, script.Command{
		Directives: directives,
		Message:    message,
		Variables:  vars,
		Exit:       exit,
	})
	if hasDir {
		p.s.UpdateDirectory(key, script.Directory{Path: dir})
	}
	return nil
}

func (p *advancedParser) option(key, message string, optsNode *yaml.Node, isRoot bool) error {
	optsNode = resolve(optsNode)
	if optsNode == nil || optsNode.Kind != yaml.MappingNode {
		return p.errf(key, "%q must be a mapping of child names", tagOptions)
	}

	choices := make([]string, 0, len(optsNode.Content)/2+2)
	for i := 0; i+1 < len(optsNode.Content); i += 2 {
		childName := optsNode.Content[i].Value
		if strings.TrimSpace(childName) == "" {
			return p.errf(key, "child name must not be empty")
		}
		if strings.Contains(childName, script.Separator) {
			return p.errf(key, "child name %q must not contain %q", childName, script.Separator)
		}
		childKey := script.Join(key, childName)
		if err := p.walk(childKey, optsNode.Content[i+1], false); err != nil {
			return err
		}
		choices = append(choices, childName)
	}

	if !isRoot {
		choices = append(choices, script.ChoiceBack)
	}
	choices = append(choices, script.ChoiceQuit)
	p.s.AddOption(key, script.Option{
		Name:    script.LeafName(key),
		Message: message,
		Choices: choices,
	})
	return nil
}

// directives accepts three value forms: a single string, a YAML sequence,
// or a positionally-numbered mapping read in ascending order. A numbering
// gap is a hard error, never a silent truncation.
func (p *advancedParser) directives(key string, node *yaml.Node) ([]string, error) {
	node = resolve(node)
	if node == nil {
		return nil, p.errf(key, "command must not be empty")
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.TrimSpace(node.Value) == "" {
			return nil, p.errf(key, "command must not be empty")
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, p.errf(key, "command list entries must be strings")
			}
			out = append(out, item.Value)
		}
		if len(out) == 0 {
			return nil, p.errf(key, "command list must not be empty")
		}
		return out, nil
	case yaml.MappingNode:
		return p.positional(key, node)
	default:
		return nil, p.errf(key, "command must be a string, a list, or a numbered mapping")
	}
}

func (p *advancedParser) positional(key string, node *yaml.Node) ([]string, error) {
	type line struct {
		pos  int
		text string
	}
	lines := make([]line, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		pos, err := strconv.Atoi(k.Value)
		if err != nil {
			return nil, p.errf(key, "command position %q is not a number", k.Value)
		}
		if v.Kind != yaml.ScalarNode {
			return nil, p.errf(key, "command line %d must be a string", pos)
		}
		lines = append(lines, line{pos: pos, text: v.Value})
	}
	if len(lines) == 0 {
		return nil, p.errf(key, "command mapping must not be empty")
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].pos < lines[j].pos })
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		if l.pos != i+1 {
			return nil, p.errf(key, "command lines must be numbered 1..%d contiguously, found %d", len(lines), l.pos)
		}
		out = append(out, l.text)
	}
	return out, nil
}

// variables must be a flat string-keyed mapping of scalars; anything else
// aborts the whole parse.
func (p *advancedParser) variables(key string, node *yaml.Node) (map[string]string, error) {
	if node == nil {
		return nil, nil
	}
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, p.errf(key, "%q must be a flat mapping of names to values", tagVariables)
	}
	out := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, p.errf(key, "variable %q must map a name to a scalar value", k.Value)
		}
		out[k.Value] = v.Value
	}
	return out, nil
}
