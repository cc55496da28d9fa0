// SPDX-License-Identifier: MPL-2.0

package schema

import "gopkg.in/yaml.v3"

// Dialect identifies which source declaration schema a document uses.
type Dialect string

const (
	// DialectAdvanced is the nested tree keyed by reserved tags.
	DialectAdvanced Dialect = "advanced"
	// DialectSimple is the flat colon-path mapping or a single bare string.
	DialectSimple Dialect = "simple"
	// DialectUnknown marks a document shape neither dialect accepts.
	DialectUnknown Dialect = ""
)

// Reserved tags of the advanced dialect. Their presence at the top level of
// a mapping is what distinguishes the dialects.
const (
	tagMessage     = "message"
	tagOptions     = "options"
	tagCommand     = "command"
	tagExitCommand = "exit-command"
	tagDirectory   = "directory"
	tagVariables   = "variables"
)

func isReservedTag(s string) bool {
	switch s {
	case tagMessage, tagOptions, tagCommand, tagExitCommand, tagDirectory, tagVariables:
		return true
	}
	return false
}

// Detect classifies a document. A scalar document is the simple dialect's
// bare-command form. A mapping whose top level carries any reserved tag is
// advanced; any other mapping is the simple flat form. Everything else is
// unknown and rejected by Parse.
func Detect(doc *yaml.Node) Dialect {
	root := resolve(doc)
	if root == nil {
		return DialectUnknown
	}
	switch root.Kind {
	case yaml.ScalarNode:
		return DialectSimple
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if isReservedTag(root.Content[i].Value) {
				return DialectAdvanced
			}
		}
		return DialectSimple
	default:
		return DialectUnknown
	}
}

// resolve unwraps document and alias indirection down to the content node.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}
