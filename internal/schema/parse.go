// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"grimoire-cli/internal/script"
)

// ValidExtensions lists the file extensions the parser accepts.
var ValidExtensions = []string{".yml", ".yaml", ".json"}

// ParseFile loads and parses a script file. name becomes the script's root
// key; prior, when non-nil, is the previously persisted script of the same
// name and enables simple-dialect augmentation. prior is never mutated.
func ParseFile(name, path string, prior *script.Script) (*script.Script, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(name, path, doc, prior)
}

// ParseBytes parses script file content held in memory. path is used in
// error messages only.
func ParseBytes(name, path string, data []byte, prior *script.Script) (*script.Script, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Msg: "malformed document", Cause: err}
	}
	return parse(name, path, &doc, prior)
}

// Parse parses an already-decoded document.
func Parse(name string, doc *yaml.Node, prior *script.Script) (*script.Script, error) {
	return parse(name, "", doc, prior)
}

// LoadFile reads a script file and decodes it into a document node. The
// extension must be one of ValidExtensions; JSON decodes through the YAML
// decoder.
func LoadFile(path string) (*yaml.Node, error) {
	if ext := filepath.Ext(path); !slices.Contains(ValidExtensions, ext) {
		return nil, parseErrorf(path, "", "unsupported extension %q (want one of %s)",
			ext, strings.Join(ValidExtensions, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "cannot read file", Cause: err}
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Msg: "malformed document", Cause: err}
	}
	return &doc, nil
}

// NameFromPath derives a script name from a file path: the base name with
// its extension stripped, slugged into a single key segment.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return script.Slug(strings.TrimSuffix(base, filepath.Ext(base)))
}

func parse(name, path string, doc *yaml.Node, prior *script.Script) (*script.Script, error) {
	normalized, err := script.NormalizeName(name)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "invalid script name", Cause: err}
	}
	if prior != nil && prior.Name != normalized {
		return nil, parseErrorf(path, "", "stored script %q cannot absorb a parse for %q", prior.Name, normalized)
	}

	switch Detect(doc) {
	case DialectAdvanced:
		// Advanced re-parse replaces the stored tree wholesale.
		return parseAdvanced(normalized, path, resolve(doc))
	case DialectSimple:
		return parseSimple(normalized, path, resolve(doc), prior)
	default:
		return nil, parseErrorf(path, "", "document must be a mapping or a single command string")
	}
}

// finish runs the shared structural check both dialects end with.
func finish(path string, s *script.Script) (*script.Script, error) {
	if err := s.Validate(); err != nil {
		return nil, &ParseError{Path: path, Msg: "inconsistent script", Cause: err}
	}
	return s, nil
}
