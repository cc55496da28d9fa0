// SPDX-License-Identifier: MPL-2.0

package script

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the segments of a hierarchical key. Leaf names must not
// contain it; the schema layer and the collector both normalize names
// through Slug before building keys.
const Separator = "."

// ErrInvalidKey is the sentinel error wrapped by InvalidKeyError.
var ErrInvalidKey = errors.New("invalid script key")

type (
	// Key is a dot-separated hierarchical identifier rooted at a script's
	// name (e.g. "tie-fighter.millennium-falcon.missiles"). Keys are
	// prefix-closed: a parent key exists before any child key under it.
	Key string

	// InvalidKeyError is returned when a Key is empty or contains an empty
	// segment (leading, trailing, or doubled separator).
	InvalidKeyError struct {
		Value Key
	}
)

// Error implements the error interface.
func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid script key %q (segments must be non-empty)", e.Value)
}

// Unwrap returns ErrInvalidKey so callers can use errors.Is for detection.
func (e *InvalidKeyError) Unwrap() error { return ErrInvalidKey }

// IsValid returns whether the Key is a well-formed hierarchical identifier,
// and a list of validation errors if it is not.
func (k Key) IsValid() (bool, []error) {
	if k == "" {
		return false, []error{&InvalidKeyError{Value: k}}
	}
	for _, seg := range strings.Split(string(k), Separator) {
		if strings.TrimSpace(seg) == "" {
			return false, []error{&InvalidKeyError{Value: k}}
		}
	}
	return true, nil
}

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// Join appends a leaf name to a parent key. An empty parent yields the
// leaf itself, so Join(ParentKey(k), LeafName(k)) rebuilds any key.
func Join(parent, leaf string) string {
	if parent == "" {
		return leaf
	}
	return parent + Separator + leaf
}

// ParentKey returns the key one level above, or "" for a root key.
func ParentKey(key string) string {
	idx := strings.LastIndex(key, Separator)
	if idx < 0 {
		return ""
	}
	return key[:idx]
}

// LeafName returns the last segment of a key.
func LeafName(key string) string {
	idx := strings.LastIndex(key, Separator)
	if idx < 0 {
		return key
	}
	return key[idx+1:]
}

// Depth returns the number of segments in a key. A script's root key has
// depth 1.
func Depth(key string) int {
	if key == "" {
		return 0
	}
	return strings.Count(key, Separator) + 1
}

// Slug converts a human-entered name into a single key segment by collapsing
// whitespace runs into "-". The hierarchy separator is reserved, so a slug
// also rejects embedded dots by folding them into "-".
func Slug(name string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(name), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '.'
	})
	return strings.Join(fields, "-")
}
