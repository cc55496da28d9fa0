// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel all schema parse failures wrap. Parse errors are
// fatal: they abort before any Script exists.
var ErrParse = errors.New("script file parse failure")

// ErrShapeConflict marks the parse-failure subclass where a new file gives a
// stored key the opposite shape: a menu cannot become a command and a command
// cannot become a menu. Matching errors also wrap ErrParse.
var ErrShapeConflict = errors.New("script shape conflict")

// ParseError describes a structural problem in a script file. Path names
// the offending file when one is known; Key names the hierarchical key
// nearest the problem.
type ParseError struct {
	Path  string
	Key   string
	Msg   string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "script source"
	}
	if e.Key != "" {
		where += " at " + e.Key
	}
	if e.Cause != nil {
		return fmt.Sprintf("cannot parse %s: %s: %v", where, e.Msg, e.Cause)
	}
	return fmt.Sprintf("cannot parse %s: %s", where, e.Msg)
}

// Unwrap exposes both the ErrParse sentinel and the proximate cause so
// callers can match either with errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrParse, e.Cause}
	}
	return []error{ErrParse}
}

func parseErrorf(path, key, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Key: key, Msg: fmt.Sprintf(format, args...)}
}
