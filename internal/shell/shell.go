// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnknownMode is the sentinel error wrapped by UnknownModeError.
var ErrUnknownMode = errors.New("unknown runner mode")

type (
	// Mode selects which runner executes directives.
	Mode string

	// UnknownModeError is returned when a Mode names no known runner.
	UnknownModeError struct {
		Value Mode
	}
)

const (
	// ModeNative executes directives with the system's default shell.
	ModeNative Mode = "native"
	// ModeVirtual executes directives with the built-in interpreter.
	ModeVirtual Mode = "virtual"
)

// Error implements the error interface.
func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown runner mode %q (must be %q or %q)", e.Value, ModeNative, ModeVirtual)
}

// Unwrap returns ErrUnknownMode so callers can use errors.Is for detection.
func (e *UnknownModeError) Unwrap() error { return ErrUnknownMode }

// IsValid returns whether the Mode names a known runner, and a list of
// validation errors if it does not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeNative, ModeVirtual:
		return true, nil
	}
	return false, []error{&UnknownModeError{Value: m}}
}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

type (
	// Request describes one command's execution: its directive sequence,
	// an optional working directory, and extra environment entries layered
	// over the inherited environment.
	Request struct {
		// Directives are the shell lines to run, strictly in order.
		Directives []string
		// Dir is the working directory; empty means the ambient one.
		Dir string
		// Env holds extra variables exported to every directive.
		Env map[string]string
		// Stdin, Stdout, Stderr wire the directive's I/O. Nil values fall
		// back to the process's own streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result reports how a directive sequence ended. A non-zero ExitCode
	// with a nil Err is a normal process failure; Err marks an
	// infrastructure problem (no shell, parse failure, spawn error).
	Result struct {
		// ExitCode is the exit code of the last directive that ran.
		ExitCode int
		// Err contains any error that occurred outside the process's own
		// exit status.
		Err error
	}

	// Runner executes a Request.
	Runner interface {
		// Name returns the runner name.
		Name() string
		// Available reports whether this runner can execute on the current
		// system.
		Available() bool
		// Run executes the request's directives in order, stopping at the
		// first failure. It blocks until the sequence finishes.
		Run(ctx context.Context, req Request) Result
	}
)

// Failed reports whether the result is anything but a clean exit.
func (r Result) Failed() bool {
	return r.ExitCode != 0 || r.Err != nil
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code int, err error) Result {
	return Result{ExitCode: code, Err: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() Result {
	return Result{}
}

// ForMode returns the runner a configuration mode names.
func ForMode(mode Mode) (Runner, error) {
	switch mode {
	case ModeNative:
		return NewNative(), nil
	case ModeVirtual:
		return NewVirtual(), nil
	default:
		return nil, &UnknownModeError{Value: mode}
	}
}

func (req Request) stdio() (io.Reader, io.Writer, io.Writer) {
	in, out, errw := req.Stdin, req.Stdout, req.Stderr
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return in, out, errw
}

// envSlice flattens the request's extra variables into KEY=VALUE form,
// appended after the inherited environment so they take precedence.
func (req Request) envSlice() []string {
	env := os.Environ()
	for k, v := range req.Env {
		env = append(env, k+"="+v)
	}
	return env
}
