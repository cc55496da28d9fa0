// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Virtual executes directives with the built-in POSIX interpreter. It needs
// no shell on the host, which also makes it the hermetic choice for tests.
type Virtual struct{}

// NewVirtual creates a virtual runner.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Name returns the runner name.
func (v *Virtual) Name() string { return string(ModeVirtual) }

// Available returns true; the interpreter is built in.
func (v *Virtual) Available() bool { return true }

// Validate parses every directive without running anything.
func (v *Virtual) Validate(req Request) error {
	parser := syntax.NewParser()
	for _, directive := range req.Directives {
		if _, err := parser.Parse(strings.NewReader(directive), "directive"); err != nil {
			return fmt.Errorf("directive syntax error in %q: %w", directive, err)
		}
	}
	return nil
}

// Run executes the request's directives in order, stopping at the first
// failure. A parse failure reports as that directive's failure.
func (v *Virtual) Run(ctx context.Context, req Request) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	stdin, stdout, stderr := req.stdio()
	parser := syntax.NewParser()

	for _, directive := range req.Directives {
		prog, err := parser.Parse(strings.NewReader(directive), "directive")
		if err != nil {
			return NewErrorResult(1, fmt.Errorf("failed to parse %q: %w", directive, err))
		}

		runner, err := interp.New(
			interp.Dir(req.Dir),
			interp.Env(expand.ListEnviron(req.envSlice()...)),
			interp.StdIO(stdin, stdout, stderr),
		)
		if err != nil {
			return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
		}

		if err := runner.Run(ctx, prog); err != nil {
			var exitStatus interp.ExitStatus
			if errors.As(err, &exitStatus) {
				return Result{ExitCode: int(exitStatus)}
			}
			return NewErrorResult(1, fmt.Errorf("directive %q failed: %w", directive, err))
		}
	}
	return NewSuccessResult()
}
