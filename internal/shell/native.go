// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Native executes directives with the system's default shell.
type Native struct {
	// Shell overrides the default shell.
	Shell string
	// ShellArgs are arguments passed to the shell before the directive.
	ShellArgs []string
}

// NewNative creates a native runner using platform defaults.
func NewNative() *Native {
	return &Native{}
}

// Name returns the runner name.
func (n *Native) Name() string { return string(ModeNative) }

// Available returns whether a usable shell exists on this system.
func (n *Native) Available() bool {
	_, err := n.getShell()
	return err == nil
}

// Run executes the request's directives in order, one shell invocation per
// directive, stopping at the first failure.
func (n *Native) Run(ctx context.Context, req Request) Result {
	shell, err := n.getShell()
	if err != nil {
		return NewErrorResult(1, err)
	}

	stdin, stdout, stderr := req.stdio()
	env := req.envSlice()

	for _, directive := range req.Directives {
		args := append(n.getShellArgs(shell), directive)
		cmd := exec.CommandContext(ctx, shell, args...)
		cmd.Dir = req.Dir
		cmd.Env = env
		cmd.Stdin = stdin
		cmd.Stdout = stdout
		cmd.Stderr = stderr

		if err := cmd.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				return Result{ExitCode: exitErr.ExitCode()}
			}
			return NewErrorResult(1, fmt.Errorf("failed to execute %q: %w", directive, err))
		}
	}
	return NewSuccessResult()
}

// getShell determines which shell to use.
func (n *Native) getShell() (string, error) {
	if n.Shell != "" {
		return n.Shell, nil
	}

	switch runtime.GOOS {
	case "windows":
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", fmt.Errorf("no shell found")
	}
}

// getShellArgs returns the arguments to pass to the shell.
func (n *Native) getShellArgs(shell string) []string {
	if len(n.ShellArgs) > 0 {
		return n.ShellArgs
	}

	base := strings.TrimSuffix(filepath.Base(shell), ".exe")
	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}
