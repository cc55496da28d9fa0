// SPDX-License-Identifier: MPL-2.0

package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"grimoire-cli/internal/prompt"
	"grimoire-cli/internal/script"
	"grimoire-cli/internal/shell"
)

// Driver wires a Session to the prompt and shell collaborators and owns
// every side effect the pure state machine refuses to perform: asking,
// printing, and running.
type Driver struct {
	Prompter prompt.Prompter
	Runner   shell.Runner

	// Stdin, Stdout, Stderr wire command I/O and message printing. Nil
	// values fall back to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDriver creates a driver on the process's standard streams.
func NewDriver(p prompt.Prompter, r shell.Runner) *Driver {
	return &Driver{Prompter: p, Runner: r}
}

// Run walks the session to termination: prompt, answer, and on each
// execute step run the command's directives (blocking, strictly
// sequential, in the directory override if one exists). After a non-exit
// command the same option re-prompts. The returned result is the exit
// outcome of the session's final command: the bare command for one-shot
// scripts, the exit command when one terminated the session, success when
// the user quit.
//
// Aborting a prompt counts as quitting. Command failures are reported on
// stderr and the menu continues; they are single deterministic attempts,
// never retried.
func (d *Driver) Run(ctx context.Context, sess *Session) (shell.Result, error) {
	last := shell.NewSuccessResult()

	if step, ok := sess.Immediate(); ok {
		return d.execute(ctx, step), nil
	}

	for {
		p, ok := sess.Prompt()
		if !ok {
			return last, nil
		}
		answer, err := d.Prompter.Ask(p)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return last, nil
			}
			return last, err
		}
		step, err := sess.Answer(answer)
		if err != nil {
			return last, err
		}
		switch step.Kind {
		case StepExecute:
			res := d.execute(ctx, step)
			if step.Command.Exit {
				last = res
			}
			if res.Failed() {
				d.reportFailure(step, res)
			}
		case StepQuit:
			return last, nil
		case StepAddCommand:
			return last, fmt.Errorf("add-command outside a modify session")
		}
	}
}

// RunModify walks a modify session and reports what the user asked for:
// (ModificationAddCommand, option key) after an add-command selection, or
// ModificationNone when the walk ended without one.
func (d *Driver) RunModify(sess *Session) (Modification, string, error) {
	for {
		p, ok := sess.Prompt()
		if !ok {
			return ModificationNone, "", nil
		}
		answer, err := d.Prompter.Ask(p)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return ModificationNone, "", nil
			}
			return ModificationNone, "", err
		}
		step, err := sess.Answer(answer)
		if err != nil {
			return ModificationNone, "", err
		}
		switch step.Kind {
		case StepAddCommand:
			return ModificationAddCommand, step.Key, nil
		case StepQuit:
			return ModificationNone, "", nil
		case StepExecute:
			// Command leaves are filtered out of modify trees.
			return ModificationNone, "", fmt.Errorf("execute step inside a modify session")
		}
	}
}

// Collect drives the collector's question list through the prompter and
// returns the collected command parts. Required questions re-ask until
// answered.
func (d *Driver) Collect(c *Collector) (leaf string, cmd script.Command, dir *script.Directory, err error) {
	for {
		q, ok := c.NextQuestion()
		if !ok {
			break
		}
		answer, err := d.Prompter.Ask(prompt.Prompt{
			Kind:    prompt.KindInput,
			Name:    q.Name,
			Message: q.Message,
		})
		if err != nil {
			return "", script.Command{}, nil, err
		}
		if err := c.NextAnswer(answer); err != nil {
			// Required field left empty; the question stays pending.
			fmt.Fprintln(d.stderr(), err)
		}
	}
	return c.Command()
}

// ConfirmOverwrite asks whether an existing command at key should be
// replaced. Declining is a normal outcome, not an error.
func (d *Driver) ConfirmOverwrite(key string) (bool, error) {
	answer, err := d.Prompter.Ask(prompt.Prompt{
		Kind:    prompt.KindConfirm,
		Name:    "overwrite",
		Message: fmt.Sprintf("%q already exists. overwrite it?", key),
		Default: "no",
	})
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return false, nil
		}
		return false, err
	}
	return prompt.IsAffirmative(answer), nil
}

func (d *Driver) execute(ctx context.Context, step Step) shell.Result {
	if step.Command.Message != "" {
		fmt.Fprintln(d.stdout(), step.Command.Message)
	}
	return d.Runner.Run(ctx, shell.Request{
		Directives: step.Command.Directives,
		Dir:        step.Dir,
		Env:        step.Command.Variables,
		Stdin:      d.Stdin,
		Stdout:     d.Stdout,
		Stderr:     d.Stderr,
	})
}

func (d *Driver) reportFailure(step Step, res shell.Result) {
	if res.Err != nil {
		fmt.Fprintf(d.stderr(), "%s failed: %v\n", step.Key, res.Err)
		return
	}
	fmt.Fprintf(d.stderr(), "%s exited with code %d\n", step.Key, res.ExitCode)
}

func (d *Driver) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

func (d *Driver) stderr() io.Writer {
	if d.Stderr != nil {
		return d.Stderr
	}
	return os.Stderr
}
