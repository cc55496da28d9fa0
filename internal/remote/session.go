// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"grimoire-cli/internal/script"
	"grimoire-cli/internal/shell"
)

var (
	listTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	listNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	listCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	listHintStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
)

// sessionMiddleware dispatches SSH sessions: exec sessions run a command,
// sessions without one receive the script listing.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(_ ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			args := sess.Command()
			s.logger.Info("session opened",
				"user", sess.User(),
				"remote", sess.RemoteAddr().String(),
				"command", strings.Join(args, " "))

			if len(args) == 0 {
				s.listScripts(sess)
				return
			}
			s.runCommand(sess, args)
		}
	}
}

// listScripts renders the saved scripts to the session.
func (s *Server) listScripts(sess ssh.Session) {
	scripts, err := s.registry.Scripts(sess.Context())
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "cannot load scripts: %v\n", err)
		_ = sess.Exit(1) //nolint:errcheck
		return
	}

	_, _ = io.WriteString(sess, renderScriptList(scripts, s.cfg.Host.String(), s.Port()))
	_ = sess.Exit(0) //nolint:errcheck
}

// runCommand resolves and executes a <script>.<command-key> reference with
// the session's streams attached.
func (s *Server) runCommand(sess ssh.Session, args []string) {
	if len(args) != 1 {
		fmt.Fprintf(sess.Stderr(), "expected a single <script>.<command> reference, got %d arguments\n", len(args))
		_ = sess.Exit(1) //nolint:errcheck
		return
	}
	ref := args[0]

	scr, err := s.lookupScript(sess.Context(), ref)
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "%v\n", err)
		_ = sess.Exit(1) //nolint:errcheck
		return
	}

	cmd, key, err := resolveCommand(scr, ref)
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "%v\n", err)
		_ = sess.Exit(1) //nolint:errcheck
		return
	}

	if cmd.Message != "" {
		fmt.Fprintln(sess, cmd.Message)
	}

	req := shell.Request{
		Directives: cmd.Directives,
		Env:        sessionEnv(sess.Environ(), cmd.Variables),
		Stdin:      sess,
		Stdout:     sess,
		Stderr:     sess.Stderr(),
	}
	if dir, ok := scr.Directory(key); ok {
		req.Dir = dir.Path
	}

	res := s.runner.Run(sess.Context(), req)
	if res.Err != nil {
		fmt.Fprintf(sess.Stderr(), "%v\n", res.Err)
	}
	_ = sess.Exit(res.ExitCode) //nolint:errcheck
}

// lookupScript loads the script a session reference belongs to. The script
// name is the reference's first key segment; names never contain the key
// separator.
func (s *Server) lookupScript(ctx context.Context, ref string) (*script.Script, error) {
	name := scriptNameOf(ref)
	scr, ok, err := s.registry.Script(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("cannot load script %q: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("no script named %q", name)
	}
	return scr, nil
}

// scriptNameOf extracts the script name from a session reference.
func scriptNameOf(ref string) string {
	if i := strings.Index(ref, script.Separator); i >= 0 {
		return ref[:i]
	}
	return ref
}

// resolveCommand finds the command a session reference names within scr.
// A bare script answers to its plain name; everything else needs the full
// command key.
func resolveCommand(scr *script.Script, ref string) (script.Command, string, error) {
	if ref == scr.Name {
		if cmd, ok := scr.Command(scr.Root()); ok {
			return cmd, scr.Root(), nil
		}
		return script.Command{}, "", fmt.Errorf("script %q is interactive; name a command: %s",
			scr.Name, strings.Join(scr.CommandKeys(), ", "))
	}

	if cmd, ok := scr.Command(ref); ok {
		return cmd, ref, nil
	}
	return script.Command{}, "", fmt.Errorf("script %q has no command %q (available: %s)",
		scr.Name, ref, strings.Join(scr.CommandKeys(), ", "))
}

// sessionEnv layers command variables over the client's session environment.
func sessionEnv(sessEnviron []string, variables map[string]string) map[string]string {
	env := make(map[string]string, len(sessEnviron)+len(variables))
	for _, kv := range sessEnviron {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	for k, v := range variables {
		env[k] = v
	}
	return env
}

// renderScriptList builds the styled listing shown to sessions without a
// command.
func renderScriptList(scripts map[string]*script.Script, host string, port int) string {
	var b strings.Builder

	b.WriteString(listTitleStyle.Render("Saved scripts"))
	b.WriteString("\n\n")

	if len(scripts) == 0 {
		b.WriteString("  no scripts saved yet\n")
		return b.String()
	}

	names := make([]string, 0, len(scripts))
	width := 0
	for name := range scripts {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		scr := scripts[name]
		b.WriteString("  ")
		b.WriteString(listNameStyle.Render(fmt.Sprintf("%-*s", width, name)))
		b.WriteString("  ")
		b.WriteString(listCountStyle.Render(describeCounts(scr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := fmt.Sprintf("run one with: ssh -p %d grimoire@%s <script>.<command>", port, host)
	b.WriteString(listHintStyle.Render(hint))
	b.WriteString("\n")

	return b.String()
}

// describeCounts summarizes a script's size for the listing.
func describeCounts(scr *script.Script) string {
	cmds := len(scr.Commands)
	opts := len(scr.Options)

	out := fmt.Sprintf("%d %s", cmds, pluralize("command", cmds))
	if opts > 0 {
		out += fmt.Sprintf(", %d %s", opts, pluralize("option", opts))
	}
	return out
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
