// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/script"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// newPrintCommand creates the `grimoire print` command.
func newPrintCommand(app *App) *cobra.Command {
	var markdown bool

	printCmd := &cobra.Command{
		Use:   "print <script>",
		Short: "Show a saved script's tree",
		Long: `Show a saved script's tree of menus and commands.

The default output is a box-drawing tree. With --markdown the tree is
emitted as markdown and rendered through glamour, which pipes cleanly
into pagers and docs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd.Context(), app, args[0], markdown)
		},
	}

	printCmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "render the tree as markdown")
	return printCmd
}

func runPrint(ctx context.Context, app *App, name string, markdown bool) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	reg, cleanup, err := app.openRegistry(cfg)
	if err != nil {
		app.renderIssue(issue.RegistryUnavailableId, cfg)
		return err
	}
	defer cleanup()

	s, err := pickScript(ctx, app, cfg, reg, name, "which script do you want to print?")
	if err != nil || s == nil {
		return err
	}

	if markdown {
		md := markdownFor(s)
		rendered, err := glamour.Render(md, styleFor(cfg))
		if err != nil {
			// Fall back to the raw markdown rather than failing the print.
			fmt.Fprint(app.stdout, md)
			return nil
		}
		fmt.Fprint(app.stdout, rendered)
		return nil
	}

	writeScriptTree(app.stdout, s)
	return nil
}

// writeScriptTree renders the script as a box-drawing tree.
func writeScriptTree(w io.Writer, s *script.Script) {
	header := TitleStyle.Render(s.Name)
	if opt, ok := s.Option(s.Root()); ok && opt.Message != "" {
		header += SubtitleStyle.Render("  (" + opt.Message + ")")
	}
	fmt.Fprintln(w, header)

	if s.IsBare() {
		cmd, _ := s.Command(s.Root())
		fmt.Fprintf(w, "└── %s%s\n", CmdStyle.Render(s.Name), SubtitleStyle.Render(commandSummary(s, s.Root(), cmd)))
		return
	}
	writeTreeLevel(w, s, s.Root(), "")
}

func writeTreeLevel(w io.Writer, s *script.Script, key, prefix string) {
	labels := s.ChildLabels(key)
	for i, label := range labels {
		branch, cont := "├── ", "│   "
		if i == len(labels)-1 {
			branch, cont = "└── ", "    "
		}
		child, kind := s.ResolveChoice(key, label)
		switch kind {
		case script.NodeOption:
			fmt.Fprintf(w, "%s%s%s\n", prefix, branch, label)
			writeTreeLevel(w, s, child, prefix+cont)
		case script.NodeCommand:
			cmd, _ := s.Command(child)
			fmt.Fprintf(w, "%s%s%s%s\n", prefix, branch, CmdStyle.Render(label), SubtitleStyle.Render(commandSummary(s, child, cmd)))
		}
	}
}

// commandSummary is the one-line annotation after a command leaf.
func commandSummary(s *script.Script, key string, cmd script.Command) string {
	if len(cmd.Directives) == 0 {
		return ""
	}
	out := " → " + cmd.Directives[0]
	if extra := len(cmd.Directives) - 1; extra > 0 {
		out += fmt.Sprintf(" (+%d more)", extra)
	}
	if dir, ok := s.Directory(key); ok {
		out += " (in " + dir.Path + ")"
	}
	if cmd.Exit {
		out += " [exit]"
	}
	return out
}

// markdownFor renders the script tree as nested markdown lists.
func markdownFor(s *script.Script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Name)

	if s.IsBare() {
		cmd, _ := s.Command(s.Root())
		fmt.Fprintf(&b, "Bare command script.\n\n")
		for _, d := range cmd.Directives {
			fmt.Fprintf(&b, "- `%s`\n", d)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "%s\n\n", countSummary(s))
	writeMarkdownLevel(&b, s, s.Root(), 0)
	return b.String()
}

func writeMarkdownLevel(b *strings.Builder, s *script.Script, key string, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, label := range s.ChildLabels(key) {
		child, kind := s.ResolveChoice(key, label)
		switch kind {
		case script.NodeOption:
			fmt.Fprintf(b, "%s- **%s**\n", indent, label)
			writeMarkdownLevel(b, s, child, depth+1)
		case script.NodeCommand:
			cmd, _ := s.Command(child)
			line := fmt.Sprintf("%s- **%s**", indent, label)
			if len(cmd.Directives) > 0 {
				line += fmt.Sprintf(": `%s`", cmd.Directives[0])
			}
			if extra := len(cmd.Directives) - 1; extra > 0 {
				line += fmt.Sprintf(" *(+%d more)*", extra)
			}
			if dir, ok := s.Directory(child); ok {
				line += fmt.Sprintf(" *(in %s)*", dir.Path)
			}
			if cmd.Exit {
				line += " *(exit)*"
			}
			fmt.Fprintln(b, line)
		}
	}
}
