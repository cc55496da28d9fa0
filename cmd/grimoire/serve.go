// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"grimoire-cli/internal/issue"
	"grimoire-cli/internal/remote"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newServeCommand creates the `grimoire serve` command.
func newServeCommand(app *App) *cobra.Command {
	var (
		host string
		port int
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Share saved scripts over SSH",
		Long: `Share the script registry over SSH.

The server prints a one-time password token at startup. Clients that
connect without a command get the script list; clients that pass a
<script>.<command> reference run that command with their own terminal
attached:

  ssh -p <port> grimoire@<host> deploy.build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app, host, port)
		},
	}

	serveCmd.Flags().StringVar(&host, "host", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (0 picks a free port)")
	return serveCmd
}

func runServe(ctx context.Context, app *App, host string, port int) error {
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

	runner, err := app.runner(cfg)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "serve",
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	srv := remote.New(remote.Config{
		Host:   remote.HostAddress(host),
		Port:   remote.ListenPort(port),
		Runner: runner,
		Logger: logger,
	}, reg)

	if err := srv.Start(ctx); err != nil {
		app.renderIssue(issue.ServeStartFailedId, cfg)
		return err
	}

	info, err := srv.ConnectionInfo()
	if err != nil {
		_ = srv.Stop()
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Sharing scripts over SSH"))
	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("address:"), srv.Address())
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("connect:"),
		CmdStyle.Render(fmt.Sprintf("ssh -p %d %s@%s", info.Port, info.User, info.Host)))
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("password:"), info.Token.String())
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("expires:"), info.ExpireAt.Format(time.RFC1123))
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("press Ctrl+C to stop"))

	select {
	case <-ctx.Done():
		if err := srv.Stop(); err != nil {
			return err
		}
		return nil
	case err := <-srv.Err():
		_ = srv.Stop()
		if err != nil {
			return fmt.Errorf("share server failed: %w", err)
		}
		return nil
	}
}
