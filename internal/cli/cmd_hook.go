// Package cli implements the deepsplit command-line interface.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/deepsplit/internal/config"
	"github.com/randalmurphal/deepsplit/internal/hook"
)

// newHookCmd creates the hook command group
func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Host lifecycle hook handlers",
		Long: `Handlers invoked by the host assistant's lifecycle hooks.

Hook handlers read their event payload from stdin and never fail:
a hook that errors would break the host session, so problems are
logged and swallowed.`,
	}

	cmd.AddCommand(newHookSessionStartCmd())
	return cmd
}

// newHookSessionStartCmd creates the hook session-start subcommand
func newHookSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session-start",
		Short: "Capture the session id at session start",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := io.ReadAll(os.Stdin)
			if err != nil {
				slog.Debug("read hook payload", "error", err)
				return nil
			}

			res := hook.SessionStart(payload, config.EnvFromProcess())
			if res != nil && len(res.Context) > 0 {
				_, _ = os.Stdout.Write(res.Context)
			}
			return nil
		},
	}
}
