// Package cli implements the deepsplit command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/deepsplit/internal/config"
	"github.com/randalmurphal/deepsplit/internal/session"
	"github.com/randalmurphal/deepsplit/internal/task"
)

// newSetupCmd creates the setup command
func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Start or resume a splitting session",
		Long: `Start a new splitting session for a requirements document, or resume
the one already in progress in that document's directory.

The session state is derived from the files on disk, so setup is safe
to run any number of times. The result is always printed as JSON: it
is the contract with the invoking assistant.

Examples:
  deepsplit setup --file requirements.md
  deepsplit setup --file requirements.md --session-id sess-123
  deepsplit setup --file requirements.md --new-list
  deepsplit setup --file requirements.md --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			pluginRoot, _ := cmd.Flags().GetString("plugin-root")
			sessionID, _ := cmd.Flags().GetString("session-id")
			force, _ := cmd.Flags().GetBool("force")
			newList, _ := cmd.Flags().GetBool("new-list")

			env := config.EnvFromProcess()
			if newList {
				env.TaskListID = uuid.NewString()
			}

			res, err := session.Setup(session.Options{
				InputFile:        file,
				PluginRoot:       pluginRoot,
				ContextSessionID: sessionID,
				Force:            force,
				Env:              env,
				Store:            task.NewStore(tasksRoot()),
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("setup failed: %s", res.Code)
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "requirements document (.md)")
	cmd.Flags().String("plugin-root", "", "plugin root to surface via context tasks")
	cmd.Flags().String("session-id", "", "session id from the invoking hook context")
	cmd.Flags().Bool("force", false, "overwrite a conflicting user-specified task list")
	cmd.Flags().Bool("new-list", false, "target a freshly generated task list id")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
