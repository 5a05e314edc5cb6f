// Package cli implements the deepsplit command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/deepsplit/internal/checkpoint"
	"github.com/randalmurphal/deepsplit/internal/workflow"
)

// statusReport is the JSON shape of the status command.
type statusReport struct {
	PlanningDir    string              `json:"planning_dir"`
	SessionStarted bool                `json:"session_started"`
	CreatedAt      string              `json:"created_at,omitempty"`
	State          *workflow.Detection `json:"state"`
}

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [planning-dir]",
		Short: "Show detected workflow state",
		Long: `Show the workflow state detected from the planning directory.

The state is derived entirely from files on disk, so status never
disagrees with what a resumed session would see.

Examples:
  deepsplit status
  deepsplit status ./planning --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			detection, err := workflow.Detect(abs)
			if err != nil {
				return fmt.Errorf("detect workflow state: %w", err)
			}

			report := statusReport{PlanningDir: abs, State: detection}
			if cp, err := checkpoint.Load(abs); err == nil && cp != nil {
				report.SessionStarted = true
				report.CreatedAt = cp.CreatedAt
			}

			if jsonOut || !isatty.IsTerminal(os.Stdout.Fd()) {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printStatus(report)
		},
	}
}

func printStatus(report statusReport) error {
	fmt.Printf("Planning dir: %s\n", report.PlanningDir)
	if report.SessionStarted {
		fmt.Printf("Session started: %s\n", report.CreatedAt)
	} else {
		fmt.Println("No session started yet.")
	}

	st := report.State
	fmt.Printf("Resume from: %s\n\n", st.ResumeStep)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ARTIFACT\tSTATUS")
	_, _ = fmt.Fprintf(w, "interview\t%s\n", doneMark(st.InterviewComplete))
	_, _ = fmt.Fprintf(w, "manifest\t%s\n", doneMark(st.ManifestCreated))
	_, _ = fmt.Fprintf(w, "split dirs\t%s\n", doneMark(st.DirectoriesCreated))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(st.Splits) > 0 {
		fmt.Println("\nSplits:")
		specced := make(map[string]bool, len(st.SplitsWithSpecs))
		for _, s := range st.SplitsWithSpecs {
			specced[s] = true
		}
		for _, s := range st.Splits {
			mark := " "
			if specced[s] {
				mark = "✓"
			}
			fmt.Printf("  [%s] %s\n", mark, s)
		}
	}
	return nil
}

func doneMark(done bool) string {
	if done {
		return "✓ done"
	}
	return "pending"
}
