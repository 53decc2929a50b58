package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"docvet/internal/repository"
)

func newRunsCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored validation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			if cfg.Store.Driver == "" || cfg.Store.Driver == repository.DriverNone {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled. Set store.driver to sqlite or postgres.")
				return nil
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.svc.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fail(fmt.Errorf("listing runs: %w", err))
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for i := range runs {
				r := &runs[i]
				verdict := "passed"
				if !r.Passed {
					verdict = "failed"
				}
				rows = append(rows, []string{
					r.ID.String(),
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
					verdict,
					fmt.Sprint(r.Documents),
					fmt.Sprint(r.Failed),
					r.Kinds,
				})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "STARTED", "DURATION", "VERDICT", "DOCUMENTS", "FAILED", "KINDS").
				Rows(rows...)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs")
	return cmd
}
