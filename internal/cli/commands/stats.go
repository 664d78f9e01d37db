package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autorest/internal/cli/output"
	"github.com/leapstack-labs/autorest/internal/state"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-table request statistics from the journal",
		Long: `Read the request journal written by "autorest serve" and print, for each
table, the number of requests, the number of failed requests and the mean
and maximum latency.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutEngine(cmd)

			journal := state.NewSQLiteStore(cc.Logger)
			if err := journal.Open(cc.Cfg.JournalPath); err != nil {
				return fmt.Errorf("failed to open request journal: %w", err)
			}
			defer func() { _ = journal.Close() }()

			stats, err := journal.TableStats(cmd.Context())
			if err != nil {
				return err
			}
			return cc.Renderer.Render(stats, func(w io.Writer) error {
				renderStatsText(w, stats)
				return nil
			})
		},
	}
}

func renderStatsText(w io.Writer, stats []state.TableStat) {
	rows := make([][]any, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []any{
			s.Table,
			s.Requests,
			s.Errors,
			fmt.Sprintf("%.2f", s.MeanMillis),
			fmt.Sprintf("%.2f", s.MaxMillis),
		})
	}
	output.Table(w, []string{"table", "requests", "errors", "mean ms", "max ms"}, rows)
}
