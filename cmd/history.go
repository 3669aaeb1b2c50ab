package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/legassign/app"
	"github.com/kilianp07/legassign/core/history"
	"github.com/kilianp07/legassign/core/model"
)

var (
	historyStatus   string
	historySince    time.Duration
	historyScenario string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded planning runs",
	RunE:  listHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "filter by status (optimal, infeasible, solver_error, parse_error, model_size_error)")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this duration, e.g. 24h")
	historyCmd.Flags().StringVar(&historyScenario, "scenario", "", "filter by scenario id")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show, 0 for all")
	rootCmd.AddCommand(historyCmd)
}

func listHistory(cmd *cobra.Command, args []string) error {
	q := history.Query{ScenarioID: historyScenario, Limit: historyLimit}
	if historyStatus != "" {
		q.Status = model.ParsePlanStatus(historyStatus)
		if q.Status == model.StatusUnknown {
			return fmt.Errorf("unknown status %q", historyStatus)
		}
	}
	if historySince > 0 {
		q.Start = time.Now().Add(-historySince)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withService(cfg, func(ctx context.Context, svc *app.Service) error {
		recs, err := svc.History(ctx, q)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tRUN\tSCENARIO\tSTATUS\tLEGS\tAIRCRAFT\tASSIGNED\tDURATION")
		for _, r := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.Timestamp.Format(time.RFC3339), r.RunID, r.ScenarioID, r.Status,
				r.Legs, r.Aircraft, len(r.Rows), r.Duration.Round(time.Millisecond))
		}
		return tw.Flush()
	})
}
