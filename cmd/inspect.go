package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/legassign/app"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the inputs and report table sizes and capacity",
	RunE:  inspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func inspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withService(cfg, func(_ context.Context, svc *app.Service) error {
		sum, err := svc.Inspect()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "aircraft:       %d\n", sum.Aircraft)
		fmt.Fprintf(w, "demands:        %d\n", sum.Demands)
		fmt.Fprintf(w, "airports:       %d\n", sum.Airports)
		fmt.Fprintf(w, "distance/time:  %d\n", sum.DistanceTime)
		fmt.Fprintf(w, "capacity:       %d legs per aircraft (%d slots)\n", sum.Capacity, sum.Aircraft*sum.Capacity)
		if len(sum.Stages) > 0 {
			fmt.Fprintf(w, "stages:         %v\n", sum.Stages)
		}
		if sum.Feasible {
			fmt.Fprintln(w, "feasible:       yes")
		} else {
			fmt.Fprintln(w, "feasible:       no")
		}
		return nil
	})
}
