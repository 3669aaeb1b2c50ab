package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/legassign/app"
	"github.com/kilianp07/legassign/pkg/export"
)

var (
	solveOut    string
	solveFormat string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Build and solve the assignment model and write the plan",
	RunE:  solve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveOut, "output", "o", "", "output file (default from config, stdout when empty)")
	solveCmd.Flags().StringVar(&solveFormat, "format", "", "output format: csv or json")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if solveOut != "" {
		cfg.Output.Path = solveOut
		if solveFormat == "" {
			cfg.Output.Format = export.FormatFromPath(solveOut)
		}
	}
	if solveFormat != "" {
		cfg.Output.Format = solveFormat
	}
	if err := cfg.Output.Validate(); err != nil {
		return err
	}
	return withService(cfg, func(ctx context.Context, svc *app.Service) error {
		plan, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		if cfg.Output.Path == "" {
			return export.Write(cmd.OutOrStdout(), cfg.Output.Format, plan, cfg.Output.Options())
		}
		return nil
	})
}
