package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/legassign/app"
	"github.com/kilianp07/legassign/config"
	"github.com/kilianp07/legassign/core/assign"
	coremon "github.com/kilianp07/legassign/core/monitoring"
	"github.com/kilianp07/legassign/infra/logger"
)

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitInfeasible = 2
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "legassign",
	Short:         "Assign flight legs to aircraft",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, assign.ErrInfeasible) {
		fmt.Fprintf(os.Stderr, "infeasible: no assignment covers every leg within aircraft capacity (%v)\n", err)
		return ExitInfeasible
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return ExitError
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// withService builds the service and runs fn with a context cancelled on
// SIGINT or SIGTERM. The service monitor is installed globally for the call so
// that a panic inside fn is reported before it propagates.
func withService(cfg *config.Config, fn func(ctx context.Context, svc *app.Service) error, opts ...app.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	coremon.Init(svc.Monitor())
	defer coremon.Init(nil)

	defer coremon.Recover()
	return fn(ctx, svc)
}
