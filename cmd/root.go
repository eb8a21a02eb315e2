package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/config"
	"github.com/kilianp07/evroute/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "evroute",
	Short:         "Energy-aware EV route and charging planner",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withService loads the configuration, builds the service and closes it once
// fn returns, delivering pending metrics.
func withService(cmd *cobra.Command, fn func(*config.Config, *app.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	runErr := fn(cfg, svc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Close(ctx); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
	return runErr
}

func requireEndpoints(from, to string) error {
	if from == "" || to == "" {
		return fmt.Errorf("both --from and --to are required")
	}
	return nil
}
