package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/infra/catalog"
	"github.com/kilianp07/evroute/infra/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the data files",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	known := map[string]bool{}
	for _, t := range coremetrics.SinkTypes() {
		known[t] = true
	}
	for _, s := range cfg.Metrics.Sinks {
		if !known[s.Type] {
			return fmt.Errorf("metrics: unknown sink type %q (available: %s)", s.Type, strings.Join(coremetrics.SinkTypes(), ", "))
		}
	}
	cat, err := catalog.Load(cfg.Data.Files(), logger.New("catalog"))
	if err != nil {
		return err
	}
	if v := cfg.Planner.DefaultVehicle; v != "" {
		if _, ok := cat.Vehicles[v]; !ok {
			return fmt.Errorf("planner: default vehicle %q not in catalog", v)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration ok: %d locations, %d roads, %d vehicles\n",
		len(cat.Graph.Nodes()), cat.Graph.EdgeCount(), len(cat.Vehicles))
	return nil
}
