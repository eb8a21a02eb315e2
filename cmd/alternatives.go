package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/config"
)

var (
	altFrom, altTo string
	altCount       int
	altPenalty     float64
)

var alternativesCmd = &cobra.Command{
	Use:   "alternatives",
	Short: "Print the shortest route and alternatives avoiding its roads",
	RunE:  runAlternatives,
}

func init() {
	alternativesCmd.Flags().StringVar(&altFrom, "from", "", "start location")
	alternativesCmd.Flags().StringVar(&altTo, "to", "", "destination")
	alternativesCmd.Flags().IntVarP(&altCount, "count", "k", 0, "number of routes, shortest included (default planner.alternatives)")
	alternativesCmd.Flags().Float64Var(&altPenalty, "penalty", 0, "penalty factor in (2, 10] (default planner.penalty_factor)")
	rootCmd.AddCommand(alternativesCmd)
}

func runAlternatives(cmd *cobra.Command, args []string) error {
	if err := requireEndpoints(altFrom, altTo); err != nil {
		return err
	}
	return withService(cmd, func(cfg *config.Config, svc *app.Service) error {
		k, factor := altCount, altPenalty
		if !cmd.Flags().Changed("count") {
			k = cfg.Planner.Alternatives
		}
		if !cmd.Flags().Changed("penalty") {
			factor = cfg.Planner.PenaltyFactor
		}
		routes, err := svc.FindRoutesWithPenalty(altFrom, altTo, k, factor)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, r := range routes {
			printRoute(out, fmt.Sprintf("Route %d", i+1), r, false)
		}
		if len(routes) < k {
			fmt.Fprintln(out, "no further alternative route")
		}
		return nil
	})
}
