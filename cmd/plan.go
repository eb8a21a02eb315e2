package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/config"
	"github.com/kilianp07/evroute/pkg/export"
)

var (
	planFrom, planTo, planVehicle string
	planFormat                    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip: route, optimal and traditional charging strategies",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFrom, "from", "", "start location")
	planCmd.Flags().StringVar(&planTo, "to", "", "destination")
	planCmd.Flags().StringVar(&planVehicle, "vehicle", "", "vehicle type (default planner.default_vehicle)")
	planCmd.Flags().StringVarP(&planFormat, "format", "o", "text", "output format: text, json or csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := requireEndpoints(planFrom, planTo); err != nil {
		return err
	}
	switch planFormat {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withService(cmd, func(_ *config.Config, svc *app.Service) error {
		plan, err := svc.PlanTrip(ctx, planFrom, planTo, planVehicle)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch planFormat {
		case "json":
			return export.WriteJSON(out, plan)
		case "csv":
			return export.WriteCSV(out,
				export.NamedStrategy{Name: "optimal", Strategy: plan.Optimal},
				export.NamedStrategy{Name: "traditional", Strategy: plan.Traditional})
		}
		fmt.Fprintf(out, "Plan %s for %s\n", plan.ID, plan.Vehicle)
		printRoute(out, "Shortest route", plan.Route, true)
		for i, alt := range plan.Alternatives {
			printRoute(out, fmt.Sprintf("Alternative %d", i+1), alt, false)
		}
		printStrategy(out, "Optimal charging strategy", plan.Optimal)
		printStrategy(out, "Traditional charging strategy", plan.Traditional)
		fmt.Fprintf(out, "\nTime savings compared to traditional fill-up: %.2f h (%.2f%% reduction)\n",
			plan.Comparison.Savings, plan.Comparison.SavingsRatio*100)
		return nil
	})
}
