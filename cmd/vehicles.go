package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/config"
)

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "List the vehicle catalog",
	RunE:  runVehicles,
}

func init() {
	rootCmd.AddCommand(vehiclesCmd)
}

func runVehicles(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(_ *config.Config, svc *app.Service) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tBATTERY (kWh)\tRANGE (km/kWh)\tSOC (%)\tSPEED (km/h)")
		for _, name := range svc.VehicleNames() {
			v, err := svc.Vehicle(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%d\t%.0f\n", v.Name, v.BatteryKWh, v.RangePerKWh, v.CurrentSoC, v.Speed())
		}
		return tw.Flush()
	})
}
