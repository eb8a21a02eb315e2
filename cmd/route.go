package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/config"
)

var routeFrom, routeTo string

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Print the shortest route between two locations",
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeFrom, "from", "", "start location")
	routeCmd.Flags().StringVar(&routeTo, "to", "", "destination")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	if err := requireEndpoints(routeFrom, routeTo); err != nil {
		return err
	}
	return withService(cmd, func(_ *config.Config, svc *app.Service) error {
		res, err := svc.FindRoute(routeFrom, routeTo)
		if err != nil {
			return err
		}
		printRoute(cmd.OutOrStdout(), "Shortest route", res, true)
		return nil
	})
}
