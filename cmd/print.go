package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/route"
)

func formatPath(p model.Path) string {
	return strings.Join(p, " -> ")
}

func printRoute(w io.Writer, title string, r route.Result, segments bool) {
	fmt.Fprintf(w, "%s: %s (%.2f km)\n", title, formatPath(r.Path), r.Distance)
	if !segments {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range r.Segments {
		fmt.Fprintf(tw, "  %s\t%s\t%.2f km\n", s.From, s.To, s.Distance)
	}
	tw.Flush()
}

func printStrategy(w io.Writer, title string, s model.ChargingStrategy) {
	fmt.Fprintf(w, "\n%s:\n", title)
	charged := s.ChargedStops()
	if len(charged) == 0 {
		fmt.Fprintln(w, "  no charging needed")
	}
	for _, d := range charged {
		fmt.Fprintf(w, "  at %s, charged from %d%% to %d%% (+%d%%)\n",
			d.Station, d.DepartureSoC-d.ChargeAmount, d.DepartureSoC, d.ChargeAmount)
	}
	fmt.Fprintf(w, "  total travel time: %.2f h\n", s.TotalTime)
	fmt.Fprintf(w, "  charging time:     %.2f h\n", s.ChargingTime)
	fmt.Fprintf(w, "  driving time:      %.2f h\n", s.DrivingTime)
	if len(s.Fallbacks) > 0 {
		fmt.Fprintf(w, "  warning: full charge assumed at stage(s) %v\n", s.Fallbacks)
	}
}
