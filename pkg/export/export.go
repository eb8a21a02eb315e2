// Package export writes planning results in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/evroute/core/model"
)

// NamedStrategy labels a charging strategy, e.g. "optimal" or "traditional".
type NamedStrategy struct {
	Name     string
	Strategy model.ChargingStrategy
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes one row per charging decision of every strategy.
func WriteCSV(w io.Writer, strategies ...NamedStrategy) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"strategy", "station", "arrival_soc", "charge_amount", "departure_soc"}); err != nil {
		return err
	}
	for _, s := range strategies {
		for _, d := range s.Strategy.Decisions {
			rec := []string{
				s.Name,
				d.Station,
				strconv.Itoa(d.DepartureSoC - d.ChargeAmount),
				strconv.Itoa(d.ChargeAmount),
				strconv.Itoa(d.DepartureSoC),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
