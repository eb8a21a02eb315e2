package charging

import "github.com/kilianp07/evroute/core/model"

// Comparison summarizes how much faster the optimal strategy is than the
// baseline.
type Comparison struct {
	Savings      float64 `json:"savings"`       // hours saved
	SavingsRatio float64 `json:"savings_ratio"` // fraction of the baseline time
}

// Compare returns the time saved by optimal over baseline. The ratio is 0
// when the baseline takes no time.
func Compare(optimal, baseline model.ChargingStrategy) Comparison {
	c := Comparison{Savings: baseline.TotalTime - optimal.TotalTime}
	if baseline.TotalTime > 0 {
		c.SavingsRatio = 1 - optimal.TotalTime/baseline.TotalTime
	}
	return c
}
