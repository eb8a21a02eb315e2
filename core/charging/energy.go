package charging

import (
	"math"

	"github.com/kilianp07/evroute/core/model"
)

// Step is the SoC granularity in percent.
const Step = 10

// round10 rounds a percentage to the nearest bucket, halves to even.
func round10(v float64) int {
	return int(math.RoundToEven(v/Step)) * Step
}

func clampSoC(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// legEnergy returns the rounded share of the battery needed to drive distance.
// The value may exceed 100 when the leg is longer than the full-battery range.
func legEnergy(distance, rangePerKWh, batteryKWh float64) int {
	return round10((distance / rangePerKWh) / batteryKWh * 100)
}

// EnergyNeeded returns the energy, in percent of the battery and rounded to
// the nearest 10%, needed to drive distance km. The result is within [0,100].
func EnergyNeeded(distance, rangePerKWh, batteryKWh float64) int {
	return clampSoC(legEnergy(distance, rangePerKWh, batteryKWh))
}

// ChargingTime returns the hours needed to charge from socStart to socEnd.
// Both bounds are rounded to the nearest bucket. Each bucket in
// [socStart, socEnd) adds 10% of the battery divided by the curve power of
// that bucket; buckets without power are skipped.
func ChargingTime(socStart, socEnd int, batteryKWh float64, curve model.ChargingCurve) float64 {
	start, end := round10(float64(socStart)), round10(float64(socEnd))
	var hours float64
	for soc := start; soc < end; soc += Step {
		p := curve.Power(soc)
		if p <= 0 {
			continue
		}
		hours += 0.1 * batteryKWh / p
	}
	return hours
}
