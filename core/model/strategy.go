package model

// ChargingStop is a stage of the charging optimization. The last stop of a
// route has no outgoing leg.
type ChargingStop struct {
	Name           LocationID
	DistanceToNext float64
	HasNext        bool
}

// Decision records how much was charged at a station.
type Decision struct {
	Station      LocationID `json:"station"`
	ChargeAmount int        `json:"charge_amount"` // percentage points
	DepartureSoC int        `json:"departure_soc"` // percent
}

// ChargingStrategy is the result of a charging optimization. Times are in
// hours.
type ChargingStrategy struct {
	Decisions    []Decision `json:"decisions"`
	TotalTime    float64    `json:"total_time"`
	ChargingTime float64    `json:"charging_time"`
	DrivingTime  float64    `json:"driving_time"`
	// Fallbacks lists the stages whose outgoing leg was forced by assuming
	// a full battery. A non-empty list means the plan is best effort.
	Fallbacks []int `json:"fallbacks,omitempty"`
}

// Reliable reports whether the strategy was computed without the full-charge
// fallback.
func (s ChargingStrategy) Reliable() bool { return len(s.Fallbacks) == 0 }

// ChargedStops returns the decisions with a positive charge amount.
func (s ChargingStrategy) ChargedStops() []Decision {
	var out []Decision
	for _, d := range s.Decisions {
		if d.ChargeAmount > 0 {
			out = append(out, d)
		}
	}
	return out
}
