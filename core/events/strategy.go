package events

import "github.com/kilianp07/evroute/core/model"

// StrategyKind names the algorithm that produced a charging strategy.
type StrategyKind string

const (
	StrategyOptimal     StrategyKind = "optimal"
	StrategyTraditional StrategyKind = "traditional"
)

// StrategyEvent is emitted once a charging strategy has been computed.
type StrategyEvent struct {
	PlanID   string
	Vehicle  string
	Kind     StrategyKind
	Strategy model.ChargingStrategy
}

// FallbackEvent is emitted when no SoC bucket of a stage could reach the next
// stop and the optimizer assumed a full battery instead.
type FallbackEvent struct {
	Stage        int
	Station      model.LocationID
	EnergyNeeded int
	Applied      bool // false when even a full battery cannot cover the leg
}

// PlanFailedEvent is emitted when a planning request returns an error.
type PlanFailedEvent struct {
	PlanID string
	Stage  string // "vehicle", "route" or "charging"
	Err    error
}
