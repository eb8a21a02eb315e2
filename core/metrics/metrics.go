package metrics

import (
	"context"
	"time"
)

// RouteRecord describes a route returned to a caller.
type RouteRecord struct {
	PlanID      string
	Start       string
	End         string
	Distance    float64 // km
	Hops        int
	Alternative bool
	Time        time.Time
}

// MetricsSink records planning results for observability purposes.
type MetricsSink interface {
	RecordRoute(rec RouteRecord) error
}

// StrategyRecord describes a computed charging strategy. Durations are hours.
type StrategyRecord struct {
	PlanID       string
	Vehicle      string
	Kind         string // "optimal" or "traditional"
	TotalTime    float64
	ChargingTime float64
	DrivingTime  float64
	Charges      int
	Fallbacks    int
	Time         time.Time
}

// StrategyRecorder records charging strategies.
type StrategyRecorder interface {
	RecordStrategy(rec StrategyRecord) error
}

// FallbackRecord captures a forced full-charge transition of the optimizer.
type FallbackRecord struct {
	Station      string
	Stage        int
	EnergyNeeded int
	Applied      bool
	Time         time.Time
}

// FallbackRecorder records optimizer fallbacks.
type FallbackRecorder interface {
	RecordFallback(rec FallbackRecord) error
}

// FailureRecord captures a planning request that returned an error.
type FailureRecord struct {
	PlanID string
	Stage  string
	Reason string
	Time   time.Time
}

// FailureRecorder records failed planning requests.
type FailureRecorder interface {
	RecordFailure(rec FailureRecord) error
}

// Flusher is implemented by sinks buffering data that must be delivered
// before the process exits.
type Flusher interface {
	Flush(ctx context.Context) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRoute(RouteRecord) error       { return nil }
func (NopSink) RecordStrategy(StrategyRecord) error { return nil }
func (NopSink) RecordFallback(FallbackRecord) error { return nil }
func (NopSink) RecordFailure(FailureRecord) error   { return nil }
func (NopSink) Flush(context.Context) error         { return nil }
