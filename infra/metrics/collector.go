package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/evroute/core/events"
	"github.com/kilianp07/evroute/core/logger"
	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// planning events. It stops when the context is canceled or the bus is
// closed, after draining the events already queued. The returned channel is
// closed once the collector has stopped.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log = logger.OrNop(log)
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				bus.Unsubscribe(sub)
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev, time.Now()); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event, now time.Time) error {
	switch e := ev.(type) {
	case events.RouteEvent:
		return sink.RecordRoute(coremetrics.RouteRecord{
			PlanID:      e.PlanID,
			Start:       e.Path.Start(),
			End:         e.Path.End(),
			Distance:    e.Distance,
			Hops:        max(len(e.Path)-1, 0),
			Alternative: e.Alternative,
			Time:        now,
		})
	case events.StrategyEvent:
		if r, ok := sink.(coremetrics.StrategyRecorder); ok {
			return r.RecordStrategy(coremetrics.StrategyRecord{
				PlanID:       e.PlanID,
				Vehicle:      e.Vehicle,
				Kind:         string(e.Kind),
				TotalTime:    e.Strategy.TotalTime,
				ChargingTime: e.Strategy.ChargingTime,
				DrivingTime:  e.Strategy.DrivingTime,
				Charges:      len(e.Strategy.ChargedStops()),
				Fallbacks:    len(e.Strategy.Fallbacks),
				Time:         now,
			})
		}
	case events.FallbackEvent:
		if r, ok := sink.(coremetrics.FallbackRecorder); ok {
			return r.RecordFallback(coremetrics.FallbackRecord{
				Station:      e.Station,
				Stage:        e.Stage,
				EnergyNeeded: e.EnergyNeeded,
				Applied:      e.Applied,
				Time:         now,
			})
		}
	case events.PlanFailedEvent:
		if r, ok := sink.(coremetrics.FailureRecorder); ok {
			reason := ""
			if e.Err != nil {
				reason = e.Err.Error()
			}
			return r.RecordFailure(coremetrics.FailureRecord{
				PlanID: e.PlanID,
				Stage:  e.Stage,
				Reason: reason,
				Time:   now,
			})
		}
	}
	return nil
}
