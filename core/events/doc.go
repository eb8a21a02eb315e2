// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - RouteEvent: a route or alternative route was computed
//   - StrategyEvent: a charging strategy (optimal or baseline) was computed
//   - FallbackEvent: the optimizer forced a full-charge transition
//   - PlanFailedEvent: a planning request could not be served
package events
