package events

import "github.com/kilianp07/evroute/core/model"

// RouteEvent is published for every route returned to a caller.
type RouteEvent struct {
	PlanID      string
	Path        model.Path
	Distance    float64
	Alternative bool
}
