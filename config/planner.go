package config

import (
	"fmt"

	"github.com/kilianp07/evroute/core/route"
)

// PlannerConfig tunes route and charging planning.
type PlannerConfig struct {
	// PenaltyFactor multiplies the weight of roads already used when
	// searching alternative routes. Must be in (2, 10].
	PenaltyFactor float64 `json:"penalty_factor"`
	// Alternatives is the number of routes, shortest included, a trip plan
	// reports.
	Alternatives int `json:"alternatives"`
	// DefaultVehicle is used when a request names no vehicle.
	DefaultVehicle string `json:"default_vehicle"`
}

// SetDefaults applies sane defaults.
func (c *PlannerConfig) SetDefaults() {
	if c.PenaltyFactor == 0 {
		c.PenaltyFactor = 3
	}
	if c.Alternatives == 0 {
		c.Alternatives = 2
	}
}

// Validate checks the planner settings.
func (c PlannerConfig) Validate() error {
	if err := route.ValidatePenaltyFactor(c.PenaltyFactor); err != nil {
		return err
	}
	if c.Alternatives < 1 {
		return fmt.Errorf("alternatives must be at least 1, got %d", c.Alternatives)
	}
	return nil
}
