package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultDrivingSpeed is used when a profile does not define a speed (km/h).
const DefaultDrivingSpeed = 100.0

// ErrInvalidVehicle is returned when a vehicle profile cannot be used for
// planning.
var ErrInvalidVehicle = errors.New("invalid vehicle profile")

// ChargingCurve maps a SoC bucket (0, 10, ..., 90) to the charging power in kW
// available while charging through that bucket.
type ChargingCurve map[int]float64

// Power returns the charging power for a bucket. Bucket 100 and above always
// yield 0 since the battery cannot be charged beyond full.
func (c ChargingCurve) Power(bucket int) float64 {
	if bucket >= 100 {
		return 0
	}
	return c[bucket]
}

// Buckets returns the defined buckets in ascending order.
func (c ChargingCurve) Buckets() []int {
	out := make([]int, 0, len(c))
	for b := range c {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// ParseChargingCurve converts a curve keyed by string buckets, as found in
// catalog files, into a ChargingCurve.
func ParseChargingCurve(raw map[string]float64) (ChargingCurve, error) {
	c := make(ChargingCurve, len(raw))
	for k, p := range raw {
		b, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("charging curve bucket %q: %w", k, err)
		}
		if b < 0 || b > 100 || b%10 != 0 {
			return nil, fmt.Errorf("charging curve bucket %d must be a multiple of 10 in [0,100]", b)
		}
		if p < 0 {
			return nil, fmt.Errorf("charging curve bucket %d: negative power %v", b, p)
		}
		c[b] = p
	}
	return c, nil
}

// VehicleProfile describes the battery and consumption of a vehicle type.
type VehicleProfile struct {
	Name         string
	BatteryKWh   float64       // usable battery capacity
	RangePerKWh  float64       // km driven per kWh
	CurrentSoC   int           // state of charge in percent
	DrivingSpeed float64       // km/h, DefaultDrivingSpeed when zero
	Curve        ChargingCurve // charging power per SoC bucket
}

// Validate checks that the profile is usable by the optimizer.
func (v VehicleProfile) Validate() error {
	if v.BatteryKWh <= 0 {
		return fmt.Errorf("%w: battery capacity must be positive", ErrInvalidVehicle)
	}
	if v.RangePerKWh <= 0 {
		return fmt.Errorf("%w: range per kWh must be positive", ErrInvalidVehicle)
	}
	if v.CurrentSoC < 0 || v.CurrentSoC > 100 {
		return fmt.Errorf("%w: state of charge %d outside [0,100]", ErrInvalidVehicle, v.CurrentSoC)
	}
	if v.DrivingSpeed < 0 {
		return fmt.Errorf("%w: negative driving speed", ErrInvalidVehicle)
	}
	return nil
}

// Speed returns the driving speed, falling back to DefaultDrivingSpeed.
func (v VehicleProfile) Speed() float64 {
	if v.DrivingSpeed <= 0 {
		return DefaultDrivingSpeed
	}
	return v.DrivingSpeed
}
