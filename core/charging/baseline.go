package charging

import "github.com/kilianp07/evroute/core/model"

// Traditional computes the greedy "charge to full when needed" strategy used
// as a comparison baseline. It never looks ahead: when the running SoC cannot
// cover the next leg the vehicle charges to 100%.
func (o *Optimizer) Traditional(stops []model.ChargingStop, vehicle model.VehicleProfile) (model.ChargingStrategy, error) {
	if len(stops) == 0 {
		return model.ChargingStrategy{}, ErrNoStops
	}
	if err := vehicle.Validate(); err != nil {
		return model.ChargingStrategy{}, err
	}

	var s model.ChargingStrategy
	soc := vehicle.CurrentSoC
	for _, stop := range stops[:len(stops)-1] {
		need := legEnergy(stop.DistanceToNext, vehicle.RangePerKWh, vehicle.BatteryKWh)
		drive := stop.DistanceToNext / vehicle.Speed()
		s.DrivingTime += drive

		if soc < need {
			tc := ChargingTime(soc, 100, vehicle.BatteryKWh, vehicle.Curve)
			s.TotalTime += tc
			s.ChargingTime += tc
			s.Decisions = append(s.Decisions, model.Decision{
				Station:      stop.Name,
				ChargeAmount: 100 - soc,
				DepartureSoC: 100,
			})
			soc = 100
		}
		soc -= need
		s.TotalTime += drive
	}
	o.log.Debugw("traditional strategy computed", map[string]any{
		"vehicle":       vehicle.Name,
		"charges":       len(s.Decisions),
		"total_time":    s.TotalTime,
		"charging_time": s.ChargingTime,
	})
	return s, nil
}
