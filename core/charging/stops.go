package charging

import "github.com/kilianp07/evroute/core/model"

// StopsFromSegments turns the legs of a route into optimizer stages. Every
// segment start becomes a stop followed by the final destination.
func StopsFromSegments(segs []model.SegmentDistance) []model.ChargingStop {
	if len(segs) == 0 {
		return nil
	}
	stops := make([]model.ChargingStop, 0, len(segs)+1)
	for _, s := range segs {
		stops = append(stops, model.ChargingStop{Name: s.From, DistanceToNext: s.Distance, HasNext: true})
	}
	return append(stops, model.ChargingStop{Name: segs[len(segs)-1].To})
}
