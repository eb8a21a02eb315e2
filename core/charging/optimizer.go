package charging

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/kilianp07/evroute/core/events"
	"github.com/kilianp07/evroute/core/logger"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/internal/eventbus"
)

var (
	// ErrNoFeasiblePath is returned when the destination cannot be reached
	// under the vehicle constraints.
	ErrNoFeasiblePath = errors.New("no feasible charging plan")
	// ErrNoStops is returned when the optimizer receives no stops.
	ErrNoStops = errors.New("no stops to plan")
	// ErrInvalidVehicle aliases model.ErrInvalidVehicle.
	ErrInvalidVehicle = model.ErrInvalidVehicle
)

// stateRef points at a DP state.
type stateRef struct {
	stage int
	soc   int
}

// dpState is the best known way to arrive at a stage with a given SoC.
type dpState struct {
	time         float64   // cumulative hours since departure
	prev         *stateRef // nil for the initial state
	charge       int       // percentage points charged at prev
	chargingTime float64
	drivingTime  float64
}

// table holds the DP states of every stage keyed by SoC bucket.
type table []map[int]*dpState

func (t table) socs(stage int) []int {
	out := make([]int, 0, len(t[stage]))
	for s := range t[stage] {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Optimizer computes minimum-time charging strategies. It keeps no state
// between calls and is safe for concurrent use.
type Optimizer struct {
	log logger.Logger
	bus eventbus.EventBus
}

// NewOptimizer returns an Optimizer. log and bus may be nil.
func NewOptimizer(log logger.Logger, bus eventbus.EventBus) *Optimizer {
	return &Optimizer{log: logger.OrNop(log), bus: bus}
}

// Optimize returns the charging strategy minimizing the total trip time over
// stops. The vehicle departs the first stop with its current SoC.
func (o *Optimizer) Optimize(stops []model.ChargingStop, vehicle model.VehicleProfile) (model.ChargingStrategy, error) {
	if len(stops) == 0 {
		return model.ChargingStrategy{}, ErrNoStops
	}
	if err := vehicle.Validate(); err != nil {
		return model.ChargingStrategy{}, err
	}

	dp := make(table, len(stops))
	for i := range dp {
		dp[i] = make(map[int]*dpState)
	}
	dp[0][vehicle.CurrentSoC] = &dpState{}

	var fallbacks []int
	for i := 0; i < len(stops)-1; i++ {
		if o.relax(dp, i, stops[i], vehicle) {
			continue
		}
		if o.forceFullCharge(dp, i, stops[i], vehicle) {
			fallbacks = append(fallbacks, i)
		}
	}

	strategy, finalSoC, err := reconstruct(dp, stops)
	if err != nil {
		return model.ChargingStrategy{}, err
	}
	strategy.Fallbacks = fallbacks
	o.log.Infof("optimal plan for %s: arrival SoC %d%%, total %.2fh (charging %.2fh, driving %.2fh)",
		vehicle.Name, finalSoC, strategy.TotalTime, strategy.ChargingTime, strategy.DrivingTime)
	return strategy, nil
}

// relax expands every reachable state of stage i and reports whether stage
// i+1 received at least one state.
func (o *Optimizer) relax(dp table, i int, stop model.ChargingStop, v model.VehicleProfile) bool {
	need := legEnergy(stop.DistanceToNext, v.RangePerKWh, v.BatteryKWh)
	drive := stop.DistanceToNext / v.Speed()
	updated := false
	for _, soc := range dp.socs(i) {
		cur := dp[i][soc]
		for charge := 0; charge <= 100-soc; charge += Step {
			charged := soc + charge
			if charged < need {
				continue
			}
			next := clampSoC(round10(float64(charged - need)))
			tc := ChargingTime(soc, charged, v.BatteryKWh, v.Curve)
			total := cur.time + tc + drive
			if old, ok := dp[i+1][next]; ok && total >= old.time {
				continue
			}
			dp[i+1][next] = &dpState{
				time:         total,
				prev:         &stateRef{stage: i, soc: soc},
				charge:       charge,
				chargingTime: tc,
				drivingTime:  drive,
			}
			updated = true
		}
	}
	return updated
}

// forceFullCharge is the last resort for a stage without any feasible
// transition: the vehicle is assumed to leave stop i with a full battery. The
// cumulative time of the 100% state is reused when present, otherwise 0, and
// no charging time is accounted. It reports whether a transition was added.
func (o *Optimizer) forceFullCharge(dp table, i int, stop model.ChargingStop, v model.VehicleProfile) bool {
	need := legEnergy(stop.DistanceToNext, v.RangePerKWh, v.BatteryKWh)
	ev := events.FallbackEvent{Stage: i, Station: stop.Name, EnergyNeeded: need}
	if need > 100 {
		o.log.Warnf("no feasible state at stage %d: leg from %s needs %d%% of the battery", i+1, stop.Name, need)
		eventbus.PublishTo(o.bus, ev)
		return false
	}
	var base float64
	if full, ok := dp[i][100]; ok {
		base = full.time
	}
	drive := stop.DistanceToNext / v.Speed()
	dp[i+1][100-need] = &dpState{
		time:        base + drive,
		prev:        &stateRef{stage: i, soc: 100},
		drivingTime: drive,
	}
	ev.Applied = true
	o.log.Warnf("no feasible state at stage %d, forcing full charge at %s", i+1, stop.Name)
	eventbus.PublishTo(o.bus, ev)
	return true
}

// reconstruct selects the fastest final state and walks the predecessor links
// back to the departure. It also returns the arrival SoC.
func reconstruct(dp table, stops []model.ChargingStop) (model.ChargingStrategy, int, error) {
	last := len(dp) - 1
	best, bestTime := -1, math.Inf(1)
	for _, soc := range dp.socs(last) {
		if t := dp[last][soc].time; t < bestTime {
			best, bestTime = soc, t
		}
	}
	if best < 0 {
		return model.ChargingStrategy{}, 0, fmt.Errorf("%w: destination %s unreachable", ErrNoFeasiblePath, stops[last].Name)
	}

	var s model.ChargingStrategy
	decisions := make([]model.Decision, 0, last)
	ref := stateRef{stage: last, soc: best}
	for ref.stage > 0 {
		st, ok := dp[ref.stage][ref.soc]
		if !ok {
			return model.ChargingStrategy{}, 0, fmt.Errorf("%w: no state at stage %d with SoC %d", ErrNoFeasiblePath, ref.stage, ref.soc)
		}
		s.ChargingTime += st.chargingTime
		s.DrivingTime += st.drivingTime
		decisions = append(decisions, model.Decision{
			Station:      stops[st.prev.stage].Name,
			ChargeAmount: st.charge,
			DepartureSoC: st.prev.soc + st.charge,
		})
		ref = *st.prev
	}
	for i, j := 0, len(decisions)-1; i < j; i, j = i+1, j-1 {
		decisions[i], decisions[j] = decisions[j], decisions[i]
	}
	s.Decisions = decisions
	s.TotalTime = bestTime
	return s, best, nil
}
