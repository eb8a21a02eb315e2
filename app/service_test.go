package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/config"
	"github.com/kilianp07/evroute/core/charging"
	"github.com/kilianp07/evroute/core/graph"
	corelogger "github.com/kilianp07/evroute/core/logger"
	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/route"
	"github.com/kilianp07/evroute/infra/catalog"
)

type recordingSink struct {
	mu         sync.Mutex
	routes     []coremetrics.RouteRecord
	strategies []coremetrics.StrategyRecord
	failures   []coremetrics.FailureRecord
	flushed    bool
	flushes    int
}

func (s *recordingSink) RecordRoute(r coremetrics.RouteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, r)
	return nil
}

func (s *recordingSink) RecordStrategy(r coremetrics.StrategyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies = append(s.strategies, r)
	return nil
}

func (s *recordingSink) RecordFailure(r coremetrics.FailureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, r)
	return nil
}

func (s *recordingSink) Flush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = true
	s.flushes++
	return nil
}

func flat(kw float64) model.ChargingCurve {
	c := model.ChargingCurve{}
	for b := 0; b < 100; b += 10 {
		c[b] = kw
	}
	return c
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	g, err := graph.New(graph.Adjacency{
		"A": {"B": 50, "C": 80},
		"B": {"A": 50, "D": 100},
		"C": {"A": 80, "D": 100},
		"D": {"B": 100, "C": 100},
		"E": {},
	}, nil)
	require.NoError(t, err)
	return &catalog.Catalog{
		Graph: g,
		Vehicles: map[string]model.VehicleProfile{
			"EV":   {Name: "EV", BatteryKWh: 100, RangePerKWh: 2, CurrentSoC: 50, Curve: flat(50)},
			"Tiny": {Name: "Tiny", BatteryKWh: 10, RangePerKWh: 1, CurrentSoC: 100, Curve: flat(10)},
		},
	}
}

func newTestService(t *testing.T, sink coremetrics.MetricsSink) *Service {
	t.Helper()
	return NewWithCatalog(testCatalog(t), config.PlannerConfig{DefaultVehicle: "EV"}, sink, nil)
}

func closeService(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
}

func TestPlanTrip(t *testing.T) {
	sink := &recordingSink{}
	s := newTestService(t, sink)

	plan, err := s.PlanTrip(context.Background(), "A", "D", "")
	require.NoError(t, err)
	closeService(t, s)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "EV", plan.Vehicle)
	assert.Equal(t, model.Path{"A", "B", "D"}, plan.Route.Path)
	assert.Equal(t, 150.0, plan.Route.Distance)
	require.Len(t, plan.Alternatives, 1)
	assert.Equal(t, model.Path{"A", "C", "D"}, plan.Alternatives[0].Path)
	assert.Equal(t, 180.0, plan.Alternatives[0].Distance)

	require.Len(t, plan.Optimal.Decisions, 2)
	assert.InDelta(t, 1.5, plan.Optimal.DrivingTime, 1e-9)
	assert.LessOrEqual(t, plan.Optimal.TotalTime, plan.Traditional.TotalTime+1e-9)
	assert.Equal(t, charging.Compare(plan.Optimal, plan.Traditional), plan.Comparison)

	require.Len(t, sink.routes, 2)
	assert.False(t, sink.routes[0].Alternative)
	assert.True(t, sink.routes[1].Alternative)
	assert.Equal(t, plan.ID, sink.routes[0].PlanID)
	require.Len(t, sink.strategies, 2)
	assert.Equal(t, "optimal", sink.strategies[0].Kind)
	assert.Equal(t, "traditional", sink.strategies[1].Kind)
	assert.Empty(t, sink.failures)
	assert.True(t, sink.flushed)
}

func TestPlanTrip_SameStartAndEnd(t *testing.T) {
	s := newTestService(t, nil)
	defer closeService(t, s)

	plan, err := s.PlanTrip(context.Background(), "B", "B", "EV")
	require.NoError(t, err)
	assert.Equal(t, model.Path{"B"}, plan.Route.Path)
	assert.Zero(t, plan.Route.Distance)
	assert.Empty(t, plan.Optimal.Decisions)
	assert.Zero(t, plan.Optimal.TotalTime)
	assert.Zero(t, plan.Comparison.SavingsRatio)
}

func TestPlanTrip_Failures(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		vehicle string
		err     error
		stage   string
	}{
		{"unknown vehicle", "A", "D", "Truck", ErrUnknownVehicle, "vehicle"},
		{"unknown node", "A", "Z", "EV", route.ErrUnknownNode, "route"},
		{"disconnected", "A", "E", "EV", route.ErrNoPathFound, "route"},
		{"infeasible", "A", "D", "Tiny", charging.ErrNoFeasiblePath, "charging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			s := newTestService(t, sink)
			plan, err := s.PlanTrip(context.Background(), tt.start, tt.end, tt.vehicle)
			require.ErrorIs(t, err, tt.err)
			closeService(t, s)

			require.Len(t, sink.failures, 1)
			assert.Equal(t, tt.stage, sink.failures[0].Stage)
			assert.Equal(t, plan.ID, sink.failures[0].PlanID)
		})
	}
}

func TestPlanTrip_Canceled(t *testing.T) {
	s := newTestService(t, nil)
	defer closeService(t, s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.PlanTrip(ctx, "A", "D", "EV")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlanTrip_Concurrent(t *testing.T) {
	s := newTestService(t, nil)
	defer closeService(t, s)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.PlanTrip(context.Background(), "A", "D", "EV")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestService_Contracts(t *testing.T) {
	s := newTestService(t, nil)
	defer closeService(t, s)

	res, err := s.FindRoute("A", "D")
	require.NoError(t, err)
	assert.Equal(t, model.Path{"A", "B", "D"}, res.Path)

	alt, ok, err := s.FindAlternativeRoute("A", "D", []model.Path{res.Path}, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.Path{"A", "C", "D"}, alt.Path)

	_, _, err = s.FindAlternativeRoute("A", "D", []model.Path{res.Path}, 2)
	assert.ErrorIs(t, err, route.ErrInvalidParameter)

	v, err := s.Vehicle("EV")
	require.NoError(t, err)
	opt, err := s.OptimizeCharging(res.Segments, v)
	require.NoError(t, err)
	base, err := s.BaselineCharging(res.Segments, v)
	require.NoError(t, err)
	assert.LessOrEqual(t, opt.TotalTime, base.TotalTime+1e-9)

	_, err = s.OptimizeCharging(nil, v)
	assert.ErrorIs(t, err, charging.ErrNoStops)

	assert.Equal(t, []string{"EV", "Tiny"}, s.VehicleNames())
}

func TestService_RouteLookupsRecordRoutes(t *testing.T) {
	sink := &recordingSink{}
	s := newTestService(t, sink)

	res, err := s.FindRoute("A", "D")
	require.NoError(t, err)
	_, ok, err := s.FindAlternativeRoute("A", "D", []model.Path{res.Path}, 3)
	require.NoError(t, err)
	require.True(t, ok)
	routes, err := s.FindRoutesWithPenalty("A", "D", 2, 4)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	_, err = s.FindRoute("A", "E")
	require.ErrorIs(t, err, route.ErrNoPathFound)
	closeService(t, s)

	require.Len(t, sink.routes, 4)
	assert.False(t, sink.routes[0].Alternative)
	assert.Equal(t, 150.0, sink.routes[0].Distance)
	assert.True(t, sink.routes[1].Alternative)
	assert.Equal(t, 180.0, sink.routes[1].Distance)
	assert.False(t, sink.routes[2].Alternative)
	assert.True(t, sink.routes[3].Alternative)
	assert.Equal(t, sink.routes[2].PlanID, sink.routes[3].PlanID)
	assert.NotEqual(t, sink.routes[0].PlanID, sink.routes[1].PlanID)
}

func TestService_CloseIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	s := newTestService(t, sink)
	_, err := s.PlanTrip(context.Background(), "A", "D", "EV")
	require.NoError(t, err)

	closeService(t, s)
	closeService(t, s)
	assert.Equal(t, 1, sink.flushes)
}

// blockingSink holds the collector in RecordRoute until release is closed.
type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) RecordRoute(coremetrics.RouteRecord) error {
	<-s.release
	return nil
}

type warnLogger struct {
	corelogger.NopLogger
	mu    sync.Mutex
	warns []string
}

func (l *warnLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func TestService_CloseReportsDroppedEvents(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	log := &warnLogger{}
	s := NewWithCatalog(testCatalog(t), config.PlannerConfig{DefaultVehicle: "EV"}, sink, log)

	for i := 0; i < 10; i++ {
		_, err := s.PlanTrip(context.Background(), "A", "D", "EV")
		require.NoError(t, err)
	}
	assert.Positive(t, s.DroppedEvents())

	close(sink.release)
	closeService(t, s)

	log.mu.Lock()
	defer log.mu.Unlock()
	require.NotEmpty(t, log.warns)
	assert.Contains(t, log.warns[len(log.warns)-1], fmt.Sprintf("dropped %d event(s)", s.DroppedEvents()))
}
