package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kilianp07/evroute/config"
	"github.com/kilianp07/evroute/core/charging"
	"github.com/kilianp07/evroute/core/events"
	"github.com/kilianp07/evroute/core/graph"
	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/route"
	"github.com/kilianp07/evroute/infra/catalog"
	"github.com/kilianp07/evroute/infra/logger"
	"github.com/kilianp07/evroute/infra/metrics"
	"github.com/kilianp07/evroute/internal/eventbus"
)

// ErrUnknownVehicle is returned when a vehicle type is not in the catalog.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// Plan is the outcome of a full trip planning request.
type Plan struct {
	ID           string                 `json:"id"`
	Vehicle      string                 `json:"vehicle"`
	Route        route.Result           `json:"route"`
	Alternatives []route.Result         `json:"alternatives,omitempty"`
	Optimal      model.ChargingStrategy `json:"optimal"`
	Traditional  model.ChargingStrategy `json:"traditional"`
	Comparison   charging.Comparison    `json:"comparison"`
}

// Service wires the route planner and the charging optimizer over a loaded
// catalog. It only holds read-only snapshots and is safe for concurrent use.
type Service struct {
	graph     *graph.RoadGraph
	vehicles  map[string]model.VehicleProfile
	names     []string
	planner   *route.Planner
	optimizer *charging.Optimizer
	cfg       config.PlannerConfig

	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	collector <-chan struct{}
	stop      context.CancelFunc
	log       logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// New loads the catalog and the metrics sinks described by cfg.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	cat, err := catalog.Load(cfg.Data.Files(), logger.New("catalog"))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return NewWithCatalog(cat, cfg.Planner, sink, logg), nil
}

// NewWithCatalog builds a Service over an already loaded catalog. A nil sink
// disables metrics and a nil logger disables logging.
func NewWithCatalog(cat *catalog.Catalog, cfg config.PlannerConfig, sink coremetrics.MetricsSink, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	cfg.SetDefaults()
	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		graph:     cat.Graph,
		vehicles:  cat.Vehicles,
		names:     cat.VehicleNames(),
		planner:   route.NewPlanner(log),
		optimizer: charging.NewOptimizer(log, bus),
		cfg:       cfg,
		bus:       bus,
		sink:      sink,
		collector: metrics.StartEventCollector(ctx, bus, sink, log),
		stop:      cancel,
		log:       log,
	}
}

// Graph returns the road network the service plans on.
func (s *Service) Graph() *graph.RoadGraph { return s.graph }

// VehicleNames lists the catalog vehicle types in ascending order.
func (s *Service) VehicleNames() []string { return s.names }

// Vehicle returns the profile of a catalog vehicle. An empty id selects the
// configured default vehicle.
func (s *Service) Vehicle(id string) (model.VehicleProfile, error) {
	if id == "" {
		id = s.cfg.DefaultVehicle
	}
	v, ok := s.vehicles[id]
	if !ok {
		return model.VehicleProfile{}, fmt.Errorf("%w: %q", ErrUnknownVehicle, id)
	}
	return v, nil
}

// FindRoute returns the shortest route between two locations.
func (s *Service) FindRoute(start, end model.LocationID) (route.Result, error) {
	res, err := s.planner.ShortestPath(s.graph, start, end)
	if err != nil {
		return res, err
	}
	s.publishRoutes(uuid.NewString(), res)
	return res, nil
}

// FindAlternativeRoute returns a route differing from every existing path.
func (s *Service) FindAlternativeRoute(start, end model.LocationID, existing []model.Path, factor float64) (route.Result, bool, error) {
	res, ok, err := s.planner.AlternativePath(s.graph, start, end, existing, factor)
	if err == nil && ok {
		s.bus.Publish(events.RouteEvent{PlanID: uuid.NewString(), Path: res.Path, Distance: res.Distance, Alternative: true})
	}
	return res, ok, err
}

// FindRoutes returns the shortest route followed by up to k-1 alternatives
// using the configured penalty factor.
func (s *Service) FindRoutes(start, end model.LocationID, k int) ([]route.Result, error) {
	return s.FindRoutesWithPenalty(start, end, k, s.cfg.PenaltyFactor)
}

// FindRoutesWithPenalty is FindRoutes with an explicit penalty factor.
func (s *Service) FindRoutesWithPenalty(start, end model.LocationID, k int, factor float64) ([]route.Result, error) {
	return s.routes(uuid.NewString(), start, end, k, factor)
}

func (s *Service) routes(planID string, start, end model.LocationID, k int, factor float64) ([]route.Result, error) {
	routes, err := s.planner.Alternatives(s.graph, start, end, k, factor)
	if err != nil {
		return nil, err
	}
	s.publishRoutes(planID, routes...)
	return routes, nil
}

// publishRoutes publishes one RouteEvent per route; all but the first are
// alternatives.
func (s *Service) publishRoutes(planID string, routes ...route.Result) {
	for i, r := range routes {
		s.bus.Publish(events.RouteEvent{PlanID: planID, Path: r.Path, Distance: r.Distance, Alternative: i > 0})
	}
}

// OptimizeCharging computes the minimum-time charging strategy along segments.
func (s *Service) OptimizeCharging(segments []model.SegmentDistance, vehicle model.VehicleProfile) (model.ChargingStrategy, error) {
	return s.optimizer.Optimize(charging.StopsFromSegments(segments), vehicle)
}

// BaselineCharging computes the charge-to-full-when-needed strategy along segments.
func (s *Service) BaselineCharging(segments []model.SegmentDistance, vehicle model.VehicleProfile) (model.ChargingStrategy, error) {
	return s.optimizer.Traditional(charging.StopsFromSegments(segments), vehicle)
}

// PlanTrip finds the route between start and end, its alternatives and the
// optimal and traditional charging strategies of the vehicle along it.
func (s *Service) PlanTrip(ctx context.Context, start, end model.LocationID, vehicleID string) (Plan, error) {
	plan := Plan{ID: uuid.NewString()}
	if err := ctx.Err(); err != nil {
		return plan, err
	}
	vehicle, err := s.Vehicle(vehicleID)
	if err != nil {
		return plan, s.fail(plan.ID, "vehicle", err)
	}
	plan.Vehicle = vehicle.Name

	routes, err := s.routes(plan.ID, start, end, s.cfg.Alternatives, s.cfg.PenaltyFactor)
	if err != nil {
		return plan, s.fail(plan.ID, "route", err)
	}
	plan.Route = routes[0]
	plan.Alternatives = routes[1:]

	if err := ctx.Err(); err != nil {
		return plan, err
	}
	stops := stopsAlong(plan.Route)
	if plan.Optimal, err = s.optimizer.Optimize(stops, vehicle); err != nil {
		return plan, s.fail(plan.ID, "charging", err)
	}
	s.bus.Publish(events.StrategyEvent{PlanID: plan.ID, Vehicle: vehicle.Name, Kind: events.StrategyOptimal, Strategy: plan.Optimal})
	if plan.Traditional, err = s.optimizer.Traditional(stops, vehicle); err != nil {
		return plan, s.fail(plan.ID, "charging", err)
	}
	s.bus.Publish(events.StrategyEvent{PlanID: plan.ID, Vehicle: vehicle.Name, Kind: events.StrategyTraditional, Strategy: plan.Traditional})

	plan.Comparison = charging.Compare(plan.Optimal, plan.Traditional)
	s.log.Debugw("trip planned", map[string]any{
		"plan_id":  plan.ID,
		"vehicle":  vehicle.Name,
		"distance": plan.Route.Distance,
		"optimal":  plan.Optimal.TotalTime,
		"baseline": plan.Traditional.TotalTime,
	})
	return plan, nil
}

// stopsAlong returns the optimizer stops of a route. A route whose start is
// its destination has a single stop and no leg.
func stopsAlong(r route.Result) []model.ChargingStop {
	if len(r.Segments) == 0 && len(r.Path) == 1 {
		return []model.ChargingStop{{Name: r.Path[0]}}
	}
	return charging.StopsFromSegments(r.Segments)
}

func (s *Service) fail(planID, stage string, err error) error {
	s.log.Warnf("plan %s failed at %s: %v", planID, stage, err)
	s.bus.Publish(events.PlanFailedEvent{PlanID: planID, Stage: stage, Err: err})
	return err
}

// DroppedEvents returns the number of planning events the metrics collector
// missed because it fell behind.
func (s *Service) DroppedEvents() uint64 { return s.bus.Dropped() }

// Close stops event collection once queued events are recorded and flushes
// sinks that buffer data. Later calls return the result of the first one.
func (s *Service) Close(ctx context.Context) error {
	s.closeOnce.Do(func() { s.closeErr = s.close(ctx) })
	return s.closeErr
}

func (s *Service) close(ctx context.Context) error {
	s.bus.Close()
	defer s.stop()
	select {
	case <-s.collector:
	case <-ctx.Done():
		return ctx.Err()
	}
	if n := s.bus.Dropped(); n > 0 {
		s.log.Warnf("metrics collector dropped %d event(s), metrics are incomplete", n)
	}
	if f, ok := s.sink.(coremetrics.Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}
