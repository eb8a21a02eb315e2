package metrics

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

// DefaultPushJob is the Pushgateway job name used when none is configured.
const DefaultPushJob = "evroute"

// PromConfig configures the Prometheus sink. When PushURL is set the metrics
// are pushed to a Pushgateway on Flush, which suits short-lived CLI runs.
type PromConfig struct {
	PushURL string `json:"push_url"`
	Job     string `json:"job"`
}

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	routes        *prometheus.CounterVec
	routeDistance *prometheus.HistogramVec
	strategies    *prometheus.CounterVec
	tripHours     *prometheus.HistogramVec
	chargingHours *prometheus.HistogramVec
	fallbacks     *prometheus.CounterVec
	failures      *prometheus.CounterVec

	gatherer prometheus.Gatherer
	cfg      PromConfig
}

// NewPromSink registers the planning metrics on the default Prometheus registry.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. The
// gatherer is only used for Pushgateway delivery. Nil values default to the
// global Prometheus registry.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer, g prometheus.Gatherer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if cfg.Job == "" {
		cfg.Job = DefaultPushJob
	}
	s := &PromSink{gatherer: g, cfg: cfg}
	var err error
	if s.routes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evroute_routes_total",
		Help: "Total number of routes returned",
	}, []string{"alternative"})); err != nil {
		return nil, err
	}
	if s.routeDistance, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evroute_route_distance_km",
		Help:    "Length of the returned routes",
		Buckets: prometheus.ExponentialBuckets(25, 2, 8),
	}, []string{"alternative"})); err != nil {
		return nil, err
	}
	if s.strategies, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evroute_strategies_total",
		Help: "Total number of charging strategies computed",
	}, []string{"vehicle", "kind"})); err != nil {
		return nil, err
	}
	if s.tripHours, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evroute_trip_hours",
		Help:    "Total trip time of computed strategies",
		Buckets: prometheus.LinearBuckets(1, 2, 12),
	}, []string{"vehicle", "kind"})); err != nil {
		return nil, err
	}
	if s.chargingHours, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evroute_charging_hours",
		Help:    "Charging time of computed strategies",
		Buckets: prometheus.LinearBuckets(0.25, 0.5, 10),
	}, []string{"vehicle", "kind"})); err != nil {
		return nil, err
	}
	if s.fallbacks, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evroute_optimizer_fallbacks_total",
		Help: "Stages where the optimizer forced a full-charge transition",
	}, []string{"applied"})); err != nil {
		return nil, err
	}
	if s.failures, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evroute_plan_failures_total",
		Help: "Planning requests that returned an error",
	}, []string{"stage"})); err != nil {
		return nil, err
	}
	return s, nil
}

// register registers c, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRoute counts the route and observes its length.
func (s *PromSink) RecordRoute(rec coremetrics.RouteRecord) error {
	alt := strconv.FormatBool(rec.Alternative)
	s.routes.WithLabelValues(alt).Inc()
	s.routeDistance.WithLabelValues(alt).Observe(rec.Distance)
	return nil
}

// RecordStrategy counts the strategy and observes its durations.
func (s *PromSink) RecordStrategy(rec coremetrics.StrategyRecord) error {
	s.strategies.WithLabelValues(rec.Vehicle, rec.Kind).Inc()
	s.tripHours.WithLabelValues(rec.Vehicle, rec.Kind).Observe(rec.TotalTime)
	s.chargingHours.WithLabelValues(rec.Vehicle, rec.Kind).Observe(rec.ChargingTime)
	return nil
}

// RecordFallback counts optimizer fallbacks.
func (s *PromSink) RecordFallback(rec coremetrics.FallbackRecord) error {
	s.fallbacks.WithLabelValues(strconv.FormatBool(rec.Applied)).Inc()
	return nil
}

// RecordFailure counts failed requests per planning stage.
func (s *PromSink) RecordFailure(rec coremetrics.FailureRecord) error {
	s.failures.WithLabelValues(rec.Stage).Inc()
	return nil
}

// Flush pushes the gathered metrics to the configured Pushgateway. It is a
// no-op without a push URL.
func (s *PromSink) Flush(ctx context.Context) error {
	if s.cfg.PushURL == "" {
		return nil
	}
	return push.New(s.cfg.PushURL, s.cfg.Job).Gatherer(s.gatherer).PushContext(ctx)
}
