package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/infra/logger"
)

// InfluxConfig configures the InfluxDB sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes planning events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRoute writes a route point.
func (s *InfluxSink) RecordRoute(rec coremetrics.RouteRecord) error {
	p := write.NewPointWithMeasurement("route").
		AddTag("plan_id", rec.PlanID).
		AddTag("start", rec.Start).
		AddTag("end", rec.End).
		AddTag("alternative", strconv.FormatBool(rec.Alternative)).
		AddField("distance_km", round3(rec.Distance)).
		AddField("hops", rec.Hops).
		SetTime(rec.Time)
	return s.write(p)
}

// RecordStrategy writes a charging strategy point.
func (s *InfluxSink) RecordStrategy(rec coremetrics.StrategyRecord) error {
	p := write.NewPointWithMeasurement("charging_strategy").
		AddTag("plan_id", rec.PlanID).
		AddTag("vehicle", rec.Vehicle).
		AddTag("kind", rec.Kind).
		AddField("total_hours", round3(rec.TotalTime)).
		AddField("charging_hours", round3(rec.ChargingTime)).
		AddField("driving_hours", round3(rec.DrivingTime)).
		AddField("charges", rec.Charges).
		AddField("fallbacks", rec.Fallbacks).
		SetTime(rec.Time)
	return s.write(p)
}

// RecordFallback writes an optimizer fallback point.
func (s *InfluxSink) RecordFallback(rec coremetrics.FallbackRecord) error {
	p := write.NewPointWithMeasurement("optimizer_fallback").
		AddTag("station", rec.Station).
		AddTag("applied", strconv.FormatBool(rec.Applied)).
		AddField("stage", rec.Stage).
		AddField("energy_needed", rec.EnergyNeeded).
		SetTime(rec.Time)
	return s.write(p)
}

// RecordFailure writes a failed request point.
func (s *InfluxSink) RecordFailure(rec coremetrics.FailureRecord) error {
	p := write.NewPointWithMeasurement("plan_failure").
		AddTag("plan_id", rec.PlanID).
		AddTag("stage", rec.Stage).
		AddField("reason", rec.Reason).
		SetTime(rec.Time)
	return s.write(p)
}

// Flush releases the client. Writes are blocking so nothing is pending.
func (s *InfluxSink) Flush(context.Context) error {
	s.client.Close()
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
