package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

type influxRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *influxRecorder) handler(w http.ResponseWriter, req *http.Request) {
	data, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.bodies = append(r.bodies, strings.TrimSpace(string(data)))
	r.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (r *influxRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bodies) == 0 {
		return ""
	}
	return r.bodies[len(r.bodies)-1]
}

func TestInfluxSink_RecordRoute(t *testing.T) {
	rec := &influxRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	now := time.Unix(1700000000, 0)
	if err := sink.RecordRoute(coremetrics.RouteRecord{
		PlanID: "p1", Start: "Vancouver", End: "Kamloops", Distance: 354.1234, Hops: 3, Time: now,
	}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("route").
		AddTag("plan_id", "p1").
		AddTag("start", "Vancouver").
		AddTag("end", "Kamloops").
		AddTag("alternative", "false").
		AddField("distance_km", 354.123).
		AddField("hops", 3).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if rec.last() != expected {
		t.Errorf("unexpected body: %s", rec.last())
	}
}

func TestInfluxSink_RecordStrategyAndFallback(t *testing.T) {
	rec := &influxRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket"})
	now := time.Unix(1700000000, 0)
	if err := sink.RecordStrategy(coremetrics.StrategyRecord{
		PlanID: "p1", Vehicle: "Semi", Kind: "optimal", TotalTime: 5.2, ChargingTime: 1.2, DrivingTime: 4, Charges: 2, Time: now,
	}); err != nil {
		t.Fatalf("record strategy: %v", err)
	}
	if got := rec.last(); !strings.HasPrefix(got, "charging_strategy,") || !strings.Contains(got, "kind=optimal") || !strings.Contains(got, "charges=2i") {
		t.Errorf("unexpected strategy line: %s", rec.last())
	}
	if err := sink.RecordFallback(coremetrics.FallbackRecord{Station: "Hope", Stage: 1, EnergyNeeded: 60, Applied: true, Time: now}); err != nil {
		t.Fatalf("record fallback: %v", err)
	}
	if got := rec.last(); !strings.HasPrefix(got, "optimizer_fallback,") || !strings.Contains(got, "station=Hope") || !strings.Contains(got, "energy_needed=60i") {
		t.Errorf("unexpected fallback line: %s", rec.last())
	}
	if err := sink.RecordFailure(coremetrics.FailureRecord{PlanID: "p2", Stage: "route", Reason: "no path found", Time: now}); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if !strings.Contains(rec.last(), `reason="no path found"`) {
		t.Errorf("unexpected failure line: %s", rec.last())
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
