package charging

import (
	"math"
	"math/rand"
	"testing"

	"github.com/kilianp07/evroute/core/model"
)

func flatCurve(kw float64) model.ChargingCurve {
	c := model.ChargingCurve{}
	for b := 0; b < 100; b += Step {
		c[b] = kw
	}
	return c
}

func TestEnergyNeeded(t *testing.T) {
	cases := []struct {
		dist, rng, battery float64
		want               int
	}{
		{100, 2, 100, 50},
		{0, 5, 75, 0},
		{25, 1, 100, 20}, // half rounds to even
		{35, 1, 100, 40},
		{44, 1, 100, 40},
		{5000, 1, 100, 100},
	}
	for _, c := range cases {
		if got := EnergyNeeded(c.dist, c.rng, c.battery); got != c.want {
			t.Errorf("EnergyNeeded(%v,%v,%v)=%d want %d", c.dist, c.rng, c.battery, got, c.want)
		}
	}
}

func TestEnergyNeededIsBucket(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		e := EnergyNeeded(rng.Float64()*1500, 0.5+rng.Float64()*8, 10+rng.Float64()*190)
		if e%Step != 0 || e < 0 || e > 100 {
			t.Fatalf("energy %d is not a bucket in [0,100]", e)
		}
	}
}

func TestChargingTime(t *testing.T) {
	curve := flatCurve(50)
	if got := ChargingTime(40, 40, 100, curve); got != 0 {
		t.Fatalf("expected 0 got %v", got)
	}
	if got := ChargingTime(80, 20, 100, curve); got != 0 {
		t.Fatalf("expected 0 for reversed bounds got %v", got)
	}
	if got := ChargingTime(50, 60, 100, curve); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("expected 0.2 got %v", got)
	}
	// 45 rounds to 40, so buckets 40 and 50 are charged.
	if got := ChargingTime(45, 60, 100, curve); math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("expected 0.4 got %v", got)
	}

	tapered := model.ChargingCurve{0: 100, 10: 100, 20: 0, 90: 20}
	// bucket 20 has no power, buckets 30..80 are missing: both skipped.
	if got := ChargingTime(0, 100, 100, tapered); math.Abs(got-(0.1+0.1+0.5)) > 1e-9 {
		t.Fatalf("unexpected tapered time %v", got)
	}
}

func TestChargingTimeSameBoundsIsZero(t *testing.T) {
	curve := flatCurve(11)
	for s := -20; s <= 120; s += 5 {
		if got := ChargingTime(s, s, 64, curve); got != 0 {
			t.Fatalf("ChargingTime(%d,%d)=%v", s, s, got)
		}
	}
}

func TestStopsFromSegments(t *testing.T) {
	stops := StopsFromSegments([]model.SegmentDistance{
		{From: "A", To: "B", Distance: 70},
		{From: "B", To: "D", Distance: 80},
	})
	if len(stops) != 3 {
		t.Fatalf("expected 3 stops got %d", len(stops))
	}
	if stops[0].Name != "A" || stops[0].DistanceToNext != 70 || !stops[0].HasNext {
		t.Fatalf("unexpected first stop %+v", stops[0])
	}
	if stops[2].Name != "D" || stops[2].HasNext {
		t.Fatalf("unexpected last stop %+v", stops[2])
	}
	if StopsFromSegments(nil) != nil {
		t.Fatalf("expected nil stops")
	}
}
