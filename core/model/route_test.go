package model

import "testing"

func TestPathHelpers(t *testing.T) {
	p := Path{"A", "B", "D"}
	if p.Start() != "A" || p.End() != "D" {
		t.Fatalf("unexpected ends %q %q", p.Start(), p.End())
	}
	if !p.Equal(Path{"A", "B", "D"}) || p.Equal(Path{"A", "C", "D"}) || p.Equal(Path{"A"}) {
		t.Fatalf("equality mismatch")
	}
	cp := p.Clone()
	cp[1] = "X"
	if p[1] != "B" {
		t.Fatalf("clone shares storage")
	}
	var empty Path
	if empty.Start() != "" || empty.End() != "" || empty.Clone() != nil {
		t.Fatalf("empty path helpers")
	}
}

func TestTotalDistance(t *testing.T) {
	segs := []SegmentDistance{{From: "A", To: "B", Distance: 70}, {From: "B", To: "D", Distance: 80}}
	if d := TotalDistance(segs); d != 150 {
		t.Fatalf("expected 150 got %v", d)
	}
	if d := TotalDistance(nil); d != 0 {
		t.Fatalf("expected 0 got %v", d)
	}
}

func TestLocationKind(t *testing.T) {
	k, err := ParseLocationKind("Station")
	if err != nil || k != KindStation || k.String() != "station" {
		t.Fatalf("unexpected kind %v %v", k, err)
	}
	if k, _ := ParseLocationKind(""); k != KindCity {
		t.Fatalf("empty kind should default to city")
	}
	if _, err := ParseLocationKind("harbour"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStrategyHelpers(t *testing.T) {
	s := ChargingStrategy{Decisions: []Decision{
		{Station: "A", ChargeAmount: 0, DepartureSoC: 50},
		{Station: "B", ChargeAmount: 30, DepartureSoC: 60},
	}}
	if !s.Reliable() {
		t.Fatalf("expected reliable strategy")
	}
	if got := s.ChargedStops(); len(got) != 1 || got[0].Station != "B" {
		t.Fatalf("unexpected charged stops %v", got)
	}
	s.Fallbacks = []int{1}
	if s.Reliable() {
		t.Fatalf("fallback strategy must not be reliable")
	}
}
