package model

import (
	"fmt"
	"strings"
)

// LocationID identifies a location of the road network by name.
type LocationID = string

// LocationKind classifies a location. It is metadata only and has no effect
// on route search.
type LocationKind int

const (
	KindCity LocationKind = iota
	KindStation
)

// String returns the catalog representation of the kind.
func (k LocationKind) String() string {
	switch k {
	case KindCity:
		return "city"
	case KindStation:
		return "station"
	default:
		return "unknown"
	}
}

// ParseLocationKind converts a catalog value to a LocationKind. An empty value
// is treated as a city.
func ParseLocationKind(s string) (LocationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "city":
		return KindCity, nil
	case "station", "charging_station":
		return KindStation, nil
	default:
		return KindCity, fmt.Errorf("unknown location kind %q", s)
	}
}

// Location is a named point of the road network.
type Location struct {
	ID   LocationID
	Kind LocationKind
	X    float64 // map coordinates, informational
	Y    float64
}
