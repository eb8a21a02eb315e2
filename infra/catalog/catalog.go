// Package catalog loads the road network and the vehicle catalog from data
// files. JSON and YAML are accepted, selected by file extension.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evroute/core/graph"
	"github.com/kilianp07/evroute/core/logger"
	"github.com/kilianp07/evroute/core/model"
)

// ErrUnsupportedFormat is returned for data files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// Location names may contain dots, so keys are split on a character that
// never appears in them.
const keyDelim = "/"

// Files locates the catalog data. Relative file names are resolved against Dir.
type Files struct {
	Dir      string
	Nodes    string
	Graph    string
	Vehicles string
}

func (f Files) path(name string) string {
	if name == "" || filepath.IsAbs(name) || f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// Catalog is the loaded, validated planning data.
type Catalog struct {
	Graph    *graph.RoadGraph
	Vehicles map[string]model.VehicleProfile
}

// VehicleNames returns the catalog vehicle types sorted by name.
func (c *Catalog) VehicleNames() []string {
	names := make([]string, 0, len(c.Vehicles))
	for n := range c.Vehicles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type nodeEntry struct {
	Type     string    `json:"type"`
	Location []float64 `json:"location"`
}

type vehicleEntry struct {
	BatterySize         float64            `json:"battery_size"`
	RangePerKW          float64            `json:"range_per_kw"`
	CurrentBatteryLevel int                `json:"current_battery_level"`
	DrivingSpeed        float64            `json:"driving_speed"`
	ChargingCurve       map[string]float64 `json:"charging_curve"`
}

// Load reads nodes, graph and vehicles. The nodes file is optional; the graph
// and vehicles files are required.
func Load(files Files, log logger.Logger) (*Catalog, error) {
	log = logger.OrNop(log)
	var locations []model.Location
	if files.Nodes != "" {
		var err error
		if locations, err = LoadLocations(files.path(files.Nodes)); err != nil {
			return nil, err
		}
	}
	g, err := LoadGraph(files.path(files.Graph), locations, log)
	if err != nil {
		return nil, err
	}
	vehicles, err := LoadVehicles(files.path(files.Vehicles))
	if err != nil {
		return nil, err
	}
	log.Infof("catalog loaded: %d locations, %d roads, %d vehicles", len(g.Nodes()), g.EdgeCount(), len(vehicles))
	return &Catalog{Graph: g, Vehicles: vehicles}, nil
}

// LoadLocations reads the location metadata file.
func LoadLocations(path string) ([]model.Location, error) {
	var raw map[string]nodeEntry
	if err := decode(path, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Location, 0, len(raw))
	for name, n := range raw {
		kind, err := model.ParseLocationKind(n.Type)
		if err != nil {
			return nil, fmt.Errorf("location %s: %w", name, err)
		}
		loc := model.Location{ID: name, Kind: kind}
		switch len(n.Location) {
		case 0:
		case 2:
			loc.X, loc.Y = n.Location[0], n.Location[1]
		default:
			return nil, fmt.Errorf("location %s: expected [x, y], got %d values", name, len(n.Location))
		}
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadGraph reads the adjacency file and builds a validated RoadGraph.
// Locations without any road are kept as isolated nodes.
func LoadGraph(path string, locations []model.Location, log logger.Logger) (*graph.RoadGraph, error) {
	log = logger.OrNop(log)
	var adj graph.Adjacency
	if err := decode(path, &adj); err != nil {
		return nil, err
	}
	if adj == nil {
		adj = graph.Adjacency{}
	}
	known := make(map[model.LocationID]bool, len(locations))
	for _, l := range locations {
		known[l.ID] = true
		if _, ok := adj[l.ID]; !ok {
			adj[l.ID] = map[model.LocationID]float64{}
		}
	}
	if len(locations) > 0 {
		for n := range adj {
			if !known[n] {
				log.Warnf("graph node %s has no location metadata", n)
			}
		}
	}
	g, err := graph.New(adj, locations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// LoadVehicles reads the vehicle catalog keyed by vehicle type.
func LoadVehicles(path string) (map[string]model.VehicleProfile, error) {
	var raw map[string]vehicleEntry
	if err := decode(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]model.VehicleProfile, len(raw))
	for name, e := range raw {
		curve, err := model.ParseChargingCurve(e.ChargingCurve)
		if err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", name, err)
		}
		v := model.VehicleProfile{
			Name:         name,
			BatteryKWh:   e.BatterySize,
			RangePerKWh:  e.RangePerKW,
			CurrentSoC:   e.CurrentBatteryLevel,
			DrivingSpeed: e.DrivingSpeed,
			Curve:        curve,
		}
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func decode(path string, out any) error {
	if path == "" {
		return errors.New("data file path is empty")
	}
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
