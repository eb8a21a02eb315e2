package config

import (
	"fmt"

	"github.com/kilianp07/evroute/infra/catalog"
)

// DataConfig locates the road network and vehicle catalog files.
type DataConfig struct {
	Dir          string `json:"dir"`
	NodesFile    string `json:"nodes_file"`
	GraphFile    string `json:"graph_file"`
	VehiclesFile string `json:"vehicles_file"`
}

// SetDefaults applies the conventional file names of a data directory.
func (c *DataConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
	if c.NodesFile == "" {
		c.NodesFile = "nodes.json"
	}
	if c.GraphFile == "" {
		c.GraphFile = "graph.json"
	}
	if c.VehiclesFile == "" {
		c.VehiclesFile = "cars.json"
	}
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.GraphFile == "" {
		return fmt.Errorf("graph_file is required")
	}
	if c.VehiclesFile == "" {
		return fmt.Errorf("vehicles_file is required")
	}
	return nil
}

// Files converts the section to catalog file locations.
func (c DataConfig) Files() catalog.Files {
	return catalog.Files{
		Dir:      c.Dir,
		Nodes:    c.NodesFile,
		Graph:    c.GraphFile,
		Vehicles: c.VehiclesFile,
	}
}
