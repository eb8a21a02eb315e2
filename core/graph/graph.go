// Package graph holds the undirected road network used by the route planner.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/evroute/core/model"
)

var (
	// ErrInvalidGraph is returned when the adjacency data is inconsistent.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrMissingEdge is returned when two consecutive path nodes are not adjacent.
	ErrMissingEdge = errors.New("missing edge")
)

// Adjacency maps a location to its neighbors and the distance to each of them.
type Adjacency map[model.LocationID]map[model.LocationID]float64

// RoadGraph is an immutable, validated undirected weighted graph. It is safe
// for concurrent reads.
type RoadGraph struct {
	adj       Adjacency
	locations map[model.LocationID]model.Location
}

// New copies adj, validates it and returns the graph. Locations are optional
// metadata keyed by id.
func New(adj Adjacency, locations []model.Location) (*RoadGraph, error) {
	g := &RoadGraph{
		adj:       copyAdjacency(adj),
		locations: make(map[model.LocationID]model.Location, len(locations)),
	}
	for _, l := range locations {
		g.locations[l.ID] = l
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func copyAdjacency(adj Adjacency) Adjacency {
	cp := make(Adjacency, len(adj))
	for n, edges := range adj {
		m := make(map[model.LocationID]float64, len(edges))
		for t, w := range edges {
			m[t] = w
		}
		cp[n] = m
	}
	return cp
}

// Validate checks that every weight is non-negative and every edge is
// reciprocal with the same weight in both directions.
func (g *RoadGraph) Validate() error {
	for _, n := range g.Nodes() {
		for t, w := range g.adj[n] {
			if w < 0 {
				return fmt.Errorf("%w: negative weight between %s and %s", ErrInvalidGraph, n, t)
			}
			back, ok := g.adj[t][n]
			if !ok {
				return fmt.Errorf("%w: missing reciprocal edge between %s and %s", ErrInvalidGraph, t, n)
			}
			if back != w {
				return fmt.Errorf("%w: inconsistent weights between %s and %s", ErrInvalidGraph, n, t)
			}
		}
	}
	return nil
}

// Has reports whether the node is part of the graph.
func (g *RoadGraph) Has(n model.LocationID) bool {
	_, ok := g.adj[n]
	return ok
}

// Nodes returns all node ids in ascending order.
func (g *RoadGraph) Nodes() []model.LocationID {
	out := make([]model.LocationID, 0, len(g.adj))
	for n := range g.adj {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Neighbors returns the nodes adjacent to n in ascending order. A node without
// edges, or an unknown node, has no neighbors.
func (g *RoadGraph) Neighbors(n model.LocationID) []model.LocationID {
	edges := g.adj[n]
	out := make([]model.LocationID, 0, len(edges))
	for t := range edges {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Distance returns the weight of the edge a-b.
func (g *RoadGraph) Distance(a, b model.LocationID) (float64, bool) {
	w, ok := g.adj[a][b]
	return w, ok
}

// Location returns the metadata recorded for id. Unknown ids yield a city
// location with zero coordinates.
func (g *RoadGraph) Location(id model.LocationID) model.Location {
	if l, ok := g.locations[id]; ok {
		return l
	}
	return model.Location{ID: id, Kind: model.KindCity}
}

// EdgeCount returns the number of undirected edges.
func (g *RoadGraph) EdgeCount() int {
	n := 0
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n / 2
}

// Segments returns the legs of path with their distances.
func (g *RoadGraph) Segments(path model.Path) ([]model.SegmentDistance, error) {
	if len(path) < 2 {
		return nil, nil
	}
	segs := make([]model.SegmentDistance, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		w, ok := g.Distance(path[i], path[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: %s-%s", ErrMissingEdge, path[i], path[i+1])
		}
		segs = append(segs, model.SegmentDistance{From: path[i], To: path[i+1], Distance: w})
	}
	return segs, nil
}

// PathDistance returns the total length of path. Paths with fewer than two
// nodes have length 0.
func (g *RoadGraph) PathDistance(path model.Path) (float64, error) {
	segs, err := g.Segments(path)
	if err != nil {
		return 0, err
	}
	return model.TotalDistance(segs), nil
}

// Penalize returns a copy of the graph where every edge lying on one of paths
// has its weight multiplied by factor in both directions. An edge used by
// several paths is penalized once per occurrence. g is left untouched.
func (g *RoadGraph) Penalize(paths []model.Path, factor float64) *RoadGraph {
	adj := copyAdjacency(g.adj)
	for _, p := range paths {
		for i := 0; i < len(p)-1; i++ {
			a, b := p[i], p[i+1]
			if _, ok := adj[a][b]; ok {
				adj[a][b] *= factor
			}
			if _, ok := adj[b][a]; ok {
				adj[b][a] *= factor
			}
		}
	}
	return &RoadGraph{adj: adj, locations: g.locations}
}
