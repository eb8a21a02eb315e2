package route

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/evroute/core/graph"
	"github.com/kilianp07/evroute/core/logger"
	"github.com/kilianp07/evroute/core/model"
)

var (
	// ErrUnknownNode is returned when the start or end location is not in the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNoPathFound is returned when start and end are disconnected.
	ErrNoPathFound = errors.New("no path found")
	// ErrCycleDetected is returned when predecessor links loop. It indicates a bug.
	ErrCycleDetected = errors.New("cycle detected during path reconstruction")
	// ErrInvalidParameter is returned for out of range search parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Penalty factor bounds for alternative searches: (MinPenaltyFactor, MaxPenaltyFactor].
const (
	MinPenaltyFactor = 2.0
	MaxPenaltyFactor = 10.0
)

// Result is a path with its total length and legs.
type Result struct {
	Path     model.Path              `json:"path"`
	Distance float64                 `json:"distance"`
	Segments []model.SegmentDistance `json:"segments"`
}

// Planner computes routes. It holds no state besides its logger and can be
// shared between goroutines.
type Planner struct {
	log logger.Logger
}

// NewPlanner returns a Planner. A nil logger disables logging.
func NewPlanner(log logger.Logger) *Planner {
	return &Planner{log: logger.OrNop(log)}
}

// ShortestPath returns the shortest path between start and end. When end is
// unreachable the returned Result has an empty path and an infinite distance
// together with ErrNoPathFound.
func (p *Planner) ShortestPath(g *graph.RoadGraph, start, end model.LocationID) (Result, error) {
	if !g.Has(start) {
		return Result{}, fmt.Errorf("%w: start %s", ErrUnknownNode, start)
	}
	if !g.Has(end) {
		return Result{}, fmt.Errorf("%w: end %s", ErrUnknownNode, end)
	}

	dist := make(map[model.LocationID]float64, len(g.Nodes()))
	for _, n := range g.Nodes() {
		dist[n] = math.Inf(1)
	}
	dist[start] = 0
	prev := make(map[model.LocationID]model.LocationID)
	visited := make(map[model.LocationID]bool)

	q := &distQueue{{node: start, dist: 0}}
	reached := false
	for q.Len() > 0 {
		cur := heap.Pop(q).(queueItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == end {
			reached = true
			break
		}
		for _, n := range g.Neighbors(cur.node) {
			w, _ := g.Distance(cur.node, n)
			if d := cur.dist + w; d < dist[n] {
				dist[n] = d
				prev[n] = cur.node
				heap.Push(q, queueItem{node: n, dist: d})
			}
		}
	}
	if !reached {
		return Result{Distance: math.Inf(1)}, fmt.Errorf("%w: %s to %s", ErrNoPathFound, start, end)
	}

	path, err := reconstruct(prev, start, end)
	if err != nil {
		return Result{}, err
	}
	segs, err := g.Segments(path)
	if err != nil {
		return Result{}, err
	}
	p.log.Debugw("shortest path found", map[string]any{
		"start":    start,
		"end":      end,
		"hops":     len(path) - 1,
		"distance": dist[end],
		"settled":  len(visited),
	})
	return Result{Path: path, Distance: dist[end], Segments: segs}, nil
}

func reconstruct(prev map[model.LocationID]model.LocationID, start, end model.LocationID) (model.Path, error) {
	var rev model.Path
	seen := make(map[model.LocationID]bool)
	cur := end
	for {
		if seen[cur] {
			return nil, fmt.Errorf("%w: at %s", ErrCycleDetected, cur)
		}
		seen[cur] = true
		rev = append(rev, cur)
		if cur == start {
			break
		}
		n, ok := prev[cur]
		if !ok {
			return nil, fmt.Errorf("%w: predecessor chain of %s does not reach %s", ErrNoPathFound, end, start)
		}
		cur = n
	}
	path := make(model.Path, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path, nil
}

// ValidatePenaltyFactor checks that factor lies in (MinPenaltyFactor, MaxPenaltyFactor].
func ValidatePenaltyFactor(factor float64) error {
	if !(factor > MinPenaltyFactor && factor <= MaxPenaltyFactor) {
		return fmt.Errorf("%w: penalty factor %v must be in (%v, %v]", ErrInvalidParameter, factor, MinPenaltyFactor, MaxPenaltyFactor)
	}
	return nil
}

// AlternativePath searches a path that differs from every path in existing by
// penalizing their edges with factor. ok is false when the penalized search
// finds nothing new. The returned distance and segments use the original,
// unpenalized weights.
func (p *Planner) AlternativePath(g *graph.RoadGraph, start, end model.LocationID, existing []model.Path, factor float64) (Result, bool, error) {
	if err := ValidatePenaltyFactor(factor); err != nil {
		return Result{}, false, err
	}
	penalized := g.Penalize(existing, factor)
	res, err := p.ShortestPath(penalized, start, end)
	if errors.Is(err, ErrNoPathFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	for _, e := range existing {
		if res.Path.Equal(e) {
			p.log.Debugf("no alternative from %s to %s with penalty %.1f", start, end, factor)
			return Result{}, false, nil
		}
	}

	segs, err := g.Segments(res.Path)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Path: res.Path, Distance: model.TotalDistance(segs), Segments: segs}, true, nil
}

// Alternatives returns the shortest path followed by up to k-1 alternatives.
// Every found path is penalized for the following searches.
func (p *Planner) Alternatives(g *graph.RoadGraph, start, end model.LocationID, k int, factor float64) ([]Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: route count %d must be positive", ErrInvalidParameter, k)
	}
	if err := ValidatePenaltyFactor(factor); err != nil {
		return nil, err
	}
	best, err := p.ShortestPath(g, start, end)
	if err != nil {
		return nil, err
	}
	out := []Result{best}
	existing := []model.Path{best.Path}
	for len(out) < k {
		alt, ok, err := p.AlternativePath(g, start, end, existing, factor)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, alt)
		existing = append(existing, alt.Path)
	}
	p.log.Infof("found %d route(s) from %s to %s", len(out), start, end)
	return out, nil
}
