package model

// Path is an ordered sequence of locations. The first element is the start
// and the last the destination.
type Path []LocationID

// Start returns the first location or "" for an empty path.
func (p Path) Start() LocationID {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// End returns the last location or "" for an empty path.
func (p Path) End() LocationID {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Equal reports whether both paths visit the same locations in the same order.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	cp := make(Path, len(p))
	copy(cp, p)
	return cp
}

// SegmentDistance is one leg of a path.
type SegmentDistance struct {
	From     LocationID `json:"from"`
	To       LocationID `json:"to"`
	Distance float64    `json:"distance"` // km
}

// TotalDistance sums the distances of the given segments.
func TotalDistance(segs []SegmentDistance) float64 {
	var d float64
	for _, s := range segs {
		d += s.Distance
	}
	return d
}
