package snap

import (
	"errors"
	"sort"
)

// DismissID is the reserved ID of the dismiss pseudo-point.
const DismissID = "dismiss"

// Point is a named resting position for a draggable surface. Position is
// measured in the same unit as the gesture offset (e.g. pixels along the
// drag axis).
type Point struct {
	ID       string
	Position float64
}

// Set is the fixed collection of snap points for one interaction session,
// ordered by position ascending, plus an optional dismiss pseudo-point
// whose position lies outside the rendered range.
type Set struct {
	points  []Point
	dismiss *Point
}

// ErrEmptySet is returned when a Set is built without any snap points.
var ErrEmptySet = errors.New("snap: at least one point required")

// NewSet builds a Set from the given points, sorting a copy by position.
// The input slice is not retained. dismiss may be nil for surfaces that
// cannot be dragged away entirely.
func NewSet(points []Point, dismiss *Point) (Set, error) {
	if len(points) == 0 {
		return Set{}, ErrEmptySet
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	var d *Point
	if dismiss != nil {
		p := *dismiss
		if p.ID == "" {
			p.ID = DismissID
		}
		d = &p
	}
	return Set{points: sorted, dismiss: d}, nil
}

// Points returns the snap points in ascending position order.
// The returned slice must not be mutated.
func (s Set) Points() []Point {
	return s.points
}

// Min returns the lowest-position snap point.
func (s Set) Min() Point {
	return s.points[0]
}

// Max returns the highest-position snap point.
func (s Set) Max() Point {
	return s.points[len(s.points)-1]
}

// Dismiss returns the dismiss pseudo-point, if the set has one.
func (s Set) Dismiss() (Point, bool) {
	if s.dismiss == nil {
		return Point{}, false
	}
	return *s.dismiss, true
}

// Nearest returns the point minimizing |offset - position|. On an exact
// distance tie the lower position wins.
func (s Set) Nearest(offset float64) Point {
	best := s.points[0]
	bestDist := abs(offset - best.Position)
	for _, p := range s.points[1:] {
		if d := abs(offset - p.Position); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// IsLegalTarget reports whether pos is the position of a snap point in the
// set or of its dismiss pseudo-point. Animation targets must satisfy this.
func (s Set) IsLegalTarget(pos float64) bool {
	for _, p := range s.points {
		if p.Position == pos {
			return true
		}
	}
	return s.dismiss != nil && s.dismiss.Position == pos
}

// ByID returns the point with the given ID, including the dismiss point.
func (s Set) ByID(id string) (Point, bool) {
	for _, p := range s.points {
		if p.ID == id {
			return p, true
		}
	}
	if s.dismiss != nil && s.dismiss.ID == id {
		return *s.dismiss, true
	}
	return Point{}, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
