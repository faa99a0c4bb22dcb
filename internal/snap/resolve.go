package snap

// Resolver selects the target snap point for a gesture that just ended.
// Resolution is a pure function of its inputs: identical (offset, velocity,
// set, dismissThreshold) always yields the identical target.
type Resolver struct {
	// FlickThreshold is the absolute velocity (units/second) above which a
	// gesture counts as a flick and resolution is biased one step in the
	// direction of travel. Zero or negative disables the flick override.
	FlickThreshold float64
}

// Resolve picks the resting point for the given end-of-gesture offset and
// velocity.
//
// Rules, in priority order:
//  1. If the set has a dismiss point, dismissThreshold > 0, and offset has
//     travelled past dismissThreshold (an absolute position beyond the
//     highest snap point), the dismiss point wins regardless of velocity.
//  2. If |velocity| exceeds FlickThreshold, the first point strictly past
//     offset in the direction of travel wins. That candidate is always an
//     ordered neighbor of the nearest point, so a flick commits at most one
//     step. With no point left in the travel direction the flick falls
//     through to rule 3.
//  3. Otherwise the nearest point wins; exact ties go to the lower position.
func (r Resolver) Resolve(offset, velocity float64, set Set, dismissThreshold float64) Point {
	if d, ok := set.Dismiss(); ok && dismissThreshold > 0 && offset > dismissThreshold {
		return d
	}

	if r.FlickThreshold > 0 && abs(velocity) > r.FlickThreshold {
		if p, ok := nextInDirection(set, offset, velocity); ok {
			return p
		}
	}

	return set.Nearest(offset)
}

// nextInDirection returns the first snap point strictly beyond offset in
// the sign of velocity, scanning the ordered set.
func nextInDirection(set Set, offset, velocity float64) (Point, bool) {
	points := set.Points()
	if velocity > 0 {
		for _, p := range points {
			if p.Position > offset {
				return p, true
			}
		}
		return Point{}, false
	}
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Position < offset {
			return points[i], true
		}
	}
	return Point{}, false
}
