// Package gesture turns raw pointer events into a tracked drag offset with
// a short-window velocity estimate. One Tracker owns the interaction
// session for one surface; it is only mutated from that surface's update
// loop.
package gesture

import (
	"errors"
	"time"
)

// Status is the lifecycle phase of an interaction session.
type Status uint8

const (
	// Idle: no active gesture, surface resting at its last settled point.
	Idle Status = iota
	// Dragging: a pointer is down and moving the surface.
	Dragging
	// Settling: the gesture ended and the surface is animating to its
	// resolved snap point.
	Settling
	// Dismissed: the session ended past the dismiss threshold. Terminal.
	Dismissed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	case Dismissed:
		return "dismissed"
	}
	return "unknown"
}

var (
	// ErrConflict is returned by Start while a drag is already active.
	ErrConflict = errors.New("gesture: drag already active")
	// ErrInvalidState is returned when Update, End, or Cancel is called
	// outside the dragging phase or with the wrong pointer ID.
	ErrInvalidState = errors.New("gesture: invalid session state")
)

// velocityWindow bounds how far back samples count toward the velocity
// estimate, so a pause mid-drag reads as zero rather than stale speed.
const velocityWindow = 100 * time.Millisecond

// maxSamples caps the retained move samples; the window prunes harder in
// practice.
const maxSamples = 8

type sample struct {
	offset float64
	at     time.Time
}

// Tracker is the drag state machine for a single surface.
type Tracker struct {
	status      Status
	pointerID   int64
	startOffset float64
	offset      float64
	startedAt   time.Time
	samples     []sample

	minOffset float64
	maxOffset float64
}

// NewTracker creates a Tracker that clamps the running offset to
// [minSnap-overscroll, maxSnap+overscroll], allowing a bounded elastic
// over-drag past the outermost snap points.
func NewTracker(minSnap, maxSnap, overscroll float64) *Tracker {
	return &Tracker{
		minOffset: minSnap - overscroll,
		maxOffset: maxSnap + overscroll,
	}
}

// Status returns the current session phase.
func (t *Tracker) Status() Status {
	return t.status
}

// Offset returns the current clamped offset. Only meaningful while a
// session is active.
func (t *Tracker) Offset() float64 {
	return t.offset
}

// StartOffset returns the offset the active gesture began at.
func (t *Tracker) StartOffset() float64 {
	return t.startOffset
}

// Start begins a drag session for the given pointer at originOffset
// (typically the surface's current animated value). It fails with
// ErrConflict while another drag is active; a settling surface may be
// re-grabbed.
func (t *Tracker) Start(pointerID int64, originOffset float64, at time.Time) error {
	if t.status == Dragging {
		return ErrConflict
	}
	if t.status == Dismissed {
		return ErrInvalidState
	}
	t.status = Dragging
	t.pointerID = pointerID
	t.startOffset = originOffset
	t.offset = clamp(originOffset, t.minOffset, t.maxOffset)
	t.startedAt = at
	t.samples = t.samples[:0]
	t.samples = append(t.samples, sample{offset: t.offset, at: at})
	return nil
}

// Update applies a pointer-move carrying the total translation since
// gesture start and returns the new clamped offset. Valid only while
// dragging with the same pointer.
func (t *Tracker) Update(pointerID int64, translation float64, at time.Time) (float64, error) {
	if t.status != Dragging || pointerID != t.pointerID {
		return 0, ErrInvalidState
	}
	t.offset = clamp(t.startOffset+translation, t.minOffset, t.maxOffset)
	t.record(sample{offset: t.offset, at: at})
	return t.offset, nil
}

// End finishes the drag and returns the final offset together with the
// windowed velocity estimate (units/second), transitioning the session to
// Settling. The caller hands both to the snap resolver.
func (t *Tracker) End(pointerID int64, at time.Time) (offset, velocity float64, err error) {
	if t.status != Dragging || pointerID != t.pointerID {
		return 0, 0, ErrInvalidState
	}
	t.status = Settling
	return t.offset, t.velocityAt(at), nil
}

// Cancel discards the active drag without resolving it (pointer lost,
// gesture preempted). The surface returns to its last settled snap point.
func (t *Tracker) Cancel(pointerID int64) error {
	if t.status != Dragging || pointerID != t.pointerID {
		return ErrInvalidState
	}
	t.status = Idle
	t.samples = t.samples[:0]
	return nil
}

// Complete marks the settling animation as finished, returning the session
// to Idle so a new drag may start.
func (t *Tracker) Complete() {
	if t.status == Settling {
		t.status = Idle
	}
}

// Dismiss marks the session as dismissed. Terminal: no further drags are
// accepted on this tracker.
func (t *Tracker) Dismiss() {
	t.status = Dismissed
}

// record appends a move sample and prunes anything outside the velocity
// window.
func (t *Tracker) record(s sample) {
	t.samples = append(t.samples, s)
	cutoff := s.at.Add(-velocityWindow)
	i := 0
	for i < len(t.samples)-1 && t.samples[i].at.Before(cutoff) {
		i++
	}
	t.samples = t.samples[i:]
	if len(t.samples) > maxSamples {
		t.samples = t.samples[len(t.samples)-maxSamples:]
	}
}

// velocityAt estimates velocity from the samples inside the window ending
// at the given time. Fewer than two recent samples reads as zero.
func (t *Tracker) velocityAt(at time.Time) float64 {
	cutoff := at.Add(-velocityWindow)
	recent := t.samples
	for len(recent) > 0 && recent[0].at.Before(cutoff) {
		recent = recent[1:]
	}
	if len(recent) < 2 {
		return 0
	}
	first, last := recent[0], recent[len(recent)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.offset - first.offset) / dt
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
