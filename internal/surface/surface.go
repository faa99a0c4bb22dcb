// Package surface orchestrates one draggable surface: it feeds pointer
// input through the gesture tracker, resolves gesture end to a snap
// target, and drives the spring animator from an injected frame clock.
// Gesture input, resolution, and animation for one surface are strictly
// sequential; the gate token enforces that only one interaction owns the
// surface at a time.
package surface

import (
	"fmt"
	"time"

	"github.com/olivier-w/snapkit/internal/gate"
	"github.com/olivier-w/snapkit/internal/gesture"
	"github.com/olivier-w/snapkit/internal/snap"
	"github.com/olivier-w/snapkit/internal/spring"
)

// Config carries the tunables for one surface. None of the numeric values
// is canonical; presentation layers tune them per surface type.
type Config struct {
	Spring spring.Config

	// FlickThreshold is the gesture-end speed (units/second) that promotes
	// resolution one step in the travel direction.
	FlickThreshold float64

	// Overscroll is the elastic travel allowed past the outermost snap
	// points while dragging.
	Overscroll float64

	// DismissThreshold is the absolute offset past which a gesture resolves
	// to the dismiss pseudo-point. Zero disables dismissal even when the
	// snap set has a dismiss point.
	DismissThreshold float64

	// ReducedMotion is read once at each transition start; a true reading
	// makes that whole transition instant. Nil means never reduced.
	ReducedMotion func() bool
}

// DefaultConfig returns a workable starting tuning.
func DefaultConfig() Config {
	return Config{
		FlickThreshold: 700,
		Overscroll:     48,
	}
}

// Callbacks is the engine's only output: dependent visuals and
// accessibility announcements hang off these three hooks.
type Callbacks struct {
	OnValueChange func(value float64)
	OnSettled     func(snapID string)
	OnDismissed   func()
}

// Session is a read-only snapshot of a surface's interaction state.
type Session struct {
	StartOffset   float64
	CurrentOffset float64
	Velocity      float64
	StartedAt     time.Time
	ActiveSnap    string
	Status        gesture.Status
}

// Surface is one independently animated drag surface. All methods must be
// called from the surface's single logical thread of control.
type Surface struct {
	id       string
	cfg      Config
	set      snap.Set
	resolver snap.Resolver
	tracker  *gesture.Tracker
	anim     *spring.Animator

	gate     *gate.Gate
	token    gate.Token
	hasToken bool

	settled   snap.Point // last resting point
	pending   snap.Point // target of the in-flight transition
	startedAt time.Time

	cb Callbacks
}

// New creates a Surface resting at the snap point named by initialID.
func New(id string, cfg Config, set snap.Set, initialID string, g *gate.Gate, cb Callbacks) (*Surface, error) {
	initial, ok := set.ByID(initialID)
	if !ok {
		return nil, fmt.Errorf("surface %s: unknown initial snap point %q", id, initialID)
	}
	return &Surface{
		id:       id,
		cfg:      cfg,
		set:      set,
		resolver: snap.Resolver{FlickThreshold: cfg.FlickThreshold},
		tracker:  gesture.NewTracker(set.Min().Position, set.Max().Position, cfg.Overscroll),
		anim:     spring.NewAnimator(cfg.Spring, initial.Position, set.IsLegalTarget),
		gate:     g,
		settled:  initial,
		pending:  initial,
		cb:       cb,
	}, nil
}

// ID returns the surface identifier.
func (s *Surface) ID() string {
	return s.id
}

// Value returns the animated scalar, the single source of truth for every
// bound visual.
func (s *Surface) Value() float64 {
	return s.anim.Value()
}

// Status returns the session phase, derived from the tracker and the
// animator: a cancel spring-back reads as settling even though the drag
// session was discarded.
func (s *Surface) Status() gesture.Status {
	switch {
	case s.tracker.Status() == gesture.Dragging:
		return gesture.Dragging
	case s.tracker.Status() == gesture.Dismissed:
		return gesture.Dismissed
	case s.anim.Animating():
		return gesture.Settling
	default:
		return gesture.Idle
	}
}

// SessionSnapshot reports the current interaction state.
func (s *Surface) SessionSnapshot() Session {
	return Session{
		StartOffset:   s.tracker.StartOffset(),
		CurrentOffset: s.anim.Value(),
		Velocity:      s.anim.Velocity(),
		StartedAt:     s.startedAt,
		ActiveSnap:    s.settled.ID,
		Status:        s.Status(),
	}
}

// StartDrag begins a drag at the surface's current animated value. A
// settling surface may be re-grabbed mid-flight; its animation stops and
// the pointer takes over at the current value with no jump. Starting over
// an active drag fails with gesture.ErrConflict.
func (s *Surface) StartDrag(pointerID int64, at time.Time) error {
	if s.tracker.Status() == gesture.Dragging {
		return fmt.Errorf("start drag on %s: %w", s.id, gesture.ErrConflict)
	}
	acquired := false
	if !s.hasToken {
		tok, err := s.gate.Acquire(s.id)
		if err != nil {
			return fmt.Errorf("start drag on %s: %w", s.id, err)
		}
		s.token = tok
		s.hasToken = true
		acquired = true
	}
	if err := s.tracker.Start(pointerID, s.anim.Value(), at); err != nil {
		if acquired {
			s.gate.Release(s.token)
			s.hasToken = false
		}
		return fmt.Errorf("start drag on %s: %w", s.id, err)
	}
	s.anim.Pin(s.anim.Value())
	s.startedAt = at
	return nil
}

// Drag applies a pointer-move carrying the total translation since the
// drag began and reports the clamped offset through OnValueChange.
func (s *Surface) Drag(pointerID int64, translation float64, at time.Time) error {
	offset, err := s.tracker.Update(pointerID, translation, at)
	if err != nil {
		return fmt.Errorf("drag on %s: %w", s.id, err)
	}
	s.anim.Pin(offset)
	s.emitValue(offset)
	return nil
}

// EndDrag resolves the gesture to a snap target and starts the settling
// transition. The reduced-motion preference is read here and fixed for the
// whole transition.
func (s *Surface) EndDrag(pointerID int64, at time.Time) error {
	offset, velocity, err := s.tracker.End(pointerID, at)
	if err != nil {
		return fmt.Errorf("end drag on %s: %w", s.id, err)
	}
	target := s.resolver.Resolve(offset, velocity, s.set, s.cfg.DismissThreshold)
	if err := s.anim.AnimateTo(target.Position, offset, velocity, s.mode()); err != nil {
		return fmt.Errorf("end drag on %s: %w", s.id, err)
	}
	s.pending = target
	return nil
}

// CancelDrag discards the active drag without resolution and springs the
// surface back to its last settled snap point.
func (s *Surface) CancelDrag(pointerID int64) error {
	if err := s.tracker.Cancel(pointerID); err != nil {
		return fmt.Errorf("cancel drag on %s: %w", s.id, err)
	}
	if err := s.anim.Retarget(s.settled.Position, s.mode()); err != nil {
		return fmt.Errorf("cancel drag on %s: %w", s.id, err)
	}
	s.pending = s.settled
	return nil
}

// SnapTo starts a programmatic transition to the named snap point, e.g. a
// button that opens the sheet without a gesture. It follows the same
// exclusivity rules as a drag.
func (s *Surface) SnapTo(id string) error {
	if s.tracker.Status() == gesture.Dragging {
		return fmt.Errorf("snap %s to %q: %w", s.id, id, gesture.ErrConflict)
	}
	target, ok := s.set.ByID(id)
	if !ok {
		return fmt.Errorf("snap %s to %q: %w", s.id, id, spring.ErrInvalidTarget)
	}
	if !s.hasToken {
		tok, err := s.gate.Acquire(s.id)
		if err != nil {
			return fmt.Errorf("snap %s to %q: %w", s.id, id, err)
		}
		s.token = tok
		s.hasToken = true
	}
	if err := s.anim.Retarget(target.Position, s.mode()); err != nil {
		return fmt.Errorf("snap %s to %q: %w", s.id, id, err)
	}
	s.pending = target
	return nil
}

// Tick advances the surface by the elapsed frame time. The host frame
// clock calls this once per refresh; a headless test clock passes
// synthetic deltas. Idle surfaces are a no-op.
func (s *Surface) Tick(elapsed time.Duration) {
	sample, ok := s.anim.Tick(elapsed)
	if !ok {
		return
	}
	s.emitValue(sample.Value)
	if !sample.Settled {
		return
	}

	if d, hasDismiss := s.set.Dismiss(); hasDismiss && s.pending.ID == d.ID {
		s.tracker.Dismiss()
		s.releaseToken()
		if s.cb.OnDismissed != nil {
			s.cb.OnDismissed()
		}
		return
	}

	s.settled = s.pending
	s.tracker.Complete()
	s.releaseToken()
	if s.cb.OnSettled != nil {
		s.cb.OnSettled(s.settled.ID)
	}
}

func (s *Surface) mode() spring.Mode {
	if s.cfg.ReducedMotion != nil && s.cfg.ReducedMotion() {
		return spring.ModeInstant
	}
	return spring.ModeSpring
}

func (s *Surface) emitValue(v float64) {
	if s.cb.OnValueChange != nil {
		s.cb.OnValueChange(v)
	}
}

func (s *Surface) releaseToken() {
	if s.hasToken {
		s.gate.Release(s.token)
		s.hasToken = false
	}
}
