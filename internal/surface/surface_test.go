package surface

import (
	"errors"
	"testing"
	"time"

	"github.com/olivier-w/snapkit/internal/gesture"
	"github.com/olivier-w/snapkit/internal/snap"
	"github.com/olivier-w/snapkit/internal/spring"
)

const frame = time.Second / 60

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// recorder captures the engine's callback output for assertions.
type recorder struct {
	values    []float64
	settled   []string
	dismissed int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnValueChange: func(v float64) { r.values = append(r.values, v) },
		OnSettled:     func(id string) { r.settled = append(r.settled, id) },
		OnDismissed:   func() { r.dismissed++ },
	}
}

func sheetSet(t *testing.T) snap.Set {
	t.Helper()
	set, err := snap.NewSet([]snap.Point{
		{ID: "closed", Position: 800},
		{ID: "half", Position: 400},
		{ID: "open", Position: 100},
	}, &snap.Point{Position: 1000})
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	return set
}

func sheetConfig() Config {
	cfg := DefaultConfig()
	cfg.FlickThreshold = 900
	cfg.Overscroll = 120
	cfg.DismissThreshold = 850
	return cfg
}

func newSheet(t *testing.T, cfg Config, rec *recorder) (*Registry, *Surface) {
	t.Helper()
	reg := NewRegistry()
	s, err := reg.Add("sheet", cfg, sheetSet(t), "closed", rec.callbacks())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return reg, s
}

// settle ticks the registry until the surface leaves the settling phase.
func settle(t *testing.T, reg *Registry, s *Surface) {
	t.Helper()
	for i := 0; i < 1200; i++ {
		reg.Tick(frame)
		if s.Status() != gesture.Settling {
			return
		}
	}
	t.Fatalf("surface stuck settling at value %v", s.Value())
}

func TestSlowDragSettlesNearest(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	if err := s.StartDrag(1, t0); err != nil {
		t.Fatalf("StartDrag() error = %v", err)
	}
	if err := s.Drag(1, 20, t0.Add(100*time.Millisecond)); err != nil {
		t.Fatalf("Drag() error = %v", err)
	}
	if err := s.EndDrag(1, t0.Add(100*time.Millisecond)); err != nil {
		t.Fatalf("EndDrag() error = %v", err)
	}

	settle(t, reg, s)
	if s.Value() != 800 {
		t.Fatalf("Value() = %v, want 800", s.Value())
	}
	if len(rec.settled) != 1 || rec.settled[0] != "closed" {
		t.Fatalf("settled callbacks = %v, want [closed]", rec.settled)
	}
	if len(rec.values) == 0 {
		t.Fatal("no OnValueChange callbacks fired")
	}
}

func TestFastFlickPromotesOneStep(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	s.StartDrag(1, t0)
	// 200 units upward in the final 100ms: well past the flick threshold,
	// but only one step is promoted, so half wins even though open might
	// be nearer by a midpoint rule.
	s.Drag(1, -100, t0.Add(100*time.Millisecond))
	s.Drag(1, -200, t0.Add(150*time.Millisecond))
	s.Drag(1, -300, t0.Add(200*time.Millisecond))
	if err := s.EndDrag(1, t0.Add(200*time.Millisecond)); err != nil {
		t.Fatalf("EndDrag() error = %v", err)
	}

	settle(t, reg, s)
	if s.Value() != 400 {
		t.Fatalf("Value() = %v, want 400 (half)", s.Value())
	}
	if len(rec.settled) != 1 || rec.settled[0] != "half" {
		t.Fatalf("settled callbacks = %v, want [half]", rec.settled)
	}
}

func TestDragPastDismissThreshold(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	s.StartDrag(1, t0)
	s.Drag(1, 100, t0.Add(100*time.Millisecond))
	if err := s.EndDrag(1, t0.Add(100*time.Millisecond)); err != nil {
		t.Fatalf("EndDrag() error = %v", err)
	}

	settle(t, reg, s)
	if rec.dismissed != 1 {
		t.Fatalf("dismissed callbacks = %d, want 1", rec.dismissed)
	}
	if len(rec.settled) != 0 {
		t.Fatalf("settled callbacks = %v, want none on dismissal", rec.settled)
	}
	if s.Status() != gesture.Dismissed {
		t.Fatalf("Status() = %v, want dismissed", s.Status())
	}

	reg.Remove(s.ID())
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d after Remove, want 0", reg.Len())
	}
}

func TestExclusivityAcrossLifecycle(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	if err := s.StartDrag(1, t0); err != nil {
		t.Fatalf("StartDrag() error = %v", err)
	}
	if err := s.StartDrag(2, t0); !errors.Is(err, gesture.ErrConflict) {
		t.Fatalf("concurrent StartDrag() error = %v, want ErrConflict", err)
	}

	// Cancel frees the surface once the spring-back settles.
	if err := s.CancelDrag(1); err != nil {
		t.Fatalf("CancelDrag() error = %v", err)
	}
	settle(t, reg, s)
	if err := s.StartDrag(2, t0.Add(time.Second)); err != nil {
		t.Fatalf("StartDrag() after cancel error = %v", err)
	}
}

func TestCancelSpringsBackToLastSettled(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	s.StartDrag(1, t0)
	s.Drag(1, -350, t0.Add(100*time.Millisecond))
	if err := s.CancelDrag(1); err != nil {
		t.Fatalf("CancelDrag() error = %v", err)
	}
	if s.Status() != gesture.Settling {
		t.Fatalf("Status() after cancel = %v, want settling", s.Status())
	}

	settle(t, reg, s)
	if s.Value() != 800 {
		t.Fatalf("Value() = %v, want 800 (back at closed)", s.Value())
	}
	if len(rec.settled) != 1 || rec.settled[0] != "closed" {
		t.Fatalf("settled callbacks = %v, want [closed]", rec.settled)
	}
}

func TestRegrabWhileSettlingKeepsValue(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	s.StartDrag(1, t0)
	s.Drag(1, -300, t0.Add(100*time.Millisecond))
	s.EndDrag(1, t0.Add(100*time.Millisecond))
	for i := 0; i < 5; i++ {
		reg.Tick(frame)
	}
	mid := s.Value()
	if mid == 500 || mid == 400 {
		t.Fatalf("expected a mid-flight value, got %v", mid)
	}

	if err := s.StartDrag(2, t0.Add(200*time.Millisecond)); err != nil {
		t.Fatalf("re-grab StartDrag() error = %v", err)
	}
	if s.Value() != mid {
		t.Fatalf("re-grab jumped value from %v to %v", mid, s.Value())
	}
	if got := s.SessionSnapshot().StartOffset; got != mid {
		t.Fatalf("re-grab StartOffset = %v, want %v", got, mid)
	}
}

func TestReducedMotionInstantTransition(t *testing.T) {
	var rec recorder
	cfg := sheetConfig()
	cfg.ReducedMotion = func() bool { return true }
	reg, s := newSheet(t, cfg, &rec)

	s.StartDrag(1, t0)
	s.Drag(1, -350, t0.Add(100*time.Millisecond))
	s.EndDrag(1, t0.Add(100*time.Millisecond))

	before := len(rec.values)
	reg.Tick(frame)
	if s.Status() != gesture.Idle {
		t.Fatalf("Status() = %v, want idle after one instant tick", s.Status())
	}
	if s.Value() != 400 {
		t.Fatalf("Value() = %v, want 400", s.Value())
	}
	if got := len(rec.values) - before; got != 1 {
		t.Fatalf("instant transition emitted %d samples, want 1", got)
	}
}

func TestModeFixedAtTransitionStart(t *testing.T) {
	reduced := false
	var rec recorder
	cfg := sheetConfig()
	cfg.ReducedMotion = func() bool { return reduced }
	reg, s := newSheet(t, cfg, &rec)

	s.StartDrag(1, t0)
	s.Drag(1, -350, t0.Add(100*time.Millisecond))
	s.EndDrag(1, t0.Add(100*time.Millisecond))
	reg.Tick(frame)

	// Flipping the preference mid-flight must not make the running
	// transition instant.
	reduced = true
	reg.Tick(frame)
	if s.Status() != gesture.Settling {
		t.Fatal("spring transition became instant after mid-flight preference change")
	}
	settle(t, reg, s)
	if s.Value() != 400 {
		t.Fatalf("Value() = %v, want 400", s.Value())
	}
}

func TestSnapToProgrammatic(t *testing.T) {
	var rec recorder
	reg, s := newSheet(t, sheetConfig(), &rec)

	if err := s.SnapTo("open"); err != nil {
		t.Fatalf("SnapTo() error = %v", err)
	}
	settle(t, reg, s)
	if s.Value() != 100 {
		t.Fatalf("Value() = %v, want 100", s.Value())
	}
	if len(rec.settled) != 1 || rec.settled[0] != "open" {
		t.Fatalf("settled callbacks = %v, want [open]", rec.settled)
	}

	if err := s.SnapTo("nope"); !errors.Is(err, spring.ErrInvalidTarget) {
		t.Fatalf("SnapTo(nope) error = %v, want ErrInvalidTarget", err)
	}
}

func TestRegistryIndependentSurfaces(t *testing.T) {
	reg := NewRegistry()
	var recA, recB recorder
	rowSet := func() snap.Set {
		set, err := snap.NewSet([]snap.Point{
			{ID: "rest", Position: 0},
			{ID: "revealed", Position: -160},
		}, nil)
		if err != nil {
			t.Fatalf("NewSet() error = %v", err)
		}
		return set
	}

	a, err := reg.Add("row-1", DefaultConfig(), rowSet(), "rest", recA.callbacks())
	if err != nil {
		t.Fatalf("Add(row-1) error = %v", err)
	}
	b, err := reg.Add("row-2", DefaultConfig(), rowSet(), "rest", recB.callbacks())
	if err != nil {
		t.Fatalf("Add(row-2) error = %v", err)
	}
	if _, err := reg.Add("row-1", DefaultConfig(), rowSet(), "rest", Callbacks{}); err == nil {
		t.Fatal("duplicate Add() succeeded")
	}

	// Two rows drag at the same time without contending.
	if err := a.StartDrag(1, t0); err != nil {
		t.Fatalf("row-1 StartDrag() error = %v", err)
	}
	if err := b.StartDrag(2, t0); err != nil {
		t.Fatalf("row-2 StartDrag() error = %v", err)
	}
	a.Drag(1, -150, t0.Add(50*time.Millisecond))
	a.EndDrag(1, t0.Add(50*time.Millisecond))
	b.CancelDrag(2)

	settle(t, reg, a)
	settle(t, reg, b)
	if a.Value() != -160 {
		t.Fatalf("row-1 Value() = %v, want -160", a.Value())
	}
	if b.Value() != 0 {
		t.Fatalf("row-2 Value() = %v, want 0", b.Value())
	}
}
