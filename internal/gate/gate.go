// Package gate enforces the one-active-interaction-per-surface invariant.
// A surface must hold a token before mutating its session; cancellation and
// normal completion may race to release the same token, so release is
// idempotent.
package gate

import (
	"errors"
	"sync"
)

// ErrConflict is returned by Acquire while a token is already outstanding
// for the surface.
var ErrConflict = errors.New("gate: interaction already active for surface")

// Token proves exclusive ownership of one surface's interaction. Tokens
// are value types; copying one does not duplicate ownership because
// release matches on the sequence number.
type Token struct {
	surfaceID string
	seq       uint64
}

// SurfaceID returns the surface this token guards.
func (t Token) SurfaceID() string {
	return t.surfaceID
}

// Gate hands out at most one outstanding token per surface ID. Safe for
// use across surfaces; each surface still drives its own session from a
// single logical thread.
type Gate struct {
	mu   sync.Mutex
	seq  uint64
	held map[string]uint64
}

// New creates an empty Gate.
func New() *Gate {
	return &Gate{held: make(map[string]uint64)}
}

// Acquire claims the surface for one interaction. It fails with
// ErrConflict while a previous token is outstanding.
func (g *Gate) Acquire(surfaceID string) (Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[surfaceID]; ok {
		return Token{}, ErrConflict
	}
	g.seq++
	g.held[surfaceID] = g.seq
	return Token{surfaceID: surfaceID, seq: g.seq}, nil
}

// Release returns the surface to the pool. Releasing an already-released
// or stale token is a no-op.
func (g *Gate) Release(t Token) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq, ok := g.held[t.surfaceID]; ok && seq == t.seq {
		delete(g.held, t.surfaceID)
	}
}

// Held reports whether a token is currently outstanding for the surface.
func (g *Gate) Held(surfaceID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[surfaceID]
	return ok
}
