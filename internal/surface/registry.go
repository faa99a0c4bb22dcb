package surface

import (
	"fmt"
	"time"

	"github.com/olivier-w/snapkit/internal/gate"
	"github.com/olivier-w/snapkit/internal/snap"
)

// Registry drives any number of independent surfaces (a sheet, several
// swipeable rows) from one frame clock. Surfaces share nothing but the
// gate; each owns its own session and animator state.
type Registry struct {
	gate     *gate.Gate
	surfaces map[string]*Surface
	order    []string
}

// NewRegistry creates an empty Registry with its own gate.
func NewRegistry() *Registry {
	return &Registry{
		gate:     gate.New(),
		surfaces: make(map[string]*Surface),
	}
}

// Add creates and registers a surface. Surface IDs are unique within a
// registry.
func (r *Registry) Add(id string, cfg Config, set snap.Set, initialID string, cb Callbacks) (*Surface, error) {
	if _, ok := r.surfaces[id]; ok {
		return nil, fmt.Errorf("registry: surface %q already registered", id)
	}
	s, err := New(id, cfg, set, initialID, r.gate, cb)
	if err != nil {
		return nil, err
	}
	r.surfaces[id] = s
	r.order = append(r.order, id)
	return s, nil
}

// Get returns the surface with the given ID.
func (r *Registry) Get(id string) (*Surface, bool) {
	s, ok := r.surfaces[id]
	return s, ok
}

// Remove unregisters a surface, typically after it reported dismissal.
func (r *Registry) Remove(id string) {
	if _, ok := r.surfaces[id]; !ok {
		return
	}
	delete(r.surfaces, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	return len(r.surfaces)
}

// Tick polls every surface once with the elapsed frame time, in
// registration order so runs are reproducible under a test clock.
func (r *Registry) Tick(elapsed time.Duration) {
	for _, id := range r.order {
		r.surfaces[id].Tick(elapsed)
	}
}
