package report

import (
	"context"
	"fmt"
	"sync"
)

// Section builds one part of a Report from a prepared Pass.
type Section interface {
	// Name is the key the section is registered and configured under.
	Name() string
	// Apply fills its part of r. It must not mutate p.
	Apply(ctx context.Context, p *Pass, r *Report) error
}

// Registry maps section names to sections.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu       sync.RWMutex
	sections map[string]Section
	order    []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sections: make(map[string]Section)}
}

// DefaultRegistry holds every built-in section.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(membersSection{})
	r.Register(sessionsSection{})
	r.Register(perfectSection{})
	r.Register(agePrivilegedSection{})
	r.Register(onLeaveSection{})
	r.Register(gridSection{})
	return r
}

// Register adds a section. Panics on a duplicate name to surface misconfiguration early.
func (r *Registry) Register(s Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sections[s.Name()]; exists {
		panic(fmt.Sprintf("report registry: duplicate section %q", s.Name()))
	}
	r.sections[s.Name()] = s
	r.order = append(r.order, s.Name())
}

// Get returns the section registered under name.
func (r *Registry) Get(name string) (Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sections[name]
	if !ok {
		return nil, fmt.Errorf("no section registered as %q", name)
	}
	return s, nil
}

// Names returns registered section names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
