package fixer

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-shareforms/pkg/workflow"
)

// Fixer rewrites a workflow in place so the Activiti engine embedded in
// Alfresco accepts it. Fix returns the number of changes made.
type Fixer interface {
	Name() string
	Fix(doc *workflow.Document) (int, error)
}

// Result reports what a single fixer changed.
type Result struct {
	Name    string
	Changes int
}

// Registry runs fixers in registration order. Names are unique.
type Registry struct {
	mu     sync.RWMutex
	fixers []Fixer
	names  map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Default returns a registry holding the built-in fixers.
func Default() *Registry {
	reg := NewRegistry()
	reg.MustRegister(InitiatorAssignee{})
	reg.MustRegister(StartInitiator{})
	reg.MustRegister(ModelerExtensions{})
	return reg
}

// Register appends a fixer. Duplicate names return an error.
func (r *Registry) Register(f Fixer) error {
	if f == nil {
		return fmt.Errorf("fixer: fixer is required")
	}
	name := f.Name()
	if name == "" {
		return fmt.Errorf("fixer: fixer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[name]; exists {
		return fmt.Errorf("fixer: fixer %q already registered", name)
	}
	r.names[name] = struct{}{}
	r.fixers = append(r.fixers, f)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(f Fixer) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// List returns fixer names in run order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.fixers))
	for i, f := range r.fixers {
		names[i] = f.Name()
	}
	return names
}

// Apply runs every fixer against doc and stops at the first failure.
func (r *Registry) Apply(doc *workflow.Document) ([]Result, error) {
	if r == nil {
		return nil, nil
	}
	r.mu.RLock()
	fixers := append([]Fixer(nil), r.fixers...)
	r.mu.RUnlock()

	results := make([]Result, 0, len(fixers))
	for _, f := range fixers {
		n, err := f.Fix(doc)
		if err != nil {
			return results, fmt.Errorf("fixer: %s: %w", f.Name(), err)
		}
		results = append(results, Result{Name: f.Name(), Changes: n})
	}
	return results, nil
}
