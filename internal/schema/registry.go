package schema

import (
	"sync"
)

// BaseRef is the well-known reference terminating every amends chain.
const BaseRef = "io.kuken.Schema"

// baseSchema is the built-in base reference schema.
const baseSchema = `
name: io.kuken.Schema
fields:
  - name: name
    kind: string
    required: true
  - name: version
    kind: string
    required: true
  - name: url
    kind: string
    required: true
  - name: inputs
    kind: inputs
    required: true
  - name: build
    kind: build
    required: true
`

// Base returns a fresh copy of the built-in base reference schema.
func Base() *Schema {
	return MustLoad([]byte(baseSchema))
}

// Registry indexes schemas by the reference blueprints use in amends.
// Writes happen at startup only; reads afterwards share the registry freely.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// DefaultRegistry returns a registry seeded with the base reference schema.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Add(BaseRef, Base())
	return r
}

// Add registers a schema under a reference.
func (r *Registry) Add(ref string, s *Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[ref] = s
}

// Get retrieves a schema by reference.
func (r *Registry) Get(ref string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[ref]
	return s, ok
}

// Refs lists every registered schema reference.
func (r *Registry) Refs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refs := make([]string, 0, len(r.schemas))
	for ref := range r.schemas {
		refs = append(refs, ref)
	}
	return refs
}
