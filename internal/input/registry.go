package input

import (
	"fmt"
	"sync"
)

// Validator implements declaration and value checks for one input kind.
type Validator interface {
	Kind() Kind
	ValidateDeclaration(d Decl) error
	Normalize(d Decl, raw string) (Value, error)
}

// Registry maps input kinds to their validators. Registration happens at
// startup; lookups afterwards are lock-free reads.
type Registry struct {
	validators sync.Map
}

// NewRegistry creates an empty kind registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a registry with all built-in kinds registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Text{})
	r.MustRegister(Password{})
	r.MustRegister(Port{})
	return r
}

// Register adds a validator for its kind.
func (r *Registry) Register(v Validator) error {
	if v.Kind() == "" {
		return fmt.Errorf("input kind cannot be empty")
	}
	r.validators.Store(v.Kind(), v)
	return nil
}

// MustRegister adds a validator and panics on error. Init-time helper.
func (r *Registry) MustRegister(v Validator) {
	if err := r.Register(v); err != nil {
		panic(err)
	}
}

// Get retrieves the validator for a kind.
func (r *Registry) Get(kind Kind) (Validator, bool) {
	val, ok := r.validators.Load(kind)
	if !ok {
		return nil, false
	}
	return val.(Validator), true
}

// Kinds returns all registered kinds.
func (r *Registry) Kinds() []Kind {
	var kinds []Kind
	r.validators.Range(func(key, _ any) bool {
		kinds = append(kinds, key.(Kind))
		return true
	})
	return kinds
}

// ValidateDeclaration checks a declaration against its kind's rules.
func (r *Registry) ValidateDeclaration(d Decl) error {
	v, ok := r.Get(d.Kind)
	if !ok {
		return &DeclarationError{Input: d.Name, Reason: fmt.Sprintf("unknown input type %q", d.Kind)}
	}
	return v.ValidateDeclaration(d)
}

// ResolveValues validates and normalizes every declared input in declaration
// order. A supplied value wins over the declared default; an input with
// neither fails the whole render. Supplied values for undeclared inputs are
// rejected to surface caller typos.
func ResolveValues(r *Registry, decls []Decl, supplied map[string]string) (map[string]Value, error) {
	declared := make(map[string]struct{}, len(decls))
	values := make(map[string]Value, len(decls))

	for _, d := range decls {
		declared[d.Name] = struct{}{}

		v, ok := r.Get(d.Kind)
		if !ok {
			return nil, &DeclarationError{Input: d.Name, Reason: fmt.Sprintf("unknown input type %q", d.Kind)}
		}

		raw, ok := supplied[d.Name]
		if !ok {
			if d.Default == nil {
				return nil, &MissingError{Input: d.Name}
			}
			raw = *d.Default
		}

		value, err := v.Normalize(d, raw)
		if err != nil {
			return nil, err
		}
		values[d.Name] = value
	}

	for name := range supplied {
		if _, ok := declared[name]; !ok {
			return nil, &ValueError{Input: name, Reason: "input is not declared by the blueprint"}
		}
	}

	return values, nil
}
