package refs

import (
	"fmt"
	"strings"
)

// Context maps runtime reference paths ("instance.name") to concrete values.
// It is supplied by the deployment collaborator and treated as read-only.
type Context map[string]string

// Resolved is a fully concrete value. Secret marks values derived from
// password inputs so downstream rendering can redact them in diagnostics.
type Resolved struct {
	Value  string
	Secret bool
}

// Inputs supplies resolved input values by declared name.
type Inputs interface {
	Lookup(name string) (Resolved, bool)
}

// InputMap is a map-backed Inputs implementation.
type InputMap map[string]Resolved

// Lookup implements Inputs.
func (m InputMap) Lookup(name string) (Resolved, bool) {
	r, ok := m[name]
	return r, ok
}

// UnresolvedError reports the first reference that could not be resolved.
type UnresolvedError struct {
	Kind Kind
	Name string
}

// Error implements error.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved %s reference %q", e.Kind, e.Name)
}

// Resolve substitutes every reference in the expression. References are
// resolved strictly left to right; the first failure aborts with an
// UnresolvedError so repeated renders report the same reference.
func (e Expr) Resolve(inputs Inputs, ctx Context) (Resolved, error) {
	var sb strings.Builder
	secret := false

	for _, p := range e.parts {
		switch p.kind {
		case KindLiteral:
			sb.WriteString(p.text)
		case KindInput:
			if inputs == nil {
				return Resolved{}, &UnresolvedError{Kind: KindInput, Name: p.text}
			}
			r, ok := inputs.Lookup(p.text)
			if !ok {
				return Resolved{}, &UnresolvedError{Kind: KindInput, Name: p.text}
			}
			sb.WriteString(r.Value)
			secret = secret || r.Secret
		case KindRuntime:
			v, ok := ctx[p.text]
			if !ok {
				return Resolved{}, &UnresolvedError{Kind: KindRuntime, Name: p.text}
			}
			sb.WriteString(v)
		}
	}

	return Resolved{Value: sb.String(), Secret: secret}, nil
}
