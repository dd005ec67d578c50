package input

import (
	"fmt"

	"github.com/kuken-host/engine/internal/refs"
)

// Kind identifies an input variant.
type Kind string

// Built-in input kinds.
const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindPort     Kind = "port"
)

// Decl is a single typed input declaration within a blueprint.
type Decl struct {
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Kind    Kind    `json:"type" yaml:"type" toml:"type"`
	Label   string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`

	// Text constraints
	MinLength int    `json:"minLength,omitempty" yaml:"minLength,omitempty" toml:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty" toml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
}

// Value is a validated, normalized input value.
type Value struct {
	Kind Kind
	// Port holds the parsed integer for KindPort values.
	Port int

	str    string
	secret Secret
}

// TextValue builds a normalized plain-text value.
func TextValue(kind Kind, s string) Value {
	return Value{Kind: kind, str: s}
}

// PortValue builds a normalized port value.
func PortValue(port int) Value {
	return Value{Kind: KindPort, Port: port, str: fmt.Sprintf("%d", port)}
}

// SecretValue builds a normalized password value.
func SecretValue(s Secret) Value {
	return Value{Kind: KindPassword, secret: s}
}

// IsSecret reports whether the value must be redacted in diagnostics.
func (v Value) IsSecret() bool { return v.Kind == KindPassword }

// Resolved converts the value for reference resolution. Secrets surface their
// true value here; this is the hand-off point to environment assembly.
func (v Value) Resolved() refs.Resolved {
	if v.IsSecret() {
		return refs.Resolved{Value: v.secret.Reveal(), Secret: true}
	}
	return refs.Resolved{Value: v.str}
}

// String returns a diagnostic rendering. Secrets are redacted.
func (v Value) String() string {
	if v.IsSecret() {
		return v.secret.String()
	}
	return v.str
}

// DeclarationError reports an invalid input declaration.
type DeclarationError struct {
	Input  string
	Reason string
}

// Error implements error.
func (e *DeclarationError) Error() string {
	return fmt.Sprintf("invalid declaration for input %q: %s", e.Input, e.Reason)
}

// MissingError reports a required input with no supplied value and no default.
type MissingError struct {
	Input string
}

// Error implements error.
func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required input %q", e.Input)
}

// ValueError reports a supplied value that failed its kind's validation.
type ValueError struct {
	Input  string
	Reason string
}

// Error implements error.
func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value for input %q: %s", e.Input, e.Reason)
}
