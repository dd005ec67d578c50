package manifest

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/kuken-host/engine/internal/compose"
	"github.com/kuken-host/engine/internal/shared/validate"
)

// RedactionMarker replaces secret values in diagnostic renderings.
const RedactionMarker = "********"

// Manifest is the rendered deployment descriptor.
type Manifest struct {
	Module string                `json:"module"`
	Image  string                `json:"image"`
	Env    []compose.EnvVar      `json:"env"`
	Ports  []compose.PortBinding `json:"ports"`
}

// RenderError reports a composed build that violates the descriptor contract.
type RenderError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *RenderError) Error() string {
	return fmt.Sprintf("manifest field %q: %s", e.Field, e.Reason)
}

// Render validates and freezes a composed build. Pure and deterministic:
// identical composed builds render identical manifests.
func Render(cb *compose.ComposedBuild) (*Manifest, error) {
	if cb.Image == "" {
		return nil, &RenderError{Field: "image", Reason: "image must not be empty"}
	}
	for _, env := range cb.Env {
		if err := validate.EnvKey(env.Key); err != nil {
			return nil, &RenderError{Field: env.Key, Reason: err.Error()}
		}
	}

	m := &Manifest{
		Module: cb.Module,
		Image:  cb.Image,
		Env:    make([]compose.EnvVar, len(cb.Env)),
		Ports:  make([]compose.PortBinding, len(cb.Ports)),
	}
	copy(m.Env, cb.Env)
	copy(m.Ports, cb.Ports)
	return m, nil
}

// Redacted returns a copy with secret env values replaced by the redaction
// marker. This is the only form that may reach logs or error payloads.
func (m *Manifest) Redacted() *Manifest {
	out := &Manifest{
		Module: m.Module,
		Image:  m.Image,
		Env:    make([]compose.EnvVar, len(m.Env)),
		Ports:  make([]compose.PortBinding, len(m.Ports)),
	}
	copy(out.Ports, m.Ports)
	for i, env := range m.Env {
		if env.Secret {
			env.Value = RedactionMarker
		}
		out.Env[i] = env
	}
	return out
}

// Encode serializes the full descriptor for the deployment collaborator.
// Struct field order is fixed, so output is byte-identical across calls.
func (m *Manifest) Encode() ([]byte, error) {
	return sonic.Marshal(m)
}

// EncodeIndent serializes the descriptor for human consumption.
func (m *Manifest) EncodeIndent() ([]byte, error) {
	return sonic.MarshalIndent(m, "", "  ")
}
