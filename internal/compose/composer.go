package compose

import (
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/refs"
	"github.com/kuken-host/engine/internal/resolve"
)

// EnvVar is one resolved environment variable. Secret marks values derived
// from password inputs so diagnostic renderings can redact them.
type EnvVar struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Secret bool   `json:"-"`
}

// PortBinding is a resolved port input.
type PortBinding struct {
	Name string `json:"name"`
	Port int    `json:"port"`
}

// ComposedBuild is the fully concrete build: image, ordered env list, and
// port bindings, ready for manifest rendering.
type ComposedBuild struct {
	Module string        `json:"module"`
	Image  string        `json:"image"`
	Env    []EnvVar      `json:"env"`
	Ports  []PortBinding `json:"ports"`
}

// Composer turns resolved blueprints plus values into composed builds.
type Composer struct {
	inputs *input.Registry
}

// New creates a composer backed by an input kind registry.
func New(inputs *input.Registry) *Composer {
	return &Composer{inputs: inputs}
}

// Compose validates the supplied values against the blueprint's declarations,
// resolves every deferred reference, and assembles the final build.
func (c *Composer) Compose(rb *resolve.ResolvedBlueprint, supplied map[string]string, rctx refs.Context) (*ComposedBuild, error) {
	values, err := input.ResolveValues(c.inputs, rb.Doc.Inputs, supplied)
	if err != nil {
		return nil, err
	}

	lookup := make(refs.InputMap, len(values))
	for name, v := range values {
		lookup[name] = v.Resolved()
	}

	image, err := rb.Doc.Build.Docker.Image.Resolve(lookup, rctx)
	if err != nil {
		return nil, err
	}

	env, err := composeEnv(rb, lookup, rctx)
	if err != nil {
		return nil, err
	}

	return &ComposedBuild{
		Module: rb.Doc.Module,
		Image:  image.Value,
		Env:    env,
		Ports:  composePorts(rb, values),
	}, nil
}

// composeEnv resolves declarations in order and deduplicates by key:
// last declaration wins, first occurrence keeps its position.
func composeEnv(rb *resolve.ResolvedBlueprint, lookup refs.Inputs, rctx refs.Context) ([]EnvVar, error) {
	position := make(map[string]int, len(rb.Doc.Build.Env))
	env := make([]EnvVar, 0, len(rb.Doc.Build.Env))

	for _, decl := range rb.Doc.Build.Env {
		resolved, err := decl.Value.Resolve(lookup, rctx)
		if err != nil {
			return nil, err
		}
		v := EnvVar{Key: decl.Key, Value: resolved.Value, Secret: resolved.Secret}

		if at, seen := position[decl.Key]; seen {
			env[at] = v
			continue
		}
		position[decl.Key] = len(env)
		env = append(env, v)
	}
	return env, nil
}

// composePorts collects port-kind inputs in declaration order.
func composePorts(rb *resolve.ResolvedBlueprint, values map[string]input.Value) []PortBinding {
	var ports []PortBinding
	for _, decl := range rb.Doc.Inputs {
		if decl.Kind != input.KindPort {
			continue
		}
		if v, ok := values[decl.Name]; ok {
			ports = append(ports, PortBinding{Name: decl.Name, Port: v.Port})
		}
	}
	return ports
}
