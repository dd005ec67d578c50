package blueprint

import (
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/refs"
)

// Document is a parsed blueprint. Field order inside Inputs and Build.Env is
// declaration order and is significant for rendering.
type Document struct {
	Module  string       `json:"module"`
	Name    string       `json:"name,omitempty"`
	Version string       `json:"version,omitempty"`
	URL     string       `json:"url,omitempty"`
	Amends  string       `json:"amends"`
	Inputs  []input.Decl `json:"inputs,omitempty"`
	Build   BuildSpec    `json:"build,omitempty"`
}

// BuildSpec declares how a blueprint's application is built.
type BuildSpec struct {
	Docker DockerSpec `json:"docker"`
	Env    []EnvDecl  `json:"environmentVariables,omitempty"`
}

// DockerSpec declares the container image template.
type DockerSpec struct {
	Image refs.Expr `json:"image"`
}

// EnvDecl is one ordered environment variable declaration.
type EnvDecl struct {
	Key   string    `json:"key"`
	Value refs.Expr `json:"value"`
}

// Empty reports whether the build section was omitted entirely.
func (b BuildSpec) Empty() bool {
	return b.Docker.Image.Raw() == "" && len(b.Env) == 0
}

// Input returns the declaration with the given name, if declared.
func (d *Document) Input(name string) (input.Decl, bool) {
	for _, decl := range d.Inputs {
		if decl.Name == name {
			return decl, true
		}
	}
	return input.Decl{}, false
}
