package resolve

import (
	"fmt"
	"strings"

	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/schema"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds inheritance chains. Real catalogs are two or three
// levels deep; anything near the bound is authoring gone wrong.
const DefaultMaxDepth = 32

// CycleError reports an amends chain revisiting an already-visited module.
type CycleError struct {
	Chain []string
}

// Error implements error.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic inheritance: %s", strings.Join(e.Chain, " -> "))
}

// ResolvedBlueprint is a fully merged blueprint and the schema that governs
// it. Doc is a flattened copy; the source documents are left untouched.
type ResolvedBlueprint struct {
	Doc    blueprint.Document
	Schema *schema.Schema
	// Chain lists the modules from leaf to root for diagnostics.
	Chain []string
}

// Resolver resolves amends chains against the schema registry.
type Resolver struct {
	schemas  *schema.Registry
	inputs   *input.Registry
	loader   Loader
	maxDepth int
	logger   *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth overrides the inheritance depth bound.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) { r.maxDepth = depth }
}

// WithLogger attaches a logger for resolution diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a resolver.
func New(schemas *schema.Registry, inputs *input.Registry, loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		schemas:  schemas,
		inputs:   inputs,
		loader:   loader,
		maxDepth: DefaultMaxDepth,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the document's amends chain, merges child-over-parent, and
// validates the result against the terminating schema.
func (r *Resolver) Resolve(doc *blueprint.Document) (*ResolvedBlueprint, error) {
	visited := make(map[string]struct{})
	merged, governing, chain, err := r.resolveChain(doc, visited, nil, 0)
	if err != nil {
		return nil, err
	}

	if err := governing.Validate(&merged); err != nil {
		return nil, err
	}
	for _, decl := range merged.Inputs {
		if err := r.inputs.ValidateDeclaration(decl); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("resolved blueprint",
		zap.String("module", merged.Module),
		zap.Int("chain_length", len(chain)),
		zap.Int("inputs", len(merged.Inputs)))

	return &ResolvedBlueprint{Doc: merged, Schema: governing, Chain: chain}, nil
}

func (r *Resolver) resolveChain(doc *blueprint.Document, visited map[string]struct{}, chain []string, depth int) (blueprint.Document, *schema.Schema, []string, error) {
	if depth > r.maxDepth {
		return blueprint.Document{}, nil, nil, fmt.Errorf("inheritance chain exceeds maximum depth %d", r.maxDepth)
	}

	if _, seen := visited[doc.Module]; seen {
		return blueprint.Document{}, nil, nil, &CycleError{Chain: append(chain, doc.Module)}
	}
	visited[doc.Module] = struct{}{}
	chain = append(chain, doc.Module)

	// A registered schema terminates the chain.
	if governing, ok := r.schemas.Get(doc.Amends); ok {
		return *doc, governing, chain, nil
	}

	parent, err := r.loader.Load(doc.Amends)
	if err != nil {
		return blueprint.Document{}, nil, nil, err
	}

	parentMerged, governing, chain, err := r.resolveChain(parent, visited, chain, depth+1)
	if err != nil {
		return blueprint.Document{}, nil, nil, err
	}

	return merge(parentMerged, *doc), governing, chain, nil
}

// merge flattens a child onto its (already merged) parent. Scalars override
// field-by-field; inputs and env declarations concatenate in declaration
// order, with redeclared input names replaced wholesale by the child.
func merge(parent, child blueprint.Document) blueprint.Document {
	out := child

	if out.Name == "" {
		out.Name = parent.Name
	}
	if out.Version == "" {
		out.Version = parent.Version
	}
	if out.URL == "" {
		out.URL = parent.URL
	}
	if out.Build.Docker.Image.Raw() == "" {
		out.Build.Docker.Image = parent.Build.Docker.Image
	}

	out.Inputs = mergeInputs(parent.Inputs, child.Inputs)

	env := make([]blueprint.EnvDecl, 0, len(parent.Build.Env)+len(child.Build.Env))
	env = append(env, parent.Build.Env...)
	env = append(env, child.Build.Env...)
	out.Build.Env = env

	return out
}

// mergeInputs concatenates parent then child declarations and deduplicates by
// name: the last declaration wins, at the position of the first occurrence.
func mergeInputs(parent, child []input.Decl) []input.Decl {
	all := make([]input.Decl, 0, len(parent)+len(child))
	all = append(all, parent...)
	all = append(all, child...)

	position := make(map[string]int, len(all))
	var out []input.Decl
	for _, decl := range all {
		if at, seen := position[decl.Name]; seen {
			out[at] = decl
			continue
		}
		position[decl.Name] = len(out)
		out = append(out, decl)
	}
	return out
}
