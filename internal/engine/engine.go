package engine

import (
	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/compose"
	"github.com/kuken-host/engine/internal/input"
	"github.com/kuken-host/engine/internal/manifest"
	"github.com/kuken-host/engine/internal/monitoring"
	"github.com/kuken-host/engine/internal/refs"
	"github.com/kuken-host/engine/internal/resolve"
	"github.com/kuken-host/engine/internal/schema"
	"go.uber.org/zap"
)

// Config assembles an engine.
type Config struct {
	// BlueprintRoot anchors relative amends references.
	BlueprintRoot string
	// AllowRemote enables HTTP(S) amends references.
	AllowRemote bool
	// FetchRetries is the retry budget for remote parent fetches.
	FetchRetries int
	// MaxDepth bounds the inheritance chain; zero means the default.
	MaxDepth int

	Logger  *zap.Logger
	Metrics *monitoring.Metrics
}

// Engine is the schema-validated blueprint render pipeline.
type Engine struct {
	schemas  *schema.Registry
	inputs   *input.Registry
	resolver *resolve.Resolver
	composer *compose.Composer
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// New creates an engine with the base schema and built-in input kinds.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	schemas := schema.DefaultRegistry()
	inputs := input.DefaultRegistry()

	var loaderOpts []resolve.SourceLoaderOption
	if cfg.AllowRemote {
		loaderOpts = append(loaderOpts, resolve.WithRemote(cfg.FetchRetries))
	}
	loader := resolve.NewSourceLoader(cfg.BlueprintRoot, loaderOpts...)

	resolverOpts := []resolve.Option{resolve.WithLogger(logger)}
	if cfg.MaxDepth > 0 {
		resolverOpts = append(resolverOpts, resolve.WithMaxDepth(cfg.MaxDepth))
	}

	return &Engine{
		schemas:  schemas,
		inputs:   inputs,
		resolver: resolve.New(schemas, inputs, loader, resolverOpts...),
		composer: compose.New(inputs),
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

// Schemas exposes the schema registry for startup registration.
func (e *Engine) Schemas() *schema.Registry { return e.schemas }

// Resolve runs only the inheritance and declaration validation stages.
func (e *Engine) Resolve(doc *blueprint.Document) (*resolve.ResolvedBlueprint, error) {
	return e.resolver.Resolve(doc)
}

// Render runs the full pipeline for one blueprint document. All-or-nothing:
// any stage failure yields a typed error and no manifest.
func (e *Engine) Render(doc *blueprint.Document, values map[string]string, rctx refs.Context) (*manifest.Manifest, error) {
	var timer *monitoring.Timer
	if e.metrics != nil {
		timer = monitoring.NewTimer(e.metrics, doc.Module)
	}

	m, err := e.render(doc, values, rctx)
	if timer != nil {
		if err != nil {
			timer.Stop("error")
			e.metrics.RecordFailure(ErrorKind(err))
		} else {
			timer.Stop("ok")
		}
	}
	if err != nil {
		e.logger.Warn("render failed",
			zap.String("module", doc.Module),
			zap.String("kind", ErrorKind(err)),
			zap.Error(err))
		return nil, err
	}

	e.logger.Info("rendered manifest",
		zap.String("module", doc.Module),
		zap.String("image", m.Image),
		zap.Int("env_vars", len(m.Env)))
	return m, nil
}

func (e *Engine) render(doc *blueprint.Document, values map[string]string, rctx refs.Context) (*manifest.Manifest, error) {
	rb, err := e.resolver.Resolve(doc)
	if err != nil {
		return nil, err
	}
	cb, err := e.composer.Compose(rb, values, rctx)
	if err != nil {
		return nil, err
	}
	return manifest.Render(cb)
}

// RenderSource decodes blueprint source and renders it in one call.
func (e *Engine) RenderSource(data []byte, format blueprint.Format, values map[string]string, rctx refs.Context) (*manifest.Manifest, error) {
	doc, err := blueprint.Decode(data, format)
	if err != nil {
		return nil, err
	}
	return e.Render(doc, values, rctx)
}
