package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kuken-host/engine/internal/blueprint"
	"github.com/kuken-host/engine/internal/engine"
	"github.com/kuken-host/engine/internal/refs"
	"github.com/kuken-host/engine/internal/registry"
	"github.com/kuken-host/engine/internal/shared/validate"
	"go.uber.org/zap"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	engine *engine.Engine
	store  *registry.Store
	logger *zap.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(eng *engine.Engine, store *registry.Store, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{engine: eng, store: store, logger: logger}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Kuken Blueprint Engine",
		"version": "0.3.0",
	})
}

// Health handles detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"registry": h.store.Stats(),
	})
}

// blueprintSummary is the list representation of a stored blueprint.
type blueprintSummary struct {
	Module  string `json:"module"`
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// ListBlueprints lists stored blueprints, optionally filtered by category.
func (h *Handlers) ListBlueprints(c *gin.Context) {
	docs := h.store.List(c.Query("category"))

	summaries := make([]blueprintSummary, len(docs))
	for i, doc := range docs {
		summaries[i] = blueprintSummary{
			Module:  doc.Module,
			Name:    doc.Name,
			Version: doc.Version,
			URL:     doc.URL,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"blueprints": summaries,
		"stats":      h.store.Stats(),
	})
}

// GetBlueprint returns one stored blueprint with its canonical source.
func (h *Handlers) GetBlueprint(c *gin.Context) {
	module := c.Param("module")
	if err := validate.Module(module); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.store.Get(module)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	source, err := blueprint.Encode(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"module":  doc.Module,
		"name":    doc.Name,
		"version": doc.Version,
		"url":     doc.URL,
		"amends":  doc.Amends,
		"source":  string(source),
	})
}

// saveRequest carries blueprint source for registration.
type saveRequest struct {
	Source string `json:"source" binding:"required"`
	Format string `json:"format"`
}

// SaveBlueprint decodes, resolves, and stores a blueprint.
func (h *Handlers) SaveBlueprint(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := blueprint.Format(req.Format)
	if req.Format == "" {
		format = blueprint.FormatYAML
	}

	doc, err := blueprint.Decode([]byte(req.Source), format)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// Reject blueprints whose chain cannot resolve before they enter the
	// catalog.
	if _, err := h.engine.Resolve(doc); err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.store.Save(doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("blueprint saved", zap.String("module", doc.Module))
	c.JSON(http.StatusCreated, gin.H{"module": doc.Module})
}

// DeleteBlueprint removes a stored blueprint.
func (h *Handlers) DeleteBlueprint(c *gin.Context) {
	module := c.Param("module")
	if err := validate.Module(module); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.store.Exists(module) {
		c.JSON(http.StatusNotFound, gin.H{"error": "blueprint not found"})
		return
	}
	if err := h.store.Delete(module); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"module": module, "deleted": true})
}

// renderRequest carries the values and runtime context for a render.
type renderRequest struct {
	Values  map[string]string `json:"values"`
	Context map[string]string `json:"context"`
	// Reveal returns true secret values instead of the redaction marker.
	Reveal bool `json:"reveal"`
}

// adhocRenderRequest renders blueprint source without storing it.
type adhocRenderRequest struct {
	Source string `json:"source" binding:"required"`
	Format string `json:"format"`
	renderRequest
}

// RenderBlueprint renders a stored blueprint into a deployment manifest.
func (h *Handlers) RenderBlueprint(c *gin.Context) {
	module := c.Param("module")
	if err := validate.Module(module); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.store.Get(module)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	// An empty body renders with defaults only.
	var req renderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	m, err := h.engine.Render(doc, req.Values, h.runtimeContext(req.Context))
	if err != nil {
		h.renderError(c, err)
		return
	}
	if !req.Reveal {
		m = m.Redacted()
	}

	c.JSON(http.StatusOK, gin.H{"manifest": m})
}

// RenderSource renders ad-hoc blueprint source without touching the registry.
func (h *Handlers) RenderSource(c *gin.Context) {
	var req adhocRenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := blueprint.Format(req.Format)
	if req.Format == "" {
		format = blueprint.FormatYAML
	}

	m, err := h.engine.RenderSource([]byte(req.Source), format, req.Values, h.runtimeContext(req.Context))
	if err != nil {
		h.renderError(c, err)
		return
	}
	if !req.Reveal {
		m = m.Redacted()
	}

	c.JSON(http.StatusOK, gin.H{"manifest": m})
}

// runtimeContext builds the reference context for a render, minting an
// instance ID when the caller does not supply one.
func (h *Handlers) runtimeContext(values map[string]string) refs.Context {
	ctx := make(refs.Context, len(values)+1)
	for k, v := range values {
		ctx[k] = v
	}
	if _, ok := ctx["instance.id"]; !ok {
		ctx["instance.id"] = uuid.NewString()
	}
	return ctx
}

// renderError maps a pipeline error to an HTTP response with its stable
// error kind.
func (h *Handlers) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if engine.IsUserError(err) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  engine.ErrorKind(err),
	})
}
