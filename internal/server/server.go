package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apihttp "github.com/kuken-host/engine/internal/api/http"
	"github.com/kuken-host/engine/internal/api/middleware"
	"github.com/kuken-host/engine/internal/config"
	"github.com/kuken-host/engine/internal/engine"
	"github.com/kuken-host/engine/internal/monitoring"
	"github.com/kuken-host/engine/internal/registry"
	"go.uber.org/zap"
)

// shutdownTimeout bounds the drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	engine  *engine.Engine
	store   *registry.Store
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// New creates a server from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := monitoring.NewMetrics()

	eng := engine.New(engine.Config{
		BlueprintRoot: cfg.Engine.BlueprintRoot,
		AllowRemote:   cfg.Engine.AllowRemote,
		FetchRetries:  cfg.Engine.FetchRetries,
		MaxDepth:      cfg.Engine.MaxDepth,
		Logger:        logger,
		Metrics:       metrics,
	})

	store := registry.NewStore(cfg.Engine.RegistryDir,
		registry.WithLogger(logger),
		registry.WithMetrics(metrics))

	seeder := registry.NewSeeder(store, cfg.Engine.CatalogDir, logger)
	if _, err := seeder.Seed(); err != nil {
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		router:  router,
		engine:  eng,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
	s.registerRoutes()

	s.http = &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	handlers := apihttp.NewHandlers(s.engine, s.store, s.logger)

	s.router.GET("/", handlers.Root)
	s.router.GET("/health", handlers.Health)
	s.router.GET("/metrics", apihttp.MetricsHandler(s.metrics))

	// Blueprint registry
	s.router.GET("/blueprints", handlers.ListBlueprints)
	s.router.POST("/blueprints", handlers.SaveBlueprint)
	s.router.GET("/blueprints/:module", handlers.GetBlueprint)
	s.router.DELETE("/blueprints/:module", handlers.DeleteBlueprint)

	// Rendering
	s.router.POST("/blueprints/:module/render", handlers.RenderBlueprint)
	s.router.POST("/eval", handlers.RenderSource)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
