package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uzhavan/disai/core"
	"github.com/uzhavan/disai/predict"
)

// Engine is the prediction surface the HTTP layer serves. The root disai
// package provides the production implementation.
type Engine interface {
	// Predict returns ranked predictions for a free-text query.
	Predict(ctx context.Context, query string) ([]core.Prediction, error)

	// Pages returns the loaded catalog in document order.
	Pages() []core.Page

	// Stats summarizes the loaded catalog.
	Stats() core.CatalogStats

	// Strategy identifies the active matching strategy.
	Strategy() predict.Strategy

	// ReloadFromFile re-reads the configured catalog file and swaps the
	// index atomically. On failure the previous index stays live.
	ReloadFromFile(ctx context.Context) error
}

// Server serves the prediction API.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates a Server around an engine.
func NewServer(engine Engine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	s := &Server{
		engine: engine,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())

	router.POST("/predict", s.handlePredict)
	router.GET("/predict", s.handlePredictGet)
	router.GET("/pages", s.handlePages)
	router.GET("/stats", s.handleStats)
	router.GET("/test", s.handleTest)
	router.POST("/reload", s.handleReload)
	router.GET("/healthz", s.handleHealthz)

	return router
}

// Run serves HTTP on addr until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
