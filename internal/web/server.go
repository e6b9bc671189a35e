// Package web exposes the HTTP API: FIT uploads decoded to raw series,
// plus read endpoints over the local activity store.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"garmin-fitness/internal/config"
	"garmin-fitness/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 5 * time.Second

// Server wraps the gin engine and its HTTP listener.
type Server struct {
	engine  *gin.Engine
	queries *service.QueryService
	cfg     config.WebConfig
}

// NewServer builds the router. queries may be nil when only the upload
// endpoint is needed; the store-backed routes then return 503.
func NewServer(cfg config.WebConfig, queries *service.QueryService) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	if cfg.MaxFileSize > 0 {
		engine.MaxMultipartMemory = cfg.MaxFileSize
	}

	s := &Server{
		engine:  engine,
		queries: queries,
		cfg:     cfg,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/upload", s.handleUpload)
	s.engine.GET("/activities", s.requireStore(s.handleListActivities))
	s.engine.GET("/activities/:id/metrics", s.requireStore(s.handleActivityMetrics))
}

// requireStore guards routes that need the activity store behind a 503
// when the server runs upload-only.
func (s *Server) requireStore(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.queries == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "activity store not configured"})
			return
		}
		handler(c)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler: s.engine,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}
