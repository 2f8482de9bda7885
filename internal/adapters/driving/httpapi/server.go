package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/logger"
)

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("httpapi: documents, dispatcher and retrieval services are required")

// Ports aggregates the driving ports the API calls.
type Ports struct {
	// Documents creates and reads documents.
	Documents driving.DocumentService

	// Dispatcher queues ingestion runs.
	Dispatcher driving.IngestionDispatcher

	// Retrieval finds relevant chunks.
	Retrieval driving.RetrievalService

	// Transform rewrites text. Optional; without it the transform route
	// reports the AI backend as unavailable.
	Transform driving.TransformService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Documents == nil || p.Dispatcher == nil || p.Retrieval == nil {
		return ErrMissingService
	}
	return nil
}

// Server holds the router and the services behind it.
type Server struct {
	ports  *Ports
	router *gin.Engine
}

// NewServer creates a Server with all routes registered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Server{
		ports:  ports,
		router: r,
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/v1/documents")
	v1.POST("", s.handleCreateDocument)
	v1.GET("/:id", s.handleGetDocument)
	v1.POST("/:id/process", s.handleProcessDocument)
	v1.GET("/:id/chunks", s.handleListChunks)
	v1.GET("/:id/relevant", s.handleRelevantChunks)
	v1.POST("/:id/transform", s.handleTransform)
}

// requestLogger logs each request in verbose mode.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
