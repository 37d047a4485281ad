// Package web serves the roadmap views over HTTP for a single local user.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alexanderramin/roadmap/internal/render"
	"github.com/alexanderramin/roadmap/internal/service"
)

const requestIDHeader = "X-Request-ID"

// Server is the roadmap web server.
type Server struct {
	svc       service.ProgressService
	renderer  *render.Renderer
	startDate time.Time
	logger    *slog.Logger
	router    *gin.Engine
}

type Options struct {
	StartDate time.Time
	Logger    *slog.Logger
}

// NewServer wires routes onto a fresh gin engine.
func NewServer(svc service.ProgressService, renderer *render.Renderer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	router := gin.New()
	s := &Server{
		svc:       svc,
		renderer:  renderer,
		startDate: opts.StartDate,
		logger:    logger,
		router:    router,
	}

	router.Use(gin.Recovery(), s.requestID(), s.accessLog())
	router.SetHTMLTemplate(renderer.Template())

	// Views
	router.GET("/", s.handlePage(render.PageWeeks))
	router.GET("/tree", s.handlePage(render.PageTree))
	router.GET("/calendar", s.handlePage(render.PageCalendar))
	router.GET("/reference", s.handlePage(render.PageReference))
	router.POST("/tasks/:id/toggle", s.handleToggle)
	router.POST("/reset", s.handleReset)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/progress", s.handleAPIProgress)
		api.GET("/state", s.handleAPIState)
		api.GET("/days/:key", s.handleAPIDay)
		api.POST("/tasks/:id", s.handleAPISetTask)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "serving roadmap", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// requestID tags each request with an id, reusing a client-supplied one, and
// carries it into service use-case events.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(service.WithCorrelationID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.DebugContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.Writer.Header().Get(requestIDHeader),
		)
	}
}
