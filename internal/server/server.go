// Package server is the HTTP backend for the todo client: CRUD over a
// store.Store plus an AI feedback endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server wires the todo routes onto an echo instance.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address used by Run.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a server over st. ev may be a nil *ai.Client.
func New(st store.Store, ev Evaluator, opts ...Option) (*Server, error) {
	s := &Server{addr: ":8080", logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}

	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	h := &TodoHandler{store: st, evaluator: ev, validate: v, logger: s.logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	api := e.Group("/api/todos")
	api.GET("", h.List)
	api.POST("", h.Create)
	api.POST("/evaluate", h.Evaluate)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)

	s.echo = e
	return s, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("server is listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- fmt.Errorf("listen %s: %w", s.addr, err)
		}
	}()

	select {
	case err := <-serverError:
		return err
	case <-ctx.Done():
		s.logger.Info("server is shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}
