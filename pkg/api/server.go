// Package api exposes the current status and the process actions over a
// local HTTP endpoint.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-alert/pkg/actions"
	"github.com/srodi/hotspot-alert/pkg/monitor"
)

// StatusSource provides the latest published tick.
type StatusSource interface {
	Latest() *monitor.Update
}

// ProcessActions performs reveal and terminate.
type ProcessActions interface {
	Reveal(ctx context.Context, pid int32, name string) error
	Terminate(pid int32) error
}

// SystemActions runs the real process actions.
type SystemActions struct{}

func (SystemActions) Reveal(ctx context.Context, pid int32, name string) error {
	return actions.Reveal(ctx, pid, name)
}

func (SystemActions) Terminate(pid int32) error { return actions.Terminate(pid) }

// Server serves the control API.
type Server struct {
	engine  *gin.Engine
	status  StatusSource
	actions ProcessActions
	log     zerolog.Logger
}

// NewServer registers the routes on a fresh gin engine. Callers pick the
// gin mode beforehand.
func NewServer(status StatusSource, acts ProcessActions, logger zerolog.Logger) *Server {
	s := &Server{
		engine:  gin.New(),
		status:  status,
		actions: acts,
		log:     logger.With().Str("component", "api").Logger(),
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)
	v1 := s.engine.Group("/v1")
	v1.GET("/status", s.getStatus)
	v1.POST("/processes/:pid/reveal", s.revealProcess)
	v1.POST("/processes/:pid/terminate", s.terminateProcess)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
