// Package api exposes progression and test-taking over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/admitflow/admitflow/internal/review"
	"github.com/admitflow/admitflow/internal/session"
)

// Server wires the HTTP routes to the application services.
type Server struct {
	cfg      Config
	sessions *session.Service
	reviews  *review.Service
	out      io.Writer
}

// NewServer creates a Server. reviews may be nil when no LLM provider is
// configured; the review endpoint then answers 503.
func NewServer(cfg Config, sessions *session.Service, reviews *review.Service) *Server {
	return &Server{cfg: cfg, sessions: sessions, reviews: reviews, out: gin.DefaultWriter}
}

// WithOutput sends the request log and lifecycle messages to w instead of
// gin.DefaultWriter.
func (s *Server) WithOutput(w io.Writer) *Server {
	s.out = w
	return s
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.out, "[admitflow] "+format+"\n", args...)
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(s.out), gin.RecoveryWithWriter(s.out))

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  s.allowOrigin,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	v1 := r.Group("/api/v1")
	{
		v1.GET("/students/:id/progression", s.getProgression)
		v1.GET("/students/:id/attempts", s.listAttempts)
		v1.POST("/students/:id/attempts", s.startAttempt)
		v1.POST("/students/:id/review", s.generateReview)
		v1.POST("/attempts/:id/score", s.scoreAttempt)
	}
	return r
}

func (s *Server) allowOrigin(origin string) bool {
	if slices.Contains(s.cfg.AllowedOrigins, origin) {
		return true
	}
	// any http://localhost:PORT during development
	return strings.HasPrefix(origin, "http://localhost:")
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logf("listening on %s", s.cfg.Addr)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
