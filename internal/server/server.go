// Package server provides the HTTP gateway that delivers user events to the
// orchestrator. It is a thin transport: one inbound request maps to one
// orchestrator call and one reply string.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kiku/internal/bot"
	"github.com/hyperjump/kiku/internal/config"
)

// Server is the HTTP gateway for the kiku API.
type Server struct {
	orch           *bot.Orchestrator
	config         *config.ServerConfig
	token          string
	maxUploadBytes int64
	logger         *zap.Logger
	server         *http.Server
}

// NewServer creates a gateway with the given dependencies. token is the
// credential clients must present as a bearer token on /api/v1 routes.
func NewServer(
	orch *bot.Orchestrator,
	cfg *config.ServerConfig,
	token string,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	return &Server{
		orch:           orch,
		config:         cfg,
		token:          token,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/users/{userID}/documents", s.handleUpload)
		r.Post("/users/{userID}/messages", s.handleMessage)
		r.Delete("/users/{userID}/context", s.handleReset)
		r.Get("/users/{userID}/context", s.handleStatus)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// authMiddleware rejects requests that do not carry the gateway credential.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			s.respondError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
