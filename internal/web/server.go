// Package web provides the HTTP server, pages and JSON API for employee
// management and postal-code lookup.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/config"
	"github.com/JonMunkholm/employees/internal/core"
	webmw "github.com/JonMunkholm/employees/internal/web/middleware"
)

// Server is the HTTP server for the employee application.
type Server struct {
	service *core.Service
	lookup  cep.Lookuper
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *webmw.RateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, lookup cep.Lookuper, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		lookup:  lookup,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(requestMetadata)
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	timeout := s.cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	s.router.Use(middleware.Timeout(timeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.limiter = webmw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(s.limiter.Middleware)
	}
	if s.cfg.Metrics.Enabled {
		s.router.Use(webmw.Metrics)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleHome)
	s.router.Route("/funcionarios", func(r chi.Router) {
		r.Get("/", s.handleEmployees)
		r.Post("/", s.handleCreateEmployee)
		r.Get("/{id}/editar", s.handleEditEmployee)
		r.Post("/{id}", s.handleUpdateEmployee)
		r.Post("/{id}/excluir", s.handleDeleteEmployee)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/funcionarios", s.handleAPIList)
		r.Post("/funcionarios", s.handleAPICreate)
		r.Get("/funcionarios/{id}", s.handleAPIGet)
		r.Put("/funcionarios/{id}", s.handleAPIUpdate)
		r.Delete("/funcionarios/{id}", s.handleAPIDelete)
		r.Get("/cep/{cep}", s.handleAPILookup)
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It returns only once in-flight requests have finished or the
// shutdown timeout has passed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()
	slog.Info("starting server", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		s.closeLimiter()
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.Shutdown(shutdownCtx)
	if serveErr := <-errCh; !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeLimiter()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) closeLimiter() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

const csp = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
