// Package server serves the portfolio pages and its small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/rendering"
	"github.com/jonathan/devfolio/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	store           *content.Store
	renderer        *rendering.Renderer
	site            rendering.Site
	assets          fs.FS
	themes          *themeCache
	rateLimiter     *ratelimit.Limiter
	shutdownTimeout time.Duration
}

// Options holds everything the server needs
type Options struct {
	Config  config.Config
	Profile config.Profile
	Store   *content.Store

	// Assets backs /assets/ and image downloads; nil means the directory Config.AssetsDir
	Assets fs.FS

	// RateLimit overrides the RATE_LIMIT_* environment configuration
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: content store is required")
	}

	renderer, err := rendering.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	cfg := opts.Config.MergeWithDefaults(config.Defaults())

	assets := opts.Assets
	if assets == nil {
		assets = os.DirFS(cfg.AssetsDir)
	}

	rl := opts.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	site := rendering.NewSite(opts.Profile)
	site.RevealDelay = cfg.RevealDelay

	s := &Server{
		store:           opts.Store,
		renderer:        renderer,
		site:            site,
		assets:          assets,
		themes:          newThemeCache(),
		rateLimiter:     ratelimit.NewLimiter(rl),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /about", s.handleAbout)
	mux.HandleFunc("GET /projects", s.handleProjects)
	mux.HandleFunc("GET /project/{id}", s.handleProject)
	mux.HandleFunc("GET /project/{id}/images/{imageID}/download", s.handleImageDownload)

	// JSON API
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("GET /api/projects/{id}/images/{imageID}/theme", s.handleImageTheme)

	// Static files referenced by the content document
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(assets)))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.withSecurityHeaders(mux))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped handler, used by tests and the link checker
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[server] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("[server] stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"projects": len(s.store.Projects()),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
