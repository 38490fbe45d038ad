// Package proxy serves the local development relay that forwards /api/* to
// the backend's versioned API root.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gravitrone/oophub/internal/api"
)

// Config holds relay configuration.
type Config struct {
	Listen string
	// Upstream is the versioned API root, e.g. http://localhost:8000/api/v1.
	Upstream string
	// AllowAll allows every CORS origin instead of localhost only.
	AllowAll bool
	Logger   *slog.Logger
}

// Server relays API requests to the upstream backend.
type Server struct {
	cfg        Config
	upstream   *url.URL
	logger     *slog.Logger
	relay      *httputil.ReverseProxy
	router     chi.Router
	httpServer *http.Server
}

// New validates the upstream and builds the router.
func New(cfg Config) (*Server, error) {
	upstream, err := url.Parse(strings.TrimRight(cfg.Upstream, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream: %w", err)
	}
	if (upstream.Scheme != "http" && upstream.Scheme != "https") || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", cfg.Upstream)
	}

	s := &Server{
		cfg:      cfg,
		upstream: upstream,
		logger:   cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.relay = &httputil.ReverseProxy{
		Rewrite:      s.rewrite,
		ErrorHandler: s.upstreamError,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/search", s.handleSearch)
	r.Get("/api/search/", s.handleSearch)
	r.Handle("/api/*", s.relay)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// handleSearch rejects a search without a query and fills in the default
// limit before relaying.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("q")) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query parameter is required"})
		return
	}
	if q.Get("limit") == "" {
		q.Set("limit", fmt.Sprint(api.DefaultSearchLimit))
	}

	out := r.Clone(r.Context())
	out.URL.Path = "/api/search/"
	out.URL.RawPath = ""
	out.URL.RawQuery = q.Encode()
	s.relay.ServeHTTP(w, out)
}

// rewrite maps /api/<rest> onto <upstream>/<rest>.
func (s *Server) rewrite(pr *httputil.ProxyRequest) {
	rest := strings.TrimPrefix(pr.In.URL.Path, "/api")
	pr.Out.URL.Scheme = s.upstream.Scheme
	pr.Out.URL.Host = s.upstream.Host
	pr.Out.URL.Path = s.upstream.Path + rest
	pr.Out.URL.RawPath = ""
	pr.Out.Host = s.upstream.Host
	pr.SetXForwarded()
}

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("upstream request failed", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("proxy request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Start listens on the configured address until Shutdown is called, then
// returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("proxy listening", "addr", s.cfg.Listen, "upstream", s.upstream.String())
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server. A server that was never started
// refuses to start afterwards.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
