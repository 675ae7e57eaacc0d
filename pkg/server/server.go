// Package server exposes the banner compositor over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"time"

	"github.com/gorilla/mux"
	"github.com/ideamans/go-l10n"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/user/orionbanner/pkg/catalog"
	"github.com/user/orionbanner/pkg/metrics"
	"github.com/user/orionbanner/pkg/orchestrator"
	"github.com/user/orionbanner/pkg/pipeline"
	"github.com/user/orionbanner/pkg/ports"
)

// Composer renders one banner request.
type Composer interface {
	Compose(ctx context.Context, req pipeline.BannerRequest, userID string) (orchestrator.Result, error)
}

// Themes lists the colour catalog.
type Themes interface {
	Entries() []catalog.Entry
}

// Clearer is a cache that can be emptied.
type Clearer interface {
	Clear()
}

// Options controls the listener and request limits.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	RateRequests    int
	RateWindow      time.Duration

	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers are believed. Empty means the peer address is the client.
	TrustedProxies []netip.Prefix
}

// Deps are the collaborators of the HTTP layer. Metrics and Gatherer may
// be nil.
type Deps struct {
	Compositor Composer
	Themes     Themes
	Verifier   ports.TokenVerifier
	Caches     []Clearer
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     ports.Logger
}

// Server is the HTTP front end.
type Server struct {
	compositor Composer
	themes     Themes
	verifier   ports.TokenVerifier
	caches     []Clearer
	metrics    *metrics.Metrics
	limiter    *IPRateLimiter
	logger     ports.Logger
	opts       Options

	router *mux.Router
	http   *http.Server
}

// New creates a Server with its routes registered.
func New(deps Deps, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 10
	}
	if opts.RateRequests <= 0 {
		opts.RateRequests = 10
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = 15 * time.Minute
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		compositor: deps.Compositor,
		themes:     deps.Themes,
		verifier:   deps.Verifier,
		caches:     deps.Caches,
		metrics:    deps.Metrics,
		limiter:    NewIPRateLimiter(opts.RateRequests, opts.RateWindow),
		logger:     deps.Logger.WithComponent("server"),
		opts:       opts,
	}

	r := mux.NewRouter()
	r.Use(requestID, s.observe)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/cores", s.handleColors).Methods(http.MethodGet)
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer)).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	banner := api.Path("/gerar-banner").Subrouter()
	banner.Use(rateLimit(s.limiter, opts.TrustedProxies), s.authenticate)
	banner.Methods(http.MethodPost).HandlerFunc(s.handleGenerateBanner)

	admin := api.Path("/cache").Subrouter()
	admin.Use(s.authenticate)
	admin.Methods(http.MethodDelete).HandlerFunc(s.handleClearCache)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "rota não encontrada")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "método não permitido")
	})

	s.router = r
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info(l10n.F("Listening on %s", s.opts.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, stops the limiter and clears the
// caches.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	s.limiter.Stop()
	s.clearCaches()
	s.logger.Info(l10n.T("Server stopped"))
	return err
}

func (s *Server) clearCaches() {
	for _, c := range s.caches {
		c.Clear()
	}
}
