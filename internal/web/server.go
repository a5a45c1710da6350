// Package web serves the HTML pages and form endpoints.
package web

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/collection"
	"github.com/erazemk/unifind/internal/dispatch"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/session"
	"github.com/erazemk/unifind/internal/view"
	webembed "github.com/erazemk/unifind/web"
)

const (
	// DefaultVerifyInterval bounds how often a signed-in session is
	// re-verified against the backend on page loads.
	DefaultVerifyInterval = time.Minute
	// DefaultIdleTimeout is how long an untouched session keeps its
	// loaded collections in memory.
	DefaultIdleTimeout = 30 * time.Minute
)

// Config carries the dependencies of a Server.
type Config struct {
	DB           *sql.DB
	Gateway      *gateway.Client
	Sessions     *session.Manager
	CookieSecret string
	Logger       *zap.Logger

	ListOptions    gateway.ListOptions
	Location       *time.Location
	ConfirmTTL     time.Duration
	CookieTTL      time.Duration
	CookieSecure   bool
	VerifyInterval time.Duration
	IdleTimeout    time.Duration

	// Registry receives HTTP metrics and backs /metrics when Gatherer is set.
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer

	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB         *sql.DB
	Gateway    *gateway.Client
	Sessions   *session.Manager
	States     *collection.Registry
	Dispatcher *dispatch.Dispatcher
	Refresher  *dispatch.Refresher
	Builder    *view.Builder
	Renderer   *view.Renderer
	Templates  *Templates
	Logger     *zap.Logger

	cookieSecret   string
	cookieTTL      time.Duration
	cookieSecure   bool
	verifyInterval time.Duration
	idleTimeout    time.Duration
	location       *time.Location
	metrics        *httpMetrics
	gatherer       prometheus.Gatherer
	now            func() time.Time
}

// NewServer wires a Server from cfg.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DB == nil || cfg.Gateway == nil || cfg.Sessions == nil {
		return nil, errors.New("web: database, gateway and sessions are required")
	}
	if cfg.CookieSecret == "" {
		return nil, errors.New("web: cookie secret is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.VerifyInterval <= 0 {
		cfg.VerifyInterval = DefaultVerifyInterval
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ConfirmTTL <= 0 {
		cfg.ConfirmTTL = dispatch.DefaultConfirmTTL
	}

	tfs := webembed.TemplatesFS()
	templates, err := LoadTemplates(tfs, cfg.Logger)
	if err != nil {
		return nil, err
	}
	renderer, err := view.NewRenderer(tfs)
	if err != nil {
		return nil, err
	}

	refresher := dispatch.NewRefresher(cfg.ListOptions, cfg.Logger)

	return &Server{
		DB:       cfg.DB,
		Gateway:  cfg.Gateway,
		Sessions: cfg.Sessions,
		States:   collection.NewRegistry(),
		Dispatcher: dispatch.New(refresher,
			dispatch.WithConfirmTTL(cfg.ConfirmTTL),
			dispatch.WithClock(cfg.Now),
			dispatch.WithLogger(cfg.Logger),
		),
		Refresher: refresher,
		Builder:   view.NewBuilder(cfg.Now, cfg.Location),
		Renderer:  renderer,
		Templates: templates,
		Logger:    cfg.Logger,

		cookieSecret:   cfg.CookieSecret,
		cookieTTL:      cfg.CookieTTL,
		cookieSecure:   cfg.CookieSecure,
		verifyInterval: cfg.VerifyInterval,
		idleTimeout:    cfg.IdleTimeout,
		location:       cfg.Location,
		metrics:        newHTTPMetrics(cfg.Registry),
		gatherer:       cfg.Gatherer,
		now:            cfg.Now,
	}, nil
}

// SweepIdle forgets in-memory state of sessions idle for the idle timeout.
// Persisted sign-ins are unaffected.
func (s *Server) SweepIdle() int {
	dropped := s.States.Sweep(s.idleTimeout)
	for _, id := range dropped {
		s.Dispatcher.DropSession(id)
	}
	return len(dropped)
}

// RunSweeper calls SweepIdle periodically until ctx is done.
func (s *Server) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(); n > 0 {
				s.Logger.Debug("swept idle sessions", zap.Int("count", n))
			}
		}
	}
}
