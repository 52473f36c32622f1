// Package server exposes brushlink sessions over HTTP for browser hosts.
//
// A host creates a session, forwards pointer and configuration events as
// interaction-script lines, and fetches each view as SVG or JSON. All
// events of one session are serialized; separate sessions run in parallel.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/brushlink/pkg/config"
	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
	"github.com/matzehuels/brushlink/pkg/pipeline"
	"github.com/matzehuels/brushlink/pkg/session"
)

// Request limits.
const (
	MaxUploadBytes = 64 << 20
	MaxScriptBytes = 1 << 20
	ShutdownGrace  = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the classifier, views and render settings of new
// sessions.
func WithConfig(cfg config.Config) Option { return func(s *Server) { s.cfg = cfg } }

// WithSource sets the dataset loaded into sessions created without an
// upload.
func WithSource(src dataset.Source) Option { return func(s *Server) { s.source = src } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithGatherer serves metrics from g on /metrics. Without it the route is
// not registered.
func WithGatherer(g prometheus.Gatherer) Option { return func(s *Server) { s.gatherer = g } }

// Server is the HTTP API.
type Server struct {
	cfg      config.Config
	source   dataset.Source
	logger   *log.Logger
	gatherer prometheus.Gatherer

	sessions *session.Store
	renders  singleflight.Group
	opts     pipeline.Options
}

// New creates a server. The session store is built from the config's
// server section.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    config.Default(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	s.opts = pipeline.Options{
		Config: &s.cfg,
		Formats: []string{
			pipeline.FormatSVG, pipeline.FormatJSON,
			pipeline.FormatPNG, pipeline.FormatPDF,
		},
		Logger: s.logger,
	}
	if err := s.opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	cfg := s.cfg
	s.sessions = session.NewStore(
		func() (*dashboard.Dashboard, error) {
			return dashboard.New(
				dashboard.WithClassifier(cfg.BuildClassifier()),
				dashboard.WithViews(cfg.ViewSpecs()...),
				dashboard.WithLogger(s.logger),
			)
		},
		session.WithTTL(s.cfg.Server.SessionTTL),
		session.WithMaxSessions(s.cfg.Server.MaxSessions),
		session.WithLogger(s.logger),
	)
	return s, nil
}

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store { return s.sessions }

// Handler returns the compressed router.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.routes())
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and closes every session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.Run(janitorCtx, time.Minute)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if e := <-errc; !errors.Is(e, http.ErrServerClosed) && err == nil {
		err = e
	}
	s.logger.Info("server stopped")
	return err
}
