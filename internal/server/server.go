// Package server serves the cleaner over HTTP: a single HTML page and a JSON API.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/internal/config"
	"github.com/Moushv26/Data-analysis-tool-page/internal/metrics"
)

const pageTitle = "Data analysis tool"

type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	router   chi.Router
}

// New builds the server and its routes. A nil m gets a fresh registry.
func New(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.New()
	}
	logger = logger.With(slog.String("component", "server"))

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		validate: newValidator(),
	}
	s.router = s.routes()

	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Run-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Group(func(r chi.Router) {
		if rl := s.cfg.Server.RateLimit; rl.Enabled {
			r.Use(rateLimiter(rl.RPS, rl.Burst, s.logger))
		}

		r.Get("/", s.handleIndex)
		r.Post("/", s.handlePage)
		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/describe", s.handleDescribe)
			r.Post("/clean", s.handleClean)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, newAPIError(http.StatusNotFound, CodeNotFound, "Resource not found", nil))
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", s.cfg.Server.Addr)
	}

	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "unable to shut down server")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server stopped")
	}

	return nil
}
