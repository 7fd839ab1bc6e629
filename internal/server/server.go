// Package server exposes the nutrition table over HTTP for the front-end.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/mesh-intelligence/larder/internal/bundle"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Dev sends the profile's dev-server headers on every response.
	Dev         bool
	Profile     bundle.Profile
	CORSOrigins []string

	Estimator types.Estimator

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that sets those headers.
	TrustProxy bool

	// RateLimit is the per-client request rate in requests per second;
	// zero disables limiting. RateBurst defaults to twice the rate.
	RateLimit float64
	RateBurst int

	// WebAssets, when set, is served on all unmatched routes with
	// index.html as the fallback for client-side routes.
	WebAssets fs.FS
}

// Server is the HTTP server that wires the API routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	foods      types.Table
	opts       Options
	log        zerolog.Logger
}

// New creates a Server reading from foods. ctx bounds the background work of
// the middleware.
func New(ctx context.Context, foods types.Table, opts Options, logger zerolog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 30 * time.Second
	}

	router := chi.NewRouter()
	s := &Server{
		router: router,
		foods:  foods,
		opts:   opts,
		log:    logger.With().Str("component", "server").Logger(),
	}

	router.Use(chimw.RequestID)
	if opts.TrustProxy {
		router.Use(chimw.RealIP)
	}
	// Ahead of the limiter and CORS, which can answer without calling next.
	if opts.Dev {
		router.Use(devHeaders(opts.Profile))
	}
	router.Use(hlog.NewHandler(s.log))
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	router.Use(chimw.Recoverer)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = max(1, int(2*opts.RateLimit))
		}
		router.Use(rateLimitByIP(ctx, opts.RateLimit, burst))
	}
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}).Handler)
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/foods", s.listFoods)
		r.Get("/foods/{id}", s.getFood)
		r.Get("/estimate", s.estimate)
		r.Get("/audit", s.audit)
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("no route %s", req.URL.Path)})
		})
	})

	// Must be registered last so API routes take priority.
	if opts.WebAssets != nil {
		router.NotFound(spaFileServer(opts.WebAssets).ServeHTTP)
	}

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens for HTTP requests until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server.Start: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	s.log.Info().Msg("stopped")
	return nil
}

// devHeaders sets the profile's dev-server headers before the handler runs.
func devHeaders(p bundle.Profile) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p.ApplyDevHeaders(w.Header())
			next.ServeHTTP(w, r)
		})
	}
}
