// Package server exposes the pipeline over HTTP so hosts that are not
// written in Go can pack, rearrange and render grids.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/kinds
//	POST   /v1/pack
//	POST   /v1/move
//	POST   /v1/render/{format}
//	GET    /v1/layouts
//	GET    /v1/layouts/{name}
//	PUT    /v1/layouts/{name}
//	DELETE /v1/layouts/{name}
//	GET    /v1/layouts/{name}/render/{format}
//
// Errors are JSON objects {"code": ..., "message": ...} with the status
// chosen by errors.HTTPStatus. A rejected move is 409.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridslot/pkg/observability"
	"github.com/matzehuels/gridslot/pkg/pipeline"
	"github.com/matzehuels/gridslot/pkg/slot"
	"github.com/matzehuels/gridslot/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	registry *slot.Registry
	defaults pipeline.Options
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the layout store. Without one a MemoryStore is used.
func WithStore(s store.Store) Option { return func(srv *Server) { srv.store = s } }

// WithRegistry sets the base kind registry. Documents may extend it.
func WithRegistry(r *slot.Registry) Option { return func(srv *Server) { srv.registry = r } }

// WithDefaults sets the render options applied when a request omits them.
func WithDefaults(o pipeline.Options) Option { return func(srv *Server) { srv.defaults = o } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(srv *Server) { srv.logger = l } }

// New creates a server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{runner: runner}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.registry == nil {
		s.registry = slot.Builtin()
	}
	if s.logger == nil {
		s.logger = runner.Logger
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/pack", s.handlePack)
		r.Post("/move", s.handleMove)
		r.Post("/render/{format}", s.handleRender)

		r.Get("/layouts", s.handleListLayouts)
		r.Route("/layouts/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Put("/", s.handlePutLayout)
			r.Delete("/", s.handleDeleteLayout)
			r.Get("/render/{format}", s.handleRenderLayout)
		})
	})
	return r
}

// observe reports every request to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving API", "addr", addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
