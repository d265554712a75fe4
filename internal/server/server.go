// Package server implements the gatesketch web front end.
//
// Routes:
//
//	GET  /                 expression form
//	POST /                 validate, build, render and store a PNG, then show it
//	GET  /images/{id}      stream a stored artifact
//	POST /api/circuits     JSON API returning circuit geometry
//	GET  /healthz          liveness and build information
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gatesketch/pkg/pipeline"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Limits on incoming requests.
const (
	maxBodyBytes   = 64 << 10
	requestTimeout = 30 * time.Second
)

// Server serves the form and API on top of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   options
	router chi.Router
}

type options struct {
	seed     uint64
	scale    float64
	identity storage.Identity
}

// Option configures a Server.
type Option func(*options)

// WithSeed sets the jog seed used for form submissions.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithScale sets the PNG scale factor.
func WithScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithIdentity selects content-addressed or per-request artifact ids.
func WithIdentity(id storage.Identity) Option {
	return func(o *options) {
		if id.Valid() {
			o.identity = id
		}
	}
}

// New creates a server. Artifacts are read back from the runner's store.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o := options{
		seed:     pipeline.DefaultSeed,
		scale:    pipeline.DefaultScale,
		identity: pipeline.DefaultIdentity,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{runner: runner, logger: logger, opts: o}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleSubmit)
	r.Get("/images/{id}", s.handleImage)
	r.Post("/api/circuits", s.handleAPICircuit)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
