package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oxygene76/orrery/pkg/orrery/simulation"
)

// Server exposes a running simulation over HTTP
type Server struct {
	sim      *simulation.Simulation
	stream   http.Handler
	gatherer prometheus.Gatherer
	logger   log.Logger
	router   *mux.Router
	origins  []string
	started  time.Time
}

// Option configures a Server
type Option func(*Server)

// WithAllowedOrigins restricts CORS to the given origins; "*" allows any
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New creates the server and its routes. stream and gatherer are optional.
func New(sim *simulation.Simulation, stream http.Handler, gatherer prometheus.Gatherer, logger log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Server{
		sim:      sim,
		stream:   stream,
		gatherer: gatherer,
		logger:   logger.With("component", "http"),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler. CORS wraps the router so preflight
// requests are answered before route matching.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.router)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	// Catalog and frames
	api.HandleFunc("/bodies", s.handleBodies).Methods("GET")
	api.HandleFunc("/frame", s.handleFrame).Methods("GET")
	api.HandleFunc("/state", s.handleState).Methods("GET")

	// Controls
	ctl := api.PathPrefix("/control").Subrouter()
	ctl.HandleFunc("/pause", s.handleTogglePause).Methods("POST")
	ctl.HandleFunc("/speed", s.handleSetSpeed).Methods("POST")
	ctl.HandleFunc("/scale", s.handleSetScale).Methods("POST")
	ctl.HandleFunc("/skybox", s.handleToggleSkybox).Methods("POST")
	ctl.HandleFunc("/select/{id}", s.handleSelect).Methods("POST")
	ctl.HandleFunc("/select", s.handleClearSelection).Methods("DELETE")
	ctl.HandleFunc("/startup/advance", s.handleAdvanceStartup).Methods("POST")
	ctl.HandleFunc("/anchor", s.handleSetAnchor).Methods("PUT")

	if s.stream != nil {
		api.Handle("/stream", s.stream)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.Use(s.loggingMiddleware)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin
func (s *Server) allowOrigin(origin string) string {
	if len(s.origins) == 0 {
		return "*"
	}
	for _, o := range s.origins {
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start).String())
	})
}
