// Package debugsrv serves a read-only view of a running viewer: Prometheus
// metrics, the mounted component tree and the registered schemas.
package debugsrv

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phanxgames/canopy/bind"
	"github.com/phanxgames/canopy/components"
	"github.com/phanxgames/canopy/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Snapshotter is implemented by *tree.Root.
type Snapshotter interface {
	Snapshot() []tree.NodeInfo
}

// Server is the debug HTTP server.
type Server struct {
	router  chi.Router
	tree    Snapshotter
	gather  prometheus.Gatherer
	log     zerolog.Logger
	started time.Time
}

// New builds the router. gather may be nil to disable /metrics.
func New(root Snapshotter, gather prometheus.Gatherer, log zerolog.Logger) *Server {
	s := &Server{tree: root, gather: gather, log: log, started: time.Now()}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Get("/tree", s.snapshot)
	r.Get("/schemas", s.schemas)
	r.Get("/schemas/{name}", s.schema)
	if gather != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gather, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Msg("debug server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := s.log.Debug()
		if ww.Status() >= 500 {
			event = s.log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("debug request")
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) snapshot(w http.ResponseWriter, _ *http.Request) {
	nodes := s.tree.Snapshot()
	if nodes == nil {
		nodes = []tree.NodeInfo{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) schemas(w http.ResponseWriter, _ *http.Request) {
	names := components.Names()
	out := make([]bind.SchemaInfo, 0, len(names))
	for _, name := range names {
		c, _ := components.Lookup(name)
		out = append(out, c.Info())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, ok := components.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown component " + name})
		return
	}
	writeJSON(w, http.StatusOK, c.Info())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
