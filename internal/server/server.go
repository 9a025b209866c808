// Package server exposes the aggregation service over HTTP: a read-only
// resource per enabled source, a callable search tool mirroring the batch
// query, and an SSE relay of stream events. Feature flags gate what gets
// registered. The core pipeline never imports this package; it is a caller
// like any other.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/service"
)

type Server struct {
	svc      *service.Service
	hub      *events.Hub
	features config.FeaturesConfig
	log      *zap.Logger
}

func New(svc *service.Service, cfg config.Config, log *zap.Logger) *Server {
	return &Server{
		svc:      svc,
		hub:      events.NewHub(),
		features: cfg.Features,
		log:      log,
	}
}

// Handler assembles the mux. Routes for disabled features are simply not
// registered, so they 404 like anything else unknown.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: s.health,
	}))
	mux.Handle("/metrics", promhttp.Handler())

	if s.features.Jobs {
		mux.HandleFunc("/resources", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: s.listResources,
		}))
		mux.HandleFunc("/resources/", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: s.resourceByPath,
		}))
		mux.HandleFunc("/tools/search_jobs", methodMux(map[string]http.HandlerFunc{
			http.MethodPost: s.searchJobs,
		}))
	}
	if s.features.Stream {
		mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: s.serveSSE,
		}))
	}

	return Chain(mux, RequestID, Recover(s.log), AccessLog(s.log), Cors)
}

// Start serves until ctx is cancelled, then drains in-flight requests
// before returning so the caller can release the service cleanly.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("server listening", zap.String("addr", srv.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
