package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feedpipe/internal/logger"
	"feedpipe/internal/middleware"
)

// startHTTPServer exposes health, stats, and Prometheus metrics while the
// pipeline runs.
func (p *Pipeline) startHTTPServer(addr string) {
	log := logger.WithComponent("pipeline")

	mux := http.NewServeMux()
	mux.Handle("/health", middleware.Chain(
		http.HandlerFunc(p.healthHandler),
		middleware.Recovery,
		middleware.Logging,
	))
	mux.Handle("/stats", middleware.Chain(
		http.HandlerFunc(p.statsHandler),
		middleware.Recovery,
		middleware.Logging,
	))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	p.httpDone = server.Shutdown

	go func() {
		log.Info().Str("addr", addr).Msg("starting observability server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("observability server error")
		}
	}()
}

func (p *Pipeline) shutdownHTTPServer() {
	if p.httpDone == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.httpDone(ctx); err != nil {
		log := logger.WithComponent("pipeline")
		log.Error().Err(err).Msg("observability server shutdown error")
	}
}

// healthHandler reports liveness; the pipeline is healthy in any state.
func (p *Pipeline) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","state":%q,"timestamp":%q}`,
		p.State().String(), time.Now().Format(time.RFC3339))
}

// statsHandler returns current pipeline progress.
func (p *Pipeline) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(p.Stats())
}
