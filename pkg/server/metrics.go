// Package server exposes run metrics over HTTP while a clustering run is active.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-complexes/pkg/logging"
	"github.com/dd0wney/cluso-complexes/pkg/metrics"
)

// MetricsServer serves /metrics and /healthz with graceful shutdown.
type MetricsServer struct {
	server       *http.Server
	logger       logging.Logger
	registry     *metrics.Registry
	started      time.Time
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	addr         chan net.Addr
}

// NewMetricsServer creates a server for reg listening on addr.
func NewMetricsServer(addr string, reg *metrics.Registry, logger logging.Logger) *MetricsServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	ms := &MetricsServer{
		logger:     logger.With(logging.Component("metrics")),
		registry:   reg,
		started:    time.Now(),
		shutdownCh: make(chan struct{}),
		addr:       make(chan net.Addr, 1),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", ms.metricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if ms.IsShuttingDown() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if _, err := w.Write([]byte("OK")); err != nil {
			ms.logger.Debug("healthz write failed", logging.Error(err))
		}
	})

	ms.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return ms
}

// metricsHandler refreshes the process gauges before every scrape
func (ms *MetricsServer) metricsHandler() http.Handler {
	h := promhttp.HandlerFor(ms.registry.GetPrometheusRegistry(), promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ms.registry.SampleProcess(ms.started)
		h.ServeHTTP(w, r)
	})
}

// Start listens and serves until Shutdown. It returns nil after a graceful shutdown.
func (ms *MetricsServer) Start() error {
	ln, err := net.Listen("tcp", ms.server.Addr)
	if err != nil {
		return err
	}
	ms.addr <- ln.Addr()

	ms.logger.Info("metrics endpoint listening", logging.String("addr", ln.Addr().String()))
	if err := ms.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr blocks until the server is listening and returns its address.
func (ms *MetricsServer) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case a := <-ms.addr:
		ms.addr <- a
		return a, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops accepting scrapes and waits up to timeout for open ones.
func (ms *MetricsServer) Shutdown(timeout time.Duration) error {
	var err error
	ms.shutdownOnce.Do(func() {
		close(ms.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err = ms.server.Shutdown(ctx); err != nil {
			ms.logger.Warn("metrics shutdown incomplete", logging.Error(err))
		}
	})
	return err
}

// IsShuttingDown returns true if shutdown has been initiated
func (ms *MetricsServer) IsShuttingDown() bool {
	select {
	case <-ms.shutdownCh:
		return true
	default:
		return false
	}
}
