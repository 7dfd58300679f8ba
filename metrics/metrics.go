// Package metrics exposes generation metrics through a private Prometheus
// registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "artifactgen"

// Generation statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Metrics holds the generator's collectors.
type Metrics struct {
	registry *prometheus.Registry

	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	terms       *prometheus.CounterVec
	reads       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Artifact generation runs by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of artifact generation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		terms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terms_total",
			Help:      "Vocabulary terms generated, by kind.",
		}, []string{"kind"}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_reads_total",
			Help:      "Vocabulary resource reads by origin and outcome.",
		}, []string{"origin", "status"}),
	}
	m.registry.MustRegister(m.generations, m.duration, m.terms, m.reads)
	return m
}

// RecordGeneration counts a run. Skipped runs are not timed.
func (m *Metrics) RecordGeneration(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(status).Inc()
	if status != StatusSkipped {
		m.duration.Observe(d.Seconds())
	}
}

// RecordTerms adds n generated terms of kind (class, property, literal,
// constant).
func (m *Metrics) RecordTerms(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.terms.WithLabelValues(kind).Add(float64(n))
}

// RecordRead counts a resource read.
func (m *Metrics) RecordRead(origin, status string) {
	if m == nil {
		return
	}
	m.reads.WithLabelValues(origin, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for the node exporter's textfile
// collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
