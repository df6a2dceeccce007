package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the desk collectors on a private registry.
type Metrics struct {
	Registry     *prometheus.Registry
	RecordsSaved *prometheus.CounterVec
	Navigation   *prometheus.CounterVec
	Tokenize     prometheus.Histogram
	TokenizeErrs prometheus.Counter
	StoreOps     *prometheus.HistogramVec
	StoreErrs    *prometheus.CounterVec
}

// New registers the desk collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RecordsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triplet_records_saved_total",
				Help: "Annotation records stored, by skipped flag",
			},
			[]string{"skipped"},
		),
		Navigation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triplet_navigation_total",
				Help: "Items entered, by direction (resume, next, prev)",
			},
			[]string{"direction"},
		),
		Tokenize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "triplet_tokenize_duration_seconds",
				Help:    "Duration of token provider calls",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		TokenizeErrs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "triplet_tokenize_errors_total",
				Help: "Failed token provider calls",
			},
		),
		StoreOps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triplet_store_operation_duration_seconds",
				Help:    "Duration of annotation store calls, by operation",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
		StoreErrs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triplet_store_errors_total",
				Help: "Failed annotation store calls, by operation. Missing records are not errors.",
			},
			[]string{"op"},
		),
	}
	m.Registry.MustRegister(
		m.RecordsSaved,
		m.Navigation,
		m.Tokenize,
		m.TokenizeErrs,
		m.StoreOps,
		m.StoreErrs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks records session events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnItemEnter: func(_ context.Context, e *domain.ItemEvent) {
			if e.Moved || e.Direction == "resume" {
				m.Navigation.WithLabelValues(e.Direction).Inc()
			}
		},
		OnRecordSave: func(_ context.Context, e *domain.RecordEvent) {
			m.RecordsSaved.WithLabelValues(strconv.FormatBool(e.Skipped)).Inc()
		},
		OnTokenize: func(_ context.Context, e *domain.TokenizeEvent) {
			m.Tokenize.Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.TokenizeErrs.Inc()
			}
		},
	}
}

// ObserveStore records one store call. It matches middleware.Observer.
func (m *Metrics) ObserveStore(op string, d time.Duration, err error) {
	m.StoreOps.WithLabelValues(op).Observe(d.Seconds())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		m.StoreErrs.WithLabelValues(op).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
