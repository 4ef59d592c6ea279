// Package telemetry provides OpenTelemetry tracing and Prometheus metrics
// for the extraction engine.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "dje-extractor"

// Metrics holds all extraction engine Prometheus metrics.
type Metrics struct {
	// Occurrence pipeline
	OccurrencesLocated      prometheus.Counter
	RecordsAssembled        prometheus.Counter
	RecordsRejected         *prometheus.CounterVec
	OccurrencesUnresolvable *prometheus.CounterVec

	// Page recovery
	MergesAttempted   prometheus.Counter
	MergesRejected    prometheus.Counter
	PageFetches       prometheus.Counter
	PageFetchFailures prometheus.Counter
	PageCacheHits     prometheus.Counter

	// Durations
	ExtractionDuration prometheus.Histogram
	DocumentDuration   prometheus.Histogram
}

// Provider wraps the tracer and metrics handed to the processor.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry against the default Prometheus registry.
func NewProvider() *Provider {
	return NewProviderWithRegistry(prometheus.DefaultRegisterer)
}

// NewProviderWithRegistry initializes telemetry against a caller-supplied
// registry. Tests use this to avoid duplicate registration.
func NewProviderWithRegistry(reg prometheus.Registerer) *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(reg),
	}
}

// Handler returns the Prometheus HTTP handler for a /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

// StartDocumentSpan opens a tracing span for one document's processing.
func (p *Provider) StartDocumentSpan(ctx context.Context, documentID string, pages int) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, "process_document",
		trace.WithAttributes(
			attribute.String("document.id", documentID),
			attribute.Int("document.pages", pages),
		))
}

// RecordExtraction records the duration of one field extraction pass.
func (p *Provider) RecordExtraction(d time.Duration) {
	p.Metrics.ExtractionDuration.Observe(d.Seconds())
}

// RecordDocument records the duration of one full document run.
func (p *Provider) RecordDocument(d time.Duration) {
	p.Metrics.DocumentDuration.Observe(d.Seconds())
}

func initMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OccurrencesLocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_occurrences_located_total",
			Help: "Trigger phrase occurrences located across all pages",
		}),
		RecordsAssembled: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_records_assembled_total",
			Help: "Publication records that passed assembly validation",
		}),
		RecordsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_records_rejected_total",
			Help: "Records rejected at structural validation",
		}, []string{"reason"}),
		OccurrencesUnresolvable: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_occurrences_unresolvable_total",
			Help: "Occurrences that could not be bound to a record boundary",
		}, []string{"reason"}),
		MergesAttempted: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_merges_attempted_total",
			Help: "Cross-page merge attempts",
		}),
		MergesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_merges_rejected_total",
			Help: "Merges rejected by trigger phrase validation",
		}),
		PageFetches: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_page_fetches_total",
			Help: "Previous-page fetches issued to the page source",
		}),
		PageFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_page_fetch_failures_total",
			Help: "Page fetches that failed after retries",
		}),
		PageCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "extractor_page_cache_hits_total",
			Help: "Previous-page lookups served from the per-document cache",
		}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "extractor_extraction_duration_seconds",
			Help:    "Time spent in one field extraction pass",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		DocumentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "extractor_document_duration_seconds",
			Help:    "Time to process one document end to end",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0},
		}),
	}
}
