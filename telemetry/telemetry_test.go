package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderWithRegistry(t *testing.T) {
	p := NewProviderWithRegistry(prometheus.NewRegistry())
	require.NotNil(t, p.Tracer)
	require.NotNil(t, p.Metrics)
}

func TestCountersRegisterAndIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProviderWithRegistry(reg)

	p.Metrics.OccurrencesLocated.Inc()
	p.Metrics.RecordsAssembled.Inc()
	p.Metrics.RecordsRejected.WithLabelValues("structural_validation").Inc()
	p.Metrics.OccurrencesUnresolvable.WithLabelValues("page_fetch").Inc()
	p.Metrics.PageCacheHits.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.OccurrencesLocated))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.RecordsAssembled))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(p.Metrics.RecordsRejected.WithLabelValues("structural_validation")))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(p.Metrics.OccurrencesUnresolvable.WithLabelValues("page_fetch")))
}

func TestDurationObservers(t *testing.T) {
	p := NewProviderWithRegistry(prometheus.NewRegistry())

	p.RecordExtraction(2 * time.Millisecond)
	p.RecordDocument(40 * time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(p.Metrics.ExtractionDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(p.Metrics.DocumentDuration))
}

func TestStartDocumentSpan(t *testing.T) {
	p := NewProviderWithRegistry(prometheus.NewRegistry())

	ctx, span := p.StartDocumentSpan(context.Background(), "dje-2024-03-05", 12)
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.End()
}
