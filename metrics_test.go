package idtokenvalidation

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)

	metrics.IncCounter(MetricValidations, map[string]string{"result": "valid"})
	metrics.IncCounter(MetricValidations, map[string]string{"result": "valid"})
	metrics.IncCounter(MetricValidations, map[string]string{"result": "invalid"})
	metrics.ObserveHistogram(MetricValidationDuration, 0.25, nil)

	counter, ok := metrics.counters[MetricValidations]
	require.True(t, ok)
	assert.Equal(t, 2.0, testutil.ToFloat64(counter.With(prometheus.Labels{"result": "valid"})))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.With(prometheus.Labels{"result": "invalid"})))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}
