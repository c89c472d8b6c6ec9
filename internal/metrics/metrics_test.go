package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.ReportsSubmitted.WithLabelValues("web").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.ReportsSubmitted.WithLabelValues("web")), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(b.ReportsSubmitted.WithLabelValues("web")), 1e-9)
}

func TestCollectors_RegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()
	for _, c := range m.collectors() {
		require.NoError(t, reg.Register(c))
	}
}
