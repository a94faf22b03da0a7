package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsObserveAndExport(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("POST", "/vendas", 200, 120*time.Millisecond)
	m.Observe("POST", "/vendas", 200, 80*time.Millisecond)
	m.Observe("GET", "", 404, 5*time.Millisecond)

	mfs, err := m.registry.Gather()
	require.NoError(t, err)

	count := counterValue(t, mfs, "http_requests_total", map[string]string{
		"method": "POST", "route": "/vendas", "status": "200",
	})
	assert.Equal(t, float64(2), count)

	unknown := counterValue(t, mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "unknown", "status": "404",
	})
	assert.Equal(t, float64(1), unknown)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metric
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q with labels %v not found", name, labels)
	return 0
}
