package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveSolve("exact", "greedy_downgrade", 9, 3*time.Millisecond)
	m.ObserveSolve("exact", "exact", 5, time.Millisecond)
	m.ObserveSolve("exact", "exact", 6, time.Millisecond)
	m.ObserveDowngrade("exact")
	m.ObserveFallback("sampled")
	m.ObservePersistError("save_result")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.solves.WithLabelValues("exact", "exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.solves.WithLabelValues("exact", "greedy_downgrade")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.downgrades.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("sampled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistErrors.WithLabelValues("save_result")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSolve("greedy", "greedy", 4, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `routeopt_solves_total{requested="greedy",used="greedy"} 1`)
	assert.Contains(t, string(body), "routeopt_cities_per_request_bucket")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveSolve("a", "b", 1, 0)
	r.ObserveDowngrade("a")
	r.ObserveFallback("a")
	r.ObservePersistError("a")
}
