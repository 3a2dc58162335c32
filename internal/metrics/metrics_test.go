package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
	m.JobFinished("extract_ingest_file", OutcomeDone)
	m.IngestCreated("text")
	m.ObserveSearch(10 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("extract_ingest_file", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ingestsCreated.WithLabelValues("text")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IngestCreated("url")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `neugrove_ingests_created_total{kind="url"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.ObserveSearch(time.Second)
		m.JobFinished("k", OutcomeFailed)
		m.IngestCreated("file")
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
