package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew 每个实例使用独立Registry，重复创建不会panic
func TestNew(t *testing.T) {
	m1 := New("library")
	m2 := New("library")
	require.NotSame(t, m1.Registry(), m2.Registry())

	m1.ObserveBookOperation("create", ResultSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.BookOperationsTotal.WithLabelValues("create", ResultSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.BookOperationsTotal.WithLabelValues("create", ResultSuccess)))

	t.Log("✓ 实例间互不干扰")
}

// TestObserveBookOperation 按operation和result分别计数
func TestObserveBookOperation(t *testing.T) {
	m := New("")

	m.ObserveBookOperation("create", ResultDenied)
	m.ObserveBookOperation("create", ResultDenied)
	m.ObserveBookOperation("archive", ResultSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookOperationsTotal.WithLabelValues("create", ResultDenied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookOperationsTotal.WithLabelValues("archive", ResultSuccess)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.BookOperationsTotal))
}

// TestObserveHTTPRequest Counter与Histogram同时记录
func TestObserveHTTPRequest(t *testing.T) {
	m := New("")

	m.ObserveHTTPRequest("GET", "/api/books/", "200", 0.02)
	m.ObserveHTTPRequest("GET", "/api/books/", "200", 0.3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/books/", "200")))
	assert.Equal(t, uint64(2), histogramCount(t, m.HTTPRequestDuration.WithLabelValues("GET", "/api/books/")))
}

// TestNilMetrics nil接收者安全
func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBookOperation("list", ResultSuccess)
		m.ObserveHTTPRequest("GET", "/", "200", 0.1)
		m.SetBreakerState("mq", 1)
		m.ObserveBreakerRequest("mq", "rejected")
		m.ObservePublish("book.created", ResultSuccess)
		m.ObserveConsume("q", ResultSuccess)
	})
}

// TestHandler /metrics输出Prometheus文本格式
func TestHandler(t *testing.T) {
	m := New("library")
	m.SetBreakerState("book-events", 1)
	m.ObservePublish("book.created", ResultError)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `library_circuit_breaker_state{name="book-events"} 1`))
	assert.True(t, strings.Contains(body, `library_messages_published_total{result="error",routing_key="book.created"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	require.True(t, ok)

	var out dto.Metric
	require.NoError(t, metric.Write(&out))
	return out.GetHistogram().GetSampleCount()
}
