package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	t.Parallel()

	collector := NewCollector()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := collector.Middleware(next)

	for _, path := range []string{"/tasks/alice", "/tasks/alice", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body,
		`tasktrack_http_requests_total{method="GET",status_code="200"} 2`)
	assert.Contains(t, body,
		`tasktrack_http_requests_total{method="GET",status_code="404"} 1`)
	assert.Contains(t, body, "tasktrack_http_request_duration_seconds_count 3")
}

func TestHandlerServesOnlyOwnRegistry(t *testing.T) {
	t.Parallel()

	collector := NewCollector()

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	// Untouched counters with labels have no series yet; the histogram is
	// registered and rendered even before the first observation.
	body := rr.Body.String()
	assert.NotContains(t, body, `tasktrack_http_requests_total{`)
	assert.Contains(t, body, "tasktrack_http_request_duration_seconds_count 0")
	assert.False(t, strings.Contains(body, "go_goroutines"),
		"default runtime collectors must not leak into the dedicated registry")
}
