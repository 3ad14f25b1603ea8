package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type mockMetrics struct {
	requests []recordedRequest
}

func (m *mockMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: statusCode})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	metrics := &mockMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(metrics))
	r.HandleFunc("/edit/{section}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods("POST")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/edit/symptoms", nil))

	require.Len(t, metrics.requests, 1)
	assert.Equal(t, recordedRequest{method: "POST", route: "/edit/{section}", status: http.StatusCreated}, metrics.requests[0])
}

func TestMetricsMiddleware_DefaultStatus(t *testing.T) {
	metrics := &mockMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(metrics))
	r.HandleFunc("/record", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/record", nil))

	require.Len(t, metrics.requests, 1)
	assert.Equal(t, http.StatusOK, metrics.requests[0].status)
}
