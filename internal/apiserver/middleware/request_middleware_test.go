/*
Copyright 2026 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/health"
)

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	handler := RequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("uses the caller's request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/predict", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("generates a request id", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("skips probes", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, health.HealthPath, nil))

		assert.Empty(t, seen)
		assert.Empty(t, w.Header().Get(RequestIDHeader))
	})
}

func TestPanicRecovery(t *testing.T) {
	t.Run("writes a JSON 500", func(t *testing.T) {
		handler := RequestMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		w := httptest.NewRecorder()

		require.NotPanics(t, func() {
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})

	t.Run("keeps a status already written", func(t *testing.T) {
		handler := RequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			panic("late")
		}))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/predict", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("re-panics on ErrAbortHandler", func(t *testing.T) {
		handler := RequestMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		before := gaugeValue(t, "http_requests_in_flight")

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/predict", nil))
		})
		assert.Equal(t, before, gaugeValue(t, "http_requests_in_flight"))
	})
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	_, err := rw.Write([]byte("x"))
	require.NoError(t, err)
	rw.WriteHeader(http.StatusTeapot)

	assert.True(t, rw.wroteHeader)
	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestMiddleware(mux)

	for _, path := range []string{"/predict", "/scan-a1b2c3", "/wp-admin/login.php"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	}

	paths := labelValues(t, "http_requests_total", "path")
	assert.Contains(t, paths, "/predict")
	assert.Contains(t, paths, unmatchedPath)
	assert.NotContains(t, paths, "/scan-a1b2c3")
	assert.NotContains(t, paths, "/wp-admin/login.php")
}

func TestRouteLabel(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	assert.Equal(t, unmatchedPath, routeLabel(req))

	req.Pattern = "POST /predict"
	assert.Equal(t, "/predict", routeLabel(req))

	req.Pattern = "/predict"
	assert.Equal(t, "/predict", routeLabel(req))
}

func gaugeValue(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func labelValues(t *testing.T, name, label string) []string {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var values []string
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label {
					values = append(values, lp.GetValue())
				}
			}
		}
	}
	return values
}
