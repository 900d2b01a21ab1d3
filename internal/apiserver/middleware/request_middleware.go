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

// The file implements request middleware for generating request IDs, logging
// requests, recording metrics and turning handler panics into JSON errors.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/health"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/metrics"
	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
)

const RequestIDHeader = "X-Request-ID"

// unmatchedPath labels requests no route matched, so unknown paths share one series.
const unmatchedPath = "unmatched"

var quietPaths = map[string]struct{}{
	metrics.MetricsPath: {},
	health.HealthPath:   {},
	health.ReadyPath:    {},
}

func RequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip probes and scrapes to avoid noise in logs and metrics
		if _, quiet := quietPaths[r.URL.Path]; quiet {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		metrics.RecordRequestStart()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := klog.FromContext(r.Context()).WithValues("requestID", requestID)
		ctx := klog.NewContext(r.Context(), logger)
		// The mux records the matched pattern on this request.
		req := r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		logger.V(logging.TRACE).Info("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"remoteAddr", r.RemoteAddr,
		)

		finish := func() {
			duration := time.Since(start)
			metrics.RecordRequestFinish(r.Method, routeLabel(req), strconv.Itoa(rw.statusCode), duration.Seconds())
			logger.V(logging.DEBUG).Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration", duration,
			)
		}

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					finish()
					panic(rec)
				}
				metrics.RecordPredictionError(metrics.ReasonPanic)
				logger.Error(fmt.Errorf("%v", rec), "panic while serving request", "path", r.URL.Path)
				if !rw.wroteHeader {
					common.WriteJSONError(ctx, rw, http.StatusInternalServerError, "internal server error")
				}
			}
			finish()
		}()

		next.ServeHTTP(rw, req)
	})
}

// routeLabel returns the path part of the matched mux pattern.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedPath
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
