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

// The file defines Prometheus metrics for HTTP requests and predictions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// prediction error reasons
const (
	ReasonNoInput          = "no_input"
	ReasonPredictionFailed = "prediction_failed"
	ReasonBodyTooLarge     = "body_too_large"
	ReasonPanic            = "panic"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests to the api server",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds for the api server",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed by the api server",
		},
	)

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of successful predictions by label",
		},
		[]string{"label"},
	)
	predictionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total number of failed prediction requests by reason",
		},
		[]string{"reason"},
	)
	predictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "prediction_duration_seconds",
			Help: "Time spent building the row and running the pipeline",
			// 10us .. ~160ms
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
	)
	modelInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_info",
			Help: "Loaded pipeline, always 1",
		},
		[]string{"name", "version", "estimator"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsInFlight)
	prometheus.MustRegister(predictionsTotal)
	prometheus.MustRegister(predictionErrorsTotal)
	prometheus.MustRegister(predictionDuration)
	prometheus.MustRegister(modelInfo)
}

func RecordRequestStart() {
	httpRequestsInFlight.Inc()
}

func RecordRequestFinish(method, path, status string, durationSeconds float64) {
	httpRequestsInFlight.Dec()
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
}

// RecordPrediction counts a successful prediction and its duration.
func RecordPrediction(label string, duration time.Duration) {
	predictionsTotal.WithLabelValues(label).Inc()
	predictionDuration.Observe(duration.Seconds())
}

// RecordPredictionError counts a failed prediction request.
func RecordPredictionError(reason string) {
	predictionErrorsTotal.WithLabelValues(reason).Inc()
}

// SetModelInfo publishes the loaded pipeline identity.
func SetModelInfo(name, version, estimator string) {
	modelInfo.Reset()
	modelInfo.WithLabelValues(name, version, estimator).Set(1)
}
