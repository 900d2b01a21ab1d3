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

// The file provides the HTTP handler for the prediction endpoint.
package predict

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/metrics"
	"github.com/llm-d-incubation/heart-predictor/internal/prediction"
	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
)

const (
	PredictPath = "/predict"

	DefaultMaxBodyBytes int64 = 1 << 20
)

type PredictResponse struct {
	Prediction prediction.Label `json:"prediction"`
}

type PredictApiHandler struct {
	service      *prediction.Service
	maxBodyBytes int64
}

// NewPredictApiHandler creates the handler. A non-positive maxBodyBytes
// selects DefaultMaxBodyBytes.
func NewPredictApiHandler(service *prediction.Service, maxBodyBytes int64) *PredictApiHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &PredictApiHandler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
	}
}

func (c *PredictApiHandler) GetRoutes() []common.Route {
	return []common.Route{
		{
			Method:      http.MethodPost,
			Pattern:     PredictPath,
			HandlerFunc: c.Predict,
		},
	}
}

func (c *PredictApiHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.GetRequestLogger(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, c.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.RecordPredictionError(metrics.ReasonBodyTooLarge)
			common.WriteJSONError(ctx, w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		// An unreadable body carries no usable record.
		logger.V(logging.DEBUG).Info("failed to read request body", "err", err)
		body = nil
	}

	start := time.Now()
	result, err := c.service.Predict(ctx, body)
	switch {
	case errors.Is(err, prediction.ErrNoInput):
		metrics.RecordPredictionError(metrics.ReasonNoInput)
		common.WriteJSONError(ctx, w, http.StatusBadRequest, prediction.NoInputMessage)
		return
	case err != nil:
		metrics.RecordPredictionError(metrics.ReasonPredictionFailed)
		logger.V(logging.INFO).Info("prediction failed", "err", err)
		common.WriteJSONError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.RecordPrediction(string(result.Label), time.Since(start))
	logger.V(logging.DEBUG).Info("prediction", "classID", result.ClassID, "label", result.Label)
	common.WriteJSON(ctx, w, http.StatusOK, PredictResponse{Prediction: result.Label})
}
