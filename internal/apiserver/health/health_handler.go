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

// The file provides HTTP handlers for liveness and readiness endpoints.
// Readiness reports the pipeline the server was started with.
package health

import (
	"net/http"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/pipeline"
	"github.com/llm-d-incubation/heart-predictor/internal/prediction"
)

const (
	HealthPath = "/health"
	ReadyPath  = "/ready"
)

// ModelInfoProvider describes the loaded pipeline.
type ModelInfoProvider interface {
	Info() pipeline.Info
}

type ReadyResponse struct {
	Status   string               `json:"status"`
	Model    pipeline.Info        `json:"model"`
	Features []prediction.Feature `json:"features"`
}

type HealthApiHandler struct {
	model ModelInfoProvider
}

func NewHealthApiHandler(model ModelInfoProvider) *HealthApiHandler {
	return &HealthApiHandler{model: model}
}

func (c *HealthApiHandler) GetRoutes() []common.Route {
	return []common.Route{
		{
			Method:      http.MethodGet,
			Pattern:     HealthPath,
			HandlerFunc: c.HealthHandler,
		},
		{
			Method:      http.MethodHead,
			Pattern:     HealthPath,
			HandlerFunc: c.HealthHandler,
		},
		{
			Method:      http.MethodGet,
			Pattern:     ReadyPath,
			HandlerFunc: c.ReadyHandler,
		},
	}
}

func (c *HealthApiHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ReadyHandler reports ready once a pipeline is attached. The server never
// starts without one, so a 503 here means the handler was miswired.
func (c *HealthApiHandler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if c.model == nil {
		common.WriteJSONError(r.Context(), w, http.StatusServiceUnavailable, "no pipeline loaded")
		return
	}
	common.WriteJSON(r.Context(), w, http.StatusOK, ReadyResponse{
		Status:   "ready",
		Model:    c.model.Info(),
		Features: prediction.RecognizedFeatures,
	})
}
