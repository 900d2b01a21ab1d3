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

package common

import (
	"context"
	"encoding/json"
	"net/http"

	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes body as a JSON response with the given status.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		klog.FromContext(ctx).Error(err, "failed to encode response")
		status = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		klog.FromContext(ctx).V(logging.DEBUG).Info("failed to write response", "err", err)
	}
}

// WriteJSONError writes {"error": message} with the given status.
func WriteJSONError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	klog.FromContext(ctx).V(logging.DEBUG).Info("request failed", "status", status, "error", message)
	WriteJSON(ctx, w, status, ErrorResponse{Error: message})
}
