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

package predict

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/pipeline/pipelinetest"
	"github.com/llm-d-incubation/heart-predictor/internal/prediction"
)

func newTestMux(t *testing.T, maxBodyBytes int64) *http.ServeMux {
	t.Helper()
	svc, err := prediction.NewService(pipelinetest.Pipeline(t))
	require.NoError(t, err)

	mux := http.NewServeMux()
	common.RegisterHandler(mux, NewPredictApiHandler(svc, maxBodyBytes))
	return mux
}

func post(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, PredictPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestPredictHandler(t *testing.T) {
	mux := newTestMux(t, 0)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "at risk record",
			body:           pipelinetest.AtRiskRecord,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"prediction":"Heart-Disease"}`,
		},
		{
			name:           "healthy record",
			body:           pipelinetest.HealthyRecord,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"prediction":"No-Heart-Disease"}`,
		},
		{
			name:           "empty object",
			body:           "{}",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No input data provided"}`,
		},
		{
			name:           "empty body",
			body:           "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No input data provided"}`,
		},
		{
			name:           "malformed json",
			body:           `{"age": 63,`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No input data provided"}`,
		},
		{
			name:           "null",
			body:           "null",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No input data provided"}`,
		},
		{
			name:           "missing columns",
			body:           `{"age": 63, "sex": "Male"}`,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unseen column",
			body:           `{"weight": 80}`,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "single record list",
			body:           "[" + pipelinetest.AtRiskRecord + "]",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"prediction":"Heart-Disease"}`,
		},
		{
			name:           "list of records",
			body:           "[" + pipelinetest.AtRiskRecord + "," + pipelinetest.HealthyRecord + "]",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(mux, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
				return
			}
			var resp common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestPredictHandlerRecoversAfterFailure(t *testing.T) {
	mux := newTestMux(t, 0)

	bad := strings.Replace(pipelinetest.AtRiskRecord, `"age": 63`, `"age": "abc"`, 1)
	w := post(mux, bad)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "abc")

	w = post(mux, pipelinetest.AtRiskRecord)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prediction":"Heart-Disease"}`, w.Body.String())
}

func TestPredictHandlerBodyTooLarge(t *testing.T) {
	mux := newTestMux(t, 64)

	w := post(mux, pipelinetest.AtRiskRecord)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "request body exceeds 64 bytes", resp.Error)
}

func TestPredictHandlerMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t, 0)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(method, PredictPath, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}

func TestPredictHandlerIgnoresContentType(t *testing.T) {
	mux := newTestMux(t, 0)

	req := httptest.NewRequest(http.MethodPost, PredictPath, strings.NewReader(pipelinetest.HealthyRecord))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prediction":"No-Heart-Disease"}`, w.Body.String())
}
