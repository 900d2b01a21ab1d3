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

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/server"
	"github.com/llm-d-incubation/heart-predictor/internal/pipeline/pipelinetest"
	"github.com/llm-d-incubation/heart-predictor/internal/prediction"
)

func newPredictionServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc, err := prediction.NewService(pipelinetest.Pipeline(t))
	require.NoError(t, err)
	srv, err := server.New(common.NewConfig(), svc)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	c, err := New(Config{BaseURL: "http://localhost:8080"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.client.GetClient().Timeout)

	_, err = New(Config{BaseURL: "https://localhost:8443", TLSCACertFile: "/nonexistent/ca.crt"})
	assert.Error(t, err)
}

func TestPredict(t *testing.T) {
	ts := newPredictionServer(t)
	c, err := New(Config{BaseURL: ts.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	ctx := context.Background()

	label, err := c.Predict(ctx, "req-1", []byte(pipelinetest.AtRiskRecord))
	require.NoError(t, err)
	assert.Equal(t, "Heart-Disease", label)

	label, err = c.Predict(ctx, "", []byte(pipelinetest.HealthyRecord))
	require.NoError(t, err)
	assert.Equal(t, "No-Heart-Disease", label)
}

func TestPredictServerErrors(t *testing.T) {
	ts := newPredictionServer(t)
	c, err := New(Config{BaseURL: ts.URL})
	require.NoError(t, err)

	t.Run("empty record", func(t *testing.T) {
		_, err := c.Predict(context.Background(), "", []byte("{}"))

		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
		assert.Equal(t, "No input data provided", clientErr.Message)
		assert.Equal(t, "HTTP 400: No input data provided", err.Error())
	})

	t.Run("failed prediction", func(t *testing.T) {
		_, err := c.Predict(context.Background(), "", []byte(`{"age": 63}`))

		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, http.StatusInternalServerError, clientErr.StatusCode)
		assert.Contains(t, clientErr.Message, "columns are missing")
	})
}

func TestPredictSendsRequestID(t *testing.T) {
	var gotID, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":"Heart-Disease"}`))
	}))
	defer ts.Close()

	c, err := New(Config{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "req-7", []byte(`{"age": 63}`))
	require.NoError(t, err)
	assert.Equal(t, "req-7", gotID)
	assert.JSONEq(t, `{"age": 63}`, gotBody)
}

func TestPredictUnexpectedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":"yes"}`))
	}))
	defer ts.Close()

	c, err := New(Config{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "", []byte(`{"age": 63}`))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusOK, clientErr.StatusCode)
}

func TestPredictTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "", []byte(pipelinetest.AtRiskRecord))
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Zero(t, clientErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}
