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

// Package client is an HTTP client for the prediction api server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
	utls "github.com/llm-d-incubation/heart-predictor/internal/util/tls"
)

const predictPath = "/predict"

// Config holds configuration for the client
type Config struct {
	BaseURL string        // Base URL of the api server (e.g., "http://localhost:8080")
	Timeout time.Duration // Request timeout (default: 30 seconds)

	// TLS configuration (optional)
	TLSInsecureSkipVerify bool   // Skip TLS certificate verification (testing only)
	TLSCACertFile         string // CA certificate for a server with a private CA
	TLSClientCertFile     string // Client certificate for mTLS
	TLSClientKeyFile      string // Client private key for mTLS
}

type Client struct {
	client *resty.Client
}

// ClientError is returned when the server answers with a non-200 status or
// cannot be reached. StatusCode is zero for transport errors.
type ClientError struct {
	StatusCode int
	Message    string
	RawError   error
}

func (e *ClientError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.RawError
}

type predictResponse struct {
	Prediction string `json:"prediction"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if config.TLSInsecureSkipVerify || config.TLSCACertFile != "" || config.TLSClientCertFile != "" {
		tlsConfig, err := utls.GetTlsConfig(utls.LOAD_TYPE_CLIENT, config.TLSInsecureSkipVerify,
			config.TLSClientCertFile, config.TLSClientKeyFile, config.TLSCACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to build tls config: %w", err)
		}
		if config.TLSInsecureSkipVerify {
			klog.Warning("TLS certificate verification is disabled - this is insecure and should only be used for testing")
		}
		client.SetTLSClientConfig(tlsConfig)
	}

	return &Client{client: client}, nil
}

// Predict posts a JSON record and returns the predicted label.
func (c *Client) Predict(ctx context.Context, requestID string, record []byte) (string, error) {
	req := c.client.R().SetContext(ctx).SetBody(record)
	if requestID != "" {
		req.SetHeader("X-Request-ID", requestID)
	}

	klog.FromContext(ctx).V(logging.DEBUG).Info("sending prediction request",
		"requestID", requestID, "bytes", len(record))

	resp, err := req.Post(predictPath)
	if err != nil {
		return "", &ClientError{
			Message:  fmt.Sprintf("failed to execute request: %v", err),
			RawError: err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		message := string(resp.Body())
		var errResp errorResponse
		if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return "", &ClientError{
			StatusCode: resp.StatusCode(),
			Message:    message,
			RawError:   fmt.Errorf("status code: %d, body: %s", resp.StatusCode(), resp.Body()),
		}
	}

	var out predictResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.Prediction == "" {
		return "", &ClientError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("unexpected response body: %s", resp.Body()),
			RawError:   err,
		}
	}
	return out.Prediction, nil
}
