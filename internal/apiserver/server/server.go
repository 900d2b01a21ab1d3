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

// Package server assembles the api handlers into an HTTP server and runs it
// until its context is cancelled.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"

	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/health"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/metrics"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/middleware"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/predict"
	"github.com/llm-d-incubation/heart-predictor/internal/prediction"
	utls "github.com/llm-d-incubation/heart-predictor/internal/util/tls"
)

type Server struct {
	config    *common.Config
	handler   http.Handler
	tlsConfig *tls.Config
}

// New wires the handlers around an already loaded prediction service.
func New(config *common.Config, service *prediction.Service) (*Server, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if service == nil {
		return nil, errors.New("prediction service is nil")
	}

	var tlsConfig *tls.Config
	if config.TLSEnabled() {
		certFile, keyFile, caCertFile := config.TLS.Paths()
		var err error
		tlsConfig, err = utls.GetTlsConfig(utls.LOAD_TYPE_SERVER, false, certFile, keyFile, caCertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to build tls config: %w", err)
		}
	}

	info := service.Info()
	metrics.SetModelInfo(info.Name, info.Version, info.Estimator)

	mux := http.NewServeMux()
	for _, h := range []common.ApiHandler{
		health.NewHealthApiHandler(service),
		metrics.NewMetricsApiHandler(),
		predict.NewPredictApiHandler(service, config.MaxBodyBytes),
	} {
		common.RegisterHandler(mux, h)
	}

	return &Server{
		config:    config,
		handler:   middleware.RequestMiddleware(mux),
		tlsConfig: tlsConfig,
	}, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then waits up to the shutdown
// timeout for in-flight requests. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := klog.FromContext(ctx)

	httpServer := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		TLSConfig:    s.tlsConfig,
		BaseContext: func(net.Listener) context.Context {
			return klog.NewContext(context.Background(), logger)
		},
	}

	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", ln.Addr().String(), "tls", s.tlsConfig != nil)
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down api server", "timeout", s.config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gracefully: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
