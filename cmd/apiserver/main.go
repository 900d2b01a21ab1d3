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

// The entry point for the heart disease prediction API server.
// It loads the pipeline once, then serves until interrupted. A pipeline that
// cannot be loaded stops the process before the port is bound.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/common"
	"github.com/llm-d-incubation/heart-predictor/internal/apiserver/server"
	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/api"
	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/fs"
	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/s3"
	"github.com/llm-d-incubation/heart-predictor/internal/pipeline"
	"github.com/llm-d-incubation/heart-predictor/internal/prediction"
	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
)

func main() {
	config := common.NewConfig()

	// load and validate config
	flags := flag.NewFlagSet("heart-predictor-apiserver", flag.ContinueOnError)
	klog.InitFlags(flags)
	config.AddFlags(flags)
	if err := config.Load(flags, os.Args[1:]); err != nil {
		klog.Fatalf("failed to parse config: %v", err)
	}
	if err := config.Validate(); err != nil {
		klog.Fatalf("failed to validate config: %v", err)
	}

	// make sure to flush logs before exiting
	defer klog.Flush()

	// graceful shutdown
	parentCtx := context.Background()
	c := make(chan os.Signal, 2)
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()

	logger := klog.FromContext(ctx)

	// load the pipeline before anything listens
	p, err := loadPipeline(ctx, config)
	if err != nil {
		logging.Fatal(logger, err, "failed to load pipeline", "model", config.ModelLocation)
	}
	service, err := prediction.NewService(p)
	if err != nil {
		logging.Fatal(logger, err, "failed to create prediction service")
	}

	logger.Info("starting api server")

	apiServer, err := server.New(config, service)
	if err != nil {
		logging.Fatal(logger, err, "failed to create api server")
	}
	if err := apiServer.Start(ctx); err != nil {
		logging.Fatal(logger, err, "failed to start api server")
	}
	logger.Info("api server is terminated")
}

func loadPipeline(ctx context.Context, config *common.Config) (*pipeline.Pipeline, error) {
	client, location, err := newArtifactClient(ctx, config)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return pipeline.Load(ctx, client, location)
}

// newArtifactClient picks the store for the model location and returns the
// location relative to that store. The store's default timeout bounds the load.
func newArtifactClient(ctx context.Context, config *common.Config) (api.ArtifactClient, string, error) {
	if config.IsS3Model() {
		bucket, key, err := s3.ParseURI(config.ModelLocation)
		if err != nil {
			return nil, "", err
		}
		s3Config := config.S3
		s3Config.Bucket = bucket
		s3Config.Prefix = ""
		client, err := s3.New(ctx, s3Config)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create s3 artifact client: %w", err)
		}
		if config.ModelLoadTimeout > 0 {
			client.SetDefaultTimeout(config.ModelLoadTimeout)
		}
		return client, key, nil
	}

	client, err := fs.New(filepath.Dir(config.ModelLocation))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create filesystem artifact client: %w", err)
	}
	if config.ModelLoadTimeout > 0 {
		client.SetDefaultTimeout(config.ModelLoadTimeout)
	}
	return client, filepath.Base(config.ModelLocation), nil
}
