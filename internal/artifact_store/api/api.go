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

// Package api defines the read-only interface to the store holding model artifacts.
package api

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no artifact exists at the requested location.
var ErrNotFound = errors.New("artifact not found")

type ArtifactMetadata struct {
	Location string    // Resolved location of the artifact (full path or object key).
	Size     int64     // Size in bytes, zero when the store does not report it.
	ModTime  time.Time // Last modification time.
}

type ArtifactClient interface {

	// Retrieve opens the artifact at the given location.
	// The caller MUST close the returned reader.
	// Returns ErrNotFound (possibly wrapped) if the artifact does not exist.
	Retrieve(ctx context.Context, location string) (io.ReadCloser, *ArtifactMetadata, error)

	// GetContext returns a derived context with a timeout for store operations.
	// A zero timeLimit selects the client's default timeout.
	GetContext(parentCtx context.Context, timeLimit time.Duration) (context.Context, context.CancelFunc)

	// Close releases any resources held by the client.
	Close() error
}
