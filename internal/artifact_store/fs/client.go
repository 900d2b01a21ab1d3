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

// Package fs provides a filesystem-based implementation of the ArtifactClient interface.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/api"
)

// DefaultTimeout is the default timeout for filesystem operations.
const DefaultTimeout = 30 * time.Second

// Client implements api.ArtifactClient on top of a local directory.
type Client struct {
	basePath       string
	defaultTimeout time.Duration
}

// Compile-time check that Client implements api.ArtifactClient.
var _ api.ArtifactClient = (*Client)(nil)

// New creates a client rooted at basePath. The directory is not created;
// a missing directory surfaces as api.ErrNotFound on Retrieve.
func New(basePath string) (*Client, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &Client{
		basePath:       filepath.Clean(absPath),
		defaultTimeout: DefaultTimeout,
	}, nil
}

// SetDefaultTimeout sets the default timeout for operations.
func (c *Client) SetDefaultTimeout(timeout time.Duration) {
	c.defaultTimeout = timeout
}

// resolvePath sanitizes and resolves a location to a full path, preventing path traversal.
func (c *Client) resolvePath(location string) (string, error) {
	fullPath := filepath.Join(c.basePath, filepath.Clean(location))
	rel, err := filepath.Rel(c.basePath, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid path %q: %w", location, os.ErrInvalid)
	}
	return fullPath, nil
}

// Retrieve opens an artifact file for reading.
func (c *Client) Retrieve(ctx context.Context, location string) (io.ReadCloser, *api.ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fullPath, err := c.resolvePath(location)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", api.ErrNotFound, fullPath)
		}
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, nil, fmt.Errorf("%s is a directory: %w", fullPath, os.ErrInvalid)
	}

	return file, &api.ArtifactMetadata{
		Location: fullPath,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}

// GetContext returns a derived context with a timeout.
func (c *Client) GetContext(parentCtx context.Context, timeLimit time.Duration) (context.Context, context.CancelFunc) {
	if timeLimit == 0 {
		timeLimit = c.defaultTimeout
	}
	return context.WithTimeout(parentCtx, timeLimit)
}

// Close closes the client.
func (c *Client) Close() error {
	return nil
}
