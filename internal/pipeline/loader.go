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

// The file loads a pipeline artifact from an artifact store.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/api"
	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
)

// MaxArtifactSize bounds how much of an artifact is read.
const MaxArtifactSize int64 = 64 << 20

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForLocation picks the decoder from the file extension.
func FormatForLocation(location string) (Format, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: unsupported artifact extension %q", ErrInvalidArtifact, path.Ext(location))
	}
}

// Decode reads an artifact. Unknown fields are rejected.
func Decode(r io.Reader, format Format) (*Artifact, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxArtifactSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if int64(len(data)) > MaxArtifactSize {
		return nil, fmt.Errorf("%w: artifact exceeds %d bytes", ErrInvalidArtifact, MaxArtifactSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: artifact is empty", ErrInvalidArtifact)
	}

	a := &Artifact{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: trailing data after artifact", ErrInvalidArtifact)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrInvalidArtifact, format)
	}
	return a, nil
}

// Load retrieves, decodes and compiles the artifact at location.
func Load(ctx context.Context, client api.ArtifactClient, location string) (*Pipeline, error) {
	logger := klog.FromContext(ctx)

	format, err := FormatForLocation(location)
	if err != nil {
		return nil, err
	}

	ctx, cancel := client.GetContext(ctx, 0)
	defer cancel()

	reader, md, err := client.Retrieve(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve artifact %q: %w", location, err)
	}
	defer reader.Close()

	logger.V(logging.DEBUG).Info("decoding pipeline artifact", "location", md.Location, "size", md.Size)

	artifact, err := Decode(reader, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artifact %q: %w", md.Location, err)
	}
	p, err := New(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline from %q: %w", md.Location, err)
	}

	info := p.Info()
	logger.Info("pipeline loaded", "location", md.Location, "name", info.Name,
		"version", info.Version, "estimator", info.Estimator, "features", len(info.Features))
	return p, nil
}
