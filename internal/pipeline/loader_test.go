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

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/api"
	"github.com/llm-d-incubation/heart-predictor/internal/artifact_store/fs"
	"github.com/llm-d-incubation/heart-predictor/internal/pipeline"
	"github.com/llm-d-incubation/heart-predictor/internal/pipeline/pipelinetest"
)

func newStore(t *testing.T, dir string) *fs.Client {
	t.Helper()
	client, err := fs.New(dir)
	require.NoError(t, err)
	return client
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads json artifact", func(t *testing.T) {
		dir := t.TempDir()
		pipelinetest.WriteArtifact(t, dir, "model.json", pipelinetest.Artifact())

		p, err := pipeline.Load(ctx, newStore(t, dir), "model.json")
		require.NoError(t, err)
		assert.Equal(t, "fixture", p.Info().Name)

		row, err := pipeline.ParseRow([]byte(pipelinetest.AtRiskRecord))
		require.NoError(t, err)
		class, err := p.Predict(ctx, row)
		require.NoError(t, err)
		assert.Equal(t, 1, class)
	})

	t.Run("loads yaml artifact", func(t *testing.T) {
		dir := t.TempDir()
		data, err := yaml.Marshal(pipelinetest.Artifact())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yaml"), data, 0o644))

		p, err := pipeline.Load(ctx, newStore(t, dir), "model.yaml")
		require.NoError(t, err)

		row, err := pipeline.ParseRow([]byte(pipelinetest.HealthyRecord))
		require.NoError(t, err)
		class, err := p.Predict(ctx, row)
		require.NoError(t, err)
		assert.Equal(t, 0, class)
	})

	t.Run("missing artifact", func(t *testing.T) {
		_, err := pipeline.Load(ctx, newStore(t, t.TempDir()), "model.json")
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "does-not-exist")
		_, err := pipeline.Load(ctx, newStore(t, dir), "model.json")
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := pipeline.Load(ctx, newStore(t, t.TempDir()), "model.pkl")
		assert.ErrorIs(t, err, pipeline.ErrInvalidArtifact)
	})

	corrupt := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "truncated json", content: `{"name": "x", "features": [`},
		{name: "binary content", content: "\x80\x04\x95\x00\x00"},
		{name: "unknown field", content: `{"name": "x", "weights": [1, 2]}`},
		{name: "trailing data", content: `{"name": "x"} {"name": "y"}`},
		{name: "fails validation", content: `{"name": "x", "features": ["age"], "classes": [0, 1]}`},
	}
	for _, tt := range corrupt {
		t.Run("corrupt: "+tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(tt.content), 0o644))

			_, err := pipeline.Load(ctx, newStore(t, dir), "model.json")
			assert.ErrorIs(t, err, pipeline.ErrInvalidArtifact)
		})
	}

	t.Run("rejects oversized artifact", func(t *testing.T) {
		_, err := pipeline.Decode(strings.NewReader(strings.Repeat(" ", int(pipeline.MaxArtifactSize)+1)), pipeline.FormatJSON)
		assert.ErrorIs(t, err, pipeline.ErrInvalidArtifact)
	})
}

func TestFormatForLocation(t *testing.T) {
	tests := []struct {
		location string
		want     pipeline.Format
		wantErr  bool
	}{
		{location: "model.json", want: pipeline.FormatJSON},
		{location: "dir/MODEL.JSON", want: pipeline.FormatJSON},
		{location: "model.yaml", want: pipeline.FormatYAML},
		{location: "model.yml", want: pipeline.FormatYAML},
		{location: "model.pkl", wantErr: true},
		{location: "model", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := pipeline.FormatForLocation(tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, pipeline.ErrInvalidArtifact)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShippedArtifactLoads(t *testing.T) {
	dir := filepath.Join("..", "..", "trained_model")
	p, err := pipeline.Load(context.Background(), newStore(t, dir), "heartattack_prediction_pipeline.json")
	require.NoError(t, err)

	info := p.Info()
	assert.Equal(t, "heartattack_prediction_pipeline", info.Name)
	assert.Equal(t, pipelinetest.Features, info.Features)

	for _, record := range []string{pipelinetest.AtRiskRecord, pipelinetest.HealthyRecord} {
		row, err := pipeline.ParseRow([]byte(record))
		require.NoError(t, err)
		class, err := p.Predict(context.Background(), row)
		require.NoError(t, err)
		assert.Contains(t, []int{0, 1}, class)
	}
}
