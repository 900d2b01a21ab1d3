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

// Package pipelinetest provides a small fitted pipeline with predictable
// outputs for tests of packages built on top of pipeline.
//
// The classifier only looks at cp and caa: a high chest pain type with no
// colored vessels predicts class 1, the reverse predicts class 0.
package pipelinetest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/llm-d-incubation/heart-predictor/internal/pipeline"
)

var Features = []string{
	"age", "sex", "cp", "trtbps", "chol", "fbs", "restecg",
	"thalachh", "exng", "oldpeak", "slp", "caa", "thall",
}

var numericFeatures = []string{
	"age", "cp", "trtbps", "chol", "fbs", "restecg",
	"thalachh", "exng", "oldpeak", "slp", "caa", "thall",
}

// AtRiskRecord is predicted as class 1.
const AtRiskRecord = `{"age": 63, "sex": "Male", "cp": 3, "trtbps": 145, "chol": 233, "fbs": 1,
"restecg": 0, "thalachh": 150, "exng": 0, "oldpeak": 2.3, "slp": 0, "caa": 0, "thall": 1}`

// HealthyRecord is predicted as class 0.
const HealthyRecord = `{"age": 57, "sex": "Female", "cp": 0, "trtbps": 140, "chol": 241, "fbs": 0,
"restecg": 1, "thalachh": 123, "exng": 1, "oldpeak": 0.2, "slp": 1, "caa": 3, "thall": 3}`

// TB is the part of testing.TB the helpers need. Ginkgo's GinkgoT satisfies it.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Artifact returns a fresh copy of the fixture artifact.
func Artifact() *pipeline.Artifact {
	coef := make([]float64, len(numericFeatures)+2)
	coef[1] = 1.0   // cp
	coef[10] = -1.0 // caa

	return &pipeline.Artifact{
		Name:     "fixture",
		Version:  "test",
		Features: append([]string(nil), Features...),
		Classes:  []int{0, 1},
		Preprocessor: pipeline.ColumnTransformerSpec{
			Transformers: []pipeline.TransformerSpec{
				{
					Name:    "num",
					Kind:    pipeline.KindStandardScaler,
					Columns: append([]string(nil), numericFeatures...),
					Mean:    []float64{54.4, 0.97, 131.6, 246.3, 0.15, 0.53, 149.6, 0.33, 1.04, 1.4, 0.73, 2.31},
					Scale:   []float64{9.1, 1.03, 17.5, 51.7, 0.36, 0.53, 22.9, 0.47, 1.16, 0.62, 1.02, 0.61},
				},
				{
					Name:       "cat",
					Kind:       pipeline.KindOneHotEncoder,
					Columns:    []string{"sex"},
					Categories: [][]string{{"Female", "Male"}},
				},
			},
			Remainder: pipeline.RemainderDrop,
		},
		Estimator: pipeline.EstimatorSpec{
			Kind: pipeline.KindLogisticRegression,
			Coef: coef,
		},
	}
}

// Pipeline builds the fixture pipeline.
func Pipeline(t TB) *pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.New(Artifact())
	if err != nil {
		t.Fatalf("failed to build fixture pipeline: %v", err)
	}
	return p
}

// WriteArtifact writes a as JSON into dir and returns the file path.
func WriteArtifact(t TB, dir, name string, a *pipeline.Artifact) string {
	t.Helper()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("failed to encode artifact: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return path
}
