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

// The file defines the serialized form of a fitted pipeline.
package pipeline

import (
	"fmt"
)

// Transformer kinds.
const (
	KindStandardScaler = "standard_scaler"
	KindOneHotEncoder  = "one_hot_encoder"
	KindPassthrough    = "passthrough"
)

// Estimator kinds.
const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
	KindRandomForest       = "random_forest"
)

const (
	RemainderDrop        = "drop"
	RemainderPassthrough = "passthrough"

	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"
)

// Artifact is a fitted pipeline as written by the training job.
type Artifact struct {
	Name         string                `json:"name" yaml:"name"`
	Version      string                `json:"version" yaml:"version"`
	Features     []string              `json:"features" yaml:"features"` // feature names seen at fit time
	Classes      []int                 `json:"classes" yaml:"classes"`   // class ids, indexed by estimator output
	Preprocessor ColumnTransformerSpec `json:"preprocessor" yaml:"preprocessor"`
	Estimator    EstimatorSpec         `json:"estimator" yaml:"estimator"`
}

type ColumnTransformerSpec struct {
	Transformers []TransformerSpec `json:"transformers" yaml:"transformers"`
	Remainder    string            `json:"remainder,omitempty" yaml:"remainder,omitempty"` // drop (default) or passthrough
}

type TransformerSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Columns []string `json:"columns" yaml:"columns"`

	// standard_scaler
	Mean  []float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty" yaml:"scale,omitempty"`

	// one_hot_encoder
	Categories    [][]string `json:"categories,omitempty" yaml:"categories,omitempty"`
	HandleUnknown string     `json:"handle_unknown,omitempty" yaml:"handle_unknown,omitempty"`
}

type EstimatorSpec struct {
	Kind string `json:"kind" yaml:"kind"`

	// logistic_regression (binary)
	Coef      []float64 `json:"coef,omitempty" yaml:"coef,omitempty"`
	Intercept float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`

	// decision_tree
	Tree *TreeSpec `json:"tree,omitempty" yaml:"tree,omitempty"`

	// random_forest
	Trees []TreeSpec `json:"trees,omitempty" yaml:"trees,omitempty"`
}

type TreeSpec struct {
	Nodes []TreeNode `json:"nodes" yaml:"nodes"`
}

// TreeNode is one node of a flattened tree. Children always come after their
// parent, so a valid tree has no cycles.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx" yaml:"feature_idx"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	LeftChild  int     `json:"left_child" yaml:"left_child"`
	RightChild int     `json:"right_child" yaml:"right_child"`
	ClassIdx   int     `json:"class_idx" yaml:"class_idx"`
	IsLeaf     bool    `json:"is_leaf" yaml:"is_leaf"`
}

// Validate checks the parts of the artifact that do not depend on the
// transformed width. Shape checks against the width happen in New.
func (a *Artifact) Validate() error {
	if len(a.Features) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidArtifact)
	}
	seen := make(map[string]struct{}, len(a.Features))
	for _, f := range a.Features {
		if f == "" {
			return fmt.Errorf("%w: empty feature name", ErrInvalidArtifact)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: duplicate feature %q", ErrInvalidArtifact, f)
		}
		seen[f] = struct{}{}
	}
	if len(a.Classes) < 2 {
		return fmt.Errorf("%w: at least two classes are required, got %d", ErrInvalidArtifact, len(a.Classes))
	}
	switch a.Preprocessor.Remainder {
	case "", RemainderDrop, RemainderPassthrough:
	default:
		return fmt.Errorf("%w: unknown remainder %q", ErrInvalidArtifact, a.Preprocessor.Remainder)
	}
	for _, t := range a.Preprocessor.Transformers {
		if len(t.Columns) == 0 {
			return fmt.Errorf("%w: transformer %q has no columns", ErrInvalidArtifact, t.Name)
		}
		for _, col := range t.Columns {
			if _, ok := seen[col]; !ok {
				return fmt.Errorf("%w: transformer %q uses unknown column %q", ErrInvalidArtifact, t.Name, col)
			}
		}
	}
	if a.Estimator.Kind == "" {
		return fmt.Errorf("%w: estimator kind is empty", ErrInvalidArtifact)
	}
	return nil
}
