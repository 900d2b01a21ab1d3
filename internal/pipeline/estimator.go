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

// The file implements the classifiers a pipeline can end with.
package pipeline

import (
	"fmt"
)

// estimator returns an index into the artifact classes.
type estimator interface {
	predict(x []float64) (int, error)
}

func newEstimator(spec EstimatorSpec, width, nClasses int) (estimator, error) {
	switch spec.Kind {
	case KindLogisticRegression:
		if nClasses != 2 {
			return nil, fmt.Errorf("%w: logistic regression supports 2 classes, got %d", ErrInvalidArtifact, nClasses)
		}
		if len(spec.Coef) != width {
			return nil, fmt.Errorf("%w: logistic regression expects %d coefficients, got %d",
				ErrInvalidArtifact, width, len(spec.Coef))
		}
		return &logisticRegression{coef: spec.Coef, intercept: spec.Intercept}, nil
	case KindDecisionTree:
		if spec.Tree == nil {
			return nil, fmt.Errorf("%w: decision tree has no tree", ErrInvalidArtifact)
		}
		t, err := newDecisionTree(*spec.Tree, width, nClasses)
		if err != nil {
			return nil, err
		}
		return t, nil
	case KindRandomForest:
		if len(spec.Trees) == 0 {
			return nil, fmt.Errorf("%w: random forest has no trees", ErrInvalidArtifact)
		}
		f := &randomForest{nClasses: nClasses}
		for i, ts := range spec.Trees {
			t, err := newDecisionTree(ts, width, nClasses)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			f.trees = append(f.trees, t)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: unknown estimator kind %q", ErrInvalidArtifact, spec.Kind)
	}
}

type logisticRegression struct {
	coef      []float64
	intercept float64
}

// predict picks the positive class when the decision function is positive,
// which is the same as a 0.5 probability threshold.
func (lr *logisticRegression) predict(x []float64) (int, error) {
	z := lr.intercept
	for i, w := range lr.coef {
		z += w * x[i]
	}
	if z > 0 {
		return 1, nil
	}
	return 0, nil
}

type decisionTree struct {
	nodes []TreeNode
}

func newDecisionTree(spec TreeSpec, width, nClasses int) (*decisionTree, error) {
	if len(spec.Nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", ErrInvalidArtifact)
	}
	n := len(spec.Nodes)
	for i, node := range spec.Nodes {
		if node.IsLeaf {
			if node.ClassIdx < 0 || node.ClassIdx >= nClasses {
				return nil, fmt.Errorf("%w: node %d: class index %d out of range", ErrInvalidArtifact, i, node.ClassIdx)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= width {
			return nil, fmt.Errorf("%w: node %d: feature index %d out of range", ErrInvalidArtifact, i, node.FeatureIdx)
		}
		if node.LeftChild <= i || node.LeftChild >= n || node.RightChild <= i || node.RightChild >= n {
			return nil, fmt.Errorf("%w: node %d: invalid children %d, %d", ErrInvalidArtifact, i, node.LeftChild, node.RightChild)
		}
	}
	return &decisionTree{nodes: spec.Nodes}, nil
}

func (dt *decisionTree) predict(x []float64) (int, error) {
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassIdx, nil
		}
		if x[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

type randomForest struct {
	trees    []*decisionTree
	nClasses int
}

// predict returns the majority vote. Ties go to the lowest class index.
func (rf *randomForest) predict(x []float64) (int, error) {
	votes := make([]int, rf.nClasses)
	for _, t := range rf.trees {
		c, err := t.predict(x)
		if err != nil {
			return 0, err
		}
		votes[c]++
	}
	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best, nil
}
