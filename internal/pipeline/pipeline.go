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

// Package pipeline implements a fitted classification pipeline: a column
// transformer followed by a classifier, loaded from a serialized artifact.
//
// A Pipeline is immutable once built and safe for concurrent use.
package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// Info describes a loaded pipeline.
type Info struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Estimator string   `json:"estimator"`
	Features  []string `json:"features"`
	Classes   []int    `json:"classes"`
}

type Pipeline struct {
	info       Info
	featureSet map[string]struct{}
	pre        *columnTransformer
	est        estimator
}

// New validates the artifact and compiles it into a Pipeline.
func New(a *Artifact) (*Pipeline, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: artifact is nil", ErrInvalidArtifact)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	pre, err := newColumnTransformer(a.Preprocessor, a.Features)
	if err != nil {
		return nil, err
	}
	est, err := newEstimator(a.Estimator, pre.width(), len(a.Classes))
	if err != nil {
		return nil, err
	}

	features := make([]string, len(a.Features))
	copy(features, a.Features)
	classes := make([]int, len(a.Classes))
	copy(classes, a.Classes)

	featureSet := make(map[string]struct{}, len(features))
	for _, f := range features {
		featureSet[f] = struct{}{}
	}

	return &Pipeline{
		info: Info{
			Name:      a.Name,
			Version:   a.Version,
			Estimator: a.Estimator.Kind,
			Features:  features,
			Classes:   classes,
		},
		featureSet: featureSet,
		pre:        pre,
		est:        est,
	}, nil
}

// Info returns a copy of the pipeline description.
func (p *Pipeline) Info() Info {
	info := p.info
	info.Features = append([]string(nil), p.info.Features...)
	info.Classes = append([]int(nil), p.info.Classes...)
	return info
}

// Predict runs the row through the preprocessor and the classifier and
// returns the predicted class id.
func (p *Pipeline) Predict(ctx context.Context, row *Frame) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if row == nil {
		return 0, fmt.Errorf("%w: row is nil", ErrInvalidRecord)
	}
	if err := p.checkColumns(row); err != nil {
		return 0, err
	}

	x, err := p.pre.transform(row)
	if err != nil {
		return 0, err
	}
	idx, err := p.est.predict(x)
	if err != nil {
		return 0, err
	}
	return p.info.Classes[idx], nil
}

func (p *Pipeline) checkColumns(row *Frame) error {
	var unseen []string
	for _, col := range row.Columns() {
		if _, ok := p.featureSet[col]; !ok {
			unseen = append(unseen, col)
		}
	}
	if len(unseen) > 0 {
		return fmt.Errorf("%w: %s", ErrUnseenColumns, strings.Join(unseen, ", "))
	}

	var missing []string
	for _, f := range p.info.Features {
		if _, ok := row.Get(f); !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}
