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

// The file implements the column transformer that turns a row into a feature vector.
package pipeline

import (
	"fmt"
)

type transformer interface {
	// width is the number of output values.
	width() int
	// transform appends the output values for the row to dst.
	transform(dst []float64, row *Frame) ([]float64, error)
}

type columnTransformer struct {
	steps []transformer
	out   int
}

func newColumnTransformer(spec ColumnTransformerSpec, features []string) (*columnTransformer, error) {
	ct := &columnTransformer{}
	used := make(map[string]struct{})
	for _, ts := range spec.Transformers {
		step, err := newTransformer(ts)
		if err != nil {
			return nil, err
		}
		for _, col := range ts.Columns {
			used[col] = struct{}{}
		}
		ct.steps = append(ct.steps, step)
		ct.out += step.width()
	}

	if spec.Remainder == RemainderPassthrough {
		var rest []string
		for _, f := range features {
			if _, ok := used[f]; !ok {
				rest = append(rest, f)
			}
		}
		if len(rest) > 0 {
			step := &passthrough{columns: rest}
			ct.steps = append(ct.steps, step)
			ct.out += step.width()
		}
	}

	if ct.out == 0 {
		return nil, fmt.Errorf("%w: preprocessor produces no output columns", ErrInvalidArtifact)
	}
	return ct, nil
}

func (ct *columnTransformer) width() int {
	return ct.out
}

func (ct *columnTransformer) transform(row *Frame) ([]float64, error) {
	x := make([]float64, 0, ct.out)
	var err error
	for _, step := range ct.steps {
		if x, err = step.transform(x, row); err != nil {
			return nil, err
		}
	}
	return x, nil
}

func newTransformer(spec TransformerSpec) (transformer, error) {
	switch spec.Kind {
	case KindStandardScaler:
		n := len(spec.Columns)
		if len(spec.Mean) != n || len(spec.Scale) != n {
			return nil, fmt.Errorf("%w: transformer %q: mean and scale must have %d values, got %d and %d",
				ErrInvalidArtifact, spec.Name, n, len(spec.Mean), len(spec.Scale))
		}
		scale := make([]float64, n)
		for i, s := range spec.Scale {
			// Constant features were fitted with a zero variance.
			if s == 0 {
				s = 1
			}
			scale[i] = s
		}
		return &standardScaler{columns: spec.Columns, mean: spec.Mean, scale: scale}, nil
	case KindOneHotEncoder:
		if len(spec.Categories) != len(spec.Columns) {
			return nil, fmt.Errorf("%w: transformer %q: expected categories for %d columns, got %d",
				ErrInvalidArtifact, spec.Name, len(spec.Columns), len(spec.Categories))
		}
		enc := &oneHotEncoder{columns: spec.Columns, categories: spec.Categories}
		switch spec.HandleUnknown {
		case "", HandleUnknownError:
		case HandleUnknownIgnore:
			enc.ignoreUnknown = true
		default:
			return nil, fmt.Errorf("%w: transformer %q: unknown handle_unknown %q",
				ErrInvalidArtifact, spec.Name, spec.HandleUnknown)
		}
		enc.index = make([]map[string]int, len(spec.Categories))
		for i, cats := range spec.Categories {
			if len(cats) == 0 {
				return nil, fmt.Errorf("%w: transformer %q: column %q has no categories",
					ErrInvalidArtifact, spec.Name, spec.Columns[i])
			}
			enc.index[i] = make(map[string]int, len(cats))
			for j, c := range cats {
				enc.index[i][c] = j
			}
			enc.out += len(cats)
		}
		return enc, nil
	case KindPassthrough:
		return &passthrough{columns: spec.Columns}, nil
	default:
		return nil, fmt.Errorf("%w: transformer %q: unknown kind %q", ErrInvalidArtifact, spec.Name, spec.Kind)
	}
}

type standardScaler struct {
	columns []string
	mean    []float64
	scale   []float64
}

func (s *standardScaler) width() int { return len(s.columns) }

func (s *standardScaler) transform(dst []float64, row *Frame) ([]float64, error) {
	for i, col := range s.columns {
		v, err := numericCell(row, col)
		if err != nil {
			return nil, err
		}
		dst = append(dst, (v-s.mean[i])/s.scale[i])
	}
	return dst, nil
}

type oneHotEncoder struct {
	columns       []string
	categories    [][]string
	index         []map[string]int
	ignoreUnknown bool
	out           int
}

func (e *oneHotEncoder) width() int { return e.out }

func (e *oneHotEncoder) transform(dst []float64, row *Frame) ([]float64, error) {
	for i, col := range e.columns {
		cell, ok := row.Get(col)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumns, col)
		}
		category, err := cell.Category()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		pos, known := e.index[i][category]
		if !known && !e.ignoreUnknown {
			return nil, fmt.Errorf("%w %q in column %q during transform", ErrUnknownCategory, category, col)
		}
		for j := range e.categories[i] {
			if known && j == pos {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
	}
	return dst, nil
}

type passthrough struct {
	columns []string
}

func (p *passthrough) width() int { return len(p.columns) }

func (p *passthrough) transform(dst []float64, row *Frame) ([]float64, error) {
	for _, col := range p.columns {
		v, err := numericCell(row, col)
		if err != nil {
			return nil, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

func numericCell(row *Frame, col string) (float64, error) {
	cell, ok := row.Get(col)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumns, col)
	}
	v, err := cell.Float()
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}
