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

// Package prediction turns a patient record into a heart disease label using
// a pipeline loaded once at startup.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/llm-d-incubation/heart-predictor/internal/pipeline"
)

// NoInputMessage is reported to callers that send no record.
const NoInputMessage = "No input data provided"

// ErrNoInput is returned when the request carries no usable record.
var ErrNoInput = errors.New("no input data provided")

// Predictor is the part of a pipeline the service depends on.
type Predictor interface {
	Predict(ctx context.Context, row *pipeline.Frame) (int, error)
	Info() pipeline.Info
}

type Prediction struct {
	ClassID int
	Label   Label
}

// Service owns the pipeline for the lifetime of the process. It holds no
// other state and is safe for concurrent use.
type Service struct {
	pipeline Predictor
}

func NewService(p Predictor) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is nil")
	}
	return &Service{pipeline: p}, nil
}

// Info describes the pipeline the service predicts with.
func (s *Service) Info() pipeline.Info {
	return s.pipeline.Info()
}

// Predict classifies one JSON record. It returns ErrNoInput for an empty,
// missing or unparseable body; every other error comes from building the
// row, running the pipeline or mapping the class id.
func (s *Service) Predict(ctx context.Context, body []byte) (Prediction, error) {
	if isEmptyInput(body) {
		return Prediction{}, ErrNoInput
	}

	row, err := pipeline.ParseRow(body)
	if err != nil {
		return Prediction{}, err
	}

	classID, err := s.pipeline.Predict(ctx, row)
	if err != nil {
		return Prediction{}, err
	}

	label, err := LabelFor(classID)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{ClassID: classID, Label: label}, nil
}

// isEmptyInput reports whether body is absent, not JSON, or a JSON value
// with no content: null, {}, [], "", 0 or false.
func isEmptyInput(body []byte) bool {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return true
	}

	value, dataType, _, err := jsonparser.Get(body)
	if err != nil {
		return true
	}
	switch dataType {
	case jsonparser.Null:
		return true
	case jsonparser.Object:
		empty := true
		_ = jsonparser.ObjectEach(value, func(_ []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
			empty = false
			return nil
		})
		return empty
	case jsonparser.Array:
		n := 0
		_, _ = jsonparser.ArrayEach(value, func(_ []byte, _ jsonparser.ValueType, _ int, _ error) {
			n++
		})
		return n == 0
	case jsonparser.String:
		return len(value) == 0
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		return err == nil && f == 0
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		return err == nil && !b
	}
	return false
}
