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

package prediction

import (
	"errors"
	"fmt"
)

type Label string

const (
	LabelNoHeartDisease Label = "No-Heart-Disease"
	LabelHeartDisease   Label = "Heart-Disease"
)

// ErrUnknownClass is returned for a class id with no label.
var ErrUnknownClass = errors.New("no label for class id")

var classLabels = map[int]Label{
	0: LabelNoHeartDisease,
	1: LabelHeartDisease,
}

// LabelFor maps a pipeline class id to its label.
func LabelFor(classID int) (Label, error) {
	label, ok := classLabels[classID]
	if !ok {
		return "", fmt.Errorf("%w %d", ErrUnknownClass, classID)
	}
	return label, nil
}
