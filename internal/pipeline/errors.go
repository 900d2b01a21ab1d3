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

package pipeline

import "errors"

var (
	// ErrInvalidRecord is returned when the input cannot be turned into a row.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidValue is returned when a cell cannot be converted for its transformer.
	ErrInvalidValue = errors.New("invalid value")

	// ErrMissingColumns is returned when the row lacks columns seen at fit time.
	ErrMissingColumns = errors.New("columns are missing")

	// ErrUnseenColumns is returned when the row has columns not seen at fit time.
	ErrUnseenColumns = errors.New("feature names unseen at fit time")

	// ErrUnknownCategory is returned by one-hot encoders configured to reject unknown categories.
	ErrUnknownCategory = errors.New("found unknown category")

	// ErrInvalidArtifact is returned when an artifact fails decoding or validation.
	ErrInvalidArtifact = errors.New("invalid pipeline artifact")
)
