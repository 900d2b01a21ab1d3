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

// The file defines the single-row table handed to a pipeline.
package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

type CellKind int

const (
	CellNull CellKind = iota
	CellNumber
	CellString
	CellBool
)

var cellKindNames = map[CellKind]string{
	CellNull:   "null",
	CellNumber: "number",
	CellString: "string",
	CellBool:   "bool",
}

func (k CellKind) String() string {
	if name, ok := cellKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Cell is one scalar value of a row.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
}

func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }
func StringCell(v string) Cell  { return Cell{Kind: CellString, Str: v} }
func BoolCell(v bool) Cell      { return Cell{Kind: CellBool, Bool: v} }
func NullCell() Cell            { return Cell{Kind: CellNull} }

// Float converts the cell to a finite float64. Numeric strings are accepted.
func (c Cell) Float() (float64, error) {
	var v float64
	switch c.Kind {
	case CellNumber:
		v = c.Num
	case CellBool:
		if c.Bool {
			return 1, nil
		}
		return 0, nil
	case CellString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: could not convert string to float: %q", ErrInvalidValue, c.Str)
		}
		v = parsed
	default:
		return 0, fmt.Errorf("%w: input contains NaN", ErrInvalidValue)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: input contains NaN or infinity", ErrInvalidValue)
	}
	return v, nil
}

// Category renders the cell the way categories are stored in an artifact.
func (c Cell) Category() (string, error) {
	switch c.Kind {
	case CellString:
		return c.Str, nil
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64), nil
	case CellBool:
		return strconv.FormatBool(c.Bool), nil
	default:
		return "", fmt.Errorf("%w: input contains NaN", ErrInvalidValue)
	}
}

// Frame is a table with exactly one row. Columns keep insertion order.
type Frame struct {
	columns []string
	cells   map[string]Cell
}

func NewFrame() *Frame {
	return &Frame{cells: make(map[string]Cell)}
}

// Set adds or replaces a column. A replaced column keeps its original position.
func (f *Frame) Set(name string, c Cell) {
	if _, ok := f.cells[name]; !ok {
		f.columns = append(f.columns, name)
	}
	f.cells[name] = c
}

func (f *Frame) Get(name string) (Cell, bool) {
	c, ok := f.cells[name]
	return c, ok
}

func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// ParseRow builds a frame from a JSON object, one column per key in the order
// the keys appear in the document. A list holding exactly one object is
// accepted as that object. Nested arrays and objects are rejected.
func ParseRow(data []byte) (*Frame, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if dataType == jsonparser.Array {
		if value, dataType, err = singleElement(value); err != nil {
			return nil, err
		}
		data = value
	}
	if dataType != jsonparser.Object {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrInvalidRecord, dataType)
	}

	frame := NewFrame()
	// ObjectEach hands out keys already unescaped.
	err = jsonparser.ObjectEach(data, func(key []byte, value []byte, valueType jsonparser.ValueType, _ int) error {
		name := string(key)
		cell, err := parseCell(name, value, valueType)
		if err != nil {
			return err
		}
		frame.Set(name, cell)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frame, nil
}

func singleElement(array []byte) ([]byte, jsonparser.ValueType, error) {
	var (
		elem     []byte
		elemType jsonparser.ValueType
		n        int
	)
	_, err := jsonparser.ArrayEach(array, func(value []byte, valueType jsonparser.ValueType, _ int, _ error) {
		if n == 0 {
			elem, elemType = value, valueType
		}
		n++
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if n != 1 {
		return nil, 0, fmt.Errorf("%w: expected a single record, got %d", ErrInvalidRecord, n)
	}
	return elem, elemType, nil
}

func parseCell(name string, value []byte, valueType jsonparser.ValueType) (Cell, error) {
	switch valueType {
	case jsonparser.Number:
		v, err := jsonparser.ParseFloat(value)
		if err != nil {
			return Cell{}, fmt.Errorf("%w: column %q: %v", ErrInvalidValue, name, err)
		}
		return NumberCell(v), nil
	case jsonparser.String:
		v, err := jsonparser.ParseString(value)
		if err != nil {
			return Cell{}, fmt.Errorf("%w: column %q: %v", ErrInvalidValue, name, err)
		}
		return StringCell(v), nil
	case jsonparser.Boolean:
		v, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return Cell{}, fmt.Errorf("%w: column %q: %v", ErrInvalidValue, name, err)
		}
		return BoolCell(v), nil
	case jsonparser.Null:
		return NullCell(), nil
	default:
		return Cell{}, fmt.Errorf("%w: column %q: expected a scalar value, got %s", ErrInvalidValue, name, valueType)
	}
}
