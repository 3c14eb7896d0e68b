// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package taskgraph

import "github.com/dolthub/vegafusion-go/internal/vferrors"

// ValueKind names which variant of the TaskValue sum type is populated.
type ValueKind int

const (
	ValueScalar ValueKind = iota
	ValueTable
	ValueScale
)

// Table is the minimal shape taskgraph needs from a materialized
// dataset; internal/table.VegaFusionTable satisfies it.
type Table interface {
	NumRows() int
	ColumnNames() []string
}

// ScaleValue is the resolved runtime state of a Scale task: its domain
// and range, plus whatever the concrete scale type needs to map a
// value (left opaque here, since scale kinds are chartspec's concern).
type ScaleValue struct {
	Domain interface{}
	Range  interface{}
}

// TaskValue is the §3 sum type a TaskNode evaluates to: exactly one of
// Scalar, Table, or Scale is meaningful, selected by Kind.
type TaskValue struct {
	Kind   ValueKind
	Scalar interface{}
	Table  Table
	Scale  *ScaleValue
}

// NewScalarValue wraps a scalar result.
func NewScalarValue(v interface{}) TaskValue { return TaskValue{Kind: ValueScalar, Scalar: v} }

// NewTableValue wraps a table result.
func NewTableValue(t Table) TaskValue { return TaskValue{Kind: ValueTable, Table: t} }

// NewScaleValue wraps a resolved scale result.
func NewScaleValue(s *ScaleValue) TaskValue { return TaskValue{Kind: ValueScale, Scale: s} }

// AsScalar type-asserts v as a Scalar value, returning an ErrInternal
// when the caller's expectation and the stored Kind disagree.
func (v TaskValue) AsScalar() (interface{}, error) {
	if v.Kind != ValueScalar {
		return nil, vferrors.NewInternal("task value is not a scalar")
	}
	return v.Scalar, nil
}

// AsTable type-asserts v as a Table value.
func (v TaskValue) AsTable() (Table, error) {
	if v.Kind != ValueTable {
		return nil, vferrors.NewInternal("task value is not a table")
	}
	return v.Table, nil
}

// AsScale type-asserts v as a Scale value.
func (v TaskValue) AsScale() (*ScaleValue, error) {
	if v.Kind != ValueScale {
		return nil, vferrors.NewInternal("task value is not a scale")
	}
	return v.Scale, nil
}
