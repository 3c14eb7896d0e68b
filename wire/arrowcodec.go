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

package wire

import (
	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// scalarToIPC builds the single-row, single-column "value" batch §6
// specifies for a serialized scalar, then serializes it to IPC bytes.
func scalarToIPC(v interface{}) ([]byte, error) {
	mem := memory.NewGoAllocator()
	var col arrow.Array
	var typ arrow.DataType

	switch x := v.(type) {
	case nil:
		typ = arrow.BinaryTypes.String
		b := array.NewStringBuilder(mem)
		b.AppendNull()
		col = b.NewStringArray()
	case bool:
		typ = arrow.FixedWidthTypes.Boolean
		b := array.NewBooleanBuilder(mem)
		b.Append(x)
		col = b.NewBooleanArray()
	case float64:
		typ = arrow.PrimitiveTypes.Float64
		b := array.NewFloat64Builder(mem)
		b.Append(x)
		col = b.NewFloat64Array()
	case string:
		typ = arrow.BinaryTypes.String
		b := array.NewStringBuilder(mem)
		b.Append(x)
		col = b.NewStringArray()
	default:
		return nil, vferrors.NewInternal("unsupported scalar type %T for wire encoding", v)
	}

	schema := arrow.NewSchema([]arrow.Field{{Name: "value", Type: typ, Nullable: true}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{col}, 1)
	tbl, err := table.New([]arrow.Record{rec})
	if err != nil {
		return nil, err
	}
	return tbl.ToIPC()
}

// scalarFromTable extracts the sole cell of a single-row,
// single-column table produced by scalarToIPC.
func scalarFromTable(t *table.VegaFusionTable) (interface{}, error) {
	if t.NumRows() != 1 {
		return nil, vferrors.NewInternal("expected exactly one scalar row, got %d", t.NumRows())
	}
	rec := t.Batches()[0]
	col := rec.Column(0)
	if col.IsNull(0) {
		return nil, nil
	}
	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(0), nil
	case *array.Float64:
		return c.Value(0), nil
	case *array.String:
		return c.Value(0), nil
	default:
		return nil, vferrors.NewInternal("unsupported arrow column type %T for scalar decoding", col)
	}
}
