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

package pretransform

import (
	"encoding/json"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// jsonRowsToIPC converts a Data entry's inline `values` array (a JSON
// array of flat objects, vega's only inline-data shape) into the IPC
// bytes taskgraph.InlineValuesPayload carries. Column names are the
// first row's keys, in Go map iteration order; a key that appears only
// in later rows is dropped, and a row missing a column's key gets a
// null. Each column's type is inferred across all rows: float64 if any
// value is a number, else boolean if any is a bool, else string.
func jsonRowsToIPC(raw json.RawMessage) ([]byte, error) {
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, vferrors.NewSpecification("inline values must be a JSON array of objects: %v", err)
	}
	if len(rows) == 0 {
		return nil, vferrors.NewSpecification("inline values must contain at least one row")
	}

	names := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		names = append(names, k)
	}

	mem := memory.NewGoAllocator()
	cols := make([]arrow.Array, len(names))
	fields := make([]arrow.Field, len(names))

	for i, name := range names {
		typ, vals := columnValues(rows, name)
		fields[i] = arrow.Field{Name: name, Type: typ}
		cols[i] = buildColumn(mem, typ, vals)
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, cols, int64(len(rows)))
	tbl, err := table.New([]arrow.Record{rec})
	if err != nil {
		return nil, err
	}
	return tbl.ToIPC()
}

func columnValues(rows []map[string]json.RawMessage, name string) (arrow.DataType, []interface{}) {
	vals := make([]interface{}, len(rows))
	typ := arrow.DataType(arrow.BinaryTypes.String)
	sawNumber, sawBool := false, false
	for i, row := range rows {
		var v interface{}
		if raw, ok := row[name]; ok {
			_ = json.Unmarshal(raw, &v)
		}
		vals[i] = v
		switch v.(type) {
		case float64:
			sawNumber = true
		case bool:
			sawBool = true
		}
	}
	switch {
	case sawNumber:
		typ = arrow.PrimitiveTypes.Float64
	case sawBool:
		typ = arrow.FixedWidthTypes.Boolean
	}
	return typ, vals
}

func buildColumn(mem memory.Allocator, typ arrow.DataType, vals []interface{}) arrow.Array {
	switch typ {
	case arrow.PrimitiveTypes.Float64:
		b := array.NewFloat64Builder(mem)
		for _, v := range vals {
			if f, ok := v.(float64); ok {
				b.Append(f)
			} else {
				b.AppendNull()
			}
		}
		return b.NewFloat64Array()
	case arrow.FixedWidthTypes.Boolean:
		b := array.NewBooleanBuilder(mem)
		for _, v := range vals {
			if bv, ok := v.(bool); ok {
				b.Append(bv)
			} else {
				b.AppendNull()
			}
		}
		return b.NewBooleanArray()
	default:
		b := array.NewStringBuilder(mem)
		for _, v := range vals {
			if s, ok := v.(string); ok {
				b.Append(s)
			} else {
				b.AppendNull()
			}
		}
		return b.NewStringArray()
	}
}
