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

// Package table implements §6's Arrow-backed VegaFusionTable: the
// columnar, IPC-serializable representation a TaskValue.Table holds.
package table

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// OrderingColumn is the hidden row-index column WithOrdering adds,
// letting a later step (e.g. a client-side sort-preserving splice)
// recover original row order after an engine round-trip that doesn't
// itself guarantee it.
const OrderingColumn = "__vf_order"

// VegaFusionTable is an immutable, possibly multi-batch Arrow table
// sharing one schema across all of its record batches.
type VegaFusionTable struct {
	schema  *arrow.Schema
	batches []arrow.Record
}

// New builds a VegaFusionTable from one or more record batches, which
// must all share an identical schema.
func New(batches []arrow.Record) (*VegaFusionTable, error) {
	if len(batches) == 0 {
		return nil, vferrors.NewSpecification("table must have at least one record batch")
	}
	schema := batches[0].Schema()
	for _, b := range batches[1:] {
		if !b.Schema().Equal(schema) {
			return nil, vferrors.NewInternal("record batches do not share a common schema")
		}
	}
	return &VegaFusionTable{schema: schema, batches: batches}, nil
}

// Schema returns the table's shared schema.
func (t *VegaFusionTable) Schema() *arrow.Schema { return t.schema }

// NumRows returns the total row count across every batch.
func (t *VegaFusionTable) NumRows() int {
	var n int64
	for _, b := range t.batches {
		n += b.NumRows()
	}
	return int(n)
}

// ColumnNames returns the table's column names in schema order.
func (t *VegaFusionTable) ColumnNames() []string {
	fields := t.schema.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// Batches returns the underlying record batches.
func (t *VegaFusionTable) Batches() []arrow.Record { return t.batches }

// ToIPC serializes the table to the Arrow IPC stream format (§6's
// wire representation for TaskValue.Table).
func (t *VegaFusionTable) ToIPC() ([]byte, error) {
	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(t.schema))
	for _, b := range t.batches {
		if err := w.Write(b); err != nil {
			return nil, vferrors.NewExternal(fmt.Errorf("writing IPC batch: %w", err))
		}
	}
	if err := w.Close(); err != nil {
		return nil, vferrors.NewExternal(fmt.Errorf("closing IPC writer: %w", err))
	}
	return buf.Bytes(), nil
}

// FromIPC deserializes a table previously produced by ToIPC.
func FromIPC(data []byte) (*VegaFusionTable, error) {
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, vferrors.NewExternal(fmt.Errorf("opening IPC reader: %w", err))
	}
	defer r.Release()

	var batches []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		batches = append(batches, rec)
	}
	if err := r.Err(); err != nil && err != io.EOF {
		return nil, vferrors.NewExternal(fmt.Errorf("reading IPC stream: %w", err))
	}
	if len(batches) == 0 {
		return nil, vferrors.NewExternal(fmt.Errorf("IPC stream contained no record batches"))
	}
	return New(batches)
}

// Head returns a new table containing at most n rows, taken from the
// front in original order, per §8 property 4.
func (t *VegaFusionTable) Head(n int) (*VegaFusionTable, error) {
	if n < 0 {
		n = 0
	}
	var out []arrow.Record
	remaining := int64(n)
	for _, b := range t.batches {
		if remaining <= 0 {
			break
		}
		take := b.NumRows()
		if take > remaining {
			take = remaining
		}
		out = append(out, b.NewSlice(0, take))
		remaining -= take
	}
	if len(out) == 0 {
		out = []arrow.Record{t.batches[0].NewSlice(0, 0)}
	}
	return New(out)
}

// WithOrdering returns a table with a fresh OrderingColumn holding
// 0..NumRows()-1, replacing any existing ordering column first so a
// second call renumbers identically rather than appending a duplicate
// column (§8 property 3).
func (t *VegaFusionTable) WithOrdering() (*VegaFusionTable, error) {
	mem := memory.NewGoAllocator()
	var out []arrow.Record
	var rowOffset int64

	baseFields, baseIndices := dropOrderingField(t.schema)

	for _, b := range t.batches {
		n := b.NumRows()
		bldr := array.NewInt64Builder(mem)
		for i := int64(0); i < n; i++ {
			bldr.Append(rowOffset + i)
		}
		orderCol := bldr.NewInt64Array()
		rowOffset += n

		cols := make([]arrow.Array, 0, len(baseIndices)+1)
		for _, idx := range baseIndices {
			cols = append(cols, b.Column(idx))
		}
		cols = append(cols, orderCol)

		fields := append(append([]arrow.Field{}, baseFields...), arrow.Field{Name: OrderingColumn, Type: arrow.PrimitiveTypes.Int64})
		newSchema := arrow.NewSchema(fields, nil)
		out = append(out, array.NewRecord(newSchema, cols, n))
	}
	return New(out)
}

// dropOrderingField returns every field (and its original index)
// except a pre-existing OrderingColumn, so WithOrdering can be applied
// repeatedly without accumulating duplicate columns.
func dropOrderingField(schema *arrow.Schema) ([]arrow.Field, []int) {
	var fields []arrow.Field
	var indices []int
	for i, f := range schema.Fields() {
		if f.Name == OrderingColumn {
			continue
		}
		fields = append(fields, f)
		indices = append(indices, i)
	}
	return fields, indices
}
