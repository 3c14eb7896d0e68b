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
	"context"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/sqldialect"
)

// fakeConnection is a minimal in-memory pretransform.Connection stub
// for wire package tests: every fetch/query hands back a fixed
// one-row table, enough to exercise request decoding and response
// shaping without a real query engine.
type fakeConnection struct {
	registered map[string]*table.VegaFusionTable
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{registered: map[string]*table.VegaFusionTable{}}
}

func (f *fakeConnection) Dialect() sqldialect.SQLDialect { return sqldialect.Ansi }

func (f *fakeConnection) FetchURL(ctx context.Context, tableName, url, format string) (*table.VegaFusionTable, error) {
	tbl := fakeOneRowTable()
	f.registered[tableName] = tbl
	return tbl, nil
}

func (f *fakeConnection) RegisterTable(ctx context.Context, name string, data *table.VegaFusionTable) error {
	f.registered[name] = data
	return nil
}

func (f *fakeConnection) Query(ctx context.Context, sql string) (*table.VegaFusionTable, error) {
	return fakeOneRowTable(), nil
}

func fakeOneRowTable() *table.VegaFusionTable {
	mem := memory.NewGoAllocator()
	b := array.NewFloat64Builder(mem)
	b.Append(9)
	col := b.NewFloat64Array()
	schema := arrow.NewSchema([]arrow.Field{{Name: "value", Type: arrow.PrimitiveTypes.Float64}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{col}, 1)
	tbl, _ := table.New([]arrow.Record{rec})
	return tbl
}
