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

// Package pretransform implements §4.8: the orchestrator that walks a
// taskgraph.TaskGraph, evaluates each node's payload against a
// pluggable query Connection, and assembles pre_transform_spec,
// pre_transform_extract, and pre_transform_values results.
package pretransform

import (
	"context"

	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/sqldialect"
)

// Connection is the pluggable execution backend a host application
// supplies. algebra/sqldialect only render SQL text; this module never
// embeds a storage or execution engine of its own (see DESIGN.md), so
// every task that touches row data goes through a Connection the
// caller owns -- the same role the original's pluggable DataFusion
// ExecutionContext plays for vegafusion-rt-datafusion's task
// evaluators.
type Connection interface {
	// Dialect reports the SQL dialect Query expects its statements
	// rendered in.
	Dialect() sqldialect.SQLDialect

	// FetchURL loads a remote or local dataset (csv, tsv, json, or
	// arrow, dispatched by format), registers it as a queryable table
	// under tableName, and returns the loaded rows.
	FetchURL(ctx context.Context, tableName, url, format string) (*table.VegaFusionTable, error)

	// RegisterTable makes an already-materialized table queryable
	// under name (backs inline values and intermediate source-derived
	// results).
	RegisterTable(ctx context.Context, name string, data *table.VegaFusionTable) error

	// Query executes a SELECT statement built by algebra.DataFrame.ToSQL
	// (or a bare scalar SELECT) and returns its result rows.
	Query(ctx context.Context, sql string) (*table.VegaFusionTable, error)
}

// scalarFromSingleCell extracts the sole value of a one-row,
// one-column result table, the shape a compiled signal expression's
// `SELECT <expr> AS value` query always produces.
func scalarFromSingleCell(t *table.VegaFusionTable) (interface{}, error) {
	if t.NumRows() != 1 {
		return nil, errRowCount(t.NumRows())
	}
	rec := t.Batches()[0]
	col := rec.Column(0)
	return cellValue(col, 0), nil
}
