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

package transforms

import "github.com/dolthub/vegafusion-go/algebra"

// ExtentMinColumn and ExtentMaxColumn name the one-row frame
// ExtentOn produces.
const (
	ExtentMinColumn = "min"
	ExtentMaxColumn = "max"
)

// ExtentOn appends the §4.5 Extent transform: a single-row aggregate
// computing field's [min, max]. Callers that need it as a scalar
// (rather than a one-row table) read the row back after evaluation.
func ExtentOn(df *algebra.DataFrame, field string) *algebra.DataFrame {
	col := &algebra.ColumnRef{Name: field, Typ: algebra.TypeFloat64}
	return df.Aggregate(nil, []*algebra.AggExpr{
		{Op: algebra.AggMin, Field: col, As: ExtentMinColumn, Typ: algebra.TypeFloat64},
		{Op: algebra.AggMax, Field: col, As: ExtentMaxColumn, Typ: algebra.TypeFloat64},
	})
}
