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

package algebra

import "fmt"

// renderAggExpr renders a single §4.5 aggregate op. count/valid/sum/
// mean/average/min/max map onto standard SQL aggregates directly; the
// quantile family (median/q1/q3), the population-vs-sample pairs
// (variance/variancep, stdev/stdevp) and ci0/ci1 are rendered as
// FuncCall so a dialect's FunctionTransformer table can pick the
// engine-native spelling.
func renderAggExpr(d SQLDialect, agg *AggExpr) (string, error) {
	switch agg.Op {
	case AggCount:
		return "count(*)", nil
	case AggValid:
		field, err := d.RenderExpr(agg.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("count(%s)", field), nil
	case AggSum, AggMin, AggMax:
		field, err := d.RenderExpr(agg.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", string(agg.Op), field), nil
	case AggMean, AggAverage:
		field, err := d.RenderExpr(agg.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("avg(%s)", field), nil
	default:
		return d.RenderFuncCall(&FuncCall{Name: string(agg.Op), Args: []Expr{agg.Field}, Typ: agg.Typ})
	}
}
