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

// FormulaOn appends the §4.5 Formula transform: bind the already
// compiled expr to a new column alongside the existing ones.
func FormulaOn(df *algebra.DataFrame, expr algebra.Expr, as string) *algebra.DataFrame {
	return df.Select(algebra.Star(), algebra.Proj(as, expr))
}
