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

// IdentifierOn appends the §4.5 Identifier transform: a row-number
// column, stable under the dataset's current ordering.
func IdentifierOn(df *algebra.DataFrame, as string) *algebra.DataFrame {
	rowNumber := &algebra.FuncCall{Name: "row_number", Typ: algebra.TypeInt64}
	return df.Window(algebra.Win(as, rowNumber, nil, nil, algebra.WindowFrame{}))
}
