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

// Expr is a typed, dialect-independent algebra expression: the target
// that the §4.3 expression compiler lowers an expr.Node into, and the
// input a sqldialect.Dialect renders to SQL text.
type Expr interface {
	// Type reports the expression's inferred logical type.
	Type() DataType
}

// ColumnRef references a column by name, optionally qualified by the
// table/CTE alias it came from.
type ColumnRef struct {
	Table string
	Name  string
	Typ   DataType
}

func (c *ColumnRef) Type() DataType { return c.Typ }

// Literal is a typed scalar constant. Value holds a Go value matching
// Typ: bool, int64, float64, string, or nil for TypeNull.
type Literal struct {
	Value interface{}
	Typ   DataType
}

func (l *Literal) Type() DataType { return l.Typ }

// NullLiteral builds a typed null, defaulting to f64 per §4.3's
// "default f64" inference rule for untyped null contexts.
func NullLiteral(typ DataType) *Literal {
	if typ == TypeNull {
		typ = TypeFloat64
	}
	return &Literal{Value: nil, Typ: typ}
}

// BinOp names a binary algebra operator.
type BinOp string

const (
	BinAdd       BinOp = "+"
	BinConcat    BinOp = "||"
	BinSub       BinOp = "-"
	BinMul       BinOp = "*"
	BinDiv       BinOp = "/"
	BinMod       BinOp = "%"
	BinEq        BinOp = "="
	BinNeq       BinOp = "<>"
	BinLt        BinOp = "<"
	BinLe        BinOp = "<="
	BinGt        BinOp = ">"
	BinGe        BinOp = ">="
	BinAnd       BinOp = "and"
	BinOr        BinOp = "or"
)

// BinaryExpr is a two-operand algebra expression.
type BinaryExpr struct {
	Op          BinOp
	Left, Right Expr
	Typ         DataType
}

func (b *BinaryExpr) Type() DataType { return b.Typ }

// UnOp names a unary algebra operator.
type UnOp string

const (
	UnNeg UnOp = "-"
	UnNot UnOp = "not"
	UnPos UnOp = "+"
)

// UnaryExpr is a one-operand algebra expression.
type UnaryExpr struct {
	Op      UnOp
	Operand Expr
	Typ     DataType
}

func (u *UnaryExpr) Type() DataType { return u.Typ }

// WhenClause is one arm of a Case expression.
type WhenClause struct {
	When Expr
	Then Expr
}

// Case is a multi-arm conditional; the §4.3 lowering of a ternary
// always produces exactly one WhenClause plus an Else.
type Case struct {
	Whens []WhenClause
	Else  Expr
	Typ   DataType
}

func (c *Case) Type() DataType { return c.Typ }

// FuncCall is a call to a named scalar or aggregate function; Name is
// the engine-agnostic logical name (e.g. "date_part_tz") that a
// sqldialect.Dialect resolves via its FunctionTransformer table.
type FuncCall struct {
	Name string
	Args []Expr
	Typ  DataType
}

func (f *FuncCall) Type() DataType { return f.Typ }

// FieldAccess projects a named field out of a struct-typed expression
// (§4.3 member access on a struct).
type FieldAccess struct {
	Struct Expr
	Field  string
	Typ    DataType
}

func (f *FieldAccess) Type() DataType { return f.Typ }

// IndexAccess projects an integer-indexed element out of a list-typed
// expression (§4.3 computed member `[i]` with an integer literal).
type IndexAccess struct {
	List  Expr
	Index int64
	Typ   DataType
}

func (i *IndexAccess) Type() DataType { return i.Typ }

// ListLiteral constructs a list value from element expressions.
type ListLiteral struct {
	Elements []Expr
	ElemType DataType
}

func (l *ListLiteral) Type() DataType { return TypeList }

// StructField is one named field of a StructLiteral.
type StructField struct {
	Name  string
	Value Expr
}

// StructLiteral constructs a struct value from named field
// expressions.
type StructLiteral struct {
	Fields []StructField
}

func (s *StructLiteral) Type() DataType { return TypeStruct }

// AggKind names a supported §4.5 aggregate operator.
type AggKind string

const (
	AggCount     AggKind = "count"
	AggValid     AggKind = "valid"
	AggSum       AggKind = "sum"
	AggMean      AggKind = "mean"
	AggAverage   AggKind = "average"
	AggMedian    AggKind = "median"
	AggMin       AggKind = "min"
	AggMax       AggKind = "max"
	AggVariance  AggKind = "variance"
	AggVariancep AggKind = "variancep"
	AggStdev     AggKind = "stdev"
	AggStdevp    AggKind = "stdevp"
	AggCi0       AggKind = "ci0"
	AggCi1       AggKind = "ci1"
	AggQ1        AggKind = "q1"
	AggQ3        AggKind = "q3"
)

// AggExpr is one (field, op) aggregate pair, aliased positionally by
// the caller (§4.5 Aggregate).
type AggExpr struct {
	Op    AggKind
	Field Expr // nil for AggCount
	As    string
	Typ   DataType
}

func (a *AggExpr) Type() DataType { return a.Typ }
