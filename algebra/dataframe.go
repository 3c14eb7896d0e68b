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

// JoinKind names a supported join strategy.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
	JoinFull  JoinKind = "full"
)

// node is one link in a DataFrame's chain; each call on DataFrame
// appends one node rather than mutating the last, so earlier states
// remain valid DataFrames in their own right (used when a plan needs
// to branch, e.g. facet-aggregation lifting in the planner).
// node is a marker interface for chain links; renderNode dispatches on
// the concrete type via a type switch rather than a method, since
// rendering needs renderer-wide state (CTE registry, dialect) that
// doesn't belong on the node value itself.
type node interface{}

// DataFrame is a lazy, immutable chain of query nodes. Every method
// returns a new DataFrame; none mutates the receiver.
type DataFrame struct {
	source string // base table/CTE name when chain is empty
	chain  []node
}

// FromTable starts a chain reading from a named base relation.
func FromTable(name string) *DataFrame {
	return &DataFrame{source: name}
}

func (df *DataFrame) push(n node) *DataFrame {
	chain := make([]node, len(df.chain)+1)
	copy(chain, df.chain)
	chain[len(df.chain)] = n
	return &DataFrame{source: df.source, chain: chain}
}

type selectNode struct{ exprs []NamedExpr }

// NamedExpr is a projected column: an algebra Expr given an output
// name.
type NamedExpr struct {
	Name string
	Expr Expr
}

// Proj builds a NamedExpr, the unit Select/Aggregate project columns
// with.
func Proj(name string, expr Expr) NamedExpr {
	return NamedExpr{Name: name, Expr: expr}
}

// Star builds the passthrough NamedExpr meaning "every existing
// column, unchanged" -- the idiom Select uses to add columns (Formula,
// Bin, TimeUnit, MarkEncoding) without re-listing the whole schema,
// since the chain carries no schema to re-list from.
func Star() NamedExpr {
	return NamedExpr{Name: "*"}
}

func (e NamedExpr) isStar() bool { return e.Name == "*" && e.Expr == nil }

func (df *DataFrame) Select(exprs ...NamedExpr) *DataFrame {
	return df.push(selectNode{exprs: exprs})
}

type filterNode struct{ cond Expr }

func (df *DataFrame) Filter(cond Expr) *DataFrame {
	return df.push(filterNode{cond: cond})
}

type aggregateNode struct {
	groupBy []NamedExpr
	aggs    []*AggExpr
}

func (df *DataFrame) Aggregate(groupBy []NamedExpr, aggs []*AggExpr) *DataFrame {
	return df.push(aggregateNode{groupBy: groupBy, aggs: aggs})
}

// SortKey is one ORDER BY term.
type SortKey struct {
	Expr       Expr
	Descending bool
}

// Asc builds an ascending SortKey.
func Asc(e Expr) SortKey { return SortKey{Expr: e} }

// Desc builds a descending SortKey.
func Desc(e Expr) SortKey { return SortKey{Expr: e, Descending: true} }

type sortNode struct{ keys []SortKey }

func (df *DataFrame) Sort(keys ...SortKey) *DataFrame {
	return df.push(sortNode{keys: keys})
}

type joinNode struct {
	other *DataFrame
	kind  JoinKind
	cond  Expr
}

func (df *DataFrame) Join(other *DataFrame, kind JoinKind, cond Expr) *DataFrame {
	return df.push(joinNode{other: other, kind: kind, cond: cond})
}

// WindowFrame bounds a window function's frame, e.g. ROWS BETWEEN.
type WindowFrame struct {
	Preceding *int // nil means UNBOUNDED PRECEDING
	Following *int // nil means UNBOUNDED FOLLOWING
}

// WindowExpr is one named window function applied over a partition.
type WindowExpr struct {
	Name        string
	Func        *FuncCall
	PartitionBy []Expr
	OrderBy     []SortKey
	Frame       WindowFrame
}

// Win builds a WindowExpr.
func Win(name string, fn *FuncCall, partitionBy []Expr, orderBy []SortKey, frame WindowFrame) WindowExpr {
	return WindowExpr{Name: name, Func: fn, PartitionBy: partitionBy, OrderBy: orderBy, Frame: frame}
}

type windowNode struct{ windows []WindowExpr }

func (df *DataFrame) Window(windows ...WindowExpr) *DataFrame {
	return df.push(windowNode{windows: windows})
}

type limitNode struct{ n int64 }

func (df *DataFrame) Limit(n int64) *DataFrame {
	return df.push(limitNode{n: n})
}

type unionNode struct{ other *DataFrame }

func (df *DataFrame) Union(other *DataFrame) *DataFrame {
	return df.push(unionNode{other: other})
}

// ToSQL renders the chain to SQL: every node but the last becomes a
// CTE named "<prefix>_0", "<prefix>_1", ..., and the final node is the
// top-level SELECT (§4.4 "Chain-to-SQL contract").
func (df *DataFrame) ToSQL(dialect SQLDialect, ctePrefix string) (string, error) {
	r := &renderer{dialect: dialect, prefix: ctePrefix}
	return r.render(df)
}

// SQLDialect is the narrow surface algebra needs from a
// sqldialect.Dialect, kept here to avoid an import cycle between
// algebra and sqldialect (sqldialect consumes algebra.Expr, so it
// cannot also be imported by algebra).
type SQLDialect interface {
	QuoteIdent(name string) string
	RenderExpr(e Expr) (string, error)
	RenderFuncCall(f *FuncCall) (string, error)
}

type renderer struct {
	dialect SQLDialect
	prefix  string
	ctes    []string
	names   map[interface{}]string
}

func (r *renderer) render(df *DataFrame) (string, error) {
	r.names = map[interface{}]string{}
	prefix := df
	if n := len(df.chain); n > 0 {
		prefix = &DataFrame{source: df.source, chain: df.chain[:n-1]}
	}
	finalName, err := r.emit(prefix)
	if err != nil {
		return "", err
	}
	top := fmt.Sprintf("SELECT * FROM %s", r.dialect.QuoteIdent(finalName))
	if n := len(df.chain); n > 0 {
		if top, err = r.renderNode(df.chain[n-1], finalName); err != nil {
			return "", err
		}
	}
	var out string
	if len(r.ctes) > 0 {
		out = "WITH " + joinStrings(r.ctes, ", ") + " "
	}
	return out + top, nil
}

// emit renders df's chain, registering every node as a CTE, and
// returns the relation name of the last one (df's source when the
// chain is empty); render calls it on all but the top-level node.
func (r *renderer) emit(df *DataFrame) (string, error) {
	if name, ok := r.names[df]; ok {
		return name, nil
	}
	cur := df.source
	if cur == "" {
		cur = fmt.Sprintf("%s_0", r.prefix)
	}
	for _, n := range df.chain {
		name := fmt.Sprintf("%s_%d", r.prefix, len(r.ctes))
		sql, err := r.renderNode(n, cur)
		if err != nil {
			return "", err
		}
		r.ctes = append(r.ctes, fmt.Sprintf("%s AS (%s)", r.dialect.QuoteIdent(name), sql))
		cur = name
	}
	r.names[df] = cur
	return cur, nil
}

func (r *renderer) renderNode(n node, from string) (string, error) {
	switch v := n.(type) {
	case selectNode:
		cols, err := r.renderProjection(v.exprs)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SELECT %s FROM %s", cols, r.dialect.QuoteIdent(from)), nil
	case filterNode:
		cond, err := r.dialect.RenderExpr(v.cond)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SELECT * FROM %s WHERE %s", r.dialect.QuoteIdent(from), cond), nil
	case aggregateNode:
		return r.renderAggregate(v, from)
	case sortNode:
		order, err := r.renderOrder(v.keys)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SELECT * FROM %s ORDER BY %s", r.dialect.QuoteIdent(from), order), nil
	case joinNode:
		otherName, err := r.emit(v.other)
		if err != nil {
			return "", err
		}
		cond, err := r.dialect.RenderExpr(v.cond)
		if err != nil {
			return "", err
		}
		joinKw := map[JoinKind]string{JoinInner: "JOIN", JoinLeft: "LEFT JOIN", JoinRight: "RIGHT JOIN", JoinFull: "FULL JOIN"}[v.kind]
		return fmt.Sprintf("SELECT * FROM %s %s %s ON %s", r.dialect.QuoteIdent(from), joinKw, r.dialect.QuoteIdent(otherName), cond), nil
	case windowNode:
		return r.renderWindow(v, from)
	case limitNode:
		return fmt.Sprintf("SELECT * FROM %s LIMIT %d", r.dialect.QuoteIdent(from), v.n), nil
	case unionNode:
		otherName, err := r.emit(v.other)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SELECT * FROM %s UNION ALL SELECT * FROM %s", r.dialect.QuoteIdent(from), r.dialect.QuoteIdent(otherName)), nil
	default:
		return "", fmt.Errorf("algebra: unrendered node type %T", n)
	}
}

func (r *renderer) renderProjection(exprs []NamedExpr) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		if e.isStar() {
			parts[i] = "*"
			continue
		}
		s, err := r.dialect.RenderExpr(e.Expr)
		if err != nil {
			return "", err
		}
		parts[i] = fmt.Sprintf("%s AS %s", s, r.dialect.QuoteIdent(e.Name))
	}
	return joinStrings(parts, ", "), nil
}

func (r *renderer) renderAggregate(a aggregateNode, from string) (string, error) {
	cols := make([]string, 0, len(a.groupBy)+len(a.aggs))
	for _, g := range a.groupBy {
		s, err := r.dialect.RenderExpr(g.Expr)
		if err != nil {
			return "", err
		}
		cols = append(cols, fmt.Sprintf("%s AS %s", s, r.dialect.QuoteIdent(g.Name)))
	}
	for _, agg := range a.aggs {
		s, err := renderAggExpr(r.dialect, agg)
		if err != nil {
			return "", err
		}
		cols = append(cols, fmt.Sprintf("%s AS %s", s, r.dialect.QuoteIdent(agg.As)))
	}
	sql := fmt.Sprintf("SELECT %s FROM %s", joinStrings(cols, ", "), r.dialect.QuoteIdent(from))
	if len(a.groupBy) > 0 {
		groupCols := make([]string, len(a.groupBy))
		for i, g := range a.groupBy {
			groupCols[i] = r.dialect.QuoteIdent(g.Name)
		}
		sql += " GROUP BY " + joinStrings(groupCols, ", ")
	}
	return sql, nil
}

func (r *renderer) renderOrder(keys []SortKey) (string, error) {
	parts := make([]string, len(keys))
	for i, k := range keys {
		s, err := r.dialect.RenderExpr(k.Expr)
		if err != nil {
			return "", err
		}
		if k.Descending {
			s += " DESC"
		}
		parts[i] = s
	}
	return joinStrings(parts, ", "), nil
}

func (r *renderer) renderWindow(w windowNode, from string) (string, error) {
	cols := []string{"*"}
	for _, win := range w.windows {
		fn, err := r.dialect.RenderFuncCall(win.Func)
		if err != nil {
			return "", err
		}
		over, err := r.renderOver(win)
		if err != nil {
			return "", err
		}
		cols = append(cols, fmt.Sprintf("%s OVER (%s) AS %s", fn, over, r.dialect.QuoteIdent(win.Name)))
	}
	return fmt.Sprintf("SELECT %s FROM %s", joinStrings(cols, ", "), r.dialect.QuoteIdent(from)), nil
}

func (r *renderer) renderOver(w WindowExpr) (string, error) {
	var parts []string
	if len(w.PartitionBy) > 0 {
		partCols := make([]string, len(w.PartitionBy))
		for i, p := range w.PartitionBy {
			s, err := r.dialect.RenderExpr(p)
			if err != nil {
				return "", err
			}
			partCols[i] = s
		}
		parts = append(parts, "PARTITION BY "+joinStrings(partCols, ", "))
	}
	if len(w.OrderBy) > 0 {
		order, err := r.renderOrder(w.OrderBy)
		if err != nil {
			return "", err
		}
		parts = append(parts, "ORDER BY "+order)
	}
	return joinStrings(parts, " "), nil
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
