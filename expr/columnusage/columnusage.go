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

// Package columnusage implements §4.2: given an AST and a datum
// variable, compute which dataset columns it might read. Analysis
// fails open -- any column that might be read ends up in the result;
// false positives are acceptable, false negatives are forbidden.
package columnusage

import (
	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
)

// Usage is either Known(set of column names) or Unknown (pessimistic
// top). Unknown ∪ X == Unknown; Known(a) ∪ Known(b) == Known(a ∪ b).
type Usage struct {
	unknown bool
	columns map[string]struct{}
}

// KnownUsage builds a Usage from an explicit column set.
func KnownUsage(columns ...string) Usage {
	u := Usage{columns: map[string]struct{}{}}
	for _, c := range columns {
		u.columns[c] = struct{}{}
	}
	return u
}

// UnknownUsage is the pessimistic top element.
func UnknownUsage() Usage { return Usage{unknown: true} }

func (u Usage) IsUnknown() bool { return u.unknown }

// Columns returns the known column set; callers must check IsUnknown
// first.
func (u Usage) Columns() []string {
	out := make([]string, 0, len(u.columns))
	for c := range u.columns {
		out = append(out, c)
	}
	return out
}

// Union combines two usages; Unknown dominates.
func (u Usage) Union(other Usage) Usage {
	if u.unknown || other.unknown {
		return UnknownUsage()
	}
	merged := map[string]struct{}{}
	for c := range u.columns {
		merged[c] = struct{}{}
	}
	for c := range other.columns {
		merged[c] = struct{}{}
	}
	return Usage{columns: merged}
}

func (u Usage) addColumn(name string) Usage {
	if u.unknown {
		return u
	}
	out := Usage{columns: map[string]struct{}{}}
	for c := range u.columns {
		out.columns[c] = struct{}{}
	}
	out.columns[name] = struct{}{}
	return out
}

// Entry pairs a ScopedVariable with its Usage. Scope is a slice, so
// ScopedVariable can't itself be a map key; DatasetsColumnUsage
// indexes entries by ScopedVariable.Key() instead.
type Entry struct {
	Variable chartspec.ScopedVariable
	Usage    Usage
}

// DatasetsColumnUsage maps a ScopedVariable naming a dataset to its
// Usage.
type DatasetsColumnUsage map[string]Entry

// Lookup returns the Usage recorded for v, or the zero Usage (an empty
// known set) if v was never referenced.
func (d DatasetsColumnUsage) Lookup(v chartspec.ScopedVariable) Usage {
	return d[v.Key()].Usage
}

// Entries returns every recorded (ScopedVariable, Usage) pair in
// unspecified order.
func (d DatasetsColumnUsage) Entries() []Entry {
	out := make([]Entry, 0, len(d))
	for _, e := range d {
		out = append(out, e)
	}
	return out
}

func (d DatasetsColumnUsage) add(v chartspec.ScopedVariable, u Usage) {
	key := v.Key()
	existing := d[key]
	existing.Variable = v
	existing.Usage = existing.Usage.Union(u)
	d[key] = existing
}

// SelectionFields answers "which dataset fields might a selection
// store's test reference", supplied externally (vl-selection
// definitions live outside the expression AST).
type SelectionFields interface {
	FieldsForStore(storeName string) []string
}

// Analyze computes the DatasetsColumnUsage of node with respect to
// datum, the dataset a transform iterates. Any other dataset name
// referenced from within node (via data(...) or vlSelectionTest) is
// resolved in datum's own scope. selFields resolves vlSelectionTest's
// implicit field usage; it may be nil if the expression never calls
// vlSelectionTest.
func Analyze(node expr.Node, datum chartspec.ScopedVariable, selFields SelectionFields) DatasetsColumnUsage {
	result := DatasetsColumnUsage{}
	datumUsage := analyzeNode(node, datum, selFields, result)
	result.add(datum, datumUsage)
	return result
}

func dataVar(datum chartspec.ScopedVariable, name string) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{
		Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: name},
		Scope:    datum.Scope,
	}
}

// analyzeNode returns the Usage node contributes to the datum dataset
// directly (field accesses on datum), while also recording any other
// dataset dependencies it discovers into result.
func analyzeNode(node expr.Node, datum chartspec.ScopedVariable, selFields SelectionFields, result DatasetsColumnUsage) Usage {
	switch n := node.(type) {
	case nil:
		return KnownUsage()
	case *expr.MemberExpr:
		if isDatumIdent(n.Object) {
			if !n.Computed {
				if prop, ok := n.Property.(*expr.Identifier); ok {
					return KnownUsage(prop.Name)
				}
				return UnknownUsage()
			}
			if lit, ok := literalString(n.Property); ok {
				return KnownUsage(lit)
			}
			// datum['x' + 'y'] with non-literal property: fail open.
			_ = analyzeNode(n.Property, datum, selFields, result)
			return UnknownUsage()
		}
		u := analyzeNode(n.Object, datum, selFields, result)
		return u.Union(analyzeNode(n.Property, datum, selFields, result))
	case *expr.CallExpr:
		return analyzeCall(n, datum, selFields, result)
	case *expr.BinaryExpr:
		return analyzeNode(n.Left, datum, selFields, result).Union(analyzeNode(n.Right, datum, selFields, result))
	case *expr.LogicalExpr:
		return analyzeNode(n.Left, datum, selFields, result).Union(analyzeNode(n.Right, datum, selFields, result))
	case *expr.UnaryExpr:
		return analyzeNode(n.Operand, datum, selFields, result)
	case *expr.ConditionalExpr:
		u := analyzeNode(n.Test, datum, selFields, result)
		u = u.Union(analyzeNode(n.Consequent, datum, selFields, result))
		return u.Union(analyzeNode(n.Alternate, datum, selFields, result))
	case *expr.ArrayExpr:
		u := KnownUsage()
		for _, e := range n.Elements {
			u = u.Union(analyzeNode(e, datum, selFields, result))
		}
		return u
	case *expr.ObjectExpr:
		u := KnownUsage()
		for _, p := range n.Properties {
			u = u.Union(analyzeNode(p.Value, datum, selFields, result))
		}
		return u
	case *expr.Identifier:
		// A bare reference to the datum variable itself (not a field
		// access) could read any column: fail open.
		if n.Name == "datum" {
			return UnknownUsage()
		}
		return KnownUsage()
	default:
		// Literals and any other atom reference no columns.
		return KnownUsage()
	}
}

func analyzeCall(n *expr.CallExpr, datum chartspec.ScopedVariable, selFields SelectionFields, result DatasetsColumnUsage) Usage {
	name := calleeName(n.Callee)
	switch name {
	case "data":
		if len(n.Args) >= 1 {
			if dsName, ok := literalString(n.Args[0]); ok {
				result.add(dataVar(datum, dsName), UnknownUsage())
			}
		}
		return KnownUsage()
	case "vlSelectionTest":
		datumUsage := KnownUsage()
		if len(n.Args) >= 1 {
			if storeName, ok := literalString(n.Args[0]); ok {
				result.add(dataVar(datum, storeName), UnknownUsage())
				if selFields != nil {
					for _, f := range selFields.FieldsForStore(storeName) {
						datumUsage = datumUsage.addColumn(f)
					}
				}
			}
		}
		for _, a := range n.Args {
			// The datum argument only names the row under test; the
			// columns it reads are the store's fields added above.
			if isDatumIdent(a) {
				continue
			}
			datumUsage = datumUsage.Union(analyzeNode(a, datum, selFields, result))
		}
		return datumUsage
	default:
		u := KnownUsage()
		for _, a := range n.Args {
			u = u.Union(analyzeNode(a, datum, selFields, result))
		}
		return u
	}
}

func calleeName(callee expr.Node) string {
	if id, ok := callee.(*expr.Identifier); ok {
		return id.Name
	}
	return ""
}

func isDatumIdent(n expr.Node) bool {
	id, ok := n.(*expr.Identifier)
	return ok && id.Name == "datum"
}

func literalString(n expr.Node) (string, bool) {
	if s, ok := n.(*expr.StringLiteral); ok {
		return s.Value, true
	}
	return "", false
}
