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

package expr

// Visitor is called once per node during Walk; the returned Visitor
// (possibly the same one) is used for the node's children, or
// traversal into those children is skipped if nil is returned.
type Visitor func(n Node) Visitor

// Walk performs a pre-order traversal of n, the same shape as the
// teacher's sql.Walk(visitor, node) over expression trees.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	v2 := v(n)
	if v2 == nil {
		return
	}
	switch t := n.(type) {
	case *UnaryExpr:
		Walk(v2, t.Operand)
	case *BinaryExpr:
		Walk(v2, t.Left)
		Walk(v2, t.Right)
	case *LogicalExpr:
		Walk(v2, t.Left)
		Walk(v2, t.Right)
	case *ConditionalExpr:
		Walk(v2, t.Test)
		Walk(v2, t.Consequent)
		Walk(v2, t.Alternate)
	case *ArrayExpr:
		for _, e := range t.Elements {
			Walk(v2, e)
		}
	case *ObjectExpr:
		for _, p := range t.Properties {
			Walk(v2, p.Key)
			Walk(v2, p.Value)
		}
	case *MemberExpr:
		Walk(v2, t.Object)
		Walk(v2, t.Property)
	case *CallExpr:
		Walk(v2, t.Callee)
		for _, a := range t.Args {
			Walk(v2, a)
		}
	}
}

// Identifiers returns every free Identifier referenced anywhere in n,
// including ones used as call callees and non-computed member
// properties (callers that need to exclude those should filter by
// position instead).
func Identifiers(n Node) []string {
	var out []string
	var visit Visitor
	visit = func(node Node) Visitor {
		if id, ok := node.(*Identifier); ok {
			out = append(out, id.Name)
		}
		return visit
	}
	Walk(visit, n)
	return out
}
