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

// Equal compares two nodes structurally, ignoring Span -- the
// round-trip property (§8 property 1) is defined "modulo spans".
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *NumberLiteral:
		bv, ok := b.(*NumberLiteral)
		return ok && av.Value == bv.Value
	case *StringLiteral:
		bv, ok := b.(*StringLiteral)
		return ok && av.Value == bv.Value
	case *BoolLiteral:
		bv, ok := b.(*BoolLiteral)
		return ok && av.Value == bv.Value
	case *NullLiteral:
		_, ok := b.(*NullLiteral)
		return ok
	case *Identifier:
		bv, ok := b.(*Identifier)
		return ok && av.Name == bv.Name
	case *UnaryExpr:
		bv, ok := b.(*UnaryExpr)
		return ok && av.Op == bv.Op && Equal(av.Operand, bv.Operand)
	case *BinaryExpr:
		bv, ok := b.(*BinaryExpr)
		return ok && av.Op == bv.Op && Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *LogicalExpr:
		bv, ok := b.(*LogicalExpr)
		return ok && av.Op == bv.Op && Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *ConditionalExpr:
		bv, ok := b.(*ConditionalExpr)
		return ok && Equal(av.Test, bv.Test) && Equal(av.Consequent, bv.Consequent) && Equal(av.Alternate, bv.Alternate)
	case *ArrayExpr:
		bv, ok := b.(*ArrayExpr)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *ObjectExpr:
		bv, ok := b.(*ObjectExpr)
		if !ok || len(av.Properties) != len(bv.Properties) {
			return false
		}
		for i := range av.Properties {
			if !Equal(av.Properties[i].Key, bv.Properties[i].Key) || !Equal(av.Properties[i].Value, bv.Properties[i].Value) {
				return false
			}
		}
		return true
	case *MemberExpr:
		bv, ok := b.(*MemberExpr)
		return ok && av.Computed == bv.Computed && Equal(av.Object, bv.Object) && Equal(av.Property, bv.Property)
	case *CallExpr:
		bv, ok := b.(*CallExpr)
		if !ok || len(av.Args) != len(bv.Args) {
			return false
		}
		if !Equal(av.Callee, bv.Callee) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
