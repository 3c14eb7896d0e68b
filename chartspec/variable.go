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

// Package chartspec holds the §3/§6 data model: Variable, ScopedVariable,
// and the JSON shape of the input/output ChartSpec.
package chartspec

import (
	"fmt"
	"strings"
)

// Namespace identifies which kind of producer a Variable names.
type Namespace int

const (
	NamespaceSignal Namespace = iota
	NamespaceData
	NamespaceScale
)

func (n Namespace) String() string {
	switch n {
	case NamespaceSignal:
		return "signal"
	case NamespaceData:
		return "data"
	case NamespaceScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Variable is (namespace, name): a named producer in the spec.
type Variable struct {
	Namespace Namespace
	Name      string
}

func (v Variable) String() string {
	return fmt.Sprintf("%s(%s)", v.Namespace, v.Name)
}

// Scope is the path of group-mark indices enclosing a producer;
// top-level producers have an empty scope.
type Scope []uint32

func (s Scope) String() string {
	parts := make([]string, len(s))
	for i, idx := range s {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Equal reports whether two scopes name the same path.
func (s Scope) Equal(other Scope) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns the scope with its last element dropped, and false
// if s is already the empty (top-level) scope.
func (s Scope) Parent() (Scope, bool) {
	if len(s) == 0 {
		return nil, false
	}
	return s[:len(s)-1], true
}

// Ancestors yields s, s's parent, s's grandparent, ..., down to the
// empty scope, in that (outward) search order -- the §3 resolution
// rule "search [a,b,c], then [a,b], then [a], then []".
func (s Scope) Ancestors() []Scope {
	out := make([]Scope, 0, len(s)+1)
	cur := s
	for {
		cp := make(Scope, len(cur))
		copy(cp, cur)
		out = append(out, cp)
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
	return out
}

// ScopedVariable is a Variable qualified by the Scope it resolved in.
type ScopedVariable struct {
	Variable Variable
	Scope    Scope
}

func (sv ScopedVariable) String() string {
	return fmt.Sprintf("%s@%s", sv.Variable, sv.Scope)
}

// Key returns a value usable as a map key (Scope is a slice and so is
// not itself comparable).
func (sv ScopedVariable) Key() string {
	return fmt.Sprintf("%d|%s|%s", sv.Variable.Namespace, sv.Variable.Name, sv.Scope)
}
