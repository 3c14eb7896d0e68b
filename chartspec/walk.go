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

package chartspec

// GroupVisitor is called once per group (including the implicit
// top-level group) during WalkGroups. It returns false to skip
// descending into that group's nested marks.
type GroupVisitor func(data []Data, signals []Signal, scales []Scale, marks []Mark, scope Scope) bool

// WalkGroups walks the spec's implicit top-level group and every
// nested group mark, innermost scopes last, calling visit with each
// level's own data/signals/scales and the scope path that reaches it.
func WalkGroups(spec *Spec, visit GroupVisitor) {
	walkGroup(spec.Data, spec.Signals, spec.Scales, spec.Marks, nil, visit)
}

func walkGroup(data []Data, signals []Signal, scales []Scale, marks []Mark, scope Scope, visit GroupVisitor) {
	if !visit(data, signals, scales, marks, scope) {
		return
	}
	for i, m := range marks {
		if !m.IsGroup() {
			continue
		}
		childScope := append(append(Scope{}, scope...), uint32(i))
		walkGroup(m.Data, m.Signals, m.Scales, m.Marks, childScope, visit)
	}
}

// AllVariables returns every Variable declared anywhere in the spec
// together with the Scope it was declared at -- used by the planner's
// "cover" property (§8): every input variable must end up in the
// client spec or in server_to_client.
func AllVariables(spec *Spec) []ScopedVariable {
	var out []ScopedVariable
	WalkGroups(spec, func(data []Data, signals []Signal, scales []Scale, marks []Mark, scope Scope) bool {
		for _, d := range data {
			out = append(out, ScopedVariable{Variable{NamespaceData, d.Name}, scope})
		}
		for _, s := range signals {
			out = append(out, ScopedVariable{Variable{NamespaceSignal, s.Name}, scope})
		}
		for _, s := range scales {
			out = append(out, ScopedVariable{Variable{NamespaceScale, s.Name}, scope})
		}
		return true
	})
	return out
}
