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

package wire

import (
	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// Value is the §6 "Persisted state" wire shape of a taskgraph.TaskValue:
// "Table values exchanged across the boundary use the Arrow IPC stream
// format. TaskValue scalars are serialized either as a single-row,
// single-column IPC batch (Scalar) or a full IPC batch (Table)" --
// both variants are therefore a plain IPC byte payload tagged by Kind.
type Value struct {
	Kind     string `json:"kind"`
	IPCBytes []byte `json:"ipc_bytes"`
}

const (
	kindScalar = "scalar"
	kindTable  = "table"
)

// FromTaskValue encodes a TaskValue for the wire. Scale values have no
// IPC representation (§6 only names Scalar and Table as persisted
// state); encoding one is a caller error.
func FromTaskValue(v taskgraph.TaskValue) (Value, error) {
	switch v.Kind {
	case taskgraph.ValueScalar:
		ipc, err := scalarToIPC(v.Scalar)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kindScalar, IPCBytes: ipc}, nil
	case taskgraph.ValueTable:
		vft, ok := v.Table.(*table.VegaFusionTable)
		if !ok {
			return Value{}, vferrors.NewInternal("table value is not backed by *table.VegaFusionTable")
		}
		ipc, err := vft.ToIPC()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kindTable, IPCBytes: ipc}, nil
	default:
		return Value{}, vferrors.NewInternal("scale values have no wire representation")
	}
}

// ToTaskValue decodes a wire Value back into a taskgraph.TaskValue.
func ToTaskValue(v Value) (taskgraph.TaskValue, error) {
	tbl, err := table.FromIPC(v.IPCBytes)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}
	switch v.Kind {
	case kindScalar:
		s, err := scalarFromTable(tbl)
		if err != nil {
			return taskgraph.TaskValue{}, err
		}
		return taskgraph.NewScalarValue(s), nil
	case kindTable:
		return taskgraph.NewTableValue(tbl), nil
	default:
		return taskgraph.TaskValue{}, vferrors.NewInternal("unknown wire value kind %q", v.Kind)
	}
}

// NamedTaskValue pairs a ScopedVariable with its wire-encoded value,
// the `(variable, scope, value)` triple both TaskGraphValueResponse
// and PreTransformValuesResponse carry.
type NamedTaskValue struct {
	Variable VariableRef `json:"variable"`
	Value    Value       `json:"value"`
}

// namedValuesInOrder encodes want's values from values (keyed by
// chartspec.ScopedVariable.Key()) preserving want's own order, per
// §5's "produced NamedTaskValue list ... returned in the same order as
// the request".
func namedValuesInOrder(want []chartspec.ScopedVariable, values map[string]taskgraph.TaskValue) ([]NamedTaskValue, error) {
	out := make([]NamedTaskValue, 0, len(want))
	for _, sv := range want {
		v, ok := values[sv.Key()]
		if !ok {
			continue
		}
		wv, err := FromTaskValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, NamedTaskValue{Variable: VariableRefFromScoped(sv), Value: wv})
	}
	return out, nil
}
