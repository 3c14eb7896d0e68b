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
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/planner"
)

// InlineDataset is the §6 wire shape of a caller-supplied inline
// dataset: a name plus its Arrow IPC stream payload.
type InlineDataset struct {
	Name     string `json:"name"`
	IPCBytes []byte `json:"ipc_bytes"`
}

// DecodeInlineDatasets decodes every dataset's IPC payload into a
// *table.VegaFusionTable and returns the map PlanSpec's inlineTables
// parameter expects, keyed by name. A concrete Connection
// implementation resolves a "inline://" URL by type-asserting the
// matching planner.InlineTable back to *table.VegaFusionTable.
func DecodeInlineDatasets(datasets []InlineDataset) (map[string]planner.InlineTable, error) {
	out := make(map[string]planner.InlineTable, len(datasets))
	for _, ds := range datasets {
		tbl, err := table.FromIPC(ds.IPCBytes)
		if err != nil {
			return nil, err
		}
		out[ds.Name] = tbl
	}
	return out, nil
}
