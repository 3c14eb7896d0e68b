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

package planner

import "github.com/dolthub/vegafusion-go/chartspec"

// computeCommPlan implements §4.7 step 7: every dataset and signal
// the (server-evaluated) spec produces is server-to-client, since this
// planner's current policy keeps the entire pipeline server-side
// except the interactive keep-variables the caller named -- those are
// client-to-server, read back in from client state on each request.
//
// Known simplification: a finer split (marking some variables
// client-only because they depend on a client-only signal such as a
// brush extent) is left to a future pass; for now every produced
// variable round-trips server_to_client and KeepVariables round-trips
// client_to_server.
func computeCommPlan(spec *chartspec.Spec, opts Opts) CommPlan {
	w := walk(spec)
	var serverToClient []chartspec.ScopedVariable
	for _, ref := range w.data {
		serverToClient = append(serverToClient, dataVar(ref.data.Name, ref.scope))
	}
	for _, ref := range w.signals {
		serverToClient = append(serverToClient, signalVar(ref.signal.Name, ref.scope))
	}

	return CommPlan{
		ServerToClient: serverToClient,
		ClientToServer: append([]chartspec.ScopedVariable(nil), opts.KeepVariables...),
	}
}

// buildClientSpec derives the client spec as a clone of the
// (post-planning) server spec. Datasets/signals that are purely
// server-computable keep their resolved transform pipelines stripped
// at apply-time by pre_transform_spec (§4.8), once each has been
// spliced with its evaluated value; the client spec returned here is
// the structural shell pre-transform splices into.
func buildClientSpec(spec *chartspec.Spec, _ CommPlan) *chartspec.Spec {
	return spec.Clone()
}
