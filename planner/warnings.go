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

// Warning is §7's "warnings are data, not errors" surface: the planner
// collects these instead of failing when it hits a recoverable
// condition.
type Warning interface {
	isWarning()
}

// PlannerWarning records a construct that forced a client-side
// fallback: an unknown transform, an unsupported expression, or a
// dialect rejecting a primitive (the recoverable half of
// SqlNotSupported, per §7).
type PlannerWarning struct {
	Message string
}

func (PlannerWarning) isWarning() {}

// RowLimitWarning records that one or more datasets were truncated to
// a requested row_limit (§4.8).
type RowLimitWarning struct {
	Datasets []string
}

func (RowLimitWarning) isWarning() {}
