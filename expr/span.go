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

// Package expr implements the §4.1 expression sublanguage: tokenizer,
// Pratt/precedence-climbing parser, typed AST with source spans, and a
// pretty-printer that round-trips through re-parsing.
package expr

// Span locates a node in the original source text.
type Span struct {
	Start int
	End   int
}
