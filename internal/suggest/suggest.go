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

// Package suggest appends "did you mean ...?" hints to CompilationError
// messages for unresolved identifiers, signals, and dataset columns.
package suggest

import (
	"sort"
	"strings"
)

// maxEditDistance bounds how different a candidate may be from the
// queried name before it's no longer worth suggesting.
const maxEditDistance = 2

// Find returns a ", maybe you mean X or Y?" suffix listing every name
// within the edit-distance threshold of query, or "" if none qualify
// or query is empty.
func Find(names []string, query string) string {
	if query == "" {
		return ""
	}
	matches := closest(names, query)
	if len(matches) == 0 {
		return ""
	}
	return ", maybe you mean " + joinOr(matches) + "?"
}

// FindFromMap is Find over the keys of a map[string]T.
func FindFromMap[V any](names map[string]V, query string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Find(keys, query)
}

// FindSimilarName returns the single closest name to query, or the
// first name if query is empty, or "" if names is empty.
func FindSimilarName(names []string, query string) string {
	if len(names) == 0 {
		return ""
	}
	if query == "" {
		return names[0]
	}
	best := names[0]
	bestDist := levenshtein(strings.ToLower(best), strings.ToLower(query))
	for _, n := range names[1:] {
		d := levenshtein(strings.ToLower(n), strings.ToLower(query))
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// FindSimilarNameFromMap is FindSimilarName over the keys of a map.
func FindSimilarNameFromMap[V any](names map[string]V, query string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return FindSimilarName(keys, query)
}

func closest(names []string, query string) []string {
	lowerQuery := strings.ToLower(query)
	var matches []string
	for _, n := range names {
		if levenshtein(strings.ToLower(n), lowerQuery) <= maxEditDistance {
			matches = append(matches, n)
		}
	}
	sort.Strings(matches)
	return matches
}

func joinOr(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
