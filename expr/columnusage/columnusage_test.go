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

package columnusage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
)

func datumVar() chartspec.ScopedVariable {
	return chartspec.ScopedVariable{
		Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: "source_0"},
	}
}

func mustParse(t *testing.T, src string) expr.Node {
	t.Helper()
	n, err := expr.Parse(src)
	require.NoError(t, err, "source: %s", src)
	return n
}

func TestDotAndBracketFieldAccessAddColumn(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "datum.x + datum['y']")
	usage := Analyze(n, datumVar(), nil)
	du := usage.Lookup(datumVar())
	require.False(du.IsUnknown())
	require.ElementsMatch([]string{"x", "y"}, du.Columns())
}

func TestNonLiteralComputedPropertyIsUnknown(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "datum['x' + 'y']")
	usage := Analyze(n, datumVar(), nil)
	require.True(usage.Lookup(datumVar()).IsUnknown())
}

func TestBareDatumReferenceIsUnknown(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "isValid(datum)")
	usage := Analyze(n, datumVar(), nil)
	require.True(usage.Lookup(datumVar()).IsUnknown())
}

func TestDataCallAddsUnknownDatasetDependency(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "length(data('other_ds'))")
	usage := Analyze(n, datumVar(), nil)

	other := chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: "other_ds"}}
	require.True(usage.Lookup(other).IsUnknown())
	// The datum itself isn't touched by this expression.
	require.False(usage.Lookup(datumVar()).IsUnknown())
	require.Empty(usage.Lookup(datumVar()).Columns())
}

type staticSelectionFields map[string][]string

func (s staticSelectionFields) FieldsForStore(storeName string) []string {
	return s[storeName]
}

func TestVlSelectionTestTransfersStoreFieldsToDatum(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "vlSelectionTest('brush_store', datum)")
	sel := staticSelectionFields{"brush_store": {"a", "b"}}
	usage := Analyze(n, datumVar(), sel)

	store := chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: "brush_store"}}
	require.True(usage.Lookup(store).IsUnknown())

	du := usage.Lookup(datumVar())
	require.False(du.IsUnknown())
	require.ElementsMatch([]string{"a", "b"}, du.Columns())
}

func TestUnknownDominatesUnion(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "datum.x + datum['y' + 'z']")
	usage := Analyze(n, datumVar(), nil)
	require.True(usage.Lookup(datumVar()).IsUnknown())
}

func TestUsageUnionIsCommutativeAndIdempotent(t *testing.T) {
	require := require.New(t)

	a := KnownUsage("x", "y")
	b := KnownUsage("y", "z")
	require.ElementsMatch([]string{"x", "y", "z"}, a.Union(b).Columns())
	require.ElementsMatch([]string{"x", "y", "z"}, b.Union(a).Columns())
	require.True(a.Union(UnknownUsage()).IsUnknown())
}

func TestOtherIdentifiersDoNotAddDatumColumns(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "datum.x + width")
	usage := Analyze(n, datumVar(), nil)
	du := usage.Lookup(datumVar())
	require.False(du.IsUnknown())
	require.Equal([]string{"x"}, du.Columns())
}
