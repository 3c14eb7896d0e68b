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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) Node {
	t.Helper()
	n, err := Parse(src)
	require.NoError(t, err, "source: %s", src)
	return n
}

func TestParseRoundTrip(t *testing.T) {
	require := require.New(t)

	exprs := []string{
		"1 + 2 * 3 / 4 % 6 / 7 * 8 + 9",
		"(1 + 2) * 3",
		"a.b+c.d",
		"datum.x === 'foo'",
		"a ? b : c ? d : e",
		"!isValid(datum.y) && datum.z > 0",
		"[1, 2, 3,]",
		"{a: 1, 'b': 2,}",
		"data('source_0')[0].value",
		"vlSelectionTest('sel', datum)",
		"-x + +y",
	}
	for _, src := range exprs {
		n1 := mustParse(t, src)
		n2, err := Parse(Print(n1))
		require.NoError(err, "re-parsing printed form of %q -> %q", src, Print(n1))
		require.True(Equal(n1, n2), "round trip mismatch for %q: printed as %q", src, Print(n1))
	}
}

func TestParenPreservedStructurally(t *testing.T) {
	require := require.New(t)

	plain := mustParse(t, "1 + 2 * 3")
	grouped := mustParse(t, "(1 + 2) * 3")
	require.False(Equal(plain, grouped))

	reparsedGrouped := mustParse(t, Print(grouped))
	require.True(Equal(grouped, reparsedGrouped))
}

func TestMemberBindsTighterThanAdditive(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "a.b+c.d")
	bin, ok := n.(*BinaryExpr)
	require.True(ok)
	require.Equal(OpAdd, bin.Op)
	_, leftIsMember := bin.Left.(*MemberExpr)
	_, rightIsMember := bin.Right.(*MemberExpr)
	require.True(leftIsMember)
	require.True(rightIsMember)
}

func TestTernaryIsRightAssociative(t *testing.T) {
	require := require.New(t)

	n := mustParse(t, "a ? b : c ? d : e")
	outer, ok := n.(*ConditionalExpr)
	require.True(ok)
	require.IsType(&Identifier{}, outer.Test)
	inner, ok := outer.Alternate.(*ConditionalExpr)
	require.True(ok, "alternate should itself be a ternary (right-associative)")
	require.IsType(&Identifier{}, inner.Test)
}

func TestTrailingCommasAccepted(t *testing.T) {
	require := require.New(t)

	_, err := Parse("[1, 2, 3,]")
	require.NoError(err)
	_, err = Parse("{a: 1, b: 2,}")
	require.NoError(err)
	_, err = Parse("foo(1, 2,)")
	require.NoError(err)
}

func TestEmptyInputIsParseError(t *testing.T) {
	require := require.New(t)
	_, err := Parse("")
	require.Error(err)
}

func TestTrailingTokenIsParseError(t *testing.T) {
	require := require.New(t)
	_, err := Parse("1 + 2 3")
	require.Error(err)
}

func TestUnterminatedStringIsParseError(t *testing.T) {
	require := require.New(t)
	_, err := Parse("'abc")
	require.Error(err)
}

func TestComputedMemberWithNonLiteralProperty(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "datum['x' + 'y']")
	m, ok := n.(*MemberExpr)
	require.True(ok)
	require.True(m.Computed)
	_, isBinary := m.Property.(*BinaryExpr)
	require.True(isBinary)
}

func TestIdentifiersCollectsFreeNames(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "a + b.c(d, e)")
	ids := Identifiers(n)
	require.Contains(ids, "a")
	require.Contains(ids, "b")
	require.Contains(ids, "c")
	require.Contains(ids, "d")
	require.Contains(ids, "e")
}
