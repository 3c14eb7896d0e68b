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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/expr"
)

func mustParse(t *testing.T, src string) expr.Node {
	t.Helper()
	n, err := expr.Parse(src)
	require.NoError(t, err)
	return n
}

func baseConfig() *CompilationConfig {
	return &CompilationConfig{
		Signals: map[string]algebra.Expr{
			"width": &algebra.ColumnRef{Name: "width", Typ: algebra.TypeFloat64},
		},
		Data: map[string]algebra.Expr{
			"source_0": &algebra.ColumnRef{Name: "source_0", Typ: algebra.TypeStruct},
		},
		Callables: DefaultCallables(),
		Timezone:  &TimezoneConfig{Default: "America/Los_Angeles"},
	}
}

func TestCompileArithmeticAndComparison(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "1 + width * 2 > 10")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	bin, ok := e.(*algebra.BinaryExpr)
	require.True(ok)
	require.Equal(algebra.BinGt, bin.Op)
	require.Equal(algebra.TypeBool, bin.Type())
}

func TestUnresolvedIdentifierIsCompilationError(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "unknownSignal + 1")
	_, err := Compile(n, baseConfig())
	require.Error(err)
}

func TestStringConcatenationInfersUtf8(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "'a' + 'b'")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	require.Equal(algebra.TypeUtf8, e.Type())
}

func TestTernaryLowersToCase(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "width > 0 ? 1 : 2")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	c, ok := e.(*algebra.Case)
	require.True(ok)
	require.Len(c.Whens, 1)
	require.NotNil(c.Else)
}

func TestIfMacroLowersLikeTernary(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "if(width > 0, 1, 2)")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	_, ok := e.(*algebra.Case)
	require.True(ok)
}

func TestFormatIsRejected(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "format(1, 'd')")
	_, err := Compile(n, baseConfig())
	require.Error(err)
}

func TestDataCallResolvesFromDataScope(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "data('source_0')")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	ref, ok := e.(*algebra.ColumnRef)
	require.True(ok)
	require.Equal("source_0", ref.Name)
}

func TestUnresolvedDatasetIsCompilationError(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "data('nope')")
	_, err := Compile(n, baseConfig())
	require.Error(err)
}

func TestComputedMemberWithIntegerLiteralIndexesList(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "[1,2,3][1]")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	idx, ok := e.(*algebra.IndexAccess)
	require.True(ok)
	require.Equal(int64(1), idx.Index)
}

func TestComputedMemberWithNonLiteralIndexIsTypedNull(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "[1,2,3][width]")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	lit, ok := e.(*algebra.Literal)
	require.True(ok)
	require.Nil(lit.Value)
}

func TestMathBuiltinLowersToFuncCall(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "sqrt(width)")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	call, ok := e.(*algebra.FuncCall)
	require.True(ok)
	require.Equal("sqrt", call.Name)
}

func TestUtcFormatUsesUTCZoneRegardlessOfDefault(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "utcFormat(width, '%Y')")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	call, ok := e.(*algebra.FuncCall)
	require.True(ok)
	require.Equal("utc_timestamp_to_str", call.Name)
	zoneLit, ok := call.Args[1].(*algebra.Literal)
	require.True(ok)
	require.Equal("UTC", zoneLit.Value)
}

func TestTimeFormatUsesConfiguredDefaultZone(t *testing.T) {
	require := require.New(t)
	n := mustParse(t, "timeFormat(width, '%Y')")
	e, err := Compile(n, baseConfig())
	require.NoError(err)
	call := e.(*algebra.FuncCall)
	zoneLit := call.Args[1].(*algebra.Literal)
	require.Equal("America/Los_Angeles", zoneLit.Value)
}
