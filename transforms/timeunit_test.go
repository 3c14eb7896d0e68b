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

package transforms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/sqldialect"
)

func TestTimeUnitPrefixSetUsesDateTruncTz(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := TimeUnitOn(df, "ts", []TimeUnitPart{UnitYear, UnitMonth}, "America/Los_Angeles", false, "unit0", "unit1")
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "AT TIME ZONE")
}

func TestTimeUnitNonPrefixSubsetUsesComposition(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := TimeUnitOn(df, "ts", []TimeUnitPart{UnitYear, UnitHours}, "America/Los_Angeles", false, "unit0", "unit1")
	require.NoError(err)
	_, err = out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
}

func TestTimeUnitDayAloneUsesWeekdayAnchor(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := TimeUnitOn(df, "ts", []TimeUnitPart{UnitDay}, "UTC", true, "unit0", "unit1")
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "2012-01-01")
}

func TestTimeUnitWeekAloneUsesFallbackUDF(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := TimeUnitOn(df, "ts", []TimeUnitPart{UnitWeek}, "UTC", true, "unit0", "unit1")
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "timeunit_fallback")
}

func TestTimeUnitWeekEndColumnAddsSevenDays(t *testing.T) {
	require := require.New(t)
	part, n := addIntervalUnit(UnitWeek)
	require.Equal("day", part)
	require.Equal(7.0, n)
}

func TestTimeUnitRejectsEmptyUnitSet(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	_, err := TimeUnitOn(df, "ts", nil, "UTC", true, "unit0", "unit1")
	require.Error(err)
}

func TestUnitMaskIsDeterministicAndOrderIndependent(t *testing.T) {
	require := require.New(t)
	require.Equal(unitMask([]TimeUnitPart{UnitWeek, UnitYear}), unitMask([]TimeUnitPart{UnitYear, UnitWeek}))
}
