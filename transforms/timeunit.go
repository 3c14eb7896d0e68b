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
	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// TimeUnitPart is one of the 11 units §4.5 TimeUnit can combine.
type TimeUnitPart string

const (
	UnitYear         TimeUnitPart = "year"
	UnitQuarter      TimeUnitPart = "quarter"
	UnitMonth        TimeUnitPart = "month"
	UnitWeek         TimeUnitPart = "week"
	UnitDate         TimeUnitPart = "date"
	UnitDay          TimeUnitPart = "day" // day of week, Sunday=0
	UnitDayOfYear    TimeUnitPart = "dayofyear"
	UnitHours        TimeUnitPart = "hours"
	UnitMinutes      TimeUnitPart = "minutes"
	UnitSeconds      TimeUnitPart = "seconds"
	UnitMilliseconds TimeUnitPart = "milliseconds"
)

// truncPrefixOrder is the order a unit set must be a prefix of to
// qualify for the direct date_trunc_tz rendering (§4.5 "pure-prefix
// unit sets through seconds").
var truncPrefixOrder = []TimeUnitPart{UnitYear, UnitMonth, UnitDate, UnitHours, UnitMinutes, UnitSeconds}

// composableUnits is the superset the make_utc_timestamp composition
// path covers when the requested set is not a prefix.
var composableUnits = map[TimeUnitPart]bool{
	UnitYear: true, UnitQuarter: true, UnitMonth: true, UnitDate: true,
	UnitHours: true, UnitMinutes: true, UnitSeconds: true,
}

// allUnitsOrder fixes the 11-unit mask bit order the fallback UDF
// uses.
var allUnitsOrder = []TimeUnitPart{
	UnitYear, UnitQuarter, UnitMonth, UnitWeek, UnitDate, UnitDay,
	UnitDayOfYear, UnitHours, UnitMinutes, UnitSeconds, UnitMilliseconds,
}

// addIntervalUnit maps a requested unit to the date_add_tz part name
// used to compute the exclusive end column; week expands to 7 days
// since there is no native "week" interval in the dialect table.
func addIntervalUnit(smallest TimeUnitPart) (part string, n float64) {
	if smallest == UnitWeek {
		return "day", 7
	}
	return string(smallest), 1
}

func tz(zone string, utc bool) algebra.Expr {
	if utc {
		zone = "UTC"
	}
	return &algebra.Literal{Value: zone, Typ: algebra.TypeUtf8}
}

func finestUnit(units []TimeUnitPart, order []TimeUnitPart) TimeUnitPart {
	set := map[TimeUnitPart]bool{}
	for _, u := range units {
		set[u] = true
	}
	finest := order[0]
	for _, u := range order {
		if set[u] {
			finest = u
		}
	}
	return finest
}

func isPrefixOf(units []TimeUnitPart, order []TimeUnitPart) bool {
	set := map[TimeUnitPart]bool{}
	for _, u := range units {
		set[u] = true
	}
	seenFalse := false
	for _, o := range order {
		if set[o] {
			if seenFalse {
				return false
			}
		} else {
			seenFalse = true
		}
		delete(set, o)
	}
	return len(set) == 0
}

func isSubsetOf(units []TimeUnitPart, allowed map[TimeUnitPart]bool) bool {
	for _, u := range units {
		if !allowed[u] {
			return false
		}
	}
	return true
}

// unitMask encodes the requested unit set as a bitmask over
// allUnitsOrder, for the fallback full-unit UDF.
func unitMask(units []TimeUnitPart) int64 {
	set := map[TimeUnitPart]bool{}
	for _, u := range units {
		set[u] = true
	}
	var mask int64
	for i, u := range allUnitsOrder {
		if set[u] {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// TimeUnitOn appends the §4.5 TimeUnit transform's two columns
// (unit0 truncated, unit1 exclusive end) to df. field must already
// hold a UTC timestamp; zone is the target zone ("UTC" when utc is
// set, else the caller's configured local zone).
func TimeUnitOn(df *algebra.DataFrame, field string, units []TimeUnitPart, zone string, utc bool, as0, as1 string) (*algebra.DataFrame, error) {
	if len(units) == 0 {
		return nil, vferrors.NewSpecification("timeunit: at least one unit is required")
	}
	ts := &algebra.ColumnRef{Name: field, Typ: algebra.TypeTimestamp}
	tzExpr := tz(zone, utc)

	var unit0 algebra.Expr
	switch {
	case isPrefixOf(units, truncPrefixOrder):
		part := finestUnit(units, truncPrefixOrder)
		unit0 = &algebra.FuncCall{Name: "date_trunc_tz", Args: []algebra.Expr{
			&algebra.Literal{Value: string(part), Typ: algebra.TypeUtf8}, ts, tzExpr,
		}, Typ: algebra.TypeTimestamp}
	case len(units) == 1 && units[0] == UnitDay:
		unit0 = weekdayExpr(ts, tzExpr)
	case isSubsetOf(units, composableUnits):
		unit0 = composedTimestamp(ts, tzExpr, units)
	default:
		unit0 = &algebra.FuncCall{Name: "timeunit_fallback", Args: []algebra.Expr{
			ts, tzExpr, &algebra.Literal{Value: unitMask(units), Typ: algebra.TypeInt64},
		}, Typ: algebra.TypeTimestamp}
	}

	smallest := finestUnit(units, allUnitsOrder)
	part, n := addIntervalUnit(smallest)
	unit0Col := &algebra.ColumnRef{Name: as0, Typ: algebra.TypeTimestamp}
	unit1 := &algebra.FuncCall{Name: "date_add_tz", Args: []algebra.Expr{
		&algebra.Literal{Value: part, Typ: algebra.TypeUtf8},
		&algebra.Literal{Value: n, Typ: algebra.TypeFloat64},
		unit0Col, tzExpr,
	}, Typ: algebra.TypeTimestamp}

	bound := df.Select(algebra.Star(), algebra.Proj(as0, unit0))
	return bound.Select(algebra.Star(), algebra.Proj(as1, unit1)), nil
}

// weekdayExpr renders the [day]-alone weekday mapping: day-of-week
// (Sunday=0) added onto a fixed Sunday anchor (2012-01-01 was a
// Sunday), giving every occurrence of the same weekday an identical,
// comparable representative date.
func weekdayExpr(ts, tzExpr algebra.Expr) algebra.Expr {
	dow := &algebra.FuncCall{Name: "date_part_tz", Args: []algebra.Expr{
		&algebra.Literal{Value: "dow", Typ: algebra.TypeUtf8}, ts, tzExpr,
	}, Typ: algebra.TypeInt64}
	anchor := &algebra.Literal{Value: "2012-01-01", Typ: algebra.TypeUtf8}
	anchorTs := &algebra.FuncCall{Name: "str_to_utc_timestamp", Args: []algebra.Expr{anchor, tzExpr}, Typ: algebra.TypeTimestamp}
	return &algebra.FuncCall{Name: "date_add_tz", Args: []algebra.Expr{
		&algebra.Literal{Value: "day", Typ: algebra.TypeUtf8}, dow, anchorTs, tzExpr,
	}, Typ: algebra.TypeTimestamp}
}

// composedTimestamp builds the make_utc_timestamp(y, mo, d, h, mi, s,
// ms, tz) composition for a unit subset that isn't a truncation
// prefix, extracting each present component and defaulting the rest
// to the start of their range.
func composedTimestamp(ts, tzExpr algebra.Expr, units []TimeUnitPart) algebra.Expr {
	present := map[TimeUnitPart]bool{}
	for _, u := range units {
		present[u] = true
	}
	extractOrDefault := func(part TimeUnitPart, def float64) algebra.Expr {
		if !present[part] {
			return &algebra.Literal{Value: def, Typ: algebra.TypeFloat64}
		}
		return &algebra.FuncCall{Name: "date_part_tz", Args: []algebra.Expr{
			&algebra.Literal{Value: string(part), Typ: algebra.TypeUtf8}, ts, tzExpr,
		}, Typ: algebra.TypeFloat64}
	}
	year := extractOrDefault(UnitYear, 1970)
	month := extractOrDefault(UnitMonth, 1)
	if present[UnitQuarter] && !present[UnitMonth] {
		quarter := extractOrDefault(UnitQuarter, 1)
		month = &algebra.BinaryExpr{
			Op:   algebra.BinAdd,
			Left: &algebra.BinaryExpr{Op: algebra.BinMul, Left: &algebra.BinaryExpr{Op: algebra.BinSub, Left: quarter, Right: &algebra.Literal{Value: 1.0, Typ: algebra.TypeFloat64}, Typ: algebra.TypeFloat64}, Right: &algebra.Literal{Value: 3.0, Typ: algebra.TypeFloat64}, Typ: algebra.TypeFloat64},
			Right: &algebra.Literal{Value: 1.0, Typ: algebra.TypeFloat64}, Typ: algebra.TypeFloat64,
		}
	}
	day := extractOrDefault(UnitDate, 1)
	hour := extractOrDefault(UnitHours, 0)
	minute := extractOrDefault(UnitMinutes, 0)
	second := extractOrDefault(UnitSeconds, 0)
	ms := &algebra.Literal{Value: 0.0, Typ: algebra.TypeFloat64}
	return &algebra.FuncCall{Name: "make_utc_timestamp", Args: []algebra.Expr{
		year, month, day, hour, minute, second, ms, tzExpr,
	}, Typ: algebra.TypeTimestamp}
}
