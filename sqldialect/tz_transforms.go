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

package sqldialect

import (
	"fmt"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// tzStyle picks one rendering strategy (of the several §4.4 lists per
// logical call) for a family of related timezone-aware calls. Each
// dialect below selects the style that matches how its engine
// actually spells timezone conversion.
type tzStyle interface {
	// localize renders expr (a UTC timestamp) as of local zone tz.
	localize(expr, tz string) string
	// toUTC renders expr (a local-zone timestamp) back as UTC.
	toUTC(expr, tz string) string
	extract(part, expr string) string
	trunc(part, expr string) string
	addInterval(part, n, expr string) string
	makeTimestamp(y, mo, d, h, mi, s, ms string) string
	formatDatetime(expr, tz string) string
	parseDatetime(str string) string
}

// tzFamily adapts a tzStyle into a FunctionTransformer for one of the
// six logical call names (§4.4 table); the transformer table
// registers one instance per name per dialect.
type tzFamily struct {
	name  string
	style tzStyle
}

func (f tzFamily) Transform(d *Dialect, args []algebra.Expr) (string, error) {
	rendered := make([]string, len(args))
	for i, a := range args {
		s, err := d.RenderExpr(a)
		if err != nil {
			return "", err
		}
		rendered[i] = s
	}
	isUTC := func(idx int) bool {
		lit, ok := args[idx].(*algebra.Literal)
		if !ok {
			return false
		}
		s, ok := lit.Value.(string)
		return ok && s == "UTC"
	}

	switch f.name {
	case "date_part_tz":
		if len(args) != 3 {
			return "", vferrors.NewInternal("date_part_tz expects 3 args, got %d", len(args))
		}
		part, ts, tz := literalOrEmpty(args[0]), rendered[1], rendered[2]
		if isUTC(2) {
			return f.style.extract(part, ts), nil
		}
		return f.style.extract(part, f.style.localize(ts, tz)), nil
	case "date_trunc_tz":
		if len(args) != 3 {
			return "", vferrors.NewInternal("date_trunc_tz expects 3 args, got %d", len(args))
		}
		part, ts, tz := literalOrEmpty(args[0]), rendered[1], rendered[2]
		if isUTC(2) {
			return f.style.trunc(part, ts), nil
		}
		return f.style.toUTC(f.style.trunc(part, f.style.localize(ts, tz)), tz), nil
	case "date_add_tz":
		if len(args) != 4 {
			return "", vferrors.NewInternal("date_add_tz expects 4 args, got %d", len(args))
		}
		part, n, ts, tz := literalOrEmpty(args[0]), rendered[1], rendered[2], rendered[3]
		if isUTC(3) {
			return f.style.addInterval(part, n, ts), nil
		}
		return f.style.toUTC(f.style.addInterval(part, n, f.style.localize(ts, tz)), tz), nil
	case "make_utc_timestamp":
		if len(args) != 8 {
			return "", vferrors.NewInternal("make_utc_timestamp expects 8 args, got %d", len(args))
		}
		local := f.style.makeTimestamp(rendered[0], rendered[1], rendered[2], rendered[3], rendered[4], rendered[5], rendered[6])
		tz := rendered[7]
		if isUTC(7) {
			return local, nil
		}
		return f.style.toUTC(local, tz), nil
	case "utc_timestamp_to_str":
		if len(args) != 2 {
			return "", vferrors.NewInternal("utc_timestamp_to_str expects 2 args, got %d", len(args))
		}
		ts, tz := rendered[0], rendered[1]
		if isUTC(1) {
			return f.style.formatDatetime(ts, tz), nil
		}
		return f.style.formatDatetime(f.style.localize(ts, tz), tz), nil
	case "str_to_utc_timestamp":
		if len(args) != 2 {
			return "", vferrors.NewInternal("str_to_utc_timestamp expects 2 args, got %d", len(args))
		}
		s, tz := rendered[0], rendered[1]
		parsed := f.style.parseDatetime(s)
		if isUTC(1) {
			return parsed, nil
		}
		return f.style.toUTC(parsed, tz), nil
	default:
		return "", vferrors.NewInternal("sqldialect: unknown tz family member %q", f.name)
	}
}

func literalOrEmpty(e algebra.Expr) string {
	if lit, ok := e.(*algebra.Literal); ok {
		if s, ok := lit.Value.(string); ok {
			return s
		}
	}
	return ""
}

// tzFamilyNames lists the six logical calls every dialect must wire
// (§4.4 table); registerTzFamily builds the Transformers entries for
// one style.
var tzFamilyNames = []string{
	"date_part_tz", "date_trunc_tz", "date_add_tz",
	"make_utc_timestamp", "utc_timestamp_to_str", "str_to_utc_timestamp",
}

func registerTzFamily(transformers map[string]FunctionTransformer, style tzStyle) {
	for _, name := range tzFamilyNames {
		transformers[name] = tzFamily{name: name, style: style}
	}
}

// ansiStyle renders via the `AT TIME ZONE` double-conversion idiom
// (§4.4 row 1): "extract(part from ts AT TIME ZONE 'UTC' AT TIME ZONE
// tz)". Used by ansi, postgres, and duckdb, whose AT TIME ZONE
// semantics agree closely enough for this purpose.
type ansiStyle struct{}

func (ansiStyle) localize(expr, tz string) string {
	return fmt.Sprintf("(%s AT TIME ZONE 'UTC' AT TIME ZONE %s)", expr, tz)
}
func (ansiStyle) toUTC(expr, tz string) string {
	return fmt.Sprintf("(%s AT TIME ZONE %s AT TIME ZONE 'UTC')", expr, tz)
}
func (ansiStyle) extract(part, expr string) string {
	return fmt.Sprintf("extract(%s from %s)", part, expr)
}
func (ansiStyle) trunc(part, expr string) string {
	return fmt.Sprintf("date_trunc('%s', %s)", part, expr)
}
func (ansiStyle) addInterval(part, n, expr string) string {
	return fmt.Sprintf("(%s + (%s * interval '1 %s'))", expr, n, part)
}
func (ansiStyle) makeTimestamp(y, mo, d, h, mi, s, ms string) string {
	return fmt.Sprintf("make_timestamp(%s, %s, %s, %s, %s, %s + %s / 1000.0)", y, mo, d, h, mi, s, ms)
}
func (ansiStyle) formatDatetime(expr, tz string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD HH24:MI:SS.MS')", expr)
}
func (ansiStyle) parseDatetime(str string) string {
	return fmt.Sprintf("%s::timestamp", str)
}

// sparkStyle renders via from_utc_timestamp/to_utc_timestamp (§4.4
// row 2). Used by databricks.
type sparkStyle struct{}

func (sparkStyle) localize(expr, tz string) string {
	return fmt.Sprintf("from_utc_timestamp(%s, %s)", expr, tz)
}
func (sparkStyle) toUTC(expr, tz string) string {
	return fmt.Sprintf("to_utc_timestamp(%s, %s)", expr, tz)
}
func (sparkStyle) extract(part, expr string) string {
	return fmt.Sprintf("date_part('%s', %s)", part, expr)
}
func (sparkStyle) trunc(part, expr string) string {
	return fmt.Sprintf("date_trunc('%s', %s)", part, expr)
}
func (sparkStyle) addInterval(part, n, expr string) string {
	return fmt.Sprintf("(%s + INTERVAL %s %s)", expr, n, part)
}
func (sparkStyle) makeTimestamp(y, mo, d, h, mi, s, ms string) string {
	return fmt.Sprintf("make_timestamp(%s, %s, %s, %s, %s, %s + %s / 1000.0)", y, mo, d, h, mi, s, ms)
}
func (sparkStyle) formatDatetime(expr, tz string) string {
	return fmt.Sprintf("date_format(%s, 'yyyy-MM-dd HH:mm:ss.SSS')", expr)
}
func (sparkStyle) parseDatetime(str string) string {
	return fmt.Sprintf("to_timestamp(%s)", str)
}

// clickhouseStyle renders via toTimeZone plus engine-native per-part
// accessor functions (§4.4 row 3).
type clickhouseStyle struct{}

var clickhousePartFuncs = map[string]string{
	"year": "toYear", "month": "toMonth", "day": "toDayOfMonth",
	"hour": "toHour", "minute": "toMinute", "second": "toSecond",
	"dow": "toDayOfWeek", "doy": "toDayOfYear",
}

func (clickhouseStyle) localize(expr, tz string) string {
	return fmt.Sprintf("toTimeZone(%s, %s)", expr, tz)
}
func (clickhouseStyle) toUTC(expr, tz string) string {
	return fmt.Sprintf("toTimeZone(%s, 'UTC')", expr)
}
func (clickhouseStyle) extract(part, expr string) string {
	fn, ok := clickhousePartFuncs[part]
	if !ok {
		fn = "toHour"
	}
	return fmt.Sprintf("%s(%s)", fn, expr)
}
func (clickhouseStyle) trunc(part, expr string) string {
	return fmt.Sprintf("dateTrunc('%s', %s)", part, expr)
}
func (clickhouseStyle) addInterval(part, n, expr string) string {
	return fmt.Sprintf("dateAdd(%s, %s, %s)", part, n, expr)
}
func (clickhouseStyle) makeTimestamp(y, mo, d, h, mi, s, ms string) string {
	return fmt.Sprintf("makeDateTime64(%s, %s, %s, %s, %s, %s, %s)", y, mo, d, h, mi, s, ms)
}
func (clickhouseStyle) formatDatetime(expr, tz string) string {
	return fmt.Sprintf("formatDateTime(%s, '%%F %%T')", expr)
}
func (clickhouseStyle) parseDatetime(str string) string {
	return fmt.Sprintf("parseDateTime64BestEffort(%s)", str)
}

// snowflakeStyle renders via convert_timezone (§4.4 row 4).
type snowflakeStyle struct{}

func (snowflakeStyle) localize(expr, tz string) string {
	return fmt.Sprintf("convert_timezone('UTC', %s, %s)", tz, expr)
}
func (snowflakeStyle) toUTC(expr, tz string) string {
	return fmt.Sprintf("convert_timezone(%s, 'UTC', %s)", tz, expr)
}
func (snowflakeStyle) extract(part, expr string) string {
	return fmt.Sprintf("date_part(%s, %s)", part, expr)
}
func (snowflakeStyle) trunc(part, expr string) string {
	return fmt.Sprintf("date_trunc('%s', %s)", part, expr)
}
func (snowflakeStyle) addInterval(part, n, expr string) string {
	return fmt.Sprintf("dateadd(%s, %s, %s)", part, n, expr)
}
func (snowflakeStyle) makeTimestamp(y, mo, d, h, mi, s, ms string) string {
	return fmt.Sprintf("timestamp_from_parts(%s, %s, %s, %s, %s, %s, %s * 1000000)", y, mo, d, h, mi, s, ms)
}
func (snowflakeStyle) formatDatetime(expr, tz string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD HH24:MI:SS.FF3')", expr)
}
func (snowflakeStyle) parseDatetime(str string) string {
	return fmt.Sprintf("to_timestamp(%s)", str)
}

// bigQueryStyle renders via DATETIME/TIMESTAMP zone-aware
// constructors.
type bigQueryStyle struct{}

func (bigQueryStyle) localize(expr, tz string) string {
	return fmt.Sprintf("DATETIME(%s, %s)", expr, tz)
}
func (bigQueryStyle) toUTC(expr, tz string) string {
	return fmt.Sprintf("TIMESTAMP(%s, %s)", expr, tz)
}
func (bigQueryStyle) extract(part, expr string) string {
	return fmt.Sprintf("EXTRACT(%s FROM %s)", part, expr)
}
func (bigQueryStyle) trunc(part, expr string) string {
	return fmt.Sprintf("DATETIME_TRUNC(%s, %s)", expr, part)
}
func (bigQueryStyle) addInterval(part, n, expr string) string {
	return fmt.Sprintf("DATETIME_ADD(%s, INTERVAL %s %s)", expr, n, part)
}
func (bigQueryStyle) makeTimestamp(y, mo, d, h, mi, s, ms string) string {
	return fmt.Sprintf("DATETIME(%s, %s, %s, %s, %s, %s + %s / 1000.0)", y, mo, d, h, mi, s, ms)
}
func (bigQueryStyle) formatDatetime(expr, tz string) string {
	return fmt.Sprintf("FORMAT_DATETIME('%%E4Y-%%m-%%d %%H:%%M:%%E3S', %s)", expr)
}
func (bigQueryStyle) parseDatetime(str string) string {
	return fmt.Sprintf("PARSE_DATETIME('%%Y-%%m-%%d %%H:%%M:%%E3S', %s)", str)
}

// mysqlStyle renders via CONVERT_TZ.
type mysqlStyle struct{}

func (mysqlStyle) localize(expr, tz string) string {
	return fmt.Sprintf("CONVERT_TZ(%s, 'UTC', %s)", expr, tz)
}
func (mysqlStyle) toUTC(expr, tz string) string {
	return fmt.Sprintf("CONVERT_TZ(%s, %s, 'UTC')", expr, tz)
}
func (mysqlStyle) extract(part, expr string) string {
	return fmt.Sprintf("EXTRACT(%s FROM %s)", part, expr)
}
func (mysqlStyle) trunc(part, expr string) string {
	return fmt.Sprintf("DATE_FORMAT(%s, %s)", expr, mysqlTruncFormat(part))
}
func (mysqlStyle) addInterval(part, n, expr string) string {
	return fmt.Sprintf("DATE_ADD(%s, INTERVAL %s %s)", expr, n, part)
}
func (mysqlStyle) makeTimestamp(y, mo, d, h, mi, s, ms string) string {
	return fmt.Sprintf("TIMESTAMP(MAKEDATE(%s, 1) + INTERVAL (%s - 1) MONTH + INTERVAL (%s - 1) DAY, SEC_TO_TIME(%s*3600+%s*60+%s+%s/1000))", y, mo, d, h, mi, s, ms)
}
func (mysqlStyle) formatDatetime(expr, tz string) string {
	return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d %%H:%%i:%%s.%%f')", expr)
}
func (mysqlStyle) parseDatetime(str string) string {
	return fmt.Sprintf("STR_TO_DATE(%s, '%%Y-%%m-%%d %%H:%%i:%%s.%%f')", str)
}

func mysqlTruncFormat(part string) string {
	switch part {
	case "year":
		return "'%Y-01-01'"
	case "month":
		return "'%Y-%m-01'"
	case "day":
		return "'%Y-%m-%d'"
	case "hour":
		return "'%Y-%m-%d %H:00:00'"
	case "minute":
		return "'%Y-%m-%d %H:%i:00'"
	default:
		return "'%Y-%m-%d %H:%i:%s'"
	}
}
