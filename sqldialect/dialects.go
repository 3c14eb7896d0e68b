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
	"embed"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/dolthub/vegafusion-go/algebra"
)

//go:embed dialects/*.yaml
var dialectFS embed.FS

// dialectCapabilities is the YAML shape of one dialect's capability
// table (§4.4): its identifier-quoting rule, which of the timezone
// transform families (tz_transforms.go) it renders with, and which
// scalar types it supports.
type dialectCapabilities struct {
	Name       string   `yaml:"name"`
	IdentQuote string   `yaml:"ident_quote"`
	TzStyle    string   `yaml:"tz_style"`
	Scalars    []string `yaml:"scalars"`
}

var scalarTypeByName = map[string]algebra.DataType{
	"null": algebra.TypeNull, "bool": algebra.TypeBool, "i64": algebra.TypeInt64,
	"f64": algebra.TypeFloat64, "utf8": algebra.TypeUtf8, "timestamp": algebra.TypeTimestamp,
}

var tzStyleByName = map[string]tzStyle{
	"ansi": ansiStyle{}, "spark": sparkStyle{}, "snowflake": snowflakeStyle{},
	"bigquery": bigQueryStyle{}, "mysql": mysqlStyle{}, "clickhouse": clickhouseStyle{},
}

// loadDialect reads dialects/<file> (embedded at build time) and
// builds the Dialect it describes, keeping the per-dialect capability
// matrix data-driven rather than duplicated as Go literals across
// eight call sites -- the way the teacher keeps its own
// collation/charset tables data-driven. Panics on a malformed
// embedded table: these are compiled into the binary, not loaded from
// an untrusted runtime path, so a bad table is a build-time bug.
func loadDialect(file string) *Dialect {
	raw, err := dialectFS.ReadFile("dialects/" + file)
	if err != nil {
		panic(fmt.Sprintf("sqldialect: missing embedded capability table %q: %v", file, err))
	}
	var caps dialectCapabilities
	if err := yaml.Unmarshal(raw, &caps); err != nil {
		panic(fmt.Sprintf("sqldialect: invalid capability table %q: %v", file, err))
	}
	if len(caps.IdentQuote) == 0 {
		panic(fmt.Sprintf("sqldialect: capability table %q missing ident_quote", file))
	}
	style, ok := tzStyleByName[caps.TzStyle]
	if !ok {
		panic(fmt.Sprintf("sqldialect: capability table %q names unknown tz_style %q", file, caps.TzStyle))
	}
	scalars := make(map[algebra.DataType]bool, len(caps.Scalars))
	for _, s := range caps.Scalars {
		t, ok := scalarTypeByName[s]
		if !ok {
			panic(fmt.Sprintf("sqldialect: capability table %q names unknown scalar type %q", file, s))
		}
		scalars[t] = true
	}

	d := &Dialect{
		Name:            caps.Name,
		IdentQuote:      caps.IdentQuote[0],
		SupportedScalar: scalars,
		Transformers:    map[string]FunctionTransformer{},
	}
	registerTzFamily(d.Transformers, style)
	return d
}

// Registry of the eight dialects §4.4 names explicitly, each loaded
// from its own capability table in dialects/*.yaml. The
// DataFusion-compatible dialect the planner uses for its own schema
// inference is Ansi, below.
var (
	Ansi       = loadDialect("ansi.yaml")
	Postgres   = loadDialect("postgres.yaml")
	DuckDB     = loadDialect("duckdb.yaml")
	Databricks = loadDialect("databricks.yaml")
	Snowflake  = loadDialect("snowflake.yaml")
	BigQuery   = loadDialect("bigquery.yaml")
	MySQL      = loadDialect("mysql.yaml")
	ClickHouse = loadDialect("clickhouse.yaml")
)

// All is every supported dialect, keyed by name.
var All = map[string]*Dialect{
	Ansi.Name:       Ansi,
	Postgres.Name:   Postgres,
	DuckDB.Name:     DuckDB,
	Databricks.Name: Databricks,
	Snowflake.Name:  Snowflake,
	BigQuery.Name:   BigQuery,
	MySQL.Name:      MySQL,
	ClickHouse.Name: ClickHouse,
}
