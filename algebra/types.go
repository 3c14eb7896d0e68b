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

// Package algebra implements §4.4's DataFrame-style builder: a chain
// of query nodes rendered to SQL through a sqldialect.Dialect.
package algebra

// DataType is the logical, engine-independent type of a column or
// scalar expression.
type DataType int

const (
	TypeNull DataType = iota
	TypeBool
	TypeInt64
	TypeFloat64
	TypeUtf8
	TypeTimestamp
	TypeList
	TypeStruct
)

func (t DataType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt64:
		return "i64"
	case TypeFloat64:
		return "f64"
	case TypeUtf8:
		return "utf8"
	case TypeTimestamp:
		return "timestamp"
	case TypeList:
		return "list"
	case TypeStruct:
		return "struct"
	default:
		return "unknown"
	}
}
