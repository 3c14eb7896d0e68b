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

// Package vferrors defines the error kinds of §7: each is a reusable
// *errors.Kind (gopkg.in/src-d/go-errors.v1), the same pattern the
// engine uses for its own SQL errors. Every kind can be wrapped with a
// context stack via WithContext, and SQL-not-supported errors carry
// the offending function/dialect so the planner can build a
// PlannerWarning from them.
package vferrors

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrParse is returned by the expression parser on a malformed
	// token stream, an empty input, or a trailing unconsumed token.
	ErrParse = errors.NewKind("parse error at offset %d: %s")

	// ErrCompilation is returned when an AST references an unresolved
	// identifier/function, or when operand types cannot be reconciled.
	ErrCompilation = errors.NewKind("compilation error: %s")

	// ErrSpecification is returned when the input spec is internally
	// inconsistent (bad bin extent, unknown transform in a supported
	// position, and so on).
	ErrSpecification = errors.NewKind("specification error: %s")

	// ErrInternal is returned when an implementation invariant is
	// violated (a broken cycle check, a mismatched schema).
	ErrInternal = errors.NewKind("internal error: %s")

	// ErrExternal wraps a failure from an upstream collaborator (I/O,
	// SQL engine execution, deserialization).
	ErrExternal = errors.NewKind("external error: %s")

	// ErrSqlNotSupported is recoverable: the planner catches it, emits
	// a PlannerWarning, and keeps the affected node client-side.
	ErrSqlNotSupported = errors.NewKind("dialect %q cannot express %q: %s")

	// ErrPreTransform is returned when a requested variable is unknown
	// or named in an unsupported namespace (Scale is rejected by
	// pre_transform_values).
	ErrPreTransform = errors.NewKind("pre-transform error: %s")
)

// Error wraps one of the Kinds above together with a context stack:
// successive WithContext calls push a human-readable frame, innermost
// call first, matching the "context stack" described in §7.
type Error struct {
	cause   error
	context []string
}

func newError(cause error) *Error {
	return &Error{cause: cause}
}

// NewParse builds a ParseError pinpointing a byte offset in the source.
func NewParse(offset int, format string, args ...interface{}) *Error {
	return newError(ErrParse.New(offset, fmt.Sprintf(format, args...)))
}

// NewCompilation builds a CompilationError.
func NewCompilation(format string, args ...interface{}) *Error {
	return newError(ErrCompilation.New(fmt.Sprintf(format, args...)))
}

// NewSpecification builds a SpecificationError.
func NewSpecification(format string, args ...interface{}) *Error {
	return newError(ErrSpecification.New(fmt.Sprintf(format, args...)))
}

// NewInternal builds an InternalError.
func NewInternal(format string, args ...interface{}) *Error {
	return newError(ErrInternal.New(fmt.Sprintf(format, args...)))
}

// NewExternal wraps an upstream failure as an ExternalError. External
// errors are duplicated (not wrapped) on fan-out so every branch gets
// an owned, Clone-able copy; Duplicate implements that.
func NewExternal(cause error) *Error {
	return newError(ErrExternal.New(cause.Error()))
}

// NewSqlNotSupported builds a SqlNotSupported error naming the
// offending logical function and the dialect that rejected it.
func NewSqlNotSupported(dialect, fn, reason string) *Error {
	return newError(ErrSqlNotSupported.New(dialect, fn, reason))
}

// NewPreTransform builds a PreTransformError.
func NewPreTransform(format string, args ...interface{}) *Error {
	return newError(ErrPreTransform.New(fmt.Sprintf(format, args...)))
}

// WithContext appends a human-readable frame and returns the receiver,
// mirroring the engine's errors.Wrap chains in sql/parse and
// sql/analyzer. Error() reports the most recently added (outermost)
// frame first.
func (e *Error) WithContext(format string, args ...interface{}) *Error {
	e.context = append(e.context, fmt.Sprintf(format, args...))
	return e
}

// Duplicate returns an independent copy of the error, for fan-out paths
// where more than one downstream branch needs to poison with its own
// carrier (see §7 "may be duplicated").
func (e *Error) Duplicate() *Error {
	ctx := make([]string, len(e.context))
	copy(ctx, e.context)
	return &Error{cause: e.cause, context: ctx}
}

func (e *Error) Error() string {
	if len(e.context) == 0 {
		return e.cause.Error()
	}
	var b strings.Builder
	b.WriteString(e.cause.Error())
	for i := len(e.context) - 1; i >= 0; i-- {
		b.WriteString(": ")
		b.WriteString(e.context[i])
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether err was built from kind (one of the package-level
// Err* values above).
func Is(err error, kind *errors.Kind) bool {
	return kind.Is(err)
}
