// Copyright 2025 The ffigen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cgerr is the error taxonomy of spec.md §7.
//
// It lives in its own internal package, rather than the root ffigen
// package, purely to break the import cycle: every internal emitter package
// needs to construct and recognize these errors, and the root package
// re-exports them under their spec.md names (see the root package's
// errors.go), modeled on the teacher's error.go (a small closed set of
// *errCode* values wrapped by one concrete error struct).
package cgerr

import "fmt"

// Code is the closed set of recoverable error conditions a fallible
// emission step can report.
type Code int

const (
	// LayoutUnavailable: the IR does not know a type's size/alignment.
	// Policy: recover locally, best-effort 1-byte blob, warn.
	LayoutUnavailable Code = iota
	// InstantiationOfOpaqueType: a template was instantiated from an opaque
	// definition. Policy: propagate to the infallible caller, which falls
	// back to an opaque blob.
	InstantiationOfOpaqueType
	// NoLayoutForOpaqueBlob: an opaque blob was requested but no layout is
	// known for it either. Policy: same as InstantiationOfOpaqueType.
	NoLayoutForOpaqueBlob
	// InvalidTemplateParameter: a template parameter resolved to a type the
	// emitter cannot name. Policy: skip the affected emission, warn.
	InvalidTemplateParameter
)

func (c Code) String() string {
	switch c {
	case LayoutUnavailable:
		return "layout unavailable"
	case InstantiationOfOpaqueType:
		return "instantiation of opaque type"
	case NoLayoutForOpaqueBlob:
		return "no layout for opaque blob"
	case InvalidTemplateParameter:
		return "invalid template parameter"
	default:
		return "unknown codegen error"
	}
}

// Error is a recoverable codegen error, tagged with one of the Code values
// above plus a human-readable detail.
type Error struct {
	Code   Code
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("ffigen: %s", e.Code)
	}
	return fmt.Sprintf("ffigen: %s: %s", e.Code, e.Detail)
}

// New constructs an *Error.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// Fatal panics with a message identifying an unrecoverable condition
// (spec.md §7's UnknownABI / UnresolvedReference: "this indicates a bug or
// an unsupported toolchain; abort the pass").
func Fatal(format string, args ...any) {
	panic(&FatalError{Detail: fmt.Sprintf(format, args...)})
}

// FatalError is the panic value used by Fatal. Top-level entry points
// recover it and turn it back into a plain error (see internal/module's
// Generate, which the root package's Generate calls).
type FatalError struct {
	Detail string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("ffigen: internal error: %s", e.Detail)
}
