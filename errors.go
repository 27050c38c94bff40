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

package ffigen

import "bindgen.dev/go/ffigen/internal/cgerr"

// These re-export the internal/cgerr error taxonomy (spec.md §7) under the
// root package so a caller that wants to branch on a particular recoverable
// condition (logging it, say, instead of treating it as silent) never needs
// to import an internal package to do so. Every recoverable condition is
// already handled internally by falling back to an opaque rendering; these
// types only surface for callers using errors.Is/As against a wrapped
// diagnostic they chose to collect themselves.
type (
	// Code identifies which recoverable condition a CodegenError reports.
	Code = cgerr.Code
	// CodegenError is a recoverable codegen error.
	CodegenError = cgerr.Error
	// FatalError signals a condition spec.md §7 classifies as
	// unrecoverable (UnknownABI, UnresolvedReference): the IR was
	// malformed in a way the core cannot safely paper over, and the whole
	// pass aborted.
	FatalError = cgerr.FatalError
)

const (
	LayoutUnavailable         = cgerr.LayoutUnavailable
	InstantiationOfOpaqueType = cgerr.InstantiationOfOpaqueType
	NoLayoutForOpaqueBlob     = cgerr.NoLayoutForOpaqueBlob
	InvalidTemplateParameter  = cgerr.InvalidTemplateParameter
)
