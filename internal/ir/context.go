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

package ir

import "bindgen.dev/go/ffigen/internal/config"

// Context is the external collaborator supplying the IR graph and the
// queries the core needs to emit it (spec.md §6's "Inputs"). A parser
// (out of scope for this module) implements this interface once per
// translation unit.
//
// All methods must be synchronous and must not mutate shared state while an
// emission pass is in progress (spec.md §5).
type Context interface {
	// ResolveItem returns the item identified by id. Collaborators must
	// guarantee this always succeeds for any id reachable from RootModule.
	ResolveItem(id ItemId) Item

	// CodegenItems returns every item, in a stable order, that the core
	// should consider emitting. This is usually the full transitive closure
	// reachable from RootModule, but a collaborator may restrict it (e.g. to
	// honor an allowlist).
	CodegenItems() []ItemId

	// RootModule returns the id of the root module item.
	RootModule() ItemId

	// Options returns the read-only configuration for this pass.
	Options() *config.Options

	// Mangle applies the source language's name-mangling rules to name,
	// e.g. to compute a field or variant identifier. This is distinct from
	// an Item's MangledName, which is the *linker* symbol name.
	Mangle(name string) string

	// Ident sanitizes name into a valid, non-reserved-word identifier in the
	// target language.
	Ident(name string) string

	// CanonicalName returns the name under which id is emitted at the top of
	// its enclosing scope. Deterministic across runs (spec.md §3).
	CanonicalName(id ItemId) string

	// LayoutOf returns the known layout of id's type, if any.
	LayoutOf(id ItemId) (Layout, bool)

	// CanDeriveDebug, CanDeriveDefault, CanDeriveCopy, CanDeriveHash,
	// CanDerivePartialEq and CanDeriveEq are the derive-capability
	// predicates described in spec.md §1 as external collaborators.
	CanDeriveDebug(id ItemId) bool
	CanDeriveDefault(id ItemId) bool
	CanDeriveCopy(id ItemId) bool
	CanDeriveHash(id ItemId) bool
	CanDerivePartialEq(id ItemId) bool
	CanDeriveEq(id ItemId) bool

	// UsesTemplateParam reports whether the generic definition id's body
	// actually references the template parameter at paramIndex.
	UsesTemplateParam(id ItemId, paramIndex int) bool
}
