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

// Package ir defines the immutable intermediate representation consumed by
// the codegen core (spec.md §3). The IR graph is supplied by an external
// collaborator (the C/C++ parser, out of scope per spec.md §1) through the
// [Context] interface; this package only defines the node shapes and the
// handle type used to refer to them.
package ir

// ItemId is an opaque handle identifying a node in the IR graph. It is
// comparable and hashable so it can be used as a map key, matching spec.md's
// requirement that "id" be unique and support equality + hash.
type ItemId struct {
	idx uint32
}

// NewItemId constructs an ItemId from a dense index. Collaborators
// (typically a parser's arena) are expected to hand these out in allocation
// order; the core never synthesizes its own ItemIds.
func NewItemId(idx uint32) ItemId { return ItemId{idx} }

// Valid reports whether this id was ever assigned (the zero ItemId is never
// valid, matching root's sentinel usage).
func (id ItemId) Valid() bool { return id.idx != 0 }

// Index returns the dense index backing this id, for use by collaborators
// that store per-item side tables in slices.
func (id ItemId) Index() uint32 { return id.idx }

// ItemKind classifies a top-level IR node.
type ItemKind int

const (
	KindModule ItemKind = iota
	KindFunction
	KindVar
	KindType
)

func (k ItemKind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindFunction:
		return "Function"
	case KindVar:
		return "Var"
	case KindType:
		return "Type"
	default:
		return "Unknown"
	}
}

// Layout is a type's size and alignment, both in bytes; Layout values are
// always byte granular.
type Layout struct {
	SizeBytes  int64
	AlignBytes int64
}

// Max returns a layout whose size and alignment are both at least as large
// as the larger of l and that; used when merging union member layouts.
func (l Layout) Max(that Layout) Layout {
	return Layout{
		SizeBytes:  max(l.SizeBytes, that.SizeBytes),
		AlignBytes: max(l.AlignBytes, that.AlignBytes),
	}
}

// AlignUp rounds off up to the next multiple of align (which must be a power
// of two), matching the rounding the Struct Layout Tracker performs between
// fields.
func AlignUp(off, align int64) int64 {
	if align <= 1 {
		return off
	}
	return (off + align - 1) &^ (align - 1)
}

// Annotations are per-item directives that do not affect layout, only how
// the item is rendered.
type Annotations struct {
	// Hidden means "do not emit me" (e.g. a hidden libclang declaration).
	Hidden bool
	// Whitelisted, if false, additionally suppresses emission; a parser sets
	// this based on user-supplied allowlist patterns.
	Whitelisted bool

	// PrivateOverride, if non-nil, overrides Options.FieldsArePrivate for
	// this one field.
	PrivateOverride *bool
	// Accessor selects what accessor pair (if any) a regular field gets.
	Accessor AccessorKind

	// DisallowCopy forces a type to skip the Copy derive even if it would
	// otherwise qualify.
	DisallowCopy bool
}

// AccessorKind selects the flavor of accessor methods a field gets (spec.md §4.4).
type AccessorKind int

const (
	AccessorNone AccessorKind = iota
	AccessorRegular
	AccessorUnsafe
	AccessorImmutable
)

// Item is one node of the IR graph (spec.md §3's Item entity). Exactly one
// of Module, Function, Var or Type is populated, selected by Kind.
type Item struct {
	ID           ItemId
	Kind         ItemKind
	Name         string
	MangledName  string // empty if none
	Comment      string // empty if none
	ParentID     ItemId
	Annotations  Annotations
	Layout       *Layout
	UsedTemplate []int // indices, into the enclosing generic's parameter list, that are actually referenced

	Module   *ModuleData
	Function *FunctionSig
	Var      *VarData
	Type     *Type
}

// ModuleData is the payload of a KindModule item.
type ModuleData struct {
	Children []ItemId
	// Inline marks a C++ `inline namespace`, which is collapsed into its
	// parent unless ConservativeInlineNamespaces is set.
	Inline bool
}
