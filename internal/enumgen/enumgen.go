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

// Package enumgen implements the Enum Emitter (spec.md §4.5): picks one of
// the four enum emission strategies for a given IR enum (tagged enum,
// bitfield wrapper, bare constants, module-of-constants), then renders it,
// including duplicate-value aliasing. Unnamed enums get no extra sibling
// constants beyond what their chosen strategy emits.
//
// It is grounded on the teacher's internal/tdp/compiler enum-descriptor
// codegen (an analogous "pick a representation for a closed set of named
// integers" decision, there between a Go named int type and a string-keyed
// lookup table).
package enumgen

import (
	"bindgen.dev/go/ffigen/internal/config"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/layout"
	"bindgen.dev/go/ffigen/internal/result"
	"bindgen.dev/go/ffigen/internal/token"
	"bindgen.dev/go/ffigen/internal/typeref"
)

// Strategy is the emission shape chosen for one enum (spec.md §4.5).
type Strategy int

const (
	// Tagged emits `#[repr(T)] pub enum Name { A = 1, B = 2 }`. Chosen when
	// every variant value is distinct and the enum is not in BitfieldEnums
	// or ConstifiedEnums{,Modules}.
	Tagged Strategy = iota
	// BitfieldWrapper emits a newtype struct over the repr integer plus
	// `pub const` associated values, for enums the caller has designated as
	// bitmask-like (BitfieldEnums) or that have duplicate variant values
	// (which a Rust enum cannot represent directly).
	BitfieldWrapper
	// BareConstants emits one free `pub const NAME: T = V;` per variant,
	// with no grouping type at all (ConstifiedEnums).
	BareConstants
	// ModuleOfConstants emits the same constants as BareConstants, nested
	// in `pub mod name { ... }` (ConstifiedEnumModules).
	ModuleOfConstants
)

// Select chooses the strategy for the enum named name with the given
// variants, honoring the configured name sets
// (spec.md §4.5): bitfield/constified selection is name-driven; a tagged
// enum is demoted to a bitfield wrapper automatically if any two variants
// share a value, since `#[repr(T)] enum` cannot have duplicate
// discriminants.
func Select(name string, variants []ir.Variant, opts *config.Options) Strategy {
	switch {
	case opts.ConstifiedEnumModules.Contains(name):
		return ModuleOfConstants
	case opts.ConstifiedEnums.Contains(name):
		return BareConstants
	case opts.BitfieldEnums.Contains(name):
		return BitfieldWrapper
	case hasDuplicateValues(variants):
		return BitfieldWrapper
	default:
		return Tagged
	}
}

func hasDuplicateValues(variants []ir.Variant) bool {
	seen := make(map[int64]bool, len(variants))
	for _, v := range variants {
		if seen[v.Value] {
			return true
		}
		seen[v.Value] = true
	}
	return false
}

// Emit renders the enum item id into a top-level token tree, choosing and
// applying a Strategy. id's underlying Type must have Kind == ir.Enum.
func Emit(ctx ir.Context, res *result.CodegenResult, id ir.ItemId) *token.Tree {
	if res.MarkItem(id) {
		return token.New()
	}
	item := ctx.ResolveItem(id)
	if item.Type == nil || item.Type.EnumInfo == nil {
		return token.New()
	}

	name := ctx.CanonicalName(id)
	info := item.Type.EnumInfo
	opts := ctx.Options()

	reprTy := reprTypeName(ctx, info)
	strategy := Select(name, info.Variants, opts)

	switch strategy {
	case Tagged:
		return emitTagged(ctx, name, reprTy, info, opts)
	case BitfieldWrapper:
		return emitBitfieldWrapper(ctx, name, reprTy, info, opts)
	case BareConstants:
		return emitConstants(ctx, name, reprTy, info, opts, false)
	case ModuleOfConstants:
		return emitConstants(ctx, name, reprTy, info, opts, true)
	default:
		return token.New()
	}
}

func reprTypeName(ctx ir.Context, info *ir.EnumInfo) string {
	if info.Repr == nil {
		return "u32"
	}
	t, err := typeref.Try(ctx, *info.Repr)
	if err != nil {
		return "u32"
	}
	return t.String()
}

// variantIdent computes the emitted identifier for a variant, applying the
// PrependEnumName convention (spec.md §6: some C enums prefix every
// constant with the enum's own name; bindgen can optionally strip or add
// this prefix back for consistency. Here, when prepend is true, the owning
// enum's name and an underscore are always prepended, even if the variant
// already starts with it. The Tagged, BitfieldWrapper and BareConstants
// strategies pass PrependEnumName; ModuleOfConstants never prepends).
func variantIdent(ctx ir.Context, enumName string, v ir.Variant, prepend bool) string {
	n := ctx.Mangle(v.Name)
	if prepend {
		n = enumName + "_" + n
	}
	return ctx.Ident(n)
}

func emitTagged(ctx ir.Context, name, reprTy string, info *ir.EnumInfo, opts *config.Options) *token.Tree {
	out := token.New()
	out.Append("#[repr(%s)]\n", reprTy)
	out.AppendTree(layout.DeriveAttr([]string{"Debug", "Copy", "Clone", "PartialEq", "Eq", "Hash"}))
	out.Append("pub enum %s {\n", name)
	for _, v := range info.Variants {
		if v.Hidden {
			continue
		}
		ident := variantIdent(ctx, name, v, opts.PrependEnumName)
		out.Append("    %s = %s,\n", ident, literal(v))
	}
	out.Append("}\n")
	return out
}

func literal(v ir.Variant) string {
	if v.Unsigned {
		return token.Text("%d", uint64(v.Value)).String()
	}
	return token.Text("%d", v.Value).String()
}

func emitBitfieldWrapper(ctx ir.Context, name, reprTy string, info *ir.EnumInfo, opts *config.Options) *token.Tree {
	out := token.New()
	out.AppendTree(layout.DeriveAttr([]string{"Debug", "Copy", "Clone", "PartialEq", "Eq", "Hash"}))
	out.Append("#[repr(transparent)]\n")
	out.Append("pub struct %s(pub %s);\n", name, reprTy)

	out.Append("impl %s {\n", name)
	emitted := make(map[int64]bool)
	for _, v := range info.Variants {
		if v.Hidden {
			continue
		}
		ident := variantIdent(ctx, name, v, opts.PrependEnumName)
		if emitted[v.Value] {
			out.Append("    // %s aliases an existing value.\n", ident)
		}
		emitted[v.Value] = true
		out.Append("    pub const %s: %s = %s(%s);\n", ident, name, name, literal(v))
	}
	out.Append("}\n")
	return out
}

func emitConstants(ctx ir.Context, name, reprTy string, info *ir.EnumInfo, opts *config.Options, asModule bool) *token.Tree {
	out := token.New()
	indent := ""
	if asModule {
		out.Append("pub mod %s {\n", ctx.Ident(name))
		indent = "    "
	}
	emitted := make(map[int64]bool)
	for _, v := range info.Variants {
		if v.Hidden {
			continue
		}
		ident := variantIdent(ctx, name, v, opts.PrependEnumName && !asModule)
		if asModule {
			ident = ctx.Mangle(v.Name)
		}
		if emitted[v.Value] {
			out.Append("%s// %s aliases an existing value.\n", indent, ident)
		}
		emitted[v.Value] = true
		out.Append("%spub const %s: %s = %s;\n", indent, ctx.Ident(ident), reprTy, literal(v))
	}
	if asModule {
		out.Append("}\n")
	}
	return out
}

// ForceConstificationTail renders one free-standing `pub const` for each
// non-hidden variant whose ForceConstification flag is set. Only that flag
// is checked (a value's range is not), and the Tagged strategy does not
// remove such variants from the enum body.
func ForceConstificationTail(ctx ir.Context, name, reprTy string, variants []ir.Variant) *token.Tree {
	out := token.New()
	for _, v := range variants {
		if !v.ForceConstification || v.Hidden {
			continue
		}
		ident := ctx.Ident(ctx.Mangle(v.Name))
		out.Append("pub const %s: %s = %s;\n", ident, reprTy, literal(v))
	}
	return out
}
