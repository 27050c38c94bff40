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

// Package typeref implements the Type Renderer (spec.md §4.2): an
// infallible mapping from an IR type reference to a token tree, with
// fallback to an opaque blob when a structural rendering is impossible.
//
// It is grounded on the teacher's internal/tdp/compiler Archetype selection
// (archetype.go's SelectArchetype), which performs the analogous job of
// classifying a field's IR type into one of a small number of concrete
// representations.
package typeref

import (
	"bindgen.dev/go/ffigen/internal/cgerr"
	"bindgen.dev/go/ffigen/internal/diag"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/layout"
	"bindgen.dev/go/ffigen/internal/token"
)

// cIntNames maps the abstract C integer kinds to their platform-C aliases
// (spec.md §4.2).
var cIntNames = map[ir.IntKind]string{
	ir.IntChar:      "c_char",
	ir.IntSChar:     "c_schar",
	ir.IntUChar:     "c_uchar",
	ir.IntShort:     "c_short",
	ir.IntUShort:    "c_ushort",
	ir.IntInt:       "c_int",
	ir.IntUInt:      "c_uint",
	ir.IntLong:      "c_long",
	ir.IntULong:     "c_ulong",
	ir.IntLongLong:  "c_longlong",
	ir.IntULongLong: "c_ulonglong",
	ir.IntBool:      "bool",
}

// fixedIntNames maps fixed-width kinds to i8..i64/u8..u64.
var fixedIntNames = map[ir.IntKind]string{
	ir.I8: "i8", ir.U8: "u8",
	ir.I16: "i16", ir.U16: "u16",
	ir.I32: "i32", ir.U32: "u32",
	ir.I64: "i64", ir.U64: "u64",
}

// floatNames maps float kinds to their Rust equivalents.
var floatNames = map[ir.FloatKind]string{
	ir.F32: "f32",
	ir.F64: "f64",
}

// recognizedAliases recognizes a subset of <stdint.h>-style typedef names
// and replaces them with the platform primitive (spec.md §4.2).
var recognizedAliases = map[string]string{
	"int8_t": "i8", "uint8_t": "u8",
	"int16_t": "i16", "uint16_t": "u16",
	"int32_t": "i32", "uint32_t": "u32",
	"int64_t": "i64", "uint64_t": "u64",
	"size_t": "usize", "ptrdiff_t": "isize",
	"intptr_t": "isize", "uintptr_t": "usize",
	"ssize_t": "isize",
}

// Try renders a reference to the type named by id, or returns an error if a
// structural rendering is impossible (spec.md §4.2's try_to_rust_ty).
func Try(ctx ir.Context, id ir.ItemId) (*token.Tree, error) {
	item := ctx.ResolveItem(id)
	if item.Kind != ir.KindType || item.Type == nil {
		return nil, cgerr.New(cgerr.InvalidTemplateParameter, "item %v is not a type", id)
	}
	return tryType(ctx, item)
}

// ToOrOpaque is the infallible variant: on failure from Try, it falls back
// to an opaque blob of the IR-reported (size, align), or a 1-byte layout if
// no layout is known at all (spec.md §4.2).
func ToOrOpaque(ctx ir.Context, id ir.ItemId) *token.Tree {
	t, err := Try(ctx, id)
	if err == nil {
		return t
	}

	diag.Warn(id, "falling back to opaque blob: %v", err)
	l, ok := ctx.LayoutOf(id)
	if !ok {
		l = ir.Layout{SizeBytes: 1, AlignBytes: 1}
	}
	return layout.OpaqueArrayType(l.SizeBytes)
}

func tryType(ctx ir.Context, item ir.Item) (*token.Tree, error) {
	ty := item.Type

	switch ty.Kind {
	case ir.Void:
		return token.Text("c_void"), nil
	case ir.NullPtr:
		return token.Text("*const c_void"), nil
	case ir.BlockPointer:
		return token.Text("*mut c_void"), nil

	case ir.Int:
		if name, ok := cIntNames[ty.IntKind]; ok {
			return token.Text("%s", name), nil
		}
		if name, ok := fixedIntNames[ty.IntKind]; ok {
			return token.Text("%s", name), nil
		}
		if ty.IntKind == ir.I128 || ty.IntKind == ir.U128 {
			diag.Warn(item.ID, "128-bit integer emitted as [u64; 2]; alignment may not match the target ABI")
			return token.Text("[u64; 2]"), nil
		}
		diag.Warn(item.ID, "unrecognized integer kind %v, defaulting to c_int", ty.IntKind)
		return token.Text("c_int"), nil

	case ir.Float:
		if name, ok := floatNames[ty.FloatKind]; ok {
			return token.Text("%s", name), nil
		}
		diag.Warn(item.ID, "unrecognized float kind %v, defaulting to f64", ty.FloatKind)
		return token.Text("f64"), nil

	case ir.Complex:
		if name, ok := floatNames[ty.ComplexOf]; ok {
			return token.Text("__BindgenComplex<%s>", name), nil
		}
		return token.Text("__BindgenComplex<f64>"), nil

	case ir.Array:
		inner := ToOrOpaque(ctx, ty.Inner)
		return token.Text("[%s; %d]", inner.String(), ty.ArrayLen), nil

	case ir.Function:
		return renderFunctionPointer(ctx, ty.Sig), nil

	case ir.Pointer, ir.Reference:
		return renderPointer(ctx, item, ty)

	case ir.Enum:
		return renderPath(ctx, item.ParentID, ctx.CanonicalName(item.ID)), nil

	case ir.Alias, ir.TemplateAlias:
		if name, ok := recognizedAliases[item.Name]; ok {
			return token.Text("%s", name), nil
		}
		innerItem := ctx.ResolveItem(ty.Inner)
		if ty.IsOpaque && len(ty.TemplateParams) > 0 {
			return nil, cgerr.New(cgerr.InstantiationOfOpaqueType, "alias %q of opaque generic type", item.Name)
		}
		path := renderPath(ctx, item.ParentID, ctx.CanonicalName(item.ID))
		return appendImplicitParams(ctx, innerItem, path), nil

	case ir.TemplateInstantiation:
		defItem := ctx.ResolveItem(ty.TemplateDef)
		if defItem.Type != nil && defItem.Type.IsOpaque {
			return nil, cgerr.New(cgerr.InstantiationOfOpaqueType, "instantiation of opaque definition %q", defItem.Name)
		}
		return renderInstantiation(ctx, defItem, ty)

	case ir.Comp:
		if ty.CompInfo != nil && ty.CompInfo.HasNonTypeTemplateParams {
			return nil, cgerr.New(cgerr.InvalidTemplateParameter, "composite %q has non-type template parameters", item.Name)
		}
		path := renderPath(ctx, item.ParentID, ctx.CanonicalName(item.ID))
		return appendImplicitParams(ctx, item, path), nil

	case ir.TypeParam:
		return token.Text("%s", ctx.Ident(item.Name)), nil

	case ir.ObjCId, ir.ObjCInterface:
		return token.Text("id"), nil
	case ir.ObjCSel:
		return token.Text("SEL"), nil

	case ir.ResolvedTypeRef:
		return Try(ctx, ty.Inner)

	case ir.UnresolvedTypeRef:
		cgerr.Fatal("reached an UnresolvedTypeRef for item %v; the IR is malformed", item.ID)
		panic("unreachable")

	default:
		cgerr.Fatal("type renderer does not understand kind %v", ty.Kind)
		panic("unreachable")
	}
}

// renderPointer implements spec.md §4.2's Pointer/Reference rule, including
// the "function pointee is already a pointer" exception.
func renderPointer(ctx ir.Context, item ir.Item, ty *ir.Type) (*token.Tree, error) {
	pointee := ctx.ResolveItem(ty.Inner)
	innerIsFn := pointee.Kind == ir.KindType && pointee.Type != nil && pointee.Type.Kind == ir.Function

	inner := ToOrOpaque(ctx, ty.Inner)
	if innerIsFn {
		return inner, nil
	}

	isConst := ty.IsConst || (pointee.Type != nil && pointee.Type.IsConst)
	if isConst {
		return token.Text("*const %s", inner.String()), nil
	}
	return token.Text("*mut %s", inner.String()), nil
}

// renderFunctionPointer implements spec.md §4.2's Function rule: the Option
// wrap is load-bearing so a null function pointer stays representable.
func renderFunctionPointer(ctx ir.Context, sig *ir.FunctionSig) *token.Tree {
	out := token.New()
	out.Append("Option<unsafe extern \"%s\" fn(", sig.ABI)
	for i, arg := range sig.Arguments {
		if i > 0 {
			out.Append(", ")
		}
		out.AppendTree(ToOrOpaque(ctx, arg.Ty))
	}
	if sig.IsVariadic {
		if len(sig.Arguments) > 0 {
			out.Append(", ")
		}
		out.Append("...")
	}
	out.Append(")")
	if sig.ReturnType.Valid() {
		if ret := ctx.ResolveItem(sig.ReturnType); !(ret.Type != nil && ret.Type.Kind == ir.Void) {
			out.Append(" -> %s", ToOrOpaque(ctx, sig.ReturnType).String())
		}
	}
	out.Append(">")
	return out
}

// renderInstantiation renders a TemplateInstantiation as the definition's
// qualified path followed by the subset of arguments the definition
// actually uses (spec.md §4.2).
func renderInstantiation(ctx ir.Context, defItem ir.Item, ty *ir.Type) (*token.Tree, error) {
	path := renderPath(ctx, defItem.ParentID, ctx.CanonicalName(defItem.ID))
	used := usedIndices(defItem)
	if len(used) == 0 {
		return path, nil
	}

	out := token.New()
	out.AppendTree(path)
	out.Append("<")
	for i, idx := range used {
		if idx >= len(ty.TemplateArgs) {
			continue
		}
		if i > 0 {
			out.Append(", ")
		}
		out.AppendTree(ToOrOpaque(ctx, ty.TemplateArgs[idx]))
	}
	out.Append(">")
	return out, nil
}

// appendImplicitParams implements the "implicit template parameter append"
// rule (spec.md §4.2): after rendering a reference to a Comp/Alias/
// TemplateAlias type, append <p1, p2, ...> for its used template parameters.
func appendImplicitParams(ctx ir.Context, defItem ir.Item, path *token.Tree) *token.Tree {
	used := usedIndices(defItem)
	params := templateParams(defItem)
	if len(used) == 0 || len(params) == 0 {
		return path
	}

	out := token.New()
	out.AppendTree(path)
	out.Append("<")
	for i, idx := range used {
		if idx >= len(params) {
			continue
		}
		if i > 0 {
			out.Append(", ")
		}
		p := ctx.ResolveItem(params[idx])
		out.Append("%s", ctx.Ident(p.Name))
	}
	out.Append(">")
	return out
}

func templateParams(item ir.Item) []ir.ItemId {
	if item.Type == nil {
		return nil
	}
	if item.Type.CompInfo != nil {
		return item.Type.CompInfo.TemplateParams
	}
	return item.Type.TemplateParams
}

func usedIndices(item ir.Item) []int {
	if item.Type != nil && item.Type.CompInfo != nil && len(item.Type.CompInfo.UsedTemplate) > 0 {
		return item.Type.CompInfo.UsedTemplate
	}
	return item.UsedTemplate
}

// renderPath renders a reference to name as the bare canonical name. The
// item id is ignored and no `self::`, `super::` or `root::` qualification
// is added, so in namespace mode a reference to an item declared in a
// different module is not path-qualified.
func renderPath(ctx ir.Context, _ ir.ItemId, name string) *token.Tree {
	return token.Text("%s", name)
}
