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

// Package extern implements the Function/Variable Emitter (spec.md §4.6):
// renders free functions as `extern "ABI" { ... }` blocks and free
// variables as either a `pub const` (when a compile-time value is known)
// or an `extern "ABI" { pub static }` declaration, deduplicating by linker
// symbol and resolving overloads with a #[link_name] suffix.
//
// It is grounded on the teacher's internal/tdp/compiler/linker symbol
// table (resolving a relocation to a unique linker symbol, with a
// generation counter disambiguating repeated definitions), generalized
// from "resolve one relocation" to "emit one extern declaration at most
// once."
package extern

import (
	"fmt"

	"bindgen.dev/go/ffigen/internal/cgerr"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/layout"
	"bindgen.dev/go/ffigen/internal/result"
	"bindgen.dev/go/ffigen/internal/token"
	"bindgen.dev/go/ffigen/internal/typeref"
)

// EmitFunction renders a free function declaration, or an empty tree if an
// extern with the same linker symbol has already been emitted (spec.md
// §4.6's dedup-by-symbol rule). When canonicalName has already been used by
// a prior overload, the new declaration keeps its own #[link_name] (the
// true linker symbol) but is renamed, in source, to canonicalName suffixed
// with the overload's ordinal (1 for the second declaration, 2 for the
// third, ...) so both remain nameable from Rust.
func EmitFunction(ctx ir.Context, res *result.CodegenResult, id ir.ItemId) *token.Tree {
	item := ctx.ResolveItem(id)
	if item.Kind != ir.KindFunction || item.Function == nil {
		return token.New()
	}

	symbol := item.MangledName
	if symbol == "" {
		symbol = item.Name
	}
	if res.SeenFunction(symbol) {
		return token.New()
	}
	res.MarkFunction(symbol)

	canonical := ctx.CanonicalName(id)
	ordinal := res.NextOverload(canonical)
	rustName := canonical
	if ordinal > 0 {
		rustName = fmt.Sprintf("%s%d", canonical, ordinal)
	}

	sig := item.Function
	out := token.New()
	out.AppendTree(layout.DocAttr(item.Comment))
	out.Append("extern \"%s\" {\n", abiOf(sig))
	if rustName != symbol {
		out.AppendTree(layout.LinkNameAttr(symbol))
	}
	out.Append("    pub fn %s(", ctx.Ident(rustName))
	for i, arg := range sig.Arguments {
		if i > 0 {
			out.Append(", ")
		}
		name := arg.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i+1)
		}
		out.Append("%s: %s", ctx.Ident(name), typeref.ToOrOpaque(ctx, arg.Ty).String())
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
			out.Append(" -> %s", typeref.ToOrOpaque(ctx, sig.ReturnType).String())
		}
	}
	out.Append(";\n")
	out.Append("}\n")
	return out
}

func abiOf(sig *ir.FunctionSig) string {
	switch sig.ABI {
	case "":
		return "C"
	case "C", "cdecl", "stdcall", "fastcall", "vectorcall", "thiscall",
		"aapcs", "win64", "sysv64", "system", "efiapi":
		return sig.ABI
	}
	cgerr.Fatal("unknown ABI %q", sig.ABI)
	panic("unreachable")
}

// EmitVariable renders a free variable: a pub const when id carries a known
// compile-time value, otherwise an extern static declaration. Deduplicates
// by linker symbol like EmitFunction.
func EmitVariable(ctx ir.Context, res *result.CodegenResult, id ir.ItemId) *token.Tree {
	item := ctx.ResolveItem(id)
	if item.Kind != ir.KindVar || item.Var == nil {
		return token.New()
	}

	symbol := item.Var.MangledName
	if symbol == "" {
		symbol = item.Name
	}
	if res.SeenVar(symbol) {
		return token.New()
	}
	res.MarkVar(symbol)

	name := ctx.Ident(ctx.CanonicalName(id))
	ty := typeref.ToOrOpaque(ctx, item.Var.Ty)

	out := token.New()
	out.AppendTree(layout.DocAttr(item.Comment))

	if item.Var.Value != nil {
		out.Append("pub const %s: %s = %s;\n", name, ty.String(), valueLiteral(item.Var.Value))
		return out
	}

	out.Append("extern \"C\" {\n")
	if name != symbol {
		out.AppendTree(layout.LinkNameAttr(symbol))
	}
	out.Append("    pub static mut %s: %s;\n", name, ty.String())
	out.Append("}\n")
	return out
}

func valueLiteral(v *ir.VarValue) string {
	switch v.Kind {
	case ir.ValBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ir.ValInt:
		return layout.IntLiteral(v.Int, false).String()
	case ir.ValFloat:
		return token.Text("%v", v.Float).String()
	case ir.ValChar:
		return token.Text("%d", v.Char).String()
	case ir.ValString:
		return layout.CString(v.String).String()
	default:
		return "0"
	}
}
