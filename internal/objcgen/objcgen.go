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

// Package objcgen implements the Objective-C Interface Emitter
// (spec.md §4.8): renders one Objective-C @interface as a Rust trait plus
// an impl of that trait for `id`, with each method's body built around a
// msg_send!-style dynamic dispatch call. Instance and class methods that
// would otherwise collide in name (Objective-C keeps separate instance and
// class namespaces; Rust traits do not) are disambiguated by prefixing the
// class method with `class_`.
//
// It is grounded on the teacher's internal/tdp/compiler service-method
// codegen (an analogous "one dynamically dispatched call, wrapped in a
// statically typed Go method" pipeline), generalized from a gRPC method
// descriptor to an Objective-C selector.
package objcgen

import (
	"strings"

	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/layout"
	"bindgen.dev/go/ffigen/internal/result"
	"bindgen.dev/go/ffigen/internal/token"
	"bindgen.dev/go/ffigen/internal/typeref"
)

// Emit renders the ObjCInterface item id as a Rust trait definition named
// `<Name>Methods` plus an `impl <Name>Methods for id` block implementing it.
// Returns an empty tree if id was already emitted.
func Emit(ctx ir.Context, res *result.CodegenResult, id ir.ItemId) *token.Tree {
	if res.MarkItem(id) {
		return token.New()
	}
	item := ctx.ResolveItem(id)
	if item.Type == nil || item.Type.ObjCInterface == nil {
		return token.New()
	}
	res.SawObjC = true

	name := ctx.CanonicalName(id)
	info := item.Type.ObjCInterface
	traitName := name + "Methods"

	instanceSelectors := make(map[string]bool, len(info.InstanceMethods))
	for _, m := range info.InstanceMethods {
		instanceSelectors[m.Selector] = true
	}

	out := token.New()
	out.AppendTree(layout.DocAttr(item.Comment))
	out.Append("pub trait %s {\n", traitName)
	for _, m := range info.InstanceMethods {
		out.AppendTree(methodSignature(ctx, m, rustMethodName(ctx, m, false)))
	}
	for _, m := range info.ClassMethods {
		out.AppendTree(methodSignature(ctx, m, rustMethodName(ctx, m, instanceSelectors[m.Selector])))
	}
	out.Append("}\n")

	out.Append("impl %s for id {\n", traitName)
	for _, m := range info.InstanceMethods {
		out.AppendTree(methodBody(ctx, m, rustMethodName(ctx, m, false)))
	}
	for _, m := range info.ClassMethods {
		out.AppendTree(methodBody(ctx, m, rustMethodName(ctx, m, instanceSelectors[m.Selector])))
	}
	out.Append("}\n")
	return out
}

// rustMethodName derives a collision-free Rust method name for an
// Objective-C selector: each colon becomes an underscore and one trailing
// underscore is dropped, and a class method receives a
// `class_` prefix whenever an instance method exists with the same
// selector (spec.md §4.8).
func rustMethodName(ctx ir.Context, m ir.ObjCMethod, collidesWithInstance bool) string {
	n := strings.ReplaceAll(m.Selector, ":", "_")
	n = strings.TrimSuffix(n, "_")
	if m.IsClass && collidesWithInstance {
		n = "class_" + n
	}
	return ctx.Ident(n)
}

func methodSignature(ctx ir.Context, m ir.ObjCMethod, rustName string) *token.Tree {
	out := token.New()
	out.Append("    unsafe fn %s(", rustName)
	writeParams(ctx, out, m, m.IsClass)
	out.Append(")")
	writeReturn(ctx, out, m)
	out.Append(";\n")
	return out
}

func methodBody(ctx ir.Context, m ir.ObjCMethod, rustName string) *token.Tree {
	out := token.New()
	out.Append("    unsafe fn %s(", rustName)
	writeParams(ctx, out, m, m.IsClass)
	out.Append(")")
	writeReturn(ctx, out, m)
	out.Append(" {\n")
	out.Append("        msg_send![self, %s]\n", selectorCallSyntax(m))
	out.Append("    }\n")
	return out
}

func writeParams(ctx ir.Context, out *token.Tree, m ir.ObjCMethod, isClass bool) {
	recv := "&self"
	if isClass {
		recv = ""
	}
	out.Append("%s", recv)
	for i, arg := range m.Sig.Arguments {
		if i > 0 || recv != "" {
			out.Append(", ")
		}
		name := arg.Name
		if name == "" {
			name = "arg"
		}
		out.Append("%s: %s", ctx.Ident(name), typeref.ToOrOpaque(ctx, arg.Ty).String())
	}
}

func writeReturn(ctx ir.Context, out *token.Tree, m ir.ObjCMethod) {
	if !m.Sig.ReturnType.Valid() {
		return
	}
	if ret := ctx.ResolveItem(m.Sig.ReturnType); ret.Type != nil && ret.Type.Kind == ir.Void {
		return
	}
	out.Append(" -> %s", typeref.ToOrOpaque(ctx, m.Sig.ReturnType).String())
}

// selectorCallSyntax renders a selector's msg_send! argument list, e.g.
// "initWithFrame: arg1 styleMask: arg2" for a multi-keyword selector.
func selectorCallSyntax(m ir.ObjCMethod) string {
	parts := strings.Split(strings.TrimSuffix(m.Selector, ":"), ":")
	if len(parts) <= 1 {
		return m.Selector
	}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
		b.WriteString(": arg")
		b.WriteString(itoa(i + 1))
	}
	return b.String()
}

func itoa(n int) string {
	return token.Text("%d", n).String()
}
