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

// Package module implements the Module Emitter & Root Driver (spec.md
// §4.1): walks the IR depth-first from the root module, dispatching each
// item to the Composite, Enum, Function/Variable or Objective-C emitter,
// wrapping namespaces in `pub mod` blocks when namespace mode is enabled,
// and prepending the one-shot helper types the pass turned out to need.
//
// It is grounded on the teacher's internal/tdp/compiler top-level Compile
// entry point (the analogous "walk a tree of descriptors, dispatch each
// leaf to its specialized codec, and assemble the result" driver).
package module

import (
	"fmt"
	"iter"
	"strings"

	"bindgen.dev/go/ffigen/internal/cgerr"
	"bindgen.dev/go/ffigen/internal/composite"
	"bindgen.dev/go/ffigen/internal/enumgen"
	"bindgen.dev/go/ffigen/internal/extern"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/objcgen"
	"bindgen.dev/go/ffigen/internal/result"
	"bindgen.dev/go/ffigen/internal/scc"
	"bindgen.dev/go/ffigen/internal/token"
	"bindgen.dev/go/ffigen/internal/typeref"
)

// Generate runs a complete codegen pass starting at ctx.RootModule() and
// returns the accumulated result (spec.md §3's top-level operation). A
// cgerr.FatalError raised anywhere during the walk (spec.md §7's
// UnknownABI / UnresolvedReference) is recovered here and returned as a
// plain error; every other emitter failure is already handled locally by
// falling back to an opaque rendering, so Generate itself cannot fail for
// any other reason.
func Generate(ctx ir.Context) (res *result.CodegenResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			if fe, ok := p.(*cgerr.FatalError); ok {
				err = fe
				return
			}
			panic(p)
		}
	}()

	res = result.New()
	walkModule(ctx, res, ctx.RootModule(), ctx.Options().EnableCxxNamespaces, 0)
	prependHelpers(res)
	return res, nil
}

// walkModule recurses through id's children, appending whatever each one
// emits to res. When namespaceMode is set and id is not the crate root, a
// non-empty scope is wrapped in `pub mod <name> { ... }`; when it is unset,
// every item is flattened directly into res regardless of its original
// C++ namespace nesting (spec.md §4.1).
//
// depth is id's codegen depth: the number of enclosing `pub mod` scopes
// between id and the crate root (the root itself is depth 0). It is used
// only to size the `self::super::...::root` import line emitted for id's
// own scope; a module collapsed because it is an inline namespace is
// transparent and does not consume a depth level, so its children are
// walked at depth-1's value, not depth's (spec.md §4.1, §8 "codegen depth").
func walkModule(ctx ir.Context, res *result.CodegenResult, id ir.ItemId, namespaceMode bool, depth int) {
	item := ctx.ResolveItem(id)
	if item.Annotations.Hidden || item.Module == nil {
		return
	}
	if item.Module.Inline && !ctx.Options().ConservativeInlineNamespaces {
		// Collapsed into the parent: emit children directly into res, at
		// the parent's depth since this module contributes no scope of
		// its own.
		for _, child := range item.Module.Children {
			walkItem(ctx, res, child, namespaceMode, depth-1)
		}
		return
	}

	ordered := orderChildren(ctx, item.Module.Children)

	isRoot := id == ctx.RootModule()
	if !namespaceMode || isRoot {
		for _, child := range ordered {
			walkItem(ctx, res, child, namespaceMode, depth)
		}
		return
	}

	child := res.Child()
	for _, c := range ordered {
		walkItem(ctx, child, c, namespaceMode, depth)
	}
	scope := token.New()
	if len(child.Items) > 0 {
		scope.Append("pub mod %s {\n", ctx.Ident(item.Name))
		scope.Append("    #[allow(unused_imports)]\n")
		scope.Append("    use %s;\n", rootImportPath(ctx, depth))
		for _, it := range child.Items {
			scope.AppendTree(it)
		}
		scope.Append("}\n")
	}
	res.Merge(child, scope)
}

// rootImportPath builds the `self::super::...::root` path that reaches the
// crate root from a scope at the given codegen depth: "self" followed by
// one "super" per depth, followed by the root module's identifier. Grounded
// on original_source/src/codegen/mod.rs's top_level_path/root_import (the
// path is `self` plus one `super` per item.codegen_depth(ctx), not a fixed
// two-segment path).
func rootImportPath(ctx ir.Context, depth int) string {
	var b strings.Builder
	b.WriteString("self")
	for i := 0; i < depth; i++ {
		b.WriteString("::super")
	}
	b.WriteString("::")
	b.WriteString(ctx.Ident(ctx.CanonicalName(ctx.RootModule())))
	return b.String()
}

// sccNode is internal/scc's graph node for a single module's children: a
// synthetic root fans out to every child, and each composite/alias child
// fans out to whichever of its sibling children it references directly
// (base classes, data-member field types, alias targets). Using a
// synthetic root lets one scc.Sort call produce a stable topological
// order over the whole sibling list instead of one call per child.
type sccNode struct {
	id   ir.ItemId
	root bool
}

// orderChildren reorders id's children so that, within a single module's
// emitted sequence, a composite's dependencies (base classes, field types,
// alias targets) that are themselves siblings in the same module are
// emitted before it. This mirrors the teacher's internal/scc use for
// turning a possibly cyclic reference graph into a deterministic
// dependency-before-dependent order (mutual recursion collapses into one
// strongly-connected component, emitted in original discovery order).
func orderChildren(ctx ir.Context, children []ir.ItemId) []ir.ItemId {
	if len(children) < 2 {
		return children
	}
	siblings := make(map[ir.ItemId]bool, len(children))
	for _, c := range children {
		siblings[c] = true
	}

	graph := func(n sccNode) iter.Seq[sccNode] {
		return func(yield func(sccNode) bool) {
			if n.root {
				for _, c := range children {
					if !yield(sccNode{id: c}) {
						return
					}
				}
				return
			}
			item := ctx.ResolveItem(n.id)
			if item.Kind != ir.KindType || item.Type == nil {
				return
			}
			switch item.Type.Kind {
			case ir.Comp:
				if item.Type.CompInfo == nil {
					return
				}
				for _, b := range item.Type.CompInfo.BaseMembers {
					if siblings[b.Ty] && !yield(sccNode{id: b.Ty}) {
						return
					}
				}
				for _, f := range item.Type.CompInfo.Fields {
					if f.Kind == ir.DataMember && siblings[f.Ty] && !yield(sccNode{id: f.Ty}) {
						return
					}
				}
			case ir.Alias, ir.TemplateAlias:
				if siblings[item.Type.Inner] {
					yield(sccNode{id: item.Type.Inner})
				}
			}
		}
	}

	dag := scc.Sort(sccNode{root: true}, graph)
	out := make([]ir.ItemId, 0, len(children))
	for comp := range dag.Topological() {
		for _, m := range comp.Members() {
			if m.root {
				continue
			}
			out = append(out, m.id)
		}
	}
	return out
}

// walkItem dispatches a single non-module item to its emitter, or recurses
// if it is itself a nested module. depth is threaded straight through
// except when id is itself a nested module, which is one codegen depth
// deeper than its parent (see walkModule).
func walkItem(ctx ir.Context, res *result.CodegenResult, id ir.ItemId, namespaceMode bool, depth int) {
	item := ctx.ResolveItem(id)
	if item.Annotations.Hidden || !item.Annotations.Whitelisted {
		return
	}

	cfg := ctx.Options().Codegen
	switch item.Kind {
	case ir.KindModule:
		walkModule(ctx, res, id, namespaceMode, depth+1)

	case ir.KindFunction:
		if cfg.Functions {
			res.Push(extern.EmitFunction(ctx, res, id))
		}

	case ir.KindVar:
		if cfg.Vars {
			res.Push(extern.EmitVariable(ctx, res, id))
		}

	case ir.KindType:
		walkType(ctx, res, id, item, namespaceMode, depth)
	}
}

func walkType(ctx ir.Context, res *result.CodegenResult, id ir.ItemId, item ir.Item, namespaceMode bool, depth int) {
	if item.Type == nil {
		return
	}
	cfg := ctx.Options().Codegen

	switch item.Type.Kind {
	case ir.Comp:
		if !cfg.Types {
			return
		}
		res.Push(composite.Emit(ctx, res, id))
		if info := item.Type.CompInfo; info != nil {
			for _, inner := range info.InnerTypes {
				walkItem(ctx, res, inner, namespaceMode, depth)
			}
			for _, inner := range info.InnerVars {
				walkItem(ctx, res, inner, namespaceMode, depth)
			}
		}

	case ir.Enum:
		if cfg.Types {
			res.Push(enumgen.Emit(ctx, res, id))
		}

	case ir.ObjCInterface:
		res.Push(objcgen.Emit(ctx, res, id))

	case ir.Alias, ir.TemplateAlias:
		if cfg.Types && !res.MarkItem(id) {
			res.Push(aliasDecl(ctx, id, item))
		}

	case ir.TemplateInstantiation:
		// Uses of an instantiation are rendered inline wherever they are
		// referenced (typeref.Try); the only thing a root-reachable
		// instantiation contributes on its own is a standalone layout
		// test (spec.md §8 Scenario 2), grounded on original_source's
		// `impl CodeGenerator for TemplateInstantiation`.
		res.Push(instantiationLayoutTest(ctx, res, id, item))
	}
}

// instantiationLayoutTest emits the `#[test]` asserting a concrete template
// instantiation's size_of/align_of, mirroring
// original_source/src/codegen/mod.rs's TemplateInstantiation::codegen: it
// is skipped when layout tests are disabled, when the instantiation is
// opaque, when any of its template arguments are themselves still an
// unbound type parameter, or when no layout is known.
func instantiationLayoutTest(ctx ir.Context, res *result.CodegenResult, id ir.ItemId, item ir.Item) *token.Tree {
	ty := item.Type
	if !ctx.Options().LayoutTests || ty.IsOpaque || ty.Layout == nil {
		return token.New()
	}
	for _, arg := range ty.TemplateArgs {
		argItem := ctx.ResolveItem(arg)
		if argItem.Type != nil && argItem.Type.Kind == ir.TypeParam {
			return token.New()
		}
	}

	name := ctx.CanonicalName(id)
	fnName := fmt.Sprintf("__bindgen_test_layout_%s_instantiation", name)
	if n := res.NextOverload(fnName); n > 0 {
		fnName = fmt.Sprintf("%s_%d", fnName, n)
	}
	ident := typeref.ToOrOpaque(ctx, id).String()

	out := token.New()
	out.Append("#[test]\n")
	out.Append("fn %s() {\n", fnName)
	out.Append("    assert_eq!(::std::mem::size_of::<%s>(), %d, \"Size of template specialization: %s\");\n", ident, ty.Layout.SizeBytes, ident)
	out.Append("    assert_eq!(::std::mem::align_of::<%s>(), %d, \"Alignment of template specialization: %s\");\n", ident, ty.Layout.AlignBytes, ident)
	out.Append("}\n")
	return out
}

func aliasDecl(ctx ir.Context, id ir.ItemId, item ir.Item) *token.Tree {
	inner := item.Type.Inner
	if !inner.Valid() {
		return token.New()
	}
	name := ctx.CanonicalName(id)
	return token.Text("pub type %s = %s;\n", name, renderAliasTarget(ctx, inner))
}

func renderAliasTarget(ctx ir.Context, inner ir.ItemId) string {
	t, err := typeref.Try(ctx, inner)
	if err != nil {
		return typeref.ToOrOpaque(ctx, inner).String()
	}
	return t.String()
}

// prependHelpers inserts the fixed-order helper-type preamble
// (spec.md §4.1): Objective-C prelude, then complex-number wrapper, then
// incomplete-array wrapper, then union-field wrapper. Each is gated by the
// corresponding CodegenResult.Saw* flag; bitfield storage needs no helper
// of its own (see helpers.go).
func prependHelpers(res *result.CodegenResult) {
	if res.SawBindgenUnion {
		res.Prepend(unionFieldWrapper())
	}
	if res.SawIncompleteArray {
		res.Prepend(incompleteArrayWrapper())
	}
	if res.SawComplex {
		res.Prepend(complexWrapper())
	}
	if res.SawObjC {
		res.Prepend(objcPrelude())
	}
}
