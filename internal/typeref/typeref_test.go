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

package typeref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindgen.dev/go/ffigen/internal/config"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/typeref"
)

// fakeContext is a minimal, hand-built ir.Context for exercising the Type
// Renderer in isolation, modeled on the teacher's in-memory test fixtures
// (e.g. internal/tdp/compiler's literal descriptor-based test inputs).
type fakeContext struct {
	items   map[ir.ItemId]ir.Item
	layouts map[ir.ItemId]ir.Layout
	opts    config.Options
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		items:   make(map[ir.ItemId]ir.Item),
		layouts: make(map[ir.ItemId]ir.Layout),
		opts:    config.Default(),
	}
}

func (f *fakeContext) put(item ir.Item) ir.ItemId {
	f.items[item.ID] = item
	return item.ID
}

func (f *fakeContext) ResolveItem(id ir.ItemId) ir.Item { return f.items[id] }
func (f *fakeContext) CodegenItems() []ir.ItemId {
	ids := make([]ir.ItemId, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	return ids
}
func (f *fakeContext) RootModule() ir.ItemId      { return ir.ItemId{} }
func (f *fakeContext) Options() *config.Options   { return &f.opts }
func (f *fakeContext) Mangle(name string) string  { return name }
func (f *fakeContext) Ident(name string) string   { return name }
func (f *fakeContext) CanonicalName(id ir.ItemId) string {
	return f.items[id].Name
}
func (f *fakeContext) LayoutOf(id ir.ItemId) (ir.Layout, bool) {
	l, ok := f.layouts[id]
	return l, ok
}
func (f *fakeContext) CanDeriveDebug(ir.ItemId) bool      { return true }
func (f *fakeContext) CanDeriveDefault(ir.ItemId) bool    { return true }
func (f *fakeContext) CanDeriveCopy(ir.ItemId) bool        { return true }
func (f *fakeContext) CanDeriveHash(ir.ItemId) bool        { return true }
func (f *fakeContext) CanDerivePartialEq(ir.ItemId) bool   { return true }
func (f *fakeContext) CanDeriveEq(ir.ItemId) bool          { return true }
func (f *fakeContext) UsesTemplateParam(ir.ItemId, int) bool { return true }

func typeItem(ctx *fakeContext, id uint32, name string, ty *ir.Type) ir.ItemId {
	return ctx.put(ir.Item{ID: ir.NewItemId(id), Kind: ir.KindType, Name: name, Type: ty})
}

func TestTryVoidAndNullPtr(t *testing.T) {
	ctx := newFakeContext()
	voidID := typeItem(ctx, 1, "void", &ir.Type{Kind: ir.Void})
	nullID := typeItem(ctx, 2, "nullptr_t", &ir.Type{Kind: ir.NullPtr})

	tree, err := typeref.Try(ctx, voidID)
	require.NoError(t, err)
	assert.Equal(t, "c_void", tree.String())

	tree, err = typeref.Try(ctx, nullID)
	require.NoError(t, err)
	assert.Equal(t, "*const c_void", tree.String())
}

func TestTryIntKinds(t *testing.T) {
	ctx := newFakeContext()
	intID := typeItem(ctx, 1, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	u32ID := typeItem(ctx, 2, "uint32", &ir.Type{Kind: ir.Int, IntKind: ir.U32})

	tree, err := typeref.Try(ctx, intID)
	require.NoError(t, err)
	assert.Equal(t, "c_int", tree.String())

	tree, err = typeref.Try(ctx, u32ID)
	require.NoError(t, err)
	assert.Equal(t, "u32", tree.String())
}

func TestTryFloatKinds(t *testing.T) {
	ctx := newFakeContext()
	f64ID := typeItem(ctx, 1, "double", &ir.Type{Kind: ir.Float, FloatKind: ir.F64})

	tree, err := typeref.Try(ctx, f64ID)
	require.NoError(t, err)
	assert.Equal(t, "f64", tree.String())
}

func TestTryComplex(t *testing.T) {
	ctx := newFakeContext()
	cplxID := typeItem(ctx, 1, "complex double", &ir.Type{Kind: ir.Complex, ComplexOf: ir.F64})

	tree, err := typeref.Try(ctx, cplxID)
	require.NoError(t, err)
	assert.Equal(t, "__BindgenComplex<f64>", tree.String())
}

func TestTryArray(t *testing.T) {
	ctx := newFakeContext()
	intID := typeItem(ctx, 1, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	arrID := typeItem(ctx, 2, "int[4]", &ir.Type{Kind: ir.Array, Inner: intID, ArrayLen: 4})

	tree, err := typeref.Try(ctx, arrID)
	require.NoError(t, err)
	assert.Equal(t, "[c_int; 4]", tree.String())
}

func TestTryPointerConstAndMut(t *testing.T) {
	ctx := newFakeContext()
	intID := typeItem(ctx, 1, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	constIntID := typeItem(ctx, 2, "const int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt, IsConst: true})
	mutPtrID := typeItem(ctx, 3, "int*", &ir.Type{Kind: ir.Pointer, Inner: intID})
	constPtrID := typeItem(ctx, 4, "const int*", &ir.Type{Kind: ir.Pointer, Inner: constIntID})

	tree, err := typeref.Try(ctx, mutPtrID)
	require.NoError(t, err)
	assert.Equal(t, "*mut c_int", tree.String())

	tree, err = typeref.Try(ctx, constPtrID)
	require.NoError(t, err)
	assert.Equal(t, "*const c_int", tree.String())
}

func TestTryFunctionPointerPointeeSkipsDoubleWrap(t *testing.T) {
	ctx := newFakeContext()
	voidID := typeItem(ctx, 1, "void", &ir.Type{Kind: ir.Void})
	sig := &ir.FunctionSig{ReturnType: voidID, ABI: "C"}
	fnID := typeItem(ctx, 2, "void()", &ir.Type{Kind: ir.Function, Sig: sig})
	fnPtrID := typeItem(ctx, 3, "void(*)()", &ir.Type{Kind: ir.Pointer, Inner: fnID})

	tree, err := typeref.Try(ctx, fnPtrID)
	require.NoError(t, err)
	assert.Equal(t, `Option<unsafe extern "C" fn()>`, tree.String())
}

func TestTryFunctionWithArgsAndReturn(t *testing.T) {
	ctx := newFakeContext()
	intID := typeItem(ctx, 1, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	sig := &ir.FunctionSig{
		ReturnType: intID,
		Arguments:  []ir.Argument{{Name: "a", Ty: intID}, {Name: "b", Ty: intID}},
		ABI:        "C",
	}
	fnID := typeItem(ctx, 2, "int(int,int)", &ir.Type{Kind: ir.Function, Sig: sig})

	tree, err := typeref.Try(ctx, fnID)
	require.NoError(t, err)
	assert.Equal(t, `Option<unsafe extern "C" fn(c_int, c_int) -> c_int>`, tree.String())
}

func TestTryVariadicFunction(t *testing.T) {
	ctx := newFakeContext()
	voidID := typeItem(ctx, 1, "void", &ir.Type{Kind: ir.Void})
	intID := typeItem(ctx, 2, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	sig := &ir.FunctionSig{
		ReturnType: voidID,
		Arguments:  []ir.Argument{{Name: "fmt", Ty: intID}},
		ABI:        "C",
		IsVariadic: true,
	}
	fnID := typeItem(ctx, 3, "void(int,...)", &ir.Type{Kind: ir.Function, Sig: sig})

	tree, err := typeref.Try(ctx, fnID)
	require.NoError(t, err)
	assert.Equal(t, `Option<unsafe extern "C" fn(c_int, ...)>`, tree.String())
}

func TestTryRecognizedAlias(t *testing.T) {
	ctx := newFakeContext()
	intID := typeItem(ctx, 1, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	aliasID := typeItem(ctx, 2, "uint32_t", &ir.Type{Kind: ir.Alias, Inner: intID})

	tree, err := typeref.Try(ctx, aliasID)
	require.NoError(t, err)
	assert.Equal(t, "u32", tree.String())
}

func TestTryOpaqueAliasOfGenericFails(t *testing.T) {
	ctx := newFakeContext()
	paramID := typeItem(ctx, 1, "T", &ir.Type{Kind: ir.TypeParam, ParamIndex: 0})
	aliasID := typeItem(ctx, 2, "MyOpaqueAlias", &ir.Type{
		Kind:           ir.Alias,
		Inner:          paramID,
		IsOpaque:       true,
		TemplateParams: []ir.ItemId{paramID},
	})

	_, err := typeref.Try(ctx, aliasID)
	require.Error(t, err)
}

func TestTryTemplateInstantiationOfOpaqueDefinitionFails(t *testing.T) {
	ctx := newFakeContext()
	defID := typeItem(ctx, 1, "Vector", &ir.Type{Kind: ir.Comp, IsOpaque: true, CompInfo: &ir.CompInfo{}})
	intID := typeItem(ctx, 2, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	instID := typeItem(ctx, 3, "Vector<int>", &ir.Type{
		Kind:         ir.TemplateInstantiation,
		TemplateDef:  defID,
		TemplateArgs: []ir.ItemId{intID},
	})

	_, err := typeref.Try(ctx, instID)
	require.Error(t, err)
}

func TestToOrOpaqueFallsBackOnError(t *testing.T) {
	ctx := newFakeContext()
	defID := typeItem(ctx, 1, "Vector", &ir.Type{Kind: ir.Comp, IsOpaque: true, CompInfo: &ir.CompInfo{}})
	intID := typeItem(ctx, 2, "int", &ir.Type{Kind: ir.Int, IntKind: ir.IntInt})
	instID := typeItem(ctx, 3, "Vector<int>", &ir.Type{
		Kind:         ir.TemplateInstantiation,
		TemplateDef:  defID,
		TemplateArgs: []ir.ItemId{intID},
	})
	ctx.layouts[instID] = ir.Layout{SizeBytes: 24, AlignBytes: 8}

	tree := typeref.ToOrOpaque(ctx, instID)
	assert.Equal(t, "[u8; 24]", tree.String())
}

func TestToOrOpaqueDefaultsToOneByteWithNoLayout(t *testing.T) {
	ctx := newFakeContext()
	defID := typeItem(ctx, 1, "Vector", &ir.Type{Kind: ir.Comp, IsOpaque: true, CompInfo: &ir.CompInfo{}})
	instID := typeItem(ctx, 2, "Vector<?>", &ir.Type{Kind: ir.TemplateInstantiation, TemplateDef: defID})

	tree := typeref.ToOrOpaque(ctx, instID)
	assert.Equal(t, "[u8; 1]", tree.String())
}

func TestTryCompWithNonTypeTemplateParamsFails(t *testing.T) {
	ctx := newFakeContext()
	compID := typeItem(ctx, 1, "Array", &ir.Type{
		Kind:     ir.Comp,
		CompInfo: &ir.CompInfo{HasNonTypeTemplateParams: true},
	})

	_, err := typeref.Try(ctx, compID)
	require.Error(t, err)
}

func TestTryObjC(t *testing.T) {
	ctx := newFakeContext()
	idID := typeItem(ctx, 1, "id", &ir.Type{Kind: ir.ObjCId})
	selID := typeItem(ctx, 2, "SEL", &ir.Type{Kind: ir.ObjCSel})

	tree, err := typeref.Try(ctx, idID)
	require.NoError(t, err)
	assert.Equal(t, "id", tree.String())

	tree, err = typeref.Try(ctx, selID)
	require.NoError(t, err)
	assert.Equal(t, "SEL", tree.String())
}
