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

package composite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bindgen.dev/go/ffigen/internal/composite"
	"bindgen.dev/go/ffigen/internal/config"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/result"
)

type fakeContext struct {
	items       map[ir.ItemId]ir.Item
	layouts     map[ir.ItemId]ir.Layout
	names       map[ir.ItemId]string
	notCopyable map[ir.ItemId]bool
	opts        config.Options
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		items:       make(map[ir.ItemId]ir.Item),
		layouts:     make(map[ir.ItemId]ir.Layout),
		names:       make(map[ir.ItemId]string),
		notCopyable: make(map[ir.ItemId]bool),
		opts:        config.Default(),
	}
}

func (f *fakeContext) put(item ir.Item, l ir.Layout) ir.ItemId {
	item.Annotations.Whitelisted = true
	f.items[item.ID] = item
	f.layouts[item.ID] = l
	f.names[item.ID] = item.Name
	return item.ID
}

func (f *fakeContext) ResolveItem(id ir.ItemId) ir.Item { return f.items[id] }
func (f *fakeContext) CodegenItems() []ir.ItemId        { return nil }
func (f *fakeContext) RootModule() ir.ItemId            { return ir.ItemId{} }
func (f *fakeContext) Options() *config.Options         { return &f.opts }
func (f *fakeContext) Mangle(name string) string        { return name }
func (f *fakeContext) Ident(name string) string         { return name }
func (f *fakeContext) CanonicalName(id ir.ItemId) string { return f.names[id] }
func (f *fakeContext) LayoutOf(id ir.ItemId) (ir.Layout, bool) {
	l, ok := f.layouts[id]
	return l, ok
}
func (f *fakeContext) CanDeriveDebug(ir.ItemId) bool     { return true }
func (f *fakeContext) CanDeriveDefault(ir.ItemId) bool   { return true }
func (f *fakeContext) CanDeriveCopy(id ir.ItemId) bool   { return !f.notCopyable[id] }
func (f *fakeContext) CanDeriveHash(ir.ItemId) bool      { return true }
func (f *fakeContext) CanDerivePartialEq(ir.ItemId) bool { return true }
func (f *fakeContext) CanDeriveEq(ir.ItemId) bool        { return true }
func (f *fakeContext) UsesTemplateParam(ir.ItemId, int) bool { return true }

func TestEmitSimpleStructWithBitfield(t *testing.T) {
	ctx := newFakeContext()
	u8ID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "unsigned char", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntUChar}}, ir.Layout{SizeBytes: 1, AlignBytes: 1})
	intID := ctx.put(ir.Item{ID: ir.NewItemId(2), Kind: ir.KindType, Name: "int", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntInt}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})

	compID := ir.NewItemId(3)
	off0 := int64(0)
	info := &ir.CompInfo{
		Kind: ir.CompStruct,
		Fields: []ir.Field{
			{
				Kind:       ir.BitfieldUnit,
				UnitLayout: ir.Layout{SizeBytes: 1, AlignBytes: 1},
				Bitfields: []ir.Field{
					{Name: "flag", Ty: u8ID, Bitfield: &ir.BitfieldInfo{OffsetInUnit: 0, Width: 1}},
				},
			},
			{Kind: ir.DataMember, Name: "value", Ty: intID, OffsetBits: &off0},
		},
	}
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "Thing", Type: &ir.Type{Kind: ir.Comp, CompInfo: info}}, ir.Layout{SizeBytes: 8, AlignBytes: 4})

	out := composite.Emit(ctx, result.New(), compID).String()
	assert.Contains(t, out, "pub struct Thing {")
	assert.Contains(t, out, "pub _bitfield_1: u8,")
	assert.Contains(t, out, "pub fn flag(&self)")
	assert.Contains(t, out, "#[test]")
	assert.Contains(t, out, "fn bindgen_test_layout_Thing_")
}

func TestEmitIdempotent(t *testing.T) {
	ctx := newFakeContext()
	compID := ir.NewItemId(1)
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "Empty", Type: &ir.Type{Kind: ir.Comp, CompInfo: &ir.CompInfo{Kind: ir.CompStruct}}}, ir.Layout{SizeBytes: 1, AlignBytes: 1})

	res := result.New()
	first := composite.Emit(ctx, res, compID)
	second := composite.Emit(ctx, res, compID)
	assert.False(t, first.Empty())
	assert.True(t, second.Empty())
}

func TestEmitUnionWrapsNonCopyMembers(t *testing.T) {
	ctx := newFakeContext()
	intID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "int", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntInt}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})
	ptrTargetID := ir.NewItemId(2)
	ctx.notCopyable[ptrTargetID] = true
	ctx.put(ir.Item{ID: ptrTargetID, Kind: ir.KindType, Name: "NonCopyable", Type: &ir.Type{Kind: ir.Comp, CompInfo: &ir.CompInfo{Kind: ir.CompStruct}}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})

	compID := ir.NewItemId(3)
	info := &ir.CompInfo{
		Kind: ir.CompUnion,
		Fields: []ir.Field{
			{Kind: ir.DataMember, Name: "asInt", Ty: intID},
			{Kind: ir.DataMember, Name: "asOther", Ty: ptrTargetID},
		},
	}
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "U", Type: &ir.Type{Kind: ir.Comp, CompInfo: info}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})

	res := result.New()
	out := composite.Emit(ctx, res, compID).String()
	assert.Contains(t, out, "pub struct U {")
	assert.Contains(t, out, "__BindgenUnionField<c_int>")
	assert.True(t, res.SawBindgenUnion)
	assert.True(t, res.SawUnion)
}

func TestEmitNonTemplatedCopyGetsManualCloneImpl(t *testing.T) {
	ctx := newFakeContext()
	u8ID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "unsigned char", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntUChar}}, ir.Layout{SizeBytes: 1, AlignBytes: 1})

	compID := ir.NewItemId(2)
	info := &ir.CompInfo{
		Kind: ir.CompStruct,
		Fields: []ir.Field{
			{
				Kind:       ir.BitfieldUnit,
				UnitLayout: ir.Layout{SizeBytes: 1, AlignBytes: 1},
				Bitfields: []ir.Field{
					{Name: "a", Ty: u8ID, Bitfield: &ir.BitfieldInfo{OffsetInUnit: 0, Width: 1}},
				},
			},
		},
	}
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "C", Type: &ir.Type{Kind: ir.Comp, CompInfo: info}}, ir.Layout{SizeBytes: 1, AlignBytes: 1})

	out := composite.Emit(ctx, result.New(), compID).String()
	assert.Contains(t, out, "#[derive(Debug, Default, Copy, Hash, PartialEq, Eq)]")
	assert.NotContains(t, out, "Copy, Clone")
	assert.Contains(t, out, "impl Clone for C {")
	assert.Contains(t, out, "fn clone(&self) -> Self {")
	assert.Contains(t, out, "*self")
}

func TestEmitTemplatedCopyDerivesCloneInstead(t *testing.T) {
	ctx := newFakeContext()
	paramID := ir.NewItemId(1)
	ctx.put(ir.Item{ID: paramID, Kind: ir.KindType, Name: "T", Type: &ir.Type{Kind: ir.TypeParam}}, ir.Layout{})

	compID := ir.NewItemId(2)
	info := &ir.CompInfo{
		Kind:           ir.CompStruct,
		Fields:         []ir.Field{{Kind: ir.DataMember, Name: "data", Ty: paramID}},
		TemplateParams: []ir.ItemId{paramID},
	}
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "Foo", Type: &ir.Type{Kind: ir.Comp, CompInfo: info}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})

	out := composite.Emit(ctx, result.New(), compID).String()
	assert.Contains(t, out, "Copy, Clone")
	assert.NotContains(t, out, "impl Clone for Foo")
}

func TestEmitAllCopyUnionStaysNative(t *testing.T) {
	ctx := newFakeContext()
	intID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "int", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntInt}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})
	floatID := ctx.put(ir.Item{ID: ir.NewItemId(2), Kind: ir.KindType, Name: "float", Type: &ir.Type{Kind: ir.Float, FloatKind: ir.F32}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})

	compID := ir.NewItemId(3)
	info := &ir.CompInfo{
		Kind: ir.CompUnion,
		Fields: []ir.Field{
			{Kind: ir.DataMember, Name: "asInt", Ty: intID},
			{Kind: ir.DataMember, Name: "asFloat", Ty: floatID},
		},
	}
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "U", Type: &ir.Type{Kind: ir.Comp, CompInfo: info}}, ir.Layout{SizeBytes: 4, AlignBytes: 4})

	res := result.New()
	out := composite.Emit(ctx, res, compID).String()
	assert.Contains(t, out, "pub union U {")
	assert.False(t, res.SawBindgenUnion)
}
