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

package module_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindgen.dev/go/ffigen/internal/config"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/module"
)

type fakeContext struct {
	items map[ir.ItemId]ir.Item
	names map[ir.ItemId]string
	root  ir.ItemId
	opts  config.Options
}

func newFakeContext() *fakeContext {
	return &fakeContext{items: make(map[ir.ItemId]ir.Item), names: make(map[ir.ItemId]string), opts: config.Default()}
}

func (f *fakeContext) put(item ir.Item) ir.ItemId {
	item.Annotations.Whitelisted = true
	f.items[item.ID] = item
	f.names[item.ID] = item.Name
	return item.ID
}

func (f *fakeContext) ResolveItem(id ir.ItemId) ir.Item      { return f.items[id] }
func (f *fakeContext) CodegenItems() []ir.ItemId             { return nil }
func (f *fakeContext) RootModule() ir.ItemId                 { return f.root }
func (f *fakeContext) Options() *config.Options              { return &f.opts }
func (f *fakeContext) Mangle(name string) string             { return name }
func (f *fakeContext) Ident(name string) string              { return name }
func (f *fakeContext) CanonicalName(id ir.ItemId) string      { return f.names[id] }
func (f *fakeContext) LayoutOf(id ir.ItemId) (ir.Layout, bool) {
	return ir.Layout{SizeBytes: 4, AlignBytes: 4}, true
}
func (f *fakeContext) CanDeriveDebug(ir.ItemId) bool         { return true }
func (f *fakeContext) CanDeriveDefault(ir.ItemId) bool       { return true }
func (f *fakeContext) CanDeriveCopy(ir.ItemId) bool          { return true }
func (f *fakeContext) CanDeriveHash(ir.ItemId) bool          { return true }
func (f *fakeContext) CanDerivePartialEq(ir.ItemId) bool     { return true }
func (f *fakeContext) CanDeriveEq(ir.ItemId) bool            { return true }
func (f *fakeContext) UsesTemplateParam(ir.ItemId, int) bool { return true }

func TestGenerateFlatMode(t *testing.T) {
	ctx := newFakeContext()
	intID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "int", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntInt}})
	compID := ir.NewItemId(2)
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "Point", Type: &ir.Type{
		Kind: ir.Comp,
		CompInfo: &ir.CompInfo{
			Kind:   ir.CompStruct,
			Fields: []ir.Field{{Kind: ir.DataMember, Name: "x", Ty: intID}},
		},
	}})
	rootID := ir.NewItemId(3)
	ctx.root = rootID
	ctx.put(ir.Item{ID: rootID, Kind: ir.KindModule, Name: "root", Module: &ir.ModuleData{Children: []ir.ItemId{compID}}})

	res, err := module.Generate(ctx)
	require.NoError(t, err)

	var all string
	for _, it := range res.Items {
		all += it.String()
	}
	assert.Contains(t, all, "pub struct Point {")
}

func TestGenerateOrdersDependenciesBeforeDependents(t *testing.T) {
	ctx := newFakeContext()
	// Declare Line (which embeds Point by value) before Point itself: the
	// emitted order must still put Point first.
	pointID := ir.NewItemId(2)
	lineID := ir.NewItemId(1)
	ctx.put(ir.Item{ID: lineID, Kind: ir.KindType, Name: "Line", Type: &ir.Type{
		Kind: ir.Comp,
		CompInfo: &ir.CompInfo{
			Kind:   ir.CompStruct,
			Fields: []ir.Field{{Kind: ir.DataMember, Name: "start", Ty: pointID}},
		},
	}})
	ctx.put(ir.Item{ID: pointID, Kind: ir.KindType, Name: "Point", Type: &ir.Type{
		Kind: ir.Comp,
		CompInfo: &ir.CompInfo{
			Kind:   ir.CompStruct,
			Fields: []ir.Field{{Kind: ir.DataMember, Name: "x", Ty: ir.NewItemId(99)}},
		},
	}})
	rootID := ir.NewItemId(3)
	ctx.root = rootID
	ctx.put(ir.Item{ID: rootID, Kind: ir.KindModule, Name: "root", Module: &ir.ModuleData{Children: []ir.ItemId{lineID, pointID}}})

	res, err := module.Generate(ctx)
	require.NoError(t, err)

	var all string
	for _, it := range res.Items {
		all += it.String()
	}
	pointAt := strings.Index(all, "pub struct Point {")
	lineAt := strings.Index(all, "pub struct Line {")
	require.NotEqual(t, -1, pointAt)
	require.NotEqual(t, -1, lineAt)
	assert.Less(t, pointAt, lineAt)
}

func TestGenerateNamespaceModeWrapsModule(t *testing.T) {
	ctx := newFakeContext()
	ctx.opts.EnableCxxNamespaces = true

	intID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "int", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntInt}})
	compID := ir.NewItemId(2)
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "Point", Type: &ir.Type{
		Kind: ir.Comp,
		CompInfo: &ir.CompInfo{
			Kind:   ir.CompStruct,
			Fields: []ir.Field{{Kind: ir.DataMember, Name: "x", Ty: intID}},
		},
	}})
	nsID := ir.NewItemId(3)
	ctx.put(ir.Item{ID: nsID, Kind: ir.KindModule, Name: "geo", Module: &ir.ModuleData{Children: []ir.ItemId{compID}}})
	rootID := ir.NewItemId(4)
	ctx.root = rootID
	ctx.put(ir.Item{ID: rootID, Kind: ir.KindModule, Name: "root", Module: &ir.ModuleData{Children: []ir.ItemId{nsID}}})

	res, err := module.Generate(ctx)
	require.NoError(t, err)

	var all string
	for _, it := range res.Items {
		all += it.String()
	}
	assert.Contains(t, all, "pub mod geo {")
	assert.Contains(t, all, "use self::super::root;")
}

func TestGenerateNamespaceModeNestedDepthTwo(t *testing.T) {
	ctx := newFakeContext()
	ctx.opts.EnableCxxNamespaces = true

	intID := ctx.put(ir.Item{ID: ir.NewItemId(1), Kind: ir.KindType, Name: "int", Type: &ir.Type{Kind: ir.Int, IntKind: ir.IntInt}})
	compID := ir.NewItemId(2)
	ctx.put(ir.Item{ID: compID, Kind: ir.KindType, Name: "Point", Type: &ir.Type{
		Kind: ir.Comp,
		CompInfo: &ir.CompInfo{
			Kind:   ir.CompStruct,
			Fields: []ir.Field{{Kind: ir.DataMember, Name: "x", Ty: intID}},
		},
	}})
	innerID := ir.NewItemId(3)
	ctx.put(ir.Item{ID: innerID, Kind: ir.KindModule, Name: "inner", Module: &ir.ModuleData{Children: []ir.ItemId{compID}}})
	outerID := ir.NewItemId(4)
	ctx.put(ir.Item{ID: outerID, Kind: ir.KindModule, Name: "outer", Module: &ir.ModuleData{Children: []ir.ItemId{innerID}}})
	rootID := ir.NewItemId(5)
	ctx.root = rootID
	ctx.put(ir.Item{ID: rootID, Kind: ir.KindModule, Name: "root", Module: &ir.ModuleData{Children: []ir.ItemId{outerID}}})

	res, err := module.Generate(ctx)
	require.NoError(t, err)

	var all string
	for _, it := range res.Items {
		all += it.String()
	}
	assert.Contains(t, all, "pub mod outer {")
	assert.Contains(t, all, "use self::super::root;")
	assert.Contains(t, all, "pub mod inner {")
	assert.Contains(t, all, "use self::super::super::root;")
}
