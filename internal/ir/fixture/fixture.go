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

// Package fixture builds a literal, in-memory ir.Context from a small YAML
// description, for use by other packages' test suites that want a
// multi-item graph (a composite referencing a handful of primitive types,
// say) without hand-assembling every ir.Item field by field.
//
// It is grounded on the teacher's testdata-driven table tests (YAML/JSON
// literal fixtures decoded with gopkg.in/yaml.v3 and fed straight into the
// unit under test), generalized from protobuf wire fixtures to IR graph
// fixtures.
//
// This package is test-only scaffolding (it is never imported by
// non-_test.go code) and is intentionally limited to the subset of the IR
// the retrieved test suites actually exercise: primitive int/float types,
// plain structs and unions with ordinary data-member fields, and enums, as
// "type" items inside "module" items; functions and variables are not
// supported. Bitfields, templates and Objective-C interfaces are rich
// enough that their tests build literal ir.Item values directly instead.
package fixture

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"

	"bindgen.dev/go/ffigen/internal/config"
	"bindgen.dev/go/ffigen/internal/ir"
)

// Doc is the top-level YAML shape Parse expects.
type Doc struct {
	Root  string     `yaml:"root"`
	Items []ItemSpec `yaml:"items"`
}

// ItemSpec is one YAML-literal IR item.
type ItemSpec struct {
	ID       uint32    `yaml:"id"`
	Kind     string    `yaml:"kind"` // "type" | "module"
	Name     string    `yaml:"name"`
	Children []uint32  `yaml:"children"`
	Type     *TypeSpec `yaml:"type"`
}

// TypeSpec is one YAML-literal Type payload.
type TypeSpec struct {
	Kind     string        `yaml:"kind"` // "void" | "int" | "float" | "comp" | "enum" | "alias"
	IntKind  string        `yaml:"intKind"`
	Inner    uint32        `yaml:"inner"`
	CompKind string        `yaml:"compKind"` // "struct" | "union"
	Fields   []FieldSpec   `yaml:"fields"`
	Variants []VariantSpec `yaml:"variants"`
}

// FieldSpec is one YAML-literal composite field.
type FieldSpec struct {
	Name string `yaml:"name"`
	Ty   uint32 `yaml:"ty"`
}

// VariantSpec is one YAML-literal enum variant.
type VariantSpec struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

var intKinds = map[string]ir.IntKind{
	"char": ir.IntChar, "int": ir.IntInt, "uchar": ir.IntUChar,
	"u8": ir.U8, "u16": ir.U16, "u32": ir.U32, "u64": ir.U64,
	"i8": ir.I8, "i16": ir.I16, "i32": ir.I32, "i64": ir.I64,
}

// Parse decodes a YAML fixture document into a Fixture.
func Parse(yamlText string) (*Fixture, error) {
	var doc Doc
	if err := yaml.Unmarshal([]byte(yamlText), &doc); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return build(&doc)
}

func build(doc *Doc) (*Fixture, error) {
	f := &Fixture{
		items: make(map[ir.ItemId]ir.Item),
		names: make(map[ir.ItemId]string),
		opts:  config.Default(),
	}

	var rootID ir.ItemId
	for _, spec := range doc.Items {
		id := ir.NewItemId(spec.ID)
		item := ir.Item{ID: id, Name: spec.Name, Annotations: ir.Annotations{Whitelisted: true}}

		switch spec.Kind {
		case "module":
			item.Kind = ir.KindModule
			children := make([]ir.ItemId, len(spec.Children))
			for i, c := range spec.Children {
				children[i] = ir.NewItemId(c)
			}
			item.Module = &ir.ModuleData{Children: children}
		case "type":
			item.Kind = ir.KindType
			ty, err := buildType(spec.Type)
			if err != nil {
				return nil, fmt.Errorf("fixture: item %d: %w", spec.ID, err)
			}
			item.Type = ty
		default:
			return nil, fmt.Errorf("fixture: item %d: unsupported kind %q", spec.ID, spec.Kind)
		}

		f.items[id] = item
		f.names[id] = spec.Name
		if spec.Name == doc.Root {
			rootID = id
		}
	}
	f.root = rootID
	return f, nil
}

func buildType(spec *TypeSpec) (*ir.Type, error) {
	if spec == nil {
		return nil, fmt.Errorf("missing type")
	}
	switch spec.Kind {
	case "void":
		return &ir.Type{Kind: ir.Void}, nil
	case "int":
		k, ok := intKinds[spec.IntKind]
		if !ok {
			return nil, fmt.Errorf("unknown intKind %q", spec.IntKind)
		}
		return &ir.Type{Kind: ir.Int, IntKind: k}, nil
	case "float":
		return &ir.Type{Kind: ir.Float, FloatKind: ir.F64}, nil
	case "alias":
		return &ir.Type{Kind: ir.Alias, Inner: ir.NewItemId(spec.Inner)}, nil
	case "comp":
		ck := ir.CompStruct
		if spec.CompKind == "union" {
			ck = ir.CompUnion
		}
		fields := make([]ir.Field, len(spec.Fields))
		for i, fs := range spec.Fields {
			fields[i] = ir.Field{Kind: ir.DataMember, Name: fs.Name, Ty: ir.NewItemId(fs.Ty)}
		}
		return &ir.Type{Kind: ir.Comp, CompInfo: &ir.CompInfo{Kind: ck, Fields: fields}}, nil
	case "enum":
		variants := make([]ir.Variant, len(spec.Variants))
		for i, vs := range spec.Variants {
			variants[i] = ir.Variant{Name: vs.Name, Value: vs.Value}
		}
		return &ir.Type{Kind: ir.Enum, EnumInfo: &ir.EnumInfo{Variants: variants}}, nil
	default:
		return nil, fmt.Errorf("unsupported type kind %q", spec.Kind)
	}
}

// Fixture is a literal ir.Context built by Parse. Its layout table is
// always empty (LayoutOf reports !ok): tests that need layout-dependent
// behavior (padding, layout tests) build their Tracker/Composite inputs by
// hand instead of through this package.
type Fixture struct {
	items map[ir.ItemId]ir.Item
	names map[ir.ItemId]string
	root  ir.ItemId
	opts  config.Options
}

// Clone returns an independent deep copy of f, so one parsed fixture can
// seed several test cases that each mutate their own Options without
// interfering with one another (NameSet's internal maps and compiled
// regular expressions would otherwise be shared across every copy).
func (f *Fixture) Clone() (*Fixture, error) {
	var out Fixture
	if err := deepcopy.Copy(&out, f); err != nil {
		return nil, fmt.Errorf("fixture: clone: %w", err)
	}
	return &out, nil
}

// WithOptions returns f with its Options replaced, for chaining after Parse.
func (f *Fixture) WithOptions(opts config.Options) *Fixture {
	f.opts = opts
	return f
}

func (f *Fixture) ResolveItem(id ir.ItemId) ir.Item { return f.items[id] }

func (f *Fixture) CodegenItems() []ir.ItemId {
	ids := make([]ir.ItemId, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	return ids
}

func (f *Fixture) RootModule() ir.ItemId { return f.root }
func (f *Fixture) Options() *config.Options { return &f.opts }
func (f *Fixture) Mangle(name string) string { return name }
func (f *Fixture) Ident(name string) string  { return name }
func (f *Fixture) CanonicalName(id ir.ItemId) string { return f.names[id] }
func (f *Fixture) LayoutOf(ir.ItemId) (ir.Layout, bool) { return ir.Layout{}, false }
func (f *Fixture) CanDeriveDebug(ir.ItemId) bool      { return true }
func (f *Fixture) CanDeriveDefault(ir.ItemId) bool    { return true }
func (f *Fixture) CanDeriveCopy(ir.ItemId) bool       { return true }
func (f *Fixture) CanDeriveHash(ir.ItemId) bool       { return true }
func (f *Fixture) CanDerivePartialEq(ir.ItemId) bool  { return true }
func (f *Fixture) CanDeriveEq(ir.ItemId) bool         { return true }
func (f *Fixture) UsesTemplateParam(ir.ItemId, int) bool { return true }
