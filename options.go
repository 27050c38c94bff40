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

package ffigen

import "bindgen.dev/go/ffigen/internal/config"

// Option configures a Generate pass. Construct a set with NewOptions,
// modeled on the teacher's functional-option idiom (a CompileOption is a
// deferred mutation closure applied in order over a zero value).
type Option struct {
	apply func(*config.Options)
}

// NewOptions builds the configuration passed to Generate by applying opts,
// in order, over the package defaults (spec.md §6).
func NewOptions(opts ...Option) *config.Options {
	o := config.Default()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithCxxNamespaces toggles whether C++ namespaces become nested `pub mod`
// blocks (true) or are flattened into the crate root (false, the default).
func WithCxxNamespaces(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.EnableCxxNamespaces = enabled }}
}

// WithConservativeInlineNamespaces keeps C++ inline namespaces as their own
// module instead of collapsing them into their parent.
func WithConservativeInlineNamespaces(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.ConservativeInlineNamespaces = enabled }}
}

// WithGenerateComments sets Options.GenerateComments. The emitters do not
// read this option: a non-empty IR comment always becomes a #[doc]
// attribute, whichever value it has.
func WithGenerateComments(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.GenerateComments = enabled }}
}

// WithLayoutTests toggles emission of #[test] size/align/offset assertions
// alongside each composite.
func WithLayoutTests(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.LayoutTests = enabled }}
}

// WithDerives sets the conservative derive toggles together: Debug,
// Default, Copy, Hash, PartialEq, Eq.
func WithDerives(debug, deflt, cpy, hash, partialEq, eq bool) Option {
	return Option{apply: func(o *config.Options) {
		o.DeriveDebug = debug
		o.DeriveDefault = deflt
		o.DeriveCopy = cpy
		o.DeriveHash = hash
		o.DerivePartialEq = partialEq
		o.DeriveEq = eq
	}}
}

// WithImplDebug emits a manual impl of std::fmt::Debug for composites that
// cannot derive it, instead of silently omitting Debug.
func WithImplDebug(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.ImplDebug = enabled }}
}

// WithFieldsArePrivate makes every field pub(crate) by default, unless its
// own annotation overrides it.
func WithFieldsArePrivate(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.FieldsArePrivate = enabled }}
}

// WithCodegenConfig replaces the whole Functions/Methods/Constructors/
// Destructors/Types/Vars toggle set.
func WithCodegenConfig(cfg config.CodegenConfig) Option {
	return Option{apply: func(o *config.Options) { o.Codegen = cfg }}
}

// WithBitfieldEnums, WithConstifiedEnums, WithConstifiedEnumModules and
// WithRustifiedEnums select, by literal name or regular expression, which
// enums use the corresponding enumgen.Strategy (spec.md §4.5, §6).
// enumgen.Select does not consult RustifiedEnums: an enum in no other set
// is tagged unless two of its variants share a value.
func WithBitfieldEnums(names ...string) Option {
	return Option{apply: func(o *config.Options) { o.BitfieldEnums = config.NewNameSet(names...) }}
}

func WithConstifiedEnums(names ...string) Option {
	return Option{apply: func(o *config.Options) { o.ConstifiedEnums = config.NewNameSet(names...) }}
}

func WithConstifiedEnumModules(names ...string) Option {
	return Option{apply: func(o *config.Options) { o.ConstifiedEnumModules = config.NewNameSet(names...) }}
}

func WithRustifiedEnums(names ...string) Option {
	return Option{apply: func(o *config.Options) { o.RustifiedEnums = config.NewNameSet(names...) }}
}

// WithPrependEnumName toggles prefixing enum variant names with their owning
// enum's name in the tagged, bitfield-wrapper and bare-constant styles;
// constants inside a module-of-constants are never prefixed.
func WithPrependEnumName(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.PrependEnumName = enabled }}
}

// WithObjCExternCrate sets Options.ObjCExternCrate. The Objective-C prelude
// does not read this option: it always refers to the `objc` crate's runtime
// types by path and emits neither `extern crate objc;` nor `use objc;`.
func WithObjCExternCrate(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.ObjCExternCrate = enabled }}
}

// WithConstFn allows bitfield unit constructors to be emitted as `const
// fn`, which requires a toolchain new enough to support const bit
// arithmetic.
func WithConstFn(enabled bool) Option {
	return Option{apply: func(o *config.Options) { o.RustFeatures.ConstFn = enabled }}
}
