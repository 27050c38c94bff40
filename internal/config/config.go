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

// Package config holds the read-only configuration consumed by every stage
// of the codegen core (spec.md §6).
//
// It is a separate package, rather than living in the root ffigen package,
// so that internal emitter packages can depend on it without creating an
// import cycle back through the root package.
package config

import "regexp"

// CodegenConfig enables or disables whole categories of emission.
type CodegenConfig struct {
	Functions    bool
	Methods      bool
	Constructors bool
	Destructors  bool
	Types        bool
	Vars         bool
}

// DefaultCodegenConfig is the configuration used when no CodegenConfig is
// supplied: everything is emitted except methods/constructors/destructors,
// which require opting in because emitting them is only safe once a type's
// ABI has been independently verified.
func DefaultCodegenConfig() CodegenConfig {
	return CodegenConfig{Functions: true, Types: true, Vars: true}
}

// RustFeatures records which language features the target toolchain
// supports, so the emitter can choose the most idiomatic rendering that is
// still guaranteed to compile.
type RustFeatures struct {
	// ConstFn reports whether bitfield unit constructors may be emitted as
	// `const fn`, per spec.md §4.4.
	ConstFn bool
}

// NameSet is a name-pattern set, as used by bitfield_enums, constified_enums,
// constified_enum_modules and rustified_enums (spec.md §6). A name matches if
// it is present verbatim, or matches any of the configured regular
// expressions.
type NameSet struct {
	literal  map[string]bool
	patterns []*regexp.Regexp
}

// NewNameSet builds a NameSet out of literal names and/or regular
// expressions. A name that looks like a regular expression (contains any of
// `*+?[]()^$|\`) is compiled as one; everything else is treated as a literal.
func NewNameSet(names ...string) NameSet {
	var s NameSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts another literal name or regular expression into the set.
func (s *NameSet) Add(name string) {
	if !looksLikePattern(name) {
		if s.literal == nil {
			s.literal = make(map[string]bool)
		}
		s.literal[name] = true
		return
	}
	if re, err := regexp.Compile("^(?:" + name + ")$"); err == nil {
		s.patterns = append(s.patterns, re)
	} else {
		// Fall back to a literal match; an invalid pattern is not fatal here,
		// it just means this entry never matches via regexp.
		if s.literal == nil {
			s.literal = make(map[string]bool)
		}
		s.literal[name] = true
	}
}

// Contains reports whether name is a member of the set.
func (s NameSet) Contains(name string) bool {
	if s.literal[name] {
		return true
	}
	for _, re := range s.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func looksLikePattern(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '+', '?', '[', ']', '(', ')', '^', '$', '|', '\\':
			return true
		}
	}
	return false
}

// Options is the full, read-only configuration for a codegen pass
// (spec.md §6). It is never mutated once construction (via the root
// package's functional options) completes.
type Options struct {
	// Namespace handling.
	EnableCxxNamespaces          bool
	ConservativeInlineNamespaces bool

	// Documentation.
	GenerateComments bool

	// Testing.
	LayoutTests bool

	// Derives.
	DeriveDebug      bool
	ImplDebug        bool
	DeriveDefault    bool
	DeriveCopy       bool
	DeriveHash       bool
	DerivePartialEq  bool
	DeriveEq         bool
	FieldsArePrivate bool

	Codegen CodegenConfig

	BitfieldEnums          NameSet
	ConstifiedEnums        NameSet
	ConstifiedEnumModules  NameSet
	RustifiedEnums         NameSet
	PrependEnumName        bool

	ObjCExternCrate bool

	EmitIR         bool
	EmitIRGraphviz bool

	RustFeatures RustFeatures
}

// Default returns the configuration used when the caller supplies no
// options: namespaces flattened, layout tests and comments on, conservative
// (non-opt-in) derives only, all enums tagged.
func Default() Options {
	return Options{
		GenerateComments: true,
		LayoutTests:      true,
		DeriveDebug:      true,
		DeriveDefault:    true,
		DeriveCopy:       true,
		DeriveHash:       true,
		DerivePartialEq:  true,
		DeriveEq:         true,
		Codegen:          DefaultCodegenConfig(),
		RustFeatures:     RustFeatures{ConstFn: true},
	}
}
