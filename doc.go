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

// Package ffigen turns a C/C++ intermediate representation into Rust
// token-tree source: structs, unions, enums, bitfields, externs,
// templates, vtables, layout-assertion tests and Objective-C interop.
//
// The caller supplies the IR graph and a handful of semantic predicates
// (derive eligibility, name mangling, layout queries) by implementing
// ir.Context; parsing C/C++ into that graph is out of scope for this
// module, same as it is out of scope for the codegen core it's modeled on.
//
//	opts := ffigen.NewOptions(
//		ffigen.WithCxxNamespaces(true),
//		ffigen.WithLayoutTests(true),
//	)
//	result, err := ffigen.Generate(ctx, opts)
//
// See SPEC_FULL.md for the full component breakdown.
package ffigen
