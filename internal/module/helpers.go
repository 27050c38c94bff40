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

package module

import "bindgen.dev/go/ffigen/internal/token"

// The helper types below are prepended to the root output at most once
// each, in a fixed order, based on which CodegenResult.Saw* flags a pass
// set (spec.md §4.1): Objective-C prelude, complex-number wrapper,
// incomplete-array wrapper, then union-field wrapper. The order matters
// only in that later helpers never reference earlier ones, so any
// dependency is satisfied regardless of which combination was prepended.
//
// Bitfield units need no helper type of their own: their storage is a
// bare unsigned integer (internal/field.StorageType), not a wrapper, per
// original_source/tests/expectations/tests/only_bitfields.rs.

func objcPrelude() *token.Tree {
	out := token.New()
	out.Append("#[allow(non_camel_case_types)]\n")
	out.Append("pub type id = *mut objc::runtime::Object;\n")
	out.Append("#[allow(non_camel_case_types)]\n")
	out.Append("pub type SEL = objc::runtime::Sel;\n")
	return out
}

func complexWrapper() *token.Tree {
	out := token.New()
	out.Append("#[repr(C)]\n")
	out.Append("#[derive(Debug, Default, Copy, Clone, PartialEq)]\n")
	out.Append("pub struct __BindgenComplex<T> {\n")
	out.Append("    pub re: T,\n")
	out.Append("    pub im: T,\n")
	out.Append("}\n")
	return out
}

func incompleteArrayWrapper() *token.Tree {
	out := token.New()
	out.Append("#[repr(C)]\n")
	out.Append("#[derive(Default)]\n")
	out.Append("pub struct __IncompleteArrayField<T>(::std::marker::PhantomData<T>, [T; 0]);\n")
	out.Append("impl<T> __IncompleteArrayField<T> {\n")
	out.Append("    #[inline]\n")
	out.Append("    pub const fn new() -> Self {\n")
	out.Append("        __IncompleteArrayField(::std::marker::PhantomData, [])\n")
	out.Append("    }\n")
	out.Append("    #[inline]\n")
	out.Append("    pub unsafe fn as_ptr(&self) -> *const T {\n")
	out.Append("        ::std::mem::transmute(self)\n")
	out.Append("    }\n")
	out.Append("    #[inline]\n")
	out.Append("    pub unsafe fn as_mut_ptr(&mut self) -> *mut T {\n")
	out.Append("        ::std::mem::transmute(self)\n")
	out.Append("    }\n")
	out.Append("    #[inline]\n")
	out.Append("    pub unsafe fn as_slice(&self, len: usize) -> &[T] {\n")
	out.Append("        ::std::slice::from_raw_parts(self.as_ptr(), len)\n")
	out.Append("    }\n")
	out.Append("    #[inline]\n")
	out.Append("    pub unsafe fn as_mut_slice(&mut self, len: usize) -> &mut [T] {\n")
	out.Append("        ::std::slice::from_raw_parts_mut(self.as_mut_ptr(), len)\n")
	out.Append("    }\n")
	out.Append("}\n")
	return out
}

func unionFieldWrapper() *token.Tree {
	out := token.New()
	out.Append("#[repr(C)]\n")
	out.Append("pub struct __BindgenUnionField<T>(::std::marker::PhantomData<T>);\n")
	out.Append("impl<T> __BindgenUnionField<T> {\n")
	out.Append("    #[inline]\n")
	out.Append("    pub const fn new() -> Self {\n")
	out.Append("        __BindgenUnionField(::std::marker::PhantomData)\n")
	out.Append("    }\n")
	out.Append("    #[inline]\n")
	out.Append("    pub unsafe fn as_ref(&self) -> &T {\n")
	out.Append("        ::std::mem::transmute(self)\n")
	out.Append("    }\n")
	out.Append("    #[inline]\n")
	out.Append("    pub unsafe fn as_mut(&mut self) -> &mut T {\n")
	out.Append("        ::std::mem::transmute(self)\n")
	out.Append("    }\n")
	out.Append("}\n")
	out.Append("impl<T> ::std::default::Default for __BindgenUnionField<T> {\n")
	out.Append("    #[inline]\n")
	out.Append("    fn default() -> Self {\n")
	out.Append("        Self::new()\n")
	out.Append("    }\n")
	out.Append("}\n")
	out.Append("impl<T> ::std::clone::Clone for __BindgenUnionField<T> {\n")
	out.Append("    #[inline]\n")
	out.Append("    fn clone(&self) -> Self {\n")
	out.Append("        Self::new()\n")
	out.Append("    }\n")
	out.Append("}\n")
	out.Append("impl<T> ::std::marker::Copy for __BindgenUnionField<T> {}\n")
	out.Append("impl<T> ::std::fmt::Debug for __BindgenUnionField<T> {\n")
	out.Append("    fn fmt(&self, fmt: &mut ::std::fmt::Formatter<'_>) -> ::std::fmt::Result {\n")
	out.Append("        fmt.write_str(\"__BindgenUnionField\")\n")
	out.Append("    }\n")
	out.Append("}\n")
	return out
}

