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

// Package layout builds the small, type-free token fragments used all over
// the codegen core: opaque byte-array types, integer and C-string literals,
// and the attribute lines (derive/repr/link_name/doc) that decorate
// composites, enums and externs (spec.md §4, "Layout Helpers").
//
// It is grounded on the teacher's internal/unsafe2/layout.Layout
// (Size/Align pair with a Max helper) generalized from "the layout of a Go
// value" to "the layout an emitted type must satisfy".
package layout

import (
	"fmt"
	"strings"

	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/token"
)

// OpaqueArrayType renders a byte-array type of the given size, e.g. "[u8; 4]".
// Falls back to a 1-byte layout if size is zero or negative, matching
// spec.md §7's LayoutUnavailable recovery policy.
func OpaqueArrayType(sizeBytes int64) *token.Tree {
	if sizeBytes <= 0 {
		sizeBytes = 1
	}
	return token.Text("[u8; %d]", sizeBytes)
}

// OpaqueBlobStruct renders a full opaque tuple-struct definition for l,
// e.g. "#[repr(C, align(4))]\npub struct Name(pub [u8; 8]);\n", used for the
// forward-declaration and fully-opaque composite cases (spec.md §4.3).
func OpaqueBlobStruct(name string, l ir.Layout) *token.Tree {
	out := token.New()
	out.AppendTree(ReprAttr(false, l.AlignBytes))
	out.Append("pub struct %s(pub %s);\n", name, OpaqueArrayType(l.SizeBytes).String())
	return out
}

// IntLiteral renders an integer literal expression.
func IntLiteral(v int64, unsigned bool) *token.Tree {
	if unsigned {
		return token.Text("%d", uint64(v))
	}
	return token.Text("%d", v)
}

// CString renders bytes as a NUL-terminated byte-string literal suitable for
// a `pub const NAME: &'static [u8; N+1]`, per spec.md §4.6. Input holding a
// NUL byte or any byte >= 0x80 falls back to a byte-array literal instead of
// a string literal.
func CString(bytes []byte) *token.Tree {
	if isValidUTF8NoNUL(bytes) {
		var b strings.Builder
		b.WriteByte('b')
		b.WriteByte('"')
		for _, c := range bytes {
			writeEscapedByte(&b, c)
		}
		b.WriteString(`\0`)
		b.WriteByte('"')
		return token.Text("%s", b.String())
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, c := range bytes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%#02x", c)
	}
	b.WriteString(", 0x00]")
	return token.Text("%s", b.String())
}

func isValidUTF8NoNUL(bytes []byte) bool {
	for _, c := range bytes {
		if c == 0 || c >= 0x80 {
			return false
		}
	}
	return true
}

func writeEscapedByte(b *strings.Builder, c byte) {
	switch c {
	case '"':
		b.WriteString(`\"`)
	case '\\':
		b.WriteString(`\\`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	default:
		b.WriteByte(c)
	}
}

// ReprAttr renders the #[repr(...)] attribute for a composite.
func ReprAttr(packed bool, alignBytes int64) *token.Tree {
	switch {
	case packed:
		return token.Text("#[repr(C, packed)]\n")
	case alignBytes > 0:
		return token.Text("#[repr(C, align(%d))]\n", alignBytes)
	default:
		return token.Text("#[repr(C)]\n")
	}
}

// DeriveAttr renders a #[derive(...)] attribute. Returns an empty tree if
// names is empty.
func DeriveAttr(names []string) *token.Tree {
	if len(names) == 0 {
		return token.New()
	}
	return token.Text("#[derive(%s)]\n", strings.Join(names, ", "))
}

// LinkNameAttr renders a #[link_name = "..."] attribute.
func LinkNameAttr(symbol string) *token.Tree {
	return token.Text("#[link_name = %q]\n", symbol)
}

// DocAttr renders a #[doc = "..."] attribute from a source comment. Returns
// an empty tree if comment is empty.
func DocAttr(comment string) *token.Tree {
	if comment == "" {
		return token.New()
	}
	return token.Text("#[doc = %q]\n", comment)
}
