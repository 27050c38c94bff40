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

// Package token is a minimal token-tree builder.
//
// spec.md §1 declares the real token printer ("a token-tree builder with
// append, append_separated") and the source-formatter that consumes it both
// external collaborators — in a full deployment this package would be
// replaced by a proc-macro-style token stream and an external pretty
// printer (e.g. rustfmt). Nothing in the retrieved example pack vendors such
// a crate, so this package supplies the minimal concrete implementation the
// rest of the core needs: an appendable, composable tree of text fragments
// that is flattened to source text on demand. It is modeled on the
// teacher's text-assembly idiom (building a formatted diagnostic by chained
// Fprintf-style appends) generalized from a flat string into a tree so that
// independently-built fragments (a field, a method, a whole struct) can be
// composed without prematurely committing to a textual layout.
package token

import (
	"fmt"
	"strings"
)

// Tree is an appendable sequence of text fragments and child trees.
type Tree struct {
	parts []part
}

type part struct {
	text  string
	child *Tree
}

// New returns an empty tree.
func New() *Tree { return &Tree{} }

// Text returns a leaf tree containing exactly the formatted text.
func Text(format string, args ...any) *Tree {
	return New().Append(format, args...)
}

// Append formats its arguments with fmt.Sprintf and appends the result as a
// new fragment, returning the receiver for chaining.
func (t *Tree) Append(format string, args ...any) *Tree {
	if t == nil {
		return t
	}
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	t.parts = append(t.parts, part{text: s})
	return t
}

// AppendTree appends child as a nested fragment. A nil or empty child is a
// no-op, so callers can unconditionally append an optional fragment (e.g. a
// padding field that may or may not have been produced).
func (t *Tree) AppendTree(child *Tree) *Tree {
	if t == nil || child == nil || child.Empty() {
		return t
	}
	t.parts = append(t.parts, part{child: child})
	return t
}

// AppendSeparated appends every non-empty tree in children to t, joined by
// sep between consecutive entries.
func (t *Tree) AppendSeparated(sep string, children ...*Tree) *Tree {
	first := true
	for _, c := range children {
		if c == nil || c.Empty() {
			continue
		}
		if !first {
			t.Append(sep)
		}
		first = false
		t.AppendTree(c)
	}
	return t
}

// Empty reports whether this tree contains no non-empty fragments.
func (t *Tree) Empty() bool {
	if t == nil {
		return true
	}
	for _, p := range t.parts {
		if p.child != nil {
			if !p.child.Empty() {
				return false
			}
			continue
		}
		if p.text != "" {
			return false
		}
	}
	return true
}

// String flattens the tree into its final source text.
func (t *Tree) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

func (t *Tree) writeTo(b *strings.Builder) {
	for _, p := range t.parts {
		if p.child != nil {
			p.child.writeTo(b)
			continue
		}
		b.WriteString(p.text)
	}
}

// Join concatenates a list of trees, one per line, skipping empty ones.
func Join(trees ...*Tree) *Tree {
	out := New()
	for _, t := range trees {
		if t.Empty() {
			continue
		}
		out.AppendTree(t)
		out.Append("\n")
	}
	return out
}
