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

// Package result holds the CodegenResult accumulator described in spec.md
// §3 and §5: the single piece of mutable state in an otherwise pure,
// synchronous emission pass.
//
// It is grounded on the teacher's internal/tdp/compiler/linker/sym.go symbol
// table (a map-based table used to deduplicate and resolve linker symbols)
// generalized from "resolve a relocation" to "has this symbol already been
// emitted".
package result

import (
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/token"
)

// CodegenResult is the transient accumulator a single emission pass writes
// into (spec.md §3). Build one with New: the zero value has a nil Counter,
// which NextTestID dereferences.
type CodegenResult struct {
	Items []*token.Tree

	itemsSeen map[ir.ItemId]bool

	functionsSeen map[string]bool
	varsSeen      map[string]bool

	overloadCounters map[string]int

	SawUnion           bool
	SawBindgenUnion    bool
	SawIncompleteArray bool
	SawObjC            bool
	SawComplex         bool

	Counter *ir.Counter
}

// New returns a ready-to-use, empty accumulator owning a fresh test-name
// counter.
func New() *CodegenResult {
	return &CodegenResult{Counter: &ir.Counter{}}
}

// Child returns a fresh accumulator for a nested module scope, sharing the
// parent's counter and dedup sets (spec.md §5: "a temporary child
// CodegenResult ... whose flag bits are merged back into the parent").
// Sharing, rather than copying, itemsSeen/functionsSeen/varsSeen/
// overloadCounters is required for idempotence (§8): two sibling scopes must
// still observe each other's already-emitted symbols.
func (r *CodegenResult) Child() *CodegenResult {
	return &CodegenResult{
		itemsSeen:        r.ensureItemsSeen(),
		functionsSeen:    r.ensureFunctionsSeen(),
		varsSeen:         r.ensureVarsSeen(),
		overloadCounters: r.ensureOverloadCounters(),
		Counter:          r.Counter,
	}
}

// Merge folds a child scope's output and one-shot flags into r, per
// spec.md §5.
func (r *CodegenResult) Merge(child *CodegenResult, scope *token.Tree) {
	if scope != nil && !scope.Empty() {
		r.Items = append(r.Items, scope)
	}
	r.SawUnion = r.SawUnion || child.SawUnion
	r.SawBindgenUnion = r.SawBindgenUnion || child.SawBindgenUnion
	r.SawIncompleteArray = r.SawIncompleteArray || child.SawIncompleteArray
	r.SawObjC = r.SawObjC || child.SawObjC
	r.SawComplex = r.SawComplex || child.SawComplex
}

func (r *CodegenResult) ensureItemsSeen() map[ir.ItemId]bool {
	if r.itemsSeen == nil {
		r.itemsSeen = make(map[ir.ItemId]bool)
	}
	return r.itemsSeen
}

func (r *CodegenResult) ensureFunctionsSeen() map[string]bool {
	if r.functionsSeen == nil {
		r.functionsSeen = make(map[string]bool)
	}
	return r.functionsSeen
}

func (r *CodegenResult) ensureVarsSeen() map[string]bool {
	if r.varsSeen == nil {
		r.varsSeen = make(map[string]bool)
	}
	return r.varsSeen
}

func (r *CodegenResult) ensureOverloadCounters() map[string]int {
	if r.overloadCounters == nil {
		r.overloadCounters = make(map[string]int)
	}
	return r.overloadCounters
}

// MarkItem records id as emitted and reports whether it had already been
// emitted (the idempotence guard of spec.md §3/§8).
func (r *CodegenResult) MarkItem(id ir.ItemId) (alreadySeen bool) {
	seen := r.ensureItemsSeen()
	if seen[id] {
		return true
	}
	seen[id] = true
	return false
}

// SeenFunction reports whether symbol has already been emitted as an
// extern function, without marking it.
func (r *CodegenResult) SeenFunction(symbol string) bool {
	return r.ensureFunctionsSeen()[symbol]
}

// MarkFunction records symbol as emitted.
func (r *CodegenResult) MarkFunction(symbol string) {
	r.ensureFunctionsSeen()[symbol] = true
}

// SeenVar reports whether symbol has already been emitted as an extern
// variable or constant.
func (r *CodegenResult) SeenVar(symbol string) bool {
	return r.ensureVarsSeen()[symbol]
}

// MarkVar records symbol as emitted.
func (r *CodegenResult) MarkVar(symbol string) {
	r.ensureVarsSeen()[symbol] = true
}

// NextOverload returns the number of overloads of canonicalName already
// emitted, then increments the counter. The first call for a given name
// returns 0.
func (r *CodegenResult) NextOverload(canonicalName string) int {
	counters := r.ensureOverloadCounters()
	n := counters[canonicalName]
	counters[canonicalName] = n + 1
	return n
}

// Push appends a fully-built top-level item to the output.
func (r *CodegenResult) Push(t *token.Tree) {
	if t == nil || t.Empty() {
		return
	}
	r.Items = append(r.Items, t)
}

// Prepend inserts t at position 0, used for the one-shot helper-type blocks
// (spec.md §4.1).
func (r *CodegenResult) Prepend(t *token.Tree) {
	if t == nil || t.Empty() {
		return
	}
	r.Items = append([]*token.Tree{t}, r.Items...)
}

// NextTestID returns a fresh, globally unique number for a synthesized
// layout-test function name.
func (r *CodegenResult) NextTestID() uint64 {
	return r.Counter.Next()
}
