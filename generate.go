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

import (
	"bindgen.dev/go/ffigen/internal/config"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/module"
)

// Context is the collaborator interface a caller implements to supply the
// IR graph (spec.md §6's "Inputs"). Re-exported here so callers never need
// to import the internal/ir package directly.
type Context = ir.Context

// Result is the output of a Generate pass: the ordered list of top-level
// Rust items to print, plus a flag recording whether any one-shot helper
// type was needed (the helpers are already folded into Result.Source()).
type Result struct {
	items  []string
	sawAny bool
}

// Source concatenates every emitted top-level item, in order, into the
// pass's final Rust source text. The Module Emitter has already prepended
// any one-shot helper types this pass needed.
func (r *Result) Source() string {
	var out string
	for _, it := range r.items {
		out += it
		out += "\n"
	}
	return out
}

// Generate runs a full codegen pass over ctx starting at its root module
// (spec.md §3). If opts is nil, the package defaults (config.Default) are
// used.
func Generate(ctx Context, opts *config.Options) (*Result, error) {
	if opts == nil {
		d := NewOptions()
		opts = d
	}
	scoped := &optionsOverrideContext{Context: ctx, opts: opts}

	res, err := module.Generate(scoped)
	if err != nil {
		return nil, err
	}

	out := &Result{}
	for _, t := range res.Items {
		out.items = append(out.items, t.String())
	}
	out.sawAny = res.SawUnion || res.SawBindgenUnion || res.SawIncompleteArray || res.SawObjC || res.SawComplex
	return out, nil
}

// optionsOverrideContext lets Generate's opts parameter take precedence
// over whatever ir.Context.Options() the caller's own collaborator
// returns, without requiring every Context implementation to thread the
// override through itself.
type optionsOverrideContext struct {
	ir.Context
	opts *config.Options
}

func (c *optionsOverrideContext) Options() *config.Options { return c.opts }
