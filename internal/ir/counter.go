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

package ir

// Counter is the shared, monotonically-increasing id cell described in
// spec.md §3 and §5: it is logically owned by the top-level CodegenResult
// and passed down by handle (a pointer to this struct) so that every nested
// emitter can synthesize globally-unique names (e.g. for template
// instantiation layout tests) without needing to thread a return value back
// up the call stack.
//
// The counter is incremented unconditionally and never decremented;
// wraparound is not a concern at realistic header sizes (spec.md §5).
type Counter struct {
	next uint64
}

// Next returns the next value in the sequence, starting at 0.
func (c *Counter) Next() uint64 {
	v := c.next
	c.next++
	return v
}
