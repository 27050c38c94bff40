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

// Package tracker implements the Struct Layout Tracker (spec.md §4.7): the
// stateful companion to composite emission that computes padding fields,
// alignment fillers, and decides whether the emitted record still matches
// the original C layout.
//
// It is grounded on the teacher's internal/tdp/compiler ir struct, which
// accumulates a composite's layout (size/alignment, "hot"/"cold" field
// placement) incrementally as fields are visited in emission order.
package tracker

import (
	"bindgen.dev/go/ffigen/internal/diag"
	"bindgen.dev/go/ffigen/internal/ir"
	"bindgen.dev/go/ffigen/internal/token"
)

// Tracker walks a composite's fields in emission order, maintaining the
// offset and alignment of the next byte (spec.md §4.7).
type Tracker struct {
	offsetBytes int64
	alignBytes  int64

	paddingCount int

	// opaqueTail is set once an opaque-sized member has been inserted,
	// after which further padding computation is unreliable and is
	// pessimistically skipped (spec.md §4.7).
	opaqueTail bool

	// BasesWithVtable counts SawVtable calls; CanAssertOffsets uses it for
	// the Composite Emitter's layout-test gating (spec.md §4.3.3: "skip offset
	// assertions when ... more than one base has a vtable").
	BasesWithVtable int
}

// New returns a tracker starting at offset 0.
func New() *Tracker {
	return &Tracker{alignBytes: 1}
}

// PadField inserts a `__bindgen_padding_K: [u8; gap]` field if offsetBits
// implies a gap between the tracker's current offset and the field's
// declared start, and advances the tracker to the end of ty (sized
// fieldSizeBytes, aligned fieldAlignBytes). Returns nil if no padding was
// necessary.
func (t *Tracker) PadField(fieldSizeBytes, fieldAlignBytes int64, offsetBits *int64) *token.Tree {
	var pad *token.Tree
	if !t.opaqueTail && offsetBits != nil {
		declared := *offsetBits / 8
		if declared > t.offsetBytes {
			gap := declared - t.offsetBytes
			pad = token.Text("__bindgen_padding_%d: [u8; %d],\n", t.paddingCount, gap)
			t.paddingCount++
			t.offsetBytes = declared
		}
	}

	t.offsetBytes += fieldSizeBytes
	if fieldAlignBytes > t.alignBytes {
		t.alignBytes = fieldAlignBytes
	}
	return pad
}

// SawBase advances the tracker past a base class's layout.
func (t *Tracker) SawBase(l ir.Layout) {
	t.offsetBytes += l.SizeBytes
	if l.AlignBytes > t.alignBytes {
		t.alignBytes = l.AlignBytes
	}
}

// SawVtable advances the tracker past a leading vtable pointer (whose size
// and alignment are the target's pointer width).
func (t *Tracker) SawVtable(pointerBytes int64) {
	t.BasesWithVtable++
	t.offsetBytes += pointerBytes
	if pointerBytes > t.alignBytes {
		t.alignBytes = pointerBytes
	}
}

// SawBitfieldUnit advances the tracker past a bitfield storage unit.
func (t *Tracker) SawBitfieldUnit(l ir.Layout) {
	t.offsetBytes += l.SizeBytes
	if l.AlignBytes > t.alignBytes {
		t.alignBytes = l.AlignBytes
	}
}

// SawUnion records that this composite contains an anonymous union member,
// and that further reliable padding computation past it is not possible
// (unions may be larger than any one member).
func (t *Tracker) SawUnion(l ir.Layout) {
	t.offsetBytes += l.SizeBytes
	if l.AlignBytes > t.alignBytes {
		t.alignBytes = l.AlignBytes
	}
	t.opaqueTail = true
}

// SawOpaqueMember marks the tracker as unable to produce further reliable
// padding, because an opaque-sized member was inserted whose true internal
// layout is unknown (spec.md §4.7).
func (t *Tracker) SawOpaqueMember(l ir.Layout) {
	t.offsetBytes += l.SizeBytes
	if l.AlignBytes > t.alignBytes {
		t.alignBytes = l.AlignBytes
	}
	t.opaqueTail = true
}

// PadStruct appends a tail padding field if the declared size exceeds the
// accumulated size (spec.md §4.3.4f).
func (t *Tracker) PadStruct(final ir.Layout) *token.Tree {
	if t.opaqueTail {
		diag.Warn(nil, "skipping tail padding computation: tracker saw an opaque-sized member")
		return nil
	}
	if final.SizeBytes <= t.offsetBytes {
		return nil
	}
	gap := final.SizeBytes - t.offsetBytes
	t.offsetBytes = final.SizeBytes
	return token.Text("__bindgen_padding_%d: [u8; %d],\n", t.paddingCount, gap)
}

// AlignStruct appends a zero-length alignment filler field if the declared
// alignment exceeds the alignment implied by the emitted fields
// (spec.md §4.3.4f).
func (t *Tracker) AlignStruct(final ir.Layout, alignPrimitive string) *token.Tree {
	if final.AlignBytes <= t.alignBytes {
		return nil
	}
	return token.Text("__bindgen_align: [%s; 0],\n", alignPrimitive)
}

// Offset returns the tracker's current accumulated offset, in bytes.
func (t *Tracker) Offset() int64 { return t.offsetBytes }

// Align returns the tracker's current accumulated alignment, in bytes.
func (t *Tracker) Align() int64 { return t.alignBytes }

// CanAssertOffsets reports whether per-field offset_of assertions are safe
// to emit (spec.md §4.3.3: skipped when more than one base has a vtable).
func (t *Tracker) CanAssertOffsets() bool {
	return t.BasesWithVtable <= 1
}
