// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package memory implements the segmented, write-once memory model: an
// address space made of independently-growing segments, each holding either
// Felt or Relocatable values, plus the machinery for binding a builtin
// overlay to a segment.
package memory

import (
	"fmt"

	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/felt"
)

// Relocatable identifies a single memory cell by segment and offset.
type Relocatable struct {
	Segment uint32
	Offset  uint32
}

// NewRelocatable constructs a Relocatable.
func NewRelocatable(segment, offset uint32) Relocatable {
	return Relocatable{Segment: segment, Offset: offset}
}

// Add computes r + f, where f's canonical integer value must fit in a u32.
// Fails with OffsetOverflow otherwise.
func (r Relocatable) Add(f felt.Felt) (Relocatable, error) {
	delta, ok := f.ToUint32()
	if !ok {
		return Relocatable{}, cairoerr.NewOffsetOverflowValue(r.Segment, r.Offset, f.String())
	}

	return r.AddSigned(int64(delta))
}

// AddSigned computes r shifted by a signed delta (used internally for
// biased instruction offsets, which are already resolved to a small signed
// integer well before reaching Felt).  Fails with OffsetOverflow if the
// result does not fit in a u32.
func (r Relocatable) AddSigned(delta int64) (Relocatable, error) {
	next := int64(r.Offset) + delta
	if next < 0 || next > int64(^uint32(0)) {
		return Relocatable{}, cairoerr.NewOffsetOverflow(r.Segment, r.Offset, delta)
	}

	return Relocatable{Segment: r.Segment, Offset: uint32(next)}, nil
}

// Sub computes a - b as a Felt, requiring both addresses share a segment.
// Fails with CrossSegmentSub otherwise.
func (a Relocatable) Sub(b Relocatable) (felt.Felt, error) {
	if a.Segment != b.Segment {
		return felt.Felt{}, cairoerr.NewCrossSegmentSub(a.Segment, b.Segment)
	}

	if a.Offset >= b.Offset {
		return felt.FromUint64(uint64(a.Offset - b.Offset)), nil
	}
	// a.Offset < b.Offset: represent the negative difference as its
	// canonical (mod p) counterpart, matching Felt's own underflow rule.
	return felt.Zero().Sub(felt.FromUint64(uint64(b.Offset - a.Offset))), nil
}

// Cmp orders Relocatables by segment first, then offset.
func (a Relocatable) Cmp(b Relocatable) int {
	if a.Segment != b.Segment {
		if a.Segment < b.Segment {
			return -1
		}

		return 1
	}

	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	default:
		return 0
	}
}

// Equals reports whether a and b name the same cell.
func (a Relocatable) Equals(b Relocatable) bool {
	return a.Cmp(b) == 0
}

// String implements fmt.Stringer.
func (r Relocatable) String() string {
	return fmt.Sprintf("(%d,%d)", r.Segment, r.Offset)
}
