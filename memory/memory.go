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
package memory

import (
	"github.com/danielcdz/cairo-vm-go/cairoerr"
)

// Overlay intercepts reads and writes to a single segment bound to it via
// Memory.BindOverlay - the "BuiltinView" of the specification.  A builtin
// package implements this interface against the Memory it overlays, using
// Memory's Raw* accessors to reach the segment's underlying storage.
type Overlay interface {
	// Get is the overlay's version of Memory.Get, addressed relative to
	// the bound segment.
	Get(offset uint32) (Value, bool)
	// GetRequired is the overlay's version of Memory.GetRequired.
	GetRequired(offset uint32) (Value, error)
	// Insert is the overlay's version of Memory.Insert.
	Insert(offset uint32, v Value) error
}

// segment is a sparse, growable, write-once cell store. A nil entry means
// the cell is unknown; this is deliberately distinct from a known Felt(0).
type segment struct {
	cells []*Value
}

func (s *segment) get(offset uint32) (Value, bool) {
	if uint64(offset) >= uint64(len(s.cells)) || s.cells[offset] == nil {
		return Value{}, false
	}

	return *s.cells[offset], true
}

// insert sets cells[offset] to v via the write-once path. It returns the
// conflicting prior value and false if one already exists and differs from
// v; the caller (Memory.RawInsert) knows the segment id and constructs the
// InconsistentMemory error.
func (s *segment) insert(offset uint32, v Value) (conflict Value, ok bool) {
	if uint64(offset) >= uint64(len(s.cells)) {
		grown := make([]*Value, offset+1)
		copy(grown, s.cells)
		s.cells = grown
	}

	if existing := s.cells[offset]; existing != nil {
		if !existing.Equals(v) {
			return *existing, false
		}

		return Value{}, true
	}

	cell := v
	s.cells[offset] = &cell

	return Value{}, true
}

// Memory is a sequence of independently-growing segments, each a sparse,
// write-once mapping from offset to Value.  It enforces write-once
// consistency for stored cells and raises InconsistentMemory on a
// conflicting write. It is not the only source of that error: a builtin
// overlay's Insert raises it for an output cell that disagrees with the
// derived value, and the interpreter raises it when pre-checking a step's
// pending writes.
type Memory struct {
	segments []*segment
	overlays map[uint32]Overlay
}

// NewMemory constructs an empty Memory with no segments.
func NewMemory() *Memory {
	return &Memory{overlays: make(map[uint32]Overlay)}
}

// AddSegment appends a new, empty segment and returns its id.
func (m *Memory) AddSegment() uint32 {
	m.segments = append(m.segments, &segment{})
	return uint32(len(m.segments) - 1)
}

// NumSegments returns the number of allocated segments.
func (m *Memory) NumSegments() uint32 {
	return uint32(len(m.segments))
}

// BindOverlay binds a builtin overlay to a segment. Subsequent Get/
// GetRequired/Insert calls addressed at that segment are routed through the
// overlay instead of hitting raw storage directly.
func (m *Memory) BindOverlay(segment uint32, o Overlay) {
	m.overlays[segment] = o
}

func (m *Memory) segmentAt(id uint32) (*segment, error) {
	if id >= uint32(len(m.segments)) {
		return nil, cairoerr.NewSegmentOutOfBounds(id, uint32(len(m.segments)))
	}

	return m.segments[id], nil
}

// Get performs a pure read with no side effects, returning (Value, true) if
// addr is assigned, or (Value{}, false) if it is unknown.  Reads addressed
// at a segment with a bound overlay are routed through it.
func (m *Memory) Get(addr Relocatable) (Value, bool) {
	if o, ok := m.overlays[addr.Segment]; ok {
		return o.Get(addr.Offset)
	}

	return m.RawGet(addr)
}

// GetRequired is Get, but fails with UndefinedValue if addr is unknown.
func (m *Memory) GetRequired(addr Relocatable) (Value, error) {
	if o, ok := m.overlays[addr.Segment]; ok {
		return o.GetRequired(addr.Offset)
	}

	return m.RawGetRequired(addr)
}

// Insert sets the cell at addr to v.  If the cell already holds v' != v,
// fails with InconsistentMemory.  If the segment does not exist, fails with
// SegmentOutOfBounds. Writes addressed at a segment with a bound overlay are
// routed through it.
func (m *Memory) Insert(addr Relocatable, v Value) error {
	if o, ok := m.overlays[addr.Segment]; ok {
		return o.Insert(addr.Offset, v)
	}

	return m.RawInsert(addr, v)
}

// RawGet bypasses overlay dispatch, reading directly from the segment's
// underlying storage. Used internally, and by Overlay implementations that
// need to read the segment they themselves overlay.
func (m *Memory) RawGet(addr Relocatable) (Value, bool) {
	seg, err := m.segmentAt(addr.Segment)
	if err != nil {
		return Value{}, false
	}

	return seg.get(addr.Offset)
}

// RawGetRequired is RawGet, but fails with UndefinedValue if addr is
// unknown, or SegmentOutOfBounds if the segment does not exist.
func (m *Memory) RawGetRequired(addr Relocatable) (Value, error) {
	seg, err := m.segmentAt(addr.Segment)
	if err != nil {
		return Value{}, err
	}

	v, ok := seg.get(addr.Offset)
	if !ok {
		return Value{}, cairoerr.NewUndefinedValue(addr.Segment, addr.Offset)
	}

	return v, nil
}

// RawInsert bypasses overlay dispatch, writing directly to the segment's
// underlying storage via the write-once path.
func (m *Memory) RawInsert(addr Relocatable, v Value) error {
	seg, err := m.segmentAt(addr.Segment)
	if err != nil {
		return err
	}

	if conflict, ok := seg.insert(addr.Offset, v); !ok {
		return cairoerr.NewInconsistentMemory(addr.Segment, addr.Offset, conflict.String(), v.String())
	}

	return nil
}
