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

// Package builtin implements the BuiltinView memory overlay: a segment
// divided into fixed-size blocks, where the first InputCells of each block
// are ordinary write-once Felt cells and the remaining cells are derived
// from them on first read and memoized back into memory.
package builtin

import (
	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/felt"
	"github.com/danielcdz/cairo-vm-go/memory"
)

// Layout parameterizes a builtin overlay: how many cells make up one block,
// how many of those are inputs, and how the remaining output cells are
// derived from the inputs.
type Layout struct {
	// CellsPerBlock is the total number of cells in one repeating block.
	CellsPerBlock uint32
	// InputCells is the number of leading cells in a block that are plain
	// write-once inputs rather than derived outputs.
	InputCells uint32
	// Compute derives the block's output cells (len == CellsPerBlock -
	// InputCells) from its input cells (len == InputCells). Called when an
	// output cell that is not yet memoized is read, and on every write to
	// an output cell; the result is memoized into the overlaid segment.
	Compute func(inputs []felt.Felt) ([]felt.Felt, error)
	// ValidateInput, if non-nil, is applied to every input cell as it is
	// written, before the write-once check. Used by RangeCheck to reject
	// out-of-range values at write time rather than at read time.
	ValidateInput func(felt.Felt) error
}

// Option configures a Layout returned by one of the constructor functions
// below, following the functional-options pattern the same way corset's
// terminal and command constructors do.
type Option func(*Layout)

// WithHash overrides a Layout's Compute function, letting a caller supply
// a real hash implementation in place of the bundled placeholder.
func WithHash(fn func(inputs []felt.Felt) ([]felt.Felt, error)) Option {
	return func(l *Layout) {
		l.Compute = fn
	}
}

// WithValidateInput overrides a Layout's input validation function.
func WithValidateInput(fn func(felt.Felt) error) Option {
	return func(l *Layout) {
		l.ValidateInput = fn
	}
}

// View binds a Layout to one segment of a Memory, implementing
// memory.Overlay so it can be registered via Memory.BindOverlay.
type View struct {
	mem     *memory.Memory
	segment uint32
	layout  Layout
}

// NewView constructs a View over the given segment of mem, driven by
// layout. The caller is still responsible for calling
// mem.BindOverlay(segment, view).
func NewView(mem *memory.Memory, segment uint32, layout Layout) *View {
	return &View{mem: mem, segment: segment, layout: layout}
}

func (v *View) blockBase(offset uint32) uint32 {
	return (offset / v.layout.CellsPerBlock) * v.layout.CellsPerBlock
}

func (v *View) isInputOffset(offset uint32) bool {
	return offset%v.layout.CellsPerBlock < v.layout.InputCells
}

// Get performs a pure read: input cells are read directly, output cells
// are computed (and memoized) on demand if their block's inputs are all
// already known, otherwise the cell is reported unknown.
func (v *View) Get(offset uint32) (memory.Value, bool) {
	if v.isInputOffset(offset) {
		return v.mem.RawGet(memory.NewRelocatable(v.segment, offset))
	}

	if val, ok := v.mem.RawGet(memory.NewRelocatable(v.segment, offset)); ok {
		return val, true
	}

	outputs, base, err := v.computeBlock(offset)
	if err != nil {
		return memory.Value{}, false
	}

	v.memoize(base, outputs)

	local := offset - base
	idx := local - v.layout.InputCells

	return memory.FeltValue(outputs[idx]), true
}

// GetRequired is Get, but fails with UndefinedValue (if the block's inputs
// are not yet known) or the error Compute raised.
func (v *View) GetRequired(offset uint32) (memory.Value, error) {
	if v.isInputOffset(offset) {
		return v.mem.RawGetRequired(memory.NewRelocatable(v.segment, offset))
	}

	if val, ok := v.mem.RawGet(memory.NewRelocatable(v.segment, offset)); ok {
		return val, nil
	}

	outputs, base, err := v.computeBlock(offset)
	if err != nil {
		return memory.Value{}, err
	}

	v.memoize(base, outputs)

	local := offset - base
	idx := local - v.layout.InputCells

	return memory.FeltValue(outputs[idx]), nil
}

// Insert writes v at offset. Input cells go through ValidateInput (if set)
// before the underlying write-once check. Output cells whose block inputs
// are already known are checked against what Compute would have derived,
// even if the cell has never been read and so was never memoized; a write
// that disagrees is rejected. A block whose inputs aren't all known yet has
// nothing to check the write against, so it falls through to the ordinary
// write-once check untouched, matching Get's treatment of such a block as
// unknown rather than as available for validation.
func (v *View) Insert(offset uint32, val memory.Value) error {
	addr := memory.NewRelocatable(v.segment, offset)

	if v.isInputOffset(offset) {
		f, err := val.AsFelt()
		if err != nil {
			return err
		}

		if v.layout.ValidateInput != nil {
			if err := v.layout.ValidateInput(f); err != nil {
				return err
			}
		}

		return v.mem.RawInsert(addr, val)
	}

	outputs, base, err := v.computeBlock(offset)
	if err != nil {
		return v.mem.RawInsert(addr, val)
	}

	idx := offset - base - v.layout.InputCells
	want := memory.FeltValue(outputs[idx])

	if !val.Equals(want) {
		return cairoerr.NewInconsistentMemory(v.segment, offset, want.String(), val.String())
	}

	v.memoize(base, outputs)

	return v.mem.RawInsert(addr, val)
}

// computeBlock gathers offset's block's input cells and runs Compute over
// them, returning the derived outputs and the block's base offset. Fails
// with UndefinedValue if any input cell is not yet known.
func (v *View) computeBlock(offset uint32) (outputs []felt.Felt, base uint32, err error) {
	base = v.blockBase(offset)
	inputs := make([]felt.Felt, v.layout.InputCells)

	for i := uint32(0); i < v.layout.InputCells; i++ {
		iv, err := v.mem.RawGetRequired(memory.NewRelocatable(v.segment, base+i))
		if err != nil {
			return nil, 0, err
		}

		f, err := iv.AsFelt()
		if err != nil {
			return nil, 0, err
		}

		inputs[i] = f
	}

	outputs, err = v.layout.Compute(inputs)
	if err != nil {
		return nil, 0, err
	}

	want := v.layout.CellsPerBlock - v.layout.InputCells
	if uint32(len(outputs)) != want {
		return nil, 0, cairoerr.NewInstructionError("builtin Compute returned the wrong number of output cells")
	}

	return outputs, base, nil
}

func (v *View) memoize(base uint32, outputs []felt.Felt) {
	for i, o := range outputs {
		addr := memory.NewRelocatable(v.segment, base+v.layout.InputCells+uint32(i))
		// Memoization writes are a pure function of inputs already present
		// in memory before this call. Rewriting an equal value is not an
		// error; a conflict arises only when the cell already holds a
		// different value written before the block's inputs were all
		// known. That error is discarded and the stored value is kept.
		_ = v.mem.RawInsert(addr, memory.FeltValue(o))
	}
}
