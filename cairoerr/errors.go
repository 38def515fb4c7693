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

// Package cairoerr defines the disjoint, categorized error kinds raised by
// the decoder, memory model and interpreter.  A single step either succeeds
// or returns exactly one *Error; the core packages (felt, memory, builtin,
// insn, vm) return these errors unwrapped. The cli package wraps them with
// context via fmt.Errorf.
package cairoerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the disjoint error categories a step can raise.
type Kind uint8

const (
	// HighBitSet indicates bit 63 of an instruction word is set.
	HighBitSet Kind = iota
	// InvalidDstReg indicates the dst_reg flag bit decoded to an
	// unrecognised register (structurally unreachable, since dst_reg is a
	// single bit and both values are legal; retained so the Kind set
	// matches the categorisation given in the specification).
	InvalidDstReg
	// InvalidOp0Reg is the op0_reg analogue of InvalidDstReg.
	InvalidOp0Reg
	// InvalidOp1Src indicates the op1_src flag bits did not decode to one
	// of Op0, Pc, Fp or Ap.
	InvalidOp1Src
	// InvalidResLogic indicates the res_logic flag bits were 3.
	InvalidResLogic
	// InvalidPcUpdate indicates the pc_update flag bits did not decode to
	// one of Regular, Jump, JumpRel or Jnz.
	InvalidPcUpdate
	// InvalidApUpdate indicates the ap_update flag bits were 3.
	InvalidApUpdate
	// InvalidOpcode indicates the opcode flag bits did not decode to one
	// of NoOp, Call, Ret or AssertEq.
	InvalidOpcode
	// InconsistentMemory indicates a write-once violation.
	InconsistentMemory
	// SegmentOutOfBounds indicates access to a segment id beyond the
	// number of allocated segments.
	SegmentOutOfBounds
	// UndefinedValue indicates a required cell was unassigned.
	UndefinedValue
	// ExpectedFelt indicates a Value sum-type extraction expected a Felt
	// but found a Relocatable.
	ExpectedFelt
	// ExpectedRelocatable is the Relocatable analogue of ExpectedFelt.
	ExpectedRelocatable
	// OffsetOverflow indicates Relocatable address arithmetic left the
	// representable u32 offset range.
	OffsetOverflow
	// CrossSegmentSub indicates a Relocatable subtraction was attempted
	// between two different segments.
	CrossSegmentSub
	// UndeducibleOperand indicates an AssertEq step could not uniquely
	// determine a missing operand.
	UndeducibleOperand
	// InstructionError indicates the word fetched at pc was not a Felt or
	// did not fit in 64 bits. builtin.View also raises it when a Layout's
	// Compute returns the wrong number of output cells.
	InstructionError
)

// String renders a human-readable name for the error kind, matching the
// identifiers used in the specification's error table.
func (k Kind) String() string {
	switch k {
	case HighBitSet:
		return "HighBitSet"
	case InvalidDstReg:
		return "InvalidDstReg"
	case InvalidOp0Reg:
		return "InvalidOp0Reg"
	case InvalidOp1Src:
		return "InvalidOp1Src"
	case InvalidResLogic:
		return "InvalidResLogic"
	case InvalidPcUpdate:
		return "InvalidPcUpdate"
	case InvalidApUpdate:
		return "InvalidApUpdate"
	case InvalidOpcode:
		return "InvalidOpcode"
	case InconsistentMemory:
		return "InconsistentMemory"
	case SegmentOutOfBounds:
		return "SegmentOutOfBounds"
	case UndefinedValue:
		return "UndefinedValue"
	case ExpectedFelt:
		return "ExpectedFelt"
	case ExpectedRelocatable:
		return "ExpectedRelocatable"
	case OffsetOverflow:
		return "OffsetOverflow"
	case CrossSegmentSub:
		return "CrossSegmentSub"
	case UndeducibleOperand:
		return "UndeducibleOperand"
	case InstructionError:
		return "InstructionError"
	default:
		return "UnknownError"
	}
}

// Error is a structured error which retains the category of failure
// alongside a human-readable message.  The core packages never wrap it: a
// step raises exactly one of these.
type Error struct {
	kind Kind
	msg  string
}

// Kind returns the category of this error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Is allows errors.Is(err, cairoerr.Sentinel(cairoerr.HighBitSet)) - style
// checks by comparing against another *Error's kind; a bare Kind is not an
// error, so it must be wrapped via cairoerr.Sentinel first.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.kind == e.kind
	}

	return false
}

// Sentinel constructs a bare *Error carrying only a kind, suitable for use
// with errors.Is in tests.
func Sentinel(kind Kind) *Error {
	return &Error{kind: kind}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}

	return false
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// NewHighBitSet reports that bit 63 of the given word was set.
func NewHighBitSet(word uint64) *Error {
	return newf(HighBitSet, "instruction word 0x%x has bit 63 set", word)
}

// NewInvalidDstReg reports an unrecognised dst_reg encoding.
func NewInvalidDstReg(bits uint16) *Error {
	return newf(InvalidDstReg, "invalid dst_reg encoding %d", bits)
}

// NewInvalidOp0Reg reports an unrecognised op0_reg encoding.
func NewInvalidOp0Reg(bits uint16) *Error {
	return newf(InvalidOp0Reg, "invalid op0_reg encoding %d", bits)
}

// NewInvalidOp1Src reports an unrecognised op1_src encoding.
func NewInvalidOp1Src(bits uint16) *Error {
	return newf(InvalidOp1Src, "invalid op1_src encoding %d", bits)
}

// NewInvalidResLogic reports an unrecognised res_logic encoding.
func NewInvalidResLogic(bits uint16) *Error {
	return newf(InvalidResLogic, "invalid res_logic encoding %d", bits)
}

// NewInvalidPcUpdate reports an unrecognised pc_update encoding.
func NewInvalidPcUpdate(bits uint16) *Error {
	return newf(InvalidPcUpdate, "invalid pc_update encoding %d", bits)
}

// NewInvalidApUpdate reports an unrecognised ap_update encoding.
func NewInvalidApUpdate(bits uint16) *Error {
	return newf(InvalidApUpdate, "invalid ap_update encoding %d", bits)
}

// NewInvalidOpcode reports an unrecognised opcode encoding.
func NewInvalidOpcode(bits uint16) *Error {
	return newf(InvalidOpcode, "invalid opcode encoding %d", bits)
}

// NewInconsistentMemory reports a write-once violation at (segment,offset).
func NewInconsistentMemory(segment, offset uint32, old, new string) *Error {
	return newf(InconsistentMemory, "cell (%d,%d) already holds %s, cannot rewrite as %s",
		segment, offset, old, new)
}

// NewSegmentOutOfBounds reports access to a segment beyond the allocated
// range.
func NewSegmentOutOfBounds(segment, numSegments uint32) *Error {
	return newf(SegmentOutOfBounds, "segment %d does not exist (only %d allocated)", segment, numSegments)
}

// NewUndefinedValue reports a read of an unassigned, but required, cell.
func NewUndefinedValue(segment, offset uint32) *Error {
	return newf(UndefinedValue, "cell (%d,%d) is unassigned", segment, offset)
}

// NewExpectedFelt reports a Value sum-type mismatch where a Felt was
// required.
func NewExpectedFelt(context string) *Error {
	return newf(ExpectedFelt, "expected a Felt %s", context)
}

// NewExpectedRelocatable reports a Value sum-type mismatch where a
// Relocatable was required.
func NewExpectedRelocatable(context string) *Error {
	return newf(ExpectedRelocatable, "expected a Relocatable %s", context)
}

// NewOffsetOverflow reports Relocatable arithmetic leaving the u32 offset
// range.
func NewOffsetOverflow(segment, offset uint32, delta int64) *Error {
	return newf(OffsetOverflow, "offset %d of segment %d cannot be shifted by %d without overflow", offset, segment, delta)
}

// NewOffsetOverflowValue reports that a Felt added to a Relocatable did not
// fit within the u32 offset range at all.
func NewOffsetOverflowValue(segment, offset uint32, value string) *Error {
	return newf(OffsetOverflow, "offset %d of segment %d cannot be shifted by %s: does not fit in u32", offset, segment, value)
}

// NewCrossSegmentSub reports a Relocatable subtraction across two different
// segments.
func NewCrossSegmentSub(a, b uint32) *Error {
	return newf(CrossSegmentSub, "cannot subtract addresses in segment %d and segment %d", b, a)
}

// NewUndeducibleOperand reports that an AssertEq step could not determine a
// missing operand.
func NewUndeducibleOperand(context string) *Error {
	return newf(UndeducibleOperand, "cannot deduce %s", context)
}

// NewInstructionError reports an unusable instruction word (context says
// why), or a builtin Compute returning the wrong number of output cells.
func NewInstructionError(context string) *Error {
	return newf(InstructionError, "invalid instruction word: %s", context)
}
