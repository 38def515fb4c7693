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

// Package insn decodes and encodes Cairo instruction words: a 63-bit
// packed encoding of a register-machine micro-operation.
package insn

import "fmt"

// Register selects which base register an offset is relative to.
type Register uint8

const (
	Ap Register = iota
	Fp
)

func (r Register) String() string {
	if r == Fp {
		return "fp"
	}

	return "ap"
}

// Op1Src selects where op1's address is derived from.
type Op1Src uint8

const (
	Op1SrcOp0 Op1Src = 0
	Op1SrcPc  Op1Src = 1
	Op1SrcFp  Op1Src = 2
	Op1SrcAp  Op1Src = 4
)

func (s Op1Src) String() string {
	switch s {
	case Op1SrcOp0:
		return "op0"
	case Op1SrcPc:
		return "pc"
	case Op1SrcFp:
		return "fp"
	case Op1SrcAp:
		return "ap"
	default:
		return "?"
	}
}

// ResLogic selects how res is derived from op0 and op1. Its values fit in
// two bits, so Instruction.Discriminant can shift them above Opcode's three
// bits and pack both into a single integer.
type ResLogic uint8

const (
	ResOp1 ResLogic = iota
	ResAdd
	ResMul
	ResUnused
)

func (r ResLogic) String() string {
	switch r {
	case ResOp1:
		return "op1"
	case ResAdd:
		return "add"
	case ResMul:
		return "mul"
	default:
		return "unused"
	}
}

// PcUpdate selects how pc advances after a step.
type PcUpdate uint8

const (
	PcRegular PcUpdate = 0
	PcJump    PcUpdate = 1
	PcJumpRel PcUpdate = 2
	PcJnz     PcUpdate = 4
)

func (p PcUpdate) String() string {
	switch p {
	case PcRegular:
		return "regular"
	case PcJump:
		return "jump"
	case PcJumpRel:
		return "jump_rel"
	case PcJnz:
		return "jnz"
	default:
		return "?"
	}
}

// ApUpdate selects how ap advances after a step.
type ApUpdate uint8

const (
	ApUnchanged ApUpdate = iota
	ApAddRes
	ApAdd1
	ApAdd2
)

func (a ApUpdate) String() string {
	switch a {
	case ApUnchanged:
		return "ap"
	case ApAddRes:
		return "add_res"
	case ApAdd1:
		return "add1"
	case ApAdd2:
		return "add2"
	default:
		return "?"
	}
}

// FpUpdate selects how fp advances after a step. Never encoded directly;
// always derived from Opcode.
type FpUpdate uint8

const (
	FpUnchanged FpUpdate = iota
	FpApPlus2
	FpDst
)

func (f FpUpdate) String() string {
	switch f {
	case FpUnchanged:
		return "fp"
	case FpApPlus2:
		return "ap_plus2"
	case FpDst:
		return "dst"
	default:
		return "?"
	}
}

// Opcode selects the instruction's side effect. Its values fit in three
// bits, so Instruction.Discriminant can place ResLogic above them and pack
// both into a single integer.
type Opcode uint8

const (
	OpNoOp     Opcode = 0
	OpCall     Opcode = 1
	OpRet      Opcode = 2
	OpAssertEq Opcode = 4
)

func (o Opcode) String() string {
	switch o {
	case OpNoOp:
		return "nop"
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	case OpAssertEq:
		return "assert_eq"
	default:
		return "?"
	}
}

// Instruction is the fully decoded representation of one instruction word.
type Instruction struct {
	DstOffset int16
	Op0Offset int16
	Op1Offset int16
	DstReg    Register
	Op0Reg    Register
	Op1Src    Op1Src
	ResLogic  ResLogic
	PcUpdate  PcUpdate
	ApUpdate  ApUpdate
	FpUpdate  FpUpdate
	Opcode    Opcode
}

// Size returns the number of memory cells this instruction occupies: 2
// when op1_src is Pc (an immediate follows in the next cell), else 1.
func (i Instruction) Size() uint32 {
	if i.Op1Src == Op1SrcPc {
		return 2
	}

	return 1
}

// Discriminant packs Opcode and ResLogic into a single integer the
// interpreter can switch on directly: Opcode occupies bits 0..2 and
// ResLogic is shifted into bits 3..4, so the two never overlap.
func (i Instruction) Discriminant() uint16 {
	return uint16(i.Opcode) | uint16(i.ResLogic)<<3
}

// String renders i in a disassembly-like form.
func (i Instruction) String() string {
	return fmt.Sprintf("[%s dst=%s%+d op0=%s%+d op1_src=%s%+d res=%s pc=%s ap=%s fp=%s]",
		i.Opcode, i.DstReg, i.DstOffset, i.Op0Reg, i.Op0Offset, i.Op1Src, i.Op1Offset,
		i.ResLogic, i.PcUpdate, i.ApUpdate, i.FpUpdate)
}
