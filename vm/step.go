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
package vm

import (
	"sort"

	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/insn"
	"github.com/danielcdz/cairo-vm-go/memory"
)

type write struct {
	addr memory.Relocatable
	val  memory.Value
}

// Step executes exactly one instruction against mem starting from regs,
// returning the updated registers and the addresses written during the
// step. On any error, mem and regs are left exactly as they were: every
// register update and every prospective memory write is computed and
// checked for conflicts before anything is actually committed. The one
// exception is a builtin's memoization of an already-derivable output
// cell, which may be written as a side effect of reading an operand or of
// validating a pending write against current memory; it is a pure function
// of state that existed before the step began.
func Step(mem *memory.Memory, regs Registers) (Registers, []memory.Relocatable, error) {
	word, err := mem.GetRequired(regs.Pc)
	if err != nil {
		return regs, nil, err
	}

	wordFelt, err := word.AsFelt()
	if err != nil {
		return regs, nil, cairoerr.NewInstructionError("word at pc is not a Felt")
	}

	wordU64, ok := wordFelt.ToUint64()
	if !ok {
		return regs, nil, cairoerr.NewInstructionError("word at pc does not fit in 64 bits")
	}

	instr, err := insn.Decode(wordU64)
	if err != nil {
		return regs, nil, err
	}

	dstAddr, err := registerBase(instr.DstReg, regs).AddSigned(int64(instr.DstOffset))
	if err != nil {
		return regs, nil, err
	}

	op0Addr, err := registerBase(instr.Op0Reg, regs).AddSigned(int64(instr.Op0Offset))
	if err != nil {
		return regs, nil, err
	}

	op0Val, op0Known := mem.Get(op0Addr)

	op1Addr, err := resolveOp1Addr(instr, regs, op0Val, op0Known, op0Addr)
	if err != nil {
		return regs, nil, err
	}

	op1Val, op1Known := mem.Get(op1Addr)
	dstVal, dstKnown := mem.Get(dstAddr)

	pending := map[memory.Relocatable]memory.Value{}

	var res memory.Value

	if instr.Opcode == insn.OpAssertEq {
		var newOp0, newOp1 *memory.Value

		res, newOp0, newOp1, err = deduceAssertEq(op0Val, op0Known, op1Val, op1Known, dstVal, dstKnown, instr.ResLogic)
		if err != nil {
			return regs, nil, err
		}

		if newOp0 != nil {
			pending[op0Addr] = *newOp0
			op0Val, op0Known = *newOp0, true
		}

		if newOp1 != nil {
			pending[op1Addr] = *newOp1
			op1Val, op1Known = *newOp1, true
		}

		pending[dstAddr] = res
		dstVal, dstKnown = res, true
	} else {
		res, err = computeRes(instr.ResLogic, op0Val, op0Known, op1Val, op1Known, op0Addr, op1Addr)
		if err != nil {
			return regs, nil, err
		}
	}

	if instr.Opcode == insn.OpCall {
		returnPc, err := regs.Pc.AddSigned(int64(instr.Size()))
		if err != nil {
			return regs, nil, err
		}

		callFpSlot, err := regs.Ap.AddSigned(0)
		if err != nil {
			return regs, nil, err
		}

		callReturnSlot, err := regs.Ap.AddSigned(1)
		if err != nil {
			return regs, nil, err
		}

		pending[callFpSlot] = memory.RelocatableValue(regs.Fp)
		pending[callReturnSlot] = memory.RelocatableValue(returnPc)
	}

	newPc, err := computePc(instr, regs, res, dstVal, dstKnown, dstAddr, op1Val, op1Known, op1Addr)
	if err != nil {
		return regs, nil, err
	}

	newAp, err := computeAp(instr, regs, res)
	if err != nil {
		return regs, nil, err
	}

	newFp, err := computeFp(instr, regs, dstVal, dstKnown, dstAddr)
	if err != nil {
		return regs, nil, err
	}

	writes := make([]write, 0, len(pending))
	for addr, val := range pending {
		writes = append(writes, write{addr: addr, val: val})
	}

	sort.Slice(writes, func(i, j int) bool {
		return writes[i].addr.Cmp(writes[j].addr) < 0
	})

	for _, w := range writes {
		if err := checkInsertable(mem, w.addr, w.val); err != nil {
			return regs, nil, err
		}
	}

	touched := make([]memory.Relocatable, 0, len(writes))

	for _, w := range writes {
		if err := mem.Insert(w.addr, w.val); err != nil {
			return regs, nil, err
		}

		touched = append(touched, w.addr)
	}

	return Registers{Pc: newPc, Ap: newAp, Fp: newFp}, touched, nil
}

func registerBase(reg insn.Register, regs Registers) memory.Relocatable {
	if reg == insn.Fp {
		return regs.Fp
	}

	return regs.Ap
}

func resolveOp1Addr(instr insn.Instruction, regs Registers, op0Val memory.Value, op0Known bool, op0Addr memory.Relocatable) (memory.Relocatable, error) {
	switch instr.Op1Src {
	case insn.Op1SrcPc:
		return regs.Pc.AddSigned(int64(instr.Op1Offset))
	case insn.Op1SrcAp:
		return regs.Ap.AddSigned(int64(instr.Op1Offset))
	case insn.Op1SrcFp:
		return regs.Fp.AddSigned(int64(instr.Op1Offset))
	case insn.Op1SrcOp0:
		if !op0Known {
			return memory.Relocatable{}, cairoerr.NewUndefinedValue(op0Addr.Segment, op0Addr.Offset)
		}

		op0Reloc, err := op0Val.AsRelocatable()
		if err != nil {
			return memory.Relocatable{}, err
		}

		return op0Reloc.AddSigned(int64(instr.Op1Offset))
	default:
		return memory.Relocatable{}, cairoerr.NewInvalidOp1Src(uint16(instr.Op1Src))
	}
}

// checkInsertable reports whether writing val at addr would succeed,
// without mutating mem: either the segment doesn't exist (SegmentOutOfBounds),
// the cell already holds a different value (InconsistentMemory), or the
// write is safe (the cell is unknown, or already holds an equal value).
func checkInsertable(mem *memory.Memory, addr memory.Relocatable, val memory.Value) error {
	if addr.Segment >= mem.NumSegments() {
		return cairoerr.NewSegmentOutOfBounds(addr.Segment, mem.NumSegments())
	}

	if existing, ok := mem.Get(addr); ok && !existing.Equals(val) {
		return cairoerr.NewInconsistentMemory(addr.Segment, addr.Offset, existing.String(), val.String())
	}

	return nil
}
