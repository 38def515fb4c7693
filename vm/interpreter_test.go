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
	"testing"

	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/felt"
	"github.com/danielcdz/cairo-vm-go/insn"
	"github.com/danielcdz/cairo-vm-go/memory"
)

func mustEncode(t *testing.T, i insn.Instruction) uint64 {
	t.Helper()

	w, err := insn.Encode(i)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	return w
}

func TestStepCallSemantics(t *testing.T) {
	mem := memory.NewMemory()
	code := mem.AddSegment() // segment 0
	exec := mem.AddSegment() // segment 1

	instr := insn.Instruction{
		Opcode:    insn.OpCall,
		ResLogic:  insn.ResOp1,
		PcUpdate:  insn.PcJump,
		ApUpdate:  insn.ApAdd2,
		Op1Src:    insn.Op1SrcPc,
		Op1Offset: 1,
		DstReg:    insn.Ap,
		Op0Reg:    insn.Ap,
	}

	word := mustEncode(t, instr)

	if err := mem.Insert(memory.NewRelocatable(code, 0), memory.FeltValue(felt.FromUint64(word))); err != nil {
		t.Fatalf("insert instruction: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(code, 1), memory.RelocatableValue(memory.NewRelocatable(code, 10))); err != nil {
		t.Fatalf("insert immediate: %v", err)
	}

	regs := Registers{
		Pc: memory.NewRelocatable(code, 0),
		Ap: memory.NewRelocatable(exec, 2),
		Fp: memory.NewRelocatable(exec, 0),
	}

	newRegs, touched, err := Step(mem, regs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !newRegs.Pc.Equals(memory.NewRelocatable(code, 10)) {
		t.Fatalf("pc = %s, want (0,10)", newRegs.Pc)
	}

	if !newRegs.Ap.Equals(memory.NewRelocatable(exec, 4)) {
		t.Fatalf("ap = %s, want (1,4)", newRegs.Ap)
	}

	if !newRegs.Fp.Equals(memory.NewRelocatable(exec, 4)) {
		t.Fatalf("fp = %s, want (1,4)", newRegs.Fp)
	}

	savedFp, err := mem.GetRequired(memory.NewRelocatable(exec, 2))
	if err != nil {
		t.Fatalf("read saved fp: %v", err)
	}

	if r, _ := savedFp.AsRelocatable(); !r.Equals(memory.NewRelocatable(exec, 0)) {
		t.Fatalf("M[(1,2)] = %s, want (1,0)", r)
	}

	returnPc, err := mem.GetRequired(memory.NewRelocatable(exec, 3))
	if err != nil {
		t.Fatalf("read return pc: %v", err)
	}

	if r, _ := returnPc.AsRelocatable(); !r.Equals(memory.NewRelocatable(code, 2)) {
		t.Fatalf("M[(1,3)] = %s, want (0,2)", r)
	}

	if len(touched) != 2 {
		t.Fatalf("touched = %v, want 2 cells", touched)
	}
}

func TestStepAssertEqDeduction(t *testing.T) {
	mem := memory.NewMemory()
	code := mem.AddSegment()
	exec := mem.AddSegment()

	instr := insn.Instruction{
		Opcode:    insn.OpAssertEq,
		ResLogic:  insn.ResAdd,
		PcUpdate:  insn.PcRegular,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcAp,
		Op0Reg:    insn.Ap,
		DstReg:    insn.Ap,
		DstOffset: 0,
		Op0Offset: 1,
		Op1Offset: 2,
	}

	word := mustEncode(t, instr)

	if err := mem.Insert(memory.NewRelocatable(code, 0), memory.FeltValue(felt.FromUint64(word))); err != nil {
		t.Fatalf("insert instruction: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 1), memory.FeltValue(felt.FromUint64(3))); err != nil {
		t.Fatalf("insert op0: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 2), memory.FeltValue(felt.FromUint64(4))); err != nil {
		t.Fatalf("insert op1: %v", err)
	}

	regs := Registers{
		Pc: memory.NewRelocatable(code, 0),
		Ap: memory.NewRelocatable(exec, 0),
		Fp: memory.NewRelocatable(exec, 0),
	}

	newRegs, touched, err := Step(mem, regs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst, err := mem.GetRequired(memory.NewRelocatable(exec, 0))
	if err != nil {
		t.Fatalf("read deduced dst: %v", err)
	}

	f, _ := dst.AsFelt()
	if !f.Equals(felt.FromUint64(7)) {
		t.Fatalf("dst = %s, want 7", f)
	}

	if !newRegs.Pc.Equals(memory.NewRelocatable(code, 1)) {
		t.Fatalf("pc = %s, want (0,1)", newRegs.Pc)
	}

	if len(touched) != 1 {
		t.Fatalf("touched = %v, want 1 cell", touched)
	}
}

func TestStepAssertEqConflictingDstFails(t *testing.T) {
	mem := memory.NewMemory()
	code := mem.AddSegment()
	exec := mem.AddSegment()

	instr := insn.Instruction{
		Opcode:    insn.OpAssertEq,
		ResLogic:  insn.ResAdd,
		PcUpdate:  insn.PcRegular,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcAp,
		Op0Reg:    insn.Ap,
		DstReg:    insn.Ap,
		DstOffset: 0,
		Op0Offset: 1,
		Op1Offset: 2,
	}

	word := mustEncode(t, instr)

	if err := mem.Insert(memory.NewRelocatable(code, 0), memory.FeltValue(felt.FromUint64(word))); err != nil {
		t.Fatalf("insert instruction: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 0), memory.FeltValue(felt.FromUint64(8))); err != nil {
		t.Fatalf("insert dst: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 1), memory.FeltValue(felt.FromUint64(3))); err != nil {
		t.Fatalf("insert op0: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 2), memory.FeltValue(felt.FromUint64(4))); err != nil {
		t.Fatalf("insert op1: %v", err)
	}

	regs := Registers{
		Pc: memory.NewRelocatable(code, 0),
		Ap: memory.NewRelocatable(exec, 0),
		Fp: memory.NewRelocatable(exec, 0),
	}

	newRegs, _, err := Step(mem, regs)
	if !cairoerr.Is(err, cairoerr.InconsistentMemory) {
		t.Fatalf("expected InconsistentMemory, got %v", err)
	}

	if newRegs != regs {
		t.Fatalf("registers changed on failed step: got %s, want %s", newRegs, regs)
	}

	dst, err := mem.GetRequired(memory.NewRelocatable(exec, 0))
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}

	if f, _ := dst.AsFelt(); !f.Equals(felt.FromUint64(8)) {
		t.Fatalf("dst mutated on failed step: %s", f)
	}
}

func TestStepJnzFallthroughAndTaken(t *testing.T) {
	build := func(t *testing.T, dstValue uint64) (*memory.Memory, Registers) {
		t.Helper()

		mem := memory.NewMemory()
		code := mem.AddSegment()
		exec := mem.AddSegment()

		instr := insn.Instruction{
			Opcode:    insn.OpNoOp,
			ResLogic:  insn.ResUnused,
			PcUpdate:  insn.PcJnz,
			ApUpdate:  insn.ApUnchanged,
			Op1Src:    insn.Op1SrcPc,
			Op1Offset: 1,
			DstReg:    insn.Ap,
			Op0Reg:    insn.Ap,
		}

		word := mustEncode(t, instr)

		if err := mem.Insert(memory.NewRelocatable(code, 0), memory.FeltValue(felt.FromUint64(word))); err != nil {
			t.Fatalf("insert instruction: %v", err)
		}

		if err := mem.Insert(memory.NewRelocatable(code, 1), memory.FeltValue(felt.FromUint64(5))); err != nil {
			t.Fatalf("insert immediate: %v", err)
		}

		if err := mem.Insert(memory.NewRelocatable(exec, 0), memory.FeltValue(felt.FromUint64(dstValue))); err != nil {
			t.Fatalf("insert dst: %v", err)
		}

		regs := Registers{
			Pc: memory.NewRelocatable(code, 0),
			Ap: memory.NewRelocatable(exec, 0),
			Fp: memory.NewRelocatable(exec, 0),
		}

		return mem, regs
	}

	t.Run("fallthrough", func(t *testing.T) {
		mem, regs := build(t, 0)

		newRegs, _, err := Step(mem, regs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !newRegs.Pc.Equals(memory.NewRelocatable(regs.Pc.Segment, 2)) {
			t.Fatalf("pc = %s, want +2", newRegs.Pc)
		}
	})

	t.Run("taken", func(t *testing.T) {
		mem, regs := build(t, 9)

		newRegs, _, err := Step(mem, regs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !newRegs.Pc.Equals(memory.NewRelocatable(regs.Pc.Segment, 5)) {
			t.Fatalf("pc = %s, want +5", newRegs.Pc)
		}
	})
}

func TestStepUndeducibleOperandLeavesStateUnchanged(t *testing.T) {
	mem := memory.NewMemory()
	code := mem.AddSegment()
	exec := mem.AddSegment()

	instr := insn.Instruction{
		Opcode:    insn.OpAssertEq,
		ResLogic:  insn.ResMul,
		PcUpdate:  insn.PcRegular,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcAp,
		Op0Reg:    insn.Ap,
		DstReg:    insn.Ap,
		DstOffset: 0,
		Op0Offset: 1,
		Op1Offset: 2,
	}

	word := mustEncode(t, instr)

	if err := mem.Insert(memory.NewRelocatable(code, 0), memory.FeltValue(felt.FromUint64(word))); err != nil {
		t.Fatalf("insert instruction: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 0), memory.FeltValue(felt.FromUint64(6))); err != nil {
		t.Fatalf("insert dst: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(exec, 1), memory.FeltValue(felt.Zero())); err != nil {
		t.Fatalf("insert op0: %v", err)
	}

	regs := Registers{
		Pc: memory.NewRelocatable(code, 0),
		Ap: memory.NewRelocatable(exec, 0),
		Fp: memory.NewRelocatable(exec, 0),
	}

	newRegs, touched, err := Step(mem, regs)
	if !cairoerr.Is(err, cairoerr.UndeducibleOperand) {
		t.Fatalf("expected UndeducibleOperand, got %v", err)
	}

	if touched != nil {
		t.Fatalf("expected no touched cells, got %v", touched)
	}

	if newRegs != regs {
		t.Fatalf("registers changed on failed step")
	}

	if _, ok := mem.Get(memory.NewRelocatable(exec, 2)); ok {
		t.Fatal("op1 should remain unassigned after a failed deduction")
	}
}

func TestStepInstructionErrorOnRelocatableWord(t *testing.T) {
	mem := memory.NewMemory()
	code := mem.AddSegment()

	if err := mem.Insert(memory.NewRelocatable(code, 0), memory.RelocatableValue(memory.NewRelocatable(code, 0))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	regs := Registers{Pc: memory.NewRelocatable(code, 0)}

	_, _, err := Step(mem, regs)
	if !cairoerr.Is(err, cairoerr.InstructionError) {
		t.Fatalf("expected InstructionError, got %v", err)
	}
}
