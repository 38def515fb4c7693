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
	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/insn"
	"github.com/danielcdz/cairo-vm-go/memory"
)

// computePc derives the new pc from the pre-step registers, per
// instr.PcUpdate. All inputs are read from the pre-step snapshot.
func computePc(instr insn.Instruction, regs Registers, res memory.Value, dst memory.Value, dstKnown bool, dstAddr memory.Relocatable, op1 memory.Value, op1Known bool, op1Addr memory.Relocatable) (memory.Relocatable, error) {
	switch instr.PcUpdate {
	case insn.PcRegular:
		return regs.Pc.AddSigned(int64(instr.Size()))
	case insn.PcJump:
		r, err := res.AsRelocatable()
		if err != nil {
			return memory.Relocatable{}, err
		}

		return r, nil
	case insn.PcJumpRel:
		f, err := res.AsFelt()
		if err != nil {
			return memory.Relocatable{}, err
		}

		return regs.Pc.Add(f)
	case insn.PcJnz:
		if !dstKnown {
			return memory.Relocatable{}, cairoerr.NewUndefinedValue(dstAddr.Segment, dstAddr.Offset)
		}

		dstFelt, err := dst.AsFelt()
		if err != nil {
			return memory.Relocatable{}, err
		}

		if dstFelt.IsZero() {
			return regs.Pc.AddSigned(int64(instr.Size()))
		}

		if !op1Known {
			return memory.Relocatable{}, cairoerr.NewUndefinedValue(op1Addr.Segment, op1Addr.Offset)
		}

		op1Felt, err := op1.AsFelt()
		if err != nil {
			return memory.Relocatable{}, err
		}

		return regs.Pc.Add(op1Felt)
	default:
		return memory.Relocatable{}, cairoerr.NewInvalidPcUpdate(uint16(instr.PcUpdate))
	}
}

// computeAp derives the new ap from the pre-step ap, per instr.ApUpdate.
func computeAp(instr insn.Instruction, regs Registers, res memory.Value) (memory.Relocatable, error) {
	switch instr.ApUpdate {
	case insn.ApUnchanged:
		return regs.Ap, nil
	case insn.ApAdd1:
		return regs.Ap.AddSigned(1)
	case insn.ApAdd2:
		return regs.Ap.AddSigned(2)
	case insn.ApAddRes:
		f, err := res.AsFelt()
		if err != nil {
			return memory.Relocatable{}, err
		}

		return regs.Ap.Add(f)
	default:
		return memory.Relocatable{}, cairoerr.NewInvalidApUpdate(uint16(instr.ApUpdate))
	}
}

// computeFp derives the new fp. ApPlus2 uses the pre-step ap, computed
// before any ap update takes effect.
func computeFp(instr insn.Instruction, regs Registers, dst memory.Value, dstKnown bool, dstAddr memory.Relocatable) (memory.Relocatable, error) {
	switch instr.FpUpdate {
	case insn.FpUnchanged:
		return regs.Fp, nil
	case insn.FpApPlus2:
		return regs.Ap.AddSigned(2)
	case insn.FpDst:
		if !dstKnown {
			return memory.Relocatable{}, cairoerr.NewUndefinedValue(dstAddr.Segment, dstAddr.Offset)
		}

		r, err := dst.AsRelocatable()
		if err != nil {
			return memory.Relocatable{}, err
		}

		return r, nil
	default:
		return memory.Relocatable{}, cairoerr.NewInvalidPcUpdate(0)
	}
}
