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
package insn

import "github.com/danielcdz/cairo-vm-go/cairoerr"

const offsetBias = 1 << 15

// field extracts width bits of flags starting at bit lo.
func field(flags uint16, lo, width uint) uint16 {
	return (flags >> lo) & ((1 << width) - 1)
}

func biasedToSigned(biased uint16) int16 {
	return int16(int32(biased) - offsetBias)
}

// Decode unpacks a 63-bit instruction word into an Instruction. Bit 63
// (and above) must be zero.
func Decode(w uint64) (Instruction, error) {
	if w >= 1<<63 {
		return Instruction{}, cairoerr.NewHighBitSet(w)
	}

	dstOffsetBiased := uint16(w & 0xFFFF)
	op0OffsetBiased := uint16((w >> 16) & 0xFFFF)
	op1OffsetBiased := uint16((w >> 32) & 0xFFFF)
	flags := uint16((w >> 48) & 0xFFFF)

	var i Instruction

	i.DstOffset = biasedToSigned(dstOffsetBiased)
	i.Op0Offset = biasedToSigned(op0OffsetBiased)
	i.Op1Offset = biasedToSigned(op1OffsetBiased)

	if field(flags, 0, 1) == 1 {
		i.DstReg = Fp
	} else {
		i.DstReg = Ap
	}

	if field(flags, 1, 1) == 1 {
		i.Op0Reg = Fp
	} else {
		i.Op0Reg = Ap
	}

	op1SrcBits := field(flags, 2, 3)

	switch op1SrcBits {
	case 0:
		i.Op1Src = Op1SrcOp0
	case 1:
		i.Op1Src = Op1SrcPc
	case 2:
		i.Op1Src = Op1SrcFp
	case 4:
		i.Op1Src = Op1SrcAp
	default:
		return Instruction{}, cairoerr.NewInvalidOp1Src(op1SrcBits)
	}

	opcodeBits := field(flags, 12, 3)

	switch opcodeBits {
	case 0:
		i.Opcode = OpNoOp
	case 1:
		i.Opcode = OpCall
	case 2:
		i.Opcode = OpRet
	case 4:
		i.Opcode = OpAssertEq
	default:
		return Instruction{}, cairoerr.NewInvalidOpcode(opcodeBits)
	}

	pcUpdateBits := field(flags, 7, 3)

	switch pcUpdateBits {
	case 0:
		i.PcUpdate = PcRegular
	case 1:
		i.PcUpdate = PcJump
	case 2:
		i.PcUpdate = PcJumpRel
	case 4:
		i.PcUpdate = PcJnz
	default:
		return Instruction{}, cairoerr.NewInvalidPcUpdate(pcUpdateBits)
	}

	resLogicBits := field(flags, 5, 2)

	switch resLogicBits {
	case 0:
		if i.PcUpdate == PcJnz {
			i.ResLogic = ResUnused
		} else {
			i.ResLogic = ResOp1
		}
	case 1:
		i.ResLogic = ResAdd
	case 2:
		i.ResLogic = ResMul
	default:
		return Instruction{}, cairoerr.NewInvalidResLogic(resLogicBits)
	}

	apUpdateBits := field(flags, 10, 2)

	switch apUpdateBits {
	case 0:
		if i.Opcode == OpCall {
			i.ApUpdate = ApAdd2
		} else {
			i.ApUpdate = ApUnchanged
		}
	case 1:
		i.ApUpdate = ApAddRes
	case 2:
		i.ApUpdate = ApAdd1
	default:
		return Instruction{}, cairoerr.NewInvalidApUpdate(apUpdateBits)
	}

	switch i.Opcode {
	case OpCall:
		i.FpUpdate = FpApPlus2
	case OpRet:
		i.FpUpdate = FpDst
	default:
		i.FpUpdate = FpUnchanged
	}

	return i, nil
}
