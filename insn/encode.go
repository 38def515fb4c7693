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

func signedToBiased(v int16) uint16 {
	return uint16(int32(v) + offsetBias)
}

// Encode packs i back into a 63-bit instruction word, the inverse of
// Decode. FpUpdate is not encoded (Decode rederives it from Opcode), so
// Encode does not read it; passing an Instruction whose FpUpdate disagrees
// with its Opcode is silently corrected by the following Decode.
func Encode(i Instruction) (uint64, error) {
	var flags uint16

	if i.DstReg == Fp {
		flags |= 1 << 0
	}

	if i.Op0Reg == Fp {
		flags |= 1 << 1
	}

	op1SrcBits, err := encodeOp1Src(i.Op1Src)
	if err != nil {
		return 0, err
	}

	flags |= op1SrcBits << 2

	resLogicBits, err := encodeResLogic(i.ResLogic)
	if err != nil {
		return 0, err
	}

	flags |= resLogicBits << 5

	pcUpdateBits, err := encodePcUpdate(i.PcUpdate)
	if err != nil {
		return 0, err
	}

	flags |= pcUpdateBits << 7

	apUpdateBits, err := encodeApUpdate(i.ApUpdate)
	if err != nil {
		return 0, err
	}

	flags |= apUpdateBits << 10

	opcodeBits, err := encodeOpcode(i.Opcode)
	if err != nil {
		return 0, err
	}

	flags |= opcodeBits << 12

	w := uint64(signedToBiased(i.DstOffset))
	w |= uint64(signedToBiased(i.Op0Offset)) << 16
	w |= uint64(signedToBiased(i.Op1Offset)) << 32
	w |= uint64(flags) << 48

	return w, nil
}

func encodeOp1Src(s Op1Src) (uint16, error) {
	switch s {
	case Op1SrcOp0:
		return 0, nil
	case Op1SrcPc:
		return 1, nil
	case Op1SrcFp:
		return 2, nil
	case Op1SrcAp:
		return 4, nil
	default:
		return 0, cairoerr.NewInvalidOp1Src(uint16(s))
	}
}

func encodeResLogic(r ResLogic) (uint16, error) {
	switch r {
	case ResOp1, ResUnused:
		return 0, nil
	case ResAdd:
		return 1, nil
	case ResMul:
		return 2, nil
	default:
		return 0, cairoerr.NewInvalidResLogic(uint16(r))
	}
}

func encodePcUpdate(p PcUpdate) (uint16, error) {
	switch p {
	case PcRegular:
		return 0, nil
	case PcJump:
		return 1, nil
	case PcJumpRel:
		return 2, nil
	case PcJnz:
		return 4, nil
	default:
		return 0, cairoerr.NewInvalidPcUpdate(uint16(p))
	}
}

func encodeApUpdate(a ApUpdate) (uint16, error) {
	switch a {
	case ApUnchanged, ApAdd2:
		return 0, nil
	case ApAddRes:
		return 1, nil
	case ApAdd1:
		return 2, nil
	default:
		return 0, cairoerr.NewInvalidApUpdate(uint16(a))
	}
}

func encodeOpcode(o Opcode) (uint16, error) {
	switch o {
	case OpNoOp:
		return 0, nil
	case OpCall:
		return 1, nil
	case OpRet:
		return 2, nil
	case OpAssertEq:
		return 4, nil
	default:
		return 0, cairoerr.NewInvalidOpcode(uint16(o))
	}
}
