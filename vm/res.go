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

// computeRes derives res from already-known op0/op1 for a non-AssertEq
// opcode, where deduction never applies: an operand res_logic needs but
// does not have is simply UndefinedValue.
func computeRes(logic insn.ResLogic, op0 memory.Value, op0Known bool, op1 memory.Value, op1Known bool, op0Addr, op1Addr memory.Relocatable) (memory.Value, error) {
	switch logic {
	case insn.ResOp1:
		if !op1Known {
			return memory.Value{}, cairoerr.NewUndefinedValue(op1Addr.Segment, op1Addr.Offset)
		}

		return op1, nil
	case insn.ResAdd:
		if !op0Known {
			return memory.Value{}, cairoerr.NewUndefinedValue(op0Addr.Segment, op0Addr.Offset)
		}

		if !op1Known {
			return memory.Value{}, cairoerr.NewUndefinedValue(op1Addr.Segment, op1Addr.Offset)
		}

		return addValues(op0, op1)
	case insn.ResMul:
		if !op0Known {
			return memory.Value{}, cairoerr.NewUndefinedValue(op0Addr.Segment, op0Addr.Offset)
		}

		if !op1Known {
			return memory.Value{}, cairoerr.NewUndefinedValue(op1Addr.Segment, op1Addr.Offset)
		}

		return mulValues(op0, op1)
	default:
		// ResUnused: only decoded under pc_update=Jnz, which never
		// consults res; res is left as the zero Value.
		return memory.Value{}, nil
	}
}

// deduceAssertEq resolves res for an AssertEq step, deducing whichever
// single one of {op0, op1, dst} is missing when res_logic determines it
// uniquely. newOp0/newOp1 are non-nil exactly when that operand had to be
// deduced and must be written back to memory.
func deduceAssertEq(op0 memory.Value, op0Known bool, op1 memory.Value, op1Known bool, dst memory.Value, dstKnown bool, logic insn.ResLogic) (res memory.Value, newOp0, newOp1 *memory.Value, err error) {
	switch logic {
	case insn.ResOp1:
		switch {
		case op1Known:
			return op1, nil, nil, nil
		case dstKnown:
			return dst, nil, &dst, nil
		default:
			return memory.Value{}, nil, nil, cairoerr.NewUndeducibleOperand("op1 (res_logic=op1, dst also unknown)")
		}
	case insn.ResAdd:
		switch {
		case op0Known && op1Known:
			res, err = addValues(op0, op1)
			return res, nil, nil, err
		case op0Known && dstKnown:
			v, err := subValues(dst, op0)
			if err != nil {
				return memory.Value{}, nil, nil, err
			}

			return dst, nil, &v, nil
		case op1Known && dstKnown:
			v, err := subValues(dst, op1)
			if err != nil {
				return memory.Value{}, nil, nil, err
			}

			return dst, &v, nil, nil
		default:
			return memory.Value{}, nil, nil, cairoerr.NewUndeducibleOperand("res_logic=add needs at least two of {op0, op1, dst}")
		}
	case insn.ResMul:
		switch {
		case op0Known && op1Known:
			res, err = mulValues(op0, op1)
			return res, nil, nil, err
		case op0Known && dstKnown:
			v, err := divValues(dst, op0)
			if err != nil {
				return memory.Value{}, nil, nil, err
			}

			return dst, nil, &v, nil
		case op1Known && dstKnown:
			v, err := divValues(dst, op1)
			if err != nil {
				return memory.Value{}, nil, nil, err
			}

			return dst, &v, nil, nil
		default:
			return memory.Value{}, nil, nil, cairoerr.NewUndeducibleOperand("res_logic=mul needs at least two of {op0, op1, dst}")
		}
	default:
		return memory.Value{}, nil, nil, cairoerr.NewUndeducibleOperand("res_logic is unused, cannot assert_eq")
	}
}

func addValues(a, b memory.Value) (memory.Value, error) {
	switch {
	case a.IsFelt() && b.IsFelt():
		af, _ := a.AsFelt()
		bf, _ := b.AsFelt()

		return memory.FeltValue(af.Add(bf)), nil
	case a.IsRelocatable() && b.IsFelt():
		ar, _ := a.AsRelocatable()
		bf, _ := b.AsFelt()

		r, err := ar.Add(bf)
		if err != nil {
			return memory.Value{}, err
		}

		return memory.RelocatableValue(r), nil
	case a.IsFelt() && b.IsRelocatable():
		br, _ := b.AsRelocatable()
		af, _ := a.AsFelt()

		r, err := br.Add(af)
		if err != nil {
			return memory.Value{}, err
		}

		return memory.RelocatableValue(r), nil
	default:
		return memory.Value{}, cairoerr.NewExpectedFelt("cannot add two Relocatables")
	}
}

func subValues(a, b memory.Value) (memory.Value, error) {
	switch {
	case a.IsFelt() && b.IsFelt():
		af, _ := a.AsFelt()
		bf, _ := b.AsFelt()

		return memory.FeltValue(af.Sub(bf)), nil
	case a.IsRelocatable() && b.IsRelocatable():
		ar, _ := a.AsRelocatable()
		br, _ := b.AsRelocatable()

		f, err := ar.Sub(br)
		if err != nil {
			return memory.Value{}, err
		}

		return memory.FeltValue(f), nil
	case a.IsRelocatable() && b.IsFelt():
		ar, _ := a.AsRelocatable()
		bf, _ := b.AsFelt()

		r, err := ar.Add(bf.Neg())
		if err != nil {
			return memory.Value{}, err
		}

		return memory.RelocatableValue(r), nil
	default:
		return memory.Value{}, cairoerr.NewExpectedFelt("cannot subtract a Relocatable from a Felt")
	}
}

func mulValues(a, b memory.Value) (memory.Value, error) {
	af, err := a.AsFelt()
	if err != nil {
		return memory.Value{}, err
	}

	bf, err := b.AsFelt()
	if err != nil {
		return memory.Value{}, err
	}

	return memory.FeltValue(af.Mul(bf)), nil
}

// divValues computes a/b as a Felt (used to invert the Mul res_logic
// during AssertEq deduction). Fails with UndeducibleOperand if b is zero.
func divValues(a, b memory.Value) (memory.Value, error) {
	af, err := a.AsFelt()
	if err != nil {
		return memory.Value{}, err
	}

	bf, err := b.AsFelt()
	if err != nil {
		return memory.Value{}, err
	}

	if bf.IsZero() {
		return memory.Value{}, cairoerr.NewUndeducibleOperand("division by zero while inverting res_logic=mul")
	}

	return memory.FeltValue(af.Mul(bf.Inverse())), nil
}
