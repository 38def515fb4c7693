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
package builtin

import "github.com/danielcdz/cairo-vm-go/felt"

// Pedersen returns a two-input hash builtin layout: 3 cells per block, the
// first 2 (a, b) are inputs, offset 2 holds Compute(a, b).
//
// The bundled Compute is not a real Pedersen hash - deriving the actual
// elliptic-curve constants is out of scope here - it is a placeholder
// accumulation over Felt arithmetic that exercises the Layout contract
// end to end. Pass WithHash to inject a real implementation.
func Pedersen(opts ...Option) Layout {
	l := Layout{
		CellsPerBlock: 3,
		InputCells:    2,
		Compute:       placeholderPedersen,
	}

	for _, opt := range opts {
		opt(&l)
	}

	return l
}

func placeholderPedersen(inputs []felt.Felt) ([]felt.Felt, error) {
	a, b := inputs[0], inputs[1]
	acc := a.Mul(felt.FromUint64(31)).Add(b)

	return []felt.Felt{acc}, nil
}

// Poseidon returns a three-input, three-output sponge-permutation builtin
// layout: 6 cells per block, the first 3 (s0, s1, s2) are the input state,
// offsets 3, 4, 5 hold Compute(s0, s1, s2).
//
// As with Pedersen, the bundled Compute is a placeholder mixing function,
// not the real Poseidon permutation. Pass WithHash to inject one.
func Poseidon(opts ...Option) Layout {
	l := Layout{
		CellsPerBlock: 6,
		InputCells:    3,
		Compute:       placeholderPoseidon,
	}

	for _, opt := range opts {
		opt(&l)
	}

	return l
}

func placeholderPoseidon(inputs []felt.Felt) ([]felt.Felt, error) {
	s0, s1, s2 := inputs[0], inputs[1], inputs[2]

	o0 := s0.Add(s1).Add(s2)
	o1 := s0.Mul(felt.FromUint64(3)).Add(s1)
	o2 := s1.Mul(felt.FromUint64(5)).Add(s2)

	return []felt.Felt{o0, o1, o2}, nil
}
