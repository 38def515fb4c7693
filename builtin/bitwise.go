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

// Bitwise returns the normative bitwise builtin layout: 5 cells per block,
// the first 2 (x, y) are inputs, and offsets 2, 3, 4 hold x&y, x^y, x|y
// respectively, computed and memoized the first time any of them is read.
func Bitwise() Layout {
	return Layout{
		CellsPerBlock: 5,
		InputCells:    2,
		Compute:       bitwiseCompute,
	}
}

func bitwiseCompute(inputs []felt.Felt) ([]felt.Felt, error) {
	x, y := inputs[0], inputs[1]

	return []felt.Felt{x.And(y), x.Xor(y), x.Or(y)}, nil
}
