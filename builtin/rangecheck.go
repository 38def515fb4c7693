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

import (
	"fmt"
	"math/big"

	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/felt"
)

// DefaultRangeCheckBits is the width of the range enforced by RangeCheck
// when no other bound is configured, matching the 128-bit range check used
// throughout Cairo programs.
const DefaultRangeCheckBits = 128

// RangeCheck returns the range-check builtin layout: one cell per block,
// which is simultaneously the input and the only cell of the block. There
// is nothing to derive, so Compute always returns no output cells; the
// entire contract is enforced by ValidateInput at write time.
func RangeCheck(bits ...uint) Layout {
	width := uint(DefaultRangeCheckBits)
	if len(bits) > 0 {
		width = bits[0]
	}

	bound := new(big.Int).Lsh(big.NewInt(1), width)

	return Layout{
		CellsPerBlock: 1,
		InputCells:    1,
		Compute: func(inputs []felt.Felt) ([]felt.Felt, error) {
			return nil, nil
		},
		ValidateInput: func(f felt.Felt) error {
			if f.ToBigInt().Cmp(bound) >= 0 {
				return cairoerr.NewExpectedFelt(fmt.Sprintf("in range [0, 2^%d), got %s", width, f))
			}

			return nil
		},
	}
}
