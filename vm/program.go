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
	"github.com/danielcdz/cairo-vm-go/felt"
	"github.com/danielcdz/cairo-vm-go/memory"
)

// Program is a flat sequence of instruction words, already encoded, ready
// to be loaded into a fresh Memory. It performs no ELF, CASM or Sierra
// parsing; program construction is an external collaborator's job.
type Program struct {
	Words []uint64
}

// LoadProgram allocates segment 0 (code) holding words as Felts, segment 1
// (execution) empty but ready to grow, and returns the resulting Memory
// alongside the registers a fresh run starts from: pc at the first code
// cell, ap and fp both at the base of the execution segment.
func LoadProgram(words []uint64) (*memory.Memory, Registers) {
	mem := memory.NewMemory()

	code := mem.AddSegment()
	for i, w := range words {
		addr := memory.NewRelocatable(code, uint32(i))
		// A freshly allocated segment cannot already hold a conflicting
		// value, so this insert cannot fail.
		_ = mem.Insert(addr, memory.FeltValue(felt.FromUint64(w)))
	}

	exec := mem.AddSegment()
	base := memory.NewRelocatable(exec, 0)

	return mem, Registers{
		Pc: memory.NewRelocatable(code, 0),
		Ap: base,
		Fp: base,
	}
}
