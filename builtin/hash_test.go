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
	"testing"

	"github.com/danielcdz/cairo-vm-go/felt"
	"github.com/danielcdz/cairo-vm-go/memory"
)

func TestPedersenComputesOutputCell(t *testing.T) {
	mem := memory.NewMemory()
	seg := mem.AddSegment()
	mem.BindOverlay(seg, NewView(mem, seg, Pedersen()))

	if err := mem.Insert(memory.NewRelocatable(seg, 0), memory.FeltValue(felt.FromUint64(2))); err != nil {
		t.Fatalf("insert a: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(seg, 1), memory.FeltValue(felt.FromUint64(3))); err != nil {
		t.Fatalf("insert b: %v", err)
	}

	out, err := mem.GetRequired(memory.NewRelocatable(seg, 2))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	f, _ := out.AsFelt()
	if !f.Equals(felt.FromUint64(2*31 + 3)) {
		t.Fatalf("got %s, want %d", f, 2*31+3)
	}
}

func TestPedersenWithHashOverride(t *testing.T) {
	mem := memory.NewMemory()
	seg := mem.AddSegment()

	layout := Pedersen(WithHash(func(inputs []felt.Felt) ([]felt.Felt, error) {
		return []felt.Felt{inputs[0].Add(inputs[1])}, nil
	}))
	mem.BindOverlay(seg, NewView(mem, seg, layout))

	if err := mem.Insert(memory.NewRelocatable(seg, 0), memory.FeltValue(felt.FromUint64(2))); err != nil {
		t.Fatalf("insert a: %v", err)
	}

	if err := mem.Insert(memory.NewRelocatable(seg, 1), memory.FeltValue(felt.FromUint64(3))); err != nil {
		t.Fatalf("insert b: %v", err)
	}

	out, err := mem.GetRequired(memory.NewRelocatable(seg, 2))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	f, _ := out.AsFelt()
	if !f.Equals(felt.FromUint64(5)) {
		t.Fatalf("got %s, want 5", f)
	}
}

func TestPoseidonComputesThreeOutputs(t *testing.T) {
	mem := memory.NewMemory()
	seg := mem.AddSegment()
	mem.BindOverlay(seg, NewView(mem, seg, Poseidon()))

	inputs := []uint64{1, 2, 3}
	for i, v := range inputs {
		if err := mem.Insert(memory.NewRelocatable(seg, uint32(i)), memory.FeltValue(felt.FromUint64(v))); err != nil {
			t.Fatalf("insert s%d: %v", i, err)
		}
	}

	for offset := uint32(3); offset < 6; offset++ {
		if _, err := mem.GetRequired(memory.NewRelocatable(seg, offset)); err != nil {
			t.Fatalf("read output %d: %v", offset, err)
		}
	}
}
