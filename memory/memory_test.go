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
package memory

import (
	"testing"

	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/felt"
)

func TestInsertThenGet(t *testing.T) {
	m := NewMemory()
	seg := m.AddSegment()
	addr := NewRelocatable(seg, 3)

	if err := m.Insert(addr, FeltValue(felt.FromUint64(7))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := m.Get(addr)
	if !ok {
		t.Fatal("expected cell to be assigned")
	}

	if v, _ := got.AsFelt(); !v.Equals(felt.FromUint64(7)) {
		t.Fatalf("got %s, want 7", v)
	}
}

func TestWriteOnceAcceptsRepeatedEqualWrites(t *testing.T) {
	m := NewMemory()
	seg := m.AddSegment()
	addr := NewRelocatable(seg, 0)

	for i := 0; i < 3; i++ {
		if err := m.Insert(addr, FeltValue(felt.FromUint64(9))); err != nil {
			t.Fatalf("write %d: unexpected error: %v", i, err)
		}
	}
}

func TestWriteOnceRejectsConflictingWrite(t *testing.T) {
	m := NewMemory()
	seg := m.AddSegment()
	addr := NewRelocatable(seg, 0)

	if err := m.Insert(addr, FeltValue(felt.FromUint64(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := m.Insert(addr, FeltValue(felt.FromUint64(2)))
	if !cairoerr.Is(err, cairoerr.InconsistentMemory) {
		t.Fatalf("expected InconsistentMemory, got %v", err)
	}
}

func TestGetRequiredOnUnknownCellFails(t *testing.T) {
	m := NewMemory()
	seg := m.AddSegment()

	_, err := m.GetRequired(NewRelocatable(seg, 5))
	if !cairoerr.Is(err, cairoerr.UndefinedValue) {
		t.Fatalf("expected UndefinedValue, got %v", err)
	}
}

func TestGetOnUnknownCellIsDistinctFromZero(t *testing.T) {
	m := NewMemory()
	seg := m.AddSegment()
	zeroAddr := NewRelocatable(seg, 0)
	unknownAddr := NewRelocatable(seg, 1)

	if err := m.Insert(zeroAddr, FeltValue(felt.Zero())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := m.Get(zeroAddr); !ok {
		t.Fatal("expected cell holding Felt(0) to be known")
	}

	if _, ok := m.Get(unknownAddr); ok {
		t.Fatal("expected unassigned cell to be unknown")
	}
}

func TestInsertIntoMissingSegmentFails(t *testing.T) {
	m := NewMemory()

	err := m.Insert(NewRelocatable(0, 0), FeltValue(felt.Zero()))
	if !cairoerr.Is(err, cairoerr.SegmentOutOfBounds) {
		t.Fatalf("expected SegmentOutOfBounds, got %v", err)
	}
}

func TestStepAtomicityOnFailedWriteLeavesMemoryUnchanged(t *testing.T) {
	m := NewMemory()
	seg := m.AddSegment()
	addr := NewRelocatable(seg, 0)

	if err := m.Insert(addr, FeltValue(felt.FromUint64(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before, _ := m.Get(addr)

	if err := m.Insert(addr, FeltValue(felt.FromUint64(2))); err == nil {
		t.Fatal("expected conflicting write to fail")
	}

	after, _ := m.Get(addr)
	if !before.Equals(after) {
		t.Fatalf("memory changed despite failed write: before=%s after=%s", before, after)
	}
}
