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
	"github.com/danielcdz/cairo-vm-go/cairoerr"
	"github.com/danielcdz/cairo-vm-go/felt"
)

// kind discriminates the two cases of Value.
type kind uint8

const (
	kindFelt kind = iota
	kindRelocatable
)

// Value is a tagged union of {Felt, Relocatable} - the only shape a memory
// cell can hold.
type Value struct {
	kind  kind
	felt  felt.Felt
	reloc Relocatable
}

// FeltValue wraps a Felt as a Value.
func FeltValue(f felt.Felt) Value {
	return Value{kind: kindFelt, felt: f}
}

// RelocatableValue wraps a Relocatable as a Value.
func RelocatableValue(r Relocatable) Value {
	return Value{kind: kindRelocatable, reloc: r}
}

// IsFelt reports whether v holds a Felt.
func (v Value) IsFelt() bool {
	return v.kind == kindFelt
}

// IsRelocatable reports whether v holds a Relocatable.
func (v Value) IsRelocatable() bool {
	return v.kind == kindRelocatable
}

// AsFelt extracts the Felt held by v, or fails with ExpectedFelt if v holds
// a Relocatable.
func (v Value) AsFelt() (felt.Felt, error) {
	if v.kind != kindFelt {
		return felt.Felt{}, cairoerr.NewExpectedFelt("but found a Relocatable")
	}

	return v.felt, nil
}

// AsRelocatable extracts the Relocatable held by v, or fails with
// ExpectedRelocatable if v holds a Felt.
func (v Value) AsRelocatable() (Relocatable, error) {
	if v.kind != kindRelocatable {
		return Relocatable{}, cairoerr.NewExpectedRelocatable("but found a Felt")
	}

	return v.reloc, nil
}

// Equals reports whether v and o hold equal values of the same kind.
func (v Value) Equals(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	if v.kind == kindFelt {
		return v.felt.Equals(o.felt)
	}

	return v.reloc.Equals(o.reloc)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == kindFelt {
		return v.felt.String()
	}

	return v.reloc.String()
}
