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

// Package felt provides Felt, an element of the Cairo prime field
// F_p with p = 2^251 + 17*2^192 + 1.  Every Felt value held outside this
// package is a canonical representative in [0, p); arithmetic never wraps
// silently to a non-canonical form.
package felt

import (
	"fmt"
	"math/big"
)

// Modulus is the Cairo prime field modulus, p = 2^251 + 17*2^192 + 1.
var Modulus = computeModulus()

func computeModulus() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 251)
	t := new(big.Int).Lsh(big.NewInt(17), 192)

	p.Add(p, t)

	return p.Add(p, big.NewInt(1))
}

// Felt is an element of F_p, always held in canonical form.
type Felt struct {
	val big.Int
}

// Zero constructs the additive identity.
func Zero() Felt {
	return Felt{}
}

// One constructs the multiplicative identity.
func One() Felt {
	return FromUint64(1)
}

// FromUint64 constructs a Felt from a non-negative integer.
func FromUint64(v uint64) Felt {
	var f Felt

	f.val.SetUint64(v)

	return f
}

// FromBigInt reduces v modulo p and constructs the corresponding Felt.
// Panics if v is negative, mirroring field.BigInt in the wider ecosystem's
// convention that Felts represent non-negative quantities only.
func FromBigInt(v *big.Int) Felt {
	if v.Sign() < 0 {
		panic(fmt.Sprintf("felt: cannot construct from negative value %s", v.String()))
	}

	var f Felt

	f.val.Mod(v, Modulus)

	return f
}

// ToBigInt returns the canonical integer representative of x, as a fresh
// *big.Int the caller may mutate freely.
func (x Felt) ToBigInt() *big.Int {
	return new(big.Int).Set(&x.val)
}

// ToUint64 returns the numerical value of x and true, or (0, false) if x
// does not fit in a uint64.
func (x Felt) ToUint64() (uint64, bool) {
	if !x.val.IsUint64() {
		return 0, false
	}

	return x.val.Uint64(), true
}

// ToUint32 returns the numerical value of x and true, or (0, false) if x
// does not fit in a uint32.  Used pervasively by Relocatable arithmetic,
// where offsets are u32.
func (x Felt) ToUint32() (uint32, bool) {
	v, ok := x.ToUint64()
	if !ok || v > uint64(^uint32(0)) {
		return 0, false
	}

	return uint32(v), true
}

// Add computes x+y.
func (x Felt) Add(y Felt) Felt {
	var r Felt

	r.val.Add(&x.val, &y.val)
	r.val.Mod(&r.val, Modulus)

	return r
}

// Sub computes x-y.
func (x Felt) Sub(y Felt) Felt {
	var r Felt

	r.val.Sub(&x.val, &y.val)
	r.val.Mod(&r.val, Modulus)

	return r
}

// Neg computes -x.
func (x Felt) Neg() Felt {
	return Zero().Sub(x)
}

// Mul computes x*y.
func (x Felt) Mul(y Felt) Felt {
	var r Felt

	r.val.Mul(&x.val, &y.val)
	r.val.Mod(&r.val, Modulus)

	return r
}

// Inverse computes x⁻¹.  Panics if x is zero; callers on the deduction path
// must check IsZero first and raise UndeducibleOperand instead.
func (x Felt) Inverse() Felt {
	if x.IsZero() {
		panic("felt: cannot invert zero")
	}

	var r Felt

	r.val.ModInverse(&x.val, Modulus)

	return r
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y, comparing canonical
// representatives.
func (x Felt) Cmp(y Felt) int {
	return x.val.Cmp(&y.val)
}

// Equals reports whether x and y are the same field element.
func (x Felt) Equals(y Felt) bool {
	return x.Cmp(y) == 0
}

// IsZero reports whether x is the additive identity.
func (x Felt) IsZero() bool {
	return x.val.Sign() == 0
}

// And computes the bitwise AND of x and y's canonical integer
// representatives, for use by builtins only (this is not a field
// operation).  The result is reduced modulo p, though for any pair of
// canonical operands it is already smaller than p.
func (x Felt) And(y Felt) Felt {
	var r big.Int

	r.And(&x.val, &y.val)

	return FromBigInt(&r)
}

// Xor is the builtin-only bitwise XOR analogue of And.
func (x Felt) Xor(y Felt) Felt {
	var r big.Int

	r.Xor(&x.val, &y.val)

	return FromBigInt(&r)
}

// Or is the builtin-only bitwise OR analogue of And.
func (x Felt) Or(y Felt) Felt {
	var r big.Int

	r.Or(&x.val, &y.val)

	return FromBigInt(&r)
}

// Text returns the numerical value of x in the given base.
func (x Felt) Text(base int) string {
	return x.val.Text(base)
}

// String implements fmt.Stringer, rendering x in decimal.
func (x Felt) String() string {
	return x.Text(10)
}
