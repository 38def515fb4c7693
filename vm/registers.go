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

// Package vm implements the single-step Cairo interpreter: instruction
// fetch, operand resolution, res computation, opcode side effects and
// register updates.
package vm

import (
	"fmt"

	"github.com/danielcdz/cairo-vm-go/memory"
)

// Registers is the (pc, ap, fp) register file the interpreter reads and
// updates once per step.
type Registers struct {
	Pc memory.Relocatable
	Ap memory.Relocatable
	Fp memory.Relocatable
}

// String implements fmt.Stringer.
func (r Registers) String() string {
	return fmt.Sprintf("pc=%s ap=%s fp=%s", r.Pc, r.Ap, r.Fp)
}
