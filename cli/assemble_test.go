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
package cli

import (
	"testing"

	"github.com/danielcdz/cairo-vm-go/vm"
)

func TestDemoProgramsRunToHalt(t *testing.T) {
	for name, build := range demoPrograms {
		t.Run(name, func(t *testing.T) {
			words, err := build()
			if err != nil {
				t.Fatalf("building %s: %v", name, err)
			}

			mem, regs := vm.LoadProgram(words)

			for step := 0; step < 10; step++ {
				next, _, err := vm.Step(mem, regs)
				if err != nil {
					t.Fatalf("step %d: %v", step, err)
				}

				if next == regs {
					return
				}

				regs = next
			}

			t.Fatalf("%s did not halt within 10 steps", name)
		})
	}
}
