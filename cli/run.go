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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danielcdz/cairo-vm-go/vm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program.json",
	Short: "Execute a Cairo program to completion",
	Long: `Load a program (a JSON array of instruction words, decimal or hex) and
execute it one step at a time until it halts (pc jumps to itself), an error
occurs, or the step limit is reached.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		if getFlagBool(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		maxSteps := getFlagUint(cmd, "max-steps")

		program, err := loadProgramFile(args[0])
		if err != nil {
			log.Fatalf("loading %s: %v", args[0], err)
		}

		mem, regs := vm.LoadProgram(program.Words)

		log.WithField("words", len(program.Words)).Info("program loaded")

		var totalWrites int

		for step := uint(0); step < maxSteps; step++ {
			next, writes, err := vm.Step(mem, regs)
			if err != nil {
				log.WithField("step", step).WithField("pc", regs.Pc).Errorf("step failed: %v", err)
				os.Exit(1)
			}

			totalWrites += len(writes)

			if next == regs {
				log.WithField("step", step).WithField("pc", next.Pc).WithField("writes", totalWrites).Info("halted: pc did not advance")
				printRegisters(next)
				return
			}

			regs = next
		}

		log.WithField("steps", maxSteps).WithField("writes", totalWrites).Warn("step limit reached before halting")
		printRegisters(regs)
	},
}

func printRegisters(regs vm.Registers) {
	fmt.Printf("pc=%s ap=%s fp=%s\n", regs.Pc, regs.Ap, regs.Fp)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Uint("max-steps", 10_000, "maximum number of steps to execute before giving up")
}
