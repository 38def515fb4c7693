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
	"golang.org/x/term"

	"github.com/danielcdz/cairo-vm-go/memory"
	"github.com/danielcdz/cairo-vm-go/vm"
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] program.json",
	Short: "Single-step a Cairo program from a raw-mode terminal",
	Long: `Load a program and drive vm.Step one instruction at a time: press any
key to execute the next step, 'q' to quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		program, err := loadProgramFile(args[0])
		if err != nil {
			log.Fatalf("loading %s: %v", args[0], err)
		}

		mem, regs := vm.LoadProgram(program.Words)

		if err := runDebugLoop(mem, regs); err != nil {
			log.Fatal(err)
		}
	},
}

// runDebugLoop puts stdin into raw mode and single-steps mem/regs one key
// press at a time, restoring the terminal on exit however the loop ends.
func runDebugLoop(mem *memory.Memory, regs vm.Registers) error {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return fmt.Errorf("debug requires an interactive terminal")
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}

	defer term.Restore(fd, state)

	fmt.Print("\r\ncairovm debugger: any key to step, 'q' to quit\r\n")
	fmt.Printf("\r\n%s\r\n", formatRegisters(regs))

	buf := make([]byte, 1)

	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}

		if buf[0] == 'q' {
			return nil
		}

		next, writes, err := vm.Step(mem, regs)
		if err != nil {
			fmt.Printf("\r\nstep failed: %v\r\n", err)
			return nil
		}

		halted := next == regs
		regs = next

		fmt.Printf("\r\n%s (wrote %d cell(s))\r\n", formatRegisters(regs), len(writes))

		if halted {
			fmt.Print("\r\nhalted: pc did not advance\r\n")
			return nil
		}
	}
}

func formatRegisters(regs vm.Registers) string {
	return fmt.Sprintf("pc=%s ap=%s fp=%s", regs.Pc, regs.Ap, regs.Fp)
}

func init() {
	rootCmd.AddCommand(debugCmd)
}
