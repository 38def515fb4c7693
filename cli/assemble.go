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
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danielcdz/cairo-vm-go/insn"
)

// demoPrograms maps a name to a small, hand-assembled word stream, used to
// give run/debug something to load without a real assembler. Each builder
// emits raw words directly, rather than one Instruction each, because an
// instruction whose op1_src is Pc is followed by a bare immediate word that
// Decode never sees as an instruction in its own right.
var demoPrograms = map[string]func() ([]uint64, error){
	"assert-eq": assertEqDemo,
	"jnz-loop":  jnzLoopDemo,
}

var assembleCmd = &cobra.Command{
	Use:   "assemble [flags]",
	Short: "Emit a small demonstration program as a JSON word array",
	Long: `Build one of the built-in demonstration word streams and print it as a
JSON array of hex instruction words, suitable input for run/debug.`,
	Run: func(cmd *cobra.Command, args []string) {
		name := getFlagString(cmd, "demo")

		build, ok := demoPrograms[name]
		if !ok {
			log.Fatalf("unknown demo %q (available: %v)", name, demoNames())
		}

		rawWords, err := build()
		if err != nil {
			log.Fatalf("assembling %q: %v", name, err)
		}

		words := make([]string, len(rawWords))
		for i, w := range rawWords {
			words[i] = fmt.Sprintf("0x%x", w)
		}

		out, err := json.MarshalIndent(words, "", "  ")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(string(out))
	},
}

func demoNames() []string {
	names := make([]string, 0, len(demoPrograms))
	for name := range demoPrograms {
		names = append(names, name)
	}

	return names
}

func encodeOrFail(i insn.Instruction) (uint64, error) {
	w, err := insn.Encode(i)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", i, err)
	}

	return w, nil
}

// assertEqDemo builds "assert [ap+0] = 5" (deducing [ap+0] from an
// immediate), then a self-jump halt: "jmp rel 0".
func assertEqDemo() ([]uint64, error) {
	assertEq, err := encodeOrFail(insn.Instruction{
		Opcode:    insn.OpAssertEq,
		ResLogic:  insn.ResOp1,
		PcUpdate:  insn.PcRegular,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcPc,
		Op1Offset: 1,
		DstReg:    insn.Ap,
		DstOffset: 0,
	})
	if err != nil {
		return nil, err
	}

	halt, immediate, err := haltWords()
	if err != nil {
		return nil, err
	}

	return []uint64{assertEq, 5, halt, immediate}, nil
}

// jnzLoopDemo builds "assert [ap+0] = 5" to give the branch a known,
// non-zero value, then a jnz on it that always lands on itself (its taken
// branch's offset immediate is 0), landing directly on the self-jump halt
// condition run/debug detect.
func jnzLoopDemo() ([]uint64, error) {
	assertEq, err := encodeOrFail(insn.Instruction{
		Opcode:    insn.OpAssertEq,
		ResLogic:  insn.ResOp1,
		PcUpdate:  insn.PcRegular,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcPc,
		Op1Offset: 1,
		DstReg:    insn.Ap,
		DstOffset: 0,
	})
	if err != nil {
		return nil, err
	}

	jnz, err := encodeOrFail(insn.Instruction{
		Opcode:    insn.OpNoOp,
		ResLogic:  insn.ResUnused,
		PcUpdate:  insn.PcJnz,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcPc,
		Op1Offset: 1,
		DstReg:    insn.Ap,
		DstOffset: 0,
	})
	if err != nil {
		return nil, err
	}

	return []uint64{assertEq, 5, jnz, 0}, nil
}

// haltWords returns the encoded word for "jmp rel [pc+1]" and the trailing
// zero immediate that makes it a self-jump: the conventional Cairo program
// terminator that run/debug recognise as pc failing to advance.
func haltWords() (instr uint64, immediate uint64, err error) {
	instr, err = encodeOrFail(insn.Instruction{
		Opcode:    insn.OpNoOp,
		ResLogic:  insn.ResOp1,
		PcUpdate:  insn.PcJumpRel,
		ApUpdate:  insn.ApUnchanged,
		Op1Src:    insn.Op1SrcPc,
		Op1Offset: 1,
	})

	return instr, 0, err
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().String("demo", "assert-eq", fmt.Sprintf("which demonstration program to emit (%v)", demoNames()))
}

// getFlagString reads a string flag, following getFlagBool's convention.
func getFlagString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}
