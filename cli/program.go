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

// Package cli wires the core felt/memory/builtin/insn/vm packages up to a
// cobra command tree, for manual exploration of the interpreter. Nothing
// under felt, memory, builtin, insn or vm imports this package.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/danielcdz/cairo-vm-go/vm"
)

// readProgramFile parses a JSON array of instruction words, each given as a
// decimal or "0x"-prefixed hex string, e.g. ["0x480680017fff8000", "10"].
func readProgramFile(filename string) ([]uint64, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	words := make([]uint64, len(raw))

	for i, s := range raw {
		w, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("word %d (%q) in %s: %w", i, s, filename, err)
		}

		words[i] = w
	}

	return words, nil
}

// loadProgramFile reads filename and loads it into a fresh vm.Program run.
func loadProgramFile(filename string) (*vm.Program, error) {
	words, err := readProgramFile(filename)
	if err != nil {
		return nil, err
	}

	return &vm.Program{Words: words}, nil
}
