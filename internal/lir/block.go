/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lir

import (
    `fmt`
    `strings`
)

// Block is one basic block of the trace: a straight-line run of
// instructions with no internal control flow. The trace builder
// (upstream, out of scope for this module) is responsible for producing
// blocks that only branch at their last instruction.
type Block struct {
    Id     int
    Instrs []Instr

    // Entry marks a block that is a trace entry (its variables may be
    // live-in without a preceding definition within the trace, e.g.
    // parameters or values carried over from outside the trace).
    Entry bool
}

func (self *Block) String() string {
    lines := make([]string, 0, len(self.Instrs)+1)
    lines = append(lines, fmt.Sprintf("bb_%d:", self.Id))

    for _, ins := range self.Instrs {
        lines = append(lines, "    "+ins.String())
    }

    return strings.Join(lines, "\n")
}

// Trace is a linearly ordered sequence of basic blocks, the unit of
// allocation. Only the edge from a block to the next block in this slice
// is resolved by the data-flow resolver (C7); edges leaving the trace are
// the responsibility of an external cross-trace fix-up pass.
type Trace struct {
    Blocks []*Block
}

func (self *Trace) String() string {
    parts := make([]string, 0, len(self.Blocks))

    for _, bb := range self.Blocks {
        parts = append(parts, bb.String())
    }

    return strings.Join(parts, "\n")
}
