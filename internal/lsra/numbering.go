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

package lsra

import (
    `github.com/cloudwego/tracelsra/internal/lir`
)

// Numbering is the C1 instruction index: a pre-walk of the trace in
// linear order that assigns each instruction the next even id starting
// at 0, and builds dense id -> instruction / id -> block tables.
type Numbering struct {
    trace *lir.Trace

    instrByID []lir.Instr
    blockByID []*lir.Block

    firstID map[*lir.Block]lir.ID
    lastID  map[*lir.Block]lir.ID
}

// Number walks trace and assigns ids. It mutates every instruction in
// place via Instr.SetID.
func Number(trace *lir.Trace) *Numbering {
    n := &Numbering{
        trace:   trace,
        firstID: make(map[*lir.Block]lir.ID),
        lastID:  make(map[*lir.Block]lir.ID),
    }

    id := lir.ID(0)

    for _, b := range trace.Blocks {
        if len(b.Instrs) > 0 {
            n.firstID[b] = id
        }

        for _, ins := range b.Instrs {
            ins.SetID(id)

            n.instrByID = append(n.instrByID, ins)
            n.blockByID = append(n.blockByID, b)

            id = id.Next()
        }

        if len(b.Instrs) > 0 {
            n.lastID[b] = id - 2
        }
    }

    return n
}

func (self *Numbering) slot(id lir.ID) int {
    return int(id / 2)
}

func (self *Numbering) InstrAt(id lir.ID) (lir.Instr, bool) {
    i := self.slot(id)

    if i < 0 || i >= len(self.instrByID) {
        return nil, false
    }

    return self.instrByID[i], true
}

func (self *Numbering) BlockAt(id lir.ID) (*lir.Block, bool) {
    i := self.slot(id)

    if i < 0 || i >= len(self.blockByID) {
        return nil, false
    }

    return self.blockByID[i], true
}

func (self *Numbering) FirstID(b *lir.Block) lir.ID {
    if id, ok := self.firstID[b]; ok {
        return id
    }
    return lir.InvalidID
}

func (self *Numbering) LastID(b *lir.Block) lir.ID {
    if id, ok := self.lastID[b]; ok {
        return id
    }
    return lir.InvalidID
}

// IsBlockBegin reports whether id opens a new block: either it is the
// very first instruction of the trace, or the block containing id
// differs from the block containing id-2.
func (self *Numbering) IsBlockBegin(id lir.ID) bool {
    if id == 0 {
        return true
    }

    cur, ok1 := self.BlockAt(id)
    prev, ok2 := self.BlockAt(id - 2)

    return !ok1 || !ok2 || cur != prev
}

// IsBlockEnd reports whether id is the last instruction of its block,
// by comparing id with the last id recorded for that block.
func (self *Numbering) IsBlockEnd(id lir.ID) bool {
    b, ok := self.BlockAt(id)

    if !ok {
        return false
    }

    return self.LastID(b) == id
}

// HasCall is a direct predicate on the instruction at id indicating it
// clobbers all caller-saved registers.
func (self *Numbering) HasCall(id lir.ID) bool {
    ins, ok := self.InstrAt(id)

    if !ok {
        return false
    }

    call, ok := ins.(lir.CallInstr)
    return ok && call.DestroysCallerSaved()
}

func (self *Numbering) MaxID() lir.ID {
    return lir.ID(len(self.instrByID)) * 2
}
