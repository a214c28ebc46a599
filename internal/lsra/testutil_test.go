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

// fakeRegConfig is a minimal lir.RegisterConfig for tests: N registers,
// numbered 0..N-1, with an explicit caller-save set. Every register is
// considered compatible with every Kind, since the test fixtures never
// exercise register-class splitting.
type fakeRegConfig struct {
    n          int
    callerSave map[lir.PhysReg]bool
}

func newFakeRegConfig(n int, callerSave ...lir.PhysReg) *fakeRegConfig {
    cs := make(map[lir.PhysReg]bool)
    for _, r := range callerSave {
        cs[r] = true
    }
    return &fakeRegConfig{n: n, callerSave: cs}
}

func (self *fakeRegConfig) AllocatableRegisters() []lir.PhysReg {
    out := make([]lir.PhysReg, self.n)
    for i := range out {
        out[i] = lir.PhysReg(i)
    }
    return out
}

func (self *fakeRegConfig) IsAllocatable(r lir.PhysReg) bool {
    return r >= 0 && int(r) < self.n
}

func (self *fakeRegConfig) IsCallerSave(r lir.PhysReg) bool {
    return self.callerSave[r]
}

func (self *fakeRegConfig) AllAllocatableRegistersCallerSaved() bool {
    for i := 0; i < self.n; i++ {
        if !self.callerSave[lir.PhysReg(i)] {
            return false
        }
    }
    return true
}

func (self *fakeRegConfig) IsCompatible(r lir.PhysReg, kind lir.Kind) bool {
    return true
}

// fakeFrame hands out ever-incrementing spill slots.
type fakeFrame struct {
    next lir.SpillSlot
}

func (self *fakeFrame) AllocateSpillSlot(kind lir.Kind) lir.SpillSlot {
    s := self.next
    self.next++
    return s
}

// fakeTBR treats every block as reachable and every Entry-flagged block
// as a trace entry, which is all ResolveDataFlow needs for a
// single-trace test fixture.
type fakeTBR struct{}

func (fakeTBR) IsTraceEntry(b *lir.Block) bool { return b.Entry }

func block(id int, entry bool, instrs ...lir.Instr) *lir.Block {
    return &lir.Block{Id: id, Entry: entry, Instrs: instrs}
}

func trace(blocks ...*lir.Block) *lir.Trace {
    return &lir.Trace{Blocks: blocks}
}

func v(idx int) *lir.Value {
    return &lir.Value{Operand: lir.Var(idx)}
}

func constInstr(idx int, val int64, remat bool) *lir.Const {
    return &lir.Const{R: v(idx), ConstValue: val, Rematerializable: remat}
}

func use(idx int) *lir.Use {
    return &lir.Use{V: v(idx)}
}
