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

// openTail tracks, per variable, the (exclusive) end of the range
// currently being grown backward. Lifetime analysis walks the trace in
// reverse, so a variable's live range only closes (gets its true start
// pinned) when the walk reaches its definition.
type lifetimeState struct {
    store    *Store
    num      *Numbering
    regcfg   lir.RegisterConfig
    openTail map[int]lir.ID
    lastUse  map[*Interval]*Interval
    callIDs  []lir.ID
}

// AnalyzeLifetimes is C3: one backward pass over the trace, computing
// ranges and use positions per interval and recording register-killing
// call sites into fixed intervals.
func AnalyzeLifetimes(trace *lir.Trace, num *Numbering, regcfg lir.RegisterConfig, store *Store) {
    st := &lifetimeState{
        store:    store,
        num:      num,
        regcfg:   regcfg,
        openTail: make(map[int]lir.ID),
        lastUse:  make(map[*Interval]*Interval),
    }

    for bi := len(trace.Blocks) - 1; bi >= 0; bi-- {
        b := trace.Blocks[bi]

        if b.Entry {
            st.seedEntryParams(b)
        }

        for ii := len(b.Instrs) - 1; ii >= 0; ii-- {
            st.visitInstr(b.Instrs[ii])
        }
    }

    store.FreezeRoots()
    st.markCallCrossers()
}

// seedEntryParams opens a range starting at the block's first id for
// every variable defined by a LoadParam so that a use before any
// in-trace redefinition still resolves to a valid interval.
func (self *lifetimeState) seedEntryParams(b *lir.Block) {
    for _, ins := range b.Instrs {
        if lp, ok := ins.(*lir.LoadParam); ok && lp.R.Operand.IsVariable() {
            idx := lp.R.Operand.VarIndex()
            if _, open := self.openTail[idx]; !open {
                self.openTail[idx] = self.num.FirstID(b)
            }
        }
    }
}

func (self *lifetimeState) visitInstr(ins lir.Instr) {
    id := ins.ID()

    if call, ok := ins.(lir.CallInstr); ok && call.DestroysCallerSaved() {
        self.callIDs = append(self.callIDs, id)

        var clobbered map[lir.PhysReg]bool
        precise := false

        if pc, ok := ins.(lir.PreciseClobberInstr); ok {
            clobbered, precise = pc.ClobberedRegisters()
        }

        for _, r := range self.regcfg.AllocatableRegisters() {
            if !self.regcfg.IsCallerSave(r) {
                continue
            }

            if precise && !clobbered[r] {
                continue
            }

            fi := self.store.GetOrCreateFixedInterval(r)
            fi.Ranges = fi.Ranges.prependOrExtend(id, id+1)
        }
    }

    if h, ok := ins.(lir.HasOutputs); ok {
        h.VisitOutputs(func(v *lir.Value) { self.visitOutput(v, id) })
    }

    if h, ok := ins.(lir.HasTemps); ok {
        h.VisitTemps(func(v *lir.Value) { self.visitTemp(v, id) })
    }

    if h, ok := ins.(lir.HasAlives); ok {
        h.VisitAlives(func(v *lir.Value) { self.visitAlive(v, id) })
    }

    if h, ok := ins.(lir.HasInputs); ok {
        h.VisitInputs(func(v *lir.Value) { self.visitInput(v, id) })
    }

    if mv, ok := ins.(lir.MoveInstr); ok {
        self.recordHint(mv)
    }

    if c, ok := ins.(*lir.Const); ok && c.Rematerializable {
        iv := self.store.GetOrCreateInterval(c.R.Operand, lir.KindInt)
        iv.MaterializeValue = c.ConstValue
    }
}

func (self *lifetimeState) visitOutput(v *lir.Value, id lir.ID) {
    if v.Operand.IsRegister() {
        r := v.Operand.Register()
        fi := self.store.GetOrCreateFixedInterval(r)
        fi.Ranges = fi.Ranges.prependOrExtend(id, id+1)
        return
    }

    idx := v.Operand.VarIndex()
    iv := self.store.GetOrCreateInterval(v.Operand, kindOf(v))

    // The range starts at id+1, not id: an input of the same instruction
    // may die exactly at id (its range end is id+1, exclusive), and a
    // definition must not be considered simultaneously live with the
    // value it replaces just because they share an opId. This is the
    // usual even/odd def-after-use convention, collapsed onto plain
    // integers since gaps are represented explicitly by moves instead.
    if open, ok := self.openTail[idx]; ok {
        iv.Ranges = iv.Ranges.prependOrExtend(id+1, open)
        delete(self.openTail, idx)
    } else {
        iv.Ranges = iv.Ranges.prependOrExtend(id+1, id+2)
    }

    iv.Uses = iv.Uses.prepend(id, MustHaveRegister)
}

func (self *lifetimeState) visitTemp(v *lir.Value, id lir.ID) {
    if v.Operand.IsRegister() {
        r := v.Operand.Register()
        fi := self.store.GetOrCreateFixedInterval(r)
        fi.Ranges = fi.Ranges.prependOrExtend(id, id+1)
        return
    }

    iv := self.store.GetOrCreateInterval(v.Operand, kindOf(v))
    iv.Ranges = iv.Ranges.prependOrExtend(id, id+1)
    iv.Uses = iv.Uses.prepend(id, MustHaveRegister)
}

func (self *lifetimeState) visitAlive(v *lir.Value, id lir.ID) {
    if v.Operand.IsRegister() {
        return
    }

    idx := v.Operand.VarIndex()
    iv := self.store.GetOrCreateInterval(v.Operand, kindOf(v))

    end := id + 2

    if open, ok := self.openTail[idx]; ok {
        if end < open {
            end = open
        }
    }

    self.openTail[idx] = end
    _ = iv
}

func (self *lifetimeState) visitInput(v *lir.Value, id lir.ID) {
    if v.Operand.IsRegister() {
        return
    }

    idx := v.Operand.VarIndex()
    iv := self.store.GetOrCreateInterval(v.Operand, kindOf(v))

    if _, ok := self.openTail[idx]; !ok {
        self.openTail[idx] = id + 1
    }

    iv.Uses = iv.Uses.prepend(id, MustHaveRegister)
}

// recordHint handles move coalescing: a move v2 <- v1 records the hint
// "v2 should get v1's eventual register" on v2's interval.
func (self *lifetimeState) recordHint(mv lir.MoveInstr) {
    dst, src := mv.Dst(), mv.Src()

    if dst == nil || src == nil || !dst.Operand.IsVariable() || !src.Operand.IsVariable() {
        return
    }

    dstIv, _ := self.store.IntervalFor(dst.Operand)
    srcIv, _ := self.store.IntervalFor(src.Operand)

    if dstIv != nil && srcIv != nil {
        dstIv.hint = srcIv
    }
}

// markCallCrossers sets crossesCall on every root interval that has at
// least one range spanning a call id, now that every range has reached
// its final extent. Used only as a register-choice tie-break, so a
// linear scan over the (typically short) call id list per interval is
// fine.
func (self *lifetimeState) markCallCrossers() {
    if len(self.callIDs) == 0 {
        return
    }

    for _, iv := range self.store.Roots() {
        for _, id := range self.callIDs {
            if iv.Ranges.Covers(id) {
                iv.crossesCall = true
                break
            }
        }
    }
}

func kindOf(v *lir.Value) lir.Kind {
    return v.Kind
}
