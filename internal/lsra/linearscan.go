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

const infinity = lir.ID(1 << 30)

// Allocator runs C5, the main linear-scan walk, over a Store already
// populated by AnalyzeLifetimes (C3).
type Allocator struct {
    store  *Store
    num    *Numbering
    regcfg lir.RegisterConfig
    frame  lir.FrameBuilder
    cfg    Config
    stats  *Stats
}

func NewAllocator(store *Store, num *Numbering, regcfg lir.RegisterConfig, frame lir.FrameBuilder, cfg Config, stats *Stats) *Allocator {
    return &Allocator{store: store, num: num, regcfg: regcfg, frame: frame, cfg: cfg, stats: stats}
}

// Run performs the linear-scan walk over every unhandled interval in
// ascending From() order. It mutates every interval's Location and may
// append split children to the store.
func (self *Allocator) Run() error {
    roots := self.store.Roots()
    insertionSortByFrom(roots)

    lists := newWalkLists(roots)

    for {
        current := lists.popUnhandled()

        if current == nil {
            break
        }

        lists.advance(current.From())

        if !self.tryAllocateFreeReg(current, lists) {
            if err := self.allocateWithSpill(current, lists); err != nil {
                return err
            }
        }

        if current.Location.Kind == lir.LocRegister {
            lists.active = append(lists.active, current)
        }
    }

    return nil
}

// freeUntilPos builds the initial free-until vector: every allocatable
// register compatible with current's kind starts at infinity (free for
// current's entire lifetime). tryAllocateFreeReg then lowers the
// entries held by active, inactive and fixed intervals.
func (self *Allocator) freeUntilPos(current *Interval) map[lir.PhysReg]lir.ID {
    free := make(map[lir.PhysReg]lir.ID)

    for _, r := range self.regcfg.AllocatableRegisters() {
        if self.regcfg.IsCompatible(r, current.Kind) {
            free[r] = infinity
        }
    }

    return free
}

func (self *Allocator) tryAllocateFreeReg(current *Interval, lists *walkLists) bool {
    free := self.freeUntilPos(current)

    for _, a := range lists.active {
        if a.Location.Kind == lir.LocRegister {
            free[a.Location.Reg] = 0
        }
    }

    curRange := Range{From: current.From(), To: current.To()}

    for _, ia := range lists.inactive {
        if ia.Location.Kind != lir.LocRegister {
            continue
        }
        if id, ok := ia.Ranges.nextIntersection(curRange); ok {
            if id < free[ia.Location.Reg] {
                free[ia.Location.Reg] = id
            }
        }
    }

    for _, fi := range self.store.FixedIntervals() {
        if id, ok := fi.Ranges.nextIntersection(curRange); ok {
            if id < free[fi.Reg] {
                free[fi.Reg] = id
            }
        }
    }

    r, ok := self.pickBest(free, current)

    if !ok || free[r] == 0 {
        return false
    }

    if free[r] >= current.To() {
        self.assignRegister(current, r)
        return true
    }

    tail := self.splitAt(current, free[r])
    self.assignRegister(current, r)
    lists.pushUnhandled(tail)
    return true
}

// pickBest applies the tie-break rule among free registers: hinted
// register first, then callee-save over caller-save when current
// crosses a call, then lowest register number.
func (self *Allocator) pickBest(free map[lir.PhysReg]lir.ID, current *Interval) (lir.PhysReg, bool) {
    var best lir.PhysReg
    bestPos := lir.ID(-1)
    found := false

    if hint := current.RegisterHint(); hint != nil {
        if pos, ok := free[hint.Location.Reg]; ok && pos > 0 {
            return hint.Location.Reg, true
        }
    }

    for r, pos := range free {
        switch {
        case !found:
            best, bestPos, found = r, pos, true
        case pos > bestPos:
            best, bestPos = r, pos
        case pos == bestPos:
            if self.preferOver(r, best, current) {
                best = r
            }
        }
    }

    return best, found
}

func (self *Allocator) preferOver(r, cur lir.PhysReg, current *Interval) bool {
    if current.crossesCall {
        rCallee := !self.regcfg.IsCallerSave(r)
        curCallee := !self.regcfg.IsCallerSave(cur)

        if rCallee != curCallee {
            return rCallee
        }
    }

    return r < cur
}

// allocateWithSpill is the blocked-register path: no free register
// covers current's next must-have-register use, so something has to
// give up a register or current itself gets spilled.
func (self *Allocator) allocateWithSpill(current *Interval, lists *walkLists) error {
    use := make(map[lir.PhysReg]lir.ID)

    for _, r := range self.regcfg.AllocatableRegisters() {
        if self.regcfg.IsCompatible(r, current.Kind) {
            use[r] = infinity
        }
    }

    holders := make(map[lir.PhysReg]*Interval)

    for _, a := range lists.active {
        if a.Location.Kind == lir.LocRegister {
            if pos, ok := a.Uses.NextUseAfter(current.From(), MustHaveRegister); ok {
                use[a.Location.Reg] = pos
            } else {
                use[a.Location.Reg] = 0
            }
            holders[a.Location.Reg] = a
        }
    }

    r, ok := self.pickBest(use, current)

    if !ok {
        return bailout("no compatible register class for %s", current)
    }

    firstUse, hasMustUse := current.FirstUse(MustHaveRegister)

    if !hasMustUse || use[r] < firstUse {
        self.spillInterval(current)

        if hasMustUse {
            tail := self.splitAt(current, firstUse)
            lists.pushUnhandled(tail)
        }

        return nil
    }

    if holder, ok := holders[r]; ok {
        tail := self.splitAt(holder, current.From())
        self.spillInterval(tail)

        if pos, ok := tail.FirstUse(MustHaveRegister); ok {
            lists.pushUnhandled(self.splitAt(tail, pos))
        }

        lists.active = removeInterval(lists.active, holder)
    }

    for _, fi := range self.store.FixedIntervals() {
        if fi.Reg != r {
            continue
        }
        if id, ok := fi.Ranges.nextIntersection(Range{From: current.From(), To: current.To()}); ok {
            if id > current.From() {
                tail := self.splitAt(current, id)
                lists.pushUnhandled(tail)
            }
        }
    }

    self.assignRegister(current, r)
    return nil
}

func (self *Allocator) assignRegister(iv *Interval, r lir.PhysReg) {
    iv.Location = lir.AtRegister(r)
}

// spillInterval assigns a memory home to iv: prefer rematerialization,
// then family slot reuse, then a fresh frame slot (optionally cached
// across compilations by variable index).
func (self *Allocator) spillInterval(iv *Interval) {
    if iv.CanMaterialize() && !self.cfg.NeverSpillConstants {
        iv.Location = lir.Illegal
        return
    }

    root := iv.SplitParent

    if root.SpillSlot != lir.NoSlot {
        iv.SpillSlot = root.SpillSlot
        iv.Location = lir.AtStack(root.SpillSlot)
        return
    }

    slot := self.allocateSlot(root, iv.Kind)
    root.SpillSlot = slot
    iv.SpillSlot = slot
    iv.Location = lir.AtStack(slot)

    if self.stats != nil {
        self.stats.AllocatedStackSlots++
    }
}

func (self *Allocator) allocateSlot(root *Interval, kind lir.Kind) lir.SpillSlot {
    if self.cfg.CacheStackSlots && self.cfg.StackSlotCache != nil {
        idx := root.Operand.VarIndex()

        if cached, ok := self.cfg.StackSlotCache[idx]; ok {
            if slot, ok := cached.(lir.SpillSlot); ok {
                return slot
            }
        }

        slot := self.frame.AllocateSpillSlot(kind)
        self.cfg.StackSlotCache[idx] = slot
        return slot
    }

    return self.frame.AllocateSpillSlot(kind)
}

// splitAt divides parent at splitPos, creating (and returning) the tail
// split child. The parent interval keeps every range/use strictly
// before splitPos; the new child takes the rest.
func (self *Allocator) splitAt(parent *Interval, splitPos lir.ID) *Interval {
    child := self.store.CreateDerivedInterval(parent)

    var headRanges, tailRanges RangeList

    for _, r := range parent.Ranges {
        switch {
        case r.To <= splitPos:
            headRanges = append(headRanges, r)
        case r.From >= splitPos:
            tailRanges = append(tailRanges, r)
        default:
            headRanges = append(headRanges, Range{From: r.From, To: splitPos})
            tailRanges = append(tailRanges, Range{From: splitPos, To: r.To})
        }
    }

    var headUses, tailUses UsePosList

    for _, u := range parent.Uses {
        if u.ID < splitPos {
            headUses = append(headUses, u)
        } else {
            tailUses = append(tailUses, u)
        }
    }

    parent.Ranges = headRanges
    parent.Uses = headUses

    child.Ranges = tailRanges
    child.Uses = tailUses
    child.crossesCall = parent.crossesCall
    child.hint = parent.hint

    return child
}
