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
    `fmt`
    `sort`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// SpillState names how far along the storeAtDefinition optimization an
// interval's split family has gotten, after TraceLinearScan's own
// states. The eliminator (C8) only ever acts on StoreAtDefinition.
// Nothing in this package moves an interval off its zero state
// (NoDefinitionFound), so that branch of the eliminator never fires.
type SpillState uint8

const (
    NoDefinitionFound SpillState = iota
    OneDefinitionFound
    OneMoveInserted
    StoreAtDefinition
    StartInMemory
    NoOptimization
)

// DominatorSpillPos is the sentinel instruction id for a store that
// belongs logically at the interval's single definition, which
// dominates every use, rather than at a specific gap position. Named
// after the original's own constant; no code in this package assigns it
// to an instruction.
const DominatorSpillPos lir.ID = -2

// Location is re-exported here for readability inside this package;
// lsra always talks about lir.Location and lir.SpillSlot directly.
type Location = lir.Location

// Interval is a TraceInterval: the liveness of one virtual value, or a
// split child thereof.
type Interval struct {
    Operand lir.Operand
    Kind    lir.Kind

    Ranges  RangeList
    Uses    UsePosList

    Location  Location
    SpillSlot lir.SpillSlot

    SpillState SpillState

    SplitParent   *Interval
    SplitChildren []*Interval

    // MaterializeValue, if non-nil, lets the interval be rebuilt from a
    // constant instead of spilled to memory.
    MaterializeValue interface{}

    // hint is the interval whose eventual register this one should
    // prefer, set by lifetime analysis when it observes a move-like
    // definition (spec scenario S5).
    hint *Interval

    // operandNumber is this interval's index within the store's flat
    // interval slice, checked by the verifier's index-consistency rule.
    operandNumber int

    // crossesCall is true if any range of this interval spans an
    // instruction that clobbers caller-saved registers; used as a
    // tie-break in the linear-scan register choice.
    crossesCall bool
}

func newInterval(operand lir.Operand, kind lir.Kind) *Interval {
    iv := &Interval{
        Operand:  operand,
        Kind:     kind,
        Location: lir.Unassigned,
    }
    iv.SplitParent = iv
    return iv
}

func (self *Interval) IsSplitChild() bool { return self.SplitParent != self }

func (self *Interval) From() lir.ID { return self.Ranges.From() }
func (self *Interval) To() lir.ID   { return self.Ranges.To() }

func (self *Interval) FirstUse(minKind UseKind) (lir.ID, bool) {
    return self.Uses.NextUseAfter(0, minKind)
}

// RegisterHint returns the interval whose register this one should
// prefer during allocation, or nil.
func (self *Interval) RegisterHint() *Interval {
    if self.hint != nil && self.hint.Location.Kind == lir.LocRegister {
        return self.hint
    }
    return nil
}

// CanMaterialize reports whether spilling this interval can degrade to
// rematerialize-on-use instead of a real spill slot.
func (self *Interval) CanMaterialize() bool {
    return self.MaterializeValue != nil
}

// splitChildAt finds which member of the split family (parent plus
// children) is responsible for opId under mode: an output picks the
// child starting exactly at opId+1 (see the output boundary note in
// visitOutput); every other mode picks the child covering the slot just
// before opId.
func (self *Interval) splitChildAt(opId lir.ID, mode lir.Mode) (*Interval, error) {
    parent := self.SplitParent
    family := parent.family()

    if mode == lir.ModeOutput {
        for _, c := range family {
            if c.From() == opId+1 {
                return c, nil
            }
        }
        return nil, bailout("splitChildAt: no split child of %s starts at %s", describeOperand(parent.Operand), opId)
    }

    probe := opId - 1

    for _, c := range family {
        if c.Ranges.Covers(probe) || c.From() == opId {
            return c, nil
        }
    }

    return nil, bailout("splitChildAt: no split child of %s covers %s", describeOperand(parent.Operand), opId)
}

// family returns parent+children ordered by From(), computed on demand
// rather than cached since C5 appends children incrementally and only
// passes that run after C5 is done (C7-C9) call splitChildAt.
func (self *Interval) family() []*Interval {
    all := append([]*Interval{self}, self.SplitChildren...)

    sort.Slice(all, func(i, j int) bool { return all[i].From() < all[j].From() })

    return all
}

func (self *Interval) String() string {
    return fmt.Sprintf("interval(%s, kind=%s, ranges=%v, loc=%s)", describeOperand(self.Operand), self.Kind, self.Ranges, self.Location)
}

func describeOperand(op lir.Operand) string {
    if op.IsVariable() {
        return fmt.Sprintf("v%d", op.VarIndex())
    }
    return op.Register().String()
}

// FixedInterval tracks the liveness of one physical register across the
// trace: constraints imposed by fixed-register outputs/inputs, and
// register-killing call sites. It carries no use positions; it exists
// only to block registers during the walk.
type FixedInterval struct {
    Reg    lir.PhysReg
    Ranges RangeList
}

func newFixedInterval(reg lir.PhysReg) *FixedInterval {
    return &FixedInterval{Reg: reg}
}

func (self *FixedInterval) String() string {
    return fmt.Sprintf("fixed(%s, ranges=%v)", self.Reg, self.Ranges)
}
