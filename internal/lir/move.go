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
)

// Move is the target-agnostic move instruction. It is not meant to be
// emitted directly to machine code (that is a target's job); it is what
// GenericMoveFactory produces and what tests use directly. The AMD64
// target defines its own Move type rather than building on this one.
type Move struct {
    Base
    D *Value
    S *Value
}

// NewMove builds a Move copying src into dst. Both sides carry a
// pinned, Fixed Location: this constructor is for moves the resolver
// (C6/C7) or the spill-move eliminator (C8) synthesizes after
// allocation, not for moves written by an upstream trace builder (those
// should be built with Value operands over real variables instead).
func NewMove(dst, src Location) *Move {
    return &Move{
        D: &Value{Location: dst, Fixed: true},
        S: &Value{Location: src, Fixed: true},
    }
}

func (self *Move) Dst() *Value { return self.D }
func (self *Move) Src() *Value { return self.S }

// VisitOutputs/VisitInputs let lifetime analysis (C3) treat a move like
// any other instruction that defines Dst and reads Src, instead of
// special-casing MoveInstr in the walk itself.
func (self *Move) VisitOutputs(fn func(*Value)) { fn(self.D) }
func (self *Move) VisitInputs(fn func(*Value))  { fn(self.S) }

func (self *Move) String() string {
    return fmt.Sprintf("mov %s -> %s", self.S.Location, self.D.Location)
}

// GenericMoveFactory is the default MoveFactory used by tests and by
// any target that has no reason to specialize move encoding.
type GenericMoveFactory struct{}

func (GenericMoveFactory) CreateMove(dst, src Location) Instr {
    return NewMove(dst, src)
}
