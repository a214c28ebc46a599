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

package amd64

import (
    `fmt`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// Move is the AMD64 lir.MoveInstr. It carries enough of iasm's operand
// model (through Reg64/IsFloat) that a downstream code generator can
// lower it straight to MOVQ/MOVSD without re-deriving which register
// class each side belongs to.
type Move struct {
    lir.Base
    D *lir.Value
    S *lir.Value
}

func (self *Move) Dst() *lir.Value { return self.D }
func (self *Move) Src() *lir.Value { return self.S }

func (self *Move) String() string {
    return fmt.Sprintf("mov %s -> %s", self.opStr(self.S.Location), self.opStr(self.D.Location))
}

func (self *Move) opStr(loc lir.Location) string {
    switch loc.Kind {
    case lir.LocRegister:
        return "%" + regName(loc.Reg)
    case lir.LocStack:
        return fmt.Sprintf("%d(SP)", int32(loc.Slot)*8)
    default:
        return loc.String()
    }
}

// MoveFactory is the AMD64 lir.MoveFactory. Its only job at this layer
// is to pick the right mnemonic family (integer vs. SSE2) for a given
// pair of locations; actual encoding through x86_64.Program happens in
// the code generator downstream of this module.
type MoveFactory struct{}

func (MoveFactory) CreateMove(dst, src lir.Location) lir.Instr {
    return &Move{D: &lir.Value{Location: dst}, S: &lir.Value{Location: src}}
}

// Mnemonic reports which iasm instruction a generator should emit for
// a move between two locations holding operands of the given kind.
func Mnemonic(kind lir.Kind, dst, src lir.Location) string {
    if kind == lir.KindFloat && (dst.Kind == lir.LocRegister && IsFloat(dst.Reg) || src.Kind == lir.LocRegister && IsFloat(src.Reg)) {
        return "MOVSD"
    }
    return "MOVQ"
}
