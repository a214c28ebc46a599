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

// PhysReg identifies a physical (architectural) register by number. The
// numbering is target-specific; the allocator core treats it as an opaque
// dense index.
type PhysReg int16

// NoReg is the sentinel for "no physical register". It is not the zero
// PhysReg: register 0 is a real register.
const NoReg PhysReg = -1

func (r PhysReg) String() string {
    if r == NoReg {
        return "-"
    }
    return fmt.Sprintf("r%d", int(r))
}

// Kind classifies the value category of an operand, used to pick a
// compatible register class during allocation.
type Kind uint8

const (
    KindInt Kind = iota
    KindFloat
    KindRef
)

func (k Kind) String() string {
    switch k {
    case KindInt:
        return "int"
    case KindFloat:
        return "float"
    case KindRef:
        return "ref"
    default:
        return "kind?"
    }
}

// Operand is either a variable (virtual, dense-indexed by VarIndex) or a
// register value (physical, identified by a register number). Variables
// are the allocator's unknowns; register operands source fixed intervals.
type Operand struct {
    reg   bool
    index int32
}

// Var constructs a variable operand with the given dense index.
func Var(index int) Operand {
    return Operand{reg: false, index: int32(index)}
}

// Reg constructs a physical register operand.
func Reg(r PhysReg) Operand {
    return Operand{reg: true, index: int32(r)}
}

// IsVariable reports whether the operand is a virtual variable.
func (o Operand) IsVariable() bool {
    return !o.reg
}

// IsRegister reports whether the operand is a physical register value.
func (o Operand) IsRegister() bool {
    return o.reg
}

// VarIndex returns the dense variable index. Panics if the operand is a
// physical register.
func (o Operand) VarIndex() int {
    if o.reg {
        panic("lir: VarIndex of a register operand")
    }
    return int(o.index)
}

// Register returns the physical register. Panics if the operand is a
// variable.
func (o Operand) Register() PhysReg {
    if !o.reg {
        panic("lir: Register of a variable operand")
    }
    return PhysReg(o.index)
}

func (o Operand) String() string {
    if o.reg {
        return PhysReg(o.index).String()
    }
    return fmt.Sprintf("v%d", o.index)
}

// LocationKind classifies where a variable's value can be found once the
// allocator has assigned it a home.
type LocationKind uint8

const (
    LocUnassigned LocationKind = iota
    LocRegister
    LocStack
    // LocIllegal marks a value that was rematerialized instead of spilled;
    // uses of it are rewritten to a materialization operand rather than a
    // load.
    LocIllegal
)

// SpillSlot identifies a stack slot handed out by a FrameBuilder.
type SpillSlot int32

// NoSlot is the sentinel for "no spill slot allocated yet".
const NoSlot SpillSlot = -1

func (s SpillSlot) String() string {
    if s == NoSlot {
        return "slot?"
    }
    return fmt.Sprintf("slot#%d", int(s))
}

// Location is the concrete home of a value: a register, a stack slot, or
// illegal (rematerialize on use).
type Location struct {
    Kind LocationKind
    Reg  PhysReg
    Slot SpillSlot
}

// Unassigned is the Location of a value with no home yet. Its Kind is
// the zero LocationKind, but its Reg and Slot are the NoReg/NoSlot
// sentinels, so it differs from the zero Location{}.
var Unassigned = Location{Kind: LocUnassigned, Reg: NoReg, Slot: NoSlot}

// Illegal is the rematerialization marker location.
var Illegal = Location{Kind: LocIllegal, Reg: NoReg, Slot: NoSlot}

// AtRegister builds a register Location.
func AtRegister(r PhysReg) Location {
    return Location{Kind: LocRegister, Reg: r, Slot: NoSlot}
}

// AtStack builds a stack Location.
func AtStack(s SpillSlot) Location {
    return Location{Kind: LocStack, Reg: NoReg, Slot: s}
}

func (l Location) String() string {
    switch l.Kind {
    case LocRegister:
        return l.Reg.String()
    case LocStack:
        return l.Slot.String()
    case LocIllegal:
        return "<remat>"
    default:
        return "<unassigned>"
    }
}

// Value is one operand occurrence within an instruction: the logical
// Operand it refers to (kept for provenance and debugging) plus the
// concrete Location it resolves to. Register operands have their
// Location populated up front and are never touched by the allocator;
// variable operands start Unassigned and are filled in by the location
// assigner (C9).
type Value struct {
    Operand  Operand
    Location Location

    // Kind selects the register class a variable operand needs;
    // meaningless for register operands, whose class is implied by the
    // register itself.
    Kind Kind

    // Fixed marks a Location that is already final and must never be
    // touched by the location assigner (C9), the way a register or
    // immediate operand is never touched. Resolver-created moves (their
    // Location came straight out of a split child, not from a variable
    // lookup) set this so a later AssignLocations pass over the same
    // trace does not mistake their zero-value Operand for variable 0.
    Fixed bool
}

// NewVar creates a *Value referring to a fresh variable operand of the
// given register class.
func NewVar(index int, kind Kind) *Value {
    return &Value{Operand: Var(index), Kind: kind}
}

// NewReg creates a *Value referring to a physical register operand; its
// Location is pinned to that register from construction, matching the
// rule that register/immediate operands are left unchanged by C9.
func NewReg(r PhysReg) *Value {
    return &Value{Operand: Reg(r), Location: AtRegister(r)}
}

func (v *Value) String() string {
    if v.Operand.IsRegister() || v.Location.Kind == LocUnassigned {
        return v.Operand.String()
    }
    return fmt.Sprintf("%s{%s}", v.Operand, v.Location)
}
