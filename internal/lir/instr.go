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

// Mode classifies how an instruction uses one of its operand slots. The
// allocator needs this to pick the correct split child at a given
// program point: an output uses the child that starts just after the
// def position (opId+1), an input uses the child covering the slot just
// before it.
type Mode uint8

const (
    ModeInput Mode = iota
    ModeAlive
    ModeTemp
    ModeOutput
)

func (m Mode) String() string {
    switch m {
    case ModeInput:
        return "input"
    case ModeAlive:
        return "alive"
    case ModeTemp:
        return "temp"
    case ModeOutput:
        return "output"
    default:
        return "mode?"
    }
}

// Instr is a single LIR instruction. Base implements the ID/SetID pair;
// concrete instructions embed Base and implement whichever of
// HasInputs/HasAlives/HasTemps/HasOutputs apply to them.
type Instr interface {
    fmt.Stringer
    ID() ID
    SetID(id ID)
}

// Base gives concrete instruction types their identity within the
// numbering scheme (C1) for free.
type Base struct {
    id ID
}

func (b *Base) ID() ID      { return b.id }
func (b *Base) SetID(id ID) { b.id = id }

// HasInputs is implemented by instructions that read operands whose
// value must remain valid up to and including this instruction.
type HasInputs interface {
    Instr
    VisitInputs(func(*Value))
}

// HasAlives is implemented by instructions with operands that must
// survive past this instruction's output, e.g. because the operand is
// still needed by a later instruction sharing the same opId's semantics
// (such as a call's argument register also being read by a subsequent
// safepoint).
type HasAlives interface {
    Instr
    VisitAlives(func(*Value))
}

// HasTemps is implemented by instructions that clobber scratch operands
// for the duration of their execution only.
type HasTemps interface {
    Instr
    VisitTemps(func(*Value))
}

// HasOutputs is implemented by instructions that define operands.
type HasOutputs interface {
    Instr
    VisitOutputs(func(*Value))
}

// CallInstr is implemented by instructions that clobber every
// caller-saved register (an external call).
type CallInstr interface {
    Instr
    DestroysCallerSaved() bool
}

// PreciseClobberInstr is implemented by a call whose exact clobber set
// is known ahead of time — typically from decoding the callee's machine
// code — rather than the conservative "every caller-saved register"
// DestroysCallerSaved implies. ClobberedRegisters returns ok=false when
// the precise set could not be determined, in which case the caller
// falls back to DestroysCallerSaved's blanket assumption.
type PreciseClobberInstr interface {
    CallInstr
    ClobberedRegisters() (map[PhysReg]bool, bool)
}

// StateInstr is implemented by instructions carrying a debug/safepoint
// state map. Fixed intervals holding reference-kind values may never be
// live across such an instruction unless it names them itself.
type StateInstr interface {
    Instr
    HasState() bool
}

// MoveInstr is implemented by any instruction the spill-move eliminator
// (C8) and the local move resolver (C6) should treat as a plain
// location-to-location copy, regardless of which MoveFactory produced
// it.
type MoveInstr interface {
    Instr
    Dst() *Value
    Src() *Value
}

// visitAll calls fn once for every operand occurrence of ins, tagged
// with the Mode it appears under. Passes that treat every operand the
// same way (location assignment, the verifier) go through it; lifetime
// analysis does its own four-way dispatch because it handles each
// category differently.
func visitAll(ins Instr, fn func(v *Value, mode Mode)) {
    if h, ok := ins.(HasInputs); ok {
        h.VisitInputs(func(v *Value) { fn(v, ModeInput) })
    }
    if h, ok := ins.(HasAlives); ok {
        h.VisitAlives(func(v *Value) { fn(v, ModeAlive) })
    }
    if h, ok := ins.(HasTemps); ok {
        h.VisitTemps(func(v *Value) { fn(v, ModeTemp) })
    }
    if h, ok := ins.(HasOutputs); ok {
        h.VisitOutputs(func(v *Value) { fn(v, ModeOutput) })
    }
}

// VisitAll is the exported form of visitAll, used by lsra and by
// callers assembling or dumping a trace.
func VisitAll(ins Instr, fn func(v *Value, mode Mode)) {
    visitAll(ins, fn)
}
