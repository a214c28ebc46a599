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

// TargetDescription describes the architecture register file and
// calling convention the allocator must respect. It is supplied by the
// enclosing pass manager; this module never constructs one for its own
// use beyond tests.
type TargetDescription interface {
    // Registers returns every physical register the architecture has,
    // allocatable or not (e.g. including the stack and frame pointers).
    Registers() []PhysReg
}

// RegisterConfig exposes which of the target's registers this
// compilation is allowed to hand out, and which ones a call clobbers.
type RegisterConfig interface {
    AllocatableRegisters() []PhysReg
    IsAllocatable(r PhysReg) bool
    IsCallerSave(r PhysReg) bool
    AllAllocatableRegistersCallerSaved() bool

    // IsCompatible reports whether r belongs to the register class kind
    // needs (e.g. a float-kind variable can only live in an XMM
    // register on AMD64).
    IsCompatible(r PhysReg, kind Kind) bool
}

// FrameBuilder hands out spill slots. Slot layout finalization happens
// downstream; the allocator only needs a stable identifier per slot.
type FrameBuilder interface {
    AllocateSpillSlot(kind Kind) SpillSlot
}

// MoveFactory produces a target-specific instruction that copies src
// into dst. Every MoveFactory implementation must return something that
// also implements MoveInstr, since the spill-move eliminator (C8) and
// verifier need to inspect the move generically.
type MoveFactory interface {
    CreateMove(dst, src Location) Instr
}

// TraceBuilderResult answers cross-trace queries: which block is the
// entry of the trace currently being allocated. The core never inserts
// moves on edges leaving the trace; the data-flow resolver (C7) only
// consults this to skip an edge into an empty block that is not a trace
// entry.
type TraceBuilderResult interface {
    IsTraceEntry(b *Block) bool
}
