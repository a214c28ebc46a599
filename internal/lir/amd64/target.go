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
    `github.com/klauspost/cpuid/v2`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// reservedRegisters never enter the allocatable pool: RSP and RBP carry
// the frame, and R12 is claimed by the runtime call sequence.
var reservedRegisters = map[lir.PhysReg]bool{
    RSP: true,
    RBP: true,
    R12: true,
}

// argumentRegisters mirrors the System V AMD64 integer argument order.
var argumentRegisters = map[lir.PhysReg]bool{
    RDI: true,
    RSI: true,
    RDX: true,
    RCX: true,
    R8:  true,
    R9:  true,
}

// calleeSaved mirrors the System V AMD64 callee-save set among the
// registers this allocator is willing to consider at all.
var calleeSaved = map[lir.PhysReg]bool{
    RBX: true,
    R13: true,
    R14: true,
    R15: true,
}

// Target is the concrete lir.TargetDescription/lir.RegisterConfig for
// AMD64. hasSSE2 gates whether the XMM class is exposed at all; on the
// rare host where the feature is absent, float-kind variables must
// bail out of trace allocation rather than be handed a register that
// does not exist.
type Target struct {
    hasSSE2 bool
}

// NewTarget probes the host CPU with cpuid and builds the AMD64 target
// description. SSE2 has been baseline on amd64 since the ISA's
// inception, but the probe stays honest rather than assuming it.
func NewTarget() *Target {
    return &Target{hasSSE2: cpuid.CPU.Supports(cpuid.SSE2)}
}

func (self *Target) HasFloatRegisters() bool {
    return self.hasSSE2
}

func (self *Target) Registers() []lir.PhysReg {
    all := make([]lir.PhysReg, 0, 32)

    for r := RAX; r < xmmBase; r++ {
        all = append(all, r)
    }

    if self.hasSSE2 {
        for r := lir.PhysReg(XMM0); r <= XMM15; r++ {
            all = append(all, r)
        }
    }

    return all
}

func (self *Target) AllocatableRegisters() []lir.PhysReg {
    var out []lir.PhysReg

    for _, r := range self.Registers() {
        if self.IsAllocatable(r) {
            out = append(out, r)
        }
    }

    return out
}

func (self *Target) IsAllocatable(r lir.PhysReg) bool {
    if IsFloat(r) {
        return self.hasSSE2 && r <= XMM15
    }
    return !reservedRegisters[r]
}

// IsCallerSave reports whether a call clobbers r. Every allocatable
// register that is not in the System V callee-save set is caller-save,
// including the whole XMM class.
func (self *Target) IsCallerSave(r lir.PhysReg) bool {
    if IsFloat(r) {
        return true
    }
    return !calleeSaved[r]
}

// IsCompatible reports whether r can hold a value of kind: XMM
// registers only ever hold float-kind values, and general-purpose
// registers hold everything else (int and reference-kind pointers).
func (self *Target) IsCompatible(r lir.PhysReg, kind lir.Kind) bool {
    if kind == lir.KindFloat {
        return IsFloat(r)
    }
    return !IsFloat(r)
}

func (self *Target) AllAllocatableRegistersCallerSaved() bool {
    for _, r := range self.AllocatableRegisters() {
        if !self.IsCallerSave(r) {
            return false
        }
    }
    return true
}

// IsArgumentRegister reports whether r is one of the six System V
// integer argument registers, used by tests constructing call sites.
func IsArgumentRegister(r lir.PhysReg) bool {
    return argumentRegisters[r]
}
