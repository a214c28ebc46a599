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

// registerConfigScratch is the default ScratchSource: it hands out any
// allocatable register of the right class that a move-cycle-breaking
// step is free to clobber (the caller is responsible for reserving one
// register per class that the linear-scan walk never colors, e.g. by
// excluding it from RegisterConfig.AllocatableRegisters), and falls
// back to a fresh frame slot when none is configured.
type registerConfigScratch struct {
    regcfg lir.RegisterConfig
    frame  lir.FrameBuilder
    reserved map[lir.Kind]lir.PhysReg
}

// NewScratchSource builds the default ScratchSource used by
// ResolveDataFlow's callers. reserved names, per kind, the one register
// set aside purely for cycle-breaking; pass an empty map to always
// break cycles through a spill slot instead.
func NewScratchSource(regcfg lir.RegisterConfig, frame lir.FrameBuilder, reserved map[lir.Kind]lir.PhysReg) ScratchSource {
    return &registerConfigScratch{regcfg: regcfg, frame: frame, reserved: reserved}
}

func (self *registerConfigScratch) ScratchRegister(kind lir.Kind) (lir.PhysReg, bool) {
    r, ok := self.reserved[kind]
    return r, ok
}

func (self *registerConfigScratch) ScratchSlot(kind lir.Kind) lir.SpillSlot {
    return self.frame.AllocateSpillSlot(kind)
}
