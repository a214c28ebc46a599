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
    `strings`
    `unsafe`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// NativeCall is a call to a fixed native function pointer, backed by a
// *ClobberSet so the allocator can ask exactly which caller-saved
// registers this particular callee touches instead of assuming every
// one of them dies. Falls back to lir.CallInstr's blanket
// DestroysCallerSaved behavior whenever Clobbers cannot resolve the
// target (an indirect call, or one whose body itself calls out).
type NativeCall struct {
    lir.Base
    Name     string
    Entry    unsafe.Pointer
    Clobbers *ClobberSet
    In       []*lir.Value
    Out      []*lir.Value
    State    bool
}

func (self *NativeCall) VisitAlives(fn func(*lir.Value)) {
    for _, v := range self.In {
        fn(v)
    }
}

func (self *NativeCall) VisitOutputs(fn func(*lir.Value)) {
    for _, v := range self.Out {
        fn(v)
    }
}

func (self *NativeCall) DestroysCallerSaved() bool { return true }
func (self *NativeCall) HasState() bool            { return self.State }

// ClobberedRegisters resolves this call's target through Clobbers. A
// nil Clobbers (no analysis wired up) always reports ok=false, matching
// a call to an unanalyzable target.
func (self *NativeCall) ClobberedRegisters() (map[lir.PhysReg]bool, bool) {
    if self.Clobbers == nil {
        return nil, false
    }
    return self.Clobbers.Resolve(self.Entry)
}

func (self *NativeCall) String() string {
    in := make([]string, 0, len(self.In))
    out := make([]string, 0, len(self.Out))

    for _, v := range self.In {
        in = append(in, v.String())
    }
    for _, v := range self.Out {
        out = append(out, v.String())
    }

    return fmt.Sprintf("%s = call.native %s(%s)", strings.Join(out, ", "), self.Name, strings.Join(in, ", "))
}
