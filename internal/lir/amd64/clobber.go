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
    `unsafe`

    `github.com/oleiade/lane`
    `golang.org/x/arch/x86/x86asm`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// ClobberSet answers, for a call to a specific native function pointer,
// exactly which registers the call writes. NativeCall wires this into
// lifetime analysis's call-clobber range construction so that a call to
// a small runtime helper only blocks the registers it actually touches,
// instead of every caller-saved register.
//
// When the callee cannot be analyzed (an indirect call, or a call that
// itself calls out further than this walk follows), Resolve returns
// ok=false and the caller must fall back to the conservative "every
// caller-saved register is clobbered" assumption.
type ClobberSet struct {
    cache map[unsafe.Pointer]map[lir.PhysReg]bool
}

func NewClobberSet() *ClobberSet {
    return &ClobberSet{cache: make(map[unsafe.Pointer]map[lir.PhysReg]bool)}
}

// Resolve walks the machine code reachable from entry with a BFS over
// its control-flow graph, decoding with x86asm, and returns the set of
// registers written anywhere along the way. It refuses to look past a
// CALL instruction: a callee we cannot see might clobber anything.
func (self *ClobberSet) Resolve(entry unsafe.Pointer) (map[lir.PhysReg]bool, bool) {
    if cached, ok := self.cache[entry]; ok {
        return cached, cached != nil
    }

    set, ok := resolveClobberSet(entry)
    self.cache[entry] = set
    return set, ok
}

type clobberBlock struct {
    ret   bool
    size  uintptr
    entry unsafe.Pointer
    links [2]*clobberBlock
}

func newClobberBlock(entry unsafe.Pointer) *clobberBlock {
    return &clobberBlock{entry: entry}
}

func (self *clobberBlock) pc() unsafe.Pointer {
    return unsafe.Pointer(uintptr(self.entry) + self.size)
}

func (self *clobberBlock) code() []byte {
    return unsafe.Slice((*byte)(self.pc()), 15)
}

func (self *clobberBlock) commit(n int) {
    self.size += uintptr(n)
}

var branchOps = map[x86asm.Op]bool{
    x86asm.JA: true, x86asm.JAE: true, x86asm.JB: true, x86asm.JBE: true,
    x86asm.JCXZ: true, x86asm.JE: true, x86asm.JECXZ: true, x86asm.JG: true,
    x86asm.JGE: true, x86asm.JL: true, x86asm.JLE: true, x86asm.JMP: true,
    x86asm.JNE: true, x86asm.JNO: true, x86asm.JNP: true, x86asm.JNS: true,
    x86asm.JO: true, x86asm.JP: true, x86asm.JRCXZ: true, x86asm.JS: true,
}

var decodeRegisters = map[x86asm.Reg]lir.PhysReg{
    x86asm.RAX: RAX, x86asm.EAX: RAX, x86asm.AX: RAX, x86asm.AL: RAX,
    x86asm.RCX: RCX, x86asm.ECX: RCX, x86asm.CX: RCX, x86asm.CL: RCX,
    x86asm.RDX: RDX, x86asm.EDX: RDX, x86asm.DX: RDX, x86asm.DL: RDX,
    x86asm.RBX: RBX, x86asm.EBX: RBX, x86asm.BX: RBX, x86asm.BL: RBX,
    x86asm.RSP: RSP, x86asm.ESP: RSP, x86asm.SP: RSP,
    x86asm.RBP: RBP, x86asm.EBP: RBP, x86asm.BP: RBP,
    x86asm.RSI: RSI, x86asm.ESI: RSI, x86asm.SI: RSI,
    x86asm.RDI: RDI, x86asm.EDI: RDI, x86asm.DI: RDI,
    x86asm.R8: R8, x86asm.R8L: R8, x86asm.R8W: R8,
    x86asm.R9: R9, x86asm.R9L: R9, x86asm.R9W: R9,
    x86asm.R10: R10, x86asm.R10L: R10, x86asm.R10W: R10,
    x86asm.R11: R11, x86asm.R11L: R11, x86asm.R11W: R11,
    x86asm.R12: R12, x86asm.R12L: R12, x86asm.R12W: R12,
    x86asm.R13: R13, x86asm.R13L: R13, x86asm.R13W: R13,
    x86asm.R14: R14, x86asm.R14L: R14, x86asm.R14W: R14,
    x86asm.R15: R15, x86asm.R15L: R15, x86asm.R15W: R15,
}

// resolveClobberSet walks the decoded machine code reachable from entry
// breadth-first, following branches, and collects every register any
// instruction on the path writes. The result is keyed by lir.PhysReg so
// it can be intersected against the register file the allocator is
// actually managing.
func resolveClobberSet(entry unsafe.Pointer) (ret map[lir.PhysReg]bool, ok bool) {
    buf := lane.NewQueue()
    seen := make(map[unsafe.Pointer]*clobberBlock)
    ret = make(map[lir.PhysReg]bool)

    defer func() {
        if recover() != nil {
            ret, ok = nil, false
        }
    }()

    for buf.Enqueue(newClobberBlock(entry)); !buf.Empty(); {
        cur := buf.Dequeue().(*clobberBlock)

        for !cur.ret {
            ins, err := x86asm.Decode(cur.code(), 64)

            if err != nil {
                return nil, false
            }

            cur.commit(ins.Len)

            if ins.Op == x86asm.CALL {
                return nil, false
            }

            if isWrite(ins) {
                if reg, ok := ins.Args[0].(x86asm.Reg); ok {
                    if rr, rok := decodeRegisters[reg]; rok {
                        ret[rr] = true
                    }
                }
            }

            if ins.Op == x86asm.RET {
                cur.ret = true
                break
            }

            if !branchOps[ins.Op] {
                continue
            }

            targets := [2]unsafe.Pointer{cur.pc(), branchTarget(cur, ins)}

            for i := 0; i < 2; i++ {
                next, ok := seen[targets[i]]

                if !ok {
                    next = newClobberBlock(targets[i])
                    seen[targets[i]] = next
                }

                cur.links[i] = next

                if next.ret {
                    cur.ret = true
                } else {
                    buf.Enqueue(next)
                }
            }
        }
    }

    return ret, true
}

func isWrite(ins x86asm.Inst) bool {
    switch ins.Op {
    case x86asm.MOV, x86asm.MOVZX, x86asm.MOVSX, x86asm.LEA, x86asm.XOR, x86asm.POP:
        return true
    default:
        return false
    }
}

func branchTarget(cur *clobberBlock, ins x86asm.Inst) unsafe.Pointer {
    rel, ok := ins.Args[0].(x86asm.Rel)

    if !ok {
        return cur.pc()
    }

    return unsafe.Pointer(uintptr(cur.pc()) + uintptr(rel))
}
