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
    `strconv`

    `github.com/chenzhuoyu/iasm/x86_64`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// General-purpose registers, numbered in iasm/x86_64's encoding order;
// Reg64 maps PhysReg(n) to its iasm register through the gpr64 table.
const (
    RAX lir.PhysReg = iota
    RCX
    RDX
    RBX
    RSP
    RBP
    RSI
    RDI
    R8
    R9
    R10
    R11
    R12
    R13
    R14
    R15

    xmmBase
)

// XMM0..XMM15 hold the floating-point class, offset past the sixteen
// general-purpose registers so a single PhysReg space covers both.
const (
    XMM0 = xmmBase + iota
    XMM1
    XMM2
    XMM3
    XMM4
    XMM5
    XMM6
    XMM7
    XMM8
    XMM9
    XMM10
    XMM11
    XMM12
    XMM13
    XMM14
    XMM15
)

var gpr64 = [16]x86_64.Register64{
    x86_64.RAX, x86_64.RCX, x86_64.RDX, x86_64.RBX,
    x86_64.RSP, x86_64.RBP, x86_64.RSI, x86_64.RDI,
    x86_64.R8, x86_64.R9, x86_64.R10, x86_64.R11,
    x86_64.R12, x86_64.R13, x86_64.R14, x86_64.R15,
}

var gprNames = [16]string{
    "rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
    "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

// Reg64 returns the iasm register64 backing r, for callers that emit
// real machine instructions through iasm's assembler. It panics for
// XMM-class registers, which have no Register64 form.
func Reg64(r lir.PhysReg) *x86_64.Register64 {
    if r < 0 || int(r) >= len(gpr64) {
        panic("amd64: not a general-purpose register")
    }
    return &gpr64[r]
}

// IsFloat reports whether r belongs to the XMM class.
func IsFloat(r lir.PhysReg) bool {
    return r >= xmmBase
}

func regName(r lir.PhysReg) string {
    switch {
    case r < 0:
        return "?"
    case r < xmmBase:
        return gprNames[r]
    default:
        return "xmm" + strconv.Itoa(int(r-xmmBase))
    }
}
