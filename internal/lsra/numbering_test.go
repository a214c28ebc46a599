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
    `testing`

    `github.com/stretchr/testify/require`

    `github.com/cloudwego/tracelsra/internal/lir`
)

func TestNumberAssignsEvenMonotoneIDs(t *testing.T) {
    c1 := constInstr(0, 1, false)
    c2 := constInstr(1, 2, false)
    call := &lir.Call{Name: "helper"}

    b0 := block(0, true, c1, c2)
    b1 := block(1, false, call)
    tr := trace(b0, b1)

    num := Number(tr)

    require.Equal(t, lir.ID(0), c1.ID())
    require.Equal(t, lir.ID(2), c2.ID())
    require.Equal(t, lir.ID(4), call.ID())

    require.True(t, num.IsBlockBegin(0))
    require.False(t, num.IsBlockBegin(2))
    require.True(t, num.IsBlockBegin(4), "the first instruction of b1 begins a new block")

    require.False(t, num.IsBlockEnd(0))
    require.True(t, num.IsBlockEnd(2), "c2 is the last instruction of b0")
    require.True(t, num.IsBlockEnd(4))

    require.Equal(t, lir.ID(0), num.FirstID(b0))
    require.Equal(t, lir.ID(2), num.LastID(b0))

    require.True(t, num.HasCall(4))
    require.False(t, num.HasCall(0))

    require.Equal(t, lir.ID(6), num.MaxID())
}

func TestNumberInstrAndBlockLookup(t *testing.T) {
    u := use(0)
    tr := trace(block(0, true, constInstr(0, 1, false), u))
    num := Number(tr)

    ins, ok := num.InstrAt(2)
    require.True(t, ok)
    require.Same(t, u, ins)

    _, ok = num.InstrAt(40)
    require.False(t, ok)

    b, ok := num.BlockAt(0)
    require.True(t, ok)
    require.Equal(t, 0, b.Id)
}
