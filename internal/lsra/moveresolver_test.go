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

func TestResolveMovesDropsNoOps(t *testing.T) {
    moves := []PendingMove{
        {Dst: lir.AtRegister(0), Src: lir.AtRegister(0)},
    }

    scratch := NewScratchSource(newFakeRegConfig(3), &fakeFrame{}, map[lir.Kind]lir.PhysReg{lir.KindInt: 2})
    out, err := ResolveMoves(moves, lir.KindInt, scratch, lir.GenericMoveFactory{})

    require.NoError(t, err)
    require.Empty(t, out)
}

func TestResolveMovesOrdersAChain(t *testing.T) {
    // r2 <- r1 <- r0: r1 must be read into r2 before r0 overwrites r1.
    moves := []PendingMove{
        {Dst: lir.AtRegister(2), Src: lir.AtRegister(1)},
        {Dst: lir.AtRegister(1), Src: lir.AtRegister(0)},
    }

    scratch := NewScratchSource(newFakeRegConfig(4), &fakeFrame{}, map[lir.Kind]lir.PhysReg{lir.KindInt: 3})
    out, err := ResolveMoves(moves, lir.KindInt, scratch, lir.GenericMoveFactory{})

    require.NoError(t, err)
    require.Len(t, out, 2)

    first := out[0].(lir.MoveInstr)
    require.Equal(t, lir.AtRegister(2), first.Dst().Location)
    require.Equal(t, lir.AtRegister(1), first.Src().Location, "r1 -> r2 must run before r1 is clobbered")

    second := out[1].(lir.MoveInstr)
    require.Equal(t, lir.AtRegister(1), second.Dst().Location)
    require.Equal(t, lir.AtRegister(0), second.Src().Location)
}

func TestResolveMovesThreeCycleUsesOneScratch(t *testing.T) {
    moves := []PendingMove{
        {Dst: lir.AtRegister(1), Src: lir.AtRegister(0)},
        {Dst: lir.AtRegister(2), Src: lir.AtRegister(1)},
        {Dst: lir.AtRegister(0), Src: lir.AtRegister(2)},
    }

    scratch := NewScratchSource(newFakeRegConfig(4), &fakeFrame{}, map[lir.Kind]lir.PhysReg{lir.KindInt: 3})
    out, err := ResolveMoves(moves, lir.KindInt, scratch, lir.GenericMoveFactory{})

    require.NoError(t, err)
    require.Len(t, out, 4, "breaking any N-cycle costs exactly one extra scratch move")

    state := map[lir.Location]string{
        lir.AtRegister(0): "A",
        lir.AtRegister(1): "B",
        lir.AtRegister(2): "C",
    }

    for _, ins := range out {
        m := ins.(lir.MoveInstr)
        state[m.Dst().Location] = state[m.Src().Location]
    }

    require.Equal(t, "C", state[lir.AtRegister(0)], "r0 must end up holding the old r2")
    require.Equal(t, "A", state[lir.AtRegister(1)], "r1 must end up holding the old r0")
    require.Equal(t, "B", state[lir.AtRegister(2)], "r2 must end up holding the old r1")
}
