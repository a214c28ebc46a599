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
    `testing`

    `github.com/stretchr/testify/require`
)

func TestNewMoveMarksOperandsFixed(t *testing.T) {
    mv := NewMove(AtRegister(1), AtRegister(0))

    require.True(t, mv.Dst().Fixed)
    require.True(t, mv.Src().Fixed)
    require.Equal(t, AtRegister(1), mv.Dst().Location)
    require.Equal(t, AtRegister(0), mv.Src().Location)
}

func TestMoveVisibleToGenericVisitors(t *testing.T) {
    mv := NewMove(AtRegister(1), AtRegister(0))

    var outputs, inputs int
    VisitAll(mv, func(v *Value, mode Mode) {
        switch mode {
        case ModeOutput:
            outputs++
            require.Same(t, mv.D, v)
        case ModeInput:
            inputs++
            require.Same(t, mv.S, v)
        }
    })

    require.Equal(t, 1, outputs)
    require.Equal(t, 1, inputs)
}

func TestVisitAllDispatchesCallAliveAndOutputRoles(t *testing.T) {
    call := &Call{
        Name:  "helper",
        In:    []*Value{NewVar(0, KindInt)},
        Out:   []*Value{NewVar(1, KindInt)},
        State: true,
    }

    var seen []Mode
    VisitAll(call, func(v *Value, mode Mode) { seen = append(seen, mode) })

    require.Contains(t, seen, ModeAlive)
    require.Contains(t, seen, ModeOutput)
    require.True(t, call.DestroysCallerSaved())
    require.True(t, call.HasState())
}
