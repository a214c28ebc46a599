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

func TestVerifyCatchesRegisterCollision(t *testing.T) {
    s := NewStore()

    a := s.GetOrCreateInterval(lir.Var(0), lir.KindInt)
    a.Ranges = RangeList{{From: 0, To: 6}}
    a.Location = lir.AtRegister(0)
    a.operandNumber = 0

    b := s.GetOrCreateInterval(lir.Var(1), lir.KindInt)
    b.Ranges = RangeList{{From: 4, To: 10}}
    b.Location = lir.AtRegister(0)
    b.operandNumber = 1

    err := Verify(s)
    require.Error(t, err)
    require.IsType(t, &Bailout{}, err)
}

func TestVerifyPassesOnDisjointRegisters(t *testing.T) {
    s := NewStore()

    a := s.GetOrCreateInterval(lir.Var(0), lir.KindInt)
    a.Ranges = RangeList{{From: 0, To: 4}}
    a.Location = lir.AtRegister(0)
    a.operandNumber = 0

    b := s.GetOrCreateInterval(lir.Var(1), lir.KindInt)
    b.Ranges = RangeList{{From: 4, To: 10}}
    b.Location = lir.AtRegister(0)
    b.operandNumber = 1

    require.NoError(t, Verify(s))
}

func TestVerifyCatchesUnassignedLocation(t *testing.T) {
    s := NewStore()

    a := s.GetOrCreateInterval(lir.Var(0), lir.KindInt)
    a.Ranges = RangeList{{From: 0, To: 4}}
    a.operandNumber = 0

    err := Verify(s)
    require.Error(t, err)
}
