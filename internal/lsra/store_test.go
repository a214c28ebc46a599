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

func TestStoreGetOrCreateIntervalIsIdempotent(t *testing.T) {
    s := NewStore()

    iv1 := s.GetOrCreateInterval(lir.Var(3), lir.KindInt)
    iv2 := s.GetOrCreateInterval(lir.Var(3), lir.KindInt)

    require.Same(t, iv1, iv2)
    require.Equal(t, 4, s.IntervalsSize(), "index 3 forces the arena to grow past holes 0-2")

    found, ok := s.IntervalFor(lir.Var(3))
    require.True(t, ok)
    require.Same(t, iv1, found)

    _, ok = s.IntervalFor(lir.Var(9))
    require.False(t, ok)
}

func TestStoreGetOrCreateIntervalBugsOnRegisterOperand(t *testing.T) {
    s := NewStore()

    require.Panics(t, func() {
        s.GetOrCreateInterval(lir.Reg(lir.PhysReg(0)), lir.KindInt)
    })
}

func TestStoreRootsSkipsHolesAndExcludesDerived(t *testing.T) {
    s := NewStore()

    root0 := s.GetOrCreateInterval(lir.Var(0), lir.KindInt)
    s.GetOrCreateInterval(lir.Var(2), lir.KindInt)
    s.FreezeRoots()

    child := s.CreateDerivedInterval(root0)

    roots := s.Roots()
    require.Len(t, roots, 2, "index 1 is a hole and must be skipped, not nil-appended")

    all := s.All()
    require.Len(t, all, 3, "All includes the split child")
    require.Contains(t, all, child)
    require.Equal(t, 2, s.FirstDerivedIntervalIndex())
}

func TestStoreFixedIntervalForCreatesOnce(t *testing.T) {
    s := NewStore()

    fi1 := s.GetOrCreateFixedInterval(lir.PhysReg(2))
    fi2 := s.GetOrCreateFixedInterval(lir.PhysReg(2))
    require.Same(t, fi1, fi2)

    _, ok := s.FixedIntervalFor(lir.PhysReg(9))
    require.False(t, ok)
}
