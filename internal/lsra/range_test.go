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

func TestRangeIntersects(t *testing.T) {
    require.True(t, (Range{From: 0, To: 5}).Intersects(Range{From: 4, To: 7}))
    require.False(t, (Range{From: 0, To: 4}).Intersects(Range{From: 4, To: 7}), "half-open ranges touching at a boundary do not intersect")
    require.False(t, (Range{From: 0, To: 2}).Intersects(Range{From: 4, To: 7}))
}

func TestRangeListPrependOrExtend(t *testing.T) {
    var rl RangeList

    rl = rl.prependOrExtend(4, 5)
    require.Equal(t, RangeList{{From: 4, To: 5}}, rl)

    // Adjacent from the left: extends the earliest range instead of
    // adding a new one, since C3 walks backward.
    rl = rl.prependOrExtend(2, 3)
    require.Equal(t, RangeList{{From: 2, To: 5}}, rl)

    // Non-adjacent: a fresh disjoint range is prepended.
    rl = rl.prependOrExtend(0, 1)
    require.Equal(t, RangeList{{From: 0, To: 1}, {From: 2, To: 5}}, rl)
}

func TestRangeListCoversAndNextIntersection(t *testing.T) {
    rl := RangeList{{From: 0, To: 4}, {From: 8, To: 12}}

    require.True(t, rl.Covers(2))
    require.False(t, rl.Covers(4), "the upper bound is exclusive")
    require.True(t, rl.Covers(8))
    require.False(t, rl.Covers(6))

    id, ok := rl.nextIntersection(Range{From: 6, To: 20})
    require.True(t, ok)
    require.Equal(t, lir.ID(8), id)

    _, ok = rl.nextIntersection(Range{From: 4, To: 8})
    require.False(t, ok)
}

func TestUsePosListNextUseAfter(t *testing.T) {
    var ul UsePosList
    ul = ul.prepend(6, MustHaveRegister)
    ul = ul.prepend(2, ShouldHaveRegister)

    id, ok := ul.NextUseAfter(0, ShouldHaveRegister)
    require.True(t, ok)
    require.Equal(t, lir.ID(2), id)

    id, ok = ul.NextUseAfter(0, MustHaveRegister)
    require.True(t, ok)
    require.Equal(t, lir.ID(6), id, "a ShouldHaveRegister use does not satisfy a MustHaveRegister query")

    id, ok = ul.NextUseAfter(6, MustHaveRegister)
    require.True(t, ok, "NextUseAfter is inclusive of from")
    require.Equal(t, lir.ID(6), id)

    _, ok = ul.NextUseAfter(7, MustHaveRegister)
    require.False(t, ok)
}
