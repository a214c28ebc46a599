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

func withRange(from, to lir.ID) *Interval {
    iv := newInterval(lir.Var(0), lir.KindInt)
    iv.Ranges = RangeList{{From: from, To: to}}
    return iv
}

func TestInsertionSortByFrom(t *testing.T) {
    a := withRange(4, 5)
    b := withRange(0, 1)
    c := withRange(2, 3)

    ivs := []*Interval{a, b, c}
    insertionSortByFrom(ivs)

    require.Equal(t, []*Interval{b, c, a}, ivs)
}

func TestWalkListsPushUnhandledKeepsSortedOrder(t *testing.T) {
    lists := newWalkLists([]*Interval{withRange(0, 1), withRange(4, 5)})

    mid := withRange(2, 3)
    lists.pushUnhandled(mid)

    require.Len(t, lists.unhandled, 3)
    require.Equal(t, lir.ID(0), lists.unhandled[0].From())
    require.Equal(t, lir.ID(2), lists.unhandled[1].From())
    require.Equal(t, lir.ID(4), lists.unhandled[2].From())
}

func TestWalkListsAdvancePartitionsByPosition(t *testing.T) {
    dead := withRange(0, 4)
    hole := withRange(0, 10)
    hole.Ranges = RangeList{{From: 0, To: 2}, {From: 6, To: 10}}
    live := withRange(0, 10)

    lists := newWalkLists(nil)
    lists.active = []*Interval{dead, hole, live}

    lists.advance(4)

    require.Contains(t, lists.handled, dead, "an interval whose To() has passed becomes handled")
    require.Contains(t, lists.inactive, hole, "a range hole at the current position becomes inactive")
    require.Contains(t, lists.active, live)
    require.NotContains(t, lists.active, dead)
    require.NotContains(t, lists.active, hole)
}

func TestRemoveInterval(t *testing.T) {
    a, b, c := withRange(0, 1), withRange(1, 2), withRange(2, 3)
    list := []*Interval{a, b, c}

    list = removeInterval(list, b)
    require.Equal(t, []*Interval{a, c}, list)
}
