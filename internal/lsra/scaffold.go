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
    `github.com/cloudwego/tracelsra/internal/lir`
)

// insertionSortByFrom cleans up a near-sorted slice of intervals in
// place. Lifetime analysis creates root intervals roughly in ascending
// From() order already (variables tend to be defined before other
// variables that use them), so a cheap one-pass insertion sort is
// enough; a full sort would be wasted work.
func insertionSortByFrom(ivs []*Interval) {
    for i := 1; i < len(ivs); i++ {
        v := ivs[i]
        j := i - 1

        for j >= 0 && ivs[j].From() > v.From() {
            ivs[j+1] = ivs[j]
            j--
        }

        ivs[j+1] = v
    }
}

// walkLists holds the three interval buckets the linear-scan walk (C5)
// keeps current at every step: unhandled intervals ordered ascending by
// From(), active intervals currently holding a register, and inactive
// intervals holding a register but presently in a range hole.
type walkLists struct {
    unhandled []*Interval
    active    []*Interval
    inactive  []*Interval
    handled   []*Interval
}

func newWalkLists(sortedByFrom []*Interval) *walkLists {
    unhandled := make([]*Interval, len(sortedByFrom))
    copy(unhandled, sortedByFrom)

    return &walkLists{unhandled: unhandled}
}

func (self *walkLists) popUnhandled() *Interval {
    if len(self.unhandled) == 0 {
        return nil
    }

    iv := self.unhandled[0]
    self.unhandled = self.unhandled[1:]
    return iv
}

// pushUnhandled re-inserts iv keeping unhandled sorted by From(), used
// after a split re-queues the tail interval.
func (self *walkLists) pushUnhandled(iv *Interval) {
    i := 0

    for i < len(self.unhandled) && self.unhandled[i].From() <= iv.From() {
        i++
    }

    self.unhandled = append(self.unhandled, nil)
    copy(self.unhandled[i+1:], self.unhandled[i:])
    self.unhandled[i] = iv
}

func removeInterval(list []*Interval, iv *Interval) []*Interval {
    for i, v := range list {
        if v == iv {
            return append(list[:i], list[i+1:]...)
        }
    }
    return list
}

// advance moves entries between active/inactive/handled for the new
// walk position.
func (self *walkLists) advance(position lir.ID) {
    var stillActive []*Interval

    for _, a := range self.active {
        switch {
        case a.To() <= position:
            self.handled = append(self.handled, a)
        case !a.Ranges.Covers(position):
            self.inactive = append(self.inactive, a)
        default:
            stillActive = append(stillActive, a)
        }
    }

    self.active = stillActive

    var stillInactive []*Interval

    for _, ia := range self.inactive {
        switch {
        case ia.To() <= position:
            self.handled = append(self.handled, ia)
        case ia.Ranges.Covers(position):
            self.active = append(self.active, ia)
        default:
            stillInactive = append(stillInactive, ia)
        }
    }

    self.inactive = stillInactive
}
