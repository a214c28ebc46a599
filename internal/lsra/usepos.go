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
    `fmt`
    `sort`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// UseKind classifies how badly an instruction needs its operand in a
// register at a use position.
type UseKind uint8

const (
    NoUse UseKind = iota
    ShouldHaveRegister
    MustHaveRegister
)

func (k UseKind) String() string {
    switch k {
    case NoUse:
        return "no-use"
    case ShouldHaveRegister:
        return "should-have-register"
    case MustHaveRegister:
        return "must-have-register"
    default:
        return "use-kind?"
    }
}

// UsePos is a single (opId, kind) use position.
type UsePos struct {
    ID   lir.ID
    Kind UseKind
}

// UsePosList is sorted ascending by ID once lifetime analysis finishes
// with an interval; C3 appends in decreasing ID order (it walks
// backward) so the list is built in reverse and never re-sorted.
type UsePosList []UsePos

// prepend keeps the backward-construction invariant: since C3 always
// hands us IDs smaller than anything already recorded, prepending
// preserves ascending order without a sort.
func (self UsePosList) prepend(id lir.ID, kind UseKind) UsePosList {
    return append(UsePosList{{ID: id, Kind: kind}}, self...)
}

// NextUseAfter returns the first use position with ID >= from and Kind
// >= minKind, or (0, false) if none exists. Intervals are queried this
// way both when deciding whether to spill (C5 step 3) and when
// resolving split points.
func (self UsePosList) NextUseAfter(from lir.ID, minKind UseKind) (lir.ID, bool) {
    i := sort.Search(len(self), func(i int) bool { return self[i].ID >= from })

    for ; i < len(self); i++ {
        if self[i].Kind >= minKind {
            return self[i].ID, true
        }
    }

    return 0, false
}

func (self UsePos) String() string {
    return fmt.Sprintf("%s@%s", self.Kind, self.ID)
}
