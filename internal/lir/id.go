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
    `fmt`
)

// ID identifies a single instruction position within a Trace.
//
// IDs increase strictly in trace order, consecutive instructions differ
// by exactly 2, and every valid instruction ID is even. The odd slot
// between two instructions is the gap where resolution moves may be
// inserted.
type ID int32

// InvalidID marks an instruction that has not been numbered yet.
const InvalidID ID = -1

// Gap returns the odd position immediately after id, the slot where a
// move resolving data-flow into the next instruction may be inserted.
func (id ID) Gap() ID {
    return id | 1
}

// Next returns the ID that would be assigned to the instruction
// immediately following id in trace order.
func (id ID) Next() ID {
    return id + 2
}

// Even reports whether id obeys the even-ID invariant.
func (id ID) Even() bool {
    return id&1 == 0
}

func (id ID) String() string {
    if id == InvalidID {
        return "?"
    } else {
        return fmt.Sprintf("%d", int(id))
    }
}
