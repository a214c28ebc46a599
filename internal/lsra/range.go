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

    `github.com/cloudwego/tracelsra/internal/lir`
)

// Range is a half-open interval [From, To) over instruction IDs.
type Range struct {
    From lir.ID
    To   lir.ID
}

func (self Range) String() string {
    return fmt.Sprintf("[%s, %s)", self.From, self.To)
}

func (self Range) Intersects(other Range) bool {
    return self.From < other.To && other.From < self.To
}

// intersection returns the first ID at which self and other overlap, or
// (0, false) if they never do. Used by the linear-scan walk's
// nextIntersection query.
func (self Range) intersection(other Range) (lir.ID, bool) {
    from := self.From
    if other.From > from {
        from = other.From
    }

    to := self.To
    if other.To < to {
        to = other.To
    }

    if from < to {
        return from, true
    }

    return 0, false
}

// RangeList is an ordered, non-overlapping list of Ranges belonging to
// one interval. It is built back-to-front during lifetime analysis (C3
// walks the trace in reverse) and is never mutated after that, except
// by prependOrExtend which lifetime analysis itself uses to grow the
// currently-open tail range.
type RangeList []Range

func (self RangeList) From() lir.ID {
    if len(self) == 0 {
        return lir.InvalidID
    }
    return self[0].From
}

func (self RangeList) To() lir.ID {
    if len(self) == 0 {
        return lir.InvalidID
    }
    return self[len(self)-1].To
}

// Covers reports whether id falls inside any range.
func (self RangeList) Covers(id lir.ID) bool {
    for _, r := range self {
        if id >= r.From && id < r.To {
            return true
        }
    }
    return false
}

// IntersectsRange reports whether any range in self overlaps r.
func (self RangeList) IntersectsRange(r Range) bool {
    for _, s := range self {
        if s.Intersects(r) {
            return true
        }
    }
    return false
}

// nextIntersection returns the first id at or after other.From where
// self and other overlap.
func (self RangeList) nextIntersection(other Range) (lir.ID, bool) {
    best := lir.InvalidID
    found := false

    for _, r := range self {
        if id, ok := r.intersection(other); ok {
            if !found || id < best {
                best, found = id, true
            }
        }
    }

    return best, found
}

// prependOrExtend is lifetime analysis's core primitive: it either
// extends the earliest (leftmost) range in the list to start at from,
// or, if the gap between from and the current earliest range is
// non-adjacent, prepends a brand new [from, to) range. Because C3 walks
// backward, "earliest" is always at index 0.
func (self RangeList) prependOrExtend(from, to lir.ID) RangeList {
    if len(self) > 0 && self[0].From <= to {
        if from < self[0].From {
            self[0].From = from
        }
        return self
    }

    return append(RangeList{{From: from, To: to}}, self...)
}
