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
)

// Bailout means allocation cannot proceed for this trace: a splitChildAt
// query missed, no register could accommodate a must-have-register use,
// or the verifier found an overlap. The caller should retry the
// compilation with a fallback allocator; this is not a defect.
type Bailout struct {
    Reason string
}

func (self *Bailout) Error() string {
    return fmt.Sprintf("lsra: bailout: %s", self.Reason)
}

func bailout(format string, args ...interface{}) error {
    return &Bailout{Reason: fmt.Sprintf(format, args...)}
}

// BugError means an internal invariant was violated: an operand was a
// register where a variable was expected, a list sentinel was
// misplaced, or similar. It always indicates a defect in the allocator
// itself, never in its input.
type BugError struct {
    Reason string
}

func (self *BugError) Error() string {
    return fmt.Sprintf("lsra: internal error: %s", self.Reason)
}

// bugPanic is the sentinel value bug() panics with. Allocate recovers
// exactly this type at its top level and turns it back into a returned
// error, so a defect inside the walk never escapes as a bare panic to
// library callers; any other panic value is left to propagate, since it
// signals something the allocator did not anticipate at all.
type bugPanic struct {
    err *BugError
}

func bug(format string, args ...interface{}) {
    panic(bugPanic{err: &BugError{Reason: fmt.Sprintf(format, args...)}})
}

// recoverBug is called via defer at the top of Allocate. On a bugPanic
// it fills *err with the wrapped *BugError; on any other panic value it
// re-panics.
func recoverBug(err *error) {
    switch v := recover().(type) {
    case nil:
        return
    case bugPanic:
        *err = v.err
    default:
        panic(v)
    }
}
