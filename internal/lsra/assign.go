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

// AssignLocations is the final pass over every instruction that
// rewrites each variable operand occurrence to the Location of the
// split child covering that opId under the operand's mode. Register
// and immediate operands are left untouched, as their Location was
// pinned at construction.
func AssignLocations(trace *lir.Trace, store *Store) error {
    for _, b := range trace.Blocks {
        for _, ins := range b.Instrs {
            var failure error

            lir.VisitAll(ins, func(v *lir.Value, mode lir.Mode) {
                if failure != nil || v.Operand.IsRegister() || v.Fixed {
                    return
                }

                iv, ok := store.IntervalFor(v.Operand)

                if !ok {
                    failure = bailout("assign: no interval for %s", v.Operand)
                    return
                }

                child, err := iv.splitChildAt(ins.ID(), mode)

                if err != nil {
                    failure = err
                    return
                }

                if child.Location.Kind == lir.LocIllegal {
                    v.Location = lir.Illegal
                    return
                }

                v.Location = child.Location
            })

            if failure != nil {
                return failure
            }
        }
    }

    return nil
}
