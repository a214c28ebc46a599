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

// Verify only runs when the caller wants DetailedAsserts, since walking
// every interval pair is too expensive to do on every compilation;
// every violation found is returned as a Bailout.
func Verify(store *Store) error {
    for i, iv := range store.variable {
        if iv != nil && iv.operandNumber != i {
            return bailout("verify: operandNumber mismatch: raw slot %d reports %d", i, iv.operandNumber)
        }
    }

    all := store.All()

    for _, iv := range all {
        if iv.Location.Kind == lir.LocUnassigned {
            return bailout("verify: interval %s has no location", iv)
        }

        if len(iv.Ranges) == 0 {
            return bailout("verify: interval %s has an empty range list", iv)
        }

        for _, r := range iv.Ranges {
            if r.From >= r.To {
                return bailout("verify: interval %s has a non-positive-length range %s", iv, r)
            }
        }

        for k := 1; k < len(iv.Ranges); k++ {
            if iv.Ranges[k-1].To > iv.Ranges[k].From {
                return bailout("verify: interval %s has overlapping/unsorted ranges", iv)
            }
        }
    }

    if err := verifyNoRegisterCollisions(all); err != nil {
        return err
    }

    if err := verifyNoFixedCollisions(all, store.FixedIntervals()); err != nil {
        return err
    }

    return nil
}

func verifyNoRegisterCollisions(all []*Interval) error {
    byReg := make(map[lir.PhysReg][]*Interval)

    for _, iv := range all {
        if iv.Location.Kind == lir.LocRegister {
            byReg[iv.Location.Reg] = append(byReg[iv.Location.Reg], iv)
        }
    }

    for reg, ivs := range byReg {
        for i := 0; i < len(ivs); i++ {
            for j := i + 1; j < len(ivs); j++ {
                if ivs[i].Ranges.IntersectsRange(Range{From: ivs[j].From(), To: ivs[j].To()}) {
                    return bailout("verify: intervals %s and %s both hold %s while live", ivs[i], ivs[j], reg)
                }
            }
        }
    }

    return nil
}

func verifyNoFixedCollisions(all []*Interval, fixed []*FixedInterval) error {
    for _, fi := range fixed {
        for _, iv := range all {
            if iv.Location.Kind != lir.LocRegister || iv.Location.Reg != fi.Reg {
                continue
            }

            for _, r := range iv.Ranges {
                if fi.Ranges.IntersectsRange(r) {
                    return bailout("verify: fixed interval %s intersects variable interval %s", fi, iv)
                }
            }
        }
    }

    return nil
}

// VerifyNoLiveReferencesInFixedIntervals is a more expensive verifier
// pass checking that at every instruction carrying a state map, no
// fixed interval for a reference-kind register is live unless the
// instruction itself names that value among its operands.
func VerifyNoLiveReferencesInFixedIntervals(trace *lir.Trace, store *Store) error {
    for _, b := range trace.Blocks {
        for _, ins := range b.Instrs {
            state, ok := ins.(lir.StateInstr)

            if !ok || !state.HasState() {
                continue
            }

            named := make(map[lir.PhysReg]bool)

            lir.VisitAll(ins, func(v *lir.Value, _ lir.Mode) {
                if v.Location.Kind == lir.LocRegister {
                    named[v.Location.Reg] = true
                }
            })

            for _, fi := range store.FixedIntervals() {
                if fi.Ranges.Covers(ins.ID()) && !named[fi.Reg] {
                    if referencesLiveRegister(store, fi.Reg, ins.ID()) {
                        return bailout("verify: fixed interval %s holds a live reference across safepoint at %s without being named", fi, ins.ID())
                    }
                }
            }
        }
    }

    return nil
}

func referencesLiveRegister(store *Store, reg lir.PhysReg, id lir.ID) bool {
    for _, iv := range store.All() {
        if iv.Kind == lir.KindRef && iv.Location.Kind == lir.LocRegister && iv.Location.Reg == reg && iv.Ranges.Covers(id) {
            return true
        }
    }
    return false
}
