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

// EliminateSpillMoves is C8. It runs before AssignLocations, so a
// variable operand's Value.Location is not filled in yet; every move is
// resolved through its operands' split-child intervals at that opId
// instead. It scans every block and deletes moves whose resolved source
// and destination locations are provably the same. A move whose
// destination family is in SpillState StoreAtDefinition and resolves to
// a stack slot is replaced, at the same place in its block, by a fresh
// move between the resolved locations; the replacement is not moved to
// the definition and is not tagged with DominatorSpillPos.
func EliminateSpillMoves(trace *lir.Trace, store *Store, factory lir.MoveFactory) {
    for _, b := range trace.Blocks {
        out := make([]lir.Instr, 0, len(b.Instrs))

        for _, ins := range b.Instrs {
            mv, ok := ins.(lir.MoveInstr)

            if !ok {
                out = append(out, ins)
                continue
            }

            dst, src := mv.Dst(), mv.Src()

            if dst == nil || src == nil {
                out = append(out, ins)
                continue
            }

            id := ins.ID()
            dstLoc, dstOk := resolvedLocation(dst, id, lir.ModeOutput, store)
            srcLoc, srcOk := resolvedLocation(src, id, lir.ModeInput, store)

            if dstOk && srcOk && dstLoc == srcLoc {
                continue
            }

            if rewritten := rewriteDominatorStore(dst, dstLoc, srcLoc, store, factory); rewritten != nil {
                out = append(out, rewritten)
                continue
            }

            out = append(out, ins)
        }

        b.Instrs = out
    }
}

// resolvedLocation reports where an operand actually lives at opId
// under mode. A register or fixed-value operand already carries its
// final Location; a variable operand is resolved through its split
// family, since AssignLocations has not run yet at this point in the
// pipeline.
func resolvedLocation(v *lir.Value, opId lir.ID, mode lir.Mode, store *Store) (lir.Location, bool) {
    if v.Operand.IsRegister() || v.Fixed {
        return v.Location, true
    }

    iv, ok := store.IntervalFor(v.Operand)

    if !ok {
        return lir.Unassigned, false
    }

    child, err := iv.splitChildAt(opId, mode)

    if err != nil {
        return lir.Unassigned, false
    }

    return child.Location, true
}

// rewriteDominatorStore returns a replacement move for a move into an
// interval whose split family is in StoreAtDefinition and whose
// destination resolves to a stack slot, or nil otherwise. The
// replacement copies srcLoc into dstLoc; its caller keeps it where the
// original move stood, and its id is left unset.
func rewriteDominatorStore(dst *lir.Value, dstLoc, srcLoc lir.Location, store *Store, factory lir.MoveFactory) lir.Instr {
    iv, ok := store.IntervalFor(dst.Operand)

    if !ok || iv.SplitParent.SpillState != StoreAtDefinition {
        return nil
    }

    if dstLoc.Kind != lir.LocStack {
        return nil
    }

    return factory.CreateMove(dstLoc, srcLoc)
}

// IdempotentSecondPass re-runs EliminateSpillMoves and reports true when
// it removed nothing further; a correct elimination pass leaves nothing
// for a second pass to find.
func IdempotentSecondPass(trace *lir.Trace, store *Store, factory lir.MoveFactory) bool {
    before := countInstrs(trace)
    EliminateSpillMoves(trace, store, factory)
    return countInstrs(trace) == before
}

func countInstrs(trace *lir.Trace) int {
    n := 0
    for _, b := range trace.Blocks {
        n += len(b.Instrs)
    }
    return n
}
