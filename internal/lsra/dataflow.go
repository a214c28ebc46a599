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
    `github.com/oleiade/lane`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// edgeWork is one intra-trace block edge queued for resolution.
type edgeWork struct {
    pred *lir.Block
    succ *lir.Block
}

// ResolveDataFlow is C7. Because C3's backward scan already recorded
// exact per-variable Range lists, "live at block entry" is answered
// directly by an interval range-coverage query instead of a separate
// CFG liveness/bitset pass: a variable is live-in at b' iff some split
// child's Ranges cover firstId(b').
func ResolveDataFlow(trace *lir.Trace, num *Numbering, store *Store, tbr lir.TraceBuilderResult, factory lir.MoveFactory, scratch ScratchSource) error {
    queue := lane.NewQueue()

    for i := 0; i+1 < len(trace.Blocks); i++ {
        queue.Enqueue(edgeWork{pred: trace.Blocks[i], succ: trace.Blocks[i+1]})
    }

    for !queue.Empty() {
        w := queue.Dequeue().(edgeWork)

        if err := resolveEdge(w, num, store, tbr, factory, scratch); err != nil {
            return err
        }
    }

    return nil
}

func resolveEdge(w edgeWork, num *Numbering, store *Store, tbr lir.TraceBuilderResult, factory lir.MoveFactory, scratch ScratchSource) error {
    if tbr != nil && !tbr.IsTraceEntry(w.succ) && len(w.succ.Instrs) == 0 {
        return nil
    }

    entryID := num.FirstID(w.succ)
    exitID := num.LastID(w.pred)

    if entryID == lir.InvalidID || exitID == lir.InvalidID {
        return nil
    }

    var moves []PendingMove
    var kind lir.Kind

    for _, root := range store.Roots() {
        if !root.SplitParent.wholeRange().Covers(entryID) {
            continue
        }

        dst, err := root.splitChildAt(entryID, lir.ModeInput)

        if err != nil {
            continue
        }

        src, err := root.splitChildAt(exitID+1, lir.ModeOutput)

        if err != nil {
            src, err = root.splitChildAt(exitID, lir.ModeInput)

            if err != nil {
                continue
            }
        }

        if src.Location != dst.Location && dst.Location.Kind != lir.LocUnassigned {
            moves = append(moves, PendingMove{Dst: dst.Location, Src: src.Location})
            kind = root.Kind
        }
    }

    resolved, err := ResolveMoves(moves, kind, scratch, factory)

    if err != nil {
        return err
    }

    if len(resolved) == 0 {
        return nil
    }

    w.pred.Instrs = spliceBeforeTerminator(w.pred.Instrs, resolved)
    return nil
}

// wholeRange reports the union of every range in a split family: the
// parent's own (head) ranges plus every child's, used to skip variables
// that were never live near this edge at all before paying for the
// (more expensive) splitChildAt lookup. A split root's own Ranges only
// cover the portion before its first split point, so a variable live at
// entryID only through a later child's range would otherwise be missed
// entirely.
func (self *Interval) wholeRange() RangeList {
    if len(self.SplitChildren) == 0 {
        return self.Ranges
    }

    all := append(RangeList{}, self.Ranges...)

    for _, c := range self.SplitChildren {
        all = append(all, c.Ranges...)
    }

    return all
}

func spliceBeforeTerminator(instrs []lir.Instr, moves []lir.Instr) []lir.Instr {
    if len(instrs) == 0 {
        return moves
    }

    head := instrs[:len(instrs)-1]
    tail := instrs[len(instrs)-1]

    out := make([]lir.Instr, 0, len(instrs)+len(moves))
    out = append(out, head...)
    out = append(out, moves...)
    out = append(out, tail)

    return out
}
