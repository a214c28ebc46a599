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
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/topo`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// PendingMove is one entry of the parallel-move set C6 (and C7 above it)
// is asked to sequentialize: copy Src into Dst.
type PendingMove struct {
    Dst lir.Location
    Src lir.Location
}

// ScratchSource hands the resolver a spare register or spill slot to
// break a move cycle with, and a factory for the actual move
// instructions once ordering is decided.
type ScratchSource interface {
    ScratchRegister(kind lir.Kind) (lir.PhysReg, bool)
    ScratchSlot(kind lir.Kind) lir.SpillSlot
}

// ResolveMoves is C6: it schedules a set of parallel moves at a single
// program point into a cycle-free sequence, using a gonum directed
// graph (one node per pending move, edge other -> m iff other reads a
// location that m writes, so other must execute first) and topo.Sort to
// find the emission order. When topo.Sort reports an unorderable cycle,
// the cycle is broken by copying one member's source into a scratch
// location, replaying the rest of the cycle, then filling that member's
// destination from the scratch.
func ResolveMoves(moves []PendingMove, kind lir.Kind, scratch ScratchSource, factory lir.MoveFactory) ([]lir.Instr, error) {
    live := make([]PendingMove, 0, len(moves))

    for _, m := range moves {
        if m.Dst != m.Src {
            live = append(live, m)
        }
    }

    if len(live) == 0 {
        return nil, nil
    }

    g := simple.NewDirectedGraph()
    nodes := make([]graph.Node, len(live))

    for i := range live {
        nodes[i] = simple.Node(i)
        g.AddNode(nodes[i])
    }

    for i, m := range live {
        for j, other := range live {
            if i == j {
                continue
            }
            // other must execute before m if m would otherwise clobber
            // the source other still needs to read.
            if other.Src == m.Dst {
                g.SetEdge(g.NewEdge(nodes[j], nodes[i]))
            }
        }
    }

    order, err := topo.Sort(g)

    if err == nil {
        return emitInOrder(order, live, factory), nil
    }

    unorderable, ok := err.(topo.Unorderable)

    if !ok {
        bug("move resolver: unexpected topo error: %v", err)
    }

    return breakCyclesAndEmit(g, live, unorderable, kind, scratch, factory)
}

func emitInOrder(order []graph.Node, live []PendingMove, factory lir.MoveFactory) []lir.Instr {
    out := make([]lir.Instr, 0, len(live))

    // Edge other->m means "other reads a location m is about to
    // overwrite, so other must execute first". topo.Sort places edge
    // sources before their targets, so the order it returns is already
    // the correct emission order: no reversal needed.
    for _, n := range order {
        idx := int(n.ID())
        m := live[idx]
        out = append(out, factory.CreateMove(m.Dst, m.Src))
    }

    return out
}

// breakCyclesAndEmit handles the residual cycles topo.Sort could not
// order. Each cycle is a permutation of locations: dst_i <- src_i with
// src_i equal to some other move's dst_j, chained all the way around.
// One member (first) has its source saved into a scratch location; the
// rest of the cycle is then replayed by following the dst<-src chain
// starting from first.Src (each move in that chain is safe to run
// because the location it reads has not been overwritten yet), and the
// chain is closed by writing the scratch value into first.Dst.
func breakCyclesAndEmit(g *simple.DirectedGraph, live []PendingMove, cycles topo.Unorderable, kind lir.Kind, scratch ScratchSource, factory lir.MoveFactory) ([]lir.Instr, error) {
    var out []lir.Instr
    inCycle := make(map[int64]bool)

    for _, cycle := range cycles {
        if len(cycle) == 0 {
            continue
        }

        members := make(map[lir.Location]PendingMove, len(cycle))

        for _, n := range cycle {
            inCycle[n.ID()] = true
            m := live[n.ID()]
            members[m.Dst] = m
        }

        first := live[cycle[0].ID()]

        var scratchLoc lir.Location

        if reg, ok := scratch.ScratchRegister(kind); ok {
            scratchLoc = lir.AtRegister(reg)
        } else {
            scratchLoc = lir.AtStack(scratch.ScratchSlot(kind))
        }

        out = append(out, factory.CreateMove(scratchLoc, first.Src))

        visited := map[lir.Location]bool{first.Dst: true}
        need := first.Src

        for {
            m, ok := members[need]

            if !ok || visited[m.Dst] {
                break
            }

            out = append(out, factory.CreateMove(m.Dst, m.Src))
            visited[m.Dst] = true
            need = m.Src
        }

        out = append(out, factory.CreateMove(first.Dst, scratchLoc))
    }

    // Emit every move that was not part of any cycle. Since these have
    // no cyclic dependency by definition, a topological pass over just
    // them (rebuilt without the cyclic nodes) is guaranteed to succeed.
    var remaining []graph.Node

    for _, n := range graph.NodesOf(g.Nodes()) {
        if !inCycle[n.ID()] {
            remaining = append(remaining, n)
        }
    }

    sub := simple.NewDirectedGraph()

    for _, n := range remaining {
        sub.AddNode(n)
    }

    for _, n := range remaining {
        for _, succ := range graph.NodesOf(g.From(n.ID())) {
            if !inCycle[succ.ID()] {
                sub.SetEdge(sub.NewEdge(n, succ))
            }
        }
    }

    order, err := topo.Sort(sub)

    if err != nil {
        bug("move resolver: residual cycle after cycle-breaking: %v", err)
    }

    out = append(out, emitInOrder(order, live, factory)...)
    return out, nil
}
