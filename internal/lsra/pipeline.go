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

// Request bundles every external collaborator the allocator needs: the
// trace to allocate, the target's register file and calling convention,
// and the callbacks it uses to hand out spill slots and build moves.
type Request struct {
    Trace          *lir.Trace
    Target         lir.TargetDescription
    RegisterConfig lir.RegisterConfig
    FrameBuilder   lir.FrameBuilder
    MoveFactory    lir.MoveFactory
    TraceBuilder   lir.TraceBuilderResult
    Scratch        ScratchSource
    Config         Config
}

// Result is what Allocate hands back to the pass manager: the mutated
// trace (in place, but also returned for convenience), the interval
// store (useful for dumps), and the run's diagnostic counters.
type Result struct {
    Trace *lir.Trace
    Store *Store
    Stats *Stats
    Num   *Numbering
}

// Allocate runs the full pipeline: numbering -> lifetime analysis ->
// linear-scan register selection -> data-flow resolution -> spill-move
// elimination (optional) -> location assignment -> verification
// (optional). Any bug() call inside the walk is recovered here and
// reported as a *BugError, so such a defect surfaces as a returned
// error to the caller rather than a panic; any other panic propagates
// unchanged.
func Allocate(req Request) (result *Result, err error) {
    defer recoverBug(&err)

    if req.Scratch == nil {
        req.Scratch = NewScratchSource(req.RegisterConfig, req.FrameBuilder, nil)
    }

    num := Number(req.Trace)
    store := NewStore()
    stats := NewStats()

    AnalyzeLifetimes(req.Trace, num, req.RegisterConfig, store)

    alloc := NewAllocator(store, num, req.RegisterConfig, req.FrameBuilder, req.Config, stats)

    if err = alloc.Run(); err != nil {
        return nil, err
    }

    if err = ResolveDataFlow(req.Trace, num, store, req.TraceBuilder, req.MoveFactory, req.Scratch); err != nil {
        return nil, err
    }

    if req.Config.EliminateSpillMoves {
        EliminateSpillMoves(req.Trace, store, req.MoveFactory)
    }

    if err = AssignLocations(req.Trace, store); err != nil {
        return nil, err
    }

    if req.Config.DetailedAsserts {
        if err = Verify(store); err != nil {
            return nil, err
        }

        if err = VerifyNoLiveReferencesInFixedIntervals(req.Trace, store); err != nil {
            return nil, err
        }
    }

    return &Result{Trace: req.Trace, Store: store, Stats: stats, Num: num}, nil
}
