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
    `io`
    `os`
    `sort`
    `strings`

    `github.com/ajstarks/svgo`
    `github.com/davecgh/go-spew/spew`

    `github.com/cloudwego/tracelsra/internal/lir`
)

// DumpLevel gates how much DumpIntervals prints.
type DumpLevel int

const (
    DumpNone DumpLevel = iota
    DumpSummary
    DumpDetailed
)

// DumpIntervals is a spew-based structured dump of every interval in
// store, gated by level. It writes to w so tests can capture output
// instead of asserting on stdout, and mirrors
// TraceLinearScan.printIntervals's role in the original source.
func DumpIntervals(w io.Writer, level DumpLevel, label string, store *Store) {
    if level == DumpNone {
        return
    }

    fmt.Fprintf(w, "=== %s ===\n", label)

    cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

    for _, iv := range store.All() {
        if level == DumpSummary {
            fmt.Fprintln(w, iv.String())
            continue
        }

        cfg.Fdump(w, iv)
    }

    for _, fi := range store.FixedIntervals() {
        fmt.Fprintln(w, fi.String())
    }
}

// livePoint identifies one (block index, instruction index) coordinate
// in the trace, the same coarse addressing debug_draw_liverange.go used
// for its own _LivePoint keys.
type livePoint struct {
    block int
    instr int
}

// DrawLiveRanges renders one SVG column per interval and one row per
// instruction, wired to real *Interval/*FixedInterval data.
func DrawLiveRanges(path string, trace *lir.Trace, num *Numbering, store *Store) error {
    fp, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)

    if err != nil {
        return err
    }
    defer fp.Close()

    cols := buildColumns(store)
    maxLabel := 0
    totalRows := 0

    for _, b := range trace.Blocks {
        totalRows += len(b.Instrs) + 1
    }

    for _, b := range trace.Blocks {
        for _, ins := range b.Instrs {
            if n := len(ins.String()); n > maxLabel {
                maxLabel = n
            }
        }
    }

    insw := maxLabel*9 + 120
    regw := 80

    canvas := svg.New(fp)
    canvas.Start(len(cols)*regw+insw+100, totalRows*24+100)

    if _, err = fp.WriteString(`<rect width="100%" height="100%" fill="white" />` + "\n"); err != nil {
        return err
    }

    rowAt := make(map[livePoint]int)
    row := 0

    for bi, b := range trace.Blocks {
        canvas.Text(16, 100+row*24, fmt.Sprintf("bb_%d", b.Id), "fill:gray;font-size:16px;font-family:monospace")

        for ii, ins := range b.Instrs {
            h := 95 + row*24
            rowAt[livePoint{block: bi, instr: ii}] = h
            canvas.Text(insw, 100+row*24, strings.TrimSpace(ins.String()), "fill:black;font-size:16px;font-family:monospace;text-anchor:end")
            canvas.Line(insw+10, h, len(cols)*regw+insw+50, h, "stroke:gray")
            row++
        }

        rowAt[livePoint{block: bi, instr: len(b.Instrs)}] = 95 + row*24
        row++
    }

    for i, col := range cols {
        x := insw + i*regw + 50
        canvas.Text(x, 70, col.label, "fill:black;font-size:16px;font-family:monospace;text-anchor:middle")

        for _, r := range col.ranges {
            fromRow, toRow := rowsFor(trace, num, r)
            canvas.Line(x, rowAt[fromRow], x, rowAt[toRow], "stroke:black;stroke-width:3")
        }
    }

    canvas.End()
    return nil
}

type column struct {
    label  string
    ranges RangeList
}

func buildColumns(store *Store) []column {
    var cols []column

    for _, iv := range store.Roots() {
        cols = append(cols, column{label: describeOperand(iv.Operand), ranges: iv.wholeRange()})
    }

    for _, fi := range store.FixedIntervals() {
        cols = append(cols, column{label: fi.Reg.String(), ranges: fi.Ranges})
    }

    sort.Slice(cols, func(i, j int) bool { return cols[i].label < cols[j].label })
    return cols
}

func rowsFor(trace *lir.Trace, num *Numbering, r Range) (livePoint, livePoint) {
    fromPt := pointForID(trace, num, r.From)
    toPt := pointForID(trace, num, r.To)
    return fromPt, toPt
}

func pointForID(trace *lir.Trace, num *Numbering, id lir.ID) livePoint {
    b, ok := num.BlockAt(id)

    if !ok {
        return livePoint{}
    }

    for bi, cand := range trace.Blocks {
        if cand == b {
            for ii, ins := range b.Instrs {
                if ins.ID() >= id {
                    return livePoint{block: bi, instr: ii}
                }
            }
            return livePoint{block: bi, instr: len(b.Instrs)}
        }
    }

    return livePoint{}
}
