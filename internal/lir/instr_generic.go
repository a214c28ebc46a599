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
    `strings`
)

// Const defines R with a constant value. When Rematerializable is set,
// the allocator may skip spilling it entirely and instead rebuild it
// from ConstValue on every use instead.
type Const struct {
    Base
    R               *Value
    ConstValue      int64
    Rematerializable bool
}

func (self *Const) VisitOutputs(fn func(*Value)) { fn(self.R) }

func (self *Const) String() string {
    return fmt.Sprintf("%s = const %d", self.R, self.ConstValue)
}

// LoadParam defines R from the incoming argument at Index. Used for
// trace-entry parameters.
type LoadParam struct {
    Base
    R     *Value
    Index int
}

func (self *LoadParam) VisitOutputs(fn func(*Value)) { fn(self.R) }

func (self *LoadParam) String() string {
    return fmt.Sprintf("%s = arg[%d]", self.R, self.Index)
}

// BinOp computes R = X op Y.
type BinOp struct {
    Base
    R     *Value
    X, Y  *Value
    Op    string
}

func (self *BinOp) VisitInputs(fn func(*Value))  { fn(self.X); fn(self.Y) }
func (self *BinOp) VisitOutputs(fn func(*Value)) { fn(self.R) }

func (self *BinOp) String() string {
    return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

// Use is a synthetic instruction that consumes V without producing a
// result, standing in for "any instruction that reads a value" in tests.
type Use struct {
    Base
    V *Value
}

func (self *Use) VisitInputs(fn func(*Value)) { fn(self.V) }

func (self *Use) String() string {
    return fmt.Sprintf("use %s", self.V)
}

// Call invokes an external function, destroying every caller-saved
// register. In holds arguments that must be alive across the call (they
// occupy fixed argument registers set up by an earlier move); Out holds
// the values the call defines (e.g. the return register).
type Call struct {
    Base
    Name  string
    In    []*Value
    Out   []*Value
    State bool
}

func (self *Call) VisitAlives(fn func(*Value)) {
    for _, v := range self.In {
        fn(v)
    }
}

func (self *Call) VisitOutputs(fn func(*Value)) {
    for _, v := range self.Out {
        fn(v)
    }
}

func (self *Call) DestroysCallerSaved() bool { return true }
func (self *Call) HasState() bool            { return self.State }

func (self *Call) String() string {
    in := make([]string, 0, len(self.In))
    out := make([]string, 0, len(self.Out))

    for _, v := range self.In {
        in = append(in, v.String())
    }
    for _, v := range self.Out {
        out = append(out, v.String())
    }

    return fmt.Sprintf("%s = call %s(%s)", strings.Join(out, ", "), self.Name, strings.Join(in, ", "))
}

// Return consumes every value being returned.
type Return struct {
    Base
    R []*Value
}

func (self *Return) VisitInputs(fn func(*Value)) {
    for _, v := range self.R {
        fn(v)
    }
}

func (self *Return) String() string {
    r := make([]string, 0, len(self.R))
    for _, v := range self.R {
        r = append(r, v.String())
    }
    return fmt.Sprintf("ret %s", strings.Join(r, ", "))
}
