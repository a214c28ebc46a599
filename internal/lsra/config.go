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

// Config carries the flags an enclosing pass manager uses to tune one
// allocation run. Zero value is not meant to be used directly; start
// from DefaultConfig and apply Options.
type Config struct {
    // NeverSpillConstants turns rematerialization off: a
    // rematerializable constant that loses its register is then given
    // a stack slot like any other value. Constants are not forced back
    // into a register after a call.
    NeverSpillConstants bool

    // DetailedAsserts turns on the verifier (C10) and the more
    // expensive VerifyNoLiveReferencesInFixedIntervals pass.
    DetailedAsserts bool

    // EliminateSpillMoves runs the spill-move eliminator (C8) after
    // data-flow resolution. Default on.
    EliminateSpillMoves bool

    // CacheStackSlots reuses the same spill slot for a given variable
    // index across multiple allocation runs of the same compilation,
    // via StackSlotCache.
    CacheStackSlots bool

    // StackSlotCache backs CacheStackSlots. Owned by the pass manager,
    // not by the allocator; passed in so slot reuse survives across
    // traces of the same compilation.
    StackSlotCache map[int]interface{}
}

// DefaultConfig is safe and quiet: the expensive checks and the more
// aggressive optimizations stay off unless a caller opts in.
func DefaultConfig() Config {
    return Config{
        NeverSpillConstants: false,
        DetailedAsserts:     false,
        EliminateSpillMoves: true,
        CacheStackSlots:     false,
    }
}

// Option mutates a Config in place, the usual functional-option shape.
type Option func(*Config)

func WithNeverSpillConstants(v bool) Option {
    return func(c *Config) { c.NeverSpillConstants = v }
}

func WithDetailedAsserts(v bool) Option {
    return func(c *Config) { c.DetailedAsserts = v }
}

func WithEliminateSpillMoves(v bool) Option {
    return func(c *Config) { c.EliminateSpillMoves = v }
}

func WithCacheStackSlots(cache map[int]interface{}) Option {
    return func(c *Config) {
        c.CacheStackSlots = true
        c.StackSlotCache = cache
    }
}

func NewConfig(opts ...Option) Config {
    cfg := DefaultConfig()

    for _, opt := range opts {
        opt(&cfg)
    }

    return cfg
}
