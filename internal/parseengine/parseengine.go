// Copyright 2025 The Wirespec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parseengine implements an incremental stack-machine parser: it
// drives a [specast.Spec] against a [bytequeue.Queue], producing a
// [specast.Data] tree, one atomic step transition at a time, suspending
// with an [Incomplete] byte deficit whenever the queue runs dry mid-step.
package parseengine

import (
	"fmt"

	"github.com/bufwire/wirespec/internal/bytequeue"
	"github.com/bufwire/wirespec/internal/debug"
	"github.com/bufwire/wirespec/internal/intcodec"
	"github.com/bufwire/wirespec/internal/specast"
	"github.com/bufwire/wirespec/internal/xsync"
)

// Incomplete is returned by Next when the top-level parse stalled for
// lack of bytes. Need is the smallest number of additional bytes that
// would let the current innermost step succeed — not a bound on the
// bytes required to finish the whole spec.
type Incomplete struct {
	Need int
}

func (e *Incomplete) Error() string {
	return fmt.Sprintf("wirespec: incomplete: need at least %d more byte(s)", e.Need)
}

// frameKind tags the variant of an execution-stack frame.
type frameKind int

const (
	framePrepared frameKind = iota
	framePartialSeq
	framePartialRepeat
	frameDone
)

type execFrame struct {
	kind frameKind

	// framePrepared
	spec *specast.Spec

	// framePartialSeq
	seqDone      []*specast.Data
	seqRemaining []*specast.Spec

	// framePartialRepeat
	repDone  []*specast.Data
	repLeft  uint64
	repInner *specast.Spec

	// frameDone
	data *specast.Data
}

var stackPool = xsync.Pool[[]execFrame]{
	New:   func() []execFrame { return make([]execFrame, 0, 8) },
	Reset: func(s *[]execFrame) { *s = (*s)[:0] },
}

// Env is the variable environment: name -> u64, scoped per top-level
// parse and inherited by Until's sub-parsers.
type Env map[string]uint64

// Engine drives a Spec against a ByteQueue. It is not safe for concurrent
// use: Supply/Next/Reset must be serialized by the caller.
type Engine struct {
	initial *specast.Spec
	queue   *bytequeue.Queue
	env     Env
	stack   []execFrame

	stopped *specast.Data // cached Stop result, returned until Reset
}

// New returns an Engine ready to parse spec, optionally seeded with
// initial variable bindings (preserved across Reset).
func New(spec *specast.Spec, seed Env) *Engine {
	e := &Engine{
		initial: spec,
		queue:   bytequeue.New(),
		env:     cloneEnv(seed),
	}
	e.resetStack()
	return e
}

// cloneEnv returns an independent copy of seed so storing it away (e.g. as
// the seed a later Reset will reapply) can never be mutated by writes into
// the map handed back here.
func cloneEnv(seed Env) Env {
	env := make(Env, len(seed))
	for k, v := range seed {
		env[k] = v
	}
	return env
}

func (e *Engine) resetStack() {
	e.stack = append(e.stack[:0], execFrame{kind: framePrepared, spec: e.initial})
}

// Supply appends chunk to the engine's input queue. It never blocks and
// never fails.
func (e *Engine) Supply(chunk []byte) { e.queue.Append(chunk) }

// Reset re-initializes the execution stack to [Prepared(initial)] and
// replaces the environment with a copy of seed. It also clears any cached
// Stop result.
func (e *Engine) Reset(seed Env) {
	e.env = cloneEnv(seed)
	e.resetStack()
	e.stopped = nil
}

// Remaining returns a view over the bytes not yet consumed.
func (e *Engine) Remaining() bytequeue.View { return e.queue.PeekAll() }

// Next attempts one full parse of the top spec, returning the completed
// Data tree, or an *Incomplete error if more bytes are needed. Once a
// Stop value has surfaced, every subsequent call returns that same value
// until Reset is called.
func (e *Engine) Next() (*specast.Data, error) {
	if e.stopped != nil {
		return e.stopped, nil
	}
	for {
		done, data, deficit := e.step()
		if deficit > 0 {
			return nil, &Incomplete{Need: deficit}
		}
		if done {
			if data.IsStop() {
				e.stopped = data
			}
			return data, nil
		}
	}
}

// ParseAll repeatedly calls Next then Reset until Next returns Incomplete,
// a round makes no progress, or a Stop value surfaces (which is not
// appended to the result). seed is reapplied to the environment on every
// Reset.
func ParseAll(e *Engine, seed Env) []*specast.Data {
	var out []*specast.Data
	for {
		before := e.queue.Len()
		data, err := e.Next()
		if err != nil {
			return out
		}
		if data.IsStop() {
			return out
		}
		out = append(out, data)
		after := e.queue.Len()
		e.Reset(seed)
		if before == after {
			// No bytes were consumed this round (e.g. Until(null, Skip(0))):
			// stop here rather than loop forever.
			return out
		}
	}
}

// step performs one atomic transition of the top stack frame. It returns
// (true, data, 0) when the whole parse completed with data, (false, nil,
// 0) when more steps remain, or (false, nil, deficit) when the queue
// needs deficit more bytes before this step can retry.
func (e *Engine) step() (done bool, data *specast.Data, deficit int) {
	top := e.stack[len(e.stack)-1]

	switch top.kind {
	case frameDone:
		return true, top.data, 0

	case framePrepared:
		return e.stepPrepared(top.spec)

	case framePartialSeq:
		e.stack = e.stack[:len(e.stack)-1]
		if len(top.seqRemaining) > 0 {
			next := top.seqRemaining[0]
			e.stack = append(e.stack, execFrame{
				kind:         framePartialSeq,
				seqDone:      top.seqDone,
				seqRemaining: top.seqRemaining[1:],
			})
			e.stack = append(e.stack, execFrame{kind: framePrepared, spec: next})
			return false, nil, 0
		}
		e.push(specast.List(top.seqDone...))
		return false, nil, 0

	case framePartialRepeat:
		e.stack = e.stack[:len(e.stack)-1]
		if top.repLeft > 0 {
			e.stack = append(e.stack, execFrame{
				kind:     framePartialRepeat,
				repDone:  top.repDone,
				repLeft:  top.repLeft - 1,
				repInner: top.repInner,
			})
			e.stack = append(e.stack, execFrame{kind: framePrepared, spec: top.repInner})
			return false, nil, 0
		}
		e.push(specast.List(top.repDone...))
		return false, nil, 0
	}

	debug.Assert(false, "unreachable step frame kind %d", top.kind)
	return false, nil, 0
}

func (e *Engine) stepPrepared(spec *specast.Spec) (done bool, data *specast.Data, deficit int) {
	debug.Log("parse", "step %s, %d byte(s) queued, %d frame(s) deep", spec.Kind, e.queue.Len(), len(e.stack))
	switch spec.Kind {
	case specast.KindSkip:
		_, def := e.queue.SplitPrefix(int(spec.SkipLen))
		if def > 0 {
			return false, nil, def
		}
		e.popTop()
		e.push(specast.Empty())
		return false, nil, 0

	case specast.KindStop:
		e.collapseToStop(spec, 0)
		return true, e.stack[0].data, 0

	case specast.KindInteger:
		v, def := e.readInt(spec.Int)
		if def > 0 {
			return false, nil, def
		}
		e.popTop()
		e.push(specast.Uint(v))
		return false, nil, 0

	case specast.KindVariable:
		v, def := e.readInt(spec.Int)
		if def > 0 {
			return false, nil, def
		}
		logical := uint64(int64(v) + spec.VarOffset)
		e.env[spec.VarName] = logical
		e.popTop()
		// The Data value carries the offset-adjusted (logical) quantity,
		// not the raw wire bits -- the same convention wireenc.Encode
		// expects from a Variable's Data, so parse(encode(d)) == d holds
		// for non-zero offsets too.
		e.push(specast.Uint(logical))
		return false, nil, 0

	case specast.KindBytes:
		n := e.lengthFor(spec.Name)
		view, def := e.queue.SplitPrefix(n)
		if def > 0 {
			return false, nil, def
		}
		e.popTop()
		e.push(specast.Bin(view.Bytes()))
		return false, nil, 0

	case specast.KindSeq:
		e.popTop()
		if len(spec.Children) == 0 {
			e.push(specast.List())
			return false, nil, 0
		}
		e.stack = append(e.stack, execFrame{
			kind:         framePartialSeq,
			seqRemaining: spec.Children[1:],
		})
		e.stack = append(e.stack, execFrame{kind: framePrepared, spec: spec.Children[0]})
		return false, nil, 0

	case specast.KindRepeat:
		count := e.envGet(spec.RepeatName)
		e.popTop()
		if count == 0 {
			e.push(specast.List())
			return false, nil, 0
		}
		e.stack = append(e.stack, execFrame{
			kind:     framePartialRepeat,
			repLeft:  count - 1,
			repInner: spec.Inner,
		})
		e.stack = append(e.stack, execFrame{kind: framePrepared, spec: spec.Inner})
		return false, nil, 0

	case specast.KindUntil:
		budget := e.lengthFor(spec.Name)
		view, def := e.queue.SplitPrefix(budget)
		if def > 0 {
			return false, nil, def
		}
		debug.Log("parse", "entering Until sub-parse over %d byte(s)", budget)
		// Snapshot the outer environment rather than alias e.env: ParseAll's
		// per-iteration Reset(seed) rebuilds the sub-engine's env from seed
		// on every round, so an aliased map would have been replaced out from
		// under the parent by the 2nd+ repetition, losing every outer
		// variable an inner spec still needs to reference. The sub-engine's
		// own initial env is an independent clone of seed too, so a write
		// during the first repetition (before any Reset) can't leak into the
		// seed every later repetition starts from.
		seed := cloneEnv(e.env)
		stack := stackPool.Get()
		subEngine := &Engine{
			initial: spec.Inner,
			queue:   view.AsQueue(),
			env:     cloneEnv(seed),
			stack:   append(stack[:0], execFrame{kind: framePrepared, spec: spec.Inner}),
		}
		results := ParseAll(subEngine, seed)
		stackPool.Put(subEngine.stack)
		e.popTop()
		e.push(specast.List(results...))
		return false, nil, 0

	case specast.KindSwitch:
		selector := e.envGet(spec.Selector)
		chosen, ok := spec.Cases[selector]
		if !ok {
			chosen = spec.Default
		}
		debug.Log("parse", "switch on %q = %d, matched case: %v", spec.Selector, selector, ok)
		e.popTop()
		if chosen.Kind == specast.KindStop {
			e.collapseToStop(spec, selector)
			return true, e.stack[0].data, 0
		}
		e.stack = append(e.stack, execFrame{kind: framePrepared, spec: chosen})
		return false, nil, 0
	}

	debug.Assert(false, "unreachable spec kind %d", spec.Kind)
	return false, nil, 0
}

// readInt decodes an integer at the front of the queue without
// permanently linearizing more than spec.Width bytes.
func (e *Engine) readInt(spec intcodec.Spec) (uint64, int) {
	view, def := e.queue.SplitPrefix(spec.Width)
	if def > 0 {
		return 0, def
	}
	return intcodec.Decode(view.Bytes(), spec), 0
}

// lengthFor resolves a Bytes/Until budget: vars[*name] if named, else
// every byte currently available in the queue.
func (e *Engine) lengthFor(name *string) int {
	if name == nil {
		return e.queue.Len()
	}
	return int(e.envGet(*name))
}

// envGet reads a variable, asserting it was written earlier in
// left-to-right parse order — reading before writing is a programmer error.
func (e *Engine) envGet(name string) uint64 {
	v, ok := e.env[name]
	debug.Assert(ok, "variable %q referenced before it was written", name)
	return v
}

// push installs data as the value of the parent frame, which is the
// current top once the finished frame has been popped: if the stack is
// now empty, it becomes the top-level Done(data); otherwise it is appended
// to the top frame's PartialSeq/PartialRepeat accumulator.
func (e *Engine) push(data *specast.Data) {
	if len(e.stack) == 0 {
		e.stack = append(e.stack, execFrame{kind: frameDone, data: data})
		return
	}
	parent := &e.stack[len(e.stack)-1]
	switch parent.kind {
	case framePartialSeq:
		parent.seqDone = append(parent.seqDone, data)
	case framePartialRepeat:
		parent.repDone = append(parent.repDone, data)
	default:
		debug.Assert(false, "push into non-accumulating parent frame %d", parent.kind)
	}
}

// popTop discards the current top-of-stack frame (used once its Spec has
// been fully dispatched and its replacement data pushed into the parent).
func (e *Engine) popTop() {
	e.stack = e.stack[:len(e.stack)-1]
}

// collapseToStop implements the Stop short-circuit: the entire stack
// collapses to a single Done(Stop(...)) frame, discarding every
// in-progress frame above it.
func (e *Engine) collapseToStop(spec *specast.Spec, selector uint64) {
	e.stack = e.stack[:0]
	e.stack = append(e.stack, execFrame{kind: frameDone, data: specast.Stop(spec, selector)})
}
