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

package speclang

import (
	"fmt"
	"strconv"

	"github.com/bufwire/wirespec/internal/intcodec"
	"github.com/bufwire/wirespec/internal/specast"
)

// CompileError is returned for any syntactic problem in a spec-string:
// unbalanced Until/Switch delimiters, a dangling '%' or '$', a duplicate
// Switch case, or a reference to an out-of-range override index. Pos is
// the byte offset of the offending token.
type CompileError struct {
	Pos int
	Msg string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("wirespec: spec-string error at offset %d: %s", e.Pos, e.Msg)
}

type frameKind int

const (
	frameUntil frameKind = iota
	frameSwitch
)

type frame struct {
	kind frameKind

	// frameUntil
	name     *string
	children []*specast.Spec

	// frameSwitch
	selector         string
	cases            map[uint64]*specast.Spec
	order            []uint64
	awaitingLabel    bool
	curChildren      []*specast.Spec
	curCaseKey       uint64
	curCaseIsDefault bool
	curCaseIsNumber  bool
	haveDefault      bool
	defaultSpec      *specast.Spec
}

// Builder consumes a Token stream and assembles a specast.Spec tree,
// maintaining the FIFO of not-yet-referenced auto-generated variable
// names and the stack of open Until/Switch frames.
type Builder struct {
	prefix  string
	counter uint64

	pendingNames []string

	endian intcodec.Endian

	pendingNumber      *uint64
	pendingDollarIndex *uint64
	pendingStar        bool

	pendingPercent   bool
	pendingSign      int64
	pendingHasOffset bool
	pendingOffset    uint64

	frames []*frame
	out    []*specast.Spec
}

// NewBuilder returns a Builder whose auto-generated variable names are
// "<prefix><n>" for n = 0, 1, 2, ... This lets multiple specs be composed
// without colliding variable names.
func NewBuilder(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Feed consumes a single token, updating the builder's state and/or
// emitting a completed Spec node into whichever list is currently active
// (top-level, or the innermost open Until/Switch frame).
func (b *Builder) Feed(t Token) error {
	switch t.Kind {
	case KindEndianLittle:
		b.endian = intcodec.LittleEndian
	case KindEndianBig:
		b.endian = intcodec.BigEndian
	case KindNumber:
		return b.feedNumber(t)
	case KindDollar:
		if b.pendingNumber == nil {
			return &CompileError{Pos: t.Pos, Msg: "'$' must follow a number"}
		}
		idx := *b.pendingNumber
		b.pendingDollarIndex = &idx
		b.pendingNumber = nil
	case KindStar:
		if top := b.topSwitch(); top != nil && top.awaitingLabel {
			top.curCaseIsDefault = true
		} else {
			b.pendingStar = true
		}
	case KindPlus:
		if !b.pendingPercent {
			return &CompileError{Pos: t.Pos, Msg: "'+' is only valid after '%' in a variable declaration"}
		}
		b.pendingSign = 1
	case KindMinus:
		if !b.pendingPercent {
			return &CompileError{Pos: t.Pos, Msg: "'-' is only valid after '%' in a variable declaration"}
		}
		b.pendingSign = -1
	case KindVariable:
		b.pendingPercent = true
		b.pendingSign = 0
		b.pendingHasOffset = false
		b.pendingOffset = 0
		b.pendingNumber = nil
	case KindIntegerType:
		return b.feedIntegerType(t)
	case KindSkip:
		if b.pendingNumber == nil {
			return &CompileError{Pos: t.Pos, Msg: "'x' (skip) requires a preceding byte count"}
		}
		n := *b.pendingNumber
		b.pendingNumber = nil
		b.emit(specast.Skip(n))
	case KindBytes:
		name, err := b.resolveName(t, true)
		if err != nil {
			return err
		}
		b.emit(specast.Bytes(name))
	case KindUntilStart:
		name, err := b.resolveName(t, true)
		if err != nil {
			return err
		}
		b.frames = append(b.frames, &frame{kind: frameUntil, name: name})
	case KindUntilEnd:
		top := b.topFrame()
		if top == nil || top.kind != frameUntil {
			return &CompileError{Pos: t.Pos, Msg: "unbalanced ')'"}
		}
		b.frames = b.frames[:len(b.frames)-1]
		inner := specast.Combine(top.children)
		b.emit(specast.Until(top.name, inner))
	case KindSwitchStart:
		if b.pendingStar {
			b.pendingStar = false
			return &CompileError{Pos: t.Pos, Msg: "switch selector cannot be unbounded"}
		}
		name, err := b.resolveName(t, false)
		if err != nil {
			return err
		}
		if name == nil {
			return &CompileError{Pos: t.Pos, Msg: "switch selector cannot be unbounded"}
		}
		b.frames = append(b.frames, &frame{
			kind:          frameSwitch,
			selector:      *name,
			cases:         map[uint64]*specast.Spec{},
			awaitingLabel: true,
		})
	case KindEquals:
		top := b.topSwitch()
		if top == nil || !top.awaitingLabel || (!top.curCaseIsNumber && !top.curCaseIsDefault) {
			return &CompileError{Pos: t.Pos, Msg: "unexpected '='"}
		}
		top.awaitingLabel = false
		top.curChildren = nil
	case KindComma:
		top := b.topSwitch()
		if top == nil || top.awaitingLabel {
			return &CompileError{Pos: t.Pos, Msg: "unexpected ','"}
		}
		if err := b.finalizeCase(t, top); err != nil {
			return err
		}
	case KindSwitchEnd:
		top := b.topFrame()
		if top == nil || top.kind != frameSwitch {
			return &CompileError{Pos: t.Pos, Msg: "unbalanced '}'"}
		}
		if top.awaitingLabel && len(top.cases) == 0 && !top.haveDefault {
			return &CompileError{Pos: t.Pos, Msg: "empty switch"}
		}
		if !top.awaitingLabel {
			if err := b.finalizeCase(t, top); err != nil {
				return err
			}
		}
		b.frames = b.frames[:len(b.frames)-1]
		def := top.def()
		b.emit(specast.Switch(top.selector, top.cases, top.order, def))
	case KindEOF:
		// Nothing to do; Finish checks for balance.
	default:
		return &CompileError{Pos: t.Pos, Msg: fmt.Sprintf("unexpected token %s", t.Kind)}
	}
	return nil
}

// Finish validates that every Until/Switch frame was closed and returns
// the combined top-level Spec.
func (b *Builder) Finish() (*specast.Spec, error) {
	if len(b.frames) != 0 {
		return nil, &CompileError{Msg: "unbalanced '(' or '{': spec-string ended with an open group"}
	}
	if b.pendingPercent {
		return nil, &CompileError{Msg: "spec-string ended with a dangling '%'"}
	}
	return specast.Combine(b.out), nil
}

func (b *Builder) feedNumber(t Token) error {
	if b.pendingPercent {
		b.pendingOffset = t.Value
		b.pendingHasOffset = true
		return nil
	}
	if top := b.topSwitch(); top != nil && top.awaitingLabel {
		top.curCaseKey = t.Value
		top.curCaseIsNumber = true
		return nil
	}
	v := t.Value
	b.pendingNumber = &v
	return nil
}

func (b *Builder) feedIntegerType(t Token) error {
	width := t.Width
	if b.pendingPercent {
		sign := b.pendingSign
		if sign == 0 {
			sign = 1
		}
		var offset int64
		if b.pendingHasOffset {
			offset = int64(b.pendingOffset) * sign
		}
		name := b.newAutoName()
		b.emit(specast.Variable(intcodec.Spec{Width: width, Endian: b.endian}, name, offset))
		b.pendingPercent = false
		b.pendingSign = 0
		b.pendingHasOffset = false
		b.pendingOffset = 0
		return nil
	}
	repeat := uint64(1)
	if b.pendingNumber != nil {
		repeat = *b.pendingNumber
		b.pendingNumber = nil
	}
	for i := uint64(0); i < repeat; i++ {
		b.emit(specast.Integer(intcodec.Spec{Width: width, Endian: b.endian}))
	}
	return nil
}

// resolveName resolves the name bound to a Bytes/Until/Switch opener:
// an explicit "<n>$" override always wins (and does not disturb the
// FIFO, per the documented override semantics), then — only when
// allowStar is true — a preceding '*' means "unbounded" (nil), and
// otherwise the next name is popped off the pending-auto-name FIFO.
func (b *Builder) resolveName(t Token, allowStar bool) (*string, error) {
	if b.pendingDollarIndex != nil {
		idx := *b.pendingDollarIndex
		b.pendingDollarIndex = nil
		if idx >= b.counter {
			return nil, &CompileError{Pos: t.Pos, Msg: fmt.Sprintf("override index %d does not name a declared variable", idx)}
		}
		name := b.overrideName(idx)
		return &name, nil
	}
	if allowStar && b.pendingStar {
		b.pendingStar = false
		return nil, nil
	}
	b.pendingStar = false
	if len(b.pendingNames) == 0 {
		return nil, &CompileError{Pos: t.Pos, Msg: "no pending variable to bind here"}
	}
	name := b.pendingNames[0]
	b.pendingNames = b.pendingNames[1:]
	return &name, nil
}

func (b *Builder) overrideName(idx uint64) string {
	return fmt.Sprintf("%s%s", b.prefix, strconv.FormatUint(idx, 10))
}

func (b *Builder) newAutoName() string {
	name := b.overrideName(b.counter)
	b.counter++
	b.pendingNames = append(b.pendingNames, name)
	return name
}

func (b *Builder) topFrame() *frame {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

func (b *Builder) topSwitch() *frame {
	f := b.topFrame()
	if f == nil || f.kind != frameSwitch {
		return nil
	}
	return f
}

// emit appends spec to whichever list is currently active.
func (b *Builder) emit(spec *specast.Spec) {
	if top := b.topFrame(); top != nil {
		switch top.kind {
		case frameUntil:
			top.children = append(top.children, spec)
		case frameSwitch:
			top.curChildren = append(top.curChildren, spec)
		}
		return
	}
	b.out = append(b.out, spec)
}

func (b *Builder) finalizeCase(t Token, f *frame) error {
	spec := specast.Combine(f.curChildren)
	if f.curCaseIsDefault {
		if f.haveDefault {
			return &CompileError{Pos: t.Pos, Msg: "duplicate default case in switch"}
		}
		f.haveDefault = true
		f.defaultSpec = spec
	} else {
		if _, exists := f.cases[f.curCaseKey]; exists {
			return &CompileError{Pos: t.Pos, Msg: fmt.Sprintf("duplicate case %d in switch", f.curCaseKey)}
		}
		f.cases[f.curCaseKey] = spec
		f.order = append(f.order, f.curCaseKey)
	}
	f.curChildren = nil
	f.curCaseIsNumber = false
	f.curCaseIsDefault = false
	f.awaitingLabel = true
	return nil
}

func (f *frame) def() *specast.Spec {
	if f.defaultSpec != nil {
		return f.defaultSpec
	}
	return specast.StopNode()
}
