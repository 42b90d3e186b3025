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

package wirespec

import (
	"github.com/bufwire/wirespec/internal/intcodec"
	"github.com/bufwire/wirespec/internal/specast"
)

// Endian selects byte order for a fixed-width integer field.
type Endian = intcodec.Endian

const (
	LittleEndian Endian = intcodec.LittleEndian
	BigEndian    Endian = intcodec.BigEndian
)

// Width is a convenience alias for the byte widths the grammar supports:
// 1 (byte), 2 (half), 3 (tri), 4 (int), 8 (quad).
type Width = int

const (
	WidthByte Width = 1
	WidthHalf Width = 2
	WidthTri  Width = 3
	WidthInt  Width = 4
	WidthQuad Width = 8
)

// Spec is an immutable parsing/encoding directive tree. Build one with the
// constructors below, or compile one from a spec-string with [Compile].
type Spec struct{ n *specast.Spec }

func wrap(n *specast.Spec) Spec { return Spec{n} }

// Equal reports whether two Specs are structurally identical.
func (s Spec) Equal(o Spec) bool { return specast.Equal(s.n, o.n) }

// String renders a debugging form of the tree.
func (s Spec) String() string { return s.n.String() }

// Skip builds a Spec that consumes and discards n bytes on parse, and
// emits n zero bytes on encode.
func Skip(n uint64) Spec { return wrap(specast.Skip(n)) }

// Stop builds a Spec that, once reached during a parse, immediately
// terminates that parse with a [Data] for which IsStop reports true —
// without consuming any bytes.
func Stop() Spec { return wrap(specast.StopNode()) }

// Integer builds a fixed-width integer field of the given width and byte
// order.
func Integer(width Width, endian Endian) Spec {
	return wrap(specast.Integer(intcodec.Spec{Width: width, Endian: endian}))
}

// Variable builds a fixed-width integer field whose decoded value, plus
// offset, is recorded under name for later Bytes/Until/Repeat/Switch
// fields to reference. offset lets a field declare, say, "the byte count
// still to come excludes this header" by writing a negative offset.
func Variable(width Width, endian Endian, name string, offset int64) Spec {
	return wrap(specast.Variable(intcodec.Spec{Width: width, Endian: endian}, name, offset))
}

// Bytes builds a raw byte payload bounded by the variable named name. An
// empty name consumes every byte available in the enclosing budget.
func Bytes(name string) Spec {
	return wrap(specast.Bytes(nameOrNil(name)))
}

// Seq builds an ordered composition of child specs.
func Seq(children ...Spec) Spec {
	ns := make([]*specast.Spec, len(children))
	for i, c := range children {
		ns[i] = c.n
	}
	return wrap(specast.Seq(ns...))
}

// Until builds a budget-bounded repetition: the variable named name (or,
// if name is empty, every byte remaining in the enclosing budget) selects
// how many bytes form a sub-stream, which inner is then parsed against
// repeatedly until that sub-stream is exhausted.
func Until(name string, inner Spec) Spec {
	return wrap(specast.Until(nameOrNil(name), inner.n))
}

// Repeat builds a count-bounded repetition: inner is parsed exactly
// vars[name] times.
func Repeat(name string, inner Spec) Spec {
	return wrap(specast.Repeat(name, inner.n))
}

// SwitchCase is one labeled arm of a [Switch].
type SwitchCase struct {
	Key  uint64
	Spec Spec
}

// Switch builds a dispatch on the variable named selector: the case whose
// Key matches the variable's value is parsed/encoded; if none match, def
// is used (pass [Stop]() for "terminate the parse on an unrecognized
// tag").
func Switch(selector string, cases []SwitchCase, def Spec) Spec {
	m := make(map[uint64]*specast.Spec, len(cases))
	order := make([]uint64, len(cases))
	for i, c := range cases {
		m[c.Key] = c.Spec.n
		order[i] = c.Key
	}
	return wrap(specast.Switch(selector, m, order, def.n))
}

func nameOrNil(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}
