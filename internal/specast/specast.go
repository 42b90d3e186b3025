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

// Package specast holds the Spec and Data algebraic trees shared by the
// spec-string compiler, the parser, and the encoder. It is a leaf package:
// it imports nothing else in this module, so that all three of those can
// depend on it without creating an import cycle with the root package,
// which re-exports these types under friendlier names.
package specast

import (
	"fmt"
	"strings"

	"github.com/bufwire/wirespec/internal/intcodec"
)

// Kind tags the variant of a Spec node.
type Kind int

const (
	KindSkip Kind = iota
	KindStop
	KindInteger
	KindVariable
	KindBytes
	KindSeq
	KindUntil
	KindRepeat
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "Skip"
	case KindStop:
		return "Stop"
	case KindInteger:
		return "Integer"
	case KindVariable:
		return "Variable"
	case KindBytes:
		return "Bytes"
	case KindSeq:
		return "Seq"
	case KindUntil:
		return "Until"
	case KindRepeat:
		return "Repeat"
	case KindSwitch:
		return "Switch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec is a node in the parsing-directive tree: an immutable, recursive,
// algebraic sum type. Only the fields relevant to Kind are populated; the
// rest are zero.
type Spec struct {
	Kind Kind

	// KindSkip
	SkipLen uint64

	// KindInteger, KindVariable
	Int intcodec.Spec

	// KindVariable
	VarName   string
	VarOffset int64

	// KindBytes, KindUntil: nil means "unbounded" (consumes the rest of
	// the current budget).
	Name *string

	// KindSeq
	Children []*Spec

	// KindUntil, KindRepeat
	Inner *Spec

	// KindRepeat
	RepeatName string

	// KindSwitch
	Selector  string
	Cases     map[uint64]*Spec
	CaseOrder []uint64 // deterministic iteration order for String; Equal ignores it
	Default   *Spec
}

// Skip builds a Spec that consumes and discards n bytes (emitting n zero
// bytes on encode).
func Skip(n uint64) *Spec { return &Spec{Kind: KindSkip, SkipLen: n} }

// StopNode is the parse-time termination sentinel. It is a function, not a
// package-level value, because every reference site
// in this codebase wants its own *Spec identity for clearer diagnostics;
// Equal still treats all Stop nodes as interchangeable.
func StopNode() *Spec { return &Spec{Kind: KindStop} }

// Integer builds a fixed-width integer field.
func Integer(spec intcodec.Spec) *Spec { return &Spec{Kind: KindInteger, Int: spec} }

// Variable builds a fixed-width integer field whose decoded value (plus
// offset) is recorded in the parse environment under name.
func Variable(spec intcodec.Spec, name string, offset int64) *Spec {
	return &Spec{Kind: KindVariable, Int: spec, VarName: name, VarOffset: offset}
}

// Bytes builds a raw byte payload. A nil name means the payload consumes
// every byte available in the current budget.
func Bytes(name *string) *Spec { return &Spec{Kind: KindBytes, Name: name} }

// Seq builds an ordered composition of child specs.
func Seq(children ...*Spec) *Spec { return &Spec{Kind: KindSeq, Children: children} }

// Until builds a budget-bounded repetition: name (or, if nil, "everything
// remaining") selects how many bytes form the sub-stream; inner is parsed
// against that sub-stream as many complete times as fit.
func Until(name *string, inner *Spec) *Spec {
	return &Spec{Kind: KindUntil, Name: name, Inner: inner}
}

// Repeat builds a count-bounded repetition: inner is parsed exactly
// vars[name] times.
func Repeat(name string, inner *Spec) *Spec {
	return &Spec{Kind: KindRepeat, RepeatName: name, Inner: inner}
}

// Switch builds a dispatch on vars[selector]. order fixes the iteration
// order used by String; it must list exactly the keys present in cases.
func Switch(selector string, cases map[uint64]*Spec, order []uint64, def *Spec) *Spec {
	return &Spec{Kind: KindSwitch, Selector: selector, Cases: cases, CaseOrder: order, Default: def}
}

// Combine implements the compiler's "combine" rule: an empty list becomes
// a no-op Skip(0), a singleton list is returned unwrapped, and anything
// else becomes a Seq.
func Combine(specs []*Spec) *Spec {
	switch len(specs) {
	case 0:
		return Skip(0)
	case 1:
		return specs[0]
	default:
		return Seq(specs...)
	}
}

// Equal reports whether two Spec trees are structurally identical.
func Equal(a, b *Spec) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindSkip:
		return a.SkipLen == b.SkipLen
	case KindStop:
		return true
	case KindInteger:
		return a.Int == b.Int
	case KindVariable:
		return a.Int == b.Int && a.VarName == b.VarName && a.VarOffset == b.VarOffset
	case KindBytes:
		return equalName(a.Name, b.Name)
	case KindSeq:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case KindUntil:
		return equalName(a.Name, b.Name) && Equal(a.Inner, b.Inner)
	case KindRepeat:
		return a.RepeatName == b.RepeatName && Equal(a.Inner, b.Inner)
	case KindSwitch:
		if a.Selector != b.Selector || len(a.Cases) != len(b.Cases) {
			return false
		}
		for k, v := range a.Cases {
			bv, ok := b.Cases[k]
			if !ok || !Equal(v, bv) {
				return false
			}
		}
		return Equal(a.Default, b.Default)
	default:
		return false
	}
}

func equalName(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// String renders a debugging form of the tree. It is not guaranteed to
// round-trip through the spec-string compiler byte-for-byte; it exists so
// that tests and panics have something readable to print.
func (s *Spec) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Spec) write(b *strings.Builder) {
	if s == nil {
		b.WriteString("<nil>")
		return
	}
	switch s.Kind {
	case KindSkip:
		fmt.Fprintf(b, "Skip(%d)", s.SkipLen)
	case KindStop:
		b.WriteString("Stop")
	case KindInteger:
		fmt.Fprintf(b, "Integer(%s)", s.Int)
	case KindVariable:
		fmt.Fprintf(b, "Variable(%s, %q, %+d)", s.Int, s.VarName, s.VarOffset)
	case KindBytes:
		if s.Name == nil {
			b.WriteString("Bytes(*)")
		} else {
			fmt.Fprintf(b, "Bytes(%q)", *s.Name)
		}
	case KindSeq:
		b.WriteString("Seq[")
		for i, c := range s.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b)
		}
		b.WriteString("]")
	case KindUntil:
		b.WriteString("Until(")
		if s.Name == nil {
			b.WriteString("*")
		} else {
			fmt.Fprintf(b, "%q", *s.Name)
		}
		b.WriteString(", ")
		s.Inner.write(b)
		b.WriteString(")")
	case KindRepeat:
		fmt.Fprintf(b, "Repeat(%q, ", s.RepeatName)
		s.Inner.write(b)
		b.WriteString(")")
	case KindSwitch:
		fmt.Fprintf(b, "Switch(%q, {", s.Selector)
		for i, k := range s.CaseOrder {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%d=", k)
			s.Cases[k].write(b)
		}
		b.WriteString("}, *=")
		s.Default.write(b)
		b.WriteString(")")
	}
}
