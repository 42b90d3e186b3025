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

package specast

import (
	"bytes"
	"fmt"
	"strings"
)

// DataKind tags the variant of a Data node.
type DataKind int

const (
	DataEmpty DataKind = iota
	DataStop
	DataInteger
	DataBytes
	DataSeq
)

// AUTO is the reserved integer sentinel that tells the encoder to compute
// and back-patch a Variable's real value once it is known. It is chosen
// high enough that it will never collide with a length or count that
// occurs in practice, while leaving 30 bits of headroom below it for
// arithmetic (offsets, fragment math) to never wrap into it by accident.
const AUTO uint64 = ^uint64(0x3fffffff)

// Data is a parsed-value tree: the output of the parser and the input to
// the encoder.
type Data struct {
	Kind DataKind

	IntVal uint64

	BytesVal []byte

	Items []*Data

	// DataStop
	StopSpec     *Spec
	StopSelector uint64
}

// Empty is the Data produced by Skip and by a zero-length Combine.
func Empty() *Data { return &Data{Kind: DataEmpty} }

// Stop builds the non-error terminal Data value produced when spec reduces
// to Stop during a parse.
func Stop(spec *Spec, selector uint64) *Data {
	return &Data{Kind: DataStop, StopSpec: spec, StopSelector: selector}
}

// Uint builds an Integer Data node from an unsigned value.
func Uint(v uint64) *Data { return &Data{Kind: DataInteger, IntVal: v} }

// Int builds an Integer Data node from a signed value via two's-complement
// bit reinterpretation; encoding/decoding never treats it as signed again.
func Int(v int64) *Data { return &Data{Kind: DataInteger, IntVal: uint64(v)} }

// Bin builds a Bytes Data node.
func Bin(b []byte) *Data { return &Data{Kind: DataBytes, BytesVal: b} }

// Str builds a Bytes Data node from a UTF-8 string.
func Str(s string) *Data { return &Data{Kind: DataBytes, BytesVal: []byte(s)} }

// List builds a Seq Data node.
func List(items ...*Data) *Data { return &Data{Kind: DataSeq, Items: items} }

// IsStop reports whether d is a Stop value.
func (d *Data) IsStop() bool { return d != nil && d.Kind == DataStop }

// DataEqual reports whether two Data trees are structurally identical.
func DataEqual(a, b *Data) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case DataEmpty:
		return true
	case DataStop:
		return a.StopSelector == b.StopSelector && Equal(a.StopSpec, b.StopSpec)
	case DataInteger:
		return a.IntVal == b.IntVal
	case DataBytes:
		return bytes.Equal(a.BytesVal, b.BytesVal)
	case DataSeq:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !DataEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a debugging form of the tree (e.g. Seq[Integer(0x12), ...]).
func (d *Data) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *Data) write(b *strings.Builder) {
	if d == nil {
		b.WriteString("<nil>")
		return
	}
	switch d.Kind {
	case DataEmpty:
		b.WriteString("Empty")
	case DataStop:
		fmt.Fprintf(b, "Stop(%s, %d)", d.StopSpec, d.StopSelector)
	case DataInteger:
		fmt.Fprintf(b, "Integer(0x%X)", d.IntVal)
	case DataBytes:
		fmt.Fprintf(b, "Bytes(% X)", d.BytesVal)
	case DataSeq:
		b.WriteString("Seq[")
		for i, item := range d.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteString("]")
	}
}
