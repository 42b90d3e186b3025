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

import "github.com/bufwire/wirespec/internal/specast"

// Auto tells [Encode] to compute and back-patch a Variable's real value
// — a length or a count — once the field it bounds has been fully
// encoded, instead of supplying the value yourself. A Switch selector is
// never resolved from Auto: a Switch dispatches on the value as given.
const Auto uint64 = specast.AUTO

// DataKind tags the variant of a [Data] node.
type DataKind int

const (
	KindEmpty DataKind = iota
	KindStop
	KindInteger
	KindBytes
	KindSeq
)

func (k DataKind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindStop:
		return "Stop"
	case KindInteger:
		return "Integer"
	case KindBytes:
		return "Bytes"
	case KindSeq:
		return "Seq"
	default:
		return "Kind(?)"
	}
}

// Data is a parsed-value tree: the output of [Parser.Next] and the input
// to [Encode].
type Data struct{ n *specast.Data }

func wrapData(n *specast.Data) Data { return Data{n} }

// Kind reports which variant of Data this is.
func (d Data) Kind() DataKind { return DataKind(d.n.Kind) }

// Equal reports whether two Data trees are structurally identical.
func (d Data) Equal(o Data) bool { return specast.DataEqual(d.n, o.n) }

// String renders a debugging form of the tree.
func (d Data) String() string { return d.n.String() }

// IsStop reports whether d is the terminal value produced when a parse
// reaches a [Stop] spec node.
func (d Data) IsStop() bool { return d.n.IsStop() }

// Uint builds an Integer Data node from an unsigned value.
func Uint(v uint64) Data { return wrapData(specast.Uint(v)) }

// Int builds an Integer Data node from a signed value via two's-complement
// bit reinterpretation.
func Int(v int64) Data { return wrapData(specast.Int(v)) }

// Bin builds a Bytes Data node.
func Bin(b []byte) Data { return wrapData(specast.Bin(b)) }

// Str builds a Bytes Data node from a UTF-8 string.
func Str(s string) Data { return wrapData(specast.Str(s)) }

// List builds a Seq Data node from its items.
func List(items ...Data) Data {
	ns := make([]*specast.Data, len(items))
	for i, it := range items {
		ns[i] = it.n
	}
	return wrapData(specast.List(ns...))
}

// Items returns the children of a Seq Data node, or nil for any other
// kind.
func (d Data) Items() []Data {
	if d.n == nil || len(d.n.Items) == 0 {
		return nil
	}
	out := make([]Data, len(d.n.Items))
	for i, it := range d.n.Items {
		out[i] = wrapData(it)
	}
	return out
}

// Uint64 returns the integer value of an Integer Data node.
func (d Data) Uint64() uint64 { return d.n.IntVal }

// Int64 returns the integer value of an Integer Data node, reinterpreted
// as signed two's-complement.
func (d Data) Int64() int64 { return int64(d.n.IntVal) }

// Bytes returns the payload of a Bytes Data node.
func (d Data) Bytes() []byte { return d.n.BytesVal }
