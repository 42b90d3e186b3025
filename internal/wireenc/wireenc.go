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

// Package wireenc walks a (Spec, Data) pair in lockstep and emits bytes,
// back-patching any auto-sized length or count field once the bytes it
// describes are known.
//
// Every location a Variable ever writes to lives in one single,
// ever-growing output buffer — even the bytes produced by a nested
// Until's repetitions — rather than in a disposable per-Until scratch
// buffer. That is what lets a variableInfo's recorded byte offset stay
// valid no matter how deeply nested the field that references it turns
// out to be: the offset is always absolute within the one buffer this
// encode call is building.
package wireenc

import (
	"github.com/bufwire/wirespec/internal/debug"
	"github.com/bufwire/wirespec/internal/intcodec"
	"github.com/bufwire/wirespec/internal/specast"
)

type variableInfo struct {
	location int
	spec     intcodec.Spec
	offset   int64
	value    uint64 // AUTO until resolved by the field that bounds it
}

type encoder struct {
	vars map[string]*variableInfo
}

// Encode serializes data against spec, back-patching any Variable whose
// Data value is specast.AUTO once the length or count it bounds is known.
//
// Encode panics on a Spec/Data contract violation — mismatched shapes,
// wrong Seq lengths, a fixed Bytes/Repeat length that disagrees with the
// payload, or a reference to an undeclared variable — since these reflect
// a bug in the caller's Spec or Data tree, not malformed input bytes.
func Encode(spec *specast.Spec, data *specast.Data) []byte {
	enc := &encoder{vars: map[string]*variableInfo{}}
	return enc.encode(nil, spec, data)
}

func (enc *encoder) encode(buf []byte, spec *specast.Spec, data *specast.Data) []byte {
	switch spec.Kind {
	case specast.KindSkip:
		debug.Assert(data.Kind == specast.DataEmpty, "Skip expects Empty data, got %s", data)
		return append(buf, make([]byte, spec.SkipLen)...)

	case specast.KindStop:
		debug.Assert(false, "cannot encode a Stop spec node")
		return buf

	case specast.KindInteger:
		debug.Assert(data.Kind == specast.DataInteger, "Integer expects Integer data, got %s", data)
		return append(buf, intcodec.Encode(data.IntVal, spec.Int)...)

	case specast.KindVariable:
		debug.Assert(data.Kind == specast.DataInteger, "Variable expects Integer data, got %s", data)
		info := &variableInfo{
			location: len(buf),
			spec:     spec.Int,
			offset:   spec.VarOffset,
			value:    data.IntVal,
		}
		enc.vars[spec.VarName] = info
		return append(buf, intcodec.Encode(info.adjusted(), spec.Int)...)

	case specast.KindBytes:
		debug.Assert(data.Kind == specast.DataBytes, "Bytes expects Bytes data, got %s", data)
		if spec.Name != nil {
			info := enc.lookup(*spec.Name)
			n := uint64(len(data.BytesVal))
			if info.value == specast.AUTO {
				info.value = n
				enc.patch(buf, info)
			} else {
				debug.Assert(info.value == n,
					"Bytes length %d does not match declared length of variable %q (%d)", n, *spec.Name, info.value)
			}
		}
		return append(buf, data.BytesVal...)

	case specast.KindSeq:
		debug.Assert(data.Kind == specast.DataSeq, "Seq expects Seq data, got %s", data)
		debug.Assert(len(spec.Children) == len(data.Items),
			"Seq length mismatch: spec has %d children, data has %d items", len(spec.Children), len(data.Items))
		for i, child := range spec.Children {
			buf = enc.encode(buf, child, data.Items[i])
		}
		return buf

	case specast.KindUntil:
		debug.Assert(data.Kind == specast.DataSeq, "Until expects Seq data, got %s", data)
		start := len(buf)
		for _, item := range data.Items {
			buf = enc.encode(buf, spec.Inner, item)
		}
		if spec.Name != nil {
			info := enc.lookup(*spec.Name)
			length := uint64(len(buf) - start)
			switch {
			case info.value == specast.AUTO:
				info.value = length
				enc.patch(buf, info)
			case info.value < length:
				buf = buf[:start+int(info.value)]
			case info.value > length:
				buf = append(buf, make([]byte, info.value-length)...)
			}
		}
		return buf

	case specast.KindRepeat:
		debug.Assert(data.Kind == specast.DataSeq, "Repeat expects Seq data, got %s", data)
		info := enc.lookup(spec.RepeatName)
		n := uint64(len(data.Items))
		if info.value == specast.AUTO {
			info.value = n
			enc.patch(buf, info)
		} else {
			debug.Assert(info.value == n,
				"Repeat count %d does not match declared count of variable %q (%d)", n, spec.RepeatName, info.value)
		}
		for _, item := range data.Items {
			buf = enc.encode(buf, spec.Inner, item)
		}
		return buf

	case specast.KindSwitch:
		info := enc.lookup(spec.Selector)
		chosen, ok := spec.Cases[info.value]
		if !ok {
			chosen = spec.Default
		}
		return enc.encode(buf, chosen, data)
	}

	debug.Assert(false, "unreachable spec kind %d", spec.Kind)
	return buf
}

func (enc *encoder) lookup(name string) *variableInfo {
	info, ok := enc.vars[name]
	debug.Assert(ok, "reference to undeclared variable %q", name)
	return info
}

// patch re-encodes info's adjusted value into the width bytes it
// reserved at info.location, which is always an offset into buf as it
// stands right now — not into any disposable intermediate buffer.
func (enc *encoder) patch(buf []byte, info *variableInfo) {
	intcodec.EncodeInto(buf[info.location:info.location+info.spec.Width], info.adjusted(), info.spec)
}

// adjusted computes value - offset with 64-bit wraparound, inverting the
// parser's "decoded + offset" so that the caller's offset convention
// round-trips.
func (info *variableInfo) adjusted() uint64 {
	return info.value - uint64(info.offset)
}
