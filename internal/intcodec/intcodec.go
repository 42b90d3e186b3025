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

// Package intcodec encodes and decodes fixed-width unsigned integers. It
// has no state and no dependency on anything else in this module.
package intcodec

import "fmt"

// Endian selects byte order. Endianness is irrelevant for Width1.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// Spec pairs a byte width with a byte order. Width must be one of
// 1, 2, 3, 4, 8; width 3 is the "triple octet" width used by some framing
// formats (packet length fields, RTP-style lengths, etc.) and uses the low
// 24 bits on encode.
type Spec struct {
	Width  int
	Endian Endian
}

func (s Spec) String() string {
	return fmt.Sprintf("%d/%s", s.Width, s.Endian)
}

// Decode reads spec.Width bytes from the front of b and interprets them
// per spec.Endian, zero-extending the result to 64 bits. b must have at
// least spec.Width bytes.
func Decode(b []byte, spec Spec) uint64 {
	var v uint64
	if spec.Endian == BigEndian {
		for i := 0; i < spec.Width; i++ {
			v = v<<8 | uint64(b[i])
		}
		return v
	}
	for i := spec.Width - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Encode returns the spec.Width-byte encoding of value per spec.Endian.
// value is reinterpreted by plain truncation; a 3-byte width keeps only
// the low 24 bits, and there is no overflow error.
func Encode(value uint64, spec Spec) []byte {
	out := make([]byte, spec.Width)
	EncodeInto(out, value, spec)
	return out
}

// EncodeInto writes the spec.Width-byte encoding of value into the front
// of dst, which must have at least spec.Width bytes. It is the back-patch
// path used by the encoder: it never allocates.
func EncodeInto(dst []byte, value uint64, spec Spec) {
	if spec.Endian == BigEndian {
		for i := spec.Width - 1; i >= 0; i-- {
			dst[i] = byte(value)
			value >>= 8
		}
		return
	}
	for i := 0; i < spec.Width; i++ {
		dst[i] = byte(value)
		value >>= 8
	}
}

// WidthOf maps the spec-string integer-type letters to their byte widths.
func WidthOf(letter byte) (int, bool) {
	switch letter {
	case 'b', 'B':
		return 1, true
	case 'h', 'H':
		return 2, true
	case 't', 'T':
		return 3, true
	case 'i', 'I':
		return 4, true
	case 'q', 'Q':
		return 8, true
	default:
		return 0, false
	}
}
