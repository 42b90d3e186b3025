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

package intcodec_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufwire/wirespec/internal/intcodec"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		width int
		value uint64
	}{
		{1, 0x7A},
		{2, 0x1234},
		{3, 0x00ABCDEF}, // only the low 24 bits of the value below survive
		{4, 0x12345678},
		{8, 0x123456789ABCDEF0},
	}

	for _, endian := range []intcodec.Endian{intcodec.LittleEndian, intcodec.BigEndian} {
		for _, tt := range tests {
			tt := tt
			endian := endian
			t.Run(fmt.Sprintf("%s/%d/%#x", endian, tt.width, tt.value), func(t *testing.T) {
				t.Parallel()
				spec := intcodec.Spec{Width: tt.width, Endian: endian}
				encoded := intcodec.Encode(tt.value, spec)
				assert.Len(t, encoded, tt.width)
				assert.Equal(t, tt.value, intcodec.Decode(encoded, spec))
			})
		}
	}
}

func TestEncodeTruncatesToWidth(t *testing.T) {
	t.Parallel()

	spec := intcodec.Spec{Width: 3, Endian: intcodec.BigEndian}
	got := intcodec.Encode(0xFF00ABCDEF, spec)
	assert.Equal(t, []byte{0xAB, 0xCD, 0xEF}, got)
}

func TestEndianness(t *testing.T) {
	t.Parallel()

	spec := intcodec.Spec{Width: 2, Endian: intcodec.BigEndian}
	assert.Equal(t, []byte{0x12, 0x34}, intcodec.Encode(0x1234, spec))

	spec.Endian = intcodec.LittleEndian
	assert.Equal(t, []byte{0x34, 0x12}, intcodec.Encode(0x1234, spec))
}

func TestEncodeIntoNoAlloc(t *testing.T) {
	t.Parallel()

	dst := make([]byte, 4)
	intcodec.EncodeInto(dst, 0x01020304, intcodec.Spec{Width: 4, Endian: intcodec.BigEndian})
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, dst)
}

func TestWidthOf(t *testing.T) {
	t.Parallel()

	cases := map[byte]int{'b': 1, 'B': 1, 'h': 2, 'H': 2, 't': 3, 'T': 3, 'i': 4, 'I': 4, 'q': 8, 'Q': 8}
	for letter, want := range cases {
		got, ok := intcodec.WidthOf(letter)
		assert.True(t, ok, "letter %q", letter)
		assert.Equal(t, want, got, "letter %q", letter)
	}

	_, ok := intcodec.WidthOf('z')
	assert.False(t, ok)
}
