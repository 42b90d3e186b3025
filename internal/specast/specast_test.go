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

package specast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufwire/wirespec/internal/intcodec"
	"github.com/bufwire/wirespec/internal/specast"
)

func TestSpecStringPerKind(t *testing.T) {
	t.Parallel()

	n := "n"
	tests := []struct {
		name string
		spec *specast.Spec
		want string
	}{
		{"skip", specast.Skip(4), "Skip(4)"},
		{"stop", specast.StopNode(), "Stop"},
		{"integer", specast.Integer(intcodec.Spec{Width: 2, Endian: intcodec.BigEndian}), "Integer(2/big)"},
		{"variable", specast.Variable(intcodec.Spec{Width: 1}, "n", -3), `Variable(1/little, "n", -3)`},
		{"bytes named", specast.Bytes(&n), `Bytes("n")`},
		{"bytes unbounded", specast.Bytes(nil), "Bytes(*)"},
		{
			"seq",
			specast.Seq(specast.Skip(1), specast.StopNode()),
			"Seq[Skip(1), Stop]",
		},
		{
			"until named",
			specast.Until(&n, specast.Skip(1)),
			`Until("n", Skip(1))`,
		},
		{
			"until unbounded",
			specast.Until(nil, specast.Skip(1)),
			"Until(*, Skip(1))",
		},
		{
			"repeat",
			specast.Repeat("n", specast.Skip(1)),
			`Repeat("n", Skip(1))`,
		},
		{
			"switch",
			specast.Switch("n", map[uint64]*specast.Spec{1: specast.Skip(1)}, []uint64{1}, specast.StopNode()),
			`Switch("n", {1=Skip(1)}, *=Stop)`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.spec.String())
		})
	}
}

func TestSpecEqual(t *testing.T) {
	t.Parallel()

	n := "n"
	m := "n"
	a := specast.Seq(specast.Variable(intcodec.Spec{Width: 1}, "n", 0), specast.Bytes(&n))
	b := specast.Seq(specast.Variable(intcodec.Spec{Width: 1}, "n", 0), specast.Bytes(&m))
	assert.True(t, specast.Equal(a, b), "two structurally identical trees built from distinct *string pointers must compare equal")

	c := specast.Seq(specast.Variable(intcodec.Spec{Width: 2}, "n", 0), specast.Bytes(&n))
	assert.False(t, specast.Equal(a, c), "a differing Variable width must break equality")

	assert.False(t, specast.Equal(specast.Bytes(&n), specast.Bytes(nil)),
		"a named Bytes must not equal an unbounded one")
}

func TestSwitchEqualIgnoresCaseOrder(t *testing.T) {
	t.Parallel()

	a := specast.Switch("n", map[uint64]*specast.Spec{1: specast.Skip(1), 2: specast.Skip(2)}, []uint64{1, 2}, specast.StopNode())
	b := specast.Switch("n", map[uint64]*specast.Spec{2: specast.Skip(2), 1: specast.Skip(1)}, []uint64{2, 1}, specast.StopNode())
	assert.True(t, specast.Equal(a, b), "Equal compares the case set, not CaseOrder, which only affects String")
}
