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

package parseengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufwire/wirespec/internal/intcodec"
	"github.com/bufwire/wirespec/internal/parseengine"
	"github.com/bufwire/wirespec/internal/specast"
)

func TestIncompleteThenResumeAcrossChunks(t *testing.T) {
	t.Parallel()

	spec := specast.Integer(intcodec.Spec{Width: 4, Endian: intcodec.BigEndian})
	e := parseengine.New(spec, nil)

	e.Supply([]byte{0x01, 0x02})
	_, err := e.Next()
	var inc *parseengine.Incomplete
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, 2, inc.Need)

	// Bytes supplied after an Incomplete must be honored by a later Next
	// on the very same step, not just from a freshly Reset parse.
	e.Supply([]byte{0x03})
	_, err = e.Next()
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, 1, inc.Need)

	e.Supply([]byte{0x04})
	data, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "Integer(0x1020304)", data.String())
}

func TestResetRestoresSeededEnv(t *testing.T) {
	t.Parallel()

	name := "n"
	spec := specast.Bytes(&name)
	seed := parseengine.Env{"n": 3}

	e := parseengine.New(spec, seed)
	e.Supply([]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})

	first, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "Bytes(AA BB CC)", first.String())

	e.Reset(seed)
	second, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "Bytes(DD EE FF)", second.String())
}

func TestUntilSwallowsResidue(t *testing.T) {
	t.Parallel()

	// A 5-byte budget over a repeating 2-byte Integer: the trailing odd
	// byte is silently dropped rather than erroring or stalling.
	lenName := "n"
	spec := specast.Seq(
		specast.Variable(intcodec.Spec{Width: 1}, lenName, 0),
		specast.Until(&lenName, specast.Integer(intcodec.Spec{Width: 2, Endian: intcodec.BigEndian})),
	)
	e := parseengine.New(spec, nil)
	// budget = 5 bytes, but a width-2 Integer only divides it evenly down
	// to 4: the trailing byte inside the budget is residue, discarded
	// along with the rest of the budget once the sub-parse stalls on it.
	e.Supply([]byte{0x05, 0x00, 0x01, 0x00, 0x02, 0xFF, 0x00, 0x00})

	data, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "Seq[Integer(0x5), Seq[Integer(0x1), Integer(0x2)]]", data.String())
	assert.Equal(t, 2, e.Remaining().Len(), "bytes past the budget must be untouched, not folded into the swallowed residue")
	assert.Equal(t, []byte{0x00, 0x00}, e.Remaining().Bytes())
}

func TestSwitchUnmatchedStopDefaultCollapses(t *testing.T) {
	t.Parallel()

	selector := "tag"
	spec := specast.Seq(
		specast.Variable(intcodec.Spec{Width: 1}, selector, 0),
		specast.Switch(selector, map[uint64]*specast.Spec{
			1: specast.Integer(intcodec.Spec{Width: 1}),
		}, []uint64{1}, specast.StopNode()),
	)
	e := parseengine.New(spec, nil)
	e.Supply([]byte{0x09, 0xAA})

	data, err := e.Next()
	require.NoError(t, err)
	assert.True(t, data.IsStop())

	// Once stopped, Next must keep returning the same cached value until
	// Reset, regardless of what's queued.
	again, err := e.Next()
	require.NoError(t, err)
	assert.True(t, again.IsStop())
}

func TestSwitchMatchedCaseParsesNormally(t *testing.T) {
	t.Parallel()

	selector := "tag"
	spec := specast.Seq(
		specast.Variable(intcodec.Spec{Width: 1}, selector, 0),
		specast.Switch(selector, map[uint64]*specast.Spec{
			1: specast.Integer(intcodec.Spec{Width: 1}),
		}, []uint64{1}, specast.StopNode()),
	)
	e := parseengine.New(spec, nil)
	e.Supply([]byte{0x01, 0x7A})

	data, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "Seq[Integer(0x1), Integer(0x7A)]", data.String())
}

func TestUntilInheritsOuterVariableAcrossRepetitions(t *testing.T) {
	t.Parallel()

	// Equivalent to the spec-string "%B*(0$s)": an outer Variable bounds a
	// Bytes field referenced from inside an unbounded Until, so every
	// repetition's sub-parse must still see it, not just the first.
	name := "v0"
	spec := specast.Seq(
		specast.Variable(intcodec.Spec{Width: 1}, name, 0),
		specast.Until(nil, specast.Bytes(&name)),
	)
	e := parseengine.New(spec, nil)
	e.Supply([]byte{0x02, 0xAA, 0xBB, 0xCC, 0xDD})

	data, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "Seq[Integer(0x2), Seq[Bytes(AA BB), Bytes(CC DD)]]", data.String())
}

func TestParseAllStopsAtZeroProgress(t *testing.T) {
	t.Parallel()

	spec := specast.Skip(0)
	e := parseengine.New(spec, nil)
	e.Supply([]byte{1, 2, 3})

	got := parseengine.ParseAll(e, nil)
	require.Len(t, got, 1, "a zero-byte spec must not loop forever producing empty parses")
	assert.Equal(t, "Empty", got[0].String())
}
