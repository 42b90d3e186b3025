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

package wirespec_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufwire/wirespec"
	"github.com/bufwire/wirespec/internal/corpus"
)

// TestCorpus drives every YAML fixture under internal/corpus through the
// root package's public API — this is how the worked scenarios in the
// spec-string grammar reference are checked.
func TestCorpus(t *testing.T) {
	t.Parallel()
	corpus.RunAll(t, func(t *testing.T, c *corpus.Case) { c.Run(t) })
}

func TestParseOneShot(t *testing.T) {
	t.Parallel()

	spec, err := wirespec.Compile(">BH", "v")
	require.NoError(t, err)

	data, err := wirespec.Parse(spec, []byte{0x7A, 0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "Seq[Integer(0x7A), Integer(0x102)]", data.String())

	_, err = wirespec.Parse(spec, []byte{0x7A, 0x01, 0x02, 0xFF})
	var trailing *wirespec.ErrTrailingBytes
	require.ErrorAs(t, err, &trailing)
	assert.Equal(t, 1, trailing.N)

	_, err = wirespec.Parse(spec, []byte{0x7A, 0x01})
	var inc *wirespec.Incomplete
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, 1, inc.Need)
}

func TestParserResetContinuesWithQueuedBytes(t *testing.T) {
	t.Parallel()

	spec, err := wirespec.Compile(">B", "v")
	require.NoError(t, err)

	p := wirespec.NewParser(spec)
	p.Supply([]byte{0x01, 0x02, 0x03})

	first, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "Integer(0x1)", first.String())

	p.Reset()
	second, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "Integer(0x2)", second.String())
	assert.Equal(t, []byte{0x03}, p.Remaining())
}

func TestParseAllDirect(t *testing.T) {
	t.Parallel()

	spec, err := wirespec.Compile(">B", "v")
	require.NoError(t, err)

	p := wirespec.NewParser(spec)
	p.Supply([]byte{0x01, 0x02, 0x03})

	got := wirespec.ParseAll(p)
	require.Len(t, got, 3)
	assert.Equal(t, "Integer(0x1)", got[0].String())
	assert.Equal(t, "Integer(0x3)", got[2].String())
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	cases := []string{
		">B(I",     // unbalanced '('
		">%",       // dangling variable
		">%B{0=B}}", // unbalanced '}'
	}
	for _, s := range cases {
		_, err := wirespec.Compile(s, "v")
		var ce *wirespec.CompileError
		assert.True(t, errors.As(err, &ce), "Compile(%q): expected a CompileError, got %v", s, err)
	}
}

func TestCompileCachedReusesResult(t *testing.T) {
	t.Parallel()

	a, err := wirespec.CompileCached(">BH", "cached")
	require.NoError(t, err)
	b, err := wirespec.CompileCached(">BH", "cached")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestEncodeThenParse(t *testing.T) {
	t.Parallel()

	spec, err := wirespec.Compile("<%Is", "v")
	require.NoError(t, err)

	data := wirespec.List(wirespec.Uint(wirespec.Auto), wirespec.Bin([]byte{0x01, 0x02, 0x03}))
	wire := wirespec.Encode(spec, data)

	got, err := wirespec.Parse(spec, wire)
	require.NoError(t, err)
	assert.Equal(t, "Seq[Integer(0x3), Bytes(01 02 03)]", got.String())
}
