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

// Package corpus loads the YAML-described parse scenarios embedded
// alongside it and drives them against a compiled Spec, so the same
// fixtures run identically from *testing.T and *testing.B.
package corpus

import (
	"bytes"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bufwire/wirespec"
)

//go:embed *.yaml
var fixtures embed.FS

// Harness is a generalization of [testing.TB] that also exposes Run, so
// [RunAll] works identically from a *testing.T and a *testing.B.
type Harness[T any] interface {
	testing.TB
	Run(string, func(T)) bool
}

// Step is one Supply-then-Next round checked against a Case's Parser.
type Step struct {
	// Hex is decoded (whitespace stripped) and supplied in one call.
	// Mutually exclusive with Chunks.
	Hex string `yaml:"hex"`
	// Chunks, if set, are each supplied in a separate call, exercising
	// the parser's ability to resume across arbitrary chunk boundaries.
	Chunks []string `yaml:"chunks"`

	// Expect is the expected Data.String() rendering of a completed
	// parse. Ignored when Incomplete is set.
	Expect string `yaml:"expect"`
	// Incomplete, if nonzero, asserts Next returned *wirespec.Incomplete
	// with this many bytes needed, instead of completing.
	Incomplete int `yaml:"incomplete"`
	// Remaining, if set, is the hex of the bytes still queued after this
	// step's Next call.
	Remaining string `yaml:"remaining"`
}

// DataLit is a YAML-literal Data tree, used by "encode" mode Cases: a
// tagged union mirroring [wirespec.DataKind] closely enough to build any
// concrete [wirespec.Data] value a fixture needs.
type DataLit struct {
	Kind string `yaml:"kind"`
	// Value holds an "int" node's value: a decimal/0x literal, or the
	// literal string "auto" for wirespec.Auto.
	Value string `yaml:"value"`
	// Hex holds a "bytes" node's payload.
	Hex string `yaml:"hex"`
	// Items holds a "seq" node's children.
	Items []DataLit `yaml:"items"`
}

func (d *DataLit) build(t testing.TB) wirespec.Data {
	t.Helper()
	switch d.Kind {
	case "int":
		if d.Value == "auto" {
			return wirespec.Uint(wirespec.Auto)
		}
		v, err := strconv.ParseUint(d.Value, 0, 64)
		require.NoError(t, err, "parsing int literal %q", d.Value)
		return wirespec.Uint(v)
	case "bytes":
		return wirespec.Bin(decodeHex(t, d.Hex))
	case "seq":
		items := make([]wirespec.Data, len(d.Items))
		for i := range d.Items {
			items[i] = d.Items[i].build(t)
		}
		return wirespec.List(items...)
	default:
		t.Fatalf("corpus: unknown data literal kind %q", d.Kind)
		return wirespec.Data{}
	}
}

// Case is one named scenario. In its default Mode ("") it is a
// spec-string exercised against a sequence of Steps sharing a single
// Parser. Mode "parse_all" instead supplies Hex once and checks
// [wirespec.ParseAll] against ExpectAll. Mode "encode" builds Data from
// the Data literal and checks [wirespec.Encode] against ExpectHex.
type Case struct {
	Name string `yaml:"-"`

	Spec   string            `yaml:"spec"`
	Prefix string            `yaml:"prefix"`
	Env    map[string]uint64 `yaml:"env"`
	Mode   string            `yaml:"mode"`

	Steps []Step `yaml:"steps"`

	Hex       string   `yaml:"hex"`
	ExpectAll []string `yaml:"expect_all"`

	Data      *DataLit `yaml:"data"`
	ExpectHex string   `yaml:"expect_hex"`
}

// RunAll loads every embedded *.yaml fixture and invokes f with each as a
// subtest.
func RunAll[T Harness[T]](t T, f func(T, *Case)) {
	t.Helper()

	paths, err := fs.Glob(fixtures, "*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t T) {
			if tt, ok := any(t).(*testing.T); ok {
				tt.Parallel()
			}

			raw, err := fixtures.ReadFile(path)
			require.NoError(t, err, "loading fixture %q", path)

			c := parseCase(t, path, raw)
			f(t, c)
		})
	}
}

func parseCase(t testing.TB, path string, raw []byte) *Case {
	t.Helper()

	c := new(Case)
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	require.NoError(t, dec.Decode(c), "parsing fixture %q", path)

	c.Name = strings.TrimSuffix(filepath.Base(path), ".yaml")
	if c.Prefix == "" {
		c.Prefix = "v"
	}
	return c
}

// Run compiles the Case's spec-string and checks it per Mode: stepwise
// Parser.Next assertions (the default), a single ParseAll over one input
// (Mode "parse_all"), or an Encode assertion (Mode "encode").
func (c *Case) Run(t *testing.T) {
	t.Helper()

	spec, err := wirespec.Compile(c.Spec, c.Prefix)
	require.NoError(t, err, "compiling spec %q", c.Spec)

	switch c.Mode {
	case "encode":
		c.runEncode(t, spec)
	case "parse_all":
		c.runParseAll(t, spec)
	default:
		c.runSteps(t, spec)
	}
}

func (c *Case) runSteps(t *testing.T, spec wirespec.Spec) {
	var opts []wirespec.ParserOption
	if len(c.Env) > 0 {
		opts = append(opts, wirespec.WithEnv(wirespec.Env(c.Env)))
	}
	p := wirespec.NewParser(spec, opts...)

	for i, step := range c.Steps {
		step := step
		t.Run(fmt.Sprintf("step-%d", i), func(t *testing.T) {
			switch {
			case len(step.Chunks) > 0:
				for _, chunk := range step.Chunks {
					p.Supply(decodeHex(t, chunk))
				}
			case step.Hex != "":
				p.Supply(decodeHex(t, step.Hex))
			}

			data, err := p.Next()
			if step.Incomplete > 0 {
				var inc *wirespec.Incomplete
				require.ErrorAs(t, err, &inc)
				require.Equal(t, step.Incomplete, inc.Need)
				return
			}
			require.NoError(t, err)
			require.Equal(t, step.Expect, data.String())

			if step.Remaining != "" {
				require.Equal(t, decodeHex(t, step.Remaining), p.Remaining())
			}
		})
	}
}

func (c *Case) runParseAll(t *testing.T, spec wirespec.Spec) {
	var opts []wirespec.ParserOption
	if len(c.Env) > 0 {
		opts = append(opts, wirespec.WithEnv(wirespec.Env(c.Env)))
	}
	p := wirespec.NewParser(spec, opts...)
	p.Supply(decodeHex(t, c.Hex))

	results := wirespec.ParseAll(p)
	got := make([]string, len(results))
	for i, d := range results {
		got[i] = d.String()
	}
	require.Equal(t, c.ExpectAll, got)
}

func (c *Case) runEncode(t *testing.T, spec wirespec.Spec) {
	require.NotNil(t, c.Data, "encode case %q is missing a data literal", c.Name)
	data := c.Data.build(t)
	got := wirespec.Encode(spec, data)
	require.Equal(t, decodeHex(t, c.ExpectHex), got)
}

func decodeHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	require.NoError(t, err, "decoding hex %q", s)
	return b
}
