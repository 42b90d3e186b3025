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

import (
	"github.com/bufwire/wirespec/internal/speclang"
	"github.com/bufwire/wirespec/internal/xsync"
)

type compileCacheEntry struct {
	spec Spec
	err  error
}

var compileCache xsync.Map[string, compileCacheEntry]

// CompileCached is [Compile] memoized on the exact pair (specString,
// prefix), safe to call from many goroutines at once. It exists for
// servers that repeatedly compile the same small set of named wire
// formats — once per accepted connection, say — where recompiling the
// same spec-string on every call would be wasted work.
//
// The cache is unbounded and process-global: only use it for a fixed,
// bounded set of spec-strings known at startup, not for strings derived
// from untrusted input.
func CompileCached(specString, prefix string) (Spec, error) {
	key := prefix + "\x00" + specString
	if e, ok := compileCache.Load(key); ok {
		return e.spec, e.err
	}
	spec, err := Compile(specString, prefix)
	e, _ := compileCache.LoadOrStore(key, func() compileCacheEntry {
		return compileCacheEntry{spec: spec, err: err}
	})
	return e.spec, e.err
}

// Compile parses a spec-string into a [Spec] tree. See the package doc
// comment and the spec-string grammar reference for the textual grammar:
// endianness markers '<'/'>', width letters b/h/t/i/q, 'x' for Skip,
// 's' for Bytes, '%' for Variable with an optional signed '+n'/'-n'
// offset, "(...)" for Until, "{...}" for Switch, '*' for "unbounded"
// (Bytes/Until) or "default" (inside a Switch), and "N$" to bind a
// Bytes/Until/Switch to the N-th auto-generated variable instead of the
// next one in sequence.
//
// Every compiled spec-string gets its own namespace of auto-generated
// variable names, distinguished by prefix, so that specs compiled
// separately and later composed with [Seq] never collide.
func Compile(specString, prefix string) (Spec, error) {
	n, err := speclang.Compile(specString, prefix)
	if err != nil {
		return Spec{}, err
	}
	return wrap(n), nil
}
