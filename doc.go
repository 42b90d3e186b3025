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

// Package wirespec is a library for describing, parsing, and encoding
// length-prefixed and tag-dispatched binary wire formats through a compact
// declarative grammar.
//
// A [Spec] can be built programmatically with the constructors in this
// package, or compiled from a terse textual "spec-string" with [Compile].
// Either way, the resulting [Spec] can drive a [NewParser] (an incremental
// parser that accepts bytes as they arrive, never copies payloads, and
// reports how many more bytes it needs when it stalls) and an [Encode] call
// (which serializes a [Data] tree back to bytes, automatically filling in
// any length or count field declared by the spec).
//
// # Support status
//
// This package targets whole-byte, unsigned, fixed-width fields only. It does
// not implement:
//
//   - Schema evolution or self-describing tags.
//   - Floating point or signed-integer widening beyond bit reinterpretation.
//   - Bit-level (sub-byte) fields.
//   - Streaming encode of arbitrarily large outputs — [Encode] always
//     materializes the full buffer, since it may need to patch bytes that
//     were already emitted once a later field's length becomes known.
package wirespec
