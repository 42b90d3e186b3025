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
	"fmt"

	"github.com/bufwire/wirespec/internal/parseengine"
	"github.com/bufwire/wirespec/internal/speclang"
)

// Incomplete is the error [Parser.Next] and [Parse] return when a parse
// stalled for lack of bytes. It is never returned for malformed bytes —
// only for a correctly-shaped prefix that simply hasn't fully arrived
// yet.
type Incomplete = parseengine.Incomplete

// CompileError is returned by [Compile] for any syntactic problem in a
// spec-string: unbalanced "(...)"/"{...}", a dangling '%' or '$', a
// duplicate switch case, or a reference to an out-of-range override
// index.
type CompileError = speclang.CompileError

// ErrTrailingBytes is returned by [Parse] when the supplied buffer parses
// successfully but has bytes left over afterward.
type ErrTrailingBytes struct {
	N int // number of unconsumed bytes
}

func (e *ErrTrailingBytes) Error() string {
	return fmt.Sprintf("wirespec: %d trailing byte(s) after a complete parse", e.N)
}
