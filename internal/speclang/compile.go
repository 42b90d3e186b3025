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

package speclang

import "github.com/bufwire/wirespec/internal/specast"

// Compile tokenizes and builds s into a Spec tree. prefix is prepended to
// every auto-generated variable name, so that specs compiled for
// different purposes and later composed into one Seq do not collide.
func Compile(s string, prefix string) (*specast.Spec, error) {
	lexer := NewLexer(s)
	builder := NewBuilder(prefix)
	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEOF {
			break
		}
		if err := builder.Feed(tok); err != nil {
			return nil, err
		}
	}
	return builder.Finish()
}
