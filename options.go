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

type parserConfig struct {
	seed Env
}

// ParserOption is a configuration setting for [NewParser].
type ParserOption struct{ apply func(*parserConfig) }

// WithEnv seeds a Parser's variable environment with bindings known
// before any bytes arrive — useful when an outer protocol has already
// determined, say, a record's version or length out of band. The seed is
// restored on every [Parser.Reset], not just the first parse.
func WithEnv(env Env) ParserOption {
	return ParserOption{func(c *parserConfig) { c.seed = env }}
}
