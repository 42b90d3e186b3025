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

import "github.com/bufwire/wirespec/internal/parseengine"

// Env seeds a Parser's variable environment with bindings known before any
// bytes arrive — useful when an outer protocol has already determined,
// say, a record's version or length out of band.
type Env map[string]uint64

func (e Env) toInternal() parseengine.Env {
	if e == nil {
		return nil
	}
	out := make(parseengine.Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Parser drives a Spec against bytes supplied incrementally with Supply.
// It is not safe for concurrent use.
type Parser struct {
	e    *parseengine.Engine
	seed Env
}

// NewParser returns a Parser ready to parse against spec, configured by
// opts (see [WithEnv]).
func NewParser(spec Spec, opts ...ParserOption) *Parser {
	var cfg parserConfig
	for _, o := range opts {
		o.apply(&cfg)
	}
	return &Parser{e: parseengine.New(spec.n, cfg.seed.toInternal()), seed: cfg.seed}
}

// Supply appends chunk to the parser's input queue. It never blocks, never
// copies chunk, and never fails.
func (p *Parser) Supply(chunk []byte) { p.e.Supply(chunk) }

// Next attempts one full parse of the spec given to NewParser, starting
// wherever the input queue currently stands. It returns the completed
// [Data] tree, or a non-nil error — always an [*Incomplete] — if more
// bytes are needed before this parse can finish.
//
// Once a [Data] for which IsStop reports true has surfaced, every
// subsequent call returns that same value until [Parser.Reset].
func (p *Parser) Next() (Data, error) {
	d, err := p.e.Next()
	if err != nil {
		return Data{}, err
	}
	return wrapData(d), nil
}

// Reset re-initializes the parser to parse the spec again from scratch,
// restoring the environment to the seed given to NewParser. Any bytes
// already supplied but not yet consumed remain queued.
func (p *Parser) Reset() { p.e.Reset(p.seed.toInternal()) }

// Remaining returns the bytes supplied but not yet consumed.
func (p *Parser) Remaining() []byte { return p.e.Remaining().Bytes() }

// ParseAll repeatedly calls Next then Reset until a parse reports
// [*Incomplete], a round consumes no bytes, or a Stop value surfaces —
// which is not included in the result. It is a convenience for framed
// protocols where the same spec decodes one message after another from a
// single byte stream.
func ParseAll(p *Parser) []Data {
	raw := parseengine.ParseAll(p.e, p.seed.toInternal())
	out := make([]Data, len(raw))
	for i, d := range raw {
		out[i] = wrapData(d)
	}
	return out
}

// Parse is a one-shot convenience over NewParser/Supply/Next for a
// complete, already-buffered message. It returns an error if buf does not
// contain a complete parse of spec — either an [*Incomplete], or
// [ErrTrailingBytes] if buf has unconsumed bytes left over.
func Parse(spec Spec, buf []byte) (Data, error) {
	p := NewParser(spec)
	p.Supply(buf)
	d, err := p.Next()
	if err != nil {
		return Data{}, err
	}
	if n := len(p.Remaining()); n > 0 {
		return Data{}, &ErrTrailingBytes{N: n}
	}
	return d, nil
}
