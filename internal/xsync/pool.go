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

package xsync

import "sync"

// Pool is a strongly-typed wrapper over sync.Pool: a free list of scratch
// values — here, parser execution stacks — that would otherwise be
// allocated and discarded on every nested parse.
type Pool[T any] struct {
	impl sync.Pool
	// New constructs a fresh value when the pool is empty.
	New func() T
	// Reset is called on a value before it is handed out again. It may
	// be nil if T needs no reset.
	Reset func(*T)
}

// Get returns a pooled value, constructing one with New if the pool is
// empty.
func (p *Pool[T]) Get() T {
	if v, ok := p.impl.Get().(*T); ok {
		if p.Reset != nil {
			p.Reset(v)
		}
		return *v
	}
	return p.New()
}

// Put returns v to the pool for reuse.
func (p *Pool[T]) Put(v T) {
	p.impl.Put(&v)
}
