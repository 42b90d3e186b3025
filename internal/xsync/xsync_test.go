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

package xsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufwire/wirespec/internal/xsync"
)

func TestMapLoadStore(t *testing.T) {
	t.Parallel()

	var m xsync.Map[string, int]

	_, ok := m.Load("a")
	assert.False(t, ok)

	m.Store("a", 1)
	v, ok := m.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	got, loaded := m.LoadOrStore("a", func() int { t.Fatal("make must not run for a key already present"); return 0 })
	assert.True(t, loaded)
	assert.Equal(t, 1, got)

	got, loaded = m.LoadOrStore("b", func() int { return 2 })
	assert.False(t, loaded)
	assert.Equal(t, 2, got)

	seen := map[string]int{}
	for k, v := range m.All() {
		seen[k] = v
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, seen)
}

func TestPoolGetPutResets(t *testing.T) {
	t.Parallel()

	p := xsync.Pool[[]int]{
		New:   func() []int { return make([]int, 0, 4) },
		Reset: func(s *[]int) { *s = (*s)[:0] },
	}

	got := p.Get()
	assert.Empty(t, got)

	got = append(got, 1, 2, 3)
	p.Put(got)

	again := p.Get()
	assert.Empty(t, again, "Reset must clear the slice before it's handed back out")
}
