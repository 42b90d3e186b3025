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

package debug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufwire/wirespec/internal/debug"
)

func TestAssertPassesSilently(t *testing.T) {
	assert.NotPanics(t, func() { debug.Assert(true, "unreachable: %d", 1) })
}

func TestAssertPanicsWithMessageAndStack(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Assert(false, ...) must panic")
		}
		msg := r.(error).Error()
		assert.Contains(t, msg, "wirespec: internal assertion failed")
		assert.Contains(t, msg, "bad variable \"x\"")
		assert.Contains(t, msg, "debug_test.go", "Stack should include this test's own frame")
	}()
	debug.Assert(false, "bad variable %q", "x")
}

func TestStackIncludesCaller(t *testing.T) {
	s := debug.Stack(0)
	assert.True(t, strings.Contains(s, "TestStackIncludesCaller"))
}

func TestLogGatedByEnabled(t *testing.T) {
	// Log must never panic regardless of Enabled, and this test does not
	// assert on stderr content since Enabled is process-global state
	// shared with every other test in the binary.
	original := debug.Enabled
	defer func() { debug.Enabled = original }()

	debug.Enabled = false
	assert.NotPanics(t, func() { debug.Log("test", "no-op") })

	debug.Enabled = true
	assert.NotPanics(t, func() { debug.Log("test", "value=%d", 42) })
}
