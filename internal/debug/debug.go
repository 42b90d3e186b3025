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

// Package debug includes assertion and tracing helpers shared by the
// parser and encoder. Enabled is toggled at runtime from the
// WIRESPEC_DEBUG environment variable, checked once at init, rather than
// compiled out behind a build tag: this parser is not hot-loop enough to
// justify carrying two build configurations.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// Enabled is true when step-by-step parser/encoder tracing should run.
// Assert always panics regardless of Enabled; Enabled only gates Log.
var Enabled = os.Getenv("WIRESPEC_DEBUG") != ""

var logFilter *regexp.Regexp

func init() {
	if pattern := os.Getenv("WIRESPEC_DEBUG_FILTER"); pattern != "" {
		if re, err := regexp.Compile(pattern); err == nil {
			logFilter = re
		}
	}
}

// Log prints a trace line to stderr when Enabled, tagged with the calling
// package, file, line, and goroutine id so that interleaved traces from a
// connection pool of parsers stay untangled.
func Log(operation, format string, args ...any) {
	if !Enabled {
		return
	}

	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	pkg := fn.Name()
	if slash := strings.LastIndex(pkg, "/"); slash >= 0 {
		pkg = pkg[slash+1:]
	}
	if dot := strings.Index(pkg, "."); dot >= 0 {
		pkg = pkg[:dot]
	}

	buf := new(strings.Builder)
	fmt.Fprintf(buf, "%s/%s:%d [g%04d] %s: ", pkg, filepath.Base(file), line, routine.Goid(), operation)
	fmt.Fprintf(buf, format, args...)

	if logFilter != nil && !logFilter.MatchString(buf.String()) {
		return
	}

	buf.WriteByte('\n')
	_, _ = os.Stderr.WriteString(buf.String())
}

// Assert panics with a captured stack if cond is false. This is reserved
// for programmer-error contract violations: an undeclared variable
// reference, a Spec/Data shape mismatch at encode time, or a negative
// size. It is not a substitute for validating untrusted input bytes,
// which this package never does.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("wirespec: internal assertion failed: %s\n%s", fmt.Sprintf(format, args...), Stack(2)))
	}
}

// Stack is like [runtime/debug.Stack] but with a skip parameter and a
// terser, single-line-per-frame format geared at Assert panics rather
// than an unhandled-panic dump.
func Stack(skip int) string {
	var out strings.Builder

	trace := make([]uintptr, 32)
	for {
		n := runtime.Callers(skip+1, trace)
		if n < len(trace) {
			trace = trace[:n]
			break
		}
		trace = make([]uintptr, len(trace)*2)
	}

	frames := runtime.CallersFrames(trace)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&out, "  %s\n    %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return out.String()
}
