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

package main

import (
	"fmt"
	"io"

	"github.com/bufwire/wirespec"
)

const (
	ansiDim    = "\x1b[2m"
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func printData(w io.Writer, d wirespec.Data, depth int, color bool) {
	indent := func() {
		for i := 0; i < depth; i++ {
			fmt.Fprint(w, "  ")
		}
	}

	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + ansiReset
	}

	indent()
	switch d.Kind() {
	case wirespec.KindEmpty:
		fmt.Fprintln(w, paint(ansiDim, "Empty"))
	case wirespec.KindStop:
		fmt.Fprintln(w, paint(ansiYellow, "Stop"))
	case wirespec.KindInteger:
		fmt.Fprintf(w, "%s 0x%x\n", paint(ansiCyan, "Integer"), d.Uint64())
	case wirespec.KindBytes:
		fmt.Fprintf(w, "%s (%d) % x\n", paint(ansiCyan, "Bytes"), len(d.Bytes()), d.Bytes())
	case wirespec.KindSeq:
		items := d.Items()
		fmt.Fprintf(w, "%s (%d)\n", paint(ansiYellow, "Seq"), len(items))
		for _, item := range items {
			printData(w, item, depth+1, color)
		}
	}
}
