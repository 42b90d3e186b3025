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

// wiredump compiles a spec-string and parses stdin against it, printing
// the resulting Data tree.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bufwire/wirespec"
)

var (
	specString = flag.String("spec", "", "the spec-string to parse input against (required)")
	asHex      = flag.Bool("hex", false, "treat stdin as hex text rather than raw binary")
	color      = flag.String("color", "auto", "colorize output: auto, always, or never")
)

func readInput() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if !*asHex {
		return data, nil
	}
	fields := strings.Fields(string(data))
	decoded, err := hex.DecodeString(strings.Join(fields, ""))
	if err != nil {
		return nil, fmt.Errorf("decoding hex input: %w", err)
	}
	return decoded, nil
}

func useColor() bool {
	switch *color {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func run() error {
	flag.Parse()
	if *specString == "" {
		return fmt.Errorf("-spec is required")
	}

	spec, err := wirespec.Compile(*specString, "v")
	if err != nil {
		return fmt.Errorf("compiling spec: %w", err)
	}

	input, err := readInput()
	if err != nil {
		return err
	}

	p := wirespec.NewParser(spec)
	p.Supply(input)
	data, err := p.Next()
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	printData(os.Stdout, data, 0, useColor())
	if remaining := p.Remaining(); len(remaining) > 0 {
		fmt.Fprintf(os.Stderr, "wiredump: %d trailing byte(s) not consumed\n", len(remaining))
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "wiredump:", err)
		os.Exit(1)
	}
}
