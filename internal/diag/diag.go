// Copyright 2025 The ffigen Authors.
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

//go:build debug

// Package diag includes debugging and warning helpers for the codegen core.
//
// Every function here is zero-cost in a production build: this file is only
// compiled in when the "debug" build tag is set, and diag_release.go supplies
// no-op stand-ins otherwise.
package diag

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// Enabled is true if the core is being built with the debug tag.
const Enabled = true

var (
	pattern   *regexp.Regexp
	nocapture = flag.Bool("ffigen.nocapture", false, "no effect: debug logs always go to stderr")
)

func init() {
	flag.Func("ffigen.filter", "regexp to filter debug logs by", func(s string) (err error) {
		pattern, err = regexp.Compile(s)
		return err
	})
}

// Log prints debugging information about a codegen decision to stderr.
//
// context is optional args for fmt.Printf that are printed before operation,
// identifying the item being emitted.
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)

	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") || strings.Contains(name, "Warn") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "bindgen.dev/go/ffigen/internal/")
	if idx := strings.Index(pkg, "."); idx >= 0 {
		pkg = pkg[:idx]
	}

	file = filepath.Base(file)

	buf := new(strings.Builder)
	_, _ = fmt.Fprintf(buf, "%s/%s:%d [g%04d", pkg, file, line, routine.Goid())
	if len(context) >= 1 {
		_, _ = fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...) //nolint:govet
	}
	_, _ = fmt.Fprintf(buf, "] %s: ", operation)
	_, _ = fmt.Fprintf(buf, format, args...)

	if pattern != nil && !pattern.MatchString(buf.String()) {
		return
	}

	_, _ = buf.Write([]byte{'\n'})
	if !*nocapture {
		_, _ = os.Stderr.WriteString(buf.String())
		return
	}
	_, _ = os.Stderr.WriteString(buf.String())
}

// Warn logs a non-fatal diagnostic from the §7 warning taxonomy: unknown
// attribute, guessed enum repr, oversized bitfield unit, opaque type without
// layout. In a release build this is a no-op.
func Warn(item any, format string, args ...any) {
	Log([]any{"item: %v", item}, "warn", format, args...)
}

// Assert panics if cond is false, but only in debug mode.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("ffigen: internal assertion failed: "+format, args...))
	}
}
