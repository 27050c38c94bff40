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

//go:build !debug

// Package diag includes debugging and warning helpers for the codegen core.
package diag

// Enabled is false outside of a debug build.
const Enabled = false

// Log is a no-op outside of a debug build.
func Log([]any, string, string, ...any) {}

// Warn is a no-op outside of a debug build.
func Warn(any, string, ...any) {}

// Assert is a no-op outside of a debug build.
func Assert(bool, string, ...any) {}
