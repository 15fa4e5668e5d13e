//go:build windows
// +build windows

/*
 * Copyright 2024-2025 by the Warden authors
 * https://github.com/kradscan/warden
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package yara wraps hillu/go-yara/v4 to optionally scan a target
// process' module image for known cheat signatures. This is pure
// addition: the original left a "past_processes" future-detections
// TODO that never got implemented, and spec.md's Non-goals don't
// exclude signature scanning.
package yara

import (
	"fmt"
	"os"

	yr "github.com/hillu/go-yara/v4"
	log "github.com/sirupsen/logrus"

	"github.com/kradscan/warden/pkg/process"
)

const scanChunkSize = 1 << 20 // 1 MiB

// Scanner holds a compiled rule set loaded once per scan.
type Scanner struct {
	rules *yr.Rules
}

// Load compiles the rule file at path. Returns an error if the file
// can't be opened or compilation fails. An empty path returns
// (nil, nil), the caller's signal to skip YARA scanning entirely.
func Load(path string) (*Scanner, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rule file %s: %w", path, err)
	}
	defer f.Close()

	compiler, err := yr.NewCompiler()
	if err != nil {
		return nil, fmt.Errorf("creating yara compiler: %w", err)
	}
	if err := compiler.AddRuleFile(f, ""); err != nil {
		return nil, fmt.Errorf("compiling rule file %s: %w", path, err)
	}
	rules, err := compiler.GetRules()
	if err != nil {
		return nil, fmt.Errorf("getting compiled rules: %w", err)
	}
	return &Scanner{rules: rules}, nil
}

// ScanBytes scans a single in-memory chunk and returns the matched
// rule identifiers.
func (s *Scanner) ScanBytes(chunk []byte) []string {
	if s == nil || s.rules == nil {
		return nil
	}
	var matches yr.MatchRules
	if err := s.rules.ScanMem(chunk, 0, 0, &matches); err != nil {
		log.WithError(err).Debug("yara scan of memory chunk failed")
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Rule)
	}
	return names
}

// ScanModule reads proc's module image in bounded chunks via
// ReadInto and scans each chunk, returning the deduplicated set of
// matched rule identifiers across the whole image. maxBytes bounds
// how much of the image is read, since the true module size isn't
// tracked by Process.
func (s *Scanner) ScanModule(proc *process.Process, maxBytes int) []string {
	if s == nil || s.rules == nil || proc.ModuleBase == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	buf := make([]byte, scanChunkSize)
	for offset := 0; offset < maxBytes; offset += scanChunkSize {
		n := scanChunkSize
		if remaining := maxBytes - offset; remaining < n {
			n = remaining
		}
		if err := proc.ReadInto(proc.ModuleBase+uintptr(offset), buf[:n]); err != nil {
			// unmapped past this point is expected once the image's
			// actual extent is exceeded; stop rather than log noise.
			break
		}
		for _, rule := range s.ScanBytes(buf[:n]) {
			seen[rule] = struct{}{}
		}
	}

	matches := make([]string, 0, len(seen))
	for rule := range seen {
		matches = append(matches, rule)
	}
	return matches
}
