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

// Package process resolves a target by image name into an open handle
// plus module metadata, and exposes the owner-identity lookups the
// handle filter pipeline's enrich step needs.
package process

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/saferwall/pe"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	kerrors "github.com/kradscan/warden/pkg/errors"
)

// Process is the Target Process Descriptor: an image name resolved to
// a PID, an open query/VM-read handle held for the scan's lifetime,
// and the module base address of that image.
type Process struct {
	Name        string
	PID         uint32
	Handle      windows.Handle
	ModuleBase  uintptr

	mu      sync.Mutex
	module  *pe.File
	peLoaded bool
	signed   *bool

	closeOnce sync.Once
}

// Resolve finds the first running process whose image name equals
// name (case-sensitive, first match in enumeration order wins), opens
// it with PROCESS_QUERY_INFORMATION|PROCESS_VM_READ, and records its
// module base address. Returns ErrTargetNotFound if nothing matches,
// ErrAccessDenied if the match exists but can't be opened.
func Resolve(name string) (*Process, error) {
	pid, allNames, err := findPIDByName(name)
	if err != nil {
		return nil, err
	}
	if pid == 0 {
		if suggestion := closestMatch(name, allNames); suggestion != "" {
			return nil, kerrors.Wrapf(kerrors.ErrTargetNotFound, "no process named %q found; did you mean %q?", name, suggestion)
		}
		return nil, kerrors.Wrapf(kerrors.ErrTargetNotFound, "no process named %q found", name)
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return nil, kerrors.Wrapf(kerrors.ErrAccessDenied, "opening pid %d (%s): %v", pid, name, err)
	}

	base, err := moduleBase(pid, name)
	if err != nil {
		log.WithError(err).WithField("pid", pid).Warn("could not resolve module base, continuing without it")
	}

	return &Process{
		Name:       name,
		PID:        pid,
		Handle:     h,
		ModuleBase: base,
	}, nil
}

// ResolveByPID opens pid directly (skipping the name lookup) for
// callers - the handle enricher, chiefly - that already know the PID
// and only want the PE/signature helpers. The image name is taken from
// the first module in the process's module list, and the PE helpers'
// imagePath matches module entries against it.
func ResolveByPID(pid uint32) (*Process, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return nil, kerrors.Wrapf(kerrors.ErrAccessDenied, "opening pid %d: %v", pid, err)
	}
	name, base, _ := firstModule(pid)
	return &Process{
		Name:       name,
		PID:        pid,
		Handle:     h,
		ModuleBase: base,
	}, nil
}

// Close releases the held query handle. Safe to call more than once.
func (p *Process) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = windows.CloseHandle(p.Handle)
	})
	return err
}

// closestMatch returns the candidate in names with the lowest
// Levenshtein distance to name among those that fuzzy-match it, or ""
// if names is empty or no candidate matches.
func closestMatch(name string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	matches := fuzzy.RankFindFold(name, names)
	if len(matches) == 0 {
		return ""
	}
	sort.Sort(matches)
	return matches[0].Target
}

// unicodeToString converts a NUL-terminated UTF-16 array to a Go
// string, trimming everything from the first NUL.
func unicodeToString(u []uint16) string {
	for i, c := range u {
		if c == 0 {
			u = u[:i]
			break
		}
	}
	return strings.TrimSpace(windows.UTF16ToString(u))
}
