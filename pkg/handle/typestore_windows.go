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

package handle

import (
	"strings"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/kradscan/warden/pkg/winapi"
)

// TypeStore resolves a raw kernel object-type index to the tag this
// scanner understands, by name, rather than trusting a hard-coded
// index table. The numeric type index attached to
// SYSTEM_HANDLE_TABLE_ENTRY_INFO is not guaranteed stable across
// Windows builds - two installs can assign "Process" a different
// index - so every index this scanner sees gets resolved once, by
// opening a live handle of that type and asking NtQueryObject what it
// is actually named, then the answer is cached for the rest of the
// scan.
//
// The cache is guarded by a single mutex; scans are short-lived and
// single-threaded enough that a sync.Map would be premature, but the
// mutex follows the same discipline the teacher's process snapshotter
// uses for its live table.
type TypeStore struct {
	mu    sync.Mutex
	byIdx map[uint8]Tag
}

// NewTypeStore returns an empty store. Nothing is pre-seeded: every
// index is resolved lazily from a live handle the first time
// ResolveFromHandle sees it.
func NewTypeStore() *TypeStore {
	return &TypeStore{byIdx: make(map[uint8]Tag)}
}

// nameToTag maps the canonical NT type name to the Tag this scanner
// tracks. Names not in this table resolve to Tag(0) (unknown) and are
// cached as such so repeat lookups are still O(1).
var nameToTag = map[string]Tag{
	"Process":   TagProcess,
	"Thread":    TagThread,
	"Event":     TagEvent,
	"Mutant":    TagMutex,
	"Semaphore": TagSemaphore,
	"File":      TagFile,
}

// ResolveFromHandle returns the Tag for idx, resolving it from h (a
// live handle known to be of that type) on first sight and caching
// the result for every later handle sharing the same index.
func (s *TypeStore) ResolveFromHandle(idx uint8, h windows.Handle) Tag {
	s.mu.Lock()
	if tag, ok := s.byIdx[idx]; ok {
		s.mu.Unlock()
		return tag
	}
	s.mu.Unlock()

	name, err := winapi.QueryObjectTypeName(h)
	tag := Tag(0)
	if err == nil {
		tag = nameToTag[strings.TrimSpace(name)]
	}

	s.mu.Lock()
	s.byIdx[idx] = tag
	s.mu.Unlock()
	return tag
}

// Lookup returns the cached tag for idx without touching the kernel,
// and reports whether idx has been resolved yet.
func (s *TypeStore) Lookup(idx uint8) (Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, ok := s.byIdx[idx]
	return tag, ok
}

// Len reports how many distinct type indices have been resolved so
// far in this store's lifetime.
func (s *TypeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byIdx)
}
