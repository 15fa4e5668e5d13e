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

package filter

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/kradscan/warden/pkg/handle"
)

// ByTypeDynamic keeps entries whose object type resolves to tag,
// resolving each distinct TypeIndex against store rather than trusting
// the raw index to mean the same thing on every Windows build. The
// first entry seen for a given index pays the cost of duplicating its
// handle and asking NtQueryObject what it actually is; every later
// entry sharing that index is a cache hit in store.
//
// This is the dynamic counterpart to Pipeline.ByType, which compares
// the raw index directly and is kept for hosts or tests where no live
// TypeStore is available.
func (p *Pipeline) ByTypeDynamic(store *handle.TypeStore, tag handle.Tag) *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		resolved, ok := store.Lookup(c.Raw.TypeIndex)
		if !ok {
			resolved = resolveType(store, c)
		}
		return resolved == tag
	})
}

// resolveType duplicates c's raw handle into this process just long
// enough to ask NtQueryObject its type name, then caches the answer in
// store under c's TypeIndex.
func resolveType(store *handle.TypeStore, c *handle.Context) handle.Tag {
	owner, err := windows.OpenProcess(windows.PROCESS_DUP_HANDLE, false, uint32(c.Raw.OwnerPID))
	if err != nil {
		log.WithField("pid", c.Raw.OwnerPID).WithError(err).Debug("cannot open owner to resolve handle type")
		// drop only this entry; leave the index unresolved so a later
		// entry with an openable owner can still resolve it.
		return 0
	}
	defer windows.CloseHandle(owner)

	var dup windows.Handle
	self := windows.CurrentProcess()
	if err := windows.DuplicateHandle(
		owner, windows.Handle(c.Raw.Value),
		self, &dup,
		0, false, windows.DUPLICATE_SAME_ACCESS,
	); err != nil {
		return 0
	}
	defer windows.CloseHandle(dup)

	return store.ResolveFromHandle(c.Raw.TypeIndex, dup)
}
