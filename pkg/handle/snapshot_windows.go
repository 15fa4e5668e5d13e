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
	log "github.com/sirupsen/logrus"

	kerrors "github.com/kradscan/warden/pkg/errors"
	"github.com/kradscan/warden/pkg/winapi"
)

// Snapshot takes a single, momentary view of every handle open
// anywhere on the system. It is not atomic - handles may be opened
// and closed while the kernel fills the buffer - and that's expected,
// not an error (spec.md §4.B concurrency note).
func Snapshot() ([]Entry, error) {
	raw, err := winapi.QuerySystemHandles()
	if err != nil {
		log.WithError(err).Error("system handle query failed")
		return nil, kerrors.Wrap(kerrors.ErrKernelQueryFailed, err.Error())
	}

	entries := make([]Entry, len(raw))
	for i, r := range raw {
		entries[i] = Entry{
			OwnerPID:         r.OwnerPID,
			CreatorBackTrace: r.CreatorBackTrace,
			TypeIndex:        r.ObjectTypeIndex,
			Attributes:       r.HandleAttributes,
			Value:            r.HandleValue,
			Object:           r.Object,
			GrantedAccess:    r.GrantedAccess,
		}
	}
	log.WithField("count", len(entries)).Debug("took system handle snapshot")
	return entries, nil
}
