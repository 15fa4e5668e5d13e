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

// TargetedAt is the discriminating step of the pipeline: it keeps
// only entries whose handle value, when duplicated into the
// scanner's own process and queried, actually refers to targetPID -
// the property that makes "this handle is targeted at the target
// process" meaningful, as opposed to trusting the raw handle value
// (which is only meaningful inside its owner's table).
//
// Net-zero handle invariant: every owner handle opened and every
// duplicated handle created in this pass is closed on every path,
// including the early returns below, via per-entry closures that run
// their defers before returning.
func (p *Pipeline) TargetedAt(targetPID uint32) *Pipeline {
	return p.retain(func(c *handle.Context) bool {
		return evaluateTargetedAt(c, targetPID)
	})
}

func evaluateTargetedAt(c *handle.Context, targetPID uint32) (keep bool) {
	if uint32(c.Raw.OwnerPID) == targetPID {
		// the target's own handles are not "other processes holding a
		// handle into the target" - drop per step 1.
		return false
	}

	owner, err := windows.OpenProcess(windows.PROCESS_DUP_HANDLE, false, uint32(c.Raw.OwnerPID))
	if err != nil {
		log.WithError(err).WithField("pid", c.Raw.OwnerPID).Debug("targeted-at: could not open owner for duplication")
		return false
	}
	defer windows.CloseHandle(owner)

	self := windows.CurrentProcess()
	var dup windows.Handle
	err = windows.DuplicateHandle(
		owner,
		windows.Handle(c.Raw.Value),
		self,
		&dup,
		0,
		false,
		windows.DUPLICATE_SAME_ACCESS,
	)
	if err != nil {
		log.WithError(err).WithField("pid", c.Raw.OwnerPID).Debug("targeted-at: duplication failed")
		return false
	}
	defer windows.CloseHandle(dup)

	pid, err := windows.GetProcessId(dup)
	if err != nil {
		log.WithError(err).Debug("targeted-at: GetProcessId failed on duplicated handle")
		return false
	}
	return pid == targetPID
}
