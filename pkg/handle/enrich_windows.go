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
	"golang.org/x/sys/windows"

	"github.com/kradscan/warden/pkg/process"
)

// processNameNative is PROCESS_NAME_NATIVE: asks
// QueryFullProcessImageName for the NT-namespace image path.
const processNameNative = 1

// Enrich decodes the access rights on every context and, best-effort,
// resolves its owner's image paths and code-signing status. Failure
// of any enrichment step leaves the context with whatever it already
// had - Enrich never turns a surviving entry into a dropped one. This
// is the one exception to "errors drop the entry" elsewhere in the
// pipeline: enrichment is additive, not discriminating.
func Enrich(contexts []*Context) []*Context {
	for _, c := range contexts {
		c.Rights = DecodeAccessMask(c.Raw.GrantedAccess)
		enrichImage(c)
		c.enriched = true
	}
	return contexts
}

func enrichImage(c *Context) {
	owner, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, uint32(c.Raw.OwnerPID))
	if err != nil {
		log.WithError(err).WithField("pid", c.Raw.OwnerPID).Debug("enrich: could not open owner, leaving un-enriched")
		return
	}
	defer windows.CloseHandle(owner)

	var ntBuf [windows.MAX_PATH]uint16
	ntLen := uint32(len(ntBuf))
	if err := windows.QueryFullProcessImageName(owner, processNameNative, &ntBuf[0], &ntLen); err != nil {
		log.WithError(err).WithField("pid", c.Raw.OwnerPID).Debug("enrich: NT path resolution failed")
	} else {
		c.Image.NTPath = windows.UTF16ToString(ntBuf[:ntLen])
	}

	var buf [windows.MAX_PATH]uint16
	n, err := windows.GetModuleFileNameEx(owner, 0, &buf[0], uint32(len(buf)))
	if err != nil || n == 0 {
		log.WithError(err).WithField("pid", c.Raw.OwnerPID).Debug("enrich: Win32 path resolution failed")
	} else {
		c.Image.Win32Path = windows.UTF16ToString(buf[:n])
	}

	if account, domain := resolveAccount(owner); account != "" {
		c.Image.Account = account
		c.Image.Domain = domain
	}

	if proc := ownerDescriptor(c.Raw.OwnerPID); proc != nil {
		defer proc.Close()
		if signed, err := proc.Signed(); err != nil {
			log.WithError(err).WithField("pid", c.Raw.OwnerPID).Debug("enrich: signature check failed")
		} else {
			c.Image.Signed = &signed
		}
	}
}

// ownerDescriptor resolves a lightweight process.Process for pid
// purely to reach its PE/signature helpers; failures are swallowed
// since signature enrichment is optional per Image's contract.
func ownerDescriptor(pid uint16) *process.Process {
	proc, err := process.ResolveByPID(uint32(pid))
	if err != nil {
		return nil
	}
	return proc
}
