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

package process

import (
	"unsafe"

	"golang.org/x/sys/windows"

	kerrors "github.com/kradscan/warden/pkg/errors"
)

func sameImageName(a, b string) bool {
	return a == b
}

// findPIDByName walks a process snapshot looking for the first entry
// (in enumeration order) whose image name matches name exactly. It
// also returns every image name observed, so the caller can offer a
// fuzzy suggestion on a miss.
func findPIDByName(name string) (uint32, []string, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, nil, kerrors.Wrapf(kerrors.ErrKernelQueryFailed, "process snapshot: %v", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snap, &entry); err != nil {
		return 0, nil, kerrors.Wrapf(kerrors.ErrKernelQueryFailed, "process32first: %v", err)
	}

	var names []string
	var found uint32
	for {
		imageName := unicodeToString(entry.ExeFile[:])
		names = append(names, imageName)
		if found == 0 && sameImageName(imageName, name) {
			found = entry.ProcessID
		}

		if err := windows.Process32Next(snap, &entry); err != nil {
			break
		}
	}
	return found, names, nil
}

// firstModule returns the name and base address of pid's first
// (primary) module entry - typically the executable itself.
func firstModule(pid uint32) (string, uintptr, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		return "", 0, kerrors.Wrapf(kerrors.ErrKernelQueryFailed, "module snapshot for pid %d: %v", pid, err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Module32First(snap, &entry); err != nil {
		return "", 0, kerrors.Wrapf(kerrors.ErrKernelQueryFailed, "module32first for pid %d: %v", pid, err)
	}
	return unicodeToString(entry.Module[:]), uintptr(entry.ModBaseAddr), nil
}

// moduleBase resolves the load address of name's main module within
// pid via a module snapshot. Returns 0 with no error when the module
// enumeration itself fails for a reason that shouldn't abort
// resolution (e.g. a WOW64 bitness mismatch) - callers treat a zero
// base as "unknown", not fatal.
func moduleBase(pid uint32, name string) (uintptr, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		return 0, kerrors.Wrapf(kerrors.ErrKernelQueryFailed, "module snapshot for pid %d: %v", pid, err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Module32First(snap, &entry); err != nil {
		return 0, kerrors.Wrapf(kerrors.ErrKernelQueryFailed, "module32first for pid %d: %v", pid, err)
	}

	for {
		moduleName := unicodeToString(entry.Module[:])
		if sameImageName(moduleName, name) {
			return uintptr(entry.ModBaseAddr), nil
		}
		if err := windows.Module32Next(snap, &entry); err != nil {
			break
		}
	}
	return 0, nil
}
