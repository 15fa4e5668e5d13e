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

package winapi

import (
	"golang.org/x/sys/windows"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procCreateThread    = kernel32.NewProc("CreateThread")
	procTerminateThread = kernel32.NewProc("TerminateThread")
)

// CreateThread starts a native thread running fn, mirroring the
// kernel32 CreateThread signature golang.org/x/sys/windows doesn't
// expose. Used to host the long-lived query worker that
// handle.GetHandleWithTimeout guards with a deadline.
func CreateThread(fn uintptr, param uintptr) windows.Handle {
	h, _, _ := procCreateThread.Call(
		0,
		0,
		fn,
		param,
		0,
		0,
	)
	return windows.Handle(h)
}

// TerminateThread forcibly ends h with exitCode. Only safe to call on
// a thread that owns no resources the rest of the process depends on
// - the query worker thread qualifies because it holds nothing but a
// stack frame at the point it's killed.
func TerminateThread(h windows.Handle, exitCode uint32) error {
	r, _, err := procTerminateThread.Call(uintptr(h), uintptr(exitCode))
	if r == 0 {
		return err
	}
	return nil
}
