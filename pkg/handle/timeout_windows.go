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
	"errors"
	"expvar"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/windows"

	"github.com/kradscan/warden/pkg/winapi"
)

// Querying the kernel path behind a foreign handle (NtQueryObject with
// ObjectNameInformation) can hang forever if the handle is a named
// pipe or mailslot with a blocking operation pending on the other
// end. GetHandleWithTimeout is the deadline-aware wrapper around
// winapi.QueryObjectName for handles taken from processes this scanner
// doesn't control: a native worker thread makes the call, and the
// caller thread only ever waits on an event with a timeout, so a hang
// in the worker can never block the caller.
var (
	queryThread          windows.Handle
	pendingHandle        atomic.Value
	queryStart           windows.Handle
	queryDone            windows.Handle
	resolvedNameInWorker string

	handleQueryTimeouts = expvar.NewInt("handle.query.timeouts")
)

func init() {
	queryStart, _ = windows.CreateEvent(nil, 0, 0, nil)
	queryDone, _ = windows.CreateEvent(nil, 0, 0, nil)
}

// GetHandleWithTimeout resolves the kernel path behind handle, killing
// the worker and reporting a timeout error if NtQueryObject hasn't
// answered within timeout milliseconds. The worker thread is reused
// across calls; it's recreated only after a prior timeout killed it.
func GetHandleWithTimeout(handle windows.Handle, timeout uint32) (string, error) {
	if queryThread == 0 {
		if err := windows.ResetEvent(queryStart); err != nil {
			return "", fmt.Errorf("couldn't reset start event: %v", err)
		}
		if err := windows.ResetEvent(queryDone); err != nil {
			return "", fmt.Errorf("couldn't reset done event: %v", err)
		}
		queryThread = winapi.CreateThread(windows.NewCallback(queryWorker), 0)
		if queryThread == 0 {
			return "", fmt.Errorf("cannot create handle query thread: %v", windows.GetLastError())
		}
	}

	pendingHandle.Store(handle)
	if err := windows.SetEvent(queryStart); err != nil {
		return "", err
	}

	s, err := windows.WaitForSingleObject(queryDone, timeout)
	if s == windows.WAIT_OBJECT_0 {
		return resolvedNameInWorker, nil
	}
	if s == uint32(windows.WAIT_TIMEOUT) {
		handleQueryTimeouts.Add(1)
		if err := winapi.TerminateThread(queryThread, 0); err != nil {
			return "", fmt.Errorf("unable to terminate stuck query thread: %v", err)
		}
		if _, err := windows.WaitForSingleObject(queryThread, timeout); err != nil {
			return "", fmt.Errorf("failed awaiting query thread termination: %v", err)
		}
		windows.CloseHandle(queryThread)
		queryThread = 0
		return "", errors.New("handle name resolution timed out")
	}
	return "", nil
}

// CloseTimeout releases the event and worker thread handles. The
// events are created once at package init and never recreated, so
// GetHandleWithTimeout cannot be used after CloseTimeout.
func CloseTimeout() error {
	if queryThread != 0 {
		if err := windows.CloseHandle(queryThread); err != nil {
			return err
		}
		queryThread = 0
	}
	if err := windows.CloseHandle(queryStart); err != nil {
		return err
	}
	return windows.CloseHandle(queryDone)
}

func queryWorker(ctx uintptr) uintptr {
	for {
		s, err := windows.WaitForSingleObject(queryStart, windows.INFINITE)
		if err != nil || s != windows.WAIT_OBJECT_0 {
			break
		}
		name, err := winapi.QueryObjectName(pendingHandle.Load().(windows.Handle))
		if err != nil {
			resolvedNameInWorker = ""
		} else {
			resolvedNameInWorker = name
		}
		if err := windows.SetEvent(queryDone); err != nil {
			break
		}
	}
	return 0
}
