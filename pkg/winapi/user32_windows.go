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
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows        = user32.NewProc("EnumWindows")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowLongPtrW   = user32.NewProc("GetWindowLongPtrW")
	procGetSystemMetrics    = user32.NewProc("GetSystemMetrics")
	procGetDesktopWindow    = user32.NewProc("GetDesktopWindow")
)

// GWL offsets for GetWindowLongPtrW.
const (
	GWLStyle   = -16
	GWLExStyle = -20
)

// SM_* indices for GetSystemMetrics. CX/CYSCREEN are the primary
// monitor; the SM_*VIRTUALSCREEN pair spans every monitor's bounding
// rect.
const (
	SMCXScreen        = 0
	SMCYScreen        = 1
	SMXVirtualScreen  = 76
	SMYVirtualScreen  = 77
	SMCXVirtualScreen = 78
	SMCYVirtualScreen = 79
)

const maxWindowText = 255

// rawRect mirrors RECT.
type rawRect struct {
	Left, Top, Right, Bottom int32
}

// EnumWindowsCallback matches the EnumWindows callback signature:
// return false to stop enumeration early.
type EnumWindowsCallback func(hwnd uintptr) bool

// EnumWindows invokes cb once per top-level window in z-order. The
// callback must be re-entrancy-safe: Windows calls it synchronously
// on the calling thread, but the Go callback trampoline keeps no
// per-call state of its own, so all mutable state must live in the
// closure cb captures.
func EnumWindows(cb EnumWindowsCallback) error {
	trampoline := func(hwnd uintptr, lparam uintptr) uintptr {
		if cb(hwnd) {
			return 1
		}
		return 0
	}
	ret, _, err := procEnumWindows.Call(windows.NewCallback(trampoline), 0)
	if ret == 0 {
		return err
	}
	return nil
}

// GetClassName returns hwnd's window class name, truncated to 255
// UTF-16 code units as the classic Win32 buffer contract requires.
func GetClassName(hwnd uintptr) string {
	var buf [maxWindowText]uint16
	n, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

// GetWindowText returns hwnd's title bar text, truncated the same way
// as GetClassName.
func GetWindowText(hwnd uintptr) string {
	var buf [maxWindowText]uint16
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

// GetWindowRect returns hwnd's bounding rectangle in screen
// coordinates.
func GetWindowRect(hwnd uintptr) (left, top, right, bottom int32) {
	var r rawRect
	procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	return r.Left, r.Top, r.Right, r.Bottom
}

// GetWindowThreadProcessId returns the owning PID and the creating
// thread ID for hwnd.
func GetWindowThreadProcessId(hwnd uintptr) (pid, tid uint32) {
	var p uint32
	t, _, _ := procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&p)))
	return p, uint32(t)
}

// GetWindowLongPtr reads one of hwnd's GWL_* long values (style or
// extended style).
func GetWindowLongPtr(hwnd uintptr, index int32) uint32 {
	v, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(index))
	return uint32(v)
}

// GetSystemMetrics wraps GetSystemMetrics for the SM_* indices this
// package needs.
func GetSystemMetrics(index int32) int32 {
	v, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int32(v)
}

// PrimaryScreenRect returns the primary monitor's bounding rect,
// anchored at (0,0) as Windows always reports it.
func PrimaryScreenRect() (width, height int32) {
	return GetSystemMetrics(SMCXScreen), GetSystemMetrics(SMCYScreen)
}

// VirtualScreenRect returns the bounding rectangle of the virtual
// desktop spanning every attached monitor.
func VirtualScreenRect() (left, top, width, height int32) {
	return GetSystemMetrics(SMXVirtualScreen), GetSystemMetrics(SMYVirtualScreen),
		GetSystemMetrics(SMCXVirtualScreen), GetSystemMetrics(SMCYVirtualScreen)
}
