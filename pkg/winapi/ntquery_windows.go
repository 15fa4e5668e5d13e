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

// Package winapi wraps the semi-documented NT kernel queries and the
// user32 window enumeration primitives this scanner needs but that
// golang.org/x/sys/windows doesn't expose directly. It's the zsyscall
// layer: thin, allocation-aware, and the only place raw syscall.Call
// plumbing lives.
package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	ntdll = windows.NewLazySystemDLL("ntdll.dll")

	procNtQuerySystemInformation = ntdll.NewProc("NtQuerySystemInformation")
	procNtQueryObject            = ntdll.NewProc("NtQueryObject")
)

// NT status codes relevant to these two queries. STATUS_SUCCESS is
// the only "done" value; everything else (most commonly
// STATUS_INFO_LENGTH_MISMATCH) means "retry with the buffer size now
// written into the out-parameter".
const (
	StatusSuccess = 0x00000000
)

// SystemInformationClass values this package queries.
const (
	// SystemHandleInformation enumerates every handle open anywhere
	// on the system.
	SystemHandleInformation = 0x10
)

// ObjectInformationClass values this package queries.
const (
	// ObjectNameInformation returns the kernel path backing a handle -
	// this is the query that can deadlock against a pending I/O on a
	// pipe or device handle, so callers resolving untrusted handles
	// should go through a deadline-aware wrapper rather than calling
	// QueryObjectName directly.
	ObjectNameInformation = 1
	// ObjectTypeInformation returns the name/index/access mask of the
	// object type a handle refers to.
	ObjectTypeInformation = 2
)

// systemHandleInformationHeader mirrors SYSTEM_HANDLE_INFORMATION: a
// handle count followed immediately by that many packed entries.
type systemHandleInformationHeader struct {
	NumberOfHandles uint32
	// padding on 64-bit builds so the following array is 8-byte
	// aligned the same way the kernel lays it out (Object is a
	// pointer-sized field inside each entry).
	_ uint32
}

// RawHandleEntry mirrors SYSTEM_HANDLE_TABLE_ENTRY_INFO exactly
// - field order and width matter, this is read directly out of a
// kernel-filled buffer.
type RawHandleEntry struct {
	OwnerPID         uint16
	CreatorBackTrace uint16
	ObjectTypeIndex  uint8
	HandleAttributes uint8
	HandleValue      uint16
	Object           uintptr
	GrantedAccess    uint32
	_                uint32 // alignment padding to the next entry
}

// objectTypeInformation is not used by QueryObjectTypeName, which
// reads only the UNICODE_STRING type name that OBJECT_TYPE_INFORMATION
// begins with; these fields do not follow the kernel's layout of that
// struct.
type objectTypeInformation struct {
	TypeIndex    uint8
	_            [3]byte
	TotalHandles uint32
	ValidAccess  uint32
}

// QuerySystemHandles runs the allocate-probe-retry loop against
// NtQuerySystemInformation(SystemHandleInformation) and returns the
// decoded entries. It frees the scratch buffer on every exit path,
// including failures, per the scoped-acquisition discipline spec.md
// §4.B requires.
func QuerySystemHandles() ([]RawHandleEntry, error) {
	const initialSize = 0x1000 // 4 KiB, matches the original's guess

	size := uint32(initialSize)
	buf, err := allocBuffer(size)
	if err != nil {
		return nil, err
	}

	var returnedLen uint32
	status := querySystemInformation(buf, size, &returnedLen)

	for status != StatusSuccess {
		freeBuffer(buf)

		if returnedLen <= size {
			// kernel didn't tell us a bigger size; grow defensively
			// rather than spin forever.
			returnedLen = size * 2
		}
		size = returnedLen

		buf, err = allocBuffer(size)
		if err != nil {
			return nil, err
		}
		status = querySystemInformation(buf, size, &returnedLen)
	}
	defer freeBuffer(buf)

	header := (*systemHandleInformationHeader)(unsafe.Pointer(buf))
	count := header.NumberOfHandles

	entryArrayOffset := unsafe.Sizeof(systemHandleInformationHeader{})
	entries := make([]RawHandleEntry, count)
	src := unsafe.Slice(
		(*RawHandleEntry)(unsafe.Pointer(buf+uintptr(entryArrayOffset))),
		count,
	)
	copy(entries, src)

	return entries, nil
}

func querySystemInformation(buf uintptr, size uint32, returnedLen *uint32) uintptr {
	status, _, _ := procNtQuerySystemInformation.Call(
		uintptr(SystemHandleInformation),
		buf,
		uintptr(size),
		uintptr(unsafe.Pointer(returnedLen)),
	)
	return status
}

// QueryObjectTypeName resolves the type name backing a live handle by
// invoking NtQueryObject(ObjectTypeInformation) once to probe the
// buffer size and once to fill it, then decoding the UNICODE_STRING
// at the start of the buffer.
func QueryObjectTypeName(h windows.Handle) (string, error) {
	var size uint32
	status, _, _ := procNtQueryObject.Call(
		uintptr(h),
		uintptr(ObjectTypeInformation),
		0,
		0,
		uintptr(unsafe.Pointer(&size)),
	)
	_ = status
	if size == 0 {
		size = 0x200
	}

	buf, err := allocBuffer(size)
	if err != nil {
		return "", err
	}
	defer freeBuffer(buf)

	st, _, _ := procNtQueryObject.Call(
		uintptr(h),
		uintptr(ObjectTypeInformation),
		buf,
		uintptr(size),
		uintptr(unsafe.Pointer(&size)),
	)
	if st != StatusSuccess {
		return "", windows.Errno(st)
	}

	// OBJECT_TYPE_INFORMATION begins with a UNICODE_STRING {Length
	// uint16; MaximumLength uint16; Buffer *uint16}.
	type unicodeString struct {
		Length        uint16
		MaximumLength uint16
		_             uint32 // padding to pointer alignment
		Buffer        uintptr
	}
	us := (*unicodeString)(unsafe.Pointer(buf))
	if us.Buffer == 0 || us.Length == 0 {
		return "", nil
	}
	chars := us.Length / 2
	u16 := unsafe.Slice((*uint16)(unsafe.Pointer(us.Buffer)), chars)
	return windows.UTF16ToString(u16), nil
}

// QueryObjectName resolves the kernel path backing h via
// NtQueryObject(ObjectNameInformation). Some handle kinds - named
// pipes and mailslots with a pending blocking operation on the other
// end chief among them - can hang this call indefinitely; callers
// working over handles duplicated from an untrusted foreign process
// must wrap this in a deadline, which is exactly what
// handle.GetHandleWithTimeout does.
func QueryObjectName(h windows.Handle) (string, error) {
	var size uint32
	procNtQueryObject.Call(
		uintptr(h),
		uintptr(ObjectNameInformation),
		0,
		0,
		uintptr(unsafe.Pointer(&size)),
	)
	if size == 0 {
		size = 0x400
	}

	buf, err := allocBuffer(size)
	if err != nil {
		return "", err
	}
	defer freeBuffer(buf)

	st, _, _ := procNtQueryObject.Call(
		uintptr(h),
		uintptr(ObjectNameInformation),
		buf,
		uintptr(size),
		uintptr(unsafe.Pointer(&size)),
	)
	if st != StatusSuccess {
		return "", windows.Errno(st)
	}

	type unicodeString struct {
		Length        uint16
		MaximumLength uint16
		_             uint32
		Buffer        uintptr
	}
	us := (*unicodeString)(unsafe.Pointer(buf))
	if us.Buffer == 0 || us.Length == 0 {
		return "", nil
	}
	chars := us.Length / 2
	u16 := unsafe.Slice((*uint16)(unsafe.Pointer(us.Buffer)), chars)
	return windows.UTF16ToString(u16), nil
}

func allocBuffer(size uint32) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

func freeBuffer(addr uintptr) {
	if addr == 0 {
		return
	}
	_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
