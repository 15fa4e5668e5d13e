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
)

// ReadInto reads len(buf) bytes from address in p's address space
// into buf, carried over from the unrelated memory-reading project
// named in the out-of-scope notes. The scan uses it only through the
// YARA scanner, when a rule path is configured; the handle and overlay
// pipelines never call it.
func (p *Process) ReadInto(address uintptr, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return windows.ReadProcessMemory(
		p.Handle,
		address,
		&buf[0],
		uintptr(len(buf)),
		nil,
	)
}

// Read is the generic convenience wrapper over ReadInto for a fixed
// fixed-size value type T.
func Read[T any](p *Process, address uintptr) (T, bool) {
	var v T
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))
	if err := p.ReadInto(address, buf); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
