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

// Package handle implements the system handle snapshot, the narrowing
// filter pipeline and the per-handle enrichment that together locate
// foreign processes holding a read/write handle on a target process.
package handle

import "fmt"

// Entry is one row of the SYSTEM_HANDLE_INFORMATION snapshot, decoded
// from the packed kernel layout. Entries are immutable once produced
// by Snapshot: the filter pipeline may keep or drop them, never
// rewrite them.
type Entry struct {
	OwnerPID        uint16
	CreatorBackTrace uint16
	TypeIndex       uint8
	Attributes      uint8
	Value           uint16
	Object          uintptr
	GrantedAccess   uint32
}

// Tag is the small set of object types the scanner cares about. The
// numeric values are the type indices of one Windows build; ByType
// compares raw indices against them directly. TypeStore does not seed
// from them: it maps each live index to a Tag by resolving the type
// name the first time it observes a handle with that index, since the
// index is not stable across Windows versions (see TypeStore).
type Tag uint8

const (
	TagProcess Tag = 7
	TagThread  Tag = 8
	TagEvent   Tag = 10
	TagMutex   Tag = 11
	TagSemaphore Tag = 12
	TagFile    Tag = 25
)

func (t Tag) String() string {
	switch t {
	case TagProcess:
		return "Process"
	case TagThread:
		return "Thread"
	case TagEvent:
		return "Event"
	case TagMutex:
		return "Mutant"
	case TagSemaphore:
		return "Semaphore"
	case TagFile:
		return "File"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Process access rights this scanner decodes. Values match the
// WinNT.h PROCESS_* constants; they're declared here (rather than
// pulled from golang.org/x/sys/windows) because DecodeAccessMask must
// stay buildable without the windows GOOS constraint so it can be
// unit tested on any host.
const (
	accessTerminate        = 0x0001
	accessCreateThread      = 0x0002
	accessVMOperation       = 0x0008
	accessVMRead            = 0x0010
	accessVMWrite           = 0x0020
	accessDupHandle         = 0x0040
	accessCreateProcess     = 0x0080
	accessSetQuota          = 0x0100
	accessSetInformation    = 0x0200
	accessQueryInformation  = 0x0400
	accessSuspendResume     = 0x1000
	accessGenericRead       = 0x80000000
	accessGenericWrite      = 0x40000000
	accessGenericExecute    = 0x20000000
	accessGenericAll        = 0x10000000
	// accessAllAccess is PROCESS_ALL_ACCESS on Vista and later. Older
	// Windows versions used 0x1F0FFF; this scanner targets modern hosts.
	accessAllAccess         = 0x001FFFFF
)

// accessNames is the fixed bitmask -> name mapping. Order matters: it
// determines the order names appear in for a given mask, so decoding
// is a pure function (same mask, same ordered list) as required by
// the "access-mask decoding is a pure function" testable property.
var accessNames = []struct {
	bit  uint32
	name string
}{
	{accessGenericRead, "GENERIC_READ"},
	{accessGenericWrite, "GENERIC_WRITE"},
	{accessGenericExecute, "GENERIC_EXECUTE"},
	{accessGenericAll, "GENERIC_ALL"},
	{accessTerminate, "PROCESS_TERMINATE"},
	{accessCreateThread, "PROCESS_CREATE_THREAD"},
	{accessVMOperation, "PROCESS_VM_OPERATION"},
	{accessVMRead, "PROCESS_VM_READ"},
	{accessVMWrite, "PROCESS_VM_WRITE"},
	{accessDupHandle, "PROCESS_DUP_HANDLE"},
	{accessCreateProcess, "PROCESS_CREATE_PROCESS"},
	{accessSetQuota, "PROCESS_SET_QUOTA"},
	{accessSetInformation, "PROCESS_SET_INFORMATION"},
	{accessQueryInformation, "PROCESS_QUERY_INFORMATION"},
	{accessSuspendResume, "PROCESS_SUSPEND_RESUME"},
}

// DecodeAccessMask turns a granted-access bitmask into the ordered
// list of textual right names it contains. Unknown bits are silently
// dropped (category 4, ignored per the error design).
func DecodeAccessMask(mask uint32) []string {
	rights := make([]string, 0, 4)
	for _, n := range accessNames {
		if mask&n.bit != 0 {
			rights = append(rights, n.name)
		}
	}
	return rights
}

// IsSuspicious reports whether a granted-access mask is at least as
// strong as what a memory-reading/writing cheat needs: either full
// access, or both VM_READ and VM_WRITE.
func IsSuspicious(mask uint32) bool {
	const rw = accessVMRead | accessVMWrite
	return mask == accessAllAccess || mask&rw == rw
}
