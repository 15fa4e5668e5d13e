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

// Package zsyscall holds small unsafe-pointer decoders for raw kernel
// buffers that golang.org/x/sys/windows doesn't parse for you.
package zsyscall

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// LookupAccount resolves the account/domain name behind a SID decoded
// directly out of a raw GetTokenInformation(TokenUser) buffer. Pass
// wbemSID true when rawSid is the whole TOKEN_USER buffer (the SID_AND_ATTRIBUTES
// header plus the SID packed immediately after it, as returned by a raw
// buffer query) rather than a bare SID.
func LookupAccount(rawSid []byte, wbemSID bool) (string, string) {
	b := uintptr(unsafe.Pointer(&rawSid[0]))
	if wbemSID {
		// skip the SID_AND_ATTRIBUTES header (Sid *SID + Attributes
		// uint32, padded to 16 bytes on amd64) to reach the SID bytes
		// packed immediately after it in the same buffer.
		b += uintptr(8 * 2)
	}
	sid := (*windows.SID)(unsafe.Pointer(b))
	account, domain, _, err := sid.LookupAccount("")
	if err != nil {
		return "", ""
	}
	return account, domain
}
