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
	"golang.org/x/sys/windows"

	"github.com/kradscan/warden/pkg/zsyscall"
)

// resolveAccount queries owner's primary access token for its user SID
// and resolves that to an account/domain pair, mirroring the raw-
// buffer probe-then-retry style the rest of this package's kernel
// queries use rather than going through the higher-level Token helpers
// in golang.org/x/sys/windows.
func resolveAccount(owner windows.Handle) (account, domain string) {
	var token windows.Token
	if err := windows.OpenProcessToken(owner, windows.TOKEN_QUERY, &token); err != nil {
		return "", ""
	}
	defer token.Close()

	const tokenUser = 1 // TokenUser

	var size uint32
	_ = windows.GetTokenInformation(token, tokenUser, nil, 0, &size)
	if size == 0 {
		return "", ""
	}

	buf := make([]byte, size)
	if err := windows.GetTokenInformation(token, tokenUser, &buf[0], size, &size); err != nil {
		return "", ""
	}
	if len(buf) <= 16 {
		return "", ""
	}

	// TOKEN_USER is a SID_AND_ATTRIBUTES whose Sid pointer references
	// the SID packed immediately after the 16-byte fixed header in this
	// same buffer; passing wbemSID=true makes zsyscall.LookupAccount
	// skip that header and read the SID that follows it.
	return zsyscall.LookupAccount(buf, true)
}
