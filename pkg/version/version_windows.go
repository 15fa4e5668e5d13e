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

// Package version gates this scanner against the Windows build it was
// validated on. NtQuerySystemInformation and NtQueryObject are
// semi-documented and their exact behavior has drifted across
// releases; this is a warning, never a hard failure, per the
// best-effort Non-goals.
package version

import (
	hashiver "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// minSupportedBuild is the oldest Windows build this scanner has been
// validated against (Windows 10 1809 / Server 2019, build 17763).
const minSupportedBuild = "17763"

// CheckBuild queries the running Windows build number and logs a
// warning if it's older than minSupportedBuild. Never returns an
// error: version gating is advisory only.
func CheckBuild() {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	running, err := hashiver.NewVersion(itoa(build))
	if err != nil {
		return
	}
	min, err := hashiver.NewVersion(minSupportedBuild)
	if err != nil {
		return
	}
	if running.LessThan(min) {
		log.WithFields(log.Fields{
			"major": major, "minor": minor, "build": build,
		}).Warn("running on a Windows build older than this scanner was validated against")
	}
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
