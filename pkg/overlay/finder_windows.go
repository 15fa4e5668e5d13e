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

package overlay

import (
	log "github.com/sirupsen/logrus"

	"github.com/kradscan/warden/pkg/winapi"
)

// infoFromHandle materializes an Info from a live window handle,
// calling the handful of user32 queries the original callback makes
// per window.
func infoFromHandle(hwnd uintptr) Info {
	pid, tid := winapi.GetWindowThreadProcessId(hwnd)
	left, top, right, bottom := winapi.GetWindowRect(hwnd)
	r := Rect{Left: left, Top: top, Right: right, Bottom: bottom}
	return Info{
		Handle:    hwnd,
		PID:       pid,
		ThreadID:  tid,
		ClassName: winapi.GetClassName(hwnd),
		Title:     winapi.GetWindowText(hwnd),
		Rect:      r,
		Width:     r.Width(),
		Height:    r.Height(),
		Style:     winapi.GetWindowLongPtr(hwnd, winapi.GWLStyle),
		StyleEx:   winapi.GetWindowLongPtr(hwnd, winapi.GWLExStyle),
	}
}

// screenRects resolves the current primary and virtual screen bounds
// once per Find call, rather than once per window, since they don't
// change mid-enumeration.
func screenRects() (primary, virtual Rect) {
	w, h := winapi.PrimaryScreenRect()
	primary = Rect{0, 0, w, h}

	left, top, vw, vh := winapi.VirtualScreenRect()
	virtual = Rect{Left: left, Top: top, Right: left + vw, Bottom: top + vh}
	return primary, virtual
}

// Find enumerates every top-level window once and returns those
// matching criteria. The EnumWindows callback never aborts
// enumeration early on a match - it always asks to continue - so a
// single pass sees every window regardless of how many already
// matched.
func Find(criteria Criteria) ([]Info, error) {
	primary, virtual := screenRects()

	var matches []Info
	err := winapi.EnumWindows(func(hwnd uintptr) bool {
		info := infoFromHandle(hwnd)
		if criteria.Matches(info, primary, virtual) {
			matches = append(matches, info)
		}
		return true
	})
	if err != nil {
		log.WithError(err).Error("EnumWindows failed")
		return nil, err
	}
	log.WithFields(log.Fields{"matched": len(matches)}).Debug("window enumeration complete")
	return matches, nil
}
