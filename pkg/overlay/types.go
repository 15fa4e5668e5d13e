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

// Package overlay enumerates top-level desktop windows and scores
// each against a configurable criteria bag to flag overlay-shaped
// cheats: transparent, layered windows covering most of the screen.
package overlay

import "fmt"

// Rect mirrors RECT: left/top/right/bottom in screen coordinates.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Width returns the rect's horizontal extent.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the rect's vertical extent.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Info is a snapshot of one top-level window's identity at the
// moment it was enumerated - a pure value; the underlying OS window
// may since have moved, resized, or been destroyed.
type Info struct {
	Handle    uintptr
	PID       uint32
	ThreadID  uint32
	ClassName string
	Title     string
	Rect      Rect
	Width     int32
	Height    int32
	Style     uint32
	StyleEx   uint32
}

func (w Info) String() string {
	return fmt.Sprintf(
		"Window Details:\n  Handle: %#x\n  Title: %s\n  Class Name: %s\n  Process ID: %d\n  Thread ID: %d\n  Position: Left=%d, Top=%d, Right=%d, Bottom=%d\n  Size: %dx%d\n  Style: %#x\n  Extended Style: %#x\n",
		w.Handle, w.Title, w.ClassName, w.PID, w.ThreadID,
		w.Rect.Left, w.Rect.Top, w.Rect.Right, w.Rect.Bottom,
		w.Width, w.Height, w.Style, w.StyleEx,
	)
}

// ScreenPercentages computes what fraction of the primary screen and
// of the virtual (all-monitors bounding) screen this window occupies,
// as an area ratio - (width*height)/(screenW*screenH) - returned as
// 0-100 percentages. primary and virtual must be genuinely distinct
// rects (SM_CXSCREEN/SM_CYSCREEN vs the SM_*VIRTUALSCREEN bounding
// box) - conflating the two, as happens when both are sourced from
// GetDesktopWindow's rect, silently degrades "percent of all
// monitors" into "percent of the primary monitor" on any multi-
// monitor setup.
func (w Info) ScreenPercentages(primary, virtual Rect) (percentPrimary, percentVirtual float64) {
	area := float64(w.Width) * float64(w.Height)
	if pa := float64(primary.Width()) * float64(primary.Height()); pa > 0 {
		percentPrimary = area / pa * 100
	}
	if va := float64(virtual.Width()) * float64(virtual.Height()); va > 0 {
		percentVirtual = area / va * 100
	}
	return percentPrimary, percentVirtual
}
