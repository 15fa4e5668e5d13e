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

// Criteria is a configurable predicate bag scored against a window
// Info. Every non-zero/non-empty field contributes one vote to either
// satisfied or unsatisfied; zero-value fields are ignored entirely.
type Criteria struct {
	PID               uint32 // 0 means "don't check"
	ClassName         string
	Title             string
	Rect              Rect // all-zero means "don't check"
	Width, Height     int32
	RequiredStyle     uint32
	RequiredStyleEx   uint32
	MinPercentPrimary float64
	MinPercentVirtual float64
	// SatisfyAll, if true, rejects the window on ANY unsatisfied
	// criterion. If false, ANY single satisfied criterion accepts it.
	SatisfyAll bool
}

// Score evaluates c against info given the current primary and
// virtual screen bounds, returning how many criteria matched versus
// how many were checked and failed.
func (c Criteria) Score(info Info, primary, virtual Rect) (satisfied, unsatisfied int) {
	vote := func(ok bool) {
		if ok {
			satisfied++
		} else {
			unsatisfied++
		}
	}

	if c.PID != 0 {
		vote(c.PID == info.PID)
	}
	if c.ClassName != "" {
		vote(c.ClassName == info.ClassName)
	}
	if c.Title != "" {
		vote(c.Title == info.Title)
	}
	if c.Rect != (Rect{}) {
		vote(c.Rect == info.Rect)
	}
	if c.Width != 0 || c.Height != 0 {
		vote(c.Width == info.Width && c.Height == info.Height)
	}

	percentPrimary, percentVirtual := info.ScreenPercentages(primary, virtual)
	if c.MinPercentPrimary != 0 {
		vote(percentPrimary >= c.MinPercentPrimary)
	}
	if c.MinPercentVirtual != 0 {
		vote(percentVirtual >= c.MinPercentVirtual)
	}

	// ANY bit match accepts, for both style and extended style.
	if c.RequiredStyle != 0 {
		vote(c.RequiredStyle&info.Style != 0)
	}
	if c.RequiredStyleEx != 0 {
		vote(c.RequiredStyleEx&info.StyleEx != 0)
	}

	return satisfied, unsatisfied
}

// Matches applies the accept/reject rule spec'd for the enumeration
// callback: skip if nothing was satisfied; if SatisfyAll is set,
// reject on any unsatisfied criterion; otherwise accept.
func (c Criteria) Matches(info Info, primary, virtual Rect) bool {
	satisfied, unsatisfied := c.Score(info, primary, virtual)
	if satisfied == 0 {
		return false
	}
	if c.SatisfyAll && unsatisfied > 0 {
		return false
	}
	return true
}
