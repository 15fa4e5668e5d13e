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

// Package report builds and renders the Scan Report: the enriched
// handle list plus matched overlay windows, or a clean-bill message
// when both are empty.
package report

import (
	"time"

	"github.com/kradscan/warden/pkg/handle"
	"github.com/kradscan/warden/pkg/overlay"
)

// Report is the terminal artifact of a scan: everything the
// orchestrator found, ready to be rendered and shipped.
type Report struct {
	TargetName    string
	TargetPID     uint32
	StartedAt     time.Time
	Duration      time.Duration
	Handles       []*handle.Context
	Windows       []overlay.Info
	YaraMatches   []string
}

// Clean reports whether nothing suspicious was found.
func (r *Report) Clean() bool {
	return len(r.Handles) == 0 && len(r.Windows) == 0 && len(r.YaraMatches) == 0
}
