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

// Package anticheat is the top-level Orchestrator: it ties the
// target resolution, handle pipeline, and overlay finder into one
// Scan Report, and formalizes the ordering guarantees the scan
// proper already has with an explicit, inspectable state machine.
package anticheat

import (
	"github.com/qmuntal/stateless"
)

// Phase is the scan lifecycle state. The machine exists purely for
// observability - it can be inspected or logged mid-run - and never
// introduces concurrency or changes the single-threaded scan model:
// every transition below is driven inline from Run, never from a
// goroutine.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseSnapshotting     Phase = "snapshotting"
	PhaseFiltering        Phase = "filtering"
	PhaseEnriching        Phase = "enriching"
	PhaseScanningOverlays Phase = "scanning_overlays"
	PhaseDone             Phase = "done"
	PhaseFailed           Phase = "failed"
)

const (
	triggerSnapshot = "snapshot"
	triggerFilter   = "filter"
	triggerEnrich   = "enrich"
	triggerOverlays = "overlays"
	triggerFinish   = "finish"
	triggerFail     = "fail"
)

// newMachine builds the {Idle -> Snapshotting -> Filtering ->
// Enriching -> ScanningOverlays -> Done|Failed} state machine.
// Transitions are sequential and synchronous: there are no
// suspension points in the scan proper, matching the "runs to
// completion before reporting starts" guarantee.
func newMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(PhaseIdle)

	sm.Configure(PhaseIdle).Permit(triggerSnapshot, PhaseSnapshotting)
	sm.Configure(PhaseSnapshotting).
		Permit(triggerFilter, PhaseFiltering).
		Permit(triggerFail, PhaseFailed)
	sm.Configure(PhaseFiltering).
		Permit(triggerEnrich, PhaseEnriching).
		Permit(triggerFail, PhaseFailed)
	sm.Configure(PhaseEnriching).
		Permit(triggerOverlays, PhaseScanningOverlays).
		Permit(triggerFail, PhaseFailed)
	sm.Configure(PhaseScanningOverlays).
		Permit(triggerFinish, PhaseDone).
		Permit(triggerFail, PhaseFailed)
	sm.Configure(PhaseDone)
	sm.Configure(PhaseFailed)

	return sm
}
