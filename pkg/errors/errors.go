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

// Package errors defines the closed set of sentinel errors the scanner
// can return. Errors that abort a scan (category 1) are values here so
// callers can compare with errors.Is. Errors that only drop a single
// handle or enrichment step (category 2) never leave the package that
// produced them; they're logged at debug level instead.
package errors

import (
	"github.com/pkg/errors"
)

// Category 1 - fatal to the whole scan. These propagate out of Run.
var (
	// ErrTargetNotFound is returned when no running process matches the
	// requested image name.
	ErrTargetNotFound = errors.New("target process not found")
	// ErrAccessDenied is returned when the target process exists but
	// can't be opened with query/VM-read rights.
	ErrAccessDenied = errors.New("access denied opening target process")
	// ErrAllocationFailed names a scratch-buffer allocation failure.
	// No code path returns it: when the NtQuerySystemInformation probe
	// buffer can't be allocated, Snapshot returns ErrKernelQueryFailed
	// wrapping the allocation error instead.
	ErrAllocationFailed = errors.New("failed to allocate scratch buffer")
	// ErrKernelQueryFailed is returned by Snapshot when the handle
	// query loop fails - it retries on every non-success status, so the
	// wrapped cause is an allocation failure of the growing buffer - and
	// by the process lookups when a Toolhelp snapshot or its first
	// entry can't be read.
	ErrKernelQueryFailed = errors.New("kernel handle query failed")
	// ErrSelfOpenFailed is not returned by any code path; the scanner
	// takes its own PID from GetCurrentProcessId without opening itself.
	ErrSelfOpenFailed = errors.New("failed to open own process")
)

// Category 3 - fatal to reporting only. The scan result remains valid
// in memory; only delivery failed.
var (
	// ErrUploadFailed wraps any failure uploading the rendered report.
	ErrUploadFailed = errors.New("report upload failed")
	// ErrMissingUploadURL is returned when the upload response has no
	// data.url field.
	ErrMissingUploadURL = errors.New("upload response missing data.url")
	// ErrWebhookDisabled is returned by WebhookSink.Send when WEBHOOK_URL
	// was never configured.
	ErrWebhookDisabled = errors.New("webhook delivery disabled: no webhook url configured")
	// ErrWebhookSendFailed wraps a failed webhook POST.
	ErrWebhookSendFailed = errors.New("webhook delivery failed")
	// ErrInvalidPayload is returned when the outgoing webhook JSON body
	// fails schema validation before it's sent.
	ErrInvalidPayload = errors.New("webhook payload failed schema validation")
)

// Wrap annotates err with msg, preserving it for errors.Is/As. A thin
// pass-through to github.com/pkg/errors so callers don't need to
// import both packages.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is is re-exported for callers that only import this package.
func Is(err, target error) bool { return errors.Is(err, target) }
