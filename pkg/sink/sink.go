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

// Package sink delivers a rendered Scan Report to one or more
// destinations: the upload+webhook pair spec.md describes, enabled
// only when a webhook URL is configured, plus optional alternate sinks
// (Elasticsearch, AMQP, email) a fleet deployment would plausibly add. Every sink shares one interface so
// the orchestrator fans a report out without knowing which transports
// are active.
package sink

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/kradscan/warden/pkg/report"
)

// Sink delivers a rendered report somewhere. Send must be safe to
// call with a 30s-bounded context per call, matching spec.md §5's
// network timeout recommendation.
type Sink interface {
	Name() string
	Send(ctx context.Context, r *report.Report, rendered string) error
}

// Chain fans a report out to every configured sink, adapted from the
// teacher's processor-chain pattern: each stage runs independently
// and a failure in one never stops the others; each failure is
// logged and the first one is returned once every sink has run.
type Chain struct {
	sinks []Sink
}

// NewChain builds a chain from whichever sinks are non-nil/enabled.
func NewChain(sinks ...Sink) *Chain {
	return &Chain{sinks: sinks}
}

// Send delivers to every sink in the chain, collecting (not stopping
// on) individual failures, and returns the first error encountered,
// if any, after every sink has been tried.
func (c *Chain) Send(ctx context.Context, r *report.Report, rendered string) error {
	var firstErr error
	for _, s := range c.sinks {
		if err := s.Send(ctx, r, rendered); err != nil {
			log.WithError(err).WithField("sink", s.Name()).Error("sink delivery failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.WithField("sink", s.Name()).Debug("sink delivery succeeded")
	}
	return firstErr
}
