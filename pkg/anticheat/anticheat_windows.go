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

package anticheat

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
	"golang.org/x/time/rate"

	"github.com/kradscan/warden/pkg/config"
	"github.com/kradscan/warden/pkg/handle"
	"github.com/kradscan/warden/pkg/handle/filter"
	"github.com/kradscan/warden/pkg/overlay"
	"github.com/kradscan/warden/pkg/process"
	"github.com/kradscan/warden/pkg/report"
	"github.com/kradscan/warden/pkg/sink"
	"github.com/kradscan/warden/pkg/yara"
)

const maxYaraScanBytes = 64 << 20 // 64 MiB, a generous bound on a single module image

// Anticheat is the top-level Orchestrator combining the handle
// pipeline and overlay finder into one Scan Report.
type Anticheat struct {
	cfg     *config.Config
	limiter *rate.Limiter
	yara    *yara.Scanner
	sinks   *sink.Chain
}

// New builds an Orchestrator from cfg. Run starts at most one scan
// per second; faster callers block on the rate limiter. The limiter
// only spaces out scan starts: a scan that runs longer than a second
// can still overlap the next one.
func New(cfg *config.Config) *Anticheat {
	var yaraScanner *yara.Scanner
	if cfg.YaraRulePath != "" {
		if s, err := yara.Load(cfg.YaraRulePath); err != nil {
			log.WithError(err).Warn("failed to load yara rules, continuing without memory scanning")
		} else {
			yaraScanner = s
		}
	}

	sinks := []sink.Sink{}
	if ws := sink.NewWebhookSink(cfg.WebhookURL); ws != nil {
		sinks = append(sinks, ws)
	}
	if cfg.ElasticURL != "" && cfg.ElasticIndex != "" {
		if es, err := sink.NewElasticSink(cfg.ElasticURL, cfg.ElasticIndex); err != nil {
			log.WithError(err).Warn("failed to initialize elastic sink")
		} else {
			sinks = append(sinks, es)
		}
	}
	if cfg.AMQPDSN != "" {
		if as, err := sink.NewAMQPSink(cfg.AMQPDSN, cfg.AMQPExchange, cfg.AMQPRoutingKey); err != nil {
			log.WithError(err).Warn("failed to initialize amqp sink")
		} else {
			sinks = append(sinks, as)
		}
	}
	if cfg.SMTPHost != "" && len(cfg.SMTPTo) > 0 {
		sinks = append(sinks, sink.NewEmailSink(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPTo))
	}

	return &Anticheat{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		yara:    yaraScanner,
		sinks:   sink.NewChain(sinks...),
	}
}

// Run resolves imageName, runs the handle and overlay pipelines, and
// returns the resulting Scan Report. It never delivers the report
// anywhere - call Deliver separately, per spec.md §5's "reporting is
// the only asynchronous part" split.
func (a *Anticheat) Run(ctx context.Context, imageName string) (*report.Report, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	sm := newMachine()
	started := time.Now()

	target, err := process.Resolve(imageName)
	if err != nil {
		return nil, err
	}
	defer target.Close()

	selfPID := uint16(windows.GetCurrentProcessId())

	if err := sm.Fire(triggerSnapshot); err != nil {
		return nil, err
	}
	entries, err := handle.Snapshot()
	if err != nil {
		sm.Fire(triggerFail)
		return nil, err
	}

	if err := sm.Fire(triggerFilter); err != nil {
		return nil, err
	}
	typeStore := handle.NewTypeStore()
	pipeline := filter.New(entries).
		ByTypeDynamic(typeStore, handle.TagProcess).
		ExcludeSelf(selfPID).
		SuspiciousOnly().
		TargetedAt(target.PID)

	if err := sm.Fire(triggerEnrich); err != nil {
		return nil, err
	}
	pipeline.Enrich()

	if err := sm.Fire(triggerOverlays); err != nil {
		return nil, err
	}
	winInfos, err := overlay.Find(overlayCriteria(a.cfg))
	if err != nil {
		log.WithError(err).Warn("overlay enumeration failed, continuing with handle results only")
		winInfos = nil
	}

	var yaraMatches []string
	if a.yara != nil {
		yaraMatches = a.yara.ScanModule(target, maxYaraScanBytes)
	}

	if err := sm.Fire(triggerFinish); err != nil {
		return nil, err
	}

	r := &report.Report{
		TargetName:  imageName,
		TargetPID:   target.PID,
		StartedAt:   started,
		Duration:    time.Since(started),
		Handles:     pipeline.Contexts(),
		Windows:     winInfos,
		YaraMatches: yaraMatches,
	}
	return r, nil
}

// Deliver renders r and ships it through every configured sink.
func (a *Anticheat) Deliver(ctx context.Context, r *report.Report) error {
	rendered, err := report.Render(r)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return a.sinks.Send(ctx, r, rendered)
}

// overlayCriteria falls back to the WS_VISIBLE / WS_EX_LAYERED |
// WS_EX_TRANSPARENT signature - the canonical "transparent overlay
// covering most of the screen" shape spec.md §4.E describes - when the
// config doesn't override the style bits.
func overlayCriteria(cfg *config.Config) overlay.Criteria {
	style, styleEx := cfg.OverlayRequiredStyle, cfg.OverlayRequiredStyleEx
	if style == 0 {
		style = windowStyleVisible
	}
	if styleEx == 0 {
		styleEx = windowExStyleLayered | windowExStyleTransparent
	}
	return overlay.Criteria{
		RequiredStyle:     style,
		RequiredStyleEx:   styleEx,
		MinPercentPrimary: cfg.OverlayMinPercentPrimary,
		MinPercentVirtual: cfg.OverlayMinPercentVirtual,
		SatisfyAll:        true,
	}
}

const (
	windowStyleVisible       = 0x10000000
	windowExStyleLayered     = 0x00080000
	windowExStyleTransparent = 0x00000020
)
