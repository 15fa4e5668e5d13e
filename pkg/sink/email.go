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

package sink

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/kradscan/warden/pkg/report"
)

// EmailSink delivers the rendered report body as a plain-text email -
// the transport a fleet without a chat webhook or message broker still
// usually has available.
type EmailSink struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

// NewEmailSink builds a sink that sends through an SMTP relay at
// host:port, authenticating with user/pass if either is non-empty.
func NewEmailSink(host string, port int, user, pass, from string, to []string) *EmailSink {
	dialer := gomail.NewDialer(host, port, user, pass)
	return &EmailSink{dialer: dialer, from: from, to: to}
}

func (s *EmailSink) Name() string { return "email" }

// Send ignores ctx - gomail's Dialer has no context-aware Send, so the
// 30s timeout the orchestrator puts on ctx does not bound this send;
// only the dialer's own connection timeout applies.
func (s *EmailSink) Send(ctx context.Context, r *report.Report, rendered string) error {
	subject := fmt.Sprintf("warden scan: %s (pid %d) - clean=%t", r.TargetName, r.TargetPID, r.Clean())

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", rendered)

	return s.dialer.DialAndSend(m)
}
