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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
	"github.com/yuin/goldmark"
	log "github.com/sirupsen/logrus"

	kerrors "github.com/kradscan/warden/pkg/errors"
	"github.com/kradscan/warden/pkg/report"
)

const (
	colorRed   = 15548997
	colorGreen = 5763719
)

type webhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []webhookEmbed `json:"embeds,omitempty"`
}

type webhookEmbed struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Color       int           `json:"color,omitempty"`
	Footer      *webhookFooter `json:"footer,omitempty"`
	Fields      []webhookField `json:"fields,omitempty"`
}

type webhookFooter struct {
	Text string `json:"text,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// payloadSchema is the fixed shape the outgoing JSON body must match
// before a network round trip is attempted - username plus embeds
// with the fields this scanner actually emits.
const payloadSchema = `{
  "type": "object",
  "required": ["username", "embeds"],
  "properties": {
    "username": {"type": "string"},
    "embeds": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "description", "color"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "color": {"type": "integer"}
        }
      }
    }
  }
}`

// WebhookSink posts a chat-style notification linking to an uploaded
// report, colored red on detections and green on a clean scan.
type WebhookSink struct {
	URL        string
	Username   string
	Uploader   *Uploader
	HTTPClient *http.Client
}

// NewWebhookSink builds a sink from url, or returns nil if url is
// empty - the caller is expected to skip adding a nil sink to the
// chain rather than special-case a disabled state at send time.
func NewWebhookSink(url string) *WebhookSink {
	if url == "" {
		return nil
	}
	return &WebhookSink{
		URL:        url,
		Username:   "warden",
		Uploader:   NewUploader(),
		HTTPClient: http.DefaultClient,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

// Send uploads rendered and posts a webhook message linking to it.
func (s *WebhookSink) Send(ctx context.Context, r *report.Report, rendered string) error {
	if s == nil || s.URL == "" {
		return kerrors.ErrWebhookDisabled
	}

	link, err := s.Uploader.Upload(ctx, rendered)
	if err != nil {
		return err
	}

	description := sanitizeMarkdown(summarize(r))
	color := colorGreen
	title := "Scan clean"
	if !r.Clean() {
		color = colorRed
		title = "Suspicious activity detected"
	}

	payload := webhookPayload{
		Username: s.Username,
		Embeds: []webhookEmbed{{
			Title:       title,
			Description: description,
			Color:       color,
			Footer:      &webhookFooter{Text: link},
			Fields: []webhookField{
				{Name: "Target", Value: fmt.Sprintf("%s (pid %d)", r.TargetName, r.TargetPID)},
				{Name: "Handles", Value: fmt.Sprintf("%d", len(r.Handles)), Inline: true},
				{Name: "Windows", Value: fmt.Sprintf("%d", len(r.Windows)), Inline: true},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return kerrors.Wrapf(kerrors.ErrWebhookSendFailed, "encoding payload: %v", err)
	}
	if err := validatePayload(body); err != nil {
		return kerrors.Wrapf(kerrors.ErrInvalidPayload, "%v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return kerrors.Wrapf(kerrors.ErrWebhookSendFailed, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return kerrors.Wrapf(kerrors.ErrWebhookSendFailed, "posting webhook: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return kerrors.Wrapf(kerrors.ErrWebhookSendFailed, "webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func summarize(r *report.Report) string {
	if r.Clean() {
		return "No suspicious handles or overlays detected."
	}
	return fmt.Sprintf("%d suspicious handle(s), %d matched window(s).", len(r.Handles), len(r.Windows))
}

// sanitizeMarkdown renders description through goldmark into a
// discard writer purely to validate it parses; a parse failure falls
// back to the unformatted text rather than blocking the send.
func sanitizeMarkdown(description string) string {
	if err := goldmark.Convert([]byte(description), io.Discard); err != nil {
		log.WithError(err).Debug("webhook description failed markdown validation, sending as plain text")
	}
	return description
}

func validatePayload(body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(payloadSchema)
	docLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("%d schema violation(s)", len(result.Errors()))
	}
	return nil
}
