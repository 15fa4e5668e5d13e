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
	"time"

	elastic "github.com/olivere/elastic/v7"

	kerrors "github.com/kradscan/warden/pkg/errors"
	"github.com/kradscan/warden/pkg/report"
)

// elasticDoc is the flattened document indexed per Scan Report - a
// fleet deployment's natural next step beyond a single webhook
// notification.
type elasticDoc struct {
	Timestamp   time.Time `json:"@timestamp"`
	TargetName  string    `json:"target_name"`
	TargetPID   uint32    `json:"target_pid"`
	HandleCount int       `json:"handle_count"`
	WindowCount int       `json:"window_count"`
	Clean       bool      `json:"clean"`
	Body        string    `json:"body"`
}

// ElasticSink indexes one document per Scan Report. Disabled unless
// explicitly configured with a URL and index name.
type ElasticSink struct {
	client *elastic.Client
	index  string
}

// NewElasticSink dials url and returns a sink indexing into index, or
// an error if the cluster can't be reached.
func NewElasticSink(url, index string) (*ElasticSink, error) {
	client, err := elastic.NewClient(elastic.SetURL(url), elastic.SetSniff(false))
	if err != nil {
		return nil, kerrors.Wrapf(kerrors.ErrUploadFailed, "connecting to elasticsearch: %v", err)
	}
	return &ElasticSink{client: client, index: index}, nil
}

func (s *ElasticSink) Name() string { return "elastic" }

func (s *ElasticSink) Send(ctx context.Context, r *report.Report, rendered string) error {
	doc := elasticDoc{
		Timestamp:   r.StartedAt,
		TargetName:  r.TargetName,
		TargetPID:   r.TargetPID,
		HandleCount: len(r.Handles),
		WindowCount: len(r.Windows),
		Clean:       r.Clean(),
		Body:        rendered,
	}
	_, err := s.client.Index().Index(s.index).BodyJson(doc).Do(ctx)
	return err
}
