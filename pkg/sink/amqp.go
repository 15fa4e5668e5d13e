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
	"encoding/json"

	"github.com/streadway/amqp"

	kerrors "github.com/kradscan/warden/pkg/errors"
	"github.com/kradscan/warden/pkg/report"
)

// AMQPSink publishes a JSON detection event to a queue - the
// out-of-the-box transport for a fleet that already routes alerts
// through a broker rather than a chat webhook.
type AMQPSink struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	routeKey string
}

// NewAMQPSink dials dsn and declares nothing - publish uses whatever
// exchange/routing key the caller configured, which must already
// exist on the broker.
func NewAMQPSink(dsn, exchange, routingKey string) (*AMQPSink, error) {
	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, kerrors.Wrapf(kerrors.ErrUploadFailed, "dialing amqp broker: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, kerrors.Wrapf(kerrors.ErrUploadFailed, "opening amqp channel: %v", err)
	}
	return &AMQPSink{conn: conn, channel: ch, exchange: exchange, routeKey: routingKey}, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

func (s *AMQPSink) Send(ctx context.Context, r *report.Report, rendered string) error {
	event := struct {
		TargetName string `json:"target_name"`
		TargetPID  uint32 `json:"target_pid"`
		Clean      bool   `json:"clean"`
		Body       string `json:"body"`
	}{r.TargetName, r.TargetPID, r.Clean(), rendered}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.channel.Publish(s.exchange, s.routeKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Close releases the channel and connection.
func (s *AMQPSink) Close() error {
	s.channel.Close()
	return s.conn.Close()
}
