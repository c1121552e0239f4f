/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package event provides publishing of workflow run events to the message broker.
package event

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/asgardeo/flowstack/internal/system/config"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const loggerComponentName = "RunEventPublisher"

// RunEventStatus represents the status carried by a run event.
type RunEventStatus string

const (
	// RunEventStatusStarted indicates that a node execution has started.
	RunEventStatusStarted RunEventStatus = "started"
	// RunEventStatusCompleted indicates that a node execution has completed.
	RunEventStatusCompleted RunEventStatus = "completed"
	// RunEventStatusDegraded indicates that a node execution completed with a recoverable failure.
	RunEventStatusDegraded RunEventStatus = "degraded"
	// RunEventStatusFailed indicates that a node execution has failed.
	RunEventStatusFailed RunEventStatus = "failed"
)

// RunEvent represents a single progress event emitted during a workflow run.
type RunEvent struct {
	RunID      string         `json:"runId"`
	WorkflowID string         `json:"workflowId"`
	NodeID     string         `json:"nodeId,omitempty"`
	NodeKind   string         `json:"nodeKind,omitempty"`
	Status     RunEventStatus `json:"status"`
	Message    string         `json:"message,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// RunEventPublisherInterface defines the interface for publishing run events.
type RunEventPublisherInterface interface {
	// PublishRunEvent publishes the given event. Publishing is best effort and
	// never fails the run.
	PublishRunEvent(event RunEvent)
	// Close releases the broker connection.
	Close()
}

var (
	instance RunEventPublisherInterface
	once     sync.Once
)

// GetRunEventPublisher returns the singleton run event publisher built from the
// server configuration. When messaging is disabled or the broker is unreachable
// a no-op publisher is returned.
func GetRunEventPublisher() RunEventPublisherInterface {
	once.Do(func() {
		instance = newRunEventPublisher()
	})
	return instance
}

func newRunEventPublisher() RunEventPublisherInterface {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	natsConfig := config.GetFlowstackRuntime().Config.Messaging.NATS
	if !natsConfig.Enabled {
		logger.Debug("Messaging is disabled, run events will not be published")
		return &noopRunEventPublisher{}
	}

	subjectPrefix := natsConfig.SubjectPrefix
	if subjectPrefix == "" {
		subjectPrefix = "flowstack"
	}

	conn, err := nats.Connect(natsConfig.URL)
	if err != nil {
		logger.Warn("Failed to connect to the message broker, run events will not be published",
			log.String("url", natsConfig.URL), log.Error(err))
		return &noopRunEventPublisher{}
	}

	logger.Info("Connected to the message broker for run events", log.String("url", natsConfig.URL))
	return &natsRunEventPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}
}

// natsRunEventPublisher publishes run events to a NATS subject per run.
type natsRunEventPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// PublishRunEvent publishes the event to the run's subject.
func (p *natsRunEventPublisher) PublishRunEvent(event RunEvent) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("Failed to marshal run event", log.Error(err))
		return
	}

	subject := runSubject(p.subjectPrefix, event.WorkflowID, event.RunID)
	if err := p.conn.Publish(subject, data); err != nil {
		logger.Warn("Failed to publish run event", log.String("subject", subject), log.Error(err))
	}
}

// Close drains the broker connection.
func (p *natsRunEventPublisher) Close() {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := p.conn.Drain(); err != nil {
		logger.Warn("Failed to drain the message broker connection", log.Error(err))
	}
}

// noopRunEventPublisher discards all events.
type noopRunEventPublisher struct{}

// PublishRunEvent discards the event.
func (p *noopRunEventPublisher) PublishRunEvent(event RunEvent) {
}

// Close is a no-op.
func (p *noopRunEventPublisher) Close() {
}

// runSubject builds the subject a run's events are published to.
func runSubject(prefix, workflowID, runID string) string {
	return fmt.Sprintf("%s.run.%s.%s", prefix, workflowID, runID)
}
