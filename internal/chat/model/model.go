/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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

// Package model defines the data structures for chat sessions and the chat
// execution API.
package model

import (
	"time"
)

// ChatQueryRequest is the request payload for executing a workflow against a
// chat query. SessionID is optional; a new session is created when absent.
type ChatQueryRequest struct {
	Query      string `json:"query" validate:"required"`
	WorkflowID string `json:"workflowId" validate:"required"`
	SessionID  string `json:"sessionId,omitempty"`
}

// ChatQueryResponse is the response payload of a successful chat query.
type ChatQueryResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

// Session represents a chat session holding the conversational history for
// one workflow.
type Session struct {
	SessionID  string    `json:"sessionId"`
	WorkflowID string    `json:"workflowId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Message is a single persisted turn of a chat session. History is
// append-only; messages are never mutated retroactively.
type Message struct {
	MessageID string    `json:"messageId"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryEntry is the wire representation of one session history turn.
type HistoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
