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

package model

import (
	"errors"
	"fmt"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
)

// ErrMissingQuery is returned when a run is started without a query.
var ErrMissingQuery = errors.New("no query was supplied for the run")

// StructuralError indicates the workflow graph shape prevents execution.
type StructuralError struct {
	Code    constants.ValidationFindingCode
	Message string
}

// Error returns the failure message.
func (e *StructuralError) Error() string {
	return e.Message
}

// RetrievalError wraps an embedding or vector search provider failure. It is
// recoverable: the knowledge base node degrades to a no-op and the run continues.
type RetrievalError struct {
	NodeID string
	Err    error
}

// Error returns the failure message.
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for node %s: %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// WebSearchError wraps a web search provider failure. It is recoverable: the
// web results section is omitted and the run continues.
type WebSearchError struct {
	NodeID string
	Err    error
}

// Error returns the failure message.
func (e *WebSearchError) Error() string {
	return fmt.Sprintf("web search failed for node %s: %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *WebSearchError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a language model provider failure that persisted
// after retries. It is fatal and aborts the run.
type GenerationError struct {
	NodeID string
	Err    error
}

// Error returns the failure message.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for node %s: %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IncompleteRunError indicates the output node was reached without a response
// produced by a prior node. It is fatal and aborts the run.
type IncompleteRunError struct {
	NodeID string
}

// Error returns the failure message.
func (e *IncompleteRunError) Error() string {
	return fmt.Sprintf("output node %s reached without a produced response", e.NodeID)
}
