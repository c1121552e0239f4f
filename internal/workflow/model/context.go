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
)

// Turn is a single entry of conversational history handed to a run.
type Turn struct {
	Role    string
	Content string
}

// DegradedFailure records a recoverable provider failure that degraded a node
// to a no-op without aborting the run.
type DegradedFailure struct {
	NodeID string
	Stage  string
	Err    error
}

// ExecutionContext is the mutable accumulator threaded through a single
// workflow run. It is owned exclusively by one run and never shared.
// The query and the response are write-once; retrieved context and web
// results are ordered append-only sequences.
type ExecutionContext struct {
	RunID      string
	WorkflowID string
	SessionID  string
	History    []Turn

	providedQuery    string
	query            string
	querySet         bool
	retrievedContext []string
	webResults       []string
	response         string
	responseSet      bool
	degraded         []DegradedFailure
}

// NewExecutionContext creates the accumulator for one run carrying the
// externally supplied query.
func NewExecutionContext(runID, workflowID, query string) *ExecutionContext {
	return &ExecutionContext{
		RunID:         runID,
		WorkflowID:    workflowID,
		providedQuery: query,
	}
}

// ProvidedQuery returns the raw query supplied with the run request.
func (ec *ExecutionContext) ProvidedQuery() string {
	return ec.providedQuery
}

// SetQuery sets the run query. It fails when the query was already set.
func (ec *ExecutionContext) SetQuery(query string) error {
	if ec.querySet {
		return errors.New("query is already set for the execution context")
	}
	ec.query = query
	ec.querySet = true
	return nil
}

// Query returns the run query set by the user query node.
func (ec *ExecutionContext) Query() string {
	return ec.query
}

// AppendRetrievedContext appends retrieved chunks preserving their order.
func (ec *ExecutionContext) AppendRetrievedContext(chunks ...string) {
	ec.retrievedContext = append(ec.retrievedContext, chunks...)
}

// RetrievedContext returns the accumulated retrieved chunks in append order.
func (ec *ExecutionContext) RetrievedContext() []string {
	return ec.retrievedContext
}

// AppendWebResults appends web search snippets preserving their order.
func (ec *ExecutionContext) AppendWebResults(results ...string) {
	ec.webResults = append(ec.webResults, results...)
}

// WebResults returns the accumulated web search snippets in append order.
func (ec *ExecutionContext) WebResults() []string {
	return ec.webResults
}

// SetResponse sets the generated response. It fails when a response was
// already produced.
func (ec *ExecutionContext) SetResponse(response string) error {
	if ec.responseSet {
		return errors.New("response is already set for the execution context")
	}
	ec.response = response
	ec.responseSet = true
	return nil
}

// Response returns the generated response.
func (ec *ExecutionContext) Response() string {
	return ec.response
}

// HasResponse reports whether a response was produced during the run.
func (ec *ExecutionContext) HasResponse() bool {
	return ec.responseSet
}

// RecordDegradedFailure records a recoverable provider failure for
// observability without affecting the run outcome.
func (ec *ExecutionContext) RecordDegradedFailure(failure DegradedFailure) {
	ec.degraded = append(ec.degraded, failure)
}

// DegradedFailures returns the recoverable failures recorded during the run.
func (ec *ExecutionContext) DegradedFailures() []DegradedFailure {
	return ec.degraded
}

// RunResult is the outcome of a successful workflow run.
type RunResult struct {
	RunID     string
	SessionID string
	Response  string
}
