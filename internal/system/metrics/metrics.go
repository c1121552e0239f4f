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

// Package metrics provides Prometheus instrumentation for workflow runs and provider calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	workflowRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_workflow_runs_total",
			Help: "Total number of workflow runs",
		},
		[]string{"status"},
	)
	nodeExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_node_executions_total",
			Help: "Total number of node executions",
		},
		[]string{"kind", "status"},
	)
	nodeExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "flowstack_node_execution_duration_seconds",
			Help: "Duration of node executions",
		},
		[]string{"kind"},
	)
	providerCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_provider_calls_total",
			Help: "Total number of external provider calls",
		},
		[]string{"provider", "operation", "status"},
	)
	providerCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "flowstack_provider_call_duration_seconds",
			Help: "Duration of external provider calls",
		},
		[]string{"provider", "operation"},
	)
	providerRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowstack_provider_retries_total",
			Help: "Total number of retried provider calls",
		},
		[]string{"provider", "operation"},
	)
)

func init() {
	prometheus.MustRegister(workflowRunsTotal)
	prometheus.MustRegister(nodeExecutionsTotal)
	prometheus.MustRegister(nodeExecutionDuration)
	prometheus.MustRegister(providerCallsTotal)
	prometheus.MustRegister(providerCallDuration)
	prometheus.MustRegister(providerRetriesTotal)
}

// Run statuses recorded for workflow runs.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Node statuses recorded for node executions.
const (
	NodeStatusCompleted = "completed"
	NodeStatusDegraded  = "degraded"
	NodeStatusFailed    = "failed"
)

// Call statuses recorded for provider calls.
const (
	CallStatusSuccess = "success"
	CallStatusError   = "error"
)

// RecordWorkflowRun records a finished workflow run.
func RecordWorkflowRun(status string) {
	workflowRunsTotal.WithLabelValues(status).Inc()
}

// RecordNodeExecution records a finished node execution.
func RecordNodeExecution(kind, status string, duration time.Duration) {
	nodeExecutionsTotal.WithLabelValues(kind, status).Inc()
	nodeExecutionDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordProviderCall records a finished external provider call.
func RecordProviderCall(provider, operation, status string, duration time.Duration) {
	providerCallsTotal.WithLabelValues(provider, operation, status).Inc()
	providerCallDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordProviderRetry records a retried external provider call.
func RecordProviderRetry(provider, operation string) {
	providerRetriesTotal.WithLabelValues(provider, operation).Inc()
}

// Handler returns the HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
