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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) TestRecordWorkflowRun() {
	t := suite.T()

	before := testutil.ToFloat64(workflowRunsTotal.WithLabelValues(RunStatusCompleted))
	RecordWorkflowRun(RunStatusCompleted)
	after := testutil.ToFloat64(workflowRunsTotal.WithLabelValues(RunStatusCompleted))

	assert.Equal(t, before+1, after)
}

func (suite *MetricsTestSuite) TestRecordNodeExecution() {
	t := suite.T()

	before := testutil.ToFloat64(nodeExecutionsTotal.WithLabelValues("llmEngine", NodeStatusCompleted))
	RecordNodeExecution("llmEngine", NodeStatusCompleted, 25*time.Millisecond)
	after := testutil.ToFloat64(nodeExecutionsTotal.WithLabelValues("llmEngine", NodeStatusCompleted))

	assert.Equal(t, before+1, after)
}

func (suite *MetricsTestSuite) TestRecordProviderCall() {
	t := suite.T()

	before := testutil.ToFloat64(providerCallsTotal.WithLabelValues("openai", "generate", CallStatusSuccess))
	RecordProviderCall("openai", "generate", CallStatusSuccess, 120*time.Millisecond)
	after := testutil.ToFloat64(providerCallsTotal.WithLabelValues("openai", "generate", CallStatusSuccess))

	assert.Equal(t, before+1, after)
}

func (suite *MetricsTestSuite) TestRecordProviderRetry() {
	t := suite.T()

	before := testutil.ToFloat64(providerRetriesTotal.WithLabelValues("serpapi", "search"))
	RecordProviderRetry("serpapi", "search")
	after := testutil.ToFloat64(providerRetriesTotal.WithLabelValues("serpapi", "search"))

	assert.Equal(t, before+1, after)
}

func (suite *MetricsTestSuite) TestHandlerServesMetrics() {
	t := suite.T()

	RecordWorkflowRun(RunStatusCompleted)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flowstack_workflow_runs_total")
}
