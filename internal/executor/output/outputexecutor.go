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

// Package output provides the executor that finalizes the run response.
package output

import (
	"context"

	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

const loggerComponentName = "OutputExecutor"

// OutputExecutor marks the accumulated response as the run's final result.
// Reaching the output node without a produced response indicates the graph
// never executed a reachable generation node.
type OutputExecutor struct{}

var _ model.ExecutorInterface = (*OutputExecutor)(nil)

// NewOutputExecutor creates a new instance of OutputExecutor.
func NewOutputExecutor() *OutputExecutor {
	return &OutputExecutor{}
}

// Execute finalizes the run response.
func (e *OutputExecutor) Execute(ctx context.Context, execCtx *model.ExecutionContext,
	node model.Node) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyRunID, execCtx.RunID))

	if !execCtx.HasResponse() {
		return &model.IncompleteRunError{NodeID: node.ID}
	}

	logger.Debug("Finalized run response", log.String(log.LoggerKeyNodeID, node.ID))
	return nil
}
