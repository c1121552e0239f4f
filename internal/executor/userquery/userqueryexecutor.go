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

// Package userquery provides the executor that admits the user query into a run.
package userquery

import (
	"context"
	"strings"

	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

const loggerComponentName = "UserQueryExecutor"

// UserQueryExecutor copies the externally supplied query into the execution
// context. The raw query is preserved as given; only all-whitespace queries
// are rejected.
type UserQueryExecutor struct{}

var _ model.ExecutorInterface = (*UserQueryExecutor)(nil)

// NewUserQueryExecutor creates a new instance of UserQueryExecutor.
func NewUserQueryExecutor() *UserQueryExecutor {
	return &UserQueryExecutor{}
}

// Execute admits the supplied query into the run context.
func (e *UserQueryExecutor) Execute(ctx context.Context, execCtx *model.ExecutionContext,
	node model.Node) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyRunID, execCtx.RunID))

	if strings.TrimSpace(execCtx.ProvidedQuery()) == "" {
		return model.ErrMissingQuery
	}
	if err := execCtx.SetQuery(execCtx.ProvidedQuery()); err != nil {
		return err
	}

	logger.Debug("Admitted user query into the run", log.String(log.LoggerKeyNodeID, node.ID))
	return nil
}
