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
	"context"
)

// ExecutorInterface is implemented by the node kind specific executors the
// engine dispatches while running a compiled plan. An executor reads from and
// mutates the execution context it is handed. A returned error is fatal and
// aborts the run; recoverable provider failures are recorded on the context
// instead and leave the return value nil.
type ExecutorInterface interface {
	Execute(ctx context.Context, execCtx *ExecutionContext, node Node) error
}
