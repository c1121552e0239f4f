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

// Package engine provides the workflow runner that drives a compiled plan
// through the node executors.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/asgardeo/flowstack/internal/executor/knowledgebase"
	"github.com/asgardeo/flowstack/internal/executor/llmengine"
	"github.com/asgardeo/flowstack/internal/executor/output"
	"github.com/asgardeo/flowstack/internal/executor/userquery"
	"github.com/asgardeo/flowstack/internal/provider/gateway"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
	"github.com/asgardeo/flowstack/internal/system/event"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/metrics"
	"github.com/asgardeo/flowstack/internal/workflow/compiler"
	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
	"github.com/asgardeo/flowstack/internal/workflow/validator"
)

const loggerComponentName = "WorkflowRunner"

var (
	instance *WorkflowRunner
	once     sync.Once
)

// WorkflowRunnerInterface defines the interface for executing a workflow
// against a prepared execution context.
type WorkflowRunnerInterface interface {
	Run(ctx context.Context, workflow *model.Workflow,
		execCtx *model.ExecutionContext) *serviceerror.ServiceError
}

// WorkflowRunner validates and compiles a workflow graph and executes the
// resulting plan strictly in order, threading one execution context through
// the node executors. The caller owns the execution context: the query is
// supplied through it and the generated response is read back from it.
type WorkflowRunner struct {
	validator validator.GraphValidatorInterface
	compiler  compiler.GraphCompilerInterface
	executors map[constants.NodeKind]model.ExecutorInterface
	publisher event.RunEventPublisherInterface
}

var _ WorkflowRunnerInterface = (*WorkflowRunner)(nil)

// GetWorkflowRunner returns the singleton workflow runner wired to the
// provider gateway and the run event publisher.
func GetWorkflowRunner() WorkflowRunnerInterface {
	once.Do(func() {
		instance = NewWorkflowRunner(
			validator.GetGraphValidator(),
			compiler.GetGraphCompiler(),
			defaultExecutors(gateway.GetProviderGateway()),
			event.GetRunEventPublisher(),
		)
	})
	return instance
}

// NewWorkflowRunner creates a workflow runner with the given collaborators.
func NewWorkflowRunner(graphValidator validator.GraphValidatorInterface,
	graphCompiler compiler.GraphCompilerInterface,
	executors map[constants.NodeKind]model.ExecutorInterface,
	publisher event.RunEventPublisherInterface) *WorkflowRunner {
	return &WorkflowRunner{
		validator: graphValidator,
		compiler:  graphCompiler,
		executors: executors,
		publisher: publisher,
	}
}

// defaultExecutors builds the executor registry for the supported node kinds.
func defaultExecutors(gw gateway.ProviderGatewayInterface) map[constants.NodeKind]model.ExecutorInterface {
	return map[constants.NodeKind]model.ExecutorInterface{
		constants.NodeKindUserQuery:     userquery.NewUserQueryExecutor(),
		constants.NodeKindKnowledgeBase: knowledgebase.NewKnowledgeBaseExecutor(gw),
		constants.NodeKindLLMEngine:     llmengine.NewLLMEngineExecutor(gw),
		constants.NodeKindOutput:        output.NewOutputExecutor(),
	}
}

// Run validates, compiles, and executes the workflow. A fatal node failure
// aborts the remaining nodes. On success the generated response is available
// on the execution context.
func (r *WorkflowRunner) Run(ctx context.Context, workflow *model.Workflow,
	execCtx *model.ExecutionContext) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, workflow.ID),
		log.String(log.LoggerKeyRunID, execCtx.RunID))

	validation := r.validator.Validate(workflow)
	if !validation.Valid {
		logger.Debug("Workflow graph failed validation",
			log.Int("findingCount", len(validation.Findings)))
		svcErr := constants.ErrorInvalidWorkflowGraph
		svcErr.ErrorDescription = validation.Summary()
		return r.abortRun(execCtx, logger, &svcErr, nil)
	}

	plan, err := r.compiler.Compile(workflow)
	if err != nil {
		logger.Error("Failed to compile the workflow graph", log.Error(err))
		return r.abortRun(execCtx, logger, &constants.ErrorGraphCompilationFailed, err)
	}

	r.publishRunEvent(execCtx, event.RunEventStatusStarted, "")

	for _, node := range plan.Sequence {
		if ctx.Err() != nil {
			return r.abortRun(execCtx, logger, &constants.ErrorRunCancelled, nil)
		}

		nodeExecutor, ok := r.executors[node.Kind]
		if !ok {
			logger.Error("No executor registered for the node kind",
				log.String(log.LoggerKeyNodeID, node.ID), log.String("nodeKind", string(node.Kind)))
			return r.abortRun(execCtx, logger, &constants.ErrorNodeExecutorNotFound, nil)
		}

		logger.Debug("Executing node", log.String(log.LoggerKeyNodeID, node.ID),
			log.String("nodeKind", string(node.Kind)))
		r.publishNodeEvent(execCtx, node, event.RunEventStatusStarted, "")

		degradedBefore := len(execCtx.DegradedFailures())
		start := time.Now()
		execErr := nodeExecutor.Execute(ctx, execCtx, node)
		duration := time.Since(start)

		if execErr != nil {
			metrics.RecordNodeExecution(string(node.Kind), metrics.NodeStatusFailed, duration)
			r.publishNodeEvent(execCtx, node, event.RunEventStatusFailed, execErr.Error())
			return r.abortRun(execCtx, logger, r.classifyNodeFailure(ctx, execErr, logger), execErr)
		}

		if len(execCtx.DegradedFailures()) > degradedBefore {
			failure := execCtx.DegradedFailures()[len(execCtx.DegradedFailures())-1]
			metrics.RecordNodeExecution(string(node.Kind), metrics.NodeStatusDegraded, duration)
			r.publishNodeEvent(execCtx, node, event.RunEventStatusDegraded, failure.Err.Error())
		} else {
			metrics.RecordNodeExecution(string(node.Kind), metrics.NodeStatusCompleted, duration)
			r.publishNodeEvent(execCtx, node, event.RunEventStatusCompleted, "")
		}
	}

	if ctx.Err() != nil {
		return r.abortRun(execCtx, logger, &constants.ErrorRunCancelled, nil)
	}

	metrics.RecordWorkflowRun(metrics.RunStatusCompleted)
	r.publishRunEvent(execCtx, event.RunEventStatusCompleted, "")
	logger.Debug("Workflow run completed")

	return nil
}

// abortRun records the failed run and publishes the terminal run event.
func (r *WorkflowRunner) abortRun(execCtx *model.ExecutionContext, logger *log.Logger,
	svcErr *serviceerror.ServiceError, cause error) *serviceerror.ServiceError {
	if cause != nil {
		logger.Debug("Aborting workflow run", log.Error(cause))
	}
	metrics.RecordWorkflowRun(metrics.RunStatusFailed)
	r.publishRunEvent(execCtx, event.RunEventStatusFailed, svcErr.ErrorDescription)
	return svcErr
}

// classifyNodeFailure maps a fatal node error to its service error.
func (r *WorkflowRunner) classifyNodeFailure(ctx context.Context, err error,
	logger *log.Logger) *serviceerror.ServiceError {
	if ctx.Err() != nil {
		return &constants.ErrorRunCancelled
	}
	if errors.Is(err, model.ErrMissingQuery) {
		return &constants.ErrorMissingQuery
	}

	var generationErr *model.GenerationError
	if errors.As(err, &generationErr) {
		logger.Error("Response generation failed",
			log.String(log.LoggerKeyNodeID, generationErr.NodeID), log.Error(err))
		return &constants.ErrorGenerationFailed
	}

	var incompleteErr *model.IncompleteRunError
	if errors.As(err, &incompleteErr) {
		logger.Error("Workflow run reached the output node without a response",
			log.String(log.LoggerKeyNodeID, incompleteErr.NodeID))
		return &constants.ErrorIncompleteRun
	}

	logger.Error("Error while executing workflow node", log.Error(err))
	return &constants.ErrorWorkflowExecutionFailed
}

func (r *WorkflowRunner) publishRunEvent(execCtx *model.ExecutionContext,
	status event.RunEventStatus, message string) {
	r.publisher.PublishRunEvent(event.RunEvent{
		RunID:      execCtx.RunID,
		WorkflowID: execCtx.WorkflowID,
		Status:     status,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	})
}

func (r *WorkflowRunner) publishNodeEvent(execCtx *model.ExecutionContext, node model.Node,
	status event.RunEventStatus, message string) {
	r.publisher.PublishRunEvent(event.RunEvent{
		RunID:      execCtx.RunID,
		WorkflowID: execCtx.WorkflowID,
		NodeID:     node.ID,
		NodeKind:   string(node.Kind),
		Status:     status,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	})
}
