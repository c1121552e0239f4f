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

package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/flowstack/internal/executor/output"
	"github.com/asgardeo/flowstack/internal/executor/userquery"
	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/event"
	"github.com/asgardeo/flowstack/internal/workflow/compiler"
	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
	"github.com/asgardeo/flowstack/internal/workflow/validator"
	"github.com/asgardeo/flowstack/tests/mocks/gatewaymock"
)

type stubExecutor struct {
	execute func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error
}

func (s *stubExecutor) Execute(ctx context.Context, execCtx *model.ExecutionContext,
	node model.Node) error {
	if s.execute != nil {
		return s.execute(ctx, execCtx, node)
	}
	return nil
}

type stubCompiler struct {
	err error
}

func (c *stubCompiler) Compile(workflow *model.Workflow) (*model.ExecutionPlan, error) {
	return nil, c.err
}

type recordingPublisher struct {
	events []event.RunEvent
}

func (p *recordingPublisher) PublishRunEvent(e event.RunEvent) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) lastStatus() event.RunEventStatus {
	if len(p.events) == 0 {
		return ""
	}
	return p.events[len(p.events)-1].Status
}

type WorkflowRunnerTestSuite struct {
	suite.Suite
	publisher *recordingPublisher
}

func TestWorkflowRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowRunnerTestSuite))
}

func (s *WorkflowRunnerTestSuite) SetupTest() {
	s.publisher = &recordingPublisher{}
}

func (s *WorkflowRunnerTestSuite) newRunner(
	executors map[constants.NodeKind]model.ExecutorInterface) *WorkflowRunner {
	return NewWorkflowRunner(validator.GetGraphValidator(), compiler.GetGraphCompiler(),
		executors, s.publisher)
}

// recordingExecutors returns a registry of pass-through executors that record
// the executed node ids in order. The LLM engine stub produces a response so
// the output node succeeds.
func recordingExecutors(executed *[]string) map[constants.NodeKind]model.ExecutorInterface {
	record := func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error {
		*executed = append(*executed, node.ID)
		return nil
	}
	return map[constants.NodeKind]model.ExecutorInterface{
		constants.NodeKindUserQuery: &stubExecutor{execute: record},
		constants.NodeKindKnowledgeBase: &stubExecutor{execute: record},
		constants.NodeKindLLMEngine: &stubExecutor{
			execute: func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error {
				*executed = append(*executed, node.ID)
				return execCtx.SetResponse("generated answer")
			},
		},
		constants.NodeKindOutput: &stubExecutor{execute: record},
	}
}

func linearWorkflow() *model.Workflow {
	return &model.Workflow{
		ID:   "wf-1",
		Name: "linear",
		Nodes: []model.Node{
			{ID: "query-1", Kind: constants.NodeKindUserQuery},
			{ID: "llm-1", Kind: constants.NodeKindLLMEngine},
			{ID: "output-1", Kind: constants.NodeKindOutput},
		},
		Edges: []model.Edge{
			{Source: "query-1", Target: "llm-1"},
			{Source: "llm-1", Target: "output-1"},
		},
	}
}

func diamondWorkflow() *model.Workflow {
	return &model.Workflow{
		ID:   "wf-1",
		Name: "diamond",
		Nodes: []model.Node{
			{ID: "query-1", Kind: constants.NodeKindUserQuery},
			{
				ID:     "kb-a",
				Kind:   constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{"knowledgeBaseId": "docs"},
			},
			{
				ID:     "kb-b",
				Kind:   constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{"knowledgeBaseId": "wiki"},
			},
			{ID: "llm-1", Kind: constants.NodeKindLLMEngine},
			{ID: "output-1", Kind: constants.NodeKindOutput},
		},
		Edges: []model.Edge{
			{Source: "query-1", Target: "kb-a"},
			{Source: "query-1", Target: "kb-b"},
			{Source: "kb-a", Target: "llm-1"},
			{Source: "kb-b", Target: "llm-1"},
			{Source: "llm-1", Target: "output-1"},
		},
	}
}

func newRunContext(query string) *model.ExecutionContext {
	return model.NewExecutionContext("run-1", "wf-1", query)
}

func (s *WorkflowRunnerTestSuite) TestRunExecutesPlanInOrder() {
	executed := make([]string, 0)
	runner := s.newRunner(recordingExecutors(&executed))
	execCtx := newRunContext("What is ML?")

	svcErr := runner.Run(context.Background(), diamondWorkflow(), execCtx)

	s.Require().Nil(svcErr)
	s.Equal([]string{"query-1", "kb-a", "kb-b", "llm-1", "output-1"}, executed)
	s.Equal("generated answer", execCtx.Response())
	s.Equal(event.RunEventStatusCompleted, s.publisher.lastStatus())
}

func (s *WorkflowRunnerTestSuite) TestRunRejectsInvalidGraph() {
	executed := make([]string, 0)
	runner := s.newRunner(recordingExecutors(&executed))
	workflow := linearWorkflow()
	workflow.Nodes = append(workflow.Nodes, model.Node{ID: "query-2", Kind: constants.NodeKindUserQuery})

	svcErr := runner.Run(context.Background(), workflow, newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorInvalidWorkflowGraph.Code, svcErr.Code)
	s.NotEmpty(svcErr.ErrorDescription)
	s.Empty(executed)

	// A refused run still surfaces on the event stream as a failed run.
	s.Require().Len(s.publisher.events, 1)
	s.Equal(event.RunEventStatusFailed, s.publisher.events[0].Status)
	s.Equal(svcErr.ErrorDescription, s.publisher.events[0].Message)
}

func (s *WorkflowRunnerTestSuite) TestRunPublishesFailedEventOnCompileFailure() {
	executed := make([]string, 0)
	runner := NewWorkflowRunner(validator.GetGraphValidator(),
		&stubCompiler{err: errors.New("node out of order")},
		recordingExecutors(&executed), s.publisher)

	svcErr := runner.Run(context.Background(), linearWorkflow(), newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorGraphCompilationFailed.Code, svcErr.Code)
	s.Empty(executed)
	s.Require().Len(s.publisher.events, 1)
	s.Equal(event.RunEventStatusFailed, s.publisher.events[0].Status)
}

func (s *WorkflowRunnerTestSuite) TestRunFailsWhenExecutorMissing() {
	executed := make([]string, 0)
	executors := recordingExecutors(&executed)
	delete(executors, constants.NodeKindOutput)
	runner := s.newRunner(executors)

	svcErr := runner.Run(context.Background(), linearWorkflow(), newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorNodeExecutorNotFound.Code, svcErr.Code)
	s.Equal([]string{"query-1", "llm-1"}, executed)
	s.Equal(event.RunEventStatusFailed, s.publisher.lastStatus())
}

func (s *WorkflowRunnerTestSuite) TestRunClassifiesMissingQuery() {
	executed := make([]string, 0)
	executors := recordingExecutors(&executed)
	executors[constants.NodeKindUserQuery] = userquery.NewUserQueryExecutor()
	runner := s.newRunner(executors)

	svcErr := runner.Run(context.Background(), linearWorkflow(), newRunContext("   "))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorMissingQuery.Code, svcErr.Code)
	s.Empty(executed)
}

func (s *WorkflowRunnerTestSuite) TestRunClassifiesGenerationFailure() {
	executed := make([]string, 0)
	executors := recordingExecutors(&executed)
	executors[constants.NodeKindLLMEngine] = &stubExecutor{
		execute: func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error {
			return &model.GenerationError{NodeID: node.ID, Err: errors.New("provider unavailable")}
		},
	}
	runner := s.newRunner(executors)

	svcErr := runner.Run(context.Background(), linearWorkflow(), newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorGenerationFailed.Code, svcErr.Code)
	s.Equal([]string{"query-1"}, executed)
	s.Equal(event.RunEventStatusFailed, s.publisher.lastStatus())
}

func (s *WorkflowRunnerTestSuite) TestRunClassifiesIncompleteRun() {
	executed := make([]string, 0)
	executors := recordingExecutors(&executed)
	executors[constants.NodeKindLLMEngine] = &stubExecutor{
		execute: func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error {
			return nil
		},
	}
	executors[constants.NodeKindOutput] = output.NewOutputExecutor()
	runner := s.newRunner(executors)

	svcErr := runner.Run(context.Background(), linearWorkflow(), newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorIncompleteRun.Code, svcErr.Code)
}

func (s *WorkflowRunnerTestSuite) TestRunCancelledBeforeExecution() {
	executed := make([]string, 0)
	runner := s.newRunner(recordingExecutors(&executed))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svcErr := runner.Run(ctx, linearWorkflow(), newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorRunCancelled.Code, svcErr.Code)
	s.Empty(executed)
	s.Equal(event.RunEventStatusFailed, s.publisher.lastStatus())
}

func (s *WorkflowRunnerTestSuite) TestRunCancelledDuringNode() {
	executed := make([]string, 0)
	executors := recordingExecutors(&executed)
	ctx, cancel := context.WithCancel(context.Background())
	executors[constants.NodeKindLLMEngine] = &stubExecutor{
		execute: func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error {
			cancel()
			return &model.GenerationError{NodeID: node.ID, Err: ctx.Err()}
		},
	}
	runner := s.newRunner(executors)

	svcErr := runner.Run(ctx, linearWorkflow(), newRunContext("What is ML?"))

	s.Require().NotNil(svcErr)
	s.Equal(constants.ErrorRunCancelled.Code, svcErr.Code)
}

func (s *WorkflowRunnerTestSuite) TestRunPublishesDegradedNodeEvent() {
	executed := make([]string, 0)
	executors := recordingExecutors(&executed)
	executors[constants.NodeKindKnowledgeBase] = &stubExecutor{
		execute: func(ctx context.Context, execCtx *model.ExecutionContext, node model.Node) error {
			execCtx.RecordDegradedFailure(model.DegradedFailure{
				NodeID: node.ID,
				Stage:  constants.DegradedStageRetrieval,
				Err:    &model.RetrievalError{NodeID: node.ID, Err: errors.New("vector store down")},
			})
			return nil
		},
	}
	runner := s.newRunner(executors)

	svcErr := runner.Run(context.Background(), diamondWorkflow(), newRunContext("What is ML?"))

	s.Require().Nil(svcErr)
	degraded := make([]string, 0)
	for _, e := range s.publisher.events {
		if e.Status == event.RunEventStatusDegraded {
			degraded = append(degraded, e.NodeID)
		}
	}
	s.Equal([]string{"kb-a", "kb-b"}, degraded)
	s.Equal(event.RunEventStatusCompleted, s.publisher.lastStatus())
}

func (s *WorkflowRunnerTestSuite) TestRunEndToEndWithProviderMocks() {
	expectedPrompt := "Use the following context to answer the question:\n\n" +
		"ML is...\n\nSubfield of AI...\n\nUses data...\n\nWhat is ML?"
	mockGateway := &gatewaymock.MockProviderGateway{
		MockGetEmbedder: func(provider string) (providermodel.Embedder, error) {
			return &gatewaymock.MockEmbedder{
				MockEmbed: func(ctx context.Context, text string) ([]float32, error) {
					return []float32{0.1, 0.2}, nil
				},
			}, nil
		},
		MockGetRetriever: func() (providermodel.Retriever, error) {
			return &gatewaymock.MockRetriever{
				MockSearch: func(ctx context.Context, embedding []float32, topK int,
					knowledgeBaseID string) ([]providermodel.Chunk, error) {
					return []providermodel.Chunk{
						{Content: "ML is..."},
						{Content: "Subfield of AI..."},
						{Content: "Uses data..."},
					}, nil
				},
			}, nil
		},
		MockGetGenerator: func(provider string) (providermodel.Generator, error) {
			return &gatewaymock.MockGenerator{
				MockGenerate: func(ctx context.Context, prompt, model string) (string, error) {
					if prompt != expectedPrompt {
						return "", fmt.Errorf("unexpected prompt: %q", prompt)
					}
					return "ML is the study of algorithms that learn from data.", nil
				},
			}, nil
		},
	}
	runner := s.newRunner(defaultExecutors(mockGateway))
	workflow := &model.Workflow{
		ID:   "wf-1",
		Name: "rag",
		Nodes: []model.Node{
			{ID: "query-1", Kind: constants.NodeKindUserQuery},
			{
				ID:     "kb-1",
				Kind:   constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{"knowledgeBaseId": "docs", "topK": 3},
			},
			{ID: "llm-1", Kind: constants.NodeKindLLMEngine},
			{ID: "output-1", Kind: constants.NodeKindOutput},
		},
		Edges: []model.Edge{
			{Source: "query-1", Target: "kb-1"},
			{Source: "kb-1", Target: "llm-1"},
			{Source: "llm-1", Target: "output-1"},
		},
	}
	execCtx := newRunContext("What is ML?")

	svcErr := runner.Run(context.Background(), workflow, execCtx)

	s.Require().Nil(svcErr)
	s.Equal("ML is the study of algorithms that learn from data.", execCtx.Response())
	s.Empty(execCtx.DegradedFailures())
	s.Equal(event.RunEventStatusCompleted, s.publisher.lastStatus())
}
