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

package knowledgebase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
	"github.com/asgardeo/flowstack/tests/mocks/gatewaymock"
)

type KnowledgeBaseExecutorTestSuite struct {
	suite.Suite
	mockGateway   *gatewaymock.MockProviderGateway
	mockEmbedder  *gatewaymock.MockEmbedder
	mockRetriever *gatewaymock.MockRetriever
	executor      *KnowledgeBaseExecutor
}

func TestKnowledgeBaseExecutorTestSuite(t *testing.T) {
	suite.Run(t, new(KnowledgeBaseExecutorTestSuite))
}

func (s *KnowledgeBaseExecutorTestSuite) SetupTest() {
	s.mockEmbedder = &gatewaymock.MockEmbedder{
		MockEmbed: func(ctx context.Context, text string) ([]float32, error) {
			return []float32{0.1, 0.2, 0.3}, nil
		},
	}
	s.mockRetriever = &gatewaymock.MockRetriever{}
	s.mockGateway = &gatewaymock.MockProviderGateway{
		MockGetEmbedder: func(provider string) (providermodel.Embedder, error) {
			return s.mockEmbedder, nil
		},
		MockGetRetriever: func() (providermodel.Retriever, error) {
			return s.mockRetriever, nil
		},
	}
	s.executor = NewKnowledgeBaseExecutor(s.mockGateway)
}

func (s *KnowledgeBaseExecutorTestSuite) newRunContext(query string) *model.ExecutionContext {
	execCtx := model.NewExecutionContext("run-1", "wf-1", query)
	s.Require().NoError(execCtx.SetQuery(query))
	return execCtx
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteAppendsRetrievedChunks() {
	s.mockRetriever.MockSearch = func(ctx context.Context, embedding []float32, topK int,
		knowledgeBaseID string) ([]providermodel.Chunk, error) {
		return []providermodel.Chunk{
			{Content: "ML is...", Score: 0.1},
			{Content: "Subfield of AI...", Score: 0.2},
			{Content: "Uses data...", Score: 0.3},
		}, nil
	}
	execCtx := s.newRunContext("What is ML?")
	node := model.Node{
		ID:   "kb-1",
		Kind: constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{
			"knowledgeBaseId": "docs",
			"topK":            3,
		},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Equal([]string{"ML is...", "Subfield of AI...", "Uses data..."}, execCtx.RetrievedContext())
	s.Empty(execCtx.DegradedFailures())

	s.Equal([]string{"What is ML?"}, s.mockEmbedder.EmbedCalls)
	s.Require().Len(s.mockRetriever.SearchCalls, 1)
	search := s.mockRetriever.SearchCalls[0]
	s.Equal([]float32{0.1, 0.2, 0.3}, search.Embedding)
	s.Equal(3, search.TopK)
	s.Equal("docs", search.KnowledgeBaseID)
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteAppliesConfigDefaults() {
	execCtx := s.newRunContext("What is ML?")
	node := model.Node{
		ID:   "kb-1",
		Kind: constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{
			"knowledgeBaseId": "docs",
		},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Equal([]string{constants.EmbeddingProviderOpenAI}, s.mockGateway.GetEmbedderCalls)
	s.Require().Len(s.mockRetriever.SearchCalls, 1)
	s.Equal(constants.DefaultTopK, s.mockRetriever.SearchCalls[0].TopK)
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteUsesConfiguredEmbeddingProvider() {
	execCtx := s.newRunContext("What is ML?")
	node := model.Node{
		ID:   "kb-1",
		Kind: constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{
			"knowledgeBaseId": "docs",
			"embeddingModel":  "cohere",
			"topK":            7,
		},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Equal([]string{"cohere"}, s.mockGateway.GetEmbedderCalls)
	s.Require().Len(s.mockRetriever.SearchCalls, 1)
	s.Equal(7, s.mockRetriever.SearchCalls[0].TopK)
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteDegradesOnEmbedderLookupFailure() {
	s.mockGateway.MockGetEmbedder = func(provider string) (providermodel.Embedder, error) {
		return nil, errors.New("unsupported embedding provider: anthropic")
	}
	execCtx := s.newRunContext("What is ML?")
	node := model.Node{
		ID:   "kb-1",
		Kind: constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{
			"knowledgeBaseId": "docs",
			"embeddingModel":  "anthropic",
		},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Empty(execCtx.RetrievedContext())
	s.Require().Len(execCtx.DegradedFailures(), 1)

	failure := execCtx.DegradedFailures()[0]
	s.Equal("kb-1", failure.NodeID)
	s.Equal(constants.DegradedStageRetrieval, failure.Stage)

	var retrievalErr *model.RetrievalError
	s.Require().ErrorAs(failure.Err, &retrievalErr)
	s.Equal("kb-1", retrievalErr.NodeID)
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteDegradesOnEmbedFailure() {
	s.mockEmbedder.MockEmbed = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("openai API error: status 429: rate limited")
	}
	execCtx := s.newRunContext("What is ML?")
	node := model.Node{
		ID:     "kb-1",
		Kind:   constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{"knowledgeBaseId": "docs"},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Empty(execCtx.RetrievedContext())
	s.Require().Len(execCtx.DegradedFailures(), 1)
	s.Empty(s.mockRetriever.SearchCalls)
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteDegradesOnSearchFailure() {
	searchErr := errors.New("failed to search vector store: connection refused")
	s.mockRetriever.MockSearch = func(ctx context.Context, embedding []float32, topK int,
		knowledgeBaseID string) ([]providermodel.Chunk, error) {
		return nil, searchErr
	}
	execCtx := s.newRunContext("What is ML?")
	node := model.Node{
		ID:     "kb-1",
		Kind:   constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{"knowledgeBaseId": "docs"},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Empty(execCtx.RetrievedContext())
	s.Require().Len(execCtx.DegradedFailures(), 1)
	s.ErrorIs(execCtx.DegradedFailures()[0].Err, searchErr)
}

func (s *KnowledgeBaseExecutorTestSuite) TestExecuteAppendsAfterExistingContext() {
	s.mockRetriever.MockSearch = func(ctx context.Context, embedding []float32, topK int,
		knowledgeBaseID string) ([]providermodel.Chunk, error) {
		return []providermodel.Chunk{{Content: "Uses data...", Score: 0.3}}, nil
	}
	execCtx := s.newRunContext("What is ML?")
	execCtx.AppendRetrievedContext("ML is...")
	node := model.Node{
		ID:     "kb-2",
		Kind:   constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{"knowledgeBaseId": "wiki"},
	}

	err := s.executor.Execute(context.Background(), execCtx, node)

	s.Require().NoError(err)
	s.Equal([]string{"ML is...", "Uses data..."}, execCtx.RetrievedContext())
}
