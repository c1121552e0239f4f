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

// Package knowledgebase provides the executor that retrieves reference chunks
// for the run query from a configured knowledge base.
package knowledgebase

import (
	"context"
	"fmt"

	"github.com/asgardeo/flowstack/internal/provider/gateway"
	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

const loggerComponentName = "KnowledgeBaseExecutor"

// KnowledgeBaseExecutor embeds the run query, searches the configured
// knowledge base, and appends the returned chunks to the execution context in
// relevance order. Retrieval failures degrade the node to a no-op: the
// failure is recorded on the context and the run continues without retrieved
// context.
type KnowledgeBaseExecutor struct {
	gateway gateway.ProviderGatewayInterface
}

var _ model.ExecutorInterface = (*KnowledgeBaseExecutor)(nil)

// NewKnowledgeBaseExecutor creates a knowledge base executor backed by the
// given provider gateway.
func NewKnowledgeBaseExecutor(gw gateway.ProviderGatewayInterface) *KnowledgeBaseExecutor {
	return &KnowledgeBaseExecutor{
		gateway: gw,
	}
}

// Execute retrieves reference chunks for the run query and appends them to
// the execution context.
func (e *KnowledgeBaseExecutor) Execute(ctx context.Context, execCtx *model.ExecutionContext,
	node model.Node) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyRunID, execCtx.RunID),
		log.String(log.LoggerKeyNodeID, node.ID))

	cfg := node.KnowledgeBaseConfig()

	chunks, err := e.retrieve(ctx, execCtx.Query(), cfg)
	if err != nil {
		execCtx.RecordDegradedFailure(model.DegradedFailure{
			NodeID: node.ID,
			Stage:  constants.DegradedStageRetrieval,
			Err:    &model.RetrievalError{NodeID: node.ID, Err: err},
		})
		logger.Warn("Knowledge base retrieval failed, continuing without retrieved context",
			log.String("knowledgeBaseId", cfg.KnowledgeBaseID), log.Error(err))
		return nil
	}

	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Content)
	}
	execCtx.AppendRetrievedContext(contents...)

	logger.Debug("Appended retrieved context to the run",
		log.String("knowledgeBaseId", cfg.KnowledgeBaseID), log.Int("chunkCount", len(contents)))
	return nil
}

// retrieve embeds the query with the configured embedding provider and runs a
// similarity search against the knowledge base.
func (e *KnowledgeBaseExecutor) retrieve(ctx context.Context, query string,
	cfg model.KnowledgeBaseConfig) ([]providermodel.Chunk, error) {
	embedder, err := e.gateway.GetEmbedder(cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	embedding, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed the run query: %w", err)
	}

	retriever, err := e.gateway.GetRetriever()
	if err != nil {
		return nil, err
	}
	chunks, err := retriever.Search(ctx, embedding, cfg.TopK, cfg.KnowledgeBaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to search the knowledge base: %w", err)
	}

	return chunks, nil
}
