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

// Package llmengine provides the executor that assembles the generation
// prompt and produces the run response through a language model provider.
package llmengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/asgardeo/flowstack/internal/provider/gateway"
	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

const (
	loggerComponentName = "LLMEngineExecutor"

	chatHistoryHeader      = "Chat History:"
	retrievedContextHeader = "Use the following context to answer the question:"
	webResultsHeader       = "Web Search Results:"
	sectionSeparator       = "\n\n"
)

// LLMEngineExecutor optionally runs a web search, assembles the generation
// prompt from the accumulated run context, and stores the generated response.
// Web search failures degrade to an omitted prompt section; generation
// failures are fatal and abort the run.
type LLMEngineExecutor struct {
	gateway gateway.ProviderGatewayInterface
}

var _ model.ExecutorInterface = (*LLMEngineExecutor)(nil)

// NewLLMEngineExecutor creates an LLM engine executor backed by the given
// provider gateway.
func NewLLMEngineExecutor(gw gateway.ProviderGatewayInterface) *LLMEngineExecutor {
	return &LLMEngineExecutor{
		gateway: gw,
	}
}

// Execute generates the run response from the accumulated context.
func (e *LLMEngineExecutor) Execute(ctx context.Context, execCtx *model.ExecutionContext,
	node model.Node) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyRunID, execCtx.RunID),
		log.String(log.LoggerKeyNodeID, node.ID))

	cfg := node.LLMEngineConfig()

	if cfg.UseWebSearch {
		results, err := e.searchWeb(ctx, execCtx.Query(), cfg.WebSearchProvider)
		if err != nil {
			execCtx.RecordDegradedFailure(model.DegradedFailure{
				NodeID: node.ID,
				Stage:  constants.DegradedStageWebSearch,
				Err:    &model.WebSearchError{NodeID: node.ID, Err: err},
			})
			logger.Warn("Web search failed, continuing without web results",
				log.String("webSearchProvider", cfg.WebSearchProvider), log.Error(err))
		} else {
			formatted := make([]string, 0, len(results))
			for _, result := range results {
				formatted = append(formatted, result.Format())
			}
			execCtx.AppendWebResults(formatted...)
			logger.Debug("Appended web search results to the run",
				log.String("webSearchProvider", cfg.WebSearchProvider),
				log.Int("resultCount", len(formatted)))
		}
	}

	prompt := BuildPrompt(execCtx, cfg)

	generator, err := e.gateway.GetGenerator(cfg.LLMProvider)
	if err != nil {
		return &model.GenerationError{NodeID: node.ID, Err: err}
	}
	response, err := generator.Generate(ctx, prompt, cfg.Model)
	if err != nil {
		return &model.GenerationError{NodeID: node.ID, Err: err}
	}
	if err := execCtx.SetResponse(response); err != nil {
		return &model.GenerationError{NodeID: node.ID, Err: err}
	}

	logger.Debug("Generated response for the run", log.String("llmProvider", cfg.LLMProvider))
	return nil
}

// searchWeb runs the configured web search provider against the run query.
func (e *LLMEngineExecutor) searchWeb(ctx context.Context, query,
	provider string) ([]providermodel.SearchResult, error) {
	searcher, err := e.gateway.GetWebSearcher(provider)
	if err != nil {
		return nil, err
	}
	results, err := searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search the web: %w", err)
	}
	return results, nil
}

// BuildPrompt assembles the generation prompt from the accumulated run
// context. Sections appear in a fixed order and only when they have content:
// the custom instruction, the chat history, the retrieved context, the web
// search results, and finally the raw query. A run with no configured
// instruction and no accumulated context sends the query verbatim.
func BuildPrompt(execCtx *model.ExecutionContext, cfg model.LLMEngineConfig) string {
	sections := make([]string, 0, 5)

	if cfg.CustomPrompt != "" {
		sections = append(sections, cfg.CustomPrompt)
	}

	if len(execCtx.History) > 0 {
		lines := make([]string, 0, len(execCtx.History)+1)
		lines = append(lines, chatHistoryHeader)
		for _, turn := range execCtx.History {
			lines = append(lines, turn.Role+": "+turn.Content)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if chunks := execCtx.RetrievedContext(); len(chunks) > 0 {
		sections = append(sections, retrievedContextHeader+sectionSeparator+
			strings.Join(chunks, sectionSeparator))
	}

	if results := execCtx.WebResults(); len(results) > 0 {
		sections = append(sections, webResultsHeader+"\n"+strings.Join(results, "\n"))
	}

	sections = append(sections, execCtx.Query())

	return strings.Join(sections, sectionSeparator)
}
