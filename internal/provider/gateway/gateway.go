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

// Package gateway selects provider capability implementations by name and
// decorates every returned capability with timeout and retry handling.
package gateway

import (
	"fmt"
	"sync"

	"github.com/asgardeo/flowstack/internal/provider/brave"
	"github.com/asgardeo/flowstack/internal/provider/cohere"
	"github.com/asgardeo/flowstack/internal/provider/gemini"
	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/provider/openai"
	"github.com/asgardeo/flowstack/internal/provider/pgvector"
	"github.com/asgardeo/flowstack/internal/provider/serpapi"
	"github.com/asgardeo/flowstack/internal/system/config"
)

const loggerComponentName = "ProviderGateway"

// Provider names accepted by the gateway.
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderCohere   = "cohere"
	ProviderSerpAPI  = "serpapi"
	ProviderBrave    = "brave"
	ProviderPgVector = "pgvector"
)

// ProviderGatewayInterface hands out provider capabilities to node executors.
type ProviderGatewayInterface interface {
	// GetEmbedder returns the embedder for the given provider name.
	GetEmbedder(provider string) (providermodel.Embedder, error)
	// GetRetriever returns the retriever over the configured vector store.
	GetRetriever() (providermodel.Retriever, error)
	// GetGenerator returns the generator for the given provider name.
	GetGenerator(provider string) (providermodel.Generator, error)
	// GetWebSearcher returns the web searcher for the given provider name.
	GetWebSearcher(provider string) (providermodel.WebSearcher, error)
}

// ProviderGateway is the implementation of ProviderGatewayInterface. Clients
// are created lazily per provider and reused across runs.
type ProviderGateway struct {
	providers config.ProvidersConfig
	vector    config.VectorStoreConfig
	policy    retryPolicy

	mu         sync.Mutex
	embedders  map[string]providermodel.Embedder
	generators map[string]providermodel.Generator
	searchers  map[string]providermodel.WebSearcher
	retriever  providermodel.Retriever
}

var (
	instance *ProviderGateway
	once     sync.Once
)

// GetProviderGateway returns the singleton instance of ProviderGateway.
func GetProviderGateway() ProviderGatewayInterface {
	once.Do(func() {
		cfg := config.GetFlowstackRuntime().Config
		instance = NewProviderGateway(cfg.Providers, cfg.VectorStore, cfg.Engine)
	})
	return instance
}

// NewProviderGateway creates a new ProviderGateway from the given configuration.
func NewProviderGateway(
	providers config.ProvidersConfig, vector config.VectorStoreConfig, engine config.EngineConfig,
) *ProviderGateway {
	return &ProviderGateway{
		providers:  providers,
		vector:     vector,
		policy:     newRetryPolicy(engine),
		embedders:  make(map[string]providermodel.Embedder),
		generators: make(map[string]providermodel.Generator),
		searchers:  make(map[string]providermodel.WebSearcher),
	}
}

// GetEmbedder returns the embedder for the given provider name.
func (g *ProviderGateway) GetEmbedder(provider string) (providermodel.Embedder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if embedder, ok := g.embedders[provider]; ok {
		return embedder, nil
	}

	var inner providermodel.Embedder
	var err error
	switch provider {
	case ProviderOpenAI:
		inner, err = openai.NewOpenAIClient(g.providers.OpenAI)
	case ProviderGemini:
		inner, err = gemini.NewGeminiClient(g.providers.Gemini)
	case ProviderCohere:
		inner, err = cohere.NewCohereClient(g.providers.Cohere)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	embedder := &retryingEmbedder{inner: inner, provider: provider, policy: g.policy}
	g.embedders[provider] = embedder
	return embedder, nil
}

// GetRetriever returns the retriever over the configured vector store.
func (g *ProviderGateway) GetRetriever() (providermodel.Retriever, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.retriever == nil {
		g.retriever = &retryingRetriever{
			inner:    pgvector.NewPgVectorRetriever(g.vector),
			provider: ProviderPgVector,
			policy:   g.policy,
		}
	}
	return g.retriever, nil
}

// GetGenerator returns the generator for the given provider name.
func (g *ProviderGateway) GetGenerator(provider string) (providermodel.Generator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if generator, ok := g.generators[provider]; ok {
		return generator, nil
	}

	var inner providermodel.Generator
	var err error
	switch provider {
	case ProviderOpenAI:
		inner, err = openai.NewOpenAIClient(g.providers.OpenAI)
	case ProviderGemini:
		inner, err = gemini.NewGeminiClient(g.providers.Gemini)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	generator := &retryingGenerator{inner: inner, provider: provider, policy: g.policy}
	g.generators[provider] = generator
	return generator, nil
}

// GetWebSearcher returns the web searcher for the given provider name.
func (g *ProviderGateway) GetWebSearcher(provider string) (providermodel.WebSearcher, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if searcher, ok := g.searchers[provider]; ok {
		return searcher, nil
	}

	var inner providermodel.WebSearcher
	var err error
	switch provider {
	case ProviderSerpAPI:
		inner, err = serpapi.NewSerpAPIClient(g.providers.SerpAPI)
	case ProviderBrave:
		inner, err = brave.NewBraveClient(g.providers.Brave)
	default:
		return nil, fmt.Errorf("unsupported web search provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	searcher := &retryingWebSearcher{inner: inner, provider: provider, policy: g.policy}
	g.searchers[provider] = searcher
	return searcher, nil
}
