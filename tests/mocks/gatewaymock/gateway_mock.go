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

// Package gatewaymock provides mock implementations of the provider gateway
// and its capability interfaces for testing.
package gatewaymock

import (
	"context"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
)

// MockProviderGateway is a mock implementation of the ProviderGatewayInterface.
type MockProviderGateway struct {
	// MockGetEmbedder defines the behavior for the GetEmbedder method.
	MockGetEmbedder func(provider string) (providermodel.Embedder, error)

	// MockGetRetriever defines the behavior for the GetRetriever method.
	MockGetRetriever func() (providermodel.Retriever, error)

	// MockGetGenerator defines the behavior for the GetGenerator method.
	MockGetGenerator func(provider string) (providermodel.Generator, error)

	// MockGetWebSearcher defines the behavior for the GetWebSearcher method.
	MockGetWebSearcher func(provider string) (providermodel.WebSearcher, error)

	// GetEmbedderCalls tracks the provider names passed to GetEmbedder.
	GetEmbedderCalls []string

	// GetRetrieverCalls tracks the calls to GetRetriever.
	GetRetrieverCalls int

	// GetGeneratorCalls tracks the provider names passed to GetGenerator.
	GetGeneratorCalls []string

	// GetWebSearcherCalls tracks the provider names passed to GetWebSearcher.
	GetWebSearcherCalls []string
}

// GetEmbedder mocks the GetEmbedder method of the ProviderGatewayInterface.
func (m *MockProviderGateway) GetEmbedder(provider string) (providermodel.Embedder, error) {
	m.GetEmbedderCalls = append(m.GetEmbedderCalls, provider)

	if m.MockGetEmbedder != nil {
		return m.MockGetEmbedder(provider)
	}
	return &MockEmbedder{}, nil
}

// GetRetriever mocks the GetRetriever method of the ProviderGatewayInterface.
func (m *MockProviderGateway) GetRetriever() (providermodel.Retriever, error) {
	m.GetRetrieverCalls++

	if m.MockGetRetriever != nil {
		return m.MockGetRetriever()
	}
	return &MockRetriever{}, nil
}

// GetGenerator mocks the GetGenerator method of the ProviderGatewayInterface.
func (m *MockProviderGateway) GetGenerator(provider string) (providermodel.Generator, error) {
	m.GetGeneratorCalls = append(m.GetGeneratorCalls, provider)

	if m.MockGetGenerator != nil {
		return m.MockGetGenerator(provider)
	}
	return &MockGenerator{}, nil
}

// GetWebSearcher mocks the GetWebSearcher method of the ProviderGatewayInterface.
func (m *MockProviderGateway) GetWebSearcher(provider string) (providermodel.WebSearcher, error) {
	m.GetWebSearcherCalls = append(m.GetWebSearcherCalls, provider)

	if m.MockGetWebSearcher != nil {
		return m.MockGetWebSearcher(provider)
	}
	return &MockWebSearcher{}, nil
}

// MockEmbedder is a mock implementation of the Embedder capability.
type MockEmbedder struct {
	// MockEmbed defines the behavior for the Embed method.
	MockEmbed func(ctx context.Context, text string) ([]float32, error)

	// EmbedCalls tracks the texts passed to Embed.
	EmbedCalls []string
}

// Embed mocks the Embed method of the Embedder interface.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.EmbedCalls = append(m.EmbedCalls, text)

	if m.MockEmbed != nil {
		return m.MockEmbed(ctx, text)
	}
	return []float32{}, nil
}

// MockRetriever is a mock implementation of the Retriever capability.
type MockRetriever struct {
	// MockSearch defines the behavior for the Search method.
	MockSearch func(ctx context.Context, embedding []float32, topK int,
		knowledgeBaseID string) ([]providermodel.Chunk, error)

	// SearchCalls tracks the arguments passed to Search.
	SearchCalls []struct {
		Embedding       []float32
		TopK            int
		KnowledgeBaseID string
	}
}

// Search mocks the Search method of the Retriever interface.
func (m *MockRetriever) Search(ctx context.Context, embedding []float32, topK int,
	knowledgeBaseID string) ([]providermodel.Chunk, error) {
	m.SearchCalls = append(m.SearchCalls, struct {
		Embedding       []float32
		TopK            int
		KnowledgeBaseID string
	}{embedding, topK, knowledgeBaseID})

	if m.MockSearch != nil {
		return m.MockSearch(ctx, embedding, topK, knowledgeBaseID)
	}
	return []providermodel.Chunk{}, nil
}

// MockGenerator is a mock implementation of the Generator capability.
type MockGenerator struct {
	// MockGenerate defines the behavior for the Generate method.
	MockGenerate func(ctx context.Context, prompt, model string) (string, error)

	// GenerateCalls tracks the arguments passed to Generate.
	GenerateCalls []struct {
		Prompt string
		Model  string
	}
}

// Generate mocks the Generate method of the Generator interface.
func (m *MockGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	m.GenerateCalls = append(m.GenerateCalls, struct {
		Prompt string
		Model  string
	}{prompt, model})

	if m.MockGenerate != nil {
		return m.MockGenerate(ctx, prompt, model)
	}
	return "", nil
}

// MockWebSearcher is a mock implementation of the WebSearcher capability.
type MockWebSearcher struct {
	// MockSearch defines the behavior for the Search method.
	MockSearch func(ctx context.Context, query string) ([]providermodel.SearchResult, error)

	// SearchCalls tracks the queries passed to Search.
	SearchCalls []string
}

// Search mocks the Search method of the WebSearcher interface.
func (m *MockWebSearcher) Search(ctx context.Context, query string) ([]providermodel.SearchResult, error) {
	m.SearchCalls = append(m.SearchCalls, query)

	if m.MockSearch != nil {
		return m.MockSearch(ctx, query)
	}
	return []providermodel.SearchResult{}, nil
}
