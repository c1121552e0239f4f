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

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
)

type chatCompletionRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type OpenAIClientTestSuite struct {
	suite.Suite
}

func TestOpenAIClientTestSuite(t *testing.T) {
	suite.Run(t, new(OpenAIClientTestSuite))
}

func (suite *OpenAIClientTestSuite) TestNewOpenAIClientRequiresAPIKey() {
	client, err := NewOpenAIClient(config.ProviderClientConfig{})
	suite.Nil(client)
	suite.EqualError(err, "OpenAI API key is required")
}

func (suite *OpenAIClientTestSuite) TestNewOpenAIClientDefaults() {
	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "test-key"})
	suite.Require().NoError(err)

	suite.Equal(defaultBaseURL, client.baseURL)
	suite.Equal(defaultModel, client.model)
	suite.Equal(defaultEmbeddingModel, client.embeddingModel)
}

func (suite *OpenAIClientTestSuite) TestGenerate() {
	var captured chatCompletionRequest
	var path, authHeader, contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authHeader = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		suite.NoError(json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Paris is the capital of France."}}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	response, err := client.Generate(context.Background(), "What is the capital of France?", "")
	suite.Require().NoError(err)
	suite.Equal("Paris is the capital of France.", response)

	suite.Equal("/chat/completions", path)
	suite.Equal("Bearer test-key", authHeader)
	suite.Equal("application/json", contentType)
	suite.Equal("gpt-3.5-turbo", captured.Model)
	suite.InDelta(0.7, captured.Temperature, 1e-9)
	suite.Require().Len(captured.Messages, 1)
	suite.Equal("user", captured.Messages[0].Role)
	suite.Equal("What is the capital of France?", captured.Messages[0].Content)
}

func (suite *OpenAIClientTestSuite) TestGenerateWithModelOverride() {
	var captured chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.NoError(json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	_, err = client.Generate(context.Background(), "hello", "gpt-4o")
	suite.Require().NoError(err)
	suite.Equal("gpt-4o", captured.Model)
}

func (suite *OpenAIClientTestSuite) TestGenerateRateLimited() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	_, err = client.Generate(context.Background(), "hello", "")

	var apiErr *providermodel.APIError
	suite.Require().ErrorAs(err, &apiErr)
	suite.Equal(providerName, apiErr.Provider)
	suite.Equal(http.StatusTooManyRequests, apiErr.StatusCode)
	suite.True(providermodel.IsTransient(err))
}

func (suite *OpenAIClientTestSuite) TestGenerateEmptyChoices() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	_, err = client.Generate(context.Background(), "hello", "")
	suite.EqualError(err, "OpenAI completion response contained no choices")
}

func (suite *OpenAIClientTestSuite) TestEmbed() {
	var captured struct {
		Model string `json:"model"`
		Input string `json:"input"`
	}
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		suite.NoError(json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	embedding, err := client.Embed(context.Background(), "What is ML?")
	suite.Require().NoError(err)
	suite.Equal([]float32{0.1, 0.2, 0.3}, embedding)

	suite.Equal("/embeddings", path)
	suite.Equal("text-embedding-3-small", captured.Model)
	suite.Equal("What is ML?", captured.Input)
}

func (suite *OpenAIClientTestSuite) TestEmbedUnauthorized() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(config.ProviderClientConfig{APIKey: "bad-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	_, err = client.Embed(context.Background(), "hello")

	var apiErr *providermodel.APIError
	suite.Require().ErrorAs(err, &apiErr)
	suite.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	suite.False(providermodel.IsTransient(err))
}
