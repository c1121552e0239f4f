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

// Package openai provides generation and embedding clients backed by the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	sysconst "github.com/asgardeo/flowstack/internal/system/constants"
	httpservice "github.com/asgardeo/flowstack/internal/system/http"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const (
	providerName          = "openai"
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultModel          = "gpt-3.5-turbo"
	defaultEmbeddingModel = "text-embedding-3-small"
	chatCompletionsPath   = "/chat/completions"
	embeddingsPath        = "/embeddings"
	loggerComponentName   = "OpenAIClient"
)

// OpenAIClient calls the OpenAI chat completions and embeddings APIs.
type OpenAIClient struct {
	apiKey         string
	baseURL        string
	model          string
	embeddingModel string
	httpClient     httpservice.HTTPClientInterface
}

var _ providermodel.Generator = (*OpenAIClient)(nil)
var _ providermodel.Embedder = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new OpenAIClient from the given provider configuration.
func NewOpenAIClient(cfg config.ProviderClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := &OpenAIClient{
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		httpClient:     httpservice.GetHTTPClient(),
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.model == "" {
		client.model = defaultModel
	}
	if client.embeddingModel == "" {
		client.embeddingModel = defaultEmbeddingModel
	}

	return client, nil
}

// Generate produces a completion for the given prompt via the chat completions API.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if model == "" {
		model = c.model
	}

	payload := map[string]any{
		"model":       model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": providermodel.DefaultTemperature,
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, c.baseURL+chatCompletionsPath, payload, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("OpenAI completion response contained no choices")
	}

	logger.Debug("Received completion from OpenAI", log.String("model", model))

	return parsed.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for the given text via the embeddings API.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]any{
		"model": c.embeddingModel,
		"input": text,
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+embeddingsPath, payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, errors.New("OpenAI embedding response contained no data")
	}

	return parsed.Data[0].Embedding, nil
}

// postJSON sends an authenticated JSON request and decodes the response into out.
func (c *OpenAIClient) postJSON(ctx context.Context, url string, payload any, out any) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set(sysconst.ContentTypeHeaderName, sysconst.ContentTypeJSON)
	req.Header.Set(sysconst.AuthorizationHeaderName, sysconst.TokenTypeBearer+" "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to OpenAI failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", log.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &providermodel.APIError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode OpenAI response: %w", err)
	}

	return nil
}
