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

// Package gemini provides generation and embedding clients backed by the Google Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	sysconst "github.com/asgardeo/flowstack/internal/system/constants"
	httpservice "github.com/asgardeo/flowstack/internal/system/http"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const (
	providerName          = "gemini"
	defaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel          = "gemini-pro"
	defaultEmbeddingModel = "models/embedding-001"
	apiKeyHeaderName      = "x-goog-api-key"
	modelResourcePrefix   = "models/"
	embeddingTaskType     = "RETRIEVAL_DOCUMENT"
	loggerComponentName   = "GeminiClient"
)

// GeminiClient calls the Gemini generateContent and embedContent APIs.
type GeminiClient struct {
	apiKey         string
	baseURL        string
	model          string
	embeddingModel string
	httpClient     httpservice.HTTPClientInterface
}

var _ providermodel.Generator = (*GeminiClient)(nil)
var _ providermodel.Embedder = (*GeminiClient)(nil)

// NewGeminiClient creates a new GeminiClient from the given provider configuration.
func NewGeminiClient(cfg config.ProviderClientConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client := &GeminiClient{
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

// Generate produces a completion for the given prompt via the generateContent API.
func (c *GeminiClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if model == "" {
		model = c.model
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature": providermodel.DefaultTemperature,
		},
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	url := c.baseURL + "/" + qualifyModel(model) + ":generateContent"
	if err := c.postJSON(ctx, url, payload, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("Gemini completion response contained no candidates")
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	logger.Debug("Received completion from Gemini", log.String("model", model))

	return sb.String(), nil
}

// Embed returns the embedding vector for the given text via the embedContent API.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddingModel := qualifyModel(c.embeddingModel)
	payload := map[string]any{
		"model": embeddingModel,
		"content": map[string]any{
			"parts": []map[string]string{{"text": text}},
		},
		"taskType": embeddingTaskType,
	}

	var parsed struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	url := c.baseURL + "/" + embeddingModel + ":embedContent"
	if err := c.postJSON(ctx, url, payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Embedding.Values) == 0 {
		return nil, errors.New("Gemini embedding response contained no values")
	}

	return parsed.Embedding.Values, nil
}

// qualifyModel prefixes bare model identifiers with the models/ resource path.
func qualifyModel(model string) string {
	if strings.HasPrefix(model, modelResourcePrefix) {
		return model
	}
	return modelResourcePrefix + model
}

// postJSON sends an authenticated JSON request and decodes the response into out.
func (c *GeminiClient) postJSON(ctx context.Context, url string, payload any, out any) error {
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
	req.Header.Set(apiKeyHeaderName, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to Gemini failed: %w", err)
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
		return fmt.Errorf("failed to decode Gemini response: %w", err)
	}

	return nil
}
