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

// Package cohere provides an embedding client backed by the Cohere API.
package cohere

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
	providerName          = "cohere"
	defaultBaseURL        = "https://api.cohere.ai/v1"
	defaultEmbeddingModel = "embed-english-v3.0"
	embedPath             = "/embed"
	queryInputType        = "search_query"
	loggerComponentName   = "CohereClient"
)

// CohereClient calls the Cohere embed API.
type CohereClient struct {
	apiKey         string
	baseURL        string
	embeddingModel string
	httpClient     httpservice.HTTPClientInterface
}

var _ providermodel.Embedder = (*CohereClient)(nil)

// NewCohereClient creates a new CohereClient from the given provider configuration.
func NewCohereClient(cfg config.ProviderClientConfig) (*CohereClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Cohere API key is required")
	}

	client := &CohereClient{
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		embeddingModel: cfg.EmbeddingModel,
		httpClient:     httpservice.GetHTTPClient(),
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.embeddingModel == "" {
		client.embeddingModel = defaultEmbeddingModel
	}

	return client, nil
}

// Embed returns the embedding vector for the given text. Texts are embedded
// with the search_query input type since the engine only embeds run queries.
func (c *CohereClient) Embed(ctx context.Context, text string) ([]float32, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	payload := map[string]any{
		"texts":      []string{text},
		"model":      c.embeddingModel,
		"input_type": queryInputType,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+embedPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set(sysconst.ContentTypeHeaderName, sysconst.ContentTypeJSON)
	req.Header.Set(sysconst.AuthorizationHeaderName, sysconst.TokenTypeBearer+" "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to Cohere failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", log.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &providermodel.APIError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var parsed struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Cohere response: %w", err)
	}
	if len(parsed.Embeddings) == 0 {
		return nil, errors.New("Cohere embedding response contained no embeddings")
	}

	return parsed.Embeddings[0], nil
}
