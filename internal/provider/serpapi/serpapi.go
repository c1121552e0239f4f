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

// Package serpapi provides a web search client backed by the SerpAPI Google search API.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	httpservice "github.com/asgardeo/flowstack/internal/system/http"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const (
	providerName        = "serpapi"
	defaultBaseURL      = "https://serpapi.com"
	searchPath          = "/search"
	searchEngine        = "google"
	loggerComponentName = "SerpAPIClient"
)

// SerpAPIClient calls the SerpAPI search endpoint.
type SerpAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient httpservice.HTTPClientInterface
}

var _ providermodel.WebSearcher = (*SerpAPIClient)(nil)

// NewSerpAPIClient creates a new SerpAPIClient from the given provider configuration.
func NewSerpAPIClient(cfg config.ProviderClientConfig) (*SerpAPIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("SerpAPI API key is required")
	}

	client := &SerpAPIClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: httpservice.GetHTTPClient(),
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Search returns the top organic results for the given query.
func (c *SerpAPIClient) Search(ctx context.Context, query string) ([]providermodel.SearchResult, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	params := url.Values{}
	params.Set("engine", searchEngine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to SerpAPI failed: %w", err)
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
		OrganicResults []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode SerpAPI response: %w", err)
	}

	results := make([]providermodel.SearchResult, 0, providermodel.WebSearchResultLimit)
	for _, r := range parsed.OrganicResults {
		if len(results) == providermodel.WebSearchResultLimit {
			break
		}
		results = append(results, providermodel.SearchResult{Title: r.Title, Snippet: r.Snippet})
	}

	logger.Debug("Received results from SerpAPI", log.Int("count", len(results)))

	return results, nil
}
