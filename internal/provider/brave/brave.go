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

// Package brave provides a web search client backed by the Brave Search API.
package brave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	sysconst "github.com/asgardeo/flowstack/internal/system/constants"
	httpservice "github.com/asgardeo/flowstack/internal/system/http"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const (
	providerName            = "brave"
	defaultBaseURL          = "https://api.search.brave.com/res/v1"
	webSearchPath           = "/web/search"
	subscriptionTokenHeader = "X-Subscription-Token"
	loggerComponentName     = "BraveClient"
)

// BraveClient calls the Brave web search endpoint.
type BraveClient struct {
	apiKey     string
	baseURL    string
	httpClient httpservice.HTTPClientInterface
}

var _ providermodel.WebSearcher = (*BraveClient)(nil)

// NewBraveClient creates a new BraveClient from the given provider configuration.
func NewBraveClient(cfg config.ProviderClientConfig) (*BraveClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Brave API key is required")
	}

	client := &BraveClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: httpservice.GetHTTPClient(),
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Search returns the top web results for the given query.
func (c *BraveClient) Search(ctx context.Context, query string) ([]providermodel.SearchResult, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(providermodel.WebSearchResultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+webSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set(sysconst.AcceptHeaderName, sysconst.ContentTypeJSON)
	req.Header.Set(subscriptionTokenHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to Brave failed: %w", err)
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
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Brave response: %w", err)
	}

	results := make([]providermodel.SearchResult, 0, providermodel.WebSearchResultLimit)
	for _, r := range parsed.Web.Results {
		if len(results) == providermodel.WebSearchResultLimit {
			break
		}
		results = append(results, providermodel.SearchResult{Title: r.Title, Snippet: r.Description})
	}

	logger.Debug("Received results from Brave", log.Int("count", len(results)))

	return results, nil
}
