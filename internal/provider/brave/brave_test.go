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

package brave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
)

type BraveClientTestSuite struct {
	suite.Suite
}

func TestBraveClientTestSuite(t *testing.T) {
	suite.Run(t, new(BraveClientTestSuite))
}

func (suite *BraveClientTestSuite) TestNewBraveClientRequiresAPIKey() {
	client, err := NewBraveClient(config.ProviderClientConfig{})
	suite.Nil(client)
	suite.EqualError(err, "Brave API key is required")
}

func (suite *BraveClientTestSuite) TestSearch() {
	var path, query, count, token, accept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query().Get("q")
		count = r.URL.Query().Get("count")
		token = r.Header.Get("X-Subscription-Token")
		accept = r.Header.Get("Accept")

		_, _ = w.Write([]byte(`{
			"web": {
				"results": [
					{"title": "Machine learning", "description": "ML is a field of AI."},
					{"title": "ML basics", "description": "Getting started with ML."}
				]
			}
		}`))
	}))
	defer server.Close()

	client, err := NewBraveClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	results, err := client.Search(context.Background(), "What is ML?")
	suite.Require().NoError(err)

	suite.Equal("/web/search", path)
	suite.Equal("What is ML?", query)
	suite.Equal("5", count)
	suite.Equal("test-key", token)
	suite.Equal("application/json", accept)

	suite.Require().Len(results, 2)
	suite.Equal(providermodel.SearchResult{Title: "Machine learning", Snippet: "ML is a field of AI."}, results[0])
	suite.Equal(providermodel.SearchResult{Title: "ML basics", Snippet: "Getting started with ML."}, results[1])
}

func (suite *BraveClientTestSuite) TestSearchNoResults() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer server.Close()

	client, err := NewBraveClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	results, err := client.Search(context.Background(), "anything")
	suite.NoError(err)
	suite.Empty(results)
}

func (suite *BraveClientTestSuite) TestSearchServerError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream failure"}`))
	}))
	defer server.Close()

	client, err := NewBraveClient(config.ProviderClientConfig{APIKey: "test-key", BaseURL: server.URL})
	suite.Require().NoError(err)

	_, err = client.Search(context.Background(), "anything")

	var apiErr *providermodel.APIError
	suite.Require().ErrorAs(err, &apiErr)
	suite.Equal(providerName, apiErr.Provider)
	suite.Equal(http.StatusBadGateway, apiErr.StatusCode)
	suite.True(providermodel.IsTransient(err))
}
