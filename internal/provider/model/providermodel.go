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

// Package model defines the capability contracts implemented by external provider clients.
package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// WebSearchResultLimit caps the number of web search results returned by a WebSearcher.
const WebSearchResultLimit = 5

// DefaultTemperature is the sampling temperature applied to generation calls.
const DefaultTemperature = 0.7

// Embedder converts a piece of text into its vector representation.
type Embedder interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever searches a knowledge base for the chunks closest to a query embedding.
type Retriever interface {
	// Search returns up to topK chunks from the given knowledge base, ordered by relevance.
	Search(ctx context.Context, embedding []float32, topK int, knowledgeBaseID string) ([]Chunk, error)
}

// Generator produces a text completion for an assembled prompt.
type Generator interface {
	// Generate returns the completion for the given prompt. An empty model
	// selects the provider's default generation model.
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// WebSearcher retrieves web search results for a query.
type WebSearcher interface {
	// Search returns up to WebSearchResultLimit results for the given query.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Chunk is a unit of retrieved reference text with its relevance score.
type Chunk struct {
	Content string
	Score   float64
}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string
	Snippet string
}

// Format renders the result in the form fed into prompt assembly.
func (r SearchResult) Format() string {
	return r.Title + ": " + r.Snippet
}

// APIError represents a non-2xx response from an external provider API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

// Error returns the error message for the APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsTransient reports whether the given provider error is worth retrying.
// Rate limiting, server-side failures, timeouts, and network errors are
// transient; everything else, including context cancellation, is not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
