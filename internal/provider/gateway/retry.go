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

package gateway

import (
	"context"
	"math/rand"
	"time"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/metrics"
)

const (
	defaultProviderTimeout = 30 * time.Second
	defaultRetryBaseDelay  = 200 * time.Millisecond
	defaultRetryMaxDelay   = 2 * time.Second
)

// Operations recorded against provider calls.
const (
	operationEmbed     = "embed"
	operationRetrieve  = "retrieve"
	operationGenerate  = "generate"
	operationWebSearch = "web_search"
)

// retryPolicy bounds each provider call with a per-attempt timeout and a
// bounded retry count for transient failures.
type retryPolicy struct {
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// newRetryPolicy builds a retry policy from the engine configuration.
// ProviderTimeout is in seconds; the retry delays are in milliseconds.
func newRetryPolicy(engine config.EngineConfig) retryPolicy {
	policy := retryPolicy{
		timeout:    time.Duration(engine.ProviderTimeout) * time.Second,
		maxRetries: engine.MaxRetries,
		baseDelay:  time.Duration(engine.RetryBaseDelay) * time.Millisecond,
		maxDelay:   time.Duration(engine.RetryMaxDelay) * time.Millisecond,
	}
	if policy.timeout <= 0 {
		policy.timeout = defaultProviderTimeout
	}
	if policy.maxRetries < 0 {
		policy.maxRetries = 0
	}
	if policy.baseDelay <= 0 {
		policy.baseDelay = defaultRetryBaseDelay
	}
	if policy.maxDelay < policy.baseDelay {
		policy.maxDelay = defaultRetryMaxDelay
	}
	return policy
}

// invokeWithRetry runs call with a per-attempt timeout, retrying transient
// failures up to the policy's retry budget with exponential backoff and jitter.
func invokeWithRetry(
	ctx context.Context, policy retryPolicy, provider, operation string, call func(ctx context.Context) error,
) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	var err error
	for attempt := 0; attempt <= policy.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordProviderRetry(provider, operation)
			logger.Warn("Retrying provider call",
				log.String("provider", provider), log.String("operation", operation),
				log.Int("attempt", attempt), log.Error(err))
			if waitErr := waitForBackoff(ctx, policy, attempt); waitErr != nil {
				return waitErr
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, policy.timeout)
		start := time.Now()
		err = call(attemptCtx)
		cancel()

		status := metrics.CallStatusSuccess
		if err != nil {
			status = metrics.CallStatusError
		}
		metrics.RecordProviderCall(provider, operation, status, time.Since(start))

		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !providermodel.IsTransient(err) {
			return err
		}
	}

	return err
}

// waitForBackoff sleeps for the backoff delay of the given attempt, aborting
// early when the parent context is done.
func waitForBackoff(ctx context.Context, policy retryPolicy, attempt int) error {
	timer := time.NewTimer(backoffDelay(policy, attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoffDelay doubles the base delay per attempt, caps it at the policy
// maximum, and adds up to half the capped delay as jitter.
func backoffDelay(policy retryPolicy, attempt int) time.Duration {
	delay := policy.baseDelay << (attempt - 1)
	if delay > policy.maxDelay {
		delay = policy.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}

// retryingEmbedder decorates an embedder with the gateway retry policy.
type retryingEmbedder struct {
	inner    providermodel.Embedder
	provider string
	policy   retryPolicy
}

// Embed implements providermodel.Embedder.
func (e *retryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	err := invokeWithRetry(ctx, e.policy, e.provider, operationEmbed, func(attemptCtx context.Context) error {
		var callErr error
		embedding, callErr = e.inner.Embed(attemptCtx, text)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return embedding, nil
}

// retryingRetriever decorates a retriever with the gateway retry policy.
type retryingRetriever struct {
	inner    providermodel.Retriever
	provider string
	policy   retryPolicy
}

// Search implements providermodel.Retriever.
func (r *retryingRetriever) Search(
	ctx context.Context, embedding []float32, topK int, knowledgeBaseID string,
) ([]providermodel.Chunk, error) {
	var chunks []providermodel.Chunk
	err := invokeWithRetry(ctx, r.policy, r.provider, operationRetrieve, func(attemptCtx context.Context) error {
		var callErr error
		chunks, callErr = r.inner.Search(attemptCtx, embedding, topK, knowledgeBaseID)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// retryingGenerator decorates a generator with the gateway retry policy.
type retryingGenerator struct {
	inner    providermodel.Generator
	provider string
	policy   retryPolicy
}

// Generate implements providermodel.Generator.
func (g *retryingGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	var response string
	err := invokeWithRetry(ctx, g.policy, g.provider, operationGenerate, func(attemptCtx context.Context) error {
		var callErr error
		response, callErr = g.inner.Generate(attemptCtx, prompt, model)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return response, nil
}

// retryingWebSearcher decorates a web searcher with the gateway retry policy.
type retryingWebSearcher struct {
	inner    providermodel.WebSearcher
	provider string
	policy   retryPolicy
}

// Search implements providermodel.WebSearcher.
func (s *retryingWebSearcher) Search(ctx context.Context, query string) ([]providermodel.SearchResult, error) {
	var results []providermodel.SearchResult
	err := invokeWithRetry(ctx, s.policy, s.provider, operationWebSearch, func(attemptCtx context.Context) error {
		var callErr error
		results, callErr = s.inner.Search(attemptCtx, query)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
