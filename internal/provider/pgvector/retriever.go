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

// Package pgvector provides a retriever over a pgvector-backed vector store.
package pgvector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pgvector/pgvector-go"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	dbmodel "github.com/asgardeo/flowstack/internal/system/database/model"
	dbprovider "github.com/asgardeo/flowstack/internal/system/database/provider"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const (
	defaultTable        = "embeddings"
	searchQueryID       = "VSQ-CHUNK-01"
	loggerComponentName = "PgVectorRetriever"
)

// searchQueryTemplate ranks stored chunks by L2 distance to the query embedding.
const searchQueryTemplate = "SELECT content, embedding <-> $1 AS distance FROM %s " +
	"WHERE knowledge_base_id = $2 ORDER BY embedding <-> $1 LIMIT $3"

// PgVectorRetriever implements chunk retrieval over a pgvector table.
type PgVectorRetriever struct {
	DBProvider dbprovider.DBProviderInterface
	table      string
}

var _ providermodel.Retriever = (*PgVectorRetriever)(nil)

// NewPgVectorRetriever creates a new PgVectorRetriever for the configured vector store.
func NewPgVectorRetriever(cfg config.VectorStoreConfig) *PgVectorRetriever {
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	return &PgVectorRetriever{
		DBProvider: dbprovider.GetDBProvider(),
		table:      table,
	}
}

// Search returns up to topK chunks from the given knowledge base ordered by
// ascending distance to the query embedding.
func (r *PgVectorRetriever) Search(
	ctx context.Context, embedding []float32, topK int, knowledgeBaseID string,
) ([]providermodel.Chunk, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dbClient, err := r.DBProvider.GetDBClient(dbprovider.DBNameVector)
	if err != nil {
		return nil, fmt.Errorf("failed to get vector database client: %w", err)
	}

	query := dbmodel.DBQuery{
		ID:    searchQueryID,
		Query: fmt.Sprintf(searchQueryTemplate, r.table),
	}
	results, err := dbClient.Query(query, pgvector.NewVector(embedding), knowledgeBaseID, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	chunks := make([]providermodel.Chunk, 0, len(results))
	for _, row := range results {
		chunk, err := parseChunkFromRow(row)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	logger.Debug("Retrieved chunks from vector store",
		log.String("knowledgeBaseID", knowledgeBaseID), log.Int("count", len(chunks)))

	return chunks, nil
}

// parseChunkFromRow maps a search result row to a chunk.
func parseChunkFromRow(row map[string]interface{}) (providermodel.Chunk, error) {
	chunk := providermodel.Chunk{}

	switch content := row["content"].(type) {
	case string:
		chunk.Content = content
	case []byte:
		chunk.Content = string(content)
	default:
		return chunk, fmt.Errorf("failed to parse content column in search result row")
	}

	switch distance := row["distance"].(type) {
	case float64:
		chunk.Score = distance
	case float32:
		chunk.Score = float64(distance)
	case []byte:
		parsed, err := strconv.ParseFloat(string(distance), 64)
		if err != nil {
			return chunk, fmt.Errorf("failed to parse distance column in search result row: %w", err)
		}
		chunk.Score = parsed
	case string:
		parsed, err := strconv.ParseFloat(distance, 64)
		if err != nil {
			return chunk, fmt.Errorf("failed to parse distance column in search result row: %w", err)
		}
		chunk.Score = parsed
	case nil:
		chunk.Score = 0
	default:
		return chunk, fmt.Errorf("failed to parse distance column in search result row")
	}

	return chunk, nil
}
