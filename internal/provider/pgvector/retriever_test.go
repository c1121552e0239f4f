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

package pgvector

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/suite"

	providermodel "github.com/asgardeo/flowstack/internal/provider/model"
	"github.com/asgardeo/flowstack/internal/system/config"
	"github.com/asgardeo/flowstack/internal/system/database/client"
	dbmodel "github.com/asgardeo/flowstack/internal/system/database/model"
	dbprovider "github.com/asgardeo/flowstack/internal/system/database/provider"
	"github.com/asgardeo/flowstack/tests/mocks/databasemock"
)

type PgVectorRetrieverTestSuite struct {
	suite.Suite
	retriever    *PgVectorRetriever
	mockProvider *databasemock.MockDBProvider
	mockDBClient *databasemock.MockDBClient
}

func TestPgVectorRetrieverTestSuite(t *testing.T) {
	suite.Run(t, new(PgVectorRetrieverTestSuite))
}

func (suite *PgVectorRetrieverTestSuite) SetupTest() {
	suite.mockDBClient = &databasemock.MockDBClient{}
	suite.mockProvider = &databasemock.MockDBProvider{
		MockGetDBClient: func(dbName string) (client.DBClientInterface, error) {
			if dbName == dbprovider.DBNameVector {
				return suite.mockDBClient, nil
			}
			return nil, errors.New("unexpected database name: " + dbName)
		},
	}
	suite.retriever = &PgVectorRetriever{
		DBProvider: suite.mockProvider,
		table:      "embeddings",
	}
}

func (suite *PgVectorRetrieverTestSuite) TestNewPgVectorRetrieverDefaultTable() {
	retriever := NewPgVectorRetriever(config.VectorStoreConfig{})
	suite.Equal("embeddings", retriever.table)
}

func (suite *PgVectorRetrieverTestSuite) TestNewPgVectorRetrieverConfiguredTable() {
	retriever := NewPgVectorRetriever(config.VectorStoreConfig{Table: "kb_chunks"})
	suite.Equal("kb_chunks", retriever.table)
}

func (suite *PgVectorRetrieverTestSuite) TestSearch() {
	var capturedQuery dbmodel.DBQuery
	var capturedArgs []interface{}

	suite.mockDBClient.MockQuery = func(
		query dbmodel.DBQuery, args ...interface{},
	) ([]map[string]interface{}, error) {
		capturedQuery = query
		capturedArgs = args
		return []map[string]interface{}{
			{"content": "ML is a field of study.", "distance": 0.12},
			{"content": "Subfield of AI.", "distance": 0.34},
			{"content": []byte("Uses data to learn."), "distance": "0.56"},
		}, nil
	}

	embedding := []float32{0.1, 0.2, 0.3}
	chunks, err := suite.retriever.Search(context.Background(), embedding, 3, "docs")
	suite.Require().NoError(err)

	suite.Equal([]providermodel.Chunk{
		{Content: "ML is a field of study.", Score: 0.12},
		{Content: "Subfield of AI.", Score: 0.34},
		{Content: "Uses data to learn.", Score: 0.56},
	}, chunks)

	suite.Equal(searchQueryID, capturedQuery.ID)
	suite.Contains(capturedQuery.Query, "FROM embeddings")
	suite.Contains(capturedQuery.Query, "ORDER BY embedding <-> $1")

	suite.Require().Len(capturedArgs, 3)
	suite.Equal(pgvector.NewVector(embedding), capturedArgs[0])
	suite.Equal("docs", capturedArgs[1])
	suite.Equal(3, capturedArgs[2])
}

func (suite *PgVectorRetrieverTestSuite) TestSearchUsesConfiguredTable() {
	suite.retriever.table = "kb_chunks"

	var capturedQuery dbmodel.DBQuery
	suite.mockDBClient.MockQuery = func(
		query dbmodel.DBQuery, args ...interface{},
	) ([]map[string]interface{}, error) {
		capturedQuery = query
		return nil, nil
	}

	chunks, err := suite.retriever.Search(context.Background(), []float32{0.5}, 5, "docs")
	suite.Require().NoError(err)
	suite.Empty(chunks)
	suite.Contains(capturedQuery.Query, "FROM kb_chunks")
}

func (suite *PgVectorRetrieverTestSuite) TestSearchQueryError() {
	suite.mockDBClient.MockQuery = func(
		query dbmodel.DBQuery, args ...interface{},
	) ([]map[string]interface{}, error) {
		return nil, errors.New("connection refused")
	}

	chunks, err := suite.retriever.Search(context.Background(), []float32{0.5}, 5, "docs")
	suite.Nil(chunks)
	suite.ErrorContains(err, "failed to search vector store")
}

func (suite *PgVectorRetrieverTestSuite) TestSearchClientRetrievalError() {
	suite.mockProvider.MockGetDBClient = func(dbName string) (client.DBClientInterface, error) {
		return nil, errors.New("datasource unavailable")
	}

	chunks, err := suite.retriever.Search(context.Background(), []float32{0.5}, 5, "docs")
	suite.Nil(chunks)
	suite.ErrorContains(err, "failed to get vector database client")
}

func (suite *PgVectorRetrieverTestSuite) TestSearchMalformedRow() {
	suite.mockDBClient.MockQuery = func(
		query dbmodel.DBQuery, args ...interface{},
	) ([]map[string]interface{}, error) {
		return []map[string]interface{}{{"content": 42, "distance": 0.5}}, nil
	}

	chunks, err := suite.retriever.Search(context.Background(), []float32{0.5}, 5, "docs")
	suite.Nil(chunks)
	suite.ErrorContains(err, "failed to parse content column")
}

func (suite *PgVectorRetrieverTestSuite) TestSearchCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks, err := suite.retriever.Search(ctx, []float32{0.5}, 5, "docs")
	suite.Nil(chunks)
	suite.ErrorIs(err, context.Canceled)
	suite.Empty(suite.mockDBClient.QueryCalls)
}
