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

package model

const (
	// DBTypePostgres identifies the postgres database type.
	DBTypePostgres = "postgres"
	// DBTypeSQLite identifies the sqlite database type.
	DBTypeSQLite = "sqlite"
)

// DBQuery represents a named SQL query with optional per-database variants.
type DBQuery struct {
	// ID uniquely identifies the query for logging and tracing.
	ID string
	// Query is the default SQL statement.
	Query string
	// PostgresQuery overrides Query when running against postgres.
	PostgresQuery string
	// SQLiteQuery overrides Query when running against sqlite.
	SQLiteQuery string
}

// GetID returns the unique identifier of the query.
func (q DBQuery) GetID() string {
	return q.ID
}

// GetQuery returns the SQL statement for the given database type, falling back
// to the default statement when no variant is defined.
func (q DBQuery) GetQuery(dbType string) string {
	switch dbType {
	case DBTypePostgres:
		if q.PostgresQuery != "" {
			return q.PostgresQuery
		}
	case DBTypeSQLite:
		if q.SQLiteQuery != "" {
			return q.SQLiteQuery
		}
	}
	return q.Query
}
