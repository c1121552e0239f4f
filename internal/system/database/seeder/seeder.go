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

// Package seeder provides database schema initialization for the runtime database.
package seeder

import (
	"fmt"

	"github.com/asgardeo/flowstack/internal/system/database/client"
	"github.com/asgardeo/flowstack/internal/system/log"
)

const loggerComponentName = "DBSeeder"

// SeederInterface defines the interface for preparing the runtime database.
type SeederInterface interface {
	// EnsureSchema creates the runtime tables and indexes when they do not exist.
	EnsureSchema() error
}

// DBSeeder implements SeederInterface for runtime schema initialization.
type DBSeeder struct {
	dbClient client.DBClientInterface
}

// NewDBSeeder creates a new instance of DBSeeder.
func NewDBSeeder(dbClient client.DBClientInterface) SeederInterface {
	return &DBSeeder{
		dbClient: dbClient,
	}
}

// EnsureSchema creates the runtime tables and indexes when they do not exist.
func (s *DBSeeder) EnsureSchema() error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
	logger.Debug("Ensuring runtime database schema")

	for _, query := range schemaQueries {
		if _, err := s.dbClient.Execute(query); err != nil {
			logger.Error("Failed to apply schema statement",
				log.String("queryID", query.GetID()), log.Error(err))
			return fmt.Errorf("failed to apply schema statement %s: %w", query.GetID(), err)
		}
	}

	logger.Info("Runtime database schema is ready")
	return nil
}
