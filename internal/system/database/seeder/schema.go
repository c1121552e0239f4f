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

package seeder

import (
	"github.com/asgardeo/flowstack/internal/system/database/model"
)

var (
	// QueryCreateWorkflowTable creates the workflow definition table.
	QueryCreateWorkflowTable = model.DBQuery{
		ID: "SDQ-SCHEMA-01",
		Query: `CREATE TABLE IF NOT EXISTS WORKFLOW (
			WORKFLOW_ID VARCHAR(36) PRIMARY KEY,
			NAME VARCHAR(255) NOT NULL,
			DESCRIPTION TEXT,
			DEFINITION TEXT NOT NULL,
			CREATED_AT TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UPDATED_AT TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	// QueryCreateChatSessionTable creates the chat session table.
	QueryCreateChatSessionTable = model.DBQuery{
		ID: "SDQ-SCHEMA-02",
		Query: `CREATE TABLE IF NOT EXISTS CHAT_SESSION (
			SESSION_ID VARCHAR(36) PRIMARY KEY,
			WORKFLOW_ID VARCHAR(36) NOT NULL,
			CREATED_AT TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UPDATED_AT TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	// QueryCreateChatMessageTable creates the chat message table.
	QueryCreateChatMessageTable = model.DBQuery{
		ID: "SDQ-SCHEMA-03",
		Query: `CREATE TABLE IF NOT EXISTS CHAT_MESSAGE (
			MESSAGE_ID VARCHAR(36) PRIMARY KEY,
			SESSION_ID VARCHAR(36) NOT NULL,
			ROLE VARCHAR(16) NOT NULL,
			CONTENT TEXT NOT NULL,
			CREATED_AT TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (SESSION_ID) REFERENCES CHAT_SESSION(SESSION_ID) ON DELETE CASCADE
		)`,
	}

	// QueryCreateChatMessageSessionIndex creates the lookup index for session history reads.
	QueryCreateChatMessageSessionIndex = model.DBQuery{
		ID:    "SDQ-SCHEMA-04",
		Query: `CREATE INDEX IF NOT EXISTS IDX_CHAT_MESSAGE_SESSION ON CHAT_MESSAGE (SESSION_ID, CREATED_AT)`,
	}

	// QueryCreateChatSessionWorkflowIndex creates the lookup index for per workflow session listings.
	QueryCreateChatSessionWorkflowIndex = model.DBQuery{
		ID:    "SDQ-SCHEMA-05",
		Query: `CREATE INDEX IF NOT EXISTS IDX_CHAT_SESSION_WORKFLOW ON CHAT_SESSION (WORKFLOW_ID, UPDATED_AT)`,
	}
)

// schemaQueries lists the schema statements in creation order.
var schemaQueries = []model.DBQuery{
	QueryCreateWorkflowTable,
	QueryCreateChatSessionTable,
	QueryCreateChatMessageTable,
	QueryCreateChatMessageSessionIndex,
	QueryCreateChatSessionWorkflowIndex,
}
