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

package store

import (
	"github.com/asgardeo/flowstack/internal/system/database/model"
)

var (
	// QueryCreateChatSession inserts a new chat session.
	QueryCreateChatSession = model.DBQuery{
		ID: "CHQ-SESSION-01",
		Query: "INSERT INTO CHAT_SESSION (SESSION_ID, WORKFLOW_ID, CREATED_AT, UPDATED_AT) " +
			"VALUES ($1, $2, $3, $4)",
		SQLiteQuery: "INSERT INTO CHAT_SESSION (SESSION_ID, WORKFLOW_ID, CREATED_AT, UPDATED_AT) " +
			"VALUES (?, ?, ?, ?)",
	}

	// QueryGetChatSessionByID retrieves a chat session by its id.
	QueryGetChatSessionByID = model.DBQuery{
		ID: "CHQ-SESSION-02",
		Query: "SELECT SESSION_ID, WORKFLOW_ID, CREATED_AT, UPDATED_AT FROM CHAT_SESSION " +
			"WHERE SESSION_ID = $1",
		SQLiteQuery: "SELECT SESSION_ID, WORKFLOW_ID, CREATED_AT, UPDATED_AT FROM CHAT_SESSION " +
			"WHERE SESSION_ID = ?",
	}

	// QueryListChatSessionsByWorkflow lists the sessions of a workflow, most
	// recently active first.
	QueryListChatSessionsByWorkflow = model.DBQuery{
		ID: "CHQ-SESSION-03",
		Query: "SELECT SESSION_ID, WORKFLOW_ID, CREATED_AT, UPDATED_AT FROM CHAT_SESSION " +
			"WHERE WORKFLOW_ID = $1 ORDER BY UPDATED_AT DESC",
		SQLiteQuery: "SELECT SESSION_ID, WORKFLOW_ID, CREATED_AT, UPDATED_AT FROM CHAT_SESSION " +
			"WHERE WORKFLOW_ID = ? ORDER BY UPDATED_AT DESC",
	}

	// QueryTouchChatSession advances the session activity timestamp.
	QueryTouchChatSession = model.DBQuery{
		ID:          "CHQ-SESSION-04",
		Query:       "UPDATE CHAT_SESSION SET UPDATED_AT = $1 WHERE SESSION_ID = $2",
		SQLiteQuery: "UPDATE CHAT_SESSION SET UPDATED_AT = ? WHERE SESSION_ID = ?",
	}

	// QueryDeleteChatSession deletes a chat session.
	QueryDeleteChatSession = model.DBQuery{
		ID:          "CHQ-SESSION-05",
		Query:       "DELETE FROM CHAT_SESSION WHERE SESSION_ID = $1",
		SQLiteQuery: "DELETE FROM CHAT_SESSION WHERE SESSION_ID = ?",
	}

	// QueryInsertChatMessage appends one message to a session.
	QueryInsertChatMessage = model.DBQuery{
		ID: "CHQ-MESSAGE-01",
		Query: "INSERT INTO CHAT_MESSAGE (MESSAGE_ID, SESSION_ID, ROLE, CONTENT, CREATED_AT) " +
			"VALUES ($1, $2, $3, $4, $5)",
		SQLiteQuery: "INSERT INTO CHAT_MESSAGE (MESSAGE_ID, SESSION_ID, ROLE, CONTENT, CREATED_AT) " +
			"VALUES (?, ?, ?, ?, ?)",
	}

	// QueryGetChatMessagesBySession retrieves the session history in
	// chronological order.
	QueryGetChatMessagesBySession = model.DBQuery{
		ID: "CHQ-MESSAGE-02",
		Query: "SELECT MESSAGE_ID, SESSION_ID, ROLE, CONTENT, CREATED_AT FROM CHAT_MESSAGE " +
			"WHERE SESSION_ID = $1 ORDER BY CREATED_AT ASC, MESSAGE_ID ASC",
		SQLiteQuery: "SELECT MESSAGE_ID, SESSION_ID, ROLE, CONTENT, CREATED_AT FROM CHAT_MESSAGE " +
			"WHERE SESSION_ID = ? ORDER BY CREATED_AT ASC, MESSAGE_ID ASC",
	}

	// QueryDeleteChatMessagesBySession deletes all messages of a session.
	QueryDeleteChatMessagesBySession = model.DBQuery{
		ID:          "CHQ-MESSAGE-03",
		Query:       "DELETE FROM CHAT_MESSAGE WHERE SESSION_ID = $1",
		SQLiteQuery: "DELETE FROM CHAT_MESSAGE WHERE SESSION_ID = ?",
	}
)
