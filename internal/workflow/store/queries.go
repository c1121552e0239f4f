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
	// QueryCreateWorkflow inserts a new workflow definition.
	QueryCreateWorkflow = model.DBQuery{
		ID: "WFQ-WORKFLOW-01",
		Query: "INSERT INTO WORKFLOW (WORKFLOW_ID, NAME, DESCRIPTION, DEFINITION, CREATED_AT, UPDATED_AT) " +
			"VALUES ($1, $2, $3, $4, $5, $6)",
		SQLiteQuery: "INSERT INTO WORKFLOW (WORKFLOW_ID, NAME, DESCRIPTION, DEFINITION, CREATED_AT, UPDATED_AT) " +
			"VALUES (?, ?, ?, ?, ?, ?)",
	}

	// QueryGetWorkflowByID retrieves a workflow definition by its id.
	QueryGetWorkflowByID = model.DBQuery{
		ID: "WFQ-WORKFLOW-02",
		Query: "SELECT WORKFLOW_ID, NAME, DESCRIPTION, DEFINITION, CREATED_AT, UPDATED_AT FROM WORKFLOW " +
			"WHERE WORKFLOW_ID = $1",
		SQLiteQuery: "SELECT WORKFLOW_ID, NAME, DESCRIPTION, DEFINITION, CREATED_AT, UPDATED_AT FROM WORKFLOW " +
			"WHERE WORKFLOW_ID = ?",
	}

	// QueryListWorkflows lists the stored workflows without their definitions.
	QueryListWorkflows = model.DBQuery{
		ID: "WFQ-WORKFLOW-03",
		Query: "SELECT WORKFLOW_ID, NAME, DESCRIPTION, CREATED_AT, UPDATED_AT FROM WORKFLOW " +
			"ORDER BY CREATED_AT DESC",
	}

	// QueryUpdateWorkflow updates a workflow definition.
	QueryUpdateWorkflow = model.DBQuery{
		ID: "WFQ-WORKFLOW-04",
		Query: "UPDATE WORKFLOW SET NAME = $1, DESCRIPTION = $2, DEFINITION = $3, UPDATED_AT = $4 " +
			"WHERE WORKFLOW_ID = $5",
		SQLiteQuery: "UPDATE WORKFLOW SET NAME = ?, DESCRIPTION = ?, DEFINITION = ?, UPDATED_AT = ? " +
			"WHERE WORKFLOW_ID = ?",
	}

	// QueryDeleteWorkflow deletes a workflow definition.
	QueryDeleteWorkflow = model.DBQuery{
		ID:          "WFQ-WORKFLOW-05",
		Query:       "DELETE FROM WORKFLOW WHERE WORKFLOW_ID = $1",
		SQLiteQuery: "DELETE FROM WORKFLOW WHERE WORKFLOW_ID = ?",
	}
)
