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

package mgt

import (
	"time"

	"github.com/asgardeo/flowstack/internal/workflow/model"
)

// WorkflowRequest is the request payload for creating or updating a workflow
// definition.
type WorkflowRequest struct {
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description,omitempty"`
	Nodes       []model.Node `json:"nodes" validate:"required,min=1"`
	Edges       []model.Edge `json:"edges"`
}

// WorkflowResponse is the full representation of a stored workflow
// definition.
type WorkflowResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Nodes       []model.Node `json:"nodes"`
	Edges       []model.Edge `json:"edges"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// WorkflowListItem is the list representation of a stored workflow without
// its graph definition.
type WorkflowListItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
