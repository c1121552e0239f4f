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

package services

import (
	"net/http"

	"github.com/asgardeo/flowstack/internal/system/server"
	"github.com/asgardeo/flowstack/internal/workflow/handler"
)

// WorkflowService defines the service for handling workflow definition
// management requests.
type WorkflowService struct {
	ServerOpsService server.ServerOperationServiceInterface
	workflowHandler  *handler.WorkflowHandler
}

// NewWorkflowService creates a new instance of WorkflowService.
func NewWorkflowService(mux *http.ServeMux) ServiceInterface {
	instance := &WorkflowService{
		ServerOpsService: server.NewServerOperationService(),
		workflowHandler:  handler.NewWorkflowHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the WorkflowService.
func (s *WorkflowService) RegisterRoutes(mux *http.ServeMux) {
	opts1 := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, POST",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /workflows", &opts1,
		s.workflowHandler.HandleWorkflowCreateRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /workflows", &opts1,
		s.workflowHandler.HandleWorkflowListRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "OPTIONS /workflows", &opts1,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	opts2 := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, PUT, DELETE",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "GET /workflows/{id}", &opts2,
		s.workflowHandler.HandleWorkflowGetRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "PUT /workflows/{id}", &opts2,
		s.workflowHandler.HandleWorkflowUpdateRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "DELETE /workflows/{id}", &opts2,
		s.workflowHandler.HandleWorkflowDeleteRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "OPTIONS /workflows/{id}", &opts2,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	opts3 := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "POST",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /workflows/{id}/validate", &opts3,
		s.workflowHandler.HandleWorkflowValidateRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "OPTIONS /workflows/{id}/validate", &opts3,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
}
