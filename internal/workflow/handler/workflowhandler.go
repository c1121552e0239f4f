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

// Package handler provides HTTP handlers for managing workflow definitions.
package handler

import (
	"encoding/json"
	"net/http"

	sysconst "github.com/asgardeo/flowstack/internal/system/constants"
	"github.com/asgardeo/flowstack/internal/system/error/apierror"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/utils"
	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/mgt"
)

const loggerComponentName = "WorkflowHandler"

// WorkflowHandler handles workflow definition management requests.
type WorkflowHandler struct {
	workflowService mgt.WorkflowMgtServiceInterface
}

// NewWorkflowHandler creates a new instance of WorkflowHandler.
func NewWorkflowHandler() *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: mgt.GetWorkflowMgtService(),
	}
}

// HandleWorkflowCreateRequest creates a new workflow definition.
func (h *WorkflowHandler) HandleWorkflowCreateRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	request, err := utils.DecodeJSONBody[mgt.WorkflowRequest](r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, constants.APIErrorWorkflowJSONDecodeError, logger)
		return
	}

	workflow, svcErr := h.workflowService.CreateWorkflow(*request)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusCreated, workflow, logger)
	logger.Debug("Workflow create request handled successfully",
		log.String(log.LoggerKeyWorkflowID, workflow.ID))
}

// HandleWorkflowListRequest lists the stored workflow definitions.
func (h *WorkflowHandler) HandleWorkflowListRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	workflows, svcErr := h.workflowService.ListWorkflows()
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, workflows, logger)
}

// HandleWorkflowGetRequest returns a stored workflow definition.
func (h *WorkflowHandler) HandleWorkflowGetRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	workflowID := r.PathValue("id")
	workflow, svcErr := h.workflowService.GetWorkflow(workflowID)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, workflow, logger)
}

// HandleWorkflowUpdateRequest replaces a stored workflow definition.
func (h *WorkflowHandler) HandleWorkflowUpdateRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	workflowID := r.PathValue("id")
	request, err := utils.DecodeJSONBody[mgt.WorkflowRequest](r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, constants.APIErrorWorkflowJSONDecodeError, logger)
		return
	}

	workflow, svcErr := h.workflowService.UpdateWorkflow(workflowID, *request)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, workflow, logger)
	logger.Debug("Workflow update request handled successfully",
		log.String(log.LoggerKeyWorkflowID, workflowID))
}

// HandleWorkflowDeleteRequest deletes a stored workflow definition.
func (h *WorkflowHandler) HandleWorkflowDeleteRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	workflowID := r.PathValue("id")
	if svcErr := h.workflowService.DeleteWorkflow(workflowID); svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleWorkflowValidateRequest validates a stored workflow graph and returns
// the findings.
func (h *WorkflowHandler) HandleWorkflowValidateRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	workflowID := r.PathValue("id")
	result, svcErr := h.workflowService.ValidateWorkflow(workflowID)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, result, logger)
}

// writeServiceError maps a service error to its HTTP error response.
func writeServiceError(w http.ResponseWriter, svcErr *serviceerror.ServiceError, logger *log.Logger) {
	statusCode := http.StatusInternalServerError
	if svcErr.Type == serviceerror.ClientErrorType {
		statusCode = http.StatusBadRequest
		if svcErr.Code == constants.ErrorWorkflowNotFound.Code {
			statusCode = http.StatusNotFound
		}
	}

	writeErrorResponse(w, statusCode, apierror.ErrorResponse{
		Code:        svcErr.Code,
		Message:     svcErr.Error,
		Description: svcErr.ErrorDescription,
	}, logger)
}

// writeErrorResponse encodes an error payload with the given status code.
func writeErrorResponse(w http.ResponseWriter, statusCode int,
	errResp apierror.ErrorResponse, logger *log.Logger) {
	w.Header().Set(sysconst.ContentTypeHeaderName, sysconst.ContentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("Error encoding error response", log.Error(err))
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeJSONResponse encodes a success payload with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}, logger *log.Logger) {
	w.Header().Set(sysconst.ContentTypeHeaderName, sysconst.ContentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Error encoding response", log.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
