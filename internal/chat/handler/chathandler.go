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

// Package handler provides HTTP handlers for the chat execution API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/asgardeo/flowstack/internal/chat/constants"
	"github.com/asgardeo/flowstack/internal/chat/model"
	"github.com/asgardeo/flowstack/internal/chat/service"
	sysconst "github.com/asgardeo/flowstack/internal/system/constants"
	"github.com/asgardeo/flowstack/internal/system/error/apierror"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/utils"
	wfconstants "github.com/asgardeo/flowstack/internal/workflow/constants"
)

const loggerComponentName = "ChatHandler"

// ChatHandler handles chat query and session management requests.
type ChatHandler struct {
	chatService service.ChatServiceInterface
}

// NewChatHandler creates a new instance of ChatHandler.
func NewChatHandler() *ChatHandler {
	return &ChatHandler{
		chatService: service.GetChatService(),
	}
}

// HandleChatQueryRequest executes a workflow against a chat query.
func (h *ChatHandler) HandleChatQueryRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	request, err := utils.DecodeJSONBody[model.ChatQueryRequest](r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, constants.APIErrorChatRequestJSONDecodeError, logger)
		return
	}

	chatResponse, svcErr := h.chatService.ExecuteQuery(r.Context(), *request)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, chatResponse, logger)
	logger.Debug("Chat query request handled successfully",
		log.String(log.LoggerKeySessionID, chatResponse.SessionID))
}

// HandleSessionHistoryRequest returns the ordered history of a session.
func (h *ChatHandler) HandleSessionHistoryRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	sessionID := r.PathValue("sessionId")
	entries, svcErr := h.chatService.GetSessionHistory(sessionID)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, entries, logger)
}

// HandleSessionListRequest returns the sessions of a workflow.
func (h *ChatHandler) HandleSessionListRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	workflowID := r.URL.Query().Get("workflowId")
	sessions, svcErr := h.chatService.ListSessions(workflowID)
	if svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessions, logger)
}

// HandleSessionDeleteRequest deletes a session together with its history.
func (h *ChatHandler) HandleSessionDeleteRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	sessionID := r.PathValue("sessionId")
	if svcErr := h.chatService.DeleteSession(sessionID); svcErr != nil {
		writeServiceError(w, svcErr, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps a service error to its HTTP error response.
func writeServiceError(w http.ResponseWriter, svcErr *serviceerror.ServiceError, logger *log.Logger) {
	statusCode := http.StatusInternalServerError
	if svcErr.Type == serviceerror.ClientErrorType {
		statusCode = http.StatusBadRequest
		if svcErr.Code == constants.ErrorSessionNotFound.Code ||
			svcErr.Code == wfconstants.ErrorWorkflowNotFound.Code {
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
