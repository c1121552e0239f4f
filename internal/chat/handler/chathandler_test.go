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

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/flowstack/internal/chat/constants"
	"github.com/asgardeo/flowstack/internal/chat/model"
	"github.com/asgardeo/flowstack/internal/system/error/apierror"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
	wfconstants "github.com/asgardeo/flowstack/internal/workflow/constants"
)

type stubChatService struct {
	queryResponse *model.ChatQueryResponse
	queryErr      *serviceerror.ServiceError
	history       []model.HistoryEntry
	historyErr    *serviceerror.ServiceError
	sessions      []model.Session
	listErr       *serviceerror.ServiceError
	deleteErr     *serviceerror.ServiceError

	queryRequests   []model.ChatQueryRequest
	listWorkflowIDs []string
	deletedSessions []string
}

func (s *stubChatService) ExecuteQuery(ctx context.Context, request model.ChatQueryRequest) (
	*model.ChatQueryResponse, *serviceerror.ServiceError) {
	s.queryRequests = append(s.queryRequests, request)
	return s.queryResponse, s.queryErr
}

func (s *stubChatService) GetSessionHistory(sessionID string) (
	[]model.HistoryEntry, *serviceerror.ServiceError) {
	return s.history, s.historyErr
}

func (s *stubChatService) ListSessions(workflowID string) (
	[]model.Session, *serviceerror.ServiceError) {
	s.listWorkflowIDs = append(s.listWorkflowIDs, workflowID)
	return s.sessions, s.listErr
}

func (s *stubChatService) DeleteSession(sessionID string) *serviceerror.ServiceError {
	s.deletedSessions = append(s.deletedSessions, sessionID)
	return s.deleteErr
}

type ChatHandlerTestSuite struct {
	suite.Suite
	service *stubChatService
	handler *ChatHandler
}

func TestChatHandlerSuite(t *testing.T) {
	suite.Run(t, new(ChatHandlerTestSuite))
}

func (suite *ChatHandlerTestSuite) SetupTest() {
	suite.service = &stubChatService{}
	suite.handler = &ChatHandler{chatService: suite.service}
}

func (suite *ChatHandlerTestSuite) decodeError(rec *httptest.ResponseRecorder) apierror.ErrorResponse {
	var errResp apierror.ErrorResponse
	suite.Require().NoError(json.NewDecoder(rec.Body).Decode(&errResp))
	return errResp
}

func (suite *ChatHandlerTestSuite) TestHandleChatQueryRequest() {
	suite.service.queryResponse = &model.ChatQueryResponse{
		Response:  "generated answer",
		SessionID: "sess-1",
	}

	body := `{"query":"How do I reset my password?","workflowId":"wf-1"}`
	req := httptest.NewRequest("POST", "/chat/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	suite.handler.HandleChatQueryRequest(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	var response model.ChatQueryResponse
	suite.Require().NoError(json.NewDecoder(rec.Body).Decode(&response))
	suite.Equal("generated answer", response.Response)
	suite.Equal("sess-1", response.SessionID)

	suite.Require().Len(suite.service.queryRequests, 1)
	suite.Equal("wf-1", suite.service.queryRequests[0].WorkflowID)
}

func (suite *ChatHandlerTestSuite) TestHandleChatQueryRequestMalformedBody() {
	req := httptest.NewRequest("POST", "/chat/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	suite.handler.HandleChatQueryRequest(rec, req)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(constants.APIErrorChatRequestJSONDecodeError.Code, suite.decodeError(rec).Code)
	suite.Empty(suite.service.queryRequests)
}

func (suite *ChatHandlerTestSuite) TestHandleChatQueryRequestClientError() {
	suite.service.queryErr = &constants.ErrorInvalidChatRequest

	body := `{"query":"a question"}`
	req := httptest.NewRequest("POST", "/chat/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	suite.handler.HandleChatQueryRequest(rec, req)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal(constants.ErrorInvalidChatRequest.Code, suite.decodeError(rec).Code)
}

func (suite *ChatHandlerTestSuite) TestHandleChatQueryRequestWorkflowNotFound() {
	suite.service.queryErr = &wfconstants.ErrorWorkflowNotFound

	body := `{"query":"a question","workflowId":"missing"}`
	req := httptest.NewRequest("POST", "/chat/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	suite.handler.HandleChatQueryRequest(rec, req)

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *ChatHandlerTestSuite) TestHandleChatQueryRequestServerError() {
	suite.service.queryErr = &wfconstants.ErrorGenerationFailed

	body := `{"query":"a question","workflowId":"wf-1"}`
	req := httptest.NewRequest("POST", "/chat/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	suite.handler.HandleChatQueryRequest(rec, req)

	suite.Equal(http.StatusInternalServerError, rec.Code)
	suite.Equal(wfconstants.ErrorGenerationFailed.Code, suite.decodeError(rec).Code)
}

func (suite *ChatHandlerTestSuite) TestHandleSessionHistoryRequest() {
	suite.service.history = []model.HistoryEntry{
		{Role: "user", Content: "a question"},
		{Role: "assistant", Content: "an answer"},
	}

	req := httptest.NewRequest("GET", "/chat/sessions/sess-1/history", nil)
	req.SetPathValue("sessionId", "sess-1")
	rec := httptest.NewRecorder()

	suite.handler.HandleSessionHistoryRequest(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	var entries []model.HistoryEntry
	suite.Require().NoError(json.NewDecoder(rec.Body).Decode(&entries))
	suite.Require().Len(entries, 2)
	suite.Equal("user", entries[0].Role)
}

func (suite *ChatHandlerTestSuite) TestHandleSessionHistoryRequestNotFound() {
	suite.service.historyErr = &constants.ErrorSessionNotFound

	req := httptest.NewRequest("GET", "/chat/sessions/missing/history", nil)
	req.SetPathValue("sessionId", "missing")
	rec := httptest.NewRecorder()

	suite.handler.HandleSessionHistoryRequest(rec, req)

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Equal(constants.ErrorSessionNotFound.Code, suite.decodeError(rec).Code)
}

func (suite *ChatHandlerTestSuite) TestHandleSessionListRequest() {
	suite.service.sessions = []model.Session{{SessionID: "sess-1", WorkflowID: "wf-1"}}

	req := httptest.NewRequest("GET", "/chat/sessions?workflowId=wf-1", nil)
	rec := httptest.NewRecorder()

	suite.handler.HandleSessionListRequest(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal([]string{"wf-1"}, suite.service.listWorkflowIDs)
	var sessions []model.Session
	suite.Require().NoError(json.NewDecoder(rec.Body).Decode(&sessions))
	suite.Require().Len(sessions, 1)
	suite.Equal("sess-1", sessions[0].SessionID)
}

func (suite *ChatHandlerTestSuite) TestHandleSessionDeleteRequest() {
	req := httptest.NewRequest("DELETE", "/chat/sessions/sess-1", nil)
	req.SetPathValue("sessionId", "sess-1")
	rec := httptest.NewRecorder()

	suite.handler.HandleSessionDeleteRequest(rec, req)

	suite.Equal(http.StatusNoContent, rec.Code)
	suite.Equal([]string{"sess-1"}, suite.service.deletedSessions)
}

func (suite *ChatHandlerTestSuite) TestHandleSessionDeleteRequestNotFound() {
	suite.service.deleteErr = &constants.ErrorSessionNotFound

	req := httptest.NewRequest("DELETE", "/chat/sessions/missing", nil)
	req.SetPathValue("sessionId", "missing")
	rec := httptest.NewRecorder()

	suite.handler.HandleSessionDeleteRequest(rec, req)

	suite.Equal(http.StatusNotFound, rec.Code)
}
