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

// Package service provides the chat execution service: the entry point that
// runs a workflow against a chat query and persists the session history.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/asgardeo/flowstack/internal/chat/constants"
	"github.com/asgardeo/flowstack/internal/chat/model"
	"github.com/asgardeo/flowstack/internal/chat/store"
	"github.com/asgardeo/flowstack/internal/system/config"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/utils"
	wfconstants "github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/engine"
	"github.com/asgardeo/flowstack/internal/workflow/mgt"
	wfmodel "github.com/asgardeo/flowstack/internal/workflow/model"
)

const loggerComponentName = "ChatService"

var (
	instance *ChatService
	once     sync.Once
)

// ChatServiceInterface defines the chat surface consumed by the HTTP layer.
type ChatServiceInterface interface {
	ExecuteQuery(ctx context.Context, request model.ChatQueryRequest) (
		*model.ChatQueryResponse, *serviceerror.ServiceError)
	GetSessionHistory(sessionID string) ([]model.HistoryEntry, *serviceerror.ServiceError)
	ListSessions(workflowID string) ([]model.Session, *serviceerror.ServiceError)
	DeleteSession(sessionID string) *serviceerror.ServiceError
}

// ChatService executes workflow runs for chat queries. A run is all-or-nothing
// with respect to history: the session is created and the turn appended only
// after the run completes, so a fatal run failure leaves the session exactly
// as it was before the turn.
type ChatService struct {
	workflowService  mgt.WorkflowMgtServiceInterface
	runner           engine.WorkflowRunnerInterface
	sessionStore     store.SessionStoreInterface
	requestValidator *validator.Validate
	historyTurns     int
}

var _ ChatServiceInterface = (*ChatService)(nil)

// GetChatService returns the singleton chat service.
func GetChatService() ChatServiceInterface {
	once.Do(func() {
		instance = NewChatService(mgt.GetWorkflowMgtService(), engine.GetWorkflowRunner(),
			store.GetSessionStore(), historyTurnsFromConfig())
	})
	return instance
}

// NewChatService creates a chat service with the given collaborators.
// historyTurns is the number of prior session turns folded into the
// generation prompt.
func NewChatService(workflowService mgt.WorkflowMgtServiceInterface,
	runner engine.WorkflowRunnerInterface, sessionStore store.SessionStoreInterface,
	historyTurns int) *ChatService {
	if historyTurns <= 0 {
		historyTurns = constants.DefaultHistoryTurns
	}
	return &ChatService{
		workflowService:  workflowService,
		runner:           runner,
		sessionStore:     sessionStore,
		requestValidator: validator.New(),
		historyTurns:     historyTurns,
	}
}

// historyTurnsFromConfig reads the configured history window size.
func historyTurnsFromConfig() int {
	return config.GetFlowstackRuntime().Config.Engine.HistoryTurns
}

// ExecuteQuery runs the workflow against the query and appends the exchange
// to the session history. A session is created when the request carries no
// session id.
func (s *ChatService) ExecuteQuery(ctx context.Context, request model.ChatQueryRequest) (
	*model.ChatQueryResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, request.WorkflowID))

	if err := s.requestValidator.Struct(request); err != nil {
		return nil, &constants.ErrorInvalidChatRequest
	}
	if strings.TrimSpace(request.Query) == "" {
		return nil, &wfconstants.ErrorMissingQuery
	}

	workflow, svcErr := s.workflowService.GetWorkflowGraph(request.WorkflowID)
	if svcErr != nil {
		return nil, svcErr
	}

	sessionID, isNewSession, history, svcErr := s.prepareSession(request)
	if svcErr != nil {
		return nil, svcErr
	}

	runID := utils.GenerateUUID()
	execCtx := wfmodel.NewExecutionContext(runID, workflow.ID, request.Query)
	execCtx.SessionID = sessionID
	execCtx.History = history

	logger = logger.With(log.String(log.LoggerKeyRunID, runID),
		log.String(log.LoggerKeySessionID, sessionID))
	logger.Debug("Executing chat query", log.Bool("newSession", isNewSession))

	if svcErr := s.runner.Run(ctx, workflow, execCtx); svcErr != nil {
		return nil, svcErr
	}

	if svcErr := s.persistTurn(request, sessionID, isNewSession, execCtx.Response(), logger); svcErr != nil {
		return nil, svcErr
	}

	return &model.ChatQueryResponse{
		Response:  execCtx.Response(),
		SessionID: sessionID,
	}, nil
}

// GetSessionHistory retrieves the ordered history of a session.
func (s *ChatService) GetSessionHistory(sessionID string) (
	[]model.HistoryEntry, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeySessionID, sessionID))

	if svcErr := s.requireSession(sessionID, logger); svcErr != nil {
		return nil, svcErr
	}

	messages, err := s.sessionStore.GetHistory(sessionID)
	if err != nil {
		logger.Error("Failed to retrieve session history", log.Error(err))
		return nil, &constants.ErrorWhileRetrievingHistory
	}

	entries := make([]model.HistoryEntry, 0, len(messages))
	for _, message := range messages {
		entries = append(entries, model.HistoryEntry{
			Role:      message.Role,
			Content:   message.Content,
			Timestamp: message.CreatedAt,
		})
	}
	return entries, nil
}

// ListSessions retrieves the sessions of a workflow, most recently active
// first.
func (s *ChatService) ListSessions(workflowID string) ([]model.Session, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, workflowID))

	sessions, err := s.sessionStore.ListSessions(workflowID)
	if err != nil {
		logger.Error("Failed to list chat sessions", log.Error(err))
		return nil, &constants.ErrorWhileListingSessions
	}
	return sessions, nil
}

// DeleteSession deletes a session together with its history.
func (s *ChatService) DeleteSession(sessionID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeySessionID, sessionID))

	if svcErr := s.requireSession(sessionID, logger); svcErr != nil {
		return svcErr
	}

	if err := s.sessionStore.DeleteSession(sessionID); err != nil {
		logger.Error("Failed to delete chat session", log.Error(err))
		return &constants.ErrorWhileDeletingSession
	}

	logger.Debug("Deleted chat session")
	return nil
}

// prepareSession resolves the session of the request. An existing session
// must belong to the requested workflow; its recent history is loaded for
// prompt assembly. A missing session id reserves a fresh one without
// persisting anything yet.
func (s *ChatService) prepareSession(request model.ChatQueryRequest) (
	string, bool, []wfmodel.Turn, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if request.SessionID == "" {
		return utils.GenerateUUID(), true, nil, nil
	}

	session, err := s.sessionStore.GetSession(request.SessionID)
	if err != nil {
		logger.Error("Failed to retrieve chat session", log.Error(err))
		return "", false, nil, &constants.ErrorWhileRetrievingSession
	}
	if session == nil {
		return "", false, nil, &constants.ErrorSessionNotFound
	}
	if session.WorkflowID != request.WorkflowID {
		return "", false, nil, &constants.ErrorSessionWorkflowMismatch
	}

	messages, err := s.sessionStore.GetHistory(request.SessionID)
	if err != nil {
		logger.Error("Failed to load session history", log.Error(err))
		return "", false, nil, &constants.ErrorWhileRetrievingHistory
	}

	return request.SessionID, false, s.historyWindow(messages), nil
}

// historyWindow converts the most recent messages into prompt history turns.
func (s *ChatService) historyWindow(messages []model.Message) []wfmodel.Turn {
	if len(messages) > s.historyTurns {
		messages = messages[len(messages)-s.historyTurns:]
	}
	turns := make([]wfmodel.Turn, 0, len(messages))
	for _, message := range messages {
		turns = append(turns, wfmodel.Turn{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	return turns
}

// persistTurn writes the exchange of a completed run: the session record when
// this was its first turn, then the user and assistant messages.
func (s *ChatService) persistTurn(request model.ChatQueryRequest, sessionID string,
	isNewSession bool, response string, logger *log.Logger) *serviceerror.ServiceError {
	if isNewSession {
		now := time.Now().UTC()
		session := model.Session{
			SessionID:  sessionID,
			WorkflowID: request.WorkflowID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.sessionStore.CreateSession(session); err != nil {
			logger.Error("Failed to create chat session", log.Error(err))
			return &wfconstants.ErrorSessionPersistenceFailed
		}
	}

	turns := []model.Message{
		{SessionID: sessionID, Role: wfconstants.RoleUser, Content: request.Query},
		{SessionID: sessionID, Role: wfconstants.RoleAssistant, Content: response},
	}
	if err := s.sessionStore.AppendTurns(sessionID, turns); err != nil {
		logger.Error("Failed to append chat turn", log.Error(err))
		return &wfconstants.ErrorSessionPersistenceFailed
	}
	return nil
}

// requireSession verifies that the session exists.
func (s *ChatService) requireSession(sessionID string, logger *log.Logger) *serviceerror.ServiceError {
	session, err := s.sessionStore.GetSession(sessionID)
	if err != nil {
		logger.Error("Failed to retrieve chat session", log.Error(err))
		return &constants.ErrorWhileRetrievingSession
	}
	if session == nil {
		return &constants.ErrorSessionNotFound
	}
	return nil
}
