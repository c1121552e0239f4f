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

// Package store provides the persistence layer for chat sessions and their
// append-only message history.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/asgardeo/flowstack/internal/chat/model"
	dbmodel "github.com/asgardeo/flowstack/internal/system/database/model"
	"github.com/asgardeo/flowstack/internal/system/database/provider"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/utils"
)

const loggerComponentName = "SessionStore"

var (
	instance *SessionStore
	once     sync.Once
)

// SessionStoreInterface defines the persistence operations for chat sessions.
type SessionStoreInterface interface {
	CreateSession(session model.Session) error
	GetSession(sessionID string) (*model.Session, error)
	ListSessions(workflowID string) ([]model.Session, error)
	DeleteSession(sessionID string) error
	AppendTurns(sessionID string, turns []model.Message) error
	GetHistory(sessionID string) ([]model.Message, error)
}

// SessionStore persists chat sessions and messages in the runtime database.
// Appends and deletes are serialized per session id so that two concurrent
// turns on one session can never interleave their history entries.
type SessionStore struct {
	DBProvider provider.DBProviderInterface

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes the writers of one session. lastStamp records the
// newest message timestamp issued for the session so successive appends stay
// strictly ordered even when the wall clock has not advanced between them.
// refs counts holders and waiters; purge marks the entry for removal after
// the session is deleted. The map entry is removed only when refs drops to
// zero, so a waiter never ends up holding an orphaned mutex.
type sessionLock struct {
	mu        sync.Mutex
	lastStamp time.Time
	refs      int
	purge     bool
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// GetSessionStore returns the singleton session store backed by the runtime
// database.
func GetSessionStore() SessionStoreInterface {
	once.Do(func() {
		instance = NewSessionStore(provider.GetDBProvider())
	})
	return instance
}

// NewSessionStore creates a session store with the given database provider.
func NewSessionStore(dbProvider provider.DBProviderInterface) *SessionStore {
	return &SessionStore{
		DBProvider: dbProvider,
		locks:      make(map[string]*sessionLock),
	}
}

// acquireSessionLock takes the ordering lock of the given session id,
// registering the caller as a holder before blocking on the mutex.
func (s *SessionStore) acquireSessionLock(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// releaseSessionLock unlocks the ordering lock. The map entry is removed only
// for a deleted session, and only once no other holder or waiter references
// it; live sessions keep their entry so lastStamp persists across appends.
func (s *SessionStore) releaseSessionLock(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	lock.refs--
	if lock.refs == 0 && lock.purge {
		delete(s.locks, sessionID)
	}
}

// purgeSessionLock marks the ordering lock of a deleted session for removal.
func (s *SessionStore) purgeSessionLock(lock *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock.purge = true
}

// CreateSession inserts a new chat session.
func (s *SessionStore) CreateSession(session model.Session) error {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(QueryCreateChatSession, session.SessionID, session.WorkflowID,
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

// GetSession retrieves a chat session by its id. It returns nil when the
// session does not exist.
func (s *SessionStore) GetSession(sessionID string) (*model.Session, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetChatSessionByID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat session: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	session, err := buildSessionFromResultRow(results[0])
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions retrieves the sessions of a workflow, most recently active
// first.
func (s *SessionStore) ListSessions(workflowID string) ([]model.Session, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryListChatSessionsByWorkflow, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}

	sessions := make([]model.Session, 0, len(results))
	for _, row := range results {
		session, err := buildSessionFromResultRow(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// DeleteSession deletes a chat session together with its message history.
func (s *SessionStore) DeleteSession(sessionID string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	lock := s.acquireSessionLock(sessionID)
	defer s.releaseSessionLock(sessionID, lock)

	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	dbType := dbClient.DBType()
	if _, err := tx.Exec(QueryDeleteChatMessagesBySession.GetQuery(dbType), sessionID); err != nil {
		rollback(tx, logger)
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	if _, err := tx.Exec(QueryDeleteChatSession.GetQuery(dbType), sessionID); err != nil {
		rollback(tx, logger)
		return fmt.Errorf("failed to delete chat session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.purgeSessionLock(lock)
	return nil
}

// AppendTurns appends the given turns to the session history in one
// transaction, preserving their order, and advances the session activity
// timestamp. The turns are stamped with strictly increasing creation times,
// clamped above the last stamp issued for the session, so history reads
// preserve the append order even across calls made within one clock tick.
func (s *SessionStore) AppendTurns(sessionID string, turns []model.Message) error {
	if len(turns) == 0 {
		return nil
	}

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	lock := s.acquireSessionLock(sessionID)
	defer s.releaseSessionLock(sessionID, lock)

	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	dbType := dbClient.DBType()
	base := time.Now().UTC()
	if !base.After(lock.lastStamp) {
		base = lock.lastStamp.Add(time.Millisecond)
	}
	for i, turn := range turns {
		messageID := turn.MessageID
		if messageID == "" {
			messageID = utils.GenerateUUID()
		}
		createdAt := base.Add(time.Duration(i) * time.Millisecond)
		_, err := tx.Exec(QueryInsertChatMessage.GetQuery(dbType), messageID, sessionID,
			turn.Role, turn.Content, createdAt)
		if err != nil {
			rollback(tx, logger)
			return fmt.Errorf("failed to insert chat message: %w", err)
		}
	}

	lastStamp := base.Add(time.Duration(len(turns)-1) * time.Millisecond)
	if _, err := tx.Exec(QueryTouchChatSession.GetQuery(dbType), lastStamp, sessionID); err != nil {
		rollback(tx, logger)
		return fmt.Errorf("failed to update chat session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	lock.lastStamp = lastStamp
	return nil
}

// GetHistory retrieves the full message history of a session in
// chronological order.
func (s *SessionStore) GetHistory(sessionID string) ([]model.Message, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetChatMessagesBySession, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}

	messages := make([]model.Message, 0, len(results))
	for _, row := range results {
		message, err := buildMessageFromResultRow(row)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// rollback rolls back the transaction logging any rollback failure.
func rollback(tx dbmodel.TxInterface, logger *log.Logger) {
	if err := tx.Rollback(); err != nil {
		logger.Error("Failed to rollback transaction", log.Error(err))
	}
}

// buildSessionFromResultRow maps a session query result row to the model.
func buildSessionFromResultRow(row map[string]interface{}) (model.Session, error) {
	sessionID, ok := parseStringColumn(row["session_id"])
	if !ok {
		return model.Session{}, fmt.Errorf("failed to parse session_id in result row")
	}
	workflowID, ok := parseStringColumn(row["workflow_id"])
	if !ok {
		return model.Session{}, fmt.Errorf("failed to parse workflow_id in result row")
	}

	session := model.Session{
		SessionID:  sessionID,
		WorkflowID: workflowID,
	}
	session.CreatedAt, _ = parseTimeColumn(row["created_at"])
	session.UpdatedAt, _ = parseTimeColumn(row["updated_at"])
	return session, nil
}

// buildMessageFromResultRow maps a message query result row to the model.
func buildMessageFromResultRow(row map[string]interface{}) (model.Message, error) {
	messageID, ok := parseStringColumn(row["message_id"])
	if !ok {
		return model.Message{}, fmt.Errorf("failed to parse message_id in result row")
	}
	sessionID, ok := parseStringColumn(row["session_id"])
	if !ok {
		return model.Message{}, fmt.Errorf("failed to parse session_id in result row")
	}
	role, ok := parseStringColumn(row["role"])
	if !ok {
		return model.Message{}, fmt.Errorf("failed to parse role in result row")
	}
	content, ok := parseStringColumn(row["content"])
	if !ok {
		return model.Message{}, fmt.Errorf("failed to parse content in result row")
	}

	message := model.Message{
		MessageID: messageID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	message.CreatedAt, _ = parseTimeColumn(row["created_at"])
	return message, nil
}

// parseStringColumn reads a string column tolerating byte slice values
// returned by some drivers.
func parseStringColumn(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

// parseTimeColumn reads a timestamp column tolerating the string
// representations returned by the sqlite driver.
func parseTimeColumn(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		return parseTimeString(v)
	case []byte:
		return parseTimeString(string(v))
	default:
		return time.Time{}, false
	}
}

// parseTimeString tries the timestamp layouts produced by the supported
// drivers.
func parseTimeString(value string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
