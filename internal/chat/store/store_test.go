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
	"database/sql"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asgardeo/flowstack/internal/chat/model"
	"github.com/asgardeo/flowstack/internal/system/database/client"
	dbmodel "github.com/asgardeo/flowstack/internal/system/database/model"
	"github.com/asgardeo/flowstack/tests/mocks/databasemock"
)

func newTestStore(dbClient client.DBClientInterface) *SessionStore {
	return NewSessionStore(&databasemock.MockDBProvider{
		MockGetDBClient: func(dbName string) (client.DBClientInterface, error) {
			return dbClient, nil
		},
	})
}

func TestCreateSession(t *testing.T) {
	mockClient := &databasemock.MockDBClient{}
	store := newTestStore(mockClient)

	session := model.Session{
		SessionID:  "sess-1",
		WorkflowID: "wf-1",
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	err := store.CreateSession(session)

	require.NoError(t, err)
	require.Len(t, mockClient.ExecuteCalls, 1)
	assert.Equal(t, QueryCreateChatSession.GetID(), mockClient.ExecuteCalls[0].Query.GetID())
	assert.Equal(t, "sess-1", mockClient.ExecuteCalls[0].Args[0])
	assert.Equal(t, "wf-1", mockClient.ExecuteCalls[0].Args[1])
}

func TestGetSessionNotFound(t *testing.T) {
	mockClient := &databasemock.MockDBClient{
		MockQuery: func(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
			return []map[string]interface{}{}, nil
		},
	}
	store := newTestStore(mockClient)

	session, err := store.GetSession("missing")

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestGetSessionParsesDriverValues(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	mockClient := &databasemock.MockDBClient{
		MockQuery: func(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
			return []map[string]interface{}{
				{
					"session_id":  []byte("sess-1"),
					"workflow_id": "wf-1",
					"created_at":  createdAt,
					"updated_at":  "2025-06-01 10:35:00",
				},
			}, nil
		},
	}
	store := newTestStore(mockClient)

	session, err := store.GetSession("sess-1")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "sess-1", session.SessionID)
	assert.Equal(t, "wf-1", session.WorkflowID)
	assert.Equal(t, createdAt, session.CreatedAt)
	assert.Equal(t, 35, session.UpdatedAt.Minute())
}

func TestListSessions(t *testing.T) {
	mockClient := &databasemock.MockDBClient{
		MockQuery: func(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
			return []map[string]interface{}{
				{"session_id": "sess-2", "workflow_id": "wf-1"},
				{"session_id": "sess-1", "workflow_id": "wf-1"},
			}, nil
		},
	}
	store := newTestStore(mockClient)

	sessions, err := store.ListSessions("wf-1")

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-2", sessions[0].SessionID)
	require.Len(t, mockClient.QueryCalls, 1)
	assert.Equal(t, QueryListChatSessionsByWorkflow.GetID(), mockClient.QueryCalls[0].Query.GetID())
}

func TestAppendTurnsStampsIncreasingTimes(t *testing.T) {
	mockTx := &databasemock.MockTx{}
	mockClient := &databasemock.MockDBClient{
		Type: "sqlite",
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			return mockTx, nil
		},
	}
	store := newTestStore(mockClient)

	turns := []model.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	err := store.AppendTurns("sess-1", turns)

	require.NoError(t, err)
	assert.Equal(t, 1, mockTx.CommitCalls)
	assert.Equal(t, 0, mockTx.RollbackCalls)
	// Two message inserts plus the session touch.
	require.Len(t, mockTx.ExecCalls, 3)

	first := mockTx.ExecCalls[0]
	second := mockTx.ExecCalls[1]
	assert.Equal(t, QueryInsertChatMessage.GetQuery("sqlite"), first.Query)
	assert.Equal(t, "user", first.Args[2])
	assert.Equal(t, "assistant", second.Args[2])

	firstStamp, ok := first.Args[4].(time.Time)
	require.True(t, ok)
	secondStamp, ok := second.Args[4].(time.Time)
	require.True(t, ok)
	assert.True(t, secondStamp.After(firstStamp))

	touch := mockTx.ExecCalls[2]
	assert.Equal(t, QueryTouchChatSession.GetQuery("sqlite"), touch.Query)
	assert.Equal(t, secondStamp, touch.Args[0])
}

func TestAppendTurnsBackToBackKeepsHistoryOrder(t *testing.T) {
	mockTx := &databasemock.MockTx{}
	mockClient := &databasemock.MockDBClient{
		Type: "sqlite",
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			return mockTx, nil
		},
	}
	store := newTestStore(mockClient)

	// Two turns appended within the same clock tick must still read back in
	// turn order, user before assistant.
	require.NoError(t, store.AppendTurns("sess-1", []model.Message{
		{Role: "user", Content: "turn-1 question"},
		{Role: "assistant", Content: "turn-1 answer"},
	}))
	require.NoError(t, store.AppendTurns("sess-1", []model.Message{
		{Role: "user", Content: "turn-2 question"},
		{Role: "assistant", Content: "turn-2 answer"},
	}))

	type insertedRow struct {
		messageID string
		content   string
		createdAt time.Time
	}
	rows := make([]insertedRow, 0, 4)
	for _, call := range mockTx.ExecCalls {
		if call.Query != QueryInsertChatMessage.GetQuery("sqlite") {
			continue
		}
		rows = append(rows, insertedRow{
			messageID: call.Args[0].(string),
			content:   call.Args[3].(string),
			createdAt: call.Args[4].(time.Time),
		})
	}
	require.Len(t, rows, 4)

	// Re-sort exactly as the history query orders its rows.
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.Before(rows[j].createdAt)
		}
		return rows[i].messageID < rows[j].messageID
	})

	contents := make([]string, 0, len(rows))
	for _, row := range rows {
		contents = append(contents, row.content)
	}
	assert.Equal(t, []string{
		"turn-1 question", "turn-1 answer",
		"turn-2 question", "turn-2 answer",
	}, contents)
}

func TestAppendTurnsGeneratesMessageIDs(t *testing.T) {
	mockTx := &databasemock.MockTx{}
	mockClient := &databasemock.MockDBClient{
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			return mockTx, nil
		},
	}
	store := newTestStore(mockClient)

	err := store.AppendTurns("sess-1", []model.Message{{Role: "user", Content: "hello"}})

	require.NoError(t, err)
	require.Len(t, mockTx.ExecCalls, 2)
	assert.NotEmpty(t, mockTx.ExecCalls[0].Args[0])
}

func TestAppendTurnsRollsBackOnInsertFailure(t *testing.T) {
	mockTx := &databasemock.MockTx{
		MockExec: func(query string, args ...any) (sql.Result, error) {
			return nil, errors.New("constraint violation")
		},
	}
	mockClient := &databasemock.MockDBClient{
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			return mockTx, nil
		},
	}
	store := newTestStore(mockClient)

	err := store.AppendTurns("sess-1", []model.Message{{Role: "user", Content: "hello"}})

	assert.Error(t, err)
	assert.Equal(t, 1, mockTx.RollbackCalls)
	assert.Equal(t, 0, mockTx.CommitCalls)
}

func TestAppendTurnsNoTurnsIsNoop(t *testing.T) {
	mockClient := &databasemock.MockDBClient{}
	store := newTestStore(mockClient)

	err := store.AppendTurns("sess-1", nil)

	require.NoError(t, err)
	assert.Equal(t, 0, mockClient.BeginTxCalls)
}

func TestAppendTurnsSerializesPerSession(t *testing.T) {
	var inFlight int32
	mockClient := &databasemock.MockDBClient{
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			if atomic.AddInt32(&inFlight, 1) > 1 {
				return nil, errors.New("overlapping transactions on one session")
			}
			return &databasemock.MockTx{
				MockExec: func(query string, args ...any) (sql.Result, error) {
					time.Sleep(time.Millisecond)
					return &databasemock.MockSQLResult{}, nil
				},
				MockCommit: func() error {
					atomic.AddInt32(&inFlight, -1)
					return nil
				},
			}, nil
		},
	}
	store := newTestStore(mockClient)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.AppendTurns("sess-1", []model.Message{
				{Role: "user", Content: "question"},
				{Role: "assistant", Content: "answer"},
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 4, mockClient.BeginTxCalls)
}

func TestDeleteSessionKeepsAppendsSerialized(t *testing.T) {
	var inFlight int32
	mockClient := &databasemock.MockDBClient{
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			if atomic.AddInt32(&inFlight, 1) > 1 {
				return nil, errors.New("overlapping transactions on one session")
			}
			return &databasemock.MockTx{
				MockExec: func(query string, args ...any) (sql.Result, error) {
					time.Sleep(time.Millisecond)
					return &databasemock.MockSQLResult{}, nil
				},
				MockCommit: func() error {
					atomic.AddInt32(&inFlight, -1)
					return nil
				},
			}, nil
		},
	}
	store := newTestStore(mockClient)

	// A delete racing appends on the same session must keep them all on one
	// lock; waiters woken after the delete still exclude each other.
	var wg sync.WaitGroup
	errs := make([]error, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = store.DeleteSession("sess-1")
	}()
	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.AppendTurns("sess-1", []model.Message{
				{Role: "user", Content: "question"},
				{Role: "assistant", Content: "answer"},
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 5, mockClient.BeginTxCalls)
}

func TestDeleteSessionRemovesMessagesAndSession(t *testing.T) {
	mockTx := &databasemock.MockTx{}
	mockClient := &databasemock.MockDBClient{
		Type: "postgres",
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			return mockTx, nil
		},
	}
	store := newTestStore(mockClient)

	err := store.DeleteSession("sess-1")

	require.NoError(t, err)
	require.Len(t, mockTx.ExecCalls, 2)
	assert.Equal(t, QueryDeleteChatMessagesBySession.GetQuery("postgres"), mockTx.ExecCalls[0].Query)
	assert.Equal(t, QueryDeleteChatSession.GetQuery("postgres"), mockTx.ExecCalls[1].Query)
	assert.Equal(t, 1, mockTx.CommitCalls)
}

func TestDeleteSessionRollsBackOnFailure(t *testing.T) {
	mockTx := &databasemock.MockTx{
		MockExec: func(query string, args ...any) (sql.Result, error) {
			if query == QueryDeleteChatSession.GetQuery("sqlite") {
				return nil, errors.New("locked")
			}
			return &databasemock.MockSQLResult{}, nil
		},
	}
	mockClient := &databasemock.MockDBClient{
		Type: "sqlite",
		MockBeginTx: func() (dbmodel.TxInterface, error) {
			return mockTx, nil
		},
	}
	store := newTestStore(mockClient)

	err := store.DeleteSession("sess-1")

	assert.Error(t, err)
	assert.Equal(t, 1, mockTx.RollbackCalls)
	assert.Equal(t, 0, mockTx.CommitCalls)
}

func TestGetHistoryPreservesRowOrder(t *testing.T) {
	mockClient := &databasemock.MockDBClient{
		MockQuery: func(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
			return []map[string]interface{}{
				{"message_id": "m-1", "session_id": "sess-1", "role": "user", "content": "hello"},
				{"message_id": "m-2", "session_id": "sess-1", "role": "assistant", "content": "hi"},
			}, nil
		},
	}
	store := newTestStore(mockClient)

	messages, err := store.GetHistory("sess-1")

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
	require.Len(t, mockClient.QueryCalls, 1)
	assert.Equal(t, QueryGetChatMessagesBySession.GetID(), mockClient.QueryCalls[0].Query.GetID())
}

func TestGetHistoryPropagatesQueryError(t *testing.T) {
	mockClient := &databasemock.MockDBClient{
		MockQuery: func(query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
			return nil, errors.New("connection reset")
		},
	}
	store := newTestStore(mockClient)

	_, err := store.GetHistory("sess-1")

	assert.Error(t, err)
}

func TestParseTimeStringSupportedLayouts(t *testing.T) {
	for _, value := range []string{
		"2025-06-01T10:30:00.123456789Z",
		"2025-06-01 10:30:00.123456789+00:00",
		"2025-06-01 10:30:00",
	} {
		parsed, ok := parseTimeString(value)
		assert.True(t, ok, value)
		assert.Equal(t, 2025, parsed.Year(), value)
	}

	_, ok := parseTimeString("not-a-timestamp")
	assert.False(t, ok)
}
