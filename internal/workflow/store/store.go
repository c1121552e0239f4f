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

// Package store provides the persistence layer for workflow definitions.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/asgardeo/flowstack/internal/system/database/provider"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

var (
	instance *WorkflowStore
	once     sync.Once
)

// Record is a stored workflow definition together with its record timestamps.
type Record struct {
	Workflow  model.Workflow
	CreatedAt time.Time
	UpdatedAt time.Time
}

// definition is the persisted JSON shape of a workflow graph.
type definition struct {
	Nodes []model.Node `json:"nodes"`
	Edges []model.Edge `json:"edges"`
}

// WorkflowStoreInterface defines the persistence operations for workflow
// definitions.
type WorkflowStoreInterface interface {
	CreateWorkflow(record Record) error
	GetWorkflow(workflowID string) (*Record, error)
	ListWorkflows() ([]Record, error)
	UpdateWorkflow(record Record) (bool, error)
	DeleteWorkflow(workflowID string) (bool, error)
}

// WorkflowStore persists workflow definitions as JSON documents in the
// runtime database.
type WorkflowStore struct {
	DBProvider provider.DBProviderInterface
}

var _ WorkflowStoreInterface = (*WorkflowStore)(nil)

// GetWorkflowStore returns the singleton workflow store backed by the
// runtime database.
func GetWorkflowStore() WorkflowStoreInterface {
	once.Do(func() {
		instance = NewWorkflowStore(provider.GetDBProvider())
	})
	return instance
}

// NewWorkflowStore creates a workflow store with the given database provider.
func NewWorkflowStore(dbProvider provider.DBProviderInterface) *WorkflowStore {
	return &WorkflowStore{
		DBProvider: dbProvider,
	}
}

// CreateWorkflow inserts a new workflow definition.
func (s *WorkflowStore) CreateWorkflow(record Record) error {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	definitionJSON, err := marshalDefinition(record.Workflow)
	if err != nil {
		return err
	}

	_, err = dbClient.Execute(QueryCreateWorkflow, record.Workflow.ID, record.Workflow.Name,
		record.Workflow.Description, definitionJSON, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow definition by its id. It returns nil when
// the workflow does not exist.
func (s *WorkflowStore) GetWorkflow(workflowID string) (*Record, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetWorkflowByID, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	record, err := buildRecordFromResultRow(results[0], true)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListWorkflows retrieves the stored workflows, most recently created first,
// without their graph definitions.
func (s *WorkflowStore) ListWorkflows() ([]Record, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryListWorkflows)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	records := make([]Record, 0, len(results))
	for _, row := range results {
		record, err := buildRecordFromResultRow(row, false)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// UpdateWorkflow updates a workflow definition. It reports whether a stored
// workflow was affected.
func (s *WorkflowStore) UpdateWorkflow(record Record) (bool, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	definitionJSON, err := marshalDefinition(record.Workflow)
	if err != nil {
		return false, err
	}

	affected, err := dbClient.Execute(QueryUpdateWorkflow, record.Workflow.Name,
		record.Workflow.Description, definitionJSON, record.UpdatedAt, record.Workflow.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update workflow: %w", err)
	}
	return affected > 0, nil
}

// DeleteWorkflow deletes a workflow definition. It reports whether a stored
// workflow was affected.
func (s *WorkflowStore) DeleteWorkflow(workflowID string) (bool, error) {
	dbClient, err := s.DBProvider.GetDBClient(provider.DBNameRuntime)
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	affected, err := dbClient.Execute(QueryDeleteWorkflow, workflowID)
	if err != nil {
		return false, fmt.Errorf("failed to delete workflow: %w", err)
	}
	return affected > 0, nil
}

// marshalDefinition serializes the graph definition of a workflow.
func marshalDefinition(workflow model.Workflow) (string, error) {
	def := definition{
		Nodes: workflow.Nodes,
		Edges: workflow.Edges,
	}
	definitionJSON, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("failed to marshal workflow definition: %w", err)
	}
	return string(definitionJSON), nil
}

// buildRecordFromResultRow maps a workflow query result row to a record,
// decoding the graph definition when requested.
func buildRecordFromResultRow(row map[string]interface{}, withDefinition bool) (Record, error) {
	workflowID, ok := parseStringColumn(row["workflow_id"])
	if !ok {
		return Record{}, fmt.Errorf("failed to parse workflow_id in result row")
	}
	name, ok := parseStringColumn(row["name"])
	if !ok {
		return Record{}, fmt.Errorf("failed to parse name in result row")
	}
	description, _ := parseStringColumn(row["description"])

	record := Record{
		Workflow: model.Workflow{
			ID:          workflowID,
			Name:        name,
			Description: description,
		},
	}
	record.CreatedAt, _ = parseTimeColumn(row["created_at"])
	record.UpdatedAt, _ = parseTimeColumn(row["updated_at"])

	if withDefinition {
		definitionJSON, ok := parseStringColumn(row["definition"])
		if !ok {
			return Record{}, fmt.Errorf("failed to parse definition in result row")
		}
		var def definition
		if err := json.Unmarshal([]byte(definitionJSON), &def); err != nil {
			return Record{}, fmt.Errorf("failed to unmarshal workflow definition: %w", err)
		}
		record.Workflow.Nodes = def.Nodes
		record.Workflow.Edges = def.Edges
	}
	return record, nil
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
