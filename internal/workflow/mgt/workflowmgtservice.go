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

// Package mgt provides the management service for stored workflow
// definitions.
package mgt

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/asgardeo/flowstack/internal/system/cache"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
	"github.com/asgardeo/flowstack/internal/system/log"
	"github.com/asgardeo/flowstack/internal/system/utils"
	wfvalidator "github.com/asgardeo/flowstack/internal/workflow/validator"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
	"github.com/asgardeo/flowstack/internal/workflow/store"
)

const (
	loggerComponentName = "WorkflowMgtService"
	workflowCacheName   = "WorkflowCache"
)

var (
	instance *WorkflowMgtService
	once     sync.Once
)

// WorkflowMgtServiceInterface defines the management operations over stored
// workflow definitions.
type WorkflowMgtServiceInterface interface {
	CreateWorkflow(request WorkflowRequest) (*WorkflowResponse, *serviceerror.ServiceError)
	GetWorkflow(workflowID string) (*WorkflowResponse, *serviceerror.ServiceError)
	ListWorkflows() ([]WorkflowListItem, *serviceerror.ServiceError)
	UpdateWorkflow(workflowID string, request WorkflowRequest) (*WorkflowResponse, *serviceerror.ServiceError)
	DeleteWorkflow(workflowID string) *serviceerror.ServiceError
	ValidateWorkflow(workflowID string) (*model.ValidationResult, *serviceerror.ServiceError)
	GetWorkflowGraph(workflowID string) (*model.Workflow, *serviceerror.ServiceError)
}

// WorkflowMgtService manages workflow definitions in the runtime database
// with a definition cache in front of the store. Workflows are immutable
// during a run: the engine executes a snapshot loaded through
// GetWorkflowGraph before the run starts.
type WorkflowMgtService struct {
	store            store.WorkflowStoreInterface
	validator        wfvalidator.GraphValidatorInterface
	requestValidator *validator.Validate
	workflowCache    cache.CacheInterface[model.Workflow]
}

var _ WorkflowMgtServiceInterface = (*WorkflowMgtService)(nil)

// GetWorkflowMgtService returns the singleton workflow management service.
func GetWorkflowMgtService() WorkflowMgtServiceInterface {
	once.Do(func() {
		instance = NewWorkflowMgtService(store.GetWorkflowStore(), wfvalidator.GetGraphValidator())
	})
	return instance
}

// NewWorkflowMgtService creates a workflow management service with the given
// collaborators.
func NewWorkflowMgtService(workflowStore store.WorkflowStoreInterface,
	graphValidator wfvalidator.GraphValidatorInterface) *WorkflowMgtService {
	return &WorkflowMgtService{
		store:            workflowStore,
		validator:        graphValidator,
		requestValidator: validator.New(),
		workflowCache:    cache.GetCache[model.Workflow](workflowCacheName),
	}
}

// CreateWorkflow stores a new workflow definition.
func (s *WorkflowMgtService) CreateWorkflow(request WorkflowRequest) (
	*WorkflowResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := s.requestValidator.Struct(request); err != nil {
		return nil, &constants.ErrorInvalidWorkflowRequest
	}

	now := time.Now().UTC()
	record := store.Record{
		Workflow: model.Workflow{
			ID:          utils.GenerateUUID(),
			Name:        request.Name,
			Description: request.Description,
			Nodes:       request.Nodes,
			Edges:       request.Edges,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateWorkflow(record); err != nil {
		logger.Error("Failed to create workflow", log.Error(err))
		return nil, &constants.ErrorWhileCreatingWorkflow
	}

	logger.Debug("Created workflow", log.String(log.LoggerKeyWorkflowID, record.Workflow.ID))
	response := buildWorkflowResponse(record)
	return &response, nil
}

// GetWorkflow retrieves a stored workflow definition.
func (s *WorkflowMgtService) GetWorkflow(workflowID string) (
	*WorkflowResponse, *serviceerror.ServiceError) {
	record, svcErr := s.getRecord(workflowID)
	if svcErr != nil {
		return nil, svcErr
	}
	response := buildWorkflowResponse(*record)
	return &response, nil
}

// ListWorkflows retrieves the stored workflows without their definitions.
func (s *WorkflowMgtService) ListWorkflows() ([]WorkflowListItem, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	records, err := s.store.ListWorkflows()
	if err != nil {
		logger.Error("Failed to list workflows", log.Error(err))
		return nil, &constants.ErrorWhileListingWorkflows
	}

	items := make([]WorkflowListItem, 0, len(records))
	for _, record := range records {
		items = append(items, WorkflowListItem{
			ID:          record.Workflow.ID,
			Name:        record.Workflow.Name,
			Description: record.Workflow.Description,
			CreatedAt:   record.CreatedAt,
			UpdatedAt:   record.UpdatedAt,
		})
	}
	return items, nil
}

// UpdateWorkflow replaces a stored workflow definition and invalidates its
// cache entry. Runs already executing continue on their loaded snapshot.
func (s *WorkflowMgtService) UpdateWorkflow(workflowID string, request WorkflowRequest) (
	*WorkflowResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, workflowID))

	if err := s.requestValidator.Struct(request); err != nil {
		return nil, &constants.ErrorInvalidWorkflowRequest
	}

	existing, svcErr := s.getRecord(workflowID)
	if svcErr != nil {
		return nil, svcErr
	}

	record := store.Record{
		Workflow: model.Workflow{
			ID:          workflowID,
			Name:        request.Name,
			Description: request.Description,
			Nodes:       request.Nodes,
			Edges:       request.Edges,
		},
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	updated, err := s.store.UpdateWorkflow(record)
	if err != nil {
		logger.Error("Failed to update workflow", log.Error(err))
		return nil, &constants.ErrorWhileUpdatingWorkflow
	}
	if !updated {
		return nil, &constants.ErrorWorkflowNotFound
	}

	s.invalidateCache(workflowID, logger)

	logger.Debug("Updated workflow")
	response := buildWorkflowResponse(record)
	return &response, nil
}

// DeleteWorkflow deletes a stored workflow definition and invalidates its
// cache entry.
func (s *WorkflowMgtService) DeleteWorkflow(workflowID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, workflowID))

	deleted, err := s.store.DeleteWorkflow(workflowID)
	if err != nil {
		logger.Error("Failed to delete workflow", log.Error(err))
		return &constants.ErrorWhileDeletingWorkflow
	}
	if !deleted {
		return &constants.ErrorWorkflowNotFound
	}

	s.invalidateCache(workflowID, logger)

	logger.Debug("Deleted workflow")
	return nil
}

// ValidateWorkflow runs graph validation against a stored workflow and
// returns the findings.
func (s *WorkflowMgtService) ValidateWorkflow(workflowID string) (
	*model.ValidationResult, *serviceerror.ServiceError) {
	workflow, svcErr := s.GetWorkflowGraph(workflowID)
	if svcErr != nil {
		return nil, svcErr
	}

	result := s.validator.Validate(workflow)
	return &result, nil
}

// GetWorkflowGraph loads the executable graph of a stored workflow through
// the definition cache.
func (s *WorkflowMgtService) GetWorkflowGraph(workflowID string) (
	*model.Workflow, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, workflowID))

	cacheKey := cache.CacheKey{Key: workflowID}
	if cached, ok := s.workflowCache.Get(cacheKey); ok {
		return &cached, nil
	}

	record, svcErr := s.getRecord(workflowID)
	if svcErr != nil {
		return nil, svcErr
	}

	if err := s.workflowCache.Set(cacheKey, record.Workflow); err != nil {
		logger.Debug("Failed to cache workflow definition", log.Error(err))
	}
	return &record.Workflow, nil
}

// getRecord loads a stored workflow record mapping persistence failures to
// service errors.
func (s *WorkflowMgtService) getRecord(workflowID string) (*store.Record, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyWorkflowID, workflowID))

	record, err := s.store.GetWorkflow(workflowID)
	if err != nil {
		logger.Error("Failed to retrieve workflow", log.Error(err))
		return nil, &constants.ErrorWhileRetrievingWorkflow
	}
	if record == nil {
		return nil, &constants.ErrorWorkflowNotFound
	}
	return record, nil
}

// invalidateCache drops the cached definition of a workflow.
func (s *WorkflowMgtService) invalidateCache(workflowID string, logger *log.Logger) {
	if err := s.workflowCache.Delete(cache.CacheKey{Key: workflowID}); err != nil {
		logger.Debug("Failed to invalidate workflow cache entry", log.Error(err))
	}
}

// buildWorkflowResponse maps a stored record to its full representation.
func buildWorkflowResponse(record store.Record) WorkflowResponse {
	return WorkflowResponse{
		ID:          record.Workflow.ID,
		Name:        record.Workflow.Name,
		Description: record.Workflow.Description,
		Nodes:       record.Workflow.Nodes,
		Edges:       record.Workflow.Edges,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
