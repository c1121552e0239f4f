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

package constants

import (
	"github.com/asgardeo/flowstack/internal/system/error/apierror"
	"github.com/asgardeo/flowstack/internal/system/error/serviceerror"
)

// Workflow engine client error structs

var ErrorInvalidWorkflowGraph = serviceerror.ServiceError{
	Code:             "WES-60001",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid workflow graph",
	ErrorDescription: "Workflow graph failed validation",
}

var ErrorMissingQuery = serviceerror.ServiceError{
	Code:             "WES-60002",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "A non-empty query is required to execute the workflow",
}

// Workflow engine server error structs

var ErrorGraphCompilationFailed = serviceerror.ServiceError{
	Code:             "WES-65001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Failed to compile the workflow graph",
}

var ErrorNodeExecutorNotFound = serviceerror.ServiceError{
	Code:             "WES-65002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "An executor is not registered for the node kind",
}

var ErrorGenerationFailed = serviceerror.ServiceError{
	Code:             "WES-65003",
	Type:             serviceerror.ServerErrorType,
	Error:            "Response generation failed",
	ErrorDescription: "The language model provider failed to generate a response",
}

var ErrorIncompleteRun = serviceerror.ServiceError{
	Code:             "WES-65004",
	Type:             serviceerror.ServerErrorType,
	Error:            "Workflow produced no response",
	ErrorDescription: "Workflow execution completed without producing a response",
}

var ErrorRunCancelled = serviceerror.ServiceError{
	Code:             "WES-65005",
	Type:             serviceerror.ServerErrorType,
	Error:            "Run cancelled",
	ErrorDescription: "The workflow run was cancelled before completion",
}

var ErrorSessionPersistenceFailed = serviceerror.ServiceError{
	Code:             "WES-65006",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Failed to persist the chat turn for the session",
}

var ErrorWorkflowExecutionFailed = serviceerror.ServiceError{
	Code:             "WES-65007",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while executing the workflow",
}

// Workflow management client error structs

var APIErrorWorkflowJSONDecodeError = apierror.ErrorResponse{
	Code:        "WMS-60001",
	Message:     "Invalid request payload",
	Description: "Failed to decode request payload",
}

var ErrorWorkflowNotFound = serviceerror.ServiceError{
	Code:             "WMS-60002",
	Type:             serviceerror.ClientErrorType,
	Error:            "Workflow not found",
	ErrorDescription: "No workflow exists for the given workflow ID",
}

var ErrorInvalidWorkflowRequest = serviceerror.ServiceError{
	Code:             "WMS-60003",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "The workflow request payload is invalid",
}

// Workflow management server error structs

var ErrorWhileCreatingWorkflow = serviceerror.ServiceError{
	Code:             "WMS-65001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while creating the workflow",
}

var ErrorWhileRetrievingWorkflow = serviceerror.ServiceError{
	Code:             "WMS-65002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while retrieving the workflow",
}

var ErrorWhileUpdatingWorkflow = serviceerror.ServiceError{
	Code:             "WMS-65003",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while updating the workflow",
}

var ErrorWhileDeletingWorkflow = serviceerror.ServiceError{
	Code:             "WMS-65004",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while deleting the workflow",
}

var ErrorWhileListingWorkflows = serviceerror.ServiceError{
	Code:             "WMS-65005",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while listing workflows",
}
