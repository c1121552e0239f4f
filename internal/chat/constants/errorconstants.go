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

// Chat client error structs

var APIErrorChatRequestJSONDecodeError = apierror.ErrorResponse{
	Code:        "CHS-60001",
	Message:     "Invalid request payload",
	Description: "Failed to decode request payload",
}

var ErrorInvalidChatRequest = serviceerror.ServiceError{
	Code:             "CHS-60002",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "The chat query request payload is invalid",
}

var ErrorSessionNotFound = serviceerror.ServiceError{
	Code:             "CHS-60003",
	Type:             serviceerror.ClientErrorType,
	Error:            "Session not found",
	ErrorDescription: "No chat session exists for the given session ID",
}

var ErrorSessionWorkflowMismatch = serviceerror.ServiceError{
	Code:             "CHS-60004",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "The chat session does not belong to the given workflow",
}

// Chat server error structs

var ErrorWhileCreatingSession = serviceerror.ServiceError{
	Code:             "CHS-65001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while creating the chat session",
}

var ErrorWhileRetrievingSession = serviceerror.ServiceError{
	Code:             "CHS-65002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while retrieving the chat session",
}

var ErrorWhileDeletingSession = serviceerror.ServiceError{
	Code:             "CHS-65003",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while deleting the chat session",
}

var ErrorWhileListingSessions = serviceerror.ServiceError{
	Code:             "CHS-65004",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while listing chat sessions",
}

var ErrorWhileRetrievingHistory = serviceerror.ServiceError{
	Code:             "CHS-65005",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while retrieving the session history",
}
