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

package services

import (
	"net/http"

	"github.com/asgardeo/flowstack/internal/chat/handler"
	"github.com/asgardeo/flowstack/internal/system/server"
)

// ChatService defines the service for handling chat query and session
// management requests.
type ChatService struct {
	ServerOpsService server.ServerOperationServiceInterface
	chatHandler      *handler.ChatHandler
}

// NewChatService creates a new instance of ChatService.
func NewChatService(mux *http.ServeMux) ServiceInterface {
	instance := &ChatService{
		ServerOpsService: server.NewServerOperationService(),
		chatHandler:      handler.NewChatHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the ChatService.
func (s *ChatService) RegisterRoutes(mux *http.ServeMux) {
	opts1 := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "POST",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /chat/query", &opts1,
		s.chatHandler.HandleChatQueryRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "OPTIONS /chat/query", &opts1,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

	opts2 := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "GET /chat/sessions", &opts2,
		s.chatHandler.HandleSessionListRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /chat/sessions/{sessionId}/history", &opts2,
		s.chatHandler.HandleSessionHistoryRequest)

	opts3 := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, DELETE",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "DELETE /chat/sessions/{sessionId}", &opts3,
		s.chatHandler.HandleSessionDeleteRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "OPTIONS /chat/sessions/{sessionId}", &opts3,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
}
