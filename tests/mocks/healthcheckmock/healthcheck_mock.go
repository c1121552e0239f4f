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

// Package healthcheckmock provides mock implementations of the health check interfaces for testing.
package healthcheckmock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/flowstack/internal/system/healthcheck/model"
	"github.com/asgardeo/flowstack/internal/system/healthcheck/service"
)

// HealthCheckServiceInterfaceMock is a mock implementation of HealthCheckServiceInterface.
type HealthCheckServiceInterfaceMock struct {
	mock.Mock
}

// CheckReadiness mocks the CheckReadiness method.
func (m *HealthCheckServiceInterfaceMock) CheckReadiness() model.ServerStatus {
	args := m.Called()
	return args.Get(0).(model.ServerStatus)
}

// HealthCheckProviderInterfaceMock is a mock implementation of HealthCheckProviderInterface.
type HealthCheckProviderInterfaceMock struct {
	mock.Mock
}

// GetHealthCheckService mocks the GetHealthCheckService method.
func (m *HealthCheckProviderInterfaceMock) GetHealthCheckService() service.HealthCheckServiceInterface {
	args := m.Called()
	return args.Get(0).(service.HealthCheckServiceInterface)
}
