/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
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

// Package cachemock provides mock implementations of the cache interfaces for testing.
package cachemock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/flowstack/internal/system/cache"
)

// CacheInterfaceMock is a mock implementation of the CacheInterface.
type CacheInterfaceMock[T any] struct {
	mock.Mock
}

// GetName mocks the GetName method of the CacheInterface.
func (m *CacheInterfaceMock[T]) GetName() string {
	args := m.Called()
	return args.String(0)
}

// Set mocks the Set method of the CacheInterface.
func (m *CacheInterfaceMock[T]) Set(key cache.CacheKey, value T) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// Get mocks the Get method of the CacheInterface.
func (m *CacheInterfaceMock[T]) Get(key cache.CacheKey) (T, bool) {
	args := m.Called(key)
	return args.Get(0).(T), args.Bool(1)
}

// Delete mocks the Delete method of the CacheInterface.
func (m *CacheInterfaceMock[T]) Delete(key cache.CacheKey) error {
	args := m.Called(key)
	return args.Error(0)
}

// Clear mocks the Clear method of the CacheInterface.
func (m *CacheInterfaceMock[T]) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// IsEnabled mocks the IsEnabled method of the CacheInterface.
func (m *CacheInterfaceMock[T]) IsEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

// CleanupExpired mocks the CleanupExpired method of the CacheInterface.
func (m *CacheInterfaceMock[T]) CleanupExpired() {
	m.Called()
}
