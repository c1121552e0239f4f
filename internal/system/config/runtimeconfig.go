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

package config

import "sync"

// FlowstackRuntime holds the runtime configuration for the Flowstack server.
type FlowstackRuntime struct {
	FlowstackHome string `yaml:"flowstack_home"`
	Config        Config `yaml:"config"`
}

var (
	runtimeConfig *FlowstackRuntime
	once          sync.Once
)

// InitializeFlowstackRuntime initializes the FlowstackRuntime configuration.
func InitializeFlowstackRuntime(flowstackHome string, config *Config) error {
	once.Do(func() {
		runtimeConfig = &FlowstackRuntime{
			FlowstackHome: flowstackHome,
			Config:        *config,
		}
	})

	return nil
}

// GetFlowstackRuntime returns the FlowstackRuntime configuration.
func GetFlowstackRuntime() *FlowstackRuntime {
	if runtimeConfig == nil {
		panic("FlowstackRuntime is not initialized")
	}
	return runtimeConfig
}

// ResetFlowstackRuntime resets the FlowstackRuntime.
// This should only be used in tests to reset the singleton state.
func ResetFlowstackRuntime() {
	runtimeConfig = nil
	once = sync.Once{}
}
