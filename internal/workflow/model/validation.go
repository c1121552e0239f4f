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

package model

import (
	"strings"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
)

// ValidationFinding describes a single validation failure of a workflow graph.
type ValidationFinding struct {
	Code    constants.ValidationFindingCode `json:"code"`
	Message string                          `json:"message"`
	NodeID  string                          `json:"nodeId,omitempty"`
	Field   string                          `json:"field,omitempty"`
}

// ValidationResult carries the ordered findings of a workflow graph validation.
// All finding classes are fatal; a workflow with findings is refused execution.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Findings []ValidationFinding `json:"findings,omitempty"`
}

// Summary joins the finding messages into a single description.
func (vr *ValidationResult) Summary() string {
	if len(vr.Findings) == 0 {
		return ""
	}
	messages := make([]string, 0, len(vr.Findings))
	for _, finding := range vr.Findings {
		messages = append(messages, finding.Message)
	}
	return strings.Join(messages, "; ")
}
