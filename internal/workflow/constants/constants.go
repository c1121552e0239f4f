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

// Package constants defines the constants used in the workflow execution engine.
package constants

// NodeKind defines the kind of a node in a workflow graph.
type NodeKind string

const (
	// NodeKindUserQuery represents the node that receives the user query.
	NodeKindUserQuery NodeKind = "userQuery"
	// NodeKindKnowledgeBase represents a retrieval node backed by a knowledge base.
	NodeKindKnowledgeBase NodeKind = "knowledgeBase"
	// NodeKindLLMEngine represents a language model generation node.
	NodeKindLLMEngine NodeKind = "llmEngine"
	// NodeKindOutput represents the terminal node that finalizes the response.
	NodeKindOutput NodeKind = "output"
)

// IsValidNodeKind reports whether the given kind is a supported node kind.
func IsValidNodeKind(kind NodeKind) bool {
	switch kind {
	case NodeKindUserQuery, NodeKindKnowledgeBase, NodeKindLLMEngine, NodeKindOutput:
		return true
	default:
		return false
	}
}

// ValidationFindingCode identifies the class of a workflow validation failure.
type ValidationFindingCode string

const (
	// FindingMissingOrDuplicateEntrypoint indicates the graph does not carry exactly one
	// user query node, exactly one output node, and at least one LLM engine node.
	FindingMissingOrDuplicateEntrypoint ValidationFindingCode = "missing-or-duplicate-entrypoint"
	// FindingDanglingEdge indicates an edge references a node id that does not exist in the graph.
	FindingDanglingEdge ValidationFindingCode = "dangling-edge"
	// FindingCycleDetected indicates the edge set contains a cycle.
	FindingCycleDetected ValidationFindingCode = "cycle-detected"
	// FindingUnreachableNode indicates a node is not reachable from the user query node.
	FindingUnreachableNode ValidationFindingCode = "unreachable-node"
	// FindingInvalidConfiguration indicates a node configuration field is missing or out of range.
	FindingInvalidConfiguration ValidationFindingCode = "invalid-configuration"
)

// Node configuration field keys.
const (
	ConfigFieldName              = "name"
	ConfigFieldKnowledgeBaseID   = "knowledgeBaseId"
	ConfigFieldEmbeddingModel    = "embeddingModel"
	ConfigFieldTopK              = "topK"
	ConfigFieldLLMProvider       = "llmProvider"
	ConfigFieldModel             = "model"
	ConfigFieldCustomPrompt      = "customPrompt"
	ConfigFieldUseWebSearch      = "useWebSearch"
	ConfigFieldWebSearchProvider = "webSearchProvider"
)

// Embedding provider names allowed for knowledge base nodes.
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderGemini = "gemini"
	EmbeddingProviderCohere = "cohere"
)

// LLM provider names allowed for LLM engine nodes.
const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

// Web search provider names allowed for LLM engine nodes.
const (
	WebSearchProviderSerpAPI = "serpapi"
	WebSearchProviderBrave   = "brave"
)

// Node configuration defaults and bounds.
const (
	// DefaultTopK is the number of chunks retrieved when topK is not configured.
	DefaultTopK = 5
	// MinTopK is the lowest allowed topK value.
	MinTopK = 1
	// MaxTopK is the highest allowed topK value.
	MaxTopK = 20
	// DefaultUserQueryNodeName is the display name applied to unnamed user query nodes.
	DefaultUserQueryNodeName = "User Query"
	// DefaultOutputNodeName is the display name applied to unnamed output nodes.
	DefaultOutputNodeName = "Output"
)

// Chat turn roles recorded in session history.
const (
	// RoleUser marks a history turn authored by the user.
	RoleUser = "user"
	// RoleAssistant marks a history turn produced by the workflow run.
	RoleAssistant = "assistant"
)

// Degraded failure stages recorded during a run.
const (
	// DegradedStageRetrieval marks a recoverable knowledge base retrieval failure.
	DegradedStageRetrieval = "retrieval"
	// DegradedStageWebSearch marks a recoverable web search failure.
	DegradedStageWebSearch = "webSearch"
)
