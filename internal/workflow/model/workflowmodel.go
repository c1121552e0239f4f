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

// Package model defines the data structures for workflow graph representation and execution.
package model

import (
	"github.com/asgardeo/flowstack/internal/workflow/constants"
)

// Node represents a single typed processing step in a workflow graph.
type Node struct {
	ID     string                 `json:"id"`
	Kind   constants.NodeKind     `json:"kind"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// Edge represents a directed data flow connection between two nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Workflow represents a user authored node/edge graph with per-node configuration.
type Workflow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Nodes       []Node `json:"nodes"`
	Edges       []Edge `json:"edges"`
}

// GetNode returns the node with the given id and whether it exists in the workflow.
func (w *Workflow) GetNode(nodeID string) (Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == nodeID {
			return node, true
		}
	}
	return Node{}, false
}

// NodesOfKind returns all nodes of the given kind in declaration order.
func (w *Workflow) NodesOfKind(kind constants.NodeKind) []Node {
	nodes := make([]Node, 0)
	for _, node := range w.Nodes {
		if node.Kind == kind {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// StringConfig returns the string value of a configuration field.
func (n *Node) StringConfig(key string) (string, bool) {
	value, ok := n.Config[key]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// IntConfig returns the integer value of a configuration field. JSON decoded
// numbers arrive as float64 and are converted.
func (n *Node) IntConfig(key string) (int, bool) {
	value, ok := n.Config[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// BoolConfig returns the boolean value of a configuration field.
func (n *Node) BoolConfig(key string) (bool, bool) {
	value, ok := n.Config[key]
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// NodeName returns the configured display name of the node, falling back to
// the kind specific default name.
func (n *Node) NodeName() string {
	if name, ok := n.StringConfig(constants.ConfigFieldName); ok && name != "" {
		return name
	}
	switch n.Kind {
	case constants.NodeKindUserQuery:
		return constants.DefaultUserQueryNodeName
	case constants.NodeKindOutput:
		return constants.DefaultOutputNodeName
	default:
		return string(n.Kind)
	}
}

// KnowledgeBaseConfig holds the resolved configuration of a knowledge base node.
type KnowledgeBaseConfig struct {
	KnowledgeBaseID string
	EmbeddingModel  string
	TopK            int
}

// KnowledgeBaseConfig resolves the node configuration with defaults applied
// and topK clamped to the allowed range.
func (n *Node) KnowledgeBaseConfig() KnowledgeBaseConfig {
	cfg := KnowledgeBaseConfig{
		EmbeddingModel: constants.EmbeddingProviderOpenAI,
		TopK:           constants.DefaultTopK,
	}
	if id, ok := n.StringConfig(constants.ConfigFieldKnowledgeBaseID); ok {
		cfg.KnowledgeBaseID = id
	}
	if embeddingModel, ok := n.StringConfig(constants.ConfigFieldEmbeddingModel); ok && embeddingModel != "" {
		cfg.EmbeddingModel = embeddingModel
	}
	if topK, ok := n.IntConfig(constants.ConfigFieldTopK); ok {
		cfg.TopK = topK
	}
	if cfg.TopK < constants.MinTopK {
		cfg.TopK = constants.MinTopK
	}
	if cfg.TopK > constants.MaxTopK {
		cfg.TopK = constants.MaxTopK
	}
	return cfg
}

// LLMEngineConfig holds the resolved configuration of an LLM engine node.
// Model is left empty when not configured so the provider client applies its
// own default model identifier.
type LLMEngineConfig struct {
	LLMProvider       string
	Model             string
	CustomPrompt      string
	UseWebSearch      bool
	WebSearchProvider string
}

// LLMEngineConfig resolves the node configuration with defaults applied.
func (n *Node) LLMEngineConfig() LLMEngineConfig {
	cfg := LLMEngineConfig{
		LLMProvider:       constants.LLMProviderOpenAI,
		WebSearchProvider: constants.WebSearchProviderSerpAPI,
	}
	if llmProvider, ok := n.StringConfig(constants.ConfigFieldLLMProvider); ok && llmProvider != "" {
		cfg.LLMProvider = llmProvider
	}
	if model, ok := n.StringConfig(constants.ConfigFieldModel); ok {
		cfg.Model = model
	}
	if customPrompt, ok := n.StringConfig(constants.ConfigFieldCustomPrompt); ok {
		cfg.CustomPrompt = customPrompt
	}
	if useWebSearch, ok := n.BoolConfig(constants.ConfigFieldUseWebSearch); ok {
		cfg.UseWebSearch = useWebSearch
	}
	if searchProvider, ok := n.StringConfig(constants.ConfigFieldWebSearchProvider); ok && searchProvider != "" {
		cfg.WebSearchProvider = searchProvider
	}
	return cfg
}
