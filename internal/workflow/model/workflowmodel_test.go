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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
)

func TestWorkflowGetNode(t *testing.T) {
	workflow := Workflow{
		ID: "wf-1",
		Nodes: []Node{
			{ID: "node-1", Kind: constants.NodeKindUserQuery},
			{ID: "node-2", Kind: constants.NodeKindOutput},
		},
	}

	node, ok := workflow.GetNode("node-2")
	assert.True(t, ok)
	assert.Equal(t, constants.NodeKindOutput, node.Kind)

	_, ok = workflow.GetNode("missing")
	assert.False(t, ok)
}

func TestWorkflowNodesOfKind(t *testing.T) {
	workflow := Workflow{
		Nodes: []Node{
			{ID: "node-1", Kind: constants.NodeKindUserQuery},
			{ID: "node-2", Kind: constants.NodeKindKnowledgeBase},
			{ID: "node-3", Kind: constants.NodeKindKnowledgeBase},
			{ID: "node-4", Kind: constants.NodeKindOutput},
		},
	}

	kbNodes := workflow.NodesOfKind(constants.NodeKindKnowledgeBase)
	require.Len(t, kbNodes, 2)
	assert.Equal(t, "node-2", kbNodes[0].ID)
	assert.Equal(t, "node-3", kbNodes[1].ID)

	assert.Empty(t, workflow.NodesOfKind(constants.NodeKindLLMEngine))
}

func TestNodeConfigAccessors(t *testing.T) {
	node := Node{
		ID:   "node-1",
		Kind: constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{
			"knowledgeBaseId": "docs",
			"topK":            float64(3),
			"useWebSearch":    true,
		},
	}

	str, ok := node.StringConfig("knowledgeBaseId")
	assert.True(t, ok)
	assert.Equal(t, "docs", str)

	_, ok = node.StringConfig("topK")
	assert.False(t, ok, "non-string value should not be returned as string")

	topK, ok := node.IntConfig("topK")
	assert.True(t, ok)
	assert.Equal(t, 3, topK)

	b, ok := node.BoolConfig("useWebSearch")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = node.StringConfig("missing")
	assert.False(t, ok)
}

func TestNodeConfigAccessorsWithNilConfig(t *testing.T) {
	node := Node{ID: "node-1", Kind: constants.NodeKindUserQuery}

	_, ok := node.StringConfig("name")
	assert.False(t, ok)
	_, ok = node.IntConfig("topK")
	assert.False(t, ok)
	_, ok = node.BoolConfig("useWebSearch")
	assert.False(t, ok)
}

func TestNodeName(t *testing.T) {
	testCases := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "ConfiguredName",
			node:     Node{Kind: constants.NodeKindUserQuery, Config: map[string]interface{}{"name": "Intake"}},
			expected: "Intake",
		},
		{
			name:     "UserQueryDefault",
			node:     Node{Kind: constants.NodeKindUserQuery},
			expected: "User Query",
		},
		{
			name:     "OutputDefault",
			node:     Node{Kind: constants.NodeKindOutput},
			expected: "Output",
		},
		{
			name:     "OtherKindFallsBackToKind",
			node:     Node{Kind: constants.NodeKindLLMEngine},
			expected: "llmEngine",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.node.NodeName())
		})
	}
}

func TestKnowledgeBaseConfigDefaults(t *testing.T) {
	node := Node{
		ID:     "kb-1",
		Kind:   constants.NodeKindKnowledgeBase,
		Config: map[string]interface{}{"knowledgeBaseId": "docs"},
	}

	cfg := node.KnowledgeBaseConfig()
	assert.Equal(t, "docs", cfg.KnowledgeBaseID)
	assert.Equal(t, constants.EmbeddingProviderOpenAI, cfg.EmbeddingModel)
	assert.Equal(t, constants.DefaultTopK, cfg.TopK)
}

func TestKnowledgeBaseConfigClampsTopK(t *testing.T) {
	testCases := []struct {
		name     string
		topK     interface{}
		expected int
	}{
		{name: "BelowMinimum", topK: float64(0), expected: constants.MinTopK},
		{name: "AboveMaximum", topK: float64(50), expected: constants.MaxTopK},
		{name: "WithinRange", topK: float64(10), expected: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node := Node{
				Kind: constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{
					"knowledgeBaseId": "docs",
					"topK":            tc.topK,
				},
			}
			assert.Equal(t, tc.expected, node.KnowledgeBaseConfig().TopK)
		})
	}
}

func TestLLMEngineConfigDefaults(t *testing.T) {
	node := Node{ID: "llm-1", Kind: constants.NodeKindLLMEngine}

	cfg := node.LLMEngineConfig()
	assert.Equal(t, constants.LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, constants.WebSearchProviderSerpAPI, cfg.WebSearchProvider)
	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.CustomPrompt)
	assert.False(t, cfg.UseWebSearch)
}

func TestLLMEngineConfigResolvesConfiguredValues(t *testing.T) {
	node := Node{
		ID:   "llm-1",
		Kind: constants.NodeKindLLMEngine,
		Config: map[string]interface{}{
			"llmProvider":       "gemini",
			"model":             "gemini-pro",
			"customPrompt":      "Answer briefly.",
			"useWebSearch":      true,
			"webSearchProvider": "brave",
		},
	}

	cfg := node.LLMEngineConfig()
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-pro", cfg.Model)
	assert.Equal(t, "Answer briefly.", cfg.CustomPrompt)
	assert.True(t, cfg.UseWebSearch)
	assert.Equal(t, "brave", cfg.WebSearchProvider)
}

func TestWorkflowJSONRoundTrip(t *testing.T) {
	workflow := Workflow{
		ID:          "wf-1",
		Name:        "Docs assistant",
		Description: "Answers questions over the docs knowledge base",
		Nodes: []Node{
			{ID: "query-1", Kind: constants.NodeKindUserQuery},
			{
				ID:   "kb-1",
				Kind: constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{
					"knowledgeBaseId": "docs",
					"topK":            float64(3),
				},
			},
			{
				ID:   "llm-1",
				Kind: constants.NodeKindLLMEngine,
				Config: map[string]interface{}{
					"llmProvider": "openai",
				},
			},
			{ID: "output-1", Kind: constants.NodeKindOutput},
		},
		Edges: []Edge{
			{Source: "query-1", Target: "kb-1"},
			{Source: "kb-1", Target: "llm-1"},
			{Source: "llm-1", Target: "output-1"},
		},
	}

	data, err := json.Marshal(workflow)
	require.NoError(t, err)

	var decoded Workflow
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, workflow, decoded)
	assert.Equal(t, 3, decoded.Nodes[1].KnowledgeBaseConfig().TopK)
}
