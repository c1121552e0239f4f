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

package compiler

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

func diamondWorkflow() *model.Workflow {
	return &model.Workflow{
		ID: "wf-1",
		Nodes: []model.Node{
			{ID: "query-1", Kind: constants.NodeKindUserQuery},
			{
				ID:     "kb-a",
				Kind:   constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{"knowledgeBaseId": "docs"},
			},
			{
				ID:     "kb-b",
				Kind:   constants.NodeKindKnowledgeBase,
				Config: map[string]interface{}{"knowledgeBaseId": "wiki"},
			},
			{ID: "llm-1", Kind: constants.NodeKindLLMEngine},
			{ID: "output-1", Kind: constants.NodeKindOutput},
		},
		Edges: []model.Edge{
			{Source: "query-1", Target: "kb-a"},
			{Source: "query-1", Target: "kb-b"},
			{Source: "kb-a", Target: "llm-1"},
			{Source: "kb-b", Target: "llm-1"},
			{Source: "llm-1", Target: "output-1"},
		},
	}
}

func sequenceIDs(plan *model.ExecutionPlan) []string {
	ids := make([]string, 0, len(plan.Sequence))
	for _, node := range plan.Sequence {
		ids = append(ids, node.ID)
	}
	return ids
}

func TestCompileLinearWorkflow(t *testing.T) {
	workflow := &model.Workflow{
		ID: "wf-1",
		Nodes: []model.Node{
			{ID: "query-1", Kind: constants.NodeKindUserQuery},
			{ID: "llm-1", Kind: constants.NodeKindLLMEngine},
			{ID: "output-1", Kind: constants.NodeKindOutput},
		},
		Edges: []model.Edge{
			{Source: "query-1", Target: "llm-1"},
			{Source: "llm-1", Target: "output-1"},
		},
	}

	plan, err := GetGraphCompiler().Compile(workflow)
	require.NoError(t, err)

	assert.Equal(t, "wf-1", plan.WorkflowID)
	assert.Equal(t, []string{"query-1", "llm-1", "output-1"}, sequenceIDs(plan))
	assert.Empty(t, plan.Predecessors["query-1"])
	assert.Equal(t, []string{"query-1"}, plan.Predecessors["llm-1"])
	assert.Equal(t, []string{"llm-1"}, plan.Predecessors["output-1"])
}

func TestCompileOrdersSimultaneouslyReadyNodesByID(t *testing.T) {
	plan, err := GetGraphCompiler().Compile(diamondWorkflow())
	require.NoError(t, err)

	assert.Equal(t, []string{"query-1", "kb-a", "kb-b", "llm-1", "output-1"}, sequenceIDs(plan))
	assert.Equal(t, []string{"kb-a", "kb-b"}, plan.Predecessors["llm-1"],
		"fan-in predecessors should be sorted ascending")
}

func TestCompileRespectsEdgeDirection(t *testing.T) {
	plan, err := GetGraphCompiler().Compile(diamondWorkflow())
	require.NoError(t, err)

	position := make(map[string]int, len(plan.Sequence))
	for idx, node := range plan.Sequence {
		position[node.ID] = idx
	}
	for _, edge := range diamondWorkflow().Edges {
		assert.Less(t, position[edge.Source], position[edge.Target],
			"source %s must precede target %s", edge.Source, edge.Target)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	compiler := GetGraphCompiler()

	first, err := compiler.Compile(diamondWorkflow())
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		plan, err := compiler.Compile(diamondWorkflow())
		require.NoError(t, err)
		assert.Equal(t, sequenceIDs(first), sequenceIDs(plan))
		assert.Equal(t, first.Predecessors, plan.Predecessors)
	}
}

func TestCompileIgnoresNodeDeclarationOrder(t *testing.T) {
	reversed := diamondWorkflow()
	for i, j := 0, len(reversed.Nodes)-1; i < j; i, j = i+1, j-1 {
		reversed.Nodes[i], reversed.Nodes[j] = reversed.Nodes[j], reversed.Nodes[i]
	}

	plan, err := GetGraphCompiler().Compile(reversed)
	require.NoError(t, err)

	assert.Equal(t, []string{"query-1", "kb-a", "kb-b", "llm-1", "output-1"}, sequenceIDs(plan))
}

func TestCompileDeduplicatesRepeatedEdges(t *testing.T) {
	workflow := diamondWorkflow()
	workflow.Edges = append(workflow.Edges, model.Edge{Source: "kb-a", Target: "llm-1"})

	plan, err := GetGraphCompiler().Compile(workflow)
	require.NoError(t, err)

	assert.Equal(t, []string{"kb-a", "kb-b"}, plan.Predecessors["llm-1"])
}

func TestCompileRejectsCycle(t *testing.T) {
	workflow := diamondWorkflow()
	workflow.Edges = append(workflow.Edges, model.Edge{Source: "llm-1", Target: "kb-a"})

	plan, err := GetGraphCompiler().Compile(workflow)

	assert.Nil(t, plan)
	require.Error(t, err)

	var structuralErr *model.StructuralError
	require.True(t, errors.As(err, &structuralErr))
	assert.Equal(t, constants.FindingCycleDetected, structuralErr.Code)
}

func TestCompileAfterJSONRoundTripYieldsIdenticalPlan(t *testing.T) {
	original := diamondWorkflow()

	originalPlan, err := GetGraphCompiler().Compile(original)
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	var decoded model.Workflow
	require.NoError(t, json.Unmarshal(data, &decoded))

	decodedPlan, err := GetGraphCompiler().Compile(&decoded)
	require.NoError(t, err)

	assert.Equal(t, sequenceIDs(originalPlan), sequenceIDs(decodedPlan))
	assert.Equal(t, originalPlan.Predecessors, decodedPlan.Predecessors)
}
