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

// Package compiler orders workflow graph nodes into deterministic execution plans.
package compiler

import (
	"sort"
	"sync"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

var (
	instance *GraphCompiler
	once     sync.Once
)

// GraphCompilerInterface defines the interface for workflow graph compilation.
type GraphCompilerInterface interface {
	Compile(workflow *model.Workflow) (*model.ExecutionPlan, error)
}

// GraphCompiler is the default implementation of GraphCompilerInterface.
type GraphCompiler struct{}

// GetGraphCompiler returns a singleton instance of GraphCompiler.
func GetGraphCompiler() GraphCompilerInterface {
	once.Do(func() {
		instance = &GraphCompiler{}
	})
	return instance
}

// Compile produces a total execution order consistent with edge direction
// using Kahn's algorithm over in-degree counts. Nodes that become ready
// simultaneously are ordered by ascending node id so recompiling the same
// graph always yields the identical plan. Returns a StructuralError when the
// graph contains a cycle.
func (c *GraphCompiler) Compile(workflow *model.Workflow) (*model.ExecutionPlan, error) {
	nodesByID := make(map[string]model.Node, len(workflow.Nodes))
	inDegree := make(map[string]int, len(workflow.Nodes))
	adjacency := make(map[string][]string, len(workflow.Nodes))
	predecessors := make(map[string][]string, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		nodesByID[node.ID] = node
		inDegree[node.ID] = 0
		predecessors[node.ID] = make([]string, 0)
	}

	seenEdges := make(map[model.Edge]bool, len(workflow.Edges))
	for _, edge := range workflow.Edges {
		if _, ok := nodesByID[edge.Source]; !ok {
			continue
		}
		if _, ok := nodesByID[edge.Target]; !ok {
			continue
		}
		if seenEdges[edge] {
			continue
		}
		seenEdges[edge] = true

		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		predecessors[edge.Target] = append(predecessors[edge.Target], edge.Source)
		inDegree[edge.Target]++
	}

	ready := make([]string, 0, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		if inDegree[node.ID] == 0 {
			ready = insertSorted(ready, node.ID)
		}
	}

	sequence := make([]model.Node, 0, len(workflow.Nodes))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		sequence = append(sequence, nodesByID[current])

		for _, target := range adjacency[current] {
			inDegree[target]--
			if inDegree[target] == 0 {
				ready = insertSorted(ready, target)
			}
		}
	}

	if len(sequence) != len(workflow.Nodes) {
		return nil, &model.StructuralError{
			Code:    constants.FindingCycleDetected,
			Message: "workflow graph contains a cycle and cannot be compiled",
		}
	}

	for _, ids := range predecessors {
		sort.Strings(ids)
	}

	return &model.ExecutionPlan{
		WorkflowID:   workflow.ID,
		Sequence:     sequence,
		Predecessors: predecessors,
	}, nil
}

// insertSorted inserts the id keeping the ready list in ascending order.
func insertSorted(ready []string, id string) []string {
	idx := sort.SearchStrings(ready, id)
	ready = append(ready, "")
	copy(ready[idx+1:], ready[idx:])
	ready[idx] = id
	return ready
}
