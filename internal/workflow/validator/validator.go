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

// Package validator checks the structural and semantic well-formedness of
// workflow graphs before execution.
package validator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/asgardeo/flowstack/internal/workflow/constants"
	"github.com/asgardeo/flowstack/internal/workflow/model"
)

var (
	instance *GraphValidator
	once     sync.Once
)

// GraphValidatorInterface defines the interface for workflow graph validation.
type GraphValidatorInterface interface {
	Validate(workflow *model.Workflow) model.ValidationResult
}

// GraphValidator is the default implementation of GraphValidatorInterface.
type GraphValidator struct{}

// GetGraphValidator returns a singleton instance of GraphValidator.
func GetGraphValidator() GraphValidatorInterface {
	once.Do(func() {
		instance = &GraphValidator{}
	})
	return instance
}

// Validate runs the check classes in order, short-circuiting on the first
// failing class while collecting all findings within that class. Every class
// is fatal: a workflow with findings is refused execution.
func (v *GraphValidator) Validate(workflow *model.Workflow) model.ValidationResult {
	checks := []func(*model.Workflow) []model.ValidationFinding{
		checkEntrypoints,
		checkEdgeReferences,
		checkAcyclic,
		checkReachability,
		checkNodeConfigurations,
	}

	for _, check := range checks {
		if findings := check(workflow); len(findings) > 0 {
			return model.ValidationResult{Valid: false, Findings: findings}
		}
	}
	return model.ValidationResult{Valid: true}
}

// checkEntrypoints verifies the graph carries exactly one user query node,
// exactly one output node, and at least one LLM engine node. A graph without
// an LLM engine node can never produce a response, so the condition is
// rejected here instead of surfacing as an incomplete run at execution time.
func checkEntrypoints(workflow *model.Workflow) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	userQueryCount := len(workflow.NodesOfKind(constants.NodeKindUserQuery))
	if userQueryCount != 1 {
		findings = append(findings, model.ValidationFinding{
			Code: constants.FindingMissingOrDuplicateEntrypoint,
			Message: fmt.Sprintf("workflow must contain exactly one user query node, found %d",
				userQueryCount),
		})
	}

	outputCount := len(workflow.NodesOfKind(constants.NodeKindOutput))
	if outputCount != 1 {
		findings = append(findings, model.ValidationFinding{
			Code:    constants.FindingMissingOrDuplicateEntrypoint,
			Message: fmt.Sprintf("workflow must contain exactly one output node, found %d", outputCount),
		})
	}

	if len(workflow.NodesOfKind(constants.NodeKindLLMEngine)) == 0 {
		findings = append(findings, model.ValidationFinding{
			Code:    constants.FindingMissingOrDuplicateEntrypoint,
			Message: "workflow must contain at least one LLM engine node",
		})
	}

	return findings
}

// checkEdgeReferences verifies every edge references node ids present in the graph.
func checkEdgeReferences(workflow *model.Workflow) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	for _, edge := range workflow.Edges {
		if _, ok := workflow.GetNode(edge.Source); !ok {
			findings = append(findings, model.ValidationFinding{
				Code:    constants.FindingDanglingEdge,
				Message: fmt.Sprintf("edge references unknown source node id %q", edge.Source),
			})
		}
		if _, ok := workflow.GetNode(edge.Target); !ok {
			findings = append(findings, model.ValidationFinding{
				Code:    constants.FindingDanglingEdge,
				Message: fmt.Sprintf("edge references unknown target node id %q", edge.Target),
			})
		}
	}

	return findings
}

// checkAcyclic verifies the edge set forms a directed acyclic graph. Self
// loops are reported per edge; larger cycles are reported once with the node
// ids left unordered by the topological reduction.
func checkAcyclic(workflow *model.Workflow) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	for _, edge := range workflow.Edges {
		if edge.Source == edge.Target {
			findings = append(findings, model.ValidationFinding{
				Code:    constants.FindingCycleDetected,
				NodeID:  edge.Source,
				Message: fmt.Sprintf("edge from node %q to itself forms a cycle", edge.Source),
			})
		}
	}
	if len(findings) > 0 {
		return findings
	}

	if remaining := cyclicRemainder(workflow); len(remaining) > 0 {
		sort.Strings(remaining)
		findings = append(findings, model.ValidationFinding{
			Code: constants.FindingCycleDetected,
			Message: fmt.Sprintf("workflow graph contains a cycle involving nodes %s",
				strings.Join(remaining, ", ")),
		})
	}

	return findings
}

// cyclicRemainder peels nodes of in-degree zero and returns the node ids that
// could not be ordered. A non-empty remainder means the graph is cyclic.
func cyclicRemainder(workflow *model.Workflow) []string {
	inDegree := make(map[string]int, len(workflow.Nodes))
	adjacency := make(map[string][]string, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		inDegree[node.ID] = 0
	}
	for _, edge := range workflow.Edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		inDegree[edge.Target]++
	}

	ready := make([]string, 0, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		if inDegree[node.ID] == 0 {
			ready = append(ready, node.ID)
		}
	}

	ordered := 0
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		ordered++
		for _, target := range adjacency[current] {
			inDegree[target]--
			if inDegree[target] == 0 {
				ready = append(ready, target)
			}
		}
	}

	if ordered == len(workflow.Nodes) {
		return nil
	}
	remaining := make([]string, 0)
	for nodeID, degree := range inDegree {
		if degree > 0 {
			remaining = append(remaining, nodeID)
		}
	}
	return remaining
}

// checkReachability verifies every node is reachable from the user query node.
func checkReachability(workflow *model.Workflow) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	userQueryNodes := workflow.NodesOfKind(constants.NodeKindUserQuery)
	if len(userQueryNodes) != 1 {
		return findings
	}

	adjacency := make(map[string][]string, len(workflow.Nodes))
	for _, edge := range workflow.Edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
	}

	visited := map[string]bool{userQueryNodes[0].ID: true}
	frontier := []string{userQueryNodes[0].ID}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		for _, target := range adjacency[current] {
			if !visited[target] {
				visited[target] = true
				frontier = append(frontier, target)
			}
		}
	}

	for _, node := range workflow.Nodes {
		if !visited[node.ID] {
			findings = append(findings, model.ValidationFinding{
				Code:    constants.FindingUnreachableNode,
				NodeID:  node.ID,
				Message: fmt.Sprintf("node %q is not reachable from the user query node", node.ID),
			})
		}
	}

	return findings
}

// checkNodeConfigurations verifies per-kind configuration sanity.
func checkNodeConfigurations(workflow *model.Workflow) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	for _, node := range workflow.Nodes {
		if !constants.IsValidNodeKind(node.Kind) {
			findings = append(findings, model.ValidationFinding{
				Code:    constants.FindingInvalidConfiguration,
				NodeID:  node.ID,
				Field:   "kind",
				Message: fmt.Sprintf("node %q has unsupported kind %q", node.ID, node.Kind),
			})
			continue
		}

		switch node.Kind {
		case constants.NodeKindKnowledgeBase:
			findings = append(findings, checkKnowledgeBaseConfig(node)...)
		case constants.NodeKindLLMEngine:
			findings = append(findings, checkLLMEngineConfig(node)...)
		}
	}

	return findings
}

func checkKnowledgeBaseConfig(node model.Node) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	if id, ok := node.StringConfig(constants.ConfigFieldKnowledgeBaseID); !ok || strings.TrimSpace(id) == "" {
		findings = append(findings, model.ValidationFinding{
			Code:    constants.FindingInvalidConfiguration,
			NodeID:  node.ID,
			Field:   constants.ConfigFieldKnowledgeBaseID,
			Message: fmt.Sprintf("knowledge base node %q requires a non-empty knowledgeBaseId", node.ID),
		})
	}

	if finding := checkEnumField(node, constants.ConfigFieldEmbeddingModel,
		constants.EmbeddingProviderOpenAI, constants.EmbeddingProviderGemini,
		constants.EmbeddingProviderCohere); finding != nil {
		findings = append(findings, *finding)
	}

	if _, exists := node.Config[constants.ConfigFieldTopK]; exists {
		topK, ok := node.IntConfig(constants.ConfigFieldTopK)
		if !ok || topK < constants.MinTopK || topK > constants.MaxTopK {
			findings = append(findings, model.ValidationFinding{
				Code:   constants.FindingInvalidConfiguration,
				NodeID: node.ID,
				Field:  constants.ConfigFieldTopK,
				Message: fmt.Sprintf("node %q topK must be an integer between %d and %d",
					node.ID, constants.MinTopK, constants.MaxTopK),
			})
		}
	}

	return findings
}

func checkLLMEngineConfig(node model.Node) []model.ValidationFinding {
	findings := make([]model.ValidationFinding, 0)

	if finding := checkEnumField(node, constants.ConfigFieldLLMProvider,
		constants.LLMProviderOpenAI, constants.LLMProviderGemini); finding != nil {
		findings = append(findings, *finding)
	}

	useWebSearch := false
	if _, exists := node.Config[constants.ConfigFieldUseWebSearch]; exists {
		value, ok := node.BoolConfig(constants.ConfigFieldUseWebSearch)
		if !ok {
			findings = append(findings, model.ValidationFinding{
				Code:    constants.FindingInvalidConfiguration,
				NodeID:  node.ID,
				Field:   constants.ConfigFieldUseWebSearch,
				Message: fmt.Sprintf("node %q useWebSearch must be a boolean", node.ID),
			})
		}
		useWebSearch = ok && value
	}

	if useWebSearch {
		if finding := checkEnumField(node, constants.ConfigFieldWebSearchProvider,
			constants.WebSearchProviderSerpAPI, constants.WebSearchProviderBrave); finding != nil {
			findings = append(findings, *finding)
		}
	}

	return findings
}

// checkEnumField flags a configuration field that is present but not one of
// the allowed values. Absent fields are valid since defaults apply.
func checkEnumField(node model.Node, field string, allowed ...string) *model.ValidationFinding {
	value, exists := node.Config[field]
	if !exists {
		return nil
	}

	str, ok := value.(string)
	if ok {
		for _, candidate := range allowed {
			if str == candidate {
				return nil
			}
		}
	}

	return &model.ValidationFinding{
		Code:   constants.FindingInvalidConfiguration,
		NodeID: node.ID,
		Field:  field,
		Message: fmt.Sprintf("node %q %s must be one of: %s",
			node.ID, field, strings.Join(allowed, ", ")),
	}
}
