package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stackpile/graphzep/pkg/graph"
)

var (
	searchNodesToolName    = "search_memory_nodes"
	searchNodesDescription = "Search the memory graph for entity nodes relevant to a query, optionally scoped by group ids and filtered by entity type."

	searchFactsToolName    = "search_memory_facts"
	searchFactsDescription = "Search the memory graph for facts (entity relationships) relevant to a query, optionally scoped by group ids."
)

const defaultMaxResults = 10

// SearchNodesInput represents the input arguments for the search_memory_nodes tool.
type SearchNodesInput struct {
	Query          string   `json:"query" jsonschema:"the search query text"`
	GroupIDs       []string `json:"group_ids,omitempty" jsonschema:"restrict results to these group ids"`
	MaxNodes       *int     `json:"max_nodes,omitempty" jsonschema:"maximum number of nodes to return (default: 10)"`
	CenterNodeUUID string   `json:"center_node_uuid,omitempty" jsonschema:"echoed back in the response; the backend has no graph adjacency to rank by"`
	Entity         string   `json:"entity,omitempty" jsonschema:"restrict results to nodes with this entity type"`
}

// handleSearchNodes processes a search_memory_nodes request.
func (s *Server) handleSearchNodes(ctx context.Context, _ *mcp.CallToolRequest, input SearchNodesInput) (*mcp.CallToolResult, graph.SearchNodesResult, error) {
	s.config.Logger.Debug("MCP search_memory_nodes request",
		"query", input.Query,
		"entity", input.Entity,
	)

	result, err := s.config.Service.SearchNodes(ctx, graph.SearchNodesInput{
		Query:          input.Query,
		GroupIDs:       input.GroupIDs,
		MaxNodes:       intOrDefault(input.MaxNodes, defaultMaxResults),
		CenterNodeUUID: input.CenterNodeUUID,
		Entity:         input.Entity,
	})
	if err != nil {
		return errorResult("Failed to search nodes: %v", err), graph.SearchNodesResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.SearchNodesResult{}, nil
	}
	return toolResult, *result, nil
}

// SearchFactsInput represents the input arguments for the search_memory_facts tool.
type SearchFactsInput struct {
	Query          string   `json:"query" jsonschema:"the search query text"`
	GroupIDs       []string `json:"group_ids,omitempty" jsonschema:"restrict results to these group ids"`
	MaxFacts       *int     `json:"max_facts,omitempty" jsonschema:"maximum number of facts to return (default: 10, must be > 0)"`
	CenterNodeUUID string   `json:"center_node_uuid,omitempty" jsonschema:"accepted for compatibility; not used for ranking"`
}

// handleSearchFacts processes a search_memory_facts request.
func (s *Server) handleSearchFacts(ctx context.Context, _ *mcp.CallToolRequest, input SearchFactsInput) (*mcp.CallToolResult, graph.SearchFactsResult, error) {
	result, err := s.config.Service.SearchFacts(ctx, graph.SearchFactsInput{
		Query:          input.Query,
		GroupIDs:       input.GroupIDs,
		MaxFacts:       intOrDefault(input.MaxFacts, defaultMaxResults),
		CenterNodeUUID: input.CenterNodeUUID,
	})
	if err != nil {
		return errorResult("Failed to search facts: %v", err), graph.SearchFactsResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.SearchFactsResult{}, nil
	}
	return toolResult, *result, nil
}

// intOrDefault distinguishes an absent argument from an explicit zero, which
// validation treats differently.
func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
