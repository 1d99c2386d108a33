package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stackpile/graphzep/pkg/graph"
)

var (
	getEntityEdgeToolName    = "get_entity_edge"
	getEntityEdgeDescription = "Fetch one entity edge (fact) from the memory graph by its uuid."

	deleteEntityEdgeToolName    = "delete_entity_edge"
	deleteEntityEdgeDescription = "Delete one entity edge (fact) from the memory graph by its uuid."
)

// EntityEdgeInput represents the input arguments for the entity edge tools.
type EntityEdgeInput struct {
	UUID string `json:"uuid" jsonschema:"the uuid of the entity edge"`
}

// handleGetEntityEdge processes a get_entity_edge request.
func (s *Server) handleGetEntityEdge(ctx context.Context, _ *mcp.CallToolRequest, input EntityEdgeInput) (*mcp.CallToolResult, graph.EntityEdgeResult, error) {
	if input.UUID == "" {
		return errorResult("uuid is required"), graph.EntityEdgeResult{}, nil
	}

	result, err := s.config.Service.GetEntityEdge(ctx, input.UUID)
	if err != nil {
		return errorResult("Failed to get entity edge: %v", err), graph.EntityEdgeResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.EntityEdgeResult{}, nil
	}
	return toolResult, *result, nil
}

// handleDeleteEntityEdge processes a delete_entity_edge request.
func (s *Server) handleDeleteEntityEdge(ctx context.Context, _ *mcp.CallToolRequest, input EntityEdgeInput) (*mcp.CallToolResult, graph.ConfirmationResult, error) {
	if input.UUID == "" {
		return errorResult("uuid is required"), graph.ConfirmationResult{}, nil
	}

	result, err := s.config.Service.DeleteEntityEdge(ctx, input.UUID)
	if err != nil {
		s.config.Logger.Error("delete_entity_edge failed", "uuid", input.UUID, "error", err)
		return errorResult("Failed to delete entity edge: %v", err), graph.ConfirmationResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.ConfirmationResult{}, nil
	}
	return toolResult, *result, nil
}
