package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stackpile/graphzep/pkg/graph"
)

var (
	getStatusToolName    = "get_status"
	getStatusDescription = "Report service liveness and the configured collection names."
)

// GetStatusInput represents the input arguments for the get_status tool.
type GetStatusInput struct{}

// handleGetStatus processes a get_status request.
func (s *Server) handleGetStatus(ctx context.Context, _ *mcp.CallToolRequest, _ GetStatusInput) (*mcp.CallToolResult, graph.StatusResult, error) {
	result, err := s.config.Service.Status(ctx)
	if err != nil {
		return errorResult("Failed to get status: %v", err), graph.StatusResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.StatusResult{}, nil
	}
	return toolResult, *result, nil
}
