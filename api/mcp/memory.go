package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stackpile/graphzep/pkg/graph"
)

var (
	addMemoryToolName    = "add_memory"
	addMemoryDescription = "Add an episode to the memory graph. The episode body may be plain text, a JSON document, or a pre-structured message list; it is appended to the group's thread and becomes searchable."

	getEpisodesToolName    = "get_episodes"
	getEpisodesDescription = "Return the most recent memory episodes for a group, newest first."

	deleteEpisodeToolName    = "delete_episode"
	deleteEpisodeDescription = "Delete one memory episode by its uuid."

	clearGraphToolName    = "clear_graph"
	clearGraphDescription = "Delete all graph memory and re-provision the backing collections. Irreversible."
)

// AddMemoryInput represents the input arguments for the add_memory tool.
type AddMemoryInput struct {
	Name              string `json:"name" jsonschema:"a short name for the episode"`
	EpisodeBody       string `json:"episode_body" jsonschema:"the episode content; plain text, a JSON document, or a JSON message list depending on source"`
	GroupID           string `json:"group_id,omitempty" jsonschema:"the group scope for the episode (defaults to the configured group)"`
	Source            string `json:"source,omitempty" jsonschema:"the episode body format: text, json, or message (default: text)"`
	SourceDescription string `json:"source_description,omitempty" jsonschema:"a description of where the episode came from"`
	UUID              string `json:"uuid,omitempty" jsonschema:"an explicit uuid for the episode (generated when omitted)"`
}

// handleAddMemory processes an add_memory request.
func (s *Server) handleAddMemory(ctx context.Context, _ *mcp.CallToolRequest, input AddMemoryInput) (*mcp.CallToolResult, graph.AddMemoryResult, error) {
	s.config.Logger.Debug("MCP add_memory request",
		"name", input.Name,
		"group_id", input.GroupID,
		"source", input.Source,
	)

	result, err := s.config.Service.AddMemory(ctx, graph.AddMemoryInput{
		Name:              input.Name,
		EpisodeBody:       input.EpisodeBody,
		GroupID:           input.GroupID,
		Source:            input.Source,
		SourceDescription: input.SourceDescription,
		UUID:              input.UUID,
	})
	if err != nil {
		s.config.Logger.Error("add_memory failed", "error", err)
		return errorResult("Failed to add memory: %v", err), graph.AddMemoryResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.AddMemoryResult{}, nil
	}
	return toolResult, *result, nil
}

// GetEpisodesInput represents the input arguments for the get_episodes tool.
type GetEpisodesInput struct {
	GroupID string `json:"group_id,omitempty" jsonschema:"the group scope to fetch episodes for (defaults to the configured group)"`
	LastN   int    `json:"last_n,omitempty" jsonschema:"number of most recent episodes to return (default: 10)"`
}

// handleGetEpisodes processes a get_episodes request.
func (s *Server) handleGetEpisodes(ctx context.Context, _ *mcp.CallToolRequest, input GetEpisodesInput) (*mcp.CallToolResult, graph.GetEpisodesResult, error) {
	result, err := s.config.Service.GetEpisodes(ctx, graph.GetEpisodesInput{
		GroupID: input.GroupID,
		LastN:   input.LastN,
	})
	if err != nil {
		return errorResult("Failed to get episodes: %v", err), graph.GetEpisodesResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.GetEpisodesResult{}, nil
	}
	return toolResult, *result, nil
}

// DeleteEpisodeInput represents the input arguments for the delete_episode tool.
type DeleteEpisodeInput struct {
	UUID string `json:"uuid" jsonschema:"the uuid of the episode to delete"`
}

// handleDeleteEpisode processes a delete_episode request.
func (s *Server) handleDeleteEpisode(ctx context.Context, _ *mcp.CallToolRequest, input DeleteEpisodeInput) (*mcp.CallToolResult, graph.ConfirmationResult, error) {
	if input.UUID == "" {
		return errorResult("uuid is required"), graph.ConfirmationResult{}, nil
	}

	result, err := s.config.Service.DeleteEpisode(ctx, input.UUID)
	if err != nil {
		s.config.Logger.Error("delete_episode failed", "uuid", input.UUID, "error", err)
		return errorResult("Failed to delete episode: %v", err), graph.ConfirmationResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.ConfirmationResult{}, nil
	}
	return toolResult, *result, nil
}

// ClearGraphInput represents the input arguments for the clear_graph tool.
type ClearGraphInput struct{}

// handleClearGraph processes a clear_graph request.
func (s *Server) handleClearGraph(ctx context.Context, _ *mcp.CallToolRequest, _ ClearGraphInput) (*mcp.CallToolResult, graph.ConfirmationResult, error) {
	s.config.Logger.Info("MCP clear_graph request")

	result, err := s.config.Service.ClearGraph(ctx)
	if err != nil {
		return errorResult("Failed to clear graph: %v", err), graph.ConfirmationResult{}, nil
	}

	toolResult, err := jsonResult(result)
	if err != nil {
		return errorResult("Failed to serialize result: %v", err), graph.ConfirmationResult{}, nil
	}
	return toolResult, *result, nil
}
