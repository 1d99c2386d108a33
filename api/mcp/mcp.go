// Package mcp provides the MCP (Model Context Protocol) server exposing the
// graph memory tools.
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/utils"
)

type Config struct {
	// Service implements the graph memory operations behind every tool.
	Service *graph.Service

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config  Config
	server  *mcp.Server
	handler *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the graph memory tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "graphzep",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.server = server
		return s, nil
	}

	if c.Service == nil {
		return nil, errors.New("memory service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        addMemoryToolName,
		Description: addMemoryDescription,
	}, s.handleAddMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        searchNodesToolName,
		Description: searchNodesDescription,
	}, s.handleSearchNodes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        searchFactsToolName,
		Description: searchFactsDescription,
	}, s.handleSearchFacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        getEpisodesToolName,
		Description: getEpisodesDescription,
	}, s.handleGetEpisodes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        deleteEpisodeToolName,
		Description: deleteEpisodeDescription,
	}, s.handleDeleteEpisode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        getEntityEdgeToolName,
		Description: getEntityEdgeDescription,
	}, s.handleGetEntityEdge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        deleteEntityEdgeToolName,
		Description: deleteEntityEdgeDescription,
	}, s.handleDeleteEntityEdge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        clearGraphToolName,
		Description: clearGraphDescription,
	}, s.handleClearGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        getStatusToolName,
		Description: getStatusDescription,
	}, s.handleGetStatus)

	s.server = server

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return server
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// jsonResult serializes the structured output as JSON for the text field.
// Per MCP spec: tools returning structured content should also return
// serialized JSON in a TextContent block for backwards compatibility.
func jsonResult(output any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("serializing tool output: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil
}

// errorResult reports a tool-level failure to the caller.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}
