// Package api provides the HTTP server hosting the MCP endpoint and
// health probes.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8082")
	ListenAddr string
}
