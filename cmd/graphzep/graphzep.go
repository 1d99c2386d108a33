// Package graphzepcmder
package graphzepcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/stackpile/graphzep/cmd/graphzep/config"
	servecmder "github.com/stackpile/graphzep/cmd/graphzep/serve"
	versioncmder "github.com/stackpile/graphzep/cmd/version"
)

const graphzepLongDesc string = `Graphzep is a graph-shaped conversational memory server for agents.

It exposes graph memory tools (add_memory, search_memory_nodes,
search_memory_facts, get_episodes, ...) over MCP, backed by a document
collection store.

Run the server using:
  graphzep serve       Run the MCP memory server`

const graphzepShortDesc string = "Graphzep - Graph Memory for Agents"

func NewGraphzepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphzep",
		Short: graphzepShortDesc,
		Long:  graphzepLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing the .graphzep/ config (default: walk up from cwd)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
