// Package configcmder provides the config command for managing persistent
// graphzep configuration stored in the .graphzep/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent graphzep configuration.

Configuration is stored as config.toml in the .graphzep/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  zep.api_key, zep.api_url, zep.generation,
  collections.nodes, collections.edges, collections.episodes,
  group.default_id, server.listen,
  store.provider, store.target,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  events.provider, events.brokers, events.topic,
  append.workers, append.queue_size

Use subcommands to get, set, or list configuration values:
  graphzep config set <key> <value>    Set a configuration value
  graphzep config get <key>            Get a configuration value
  graphzep config list                 List all configuration values

Examples:
  graphzep config set store.provider qdrant
  graphzep config set group.default_id my-agent
  graphzep config get zep.api_url
  graphzep config list`

const configShortDesc string = "Manage persistent graphzep configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
