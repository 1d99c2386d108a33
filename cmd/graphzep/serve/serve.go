// Package servecmder provides the serve command running the graphzep MCP
// memory server.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackpile/graphzep/api"
	mcpapi "github.com/stackpile/graphzep/api/mcp"
	"github.com/stackpile/graphzep/pkg/config"
	"github.com/stackpile/graphzep/pkg/embeddings"
	embeddingutils "github.com/stackpile/graphzep/pkg/embeddings/utils"
	eventstreamutils "github.com/stackpile/graphzep/pkg/eventstream/utils"
	"github.com/stackpile/graphzep/pkg/graph"
	"github.com/stackpile/graphzep/pkg/logger"
	messagingzep "github.com/stackpile/graphzep/pkg/messaging/zep"
	"github.com/stackpile/graphzep/pkg/store"
	storeutils "github.com/stackpile/graphzep/pkg/store/utils"
	"github.com/stackpile/graphzep/pkg/worker"
)

type ServeCommander struct {
	listen     string
	apiKey     string
	apiURL     string
	generation string
	groupID    string

	storeProvider string
	storeTarget   string

	embeddingProvider string
	embeddingTarget   string
	embeddingModel    string

	eventsProvider string
	eventsBrokers  string
	eventsTopic    string

	appendWorkers   uint
	appendQueueSize uint

	debug bool

	v      *viper.Viper
	logger *slog.Logger
}

const serveLongDesc string = `Run the graphzep MCP memory server.

The server exposes the graph memory tools over a streamable HTTP MCP
endpoint at /mcp, plus /ping and /status probes.

Configuration resolves with the usual precedence: CLI flags, then
GRAPHZEP_* environment variables, then config.toml in the .graphzep/
directory, then built-in defaults.`

const serveShortDesc string = "Run the graphzep MCP memory server"

// serveFlagKeys lists the registry keys for every flag the serve command
// registers, in registration order.
var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagAPIKey,
	config.FlagAPIURL,
	config.FlagGeneration,
	config.FlagGroupID,
	config.FlagStoreProv,
	config.FlagStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingMdl,
	config.FlagEventsProv,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
	config.FlagAppendWorkers,
	config.FlagAppendQueue,
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIKey, &cmder.apiKey)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIURL, &cmder.apiURL)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGeneration, &cmder.generation)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGroupID, &cmder.groupID)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagStoreProv, &cmder.storeProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagStoreTgt, &cmder.storeTarget)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEmbeddingProv, &cmder.embeddingProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEmbeddingTgt, &cmder.embeddingTarget)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEmbeddingMdl, &cmder.embeddingModel)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsProv, &cmder.eventsProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsTopic, &cmder.eventsTopic)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagAppendWorkers, &cmder.appendWorkers)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagAppendQueue, &cmder.appendQueueSize)

	return cmd
}

// initConfig wires the registered flags into viper and resolves the
// effective configuration.
func (c *ServeCommander) initConfig(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}

	config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)

	c.v = v
	c.listen = v.GetString("server.listen")
	c.apiKey = v.GetString("zep.api_key")
	c.apiURL = v.GetString("zep.api_url")
	c.generation = v.GetString("zep.generation")
	c.groupID = v.GetString("group.default_id")
	c.storeProvider = v.GetString("store.provider")
	c.storeTarget = v.GetString("store.target")
	c.embeddingProvider = v.GetString("embedding.provider")
	c.embeddingTarget = v.GetString("embedding.target")
	c.embeddingModel = v.GetString("embedding.model")
	c.eventsProvider = v.GetString("events.provider")
	c.eventsBrokers = v.GetString("events.brokers")
	c.eventsTopic = v.GetString("events.topic")
	c.appendWorkers = v.GetUint("append.workers")
	c.appendQueueSize = v.GetUint("append.queue_size")

	return nil
}

func (c *ServeCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
	)

	// Document store backing the graph collections.
	driver, err := c.newStoreDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	// Messaging clients for the episode append path. Exactly one
	// capability is exposed, per the configured generation.
	clients, err := messagingzep.NewClients(messagingzep.Config{
		URL:        c.apiURL,
		APIKey:     c.apiKey,
		Generation: c.generation,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating messaging clients: %w", err)
	}

	// Worker pool offloading blocking cloud appends.
	pool, err := worker.NewPool(&worker.Config{
		NumWorkers: c.appendWorkers,
		QueueSize:  c.appendQueueSize,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Close()

	// Memory event publisher.
	events, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: c.eventsProvider,
		Brokers:      splitBrokers(c.eventsBrokers),
		Topic:        c.eventsTopic,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer events.Close()

	service, err := graph.NewService(&graph.Config{
		Store:   driver,
		Clients: clients,
		Pool:    pool,
		Events:  events,
		Collections: graph.Collections{
			Nodes:    c.v.GetString("collections.nodes"),
			Edges:    c.v.GetString("collections.edges"),
			Episodes: c.v.GetString("collections.episodes"),
		},
		DefaultGroupID: c.groupID,
		Logger:         c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating memory service: %w", err)
	}

	mcpServer, err := mcpapi.NewServer(mcpapi.Config{
		Service: service,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr: c.listen,
	}, mcpServer, service, c.logger)

	c.logger.Info("starting graphzep server",
		"listen", c.listen,
		"store", c.storeProvider,
		"generation", c.generation,
		"group_id", c.groupID,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}

// newStoreDriver builds the configured document store driver, including the
// embedder for providers that embed locally.
func (c *ServeCommander) newStoreDriver() (store.Driver, error) {
	var embedder embeddings.Embedder
	if c.storeProvider == "qdrant" {
		var err error
		embedder, err = embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
			ProviderType: c.embeddingProvider,
			TargetURL:    c.embeddingTarget,
			Model:        c.embeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
	}

	target := c.storeTarget
	if c.storeProvider == "zep" && target == "" {
		target = c.apiURL
	}

	driver, err := storeutils.NewDriver(&storeutils.NewDriverOpts{
		ProviderType: c.storeProvider,
		TargetURL:    target,
		APIKey:       c.apiKey,
		Embedder:     embedder,
		Dimensions:   c.v.GetUint64("embedding.dimensions"),
		Logger:       c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating store driver: %w", err)
	}
	return driver, nil
}

// splitBrokers parses a comma-separated broker list, dropping empty entries.
func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
