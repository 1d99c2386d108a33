package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands.
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagListen        = "listen"
	FlagAPIKey        = "api-key"
	FlagAPIURL        = "api-url"
	FlagGeneration    = "generation"
	FlagGroupID       = "group-id"
	FlagStoreProv     = "store-provider"
	FlagStoreTgt      = "store-target"
	FlagEmbeddingProv = "embedding-provider"
	FlagEmbeddingTgt  = "embedding-target"
	FlagEmbeddingMdl  = "embedding-model"
	FlagEventsProv    = "events-provider"
	FlagEventsBrokers = "events-brokers"
	FlagEventsTopic   = "events-topic"
	FlagAppendWorkers = "append-workers"
	FlagAppendQueue   = "append-queue-size"
)

// ServeFlags is the flag registry for the serve command.
var ServeFlags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address for the MCP server to listen on",
	},
	FlagAPIKey: {
		Name:        "api-key",
		ViperKey:    "zep.api_key",
		Description: "Zep API key",
	},
	FlagAPIURL: {
		Name:        "api-url",
		ViperKey:    "zep.api_url",
		Description: "Zep API base URL",
	},
	FlagGeneration: {
		Name:        "generation",
		ViperKey:    "zep.generation",
		Description: "Zep message-append surface (cloud, thread, threads, messages)",
	},
	FlagGroupID: {
		Name:        "group-id",
		Shorthand:   "g",
		ViperKey:    "group.default_id",
		Description: "Default group id applied when tool calls omit one",
	},
	FlagStoreProv: {
		Name:        "store-provider",
		ViperKey:    "store.provider",
		Description: "Document store provider (zep, qdrant, inmemory)",
	},
	FlagStoreTgt: {
		Name:        "store-target",
		ViperKey:    "store.target",
		Description: "Document store target (host:port for qdrant)",
	},
	FlagEmbeddingProv: {
		Name:        "embedding-provider",
		ViperKey:    "embedding.provider",
		Description: "Embedding provider used by the qdrant store (ollama)",
	},
	FlagEmbeddingTgt: {
		Name:        "embedding-target",
		ViperKey:    "embedding.target",
		Description: "Embedding provider URL",
	},
	FlagEmbeddingMdl: {
		Name:        "embedding-model",
		ViperKey:    "embedding.model",
		Description: "Embedding model name",
	},
	FlagEventsProv: {
		Name:        "events-provider",
		ViperKey:    "events.provider",
		Description: "Memory event publisher (nop, kafka)",
	},
	FlagEventsBrokers: {
		Name:        "events-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma-separated kafka broker addresses",
	},
	FlagEventsTopic: {
		Name:        "events-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for memory events",
	},
	FlagAppendWorkers: {
		Name:        "append-workers",
		ViperKey:    "append.workers",
		Description: "Number of workers offloading cloud message appends",
	},
	FlagAppendQueue: {
		Name:        "append-queue-size",
		ViperKey:    "append.queue_size",
		Description: "Capacity of the append offload queue",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
