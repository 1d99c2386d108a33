package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/stackpile/graphzep/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the GRAPHZEP_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (GRAPHZEP_ZEP_API_KEY, GRAPHZEP_SERVER_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: GRAPHZEP_ZEP_API_KEY, GRAPHZEP_GROUP_DEFAULT_ID, etc.
	v.SetEnvPrefix("GRAPHZEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Zep backend
	v.SetDefault("zep.api_key", d.Zep.APIKey)
	v.SetDefault("zep.api_url", d.Zep.APIURL)
	v.SetDefault("zep.generation", d.Zep.Generation)

	// Collections
	v.SetDefault("collections.nodes", d.Collections.Nodes)
	v.SetDefault("collections.edges", d.Collections.Edges)
	v.SetDefault("collections.episodes", d.Collections.Episodes)

	// Group scoping
	v.SetDefault("group.default_id", d.Group.DefaultID)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)

	// Store
	v.SetDefault("store.provider", d.Store.Provider)
	v.SetDefault("store.target", d.Store.Target)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// Events
	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)

	// Append worker pool
	v.SetDefault("append.workers", d.Append.Workers)
	v.SetDefault("append.queue_size", d.Append.QueueSize)
}
