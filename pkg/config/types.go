package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent graphzep configuration stored as
// config.toml in the .graphzep/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Zep         ZepConfig         `toml:"zep"`
	Collections CollectionsConfig `toml:"collections"`
	Group       GroupConfig       `toml:"group"`
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Events      EventsConfig      `toml:"events"`
	Append      AppendConfig      `toml:"append"`
}

// ZepConfig holds credentials and endpoint for the Zep backend. Generation
// selects which message-append surface the server targets (cloud, thread,
// threads, or messages).
type ZepConfig struct {
	APIKey     string `toml:"api_key,omitempty"`
	APIURL     string `toml:"api_url,omitempty"`
	Generation string `toml:"generation,omitempty"`
}

// CollectionsConfig names the three logical collections the graph emulation
// reads and writes.
type CollectionsConfig struct {
	Nodes    string `toml:"nodes,omitempty"`
	Edges    string `toml:"edges,omitempty"`
	Episodes string `toml:"episodes,omitempty"`
}

// GroupConfig holds group scoping settings. DefaultID is the process-wide
// fallback group id applied when callers omit one.
type GroupConfig struct {
	DefaultID string `toml:"default_id,omitempty"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// StoreConfig selects the document store driver.
type StoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// EmbeddingConfig holds embedding provider settings, used by store drivers
// that embed locally (qdrant).
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// EventsConfig holds memory event publishing settings.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// AppendConfig holds worker pool settings for the message append offload.
type AppendConfig struct {
	Workers   uint `toml:"workers,omitempty"`
	QueueSize uint `toml:"queue_size,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"zep.api_key": {
		get: func(c *Config) string { return c.Zep.APIKey },
		set: func(c *Config, v string) error { c.Zep.APIKey = v; return nil },
	},
	"zep.api_url": {
		get: func(c *Config) string { return c.Zep.APIURL },
		set: func(c *Config, v string) error { c.Zep.APIURL = v; return nil },
	},
	"zep.generation": {
		get: func(c *Config) string { return c.Zep.Generation },
		set: func(c *Config, v string) error { c.Zep.Generation = v; return nil },
	},
	"collections.nodes": {
		get: func(c *Config) string { return c.Collections.Nodes },
		set: func(c *Config, v string) error { c.Collections.Nodes = v; return nil },
	},
	"collections.edges": {
		get: func(c *Config) string { return c.Collections.Edges },
		set: func(c *Config, v string) error { c.Collections.Edges = v; return nil },
	},
	"collections.episodes": {
		get: func(c *Config) string { return c.Collections.Episodes },
		set: func(c *Config, v string) error { c.Collections.Episodes = v; return nil },
	},
	"group.default_id": {
		get: func(c *Config) string { return c.Group.DefaultID },
		set: func(c *Config, v string) error { c.Group.DefaultID = v; return nil },
	},
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"store.provider": {
		get: func(c *Config) string { return c.Store.Provider },
		set: func(c *Config, v string) error { c.Store.Provider = v; return nil },
	},
	"store.target": {
		get: func(c *Config) string { return c.Store.Target },
		set: func(c *Config, v string) error { c.Store.Target = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"append.workers": {
		get: func(c *Config) string {
			if c.Append.Workers == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Append.Workers), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for append.workers: %w", err)
			}
			c.Append.Workers = uint(n)
			return nil
		},
	},
	"append.queue_size": {
		get: func(c *Config) string {
			if c.Append.QueueSize == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Append.QueueSize), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for append.queue_size: %w", err)
			}
			c.Append.QueueSize = uint(n)
			return nil
		},
	},
}
